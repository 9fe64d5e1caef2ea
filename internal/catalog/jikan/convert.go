package jikan

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"animehub/internal/catalog"
	"animehub/pkg/models"
)

// External links Jikan exposes for an anime that point into the other catalogs.
var externalLinks = []struct {
	source  models.Source
	pattern *regexp.Regexp
}{
	{models.SourceAniList, regexp.MustCompile(`anilist\.co/anime/(\d+)`)},
	{models.SourceKitsu, regexp.MustCompile(`kitsu\.(?:io|app)/anime/(\d+)`)},
}

func convertAnime(a *Anime) *catalog.Payload {
	p := &catalog.Payload{
		Source: models.SourceMAL,
		Entity: models.EntityAnime,
		ID:     strconv.Itoa(a.MalID),
	}
	p.AddName(a.Title)
	if a.TitleEnglish != nil {
		p.AddName(*a.TitleEnglish)
	}
	p.AddName(a.TitleSynonyms...)
	if a.TitleJapanese != nil {
		p.AddName(*a.TitleJapanese)
	}

	for _, ext := range a.External {
		for _, link := range externalLinks {
			if m := link.pattern.FindStringSubmatch(ext.URL); m != nil {
				p.AddLink(link.source, m[1])
			}
		}
	}

	fields := &catalog.AnimeFields{
		Titles: models.Titles{
			Romaji:  catalog.OptString(a.Title),
			English: optPtr(a.TitleEnglish),
			Native:  optPtr(a.TitleJapanese),
		},
		Episodes: catalog.OptPositive(a.Episodes),
		Format:   optPtr(a.Type),
		Status:   optPtr(a.Status),
		Start:    fuzzy(a.Aired.Prop.From),
		End:      fuzzy(a.Aired.Prop.To),
		Poster:   catalog.OptString(a.Images.Best()),
	}
	if a.Synopsis != nil {
		fields.Synopsis = catalog.OptDescription(*a.Synopsis)
	}
	if a.Score != nil && *a.Score > 0 {
		score := *a.Score
		fields.Score = &score
	}

	genres := make([]string, 0, len(a.Genres)+len(a.Demographics))
	for _, g := range a.Genres {
		genres = append(genres, g.Name)
	}
	for _, g := range a.Demographics {
		genres = append(genres, g.Name)
	}
	fields.Genres = catalog.Compact(genres)

	tags := make([]string, 0, len(a.Themes))
	for _, th := range a.Themes {
		tags = append(tags, th.Name)
	}
	fields.Tags = catalog.Compact(tags)

	studios := make([]string, 0, len(a.Studios))
	for _, s := range a.Studios {
		studios = append(studios, s.Name)
	}
	fields.Studios = catalog.Compact(studios)

	p.Anime = fields
	return p
}

func convertCharacter(c *Character) *catalog.Payload {
	p := &catalog.Payload{
		Source: models.SourceMAL,
		Entity: models.EntityCharacter,
		ID:     strconv.Itoa(c.MalID),
	}
	p.AddName(c.Name)
	p.AddName(c.Nicknames...)
	if c.NameKanji != nil {
		p.AddName(*c.NameKanji)
	}

	fields := &catalog.CharacterFields{
		Name: models.PersonName{
			Full:   catalog.OptString(c.Name),
			Native: optPtr(c.NameKanji),
		},
		Alternatives: catalog.Compact(c.Nicknames),
		Image:        catalog.OptString(c.Images.Best()),
		Favourites:   nonNegative(c.Favorites),
	}
	if c.About != nil {
		fields.Description = catalog.OptDescription(*c.About)
	}
	for _, a := range c.Anime {
		fields.Appearances = append(fields.Appearances, models.Appearance{
			Media: stubRef(a.Anime),
			Role:  a.Role,
		})
	}
	p.Character = fields
	return p
}

func convertPerson(pe *Person) *catalog.Payload {
	p := &catalog.Payload{
		Source: models.SourceMAL,
		Entity: models.EntityPerson,
		ID:     strconv.Itoa(pe.MalID),
	}
	p.AddName(pe.Name)
	p.AddName(pe.AlternateNames...)

	fields := &catalog.PersonFields{
		Name: models.PersonName{
			Full:   catalog.OptString(pe.Name),
			Native: nativeName(pe.FamilyName, pe.GivenName),
		},
		Image:      catalog.OptString(pe.Images.Best()),
		Favourites: nonNegative(pe.Favorites),
	}
	if fields.Name.Native != nil {
		p.AddName(*fields.Name.Native)
	}
	if pe.About != nil {
		fields.Description = catalog.OptDescription(*pe.About)
	}
	if pe.Birthday != nil {
		fields.Birthday = catalog.ParseDate(*pe.Birthday)
	}
	for _, v := range pe.Voices {
		fields.VoiceRoles = append(fields.VoiceRoles, models.VoiceRole{
			Character: models.Ref{
				ID:    models.NewSourceID(models.SourceMAL, v.Character.MalID),
				Name:  v.Character.Name,
				Image: v.Character.Images.Best(),
			},
			Media: stubRef(v.Anime),
			Role:  v.Role,
		})
	}
	for _, a := range pe.Anime {
		fields.Credits = append(fields.Credits, models.StaffCredit{
			Media:    stubRef(a.Anime),
			Position: a.Position,
		})
	}
	p.Person = fields
	return p
}

func stubRef(m mediaStub) models.Ref {
	return models.Ref{
		ID:    models.NewSourceID(models.SourceMAL, m.MalID),
		Name:  m.Title,
		Image: m.Images.Best(),
	}
}

// nativeName joins family and given names the way Japanese names are written.
// Jikan only fills these in native script for non-Latin names; Latin ones are skipped.
func nativeName(family, given *string) *string {
	if family == nil || given == nil {
		return nil
	}
	joined := strings.TrimSpace(*family) + strings.TrimSpace(*given)
	for _, r := range joined {
		if r > unicode.MaxLatin1 {
			return catalog.OptString(joined)
		}
	}
	return nil
}

func fuzzy(d DateProp) *models.FuzzyDate {
	return catalog.FuzzyOrNil(&models.FuzzyDate{Year: d.Year, Month: d.Month, Day: d.Day})
}

func optPtr(s *string) *string {
	if s == nil {
		return nil
	}
	return catalog.OptString(*s)
}

func nonNegative(n *int) *int {
	if n == nil || *n < 0 {
		return nil
	}
	v := *n
	return &v
}
