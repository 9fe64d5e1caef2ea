package kitsu

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"animehub/internal/catalog"
	"animehub/pkg/models"
)

// mappingSites maps Kitsu's externalSite values onto catalogs we aggregate.
var mappingSites = map[string]models.Source{
	"myanimelist/anime": models.SourceMAL,
	"anilist/anime":     models.SourceAniList,
}

func siteFor(source models.Source) (string, bool) {
	for site, s := range mappingSites {
		if s == source {
			return site, true
		}
	}
	return "", false
}

func decodeAttributes(r *resource, v any) error {
	if len(r.Attributes) == 0 {
		return models.NewSourceError(models.SourceKitsu, models.KindMalformed, "%s %s has no attributes", r.Type, r.ID)
	}
	return catalog.DecodeJSON(models.SourceKitsu, r.Attributes, v)
}

// related returns the included resources referenced by r's named relationship.
func related(r *resource, name string, included []resource) []*resource {
	rel, ok := r.Relationships[name]
	if !ok || len(rel.Data) == 0 {
		return nil
	}
	var ids []identifier
	if err := json.Unmarshal(rel.Data, &ids); err != nil {
		var one identifier
		if json.Unmarshal(rel.Data, &one) != nil || one.ID == "" {
			return nil
		}
		ids = []identifier{one}
	}
	var out []*resource
	for _, id := range ids {
		for i := range included {
			if included[i].Type == id.Type && included[i].ID == id.ID {
				out = append(out, &included[i])
				break
			}
		}
	}
	return out
}

func convertAnime(r *resource, included []resource) (*catalog.Payload, error) {
	var attrs animeAttributes
	if err := decodeAttributes(r, &attrs); err != nil {
		return nil, err
	}
	p := &catalog.Payload{Source: models.SourceKitsu, Entity: models.EntityAnime, ID: r.ID}
	p.AddName(attrs.CanonicalTitle)
	for _, key := range titleKeys(attrs.Titles) {
		p.AddName(attrs.Titles[key])
	}
	p.AddName(attrs.AbbreviatedTitles...)

	for _, m := range related(r, "mappings", included) {
		var ma mappingAttributes
		if json.Unmarshal(m.Attributes, &ma) != nil {
			continue
		}
		if source, ok := mappingSites[ma.ExternalSite]; ok {
			p.AddLink(source, ma.ExternalID)
		}
	}

	fields := &catalog.AnimeFields{
		Titles: models.Titles{
			Romaji:  catalog.OptString(attrs.Titles["en_jp"]),
			English: catalog.OptString(attrs.Titles["en"]),
			Native:  catalog.OptString(attrs.Titles["ja_jp"]),
		},
		Episodes: catalog.OptPositive(attrs.EpisodeCount),
		Format:   optPtr(attrs.Subtype),
		Status:   optPtr(attrs.Status),
		Poster:   catalog.OptString(attrs.PosterImage.Best()),
		Banner:   catalog.OptString(attrs.CoverImage.Best()),
	}
	if attrs.Synopsis != nil {
		fields.Synopsis = catalog.OptDescription(*attrs.Synopsis)
	}
	if attrs.AverageRating != nil {
		if score, err := strconv.ParseFloat(strings.TrimSpace(*attrs.AverageRating), 64); err == nil && score > 0 {
			fields.Score = &score
		}
	}
	if attrs.StartDate != nil {
		fields.Start = catalog.ParseDate(*attrs.StartDate)
	}
	if attrs.EndDate != nil {
		fields.End = catalog.ParseDate(*attrs.EndDate)
	}

	var genres []string
	for _, c := range related(r, "categories", included) {
		var ca categoryAttributes
		if json.Unmarshal(c.Attributes, &ca) == nil {
			genres = append(genres, ca.Title)
		}
	}
	fields.Genres = catalog.Compact(genres)

	p.Anime = fields
	return p, nil
}

func convertCharacter(r *resource) (*catalog.Payload, error) {
	var attrs characterAttributes
	if err := decodeAttributes(r, &attrs); err != nil {
		return nil, err
	}
	p := &catalog.Payload{Source: models.SourceKitsu, Entity: models.EntityCharacter, ID: r.ID}
	p.AddName(attrs.CanonicalName)
	for _, key := range titleKeys(attrs.Names) {
		p.AddName(attrs.Names[key])
	}
	p.AddName(attrs.OtherNames...)
	if attrs.MalID != nil {
		p.AddLink(models.SourceMAL, strconv.Itoa(*attrs.MalID))
	}

	fields := &catalog.CharacterFields{
		Name: models.PersonName{
			Full:   catalog.OptString(attrs.CanonicalName),
			Native: catalog.OptString(attrs.Names["ja_jp"]),
		},
		Alternatives: catalog.Compact(attrs.OtherNames),
		Image:        catalog.OptString(attrs.Image.Best()),
	}
	if attrs.Description != nil {
		fields.Description = catalog.OptDescription(*attrs.Description)
	}
	p.Character = fields
	return p, nil
}

func convertPerson(r *resource) (*catalog.Payload, error) {
	var attrs personAttributes
	if err := decodeAttributes(r, &attrs); err != nil {
		return nil, err
	}
	name := attrs.CanonicalName
	if name == "" {
		name = attrs.Name
	}
	p := &catalog.Payload{Source: models.SourceKitsu, Entity: models.EntityPerson, ID: r.ID}
	p.AddName(name)
	for _, key := range titleKeys(attrs.Names) {
		p.AddName(attrs.Names[key])
	}
	p.AddName(attrs.OtherNames...)
	if attrs.MalID != nil {
		p.AddLink(models.SourceMAL, strconv.Itoa(*attrs.MalID))
	}

	fields := &catalog.PersonFields{
		Name: models.PersonName{
			Full:   catalog.OptString(name),
			Native: catalog.OptString(attrs.Names["ja_jp"]),
		},
		Image: catalog.OptString(attrs.Image.Best()),
	}
	if attrs.Description != nil {
		fields.Description = catalog.OptDescription(*attrs.Description)
	}
	if attrs.Birthday != nil {
		fields.Birthday = catalog.ParseDate(*attrs.Birthday)
	}
	p.Person = fields
	return p, nil
}

// titleKeys orders localized title keys: English, romanized, native, then the rest.
func titleKeys(titles map[string]string) []string {
	preferred := []string{"en", "en_jp", "en_us", "ja_jp"}
	keys := make([]string, 0, len(titles))
	seen := make(map[string]bool, len(preferred))
	for _, k := range preferred {
		if _, ok := titles[k]; ok {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	var rest []string
	for k := range titles {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

func optPtr(s *string) *string {
	if s == nil {
		return nil
	}
	return catalog.OptString(*s)
}
