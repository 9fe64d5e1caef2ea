package anilist

import (
	"strconv"
	"strings"
	"time"

	"animehub/internal/catalog"
	"animehub/pkg/models"
)

func convertMedia(m *MediaData) *catalog.Payload {
	p := &catalog.Payload{
		Source: models.SourceAniList,
		Entity: models.EntityAnime,
		ID:     strconv.Itoa(m.ID),
	}
	for _, t := range []*string{m.Title.Romaji, m.Title.English, m.Title.Native} {
		if t != nil {
			p.AddName(*t)
		}
	}
	p.AddName(m.Synonyms...)
	if m.IDMal != nil {
		p.AddLink(models.SourceMAL, strconv.Itoa(*m.IDMal))
	}

	fields := &catalog.AnimeFields{
		Titles: models.Titles{
			Romaji:  optPtr(m.Title.Romaji),
			English: optPtr(m.Title.English),
			Native:  optPtr(m.Title.Native),
		},
		Episodes: catalog.OptPositive(m.Episodes),
		Format:   optPtr(m.Format),
		Status:   optPtr(m.Status),
		Genres:   catalog.Compact(m.Genres),
		Start:    fuzzy(m.StartDate),
		End:      fuzzy(m.EndDate),
		Poster:   catalog.OptString(m.CoverImage.Best()),
		Banner:   optPtr(m.BannerImage),
	}
	if m.Description != nil {
		fields.Synopsis = catalog.OptDescription(*m.Description)
	}
	if m.AverageScore != nil && *m.AverageScore > 0 {
		score := float64(*m.AverageScore)
		fields.Score = &score
	}

	tags := make([]string, 0, len(m.Tags))
	for _, t := range m.Tags {
		if !t.IsMediaSpoiler {
			tags = append(tags, t.Name)
		}
	}
	fields.Tags = catalog.Compact(tags)

	studios := make([]string, 0, len(m.Studios.Nodes))
	for _, s := range m.Studios.Nodes {
		studios = append(studios, s.Name)
	}
	fields.Studios = catalog.Compact(studios)

	if ne := m.NextAiringEpisode; ne != nil && ne.AiringAt > 0 {
		fields.NextEpisode = &models.NextEpisode{
			Episode:  ne.Episode,
			AiringAt: time.Unix(ne.AiringAt, 0).UTC(),
		}
	}

	for _, r := range m.Reviews.Nodes {
		review := catalog.RawReview{Author: r.User.Name, URL: r.SiteURL}
		if r.Summary != nil {
			review.Summary = strings.TrimSpace(*r.Summary)
		}
		if r.Score != nil {
			s := float64(*r.Score)
			review.Score = &s
		}
		fields.Reviews = append(fields.Reviews, review)
	}

	p.Anime = fields
	return p
}

func convertCharacter(c *CharacterData) *catalog.Payload {
	p := &catalog.Payload{
		Source: models.SourceAniList,
		Entity: models.EntityCharacter,
		ID:     strconv.Itoa(c.ID),
	}
	addNames(p, c.Name)

	fields := &catalog.CharacterFields{
		Name:         personName(c.Name),
		Alternatives: catalog.Compact(c.Name.Alternative),
		Image:        catalog.OptString(c.Image.Best()),
		Gender:       optPtr(c.Gender),
		DateOfBirth:  fuzzy(c.DateOfBirth),
		Favourites:   nonNegative(c.Favourites),
	}
	if c.Description != nil {
		fields.Description = catalog.OptDescription(stripSpoilers(*c.Description))
	}
	for _, e := range c.Media.Edges {
		fields.Appearances = append(fields.Appearances, models.Appearance{
			Media: nodeRef(e.Node),
			Role:  e.CharacterRole,
		})
	}
	p.Character = fields
	return p
}

func convertStaff(s *StaffData) *catalog.Payload {
	p := &catalog.Payload{
		Source: models.SourceAniList,
		Entity: models.EntityPerson,
		ID:     strconv.Itoa(s.ID),
	}
	addNames(p, s.Name)

	fields := &catalog.PersonFields{
		Name:       personName(s.Name),
		Image:      catalog.OptString(s.Image.Best()),
		Birthday:   fuzzy(s.DateOfBirth),
		Favourites: nonNegative(s.Favourites),
	}
	if s.Description != nil {
		fields.Description = catalog.OptDescription(*s.Description)
	}
	language := ""
	if s.LanguageV2 != nil {
		language = *s.LanguageV2
	}
	for _, e := range s.CharacterMedia.Edges {
		for _, ch := range e.Characters {
			name := ""
			if ch.Name.Full != nil {
				name = *ch.Name.Full
			}
			fields.VoiceRoles = append(fields.VoiceRoles, models.VoiceRole{
				Character: models.Ref{
					ID:    models.NewSourceID(models.SourceAniList, ch.ID),
					Name:  name,
					Image: ch.Image.Best(),
				},
				Media:    nodeRef(e.Node),
				Role:     e.CharacterRole,
				Language: language,
			})
		}
	}
	for _, e := range s.StaffMedia.Edges {
		fields.Credits = append(fields.Credits, models.StaffCredit{
			Media:    nodeRef(e.Node),
			Position: e.StaffRole,
		})
	}
	p.Person = fields
	return p
}

func addNames(p *catalog.Payload, n NameData) {
	if n.Full != nil {
		p.AddName(*n.Full)
	}
	p.AddName(n.Alternative...)
	if n.Native != nil {
		p.AddName(*n.Native)
	}
}

func personName(n NameData) models.PersonName {
	return models.PersonName{Full: optPtr(n.Full), Native: optPtr(n.Native)}
}

func nodeRef(n mediaNode) models.Ref {
	name := ""
	if n.Title.Romaji != nil {
		name = *n.Title.Romaji
	}
	return models.Ref{
		ID:    models.NewSourceID(models.SourceAniList, n.ID),
		Name:  name,
		Image: n.CoverImage.Best(),
	}
}

// stripSpoilers drops AniList's ~!spoiler!~ blocks from character descriptions.
func stripSpoilers(s string) string {
	for {
		start := strings.Index(s, "~!")
		if start < 0 {
			return s
		}
		end := strings.Index(s[start:], "!~")
		if end < 0 {
			return s[:start]
		}
		s = s[:start] + s[start+end+2:]
	}
}

func fuzzy(d *FuzzyDate) *models.FuzzyDate {
	if d == nil {
		return nil
	}
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
