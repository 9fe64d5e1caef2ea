package dto

import (
	"animehub/internal/catalog"
	"animehub/pkg/models"
)

// SearchHit is one catalog search result as returned by GET /api/v1/search.
type SearchHit struct {
	Source models.Source            `json:"source"`
	Entity models.EntityType        `json:"entity"`
	ID     string                   `json:"id"`
	Name   string                   `json:"name"`
	Names  []string                 `json:"names,omitempty"`
	Links  map[models.Source]string `json:"links,omitempty"`
	Image  *string                  `json:"image,omitempty"`
}

type SearchResponse struct {
	Data   []SearchHit `json:"data"`
	Source string      `json:"source"`
	Query  string      `json:"query"`
	Page   int         `json:"page"`
	Count  int         `json:"count"`
}

// FromPayload converts a search payload to its response shape.
func FromPayload(p catalog.Payload) SearchHit {
	hit := SearchHit{
		Source: p.Source,
		Entity: p.Entity,
		ID:     p.ID,
		Name:   p.Key(),
		Names:  p.Names,
		Links:  p.Links,
	}
	switch {
	case p.Anime != nil:
		hit.Image = p.Anime.Poster
	case p.Character != nil:
		hit.Image = p.Character.Image
	case p.Person != nil:
		hit.Image = p.Person.Image
	}
	return hit
}

func FromPayloads(list []catalog.Payload) []SearchHit {
	out := make([]SearchHit, 0, len(list))
	for _, p := range list {
		out = append(out, FromPayload(p))
	}
	return out
}
