// Package catalog defines the contract shared by the external catalog clients
// and the source-tagged payload they produce.
package catalog

import (
	"context"
	"strings"

	"animehub/pkg/models"
)

// Client is a thin typed wrapper around one external catalog. Every error it
// returns is a *models.SourceError; clients never retry.
type Client interface {
	Source() models.Source
	Supports(entity models.EntityType) bool
	FetchByID(ctx context.Context, entity models.EntityType, id string) (*Payload, error)
	Search(ctx context.Context, entity models.EntityType, text string, page int) ([]Payload, error)
}

// ForeignLookup is implemented by catalogs that index other catalogs' ids.
// It returns the id in the implementing catalog's space.
type ForeignLookup interface {
	LookupForeign(ctx context.Context, entity models.EntityType, foreign models.SourceID) (string, error)
}

// Payload is one catalog's view of an entity, converted to Go types but not
// yet merged. Scores stay on the catalog's native scale.
type Payload struct {
	Source models.Source
	Entity models.EntityType
	ID     string
	// Names holds human-readable titles or names, most preferred first.
	Names []string
	// Links are cross-references to the same entity in other catalogs.
	Links map[models.Source]string

	Anime     *AnimeFields
	Character *CharacterFields
	Person    *PersonFields
}

func (p *Payload) SourceID() models.SourceID {
	return models.SourceID{Source: p.Source, Value: p.ID}
}

// Key returns the name used for fallback searches in other catalogs.
func (p *Payload) Key() string {
	for _, n := range p.Names {
		if n = strings.TrimSpace(n); n != "" {
			return n
		}
	}
	return ""
}

func (p *Payload) Link(target models.Source) (string, bool) {
	id, ok := p.Links[target]
	return id, ok && id != ""
}

func (p *Payload) AddLink(target models.Source, id string) {
	id = strings.TrimSpace(id)
	if id == "" || id == "0" || target == p.Source {
		return
	}
	if p.Links == nil {
		p.Links = make(map[models.Source]string)
	}
	if _, exists := p.Links[target]; !exists {
		p.Links[target] = id
	}
}

// AddName appends a name unless it is blank or already present.
func (p *Payload) AddName(names ...string) {
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		dup := false
		for _, existing := range p.Names {
			if strings.EqualFold(existing, name) {
				dup = true
				break
			}
		}
		if !dup {
			p.Names = append(p.Names, name)
		}
	}
}

type AnimeFields struct {
	Titles      models.Titles
	Synopsis    *string
	Score       *float64
	Episodes    *int
	Format      *string
	Status      *string
	Genres      []string
	Studios     []string
	Tags        []string
	Start       *models.FuzzyDate
	End         *models.FuzzyDate
	Poster      *string
	Banner      *string
	NextEpisode *models.NextEpisode
	Reviews     []RawReview
}

// RawReview is a review whose score is still on the catalog's scale.
type RawReview struct {
	Author  string
	Summary string
	URL     string
	Score   *float64
}

type CharacterFields struct {
	Name         models.PersonName
	Alternatives []string
	Description  *string
	Image        *string
	Gender       *string
	DateOfBirth  *models.FuzzyDate
	Favourites   *int
	Appearances  []models.Appearance
}

type PersonFields struct {
	Name        models.PersonName
	Image       *string
	Description *string
	Birthday    *models.FuzzyDate
	Favourites  *int
	VoiceRoles  []models.VoiceRole
	Credits     []models.StaffCredit
}
