package merge

import (
	"animehub/internal/catalog"
	"animehub/pkg/models"
)

func characterRule(field string, order []models.Source, take func(c *catalog.CharacterFields, r *models.CharacterRecord) bool) Rule[models.CharacterRecord] {
	return Rule[models.CharacterRecord]{
		Field: field,
		Order: order,
		Take: func(p *catalog.Payload, r *models.CharacterRecord) bool {
			return p.Character != nil && take(p.Character, r)
		},
	}
}

var characterRules = []Rule[models.CharacterRecord]{
	characterRule("name.full", malFirst, func(c *catalog.CharacterFields, r *models.CharacterRecord) bool {
		return setString(&r.Name.Full, c.Name.Full)
	}),
	characterRule("name.native", anilistFirst, func(c *catalog.CharacterFields, r *models.CharacterRecord) bool {
		return setString(&r.Name.Native, c.Name.Native)
	}),
	characterRule("alternatives", anilistFirst, func(c *catalog.CharacterFields, r *models.CharacterRecord) bool {
		return setSlice(&r.Alternatives, c.Alternatives)
	}),
	characterRule("description", anilistFirst, func(c *catalog.CharacterFields, r *models.CharacterRecord) bool {
		return setString(&r.Description, c.Description)
	}),
	characterRule("image", anilistFirst, func(c *catalog.CharacterFields, r *models.CharacterRecord) bool {
		return setString(&r.Image, c.Image)
	}),
	characterRule("gender", []models.Source{models.SourceAniList}, func(c *catalog.CharacterFields, r *models.CharacterRecord) bool {
		return setString(&r.Gender, c.Gender)
	}),
	characterRule("date_of_birth", []models.Source{models.SourceAniList}, func(c *catalog.CharacterFields, r *models.CharacterRecord) bool {
		return setDate(&r.DateOfBirth, c.DateOfBirth)
	}),
	characterRule("favourites", []models.Source{models.SourceAniList, models.SourceMAL}, func(c *catalog.CharacterFields, r *models.CharacterRecord) bool {
		return setInt(&r.Favourites, c.Favourites)
	}),
	characterRule("appearances", anilistFirst, func(c *catalog.CharacterFields, r *models.CharacterRecord) bool {
		return setSlice(&r.Appearances, c.Appearances)
	}),
}

func MergeCharacter(primary models.SourceID, payloads map[models.Source]*catalog.Payload) (*models.CharacterRecord, Provenance) {
	rec := &models.CharacterRecord{IDs: ids(primary, payloads)}
	prov := apply(characterRules, payloads, rec)
	return rec, prov
}
