package merge

import (
	"animehub/internal/catalog"
	"animehub/pkg/models"
)

func personRule(field string, order []models.Source, take func(pf *catalog.PersonFields, r *models.PersonRecord) bool) Rule[models.PersonRecord] {
	return Rule[models.PersonRecord]{
		Field: field,
		Order: order,
		Take: func(p *catalog.Payload, r *models.PersonRecord) bool {
			return p.Person != nil && take(p.Person, r)
		},
	}
}

var personRules = []Rule[models.PersonRecord]{
	personRule("name.full", malFirst, func(pf *catalog.PersonFields, r *models.PersonRecord) bool {
		return setString(&r.Name.Full, pf.Name.Full)
	}),
	personRule("name.native", anilistFirst, func(pf *catalog.PersonFields, r *models.PersonRecord) bool {
		return setString(&r.Name.Native, pf.Name.Native)
	}),
	personRule("image", anilistFirst, func(pf *catalog.PersonFields, r *models.PersonRecord) bool {
		return setString(&r.Image, pf.Image)
	}),
	personRule("description", anilistFirst, func(pf *catalog.PersonFields, r *models.PersonRecord) bool {
		return setString(&r.Description, pf.Description)
	}),
	personRule("birthday", anilistFirst, func(pf *catalog.PersonFields, r *models.PersonRecord) bool {
		return setDate(&r.Birthday, pf.Birthday)
	}),
	personRule("favourites", []models.Source{models.SourceAniList, models.SourceMAL}, func(pf *catalog.PersonFields, r *models.PersonRecord) bool {
		return setInt(&r.Favourites, pf.Favourites)
	}),
	personRule("voice_roles", []models.Source{models.SourceAniList, models.SourceMAL}, func(pf *catalog.PersonFields, r *models.PersonRecord) bool {
		return setSlice(&r.VoiceRoles, pf.VoiceRoles)
	}),
	personRule("credits", []models.Source{models.SourceAniList, models.SourceMAL}, func(pf *catalog.PersonFields, r *models.PersonRecord) bool {
		return setSlice(&r.Credits, pf.Credits)
	}),
}

func MergePerson(primary models.SourceID, payloads map[models.Source]*catalog.Payload) (*models.PersonRecord, Provenance) {
	rec := &models.PersonRecord{IDs: ids(primary, payloads)}
	prov := apply(personRules, payloads, rec)
	return rec, prov
}
