package kitsu

import "encoding/json"

// ============================================
// JSON:API DOCUMENT
// ============================================

// document is a JSON:API top-level document. Data is a single resource for
// by-id requests and an array for collections, so it is decoded lazily.
type document struct {
	Data     json.RawMessage `json:"data"`
	Included []resource      `json:"included"`
	Errors   []apiError      `json:"errors"`
	Meta     struct {
		Count int `json:"count"`
	} `json:"meta"`
}

type resource struct {
	ID            string                  `json:"id"`
	Type          string                  `json:"type"`
	Attributes    json.RawMessage         `json:"attributes"`
	Relationships map[string]relationship `json:"relationships"`
}

type relationship struct {
	Data json.RawMessage `json:"data"`
}

// identifier is a resource linkage: {"type": "anime", "id": "1"}.
type identifier struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type apiError struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Code   string `json:"code"`
	Status string `json:"status"`
}

// ============================================
// ATTRIBUTES
// ============================================

type imageSet struct {
	Tiny     *string `json:"tiny"`
	Small    *string `json:"small"`
	Medium   *string `json:"medium"`
	Large    *string `json:"large"`
	Original *string `json:"original"`
}

// Best returns the largest available rendition.
func (i *imageSet) Best() string {
	if i == nil {
		return ""
	}
	for _, u := range []*string{i.Original, i.Large, i.Medium, i.Small, i.Tiny} {
		if u != nil && *u != "" {
			return *u
		}
	}
	return ""
}

type animeAttributes struct {
	CanonicalTitle    string            `json:"canonicalTitle"`
	Titles            map[string]string `json:"titles"` // en, en_jp, ja_jp, ...
	AbbreviatedTitles []string          `json:"abbreviatedTitles"`
	Synopsis          *string           `json:"synopsis"`
	AverageRating     *string           `json:"averageRating"` // decimal string, 0-100
	StartDate         *string           `json:"startDate"`
	EndDate           *string           `json:"endDate"`
	Subtype           *string           `json:"subtype"`
	Status            *string           `json:"status"`
	EpisodeCount      *int              `json:"episodeCount"`
	PosterImage       *imageSet         `json:"posterImage"`
	CoverImage        *imageSet         `json:"coverImage"`
}

type mappingAttributes struct {
	ExternalSite string `json:"externalSite"`
	ExternalID   string `json:"externalId"`
}

type categoryAttributes struct {
	Title string `json:"title"`
}

type characterAttributes struct {
	CanonicalName string            `json:"canonicalName"`
	Names         map[string]string `json:"names"`
	OtherNames    []string          `json:"otherNames"`
	Description   *string           `json:"description"`
	Image         *imageSet         `json:"image"`
	MalID         *int              `json:"malId"`
}

type personAttributes struct {
	Name          string            `json:"name"`
	CanonicalName string            `json:"canonicalName"`
	Names         map[string]string `json:"names"`
	OtherNames    []string          `json:"otherNames"`
	Description   *string           `json:"description"`
	Image         *imageSet         `json:"image"`
	Birthday      *string           `json:"birthday"`
	MalID         *int              `json:"malId"`
}
