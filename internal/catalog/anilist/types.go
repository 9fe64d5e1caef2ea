package anilist

import "encoding/json"

// ============================================
// GRAPHQL ENVELOPE
// ============================================

// GraphQLRequest represents a GraphQL query request
type GraphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// GraphQLResponse represents a GraphQL response
type GraphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors,omitempty"`
}

// GraphQLError represents a GraphQL error. AniList adds the HTTP status it
// would have answered with.
type GraphQLError struct {
	Message   string                 `json:"message"`
	Status    int                    `json:"status,omitempty"`
	Locations []GraphQLErrorLocation `json:"locations,omitempty"`
}

// GraphQLErrorLocation represents error location
type GraphQLErrorLocation struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// ============================================
// API RESPONSE STRUCTURES
// ============================================

// PageInfo contains pagination metadata
type PageInfo struct {
	Total       int  `json:"total"`
	CurrentPage int  `json:"currentPage"`
	LastPage    int  `json:"lastPage"`
	HasNextPage bool `json:"hasNextPage"`
	PerPage     int  `json:"perPage"`
}

// FuzzyDate is AniList's partial date object.
type FuzzyDate struct {
	Year  *int `json:"year"`
	Month *int `json:"month"`
	Day   *int `json:"day"`
}

// TitleData contains title variants
type TitleData struct {
	English *string `json:"english"`
	Romaji  *string `json:"romaji"`
	Native  *string `json:"native"`
}

// CoverImage contains cover URLs
type CoverImage struct {
	ExtraLarge *string `json:"extraLarge"`
	Large      *string `json:"large"`
	Medium     *string `json:"medium"`
}

func (c CoverImage) Best() string {
	for _, u := range []*string{c.ExtraLarge, c.Large, c.Medium} {
		if u != nil && *u != "" {
			return *u
		}
	}
	return ""
}

// Tag represents a genre/theme tag
type Tag struct {
	Name           string `json:"name"`
	Rank           *int   `json:"rank"`
	IsMediaSpoiler bool   `json:"isMediaSpoiler"`
}

type MediaData struct {
	ID           int        `json:"id"`
	IDMal        *int       `json:"idMal"`
	Title        TitleData  `json:"title"`
	Synonyms     []string   `json:"synonyms"`
	Description  *string    `json:"description"`
	Format       *string    `json:"format"` // TV, MOVIE, OVA, ...
	Status       *string    `json:"status"` // FINISHED, RELEASING, NOT_YET_RELEASED, CANCELLED, HIATUS
	Episodes     *int       `json:"episodes"`
	AverageScore *int       `json:"averageScore"` // 0-100
	Genres       []string   `json:"genres"`
	Tags         []Tag      `json:"tags"`
	Studios      struct {
		Nodes []struct {
			Name string `json:"name"`
		} `json:"nodes"`
	} `json:"studios"`
	StartDate         *FuzzyDate `json:"startDate"`
	EndDate           *FuzzyDate `json:"endDate"`
	CoverImage        CoverImage `json:"coverImage"`
	BannerImage       *string    `json:"bannerImage"`
	NextAiringEpisode *struct {
		Episode  int   `json:"episode"`
		AiringAt int64 `json:"airingAt"` // Unix timestamp
	} `json:"nextAiringEpisode"`
	Reviews struct {
		Nodes []struct {
			Summary *string `json:"summary"`
			Score   *int    `json:"score"` // 0-100
			SiteURL string  `json:"siteUrl"`
			User    struct {
				Name string `json:"name"`
			} `json:"user"`
		} `json:"nodes"`
	} `json:"reviews"`
}

// mediaNode is the abbreviated media inside character and staff connections.
type mediaNode struct {
	ID         int        `json:"id"`
	IDMal      *int       `json:"idMal"`
	Title      TitleData  `json:"title"`
	CoverImage CoverImage `json:"coverImage"`
}

type NameData struct {
	Full        *string  `json:"full"`
	Native      *string  `json:"native"`
	Alternative []string `json:"alternative"`
}

type ImageData struct {
	Large  *string `json:"large"`
	Medium *string `json:"medium"`
}

func (i ImageData) Best() string {
	if i.Large != nil && *i.Large != "" {
		return *i.Large
	}
	if i.Medium != nil {
		return *i.Medium
	}
	return ""
}

type CharacterData struct {
	ID          int        `json:"id"`
	Name        NameData   `json:"name"`
	Image       ImageData  `json:"image"`
	Description *string    `json:"description"`
	Gender      *string    `json:"gender"`
	DateOfBirth *FuzzyDate `json:"dateOfBirth"`
	Favourites  *int       `json:"favourites"`
	Media       struct {
		Edges []struct {
			CharacterRole string    `json:"characterRole"`
			Node          mediaNode `json:"node"`
		} `json:"edges"`
	} `json:"media"`
}

type StaffData struct {
	ID             int        `json:"id"`
	Name           NameData   `json:"name"`
	Image          ImageData  `json:"image"`
	Description    *string    `json:"description"`
	DateOfBirth    *FuzzyDate `json:"dateOfBirth"`
	Favourites     *int       `json:"favourites"`
	LanguageV2     *string    `json:"languageV2"`
	CharacterMedia struct {
		Edges []struct {
			CharacterRole string    `json:"characterRole"`
			Node          mediaNode `json:"node"`
			Characters    []struct {
				ID    int       `json:"id"`
				Name  NameData  `json:"name"`
				Image ImageData `json:"image"`
			} `json:"characters"`
		} `json:"edges"`
	} `json:"characterMedia"`
	StaffMedia struct {
		Edges []struct {
			StaffRole string    `json:"staffRole"`
			Node      mediaNode `json:"node"`
		} `json:"edges"`
	} `json:"staffMedia"`
}

// Response wrappers keyed by the GraphQL root field.

type mediaResponse struct {
	Media *MediaData `json:"Media"`
}

type characterResponse struct {
	Character *CharacterData `json:"Character"`
}

type staffResponse struct {
	Staff *StaffData `json:"Staff"`
}

type searchResponse struct {
	Page struct {
		PageInfo   PageInfo        `json:"pageInfo"`
		Media      []MediaData     `json:"media"`
		Characters []CharacterData `json:"characters"`
		Staff      []StaffData     `json:"staff"`
	} `json:"Page"`
}
