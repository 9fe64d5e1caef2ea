package jikan

// ============================================
// API RESPONSE STRUCTURES
// ============================================

// envelope wraps single-resource responses: {"data": {...}}.
type envelope[T any] struct {
	Data *T `json:"data"`
}

// listEnvelope wraps search responses: {"data": [...], "pagination": {...}}.
type listEnvelope[T any] struct {
	Data       []T         `json:"data"`
	Pagination *Pagination `json:"pagination"`
}

type Pagination struct {
	LastVisiblePage int  `json:"last_visible_page"`
	HasNextPage     bool `json:"has_next_page"`
	CurrentPage     int  `json:"current_page"`
	Items           struct {
		Count   int `json:"count"`
		Total   int `json:"total"`
		PerPage int `json:"per_page"`
	} `json:"items"`
}

// errorBody is Jikan's error document.
type errorBody struct {
	Status  int    `json:"status"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

type Images struct {
	JPG struct {
		ImageURL      string `json:"image_url"`
		LargeImageURL string `json:"large_image_url"`
	} `json:"jpg"`
}

func (i Images) Best() string {
	if i.JPG.LargeImageURL != "" {
		return i.JPG.LargeImageURL
	}
	return i.JPG.ImageURL
}

// Named is the {mal_id, name} shape used for genres, studios, etc.
type Named struct {
	MalID int    `json:"mal_id"`
	Name  string `json:"name"`
}

type DateProp struct {
	Day   *int `json:"day"`
	Month *int `json:"month"`
	Year  *int `json:"year"`
}

type Anime struct {
	MalID         int      `json:"mal_id"`
	URL           string   `json:"url"`
	Images        Images   `json:"images"`
	Title         string   `json:"title"`
	TitleEnglish  *string  `json:"title_english"`
	TitleJapanese *string  `json:"title_japanese"`
	TitleSynonyms []string `json:"title_synonyms"`
	Type          *string  `json:"type"`
	Episodes      *int     `json:"episodes"`
	Status        *string  `json:"status"`
	Aired         struct {
		From *string `json:"from"`
		To   *string `json:"to"`
		Prop struct {
			From DateProp `json:"from"`
			To   DateProp `json:"to"`
		} `json:"prop"`
	} `json:"aired"`
	Score        *float64 `json:"score"`
	Synopsis     *string  `json:"synopsis"`
	Genres       []Named  `json:"genres"`
	Themes       []Named  `json:"themes"`
	Demographics []Named  `json:"demographics"`
	Studios      []Named  `json:"studios"`
	External     []struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	} `json:"external"`
}

// mediaStub is the nested anime reference inside character and person documents.
type mediaStub struct {
	MalID  int    `json:"mal_id"`
	Title  string `json:"title"`
	Images Images `json:"images"`
}

type characterStub struct {
	MalID  int    `json:"mal_id"`
	Name   string `json:"name"`
	Images Images `json:"images"`
}

type Character struct {
	MalID     int      `json:"mal_id"`
	URL       string   `json:"url"`
	Images    Images   `json:"images"`
	Name      string   `json:"name"`
	NameKanji *string  `json:"name_kanji"`
	Nicknames []string `json:"nicknames"`
	Favorites *int     `json:"favorites"`
	About     *string  `json:"about"`
	Anime     []struct {
		Role  string    `json:"role"`
		Anime mediaStub `json:"anime"`
	} `json:"anime"`
}

type Person struct {
	MalID          int      `json:"mal_id"`
	URL            string   `json:"url"`
	Images         Images   `json:"images"`
	Name           string   `json:"name"`
	GivenName      *string  `json:"given_name"`
	FamilyName     *string  `json:"family_name"`
	AlternateNames []string `json:"alternate_names"`
	Birthday       *string  `json:"birthday"`
	Favorites      *int     `json:"favorites"`
	About          *string  `json:"about"`
	Anime          []struct {
		Position string    `json:"position"`
		Anime    mediaStub `json:"anime"`
	} `json:"anime"`
	Voices []struct {
		Role      string        `json:"role"`
		Anime     mediaStub     `json:"anime"`
		Character characterStub `json:"character"`
	} `json:"voices"`
}
