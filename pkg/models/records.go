package models

import (
	"fmt"
	"time"
)

// FuzzyDate is a date with optional components. Catalogs often know only the
// year, or the month and day of a birthday without the year.
type FuzzyDate struct {
	Year  *int `json:"year,omitempty"`
	Month *int `json:"month,omitempty"`
	Day   *int `json:"day,omitempty"`
}

// IsZero reports whether no component is known.
func (fd *FuzzyDate) IsZero() bool {
	return fd == nil || (fd.Year == nil && fd.Month == nil && fd.Day == nil)
}

// String renders the known components: "2009-04-05", "2009-04", "2009" or "--04-05".
func (fd *FuzzyDate) String() string {
	if fd.IsZero() {
		return ""
	}
	switch {
	case fd.Year != nil && fd.Month != nil && fd.Day != nil:
		return fmt.Sprintf("%04d-%02d-%02d", *fd.Year, *fd.Month, *fd.Day)
	case fd.Year != nil && fd.Month != nil:
		return fmt.Sprintf("%04d-%02d", *fd.Year, *fd.Month)
	case fd.Year != nil:
		return fmt.Sprintf("%04d", *fd.Year)
	case fd.Month != nil && fd.Day != nil:
		return fmt.Sprintf("--%02d-%02d", *fd.Month, *fd.Day)
	default:
		return ""
	}
}

// ToTime converts the date to time.Time when the year is known.
func (fd *FuzzyDate) ToTime() *time.Time {
	if fd == nil || fd.Year == nil {
		return nil
	}
	month, day := 1, 1
	if fd.Month != nil {
		month = *fd.Month
	}
	if fd.Day != nil {
		day = *fd.Day
	}
	t := time.Date(*fd.Year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return &t
}

// Titles holds the title variants of a media entry.
type Titles struct {
	Romaji  *string `json:"romaji,omitempty"`
	English *string `json:"english,omitempty"`
	Native  *string `json:"native,omitempty"`
}

type DateRange struct {
	Start *FuzzyDate `json:"start,omitempty"`
	End   *FuzzyDate `json:"end,omitempty"`
}

type Images struct {
	Poster *string `json:"poster,omitempty"`
	Banner *string `json:"banner,omitempty"`
}

// NextEpisode is the next scheduled airing of a running show.
type NextEpisode struct {
	Episode  int       `json:"episode"`
	AiringAt time.Time `json:"airing_at"`
}

// Review is a user review. Score is on the unified 0-10 scale.
type Review struct {
	Author  string   `json:"author,omitempty"`
	Summary string   `json:"summary,omitempty"`
	Score   *float64 `json:"score,omitempty"`
	URL     string   `json:"url,omitempty"`
}

// AnimeRecord is the unified anime view. Only IDs is guaranteed; every other
// field is nil or empty when no catalog supplied it.
type AnimeRecord struct {
	IDs         []SourceID   `json:"ids"`
	Titles      Titles       `json:"titles"`
	Synopsis    *string      `json:"synopsis,omitempty"`
	Score       *float64     `json:"score,omitempty"`
	Episodes    *int         `json:"episodes,omitempty"`
	Format      *string      `json:"type,omitempty"`
	Status      *string      `json:"status,omitempty"`
	Genres      []string     `json:"genres,omitempty"`
	Studios     []string     `json:"studios,omitempty"`
	Dates       DateRange    `json:"dates"`
	Images      Images       `json:"images"`
	Tags        []string     `json:"tags,omitempty"`
	NextEpisode *NextEpisode `json:"next_episode,omitempty"`
	Reviews     []Review     `json:"reviews,omitempty"`
}

// PersonName is shared by characters and people.
type PersonName struct {
	Full   *string `json:"full,omitempty"`
	Native *string `json:"native,omitempty"`
}

// Ref points at an entity in a specific catalog.
type Ref struct {
	ID    SourceID `json:"id"`
	Name  string   `json:"name,omitempty"`
	Image string   `json:"image,omitempty"`
}

// Appearance links a character to a media entry.
type Appearance struct {
	Media Ref    `json:"media"`
	Role  string `json:"role,omitempty"`
}

// VoiceRole links a voice actor to the character they voiced and where.
type VoiceRole struct {
	Character Ref    `json:"character"`
	Media     Ref    `json:"media"`
	Role      string `json:"role,omitempty"`
	Language  string `json:"language,omitempty"`
}

// StaffCredit links a person to a media entry they worked on.
type StaffCredit struct {
	Media    Ref    `json:"media"`
	Position string `json:"position,omitempty"`
}

type CharacterRecord struct {
	IDs          []SourceID   `json:"ids"`
	Name         PersonName   `json:"name"`
	Alternatives []string     `json:"alternatives,omitempty"`
	Description  *string      `json:"description,omitempty"`
	Image        *string      `json:"image,omitempty"`
	Gender       *string      `json:"gender,omitempty"`
	DateOfBirth  *FuzzyDate   `json:"date_of_birth,omitempty"`
	Favourites   *int         `json:"favourites,omitempty"`
	Appearances  []Appearance `json:"appearances,omitempty"`
}

type PersonRecord struct {
	IDs         []SourceID    `json:"ids"`
	Name        PersonName    `json:"name"`
	Image       *string       `json:"image,omitempty"`
	Description *string       `json:"description,omitempty"`
	Birthday    *FuzzyDate    `json:"birthday,omitempty"`
	Favourites  *int          `json:"favourites,omitempty"`
	VoiceRoles  []VoiceRole   `json:"voice_roles,omitempty"`
	Credits     []StaffCredit `json:"credits,omitempty"`
}
