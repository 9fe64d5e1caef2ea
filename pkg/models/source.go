package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Source identifies one of the external catalogs.
type Source string

const (
	SourceMAL     Source = "mal"     // MAL-style REST catalog (Jikan)
	SourceAniList Source = "anilist" // GraphQL media graph
	SourceKitsu   Source = "kitsu"   // JSON:API poster catalog
)

// AllSources lists the catalogs in declaration order. Anything that reports
// per-source output (manifests, error lists) follows this order.
var AllSources = []Source{SourceMAL, SourceAniList, SourceKitsu}

// ParseSource accepts the canonical names plus a few common aliases.
func ParseSource(s string) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mal", "myanimelist", "jikan":
		return SourceMAL, nil
	case "anilist", "al":
		return SourceAniList, nil
	case "kitsu":
		return SourceKitsu, nil
	default:
		return "", fmt.Errorf("unknown source %q", s)
	}
}

// Rank returns the declaration index of the source, or len(AllSources) for unknown values.
func (s Source) Rank() int {
	for i, known := range AllSources {
		if known == s {
			return i
		}
	}
	return len(AllSources)
}

func (s Source) Valid() bool { return s.Rank() < len(AllSources) }

// EntityType is the kind of record being aggregated.
type EntityType string

const (
	EntityAnime     EntityType = "anime"
	EntityCharacter EntityType = "character"
	EntityPerson    EntityType = "person"
)

func ParseEntityType(s string) (EntityType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "anime":
		return EntityAnime, nil
	case "character", "characters":
		return EntityCharacter, nil
	case "person", "people", "staff":
		return EntityPerson, nil
	default:
		return "", fmt.Errorf("unknown entity type %q", s)
	}
}

// SourceID is an identifier inside one catalog's id space. Numeric ids are
// kept as their decimal string so every catalog shares one representation.
type SourceID struct {
	Source Source `json:"source"`
	Value  string `json:"value"`
}

func NewSourceID(source Source, value int) SourceID {
	return SourceID{Source: source, Value: strconv.Itoa(value)}
}

// Int returns the numeric form of the id, if it has one.
func (id SourceID) Int() (int, bool) {
	n, err := strconv.Atoi(id.Value)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func (id SourceID) IsZero() bool { return id.Source == "" && id.Value == "" }

func (id SourceID) String() string { return string(id.Source) + ":" + id.Value }

// Confidence is the trust level attached to a cross-source id.
type Confidence string

const (
	ConfidenceExact      Confidence = "exact"
	ConfidenceSearched   Confidence = "searched"
	ConfidenceAssumed    Confidence = "assumed"
	ConfidenceUnresolved Confidence = "unresolved"
)
