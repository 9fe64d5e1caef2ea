package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int { return &i }

func TestFuzzyDateString(t *testing.T) {
	tests := []struct {
		name string
		in   *FuzzyDate
		want string
	}{
		{"nil", nil, ""},
		{"full", &FuzzyDate{Year: intPtr(2009), Month: intPtr(4), Day: intPtr(5)}, "2009-04-05"},
		{"year month", &FuzzyDate{Year: intPtr(2009), Month: intPtr(4)}, "2009-04"},
		{"year only", &FuzzyDate{Year: intPtr(1998)}, "1998"},
		{"birthday without year", &FuzzyDate{Month: intPtr(12), Day: intPtr(25)}, "--12-25"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.String())
		})
	}
}

func TestSourceErrorIs(t *testing.T) {
	err := NewSourceError(SourceKitsu, KindNotFound, "anime %s", "12")
	wrapped := fmt.Errorf("fetch: %w", err)

	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.False(t, errors.Is(wrapped, ErrMalformed))
	assert.Equal(t, "kitsu: not_found: anime 12", err.Error())
}

func TestAsSourceErrorDefaultsToUnavailable(t *testing.T) {
	se := AsSourceError(SourceMAL, errors.New("connection refused"))
	require.NotNil(t, se)
	assert.Equal(t, KindUnavailable, se.Kind)
	assert.Equal(t, SourceMAL, se.Source)
	assert.Nil(t, AsSourceError(SourceMAL, nil))
}

func TestParseSourceAndEntity(t *testing.T) {
	s, err := ParseSource("MyAnimeList")
	require.NoError(t, err)
	assert.Equal(t, SourceMAL, s)

	_, err = ParseSource("anidb")
	assert.Error(t, err)

	e, err := ParseEntityType("people")
	require.NoError(t, err)
	assert.Equal(t, EntityPerson, e)
}

func TestUserIDAcceptsNumbers(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"id":42,"username":"spike"}`), &u))
	assert.Equal(t, UserID("42"), u.ID)

	require.NoError(t, json.Unmarshal([]byte(`{"id":"b1c2","username":"faye"}`), &u))
	assert.Equal(t, UserID("b1c2"), u.ID)
}
