package catalog

import (
	"strings"
	"time"

	"animehub/pkg/models"
)

// ParseDate reads "2006-01-02" or an RFC 3339 timestamp into a FuzzyDate.
func ParseDate(s string) *models.FuzzyDate {
	s = strings.TrimSpace(s)
	if len(s) < 10 {
		return nil
	}
	t, err := time.Parse("2006-01-02", s[:10])
	if err != nil {
		return nil
	}
	year, month, day := t.Year(), int(t.Month()), t.Day()
	return &models.FuzzyDate{Year: &year, Month: &month, Day: &day}
}

// FuzzyOrNil drops dates with no known component.
func FuzzyOrNil(fd *models.FuzzyDate) *models.FuzzyDate {
	if fd.IsZero() {
		return nil
	}
	return fd
}
