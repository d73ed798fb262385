package utils

import (
	"strconv"
	"strings"
	"time"

	apperrors "github.com/vladimiradmaev/qadha-helper/internal/errors"
)

// Accepted date layouts for chat input.
var dateLayouts = []string{"2006-01-02", "02.01.2006", "02/01/2006"}

const minYear = 1900

// ParseDate parses a user-typed calendar date. Dates in the future or
// before 1900 are rejected.
func ParseDate(field, input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, input)
		if err != nil {
			continue
		}
		if t.Year() < minYear || t.After(now) {
			return time.Time{}, apperrors.NewInvalidInputError(field, "must be a real date in the past")
		}
		return t, nil
	}
	return time.Time{}, apperrors.NewInvalidInputError(field, "must be in the format DD.MM.YYYY")
}

// ParseCount parses a whole number in [min, max].
func ParseCount(field, input string, min, max int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, apperrors.NewInvalidInputError(field, "must be a whole number")
	}
	if n < min || n > max {
		return 0, apperrors.NewInvalidInputError(field,
			"must be between "+strconv.Itoa(min)+" and "+strconv.Itoa(max))
	}
	return n, nil
}

// FormatDate renders a date the way ParseDate reads it back.
func FormatDate(t time.Time) string {
	return t.Format("02.01.2006")
}
