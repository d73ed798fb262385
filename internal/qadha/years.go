package qadha

import (
	"strconv"
	"strings"
	"time"

	apperrors "github.com/vladimiradmaev/qadha-helper/internal/errors"
)

// TotalYearsSincePuberty counts calendar years, not anniversaries.
func TotalYearsSincePuberty(dateOfPuberty, now time.Time) int {
	return floorZero(now.Year() - dateOfPuberty.Year())
}

// ParseYearsPrayed parses the free-text answer to "how many years have you
// prayed regularly".
func ParseYearsPrayed(input string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, apperrors.NewInvalidInputError("years_prayed_regularly", "must be a whole number")
	}
	if n < 0 {
		return 0, apperrors.NewInvalidInputError("years_prayed_regularly", "must not be negative")
	}
	return n, nil
}

// DeriveYearsMissed returns the years since puberty not covered by regular
// prayer. A zero result means the caller should store an all-zero debt
// without running the estimator.
func DeriveYearsMissed(dateOfPuberty time.Time, yearsPrayedRegularly int, now time.Time) (int, error) {
	if yearsPrayedRegularly < 0 {
		return 0, apperrors.NewInvalidInputError("years_prayed_regularly", "must not be negative")
	}
	total := TotalYearsSincePuberty(dateOfPuberty, now)
	if yearsPrayedRegularly > total {
		return 0, apperrors.NewInvalidInputError("years_prayed_regularly",
			"cannot exceed "+strconv.Itoa(total)+" years since puberty")
	}
	return total - yearsPrayedRegularly, nil
}
