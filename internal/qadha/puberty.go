package qadha

import (
	"time"

	apperrors "github.com/vladimiradmaev/qadha-helper/internal/errors"
)

const (
	MinPubertyAge = 9
	MaxPubertyAge = 16
)

// PubertyFromAge returns the date the user reached the given age.
func PubertyFromAge(dateOfBirth time.Time, age int) (time.Time, error) {
	if age < MinPubertyAge || age > MaxPubertyAge {
		return time.Time{}, apperrors.NewInvalidInputError("puberty_age", "must be between 9 and 16")
	}
	return dateOfBirth.AddDate(age, 0, 0), nil
}

// IslamicDefaultPuberty is used when the user does not know their age at
// puberty: 14 years and 8 months after birth.
func IslamicDefaultPuberty(dateOfBirth time.Time) time.Time {
	return dateOfBirth.AddDate(14, 8, 0)
}

func ValidatePuberty(dateOfBirth, dateOfPuberty time.Time) error {
	if dateOfPuberty.Before(dateOfBirth) {
		return apperrors.NewInvalidInputError("date_of_puberty", "must not be before date of birth")
	}
	return nil
}
