package qadha

import (
	"time"

	apperrors "github.com/vladimiradmaev/qadha-helper/internal/errors"
)

const (
	MinCycleLengthDays = 3
	MaxCycleLengthDays = 10
)

// UserProfile is the estimator's view of a user's history.
type UserProfile struct {
	DateOfBirth   time.Time
	DateOfPuberty time.Time
	Gender        Gender
	Madhab        Madhab

	// CycleLengthDays is nil unless a female user reported childbirth
	// history before she started praying regularly.
	CycleLengthDays       *int
	NumberOfChildren      int
	PostNatalBleedingDays int

	YearsPrayedRegularly int
	YearsMissed          int
}

// HasCycleData reports whether the female adjustment applies.
func (p UserProfile) HasCycleData() bool {
	return p.Gender == GenderFemale && p.CycleLengthDays != nil
}

// Validate checks every field Estimate depends on. Cycle, children and
// bleeding values are only checked when HasCycleData is true.
func (p UserProfile) Validate() error {
	if !p.Gender.Valid() {
		return apperrors.NewInvalidInputError("gender", "must be male or female")
	}
	if !p.Madhab.Valid() {
		return apperrors.NewInvalidInputError("madhab", "unknown madhab "+string(p.Madhab))
	}
	if p.YearsMissed < 0 {
		return apperrors.NewInvalidInputError("years_missed", "must not be negative")
	}
	if !p.DateOfBirth.IsZero() && !p.DateOfPuberty.IsZero() {
		if err := ValidatePuberty(p.DateOfBirth, p.DateOfPuberty); err != nil {
			return err
		}
	}
	if !p.HasCycleData() {
		return nil
	}
	if err := ValidateCycleLength(*p.CycleLengthDays); err != nil {
		return err
	}
	if p.NumberOfChildren < 0 {
		return apperrors.NewInvalidInputError("number_of_children", "must not be negative")
	}
	if p.PostNatalBleedingDays < 0 {
		return apperrors.NewInvalidInputError("post_natal_bleeding_days", "must not be negative")
	}
	return nil
}

func ValidateCycleLength(days int) error {
	if days < MinCycleLengthDays || days > MaxCycleLengthDays {
		return apperrors.NewInvalidInputError("cycle_length_days", "must be between 3 and 10")
	}
	return nil
}
