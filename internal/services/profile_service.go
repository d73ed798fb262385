package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/vladimiradmaev/qadha-helper/internal/database"
	apperrors "github.com/vladimiradmaev/qadha-helper/internal/errors"
	"github.com/vladimiradmaev/qadha-helper/internal/qadha"
	"gorm.io/gorm"
)

// Profile columns writable through UpdateProfile.
const (
	FieldDateOfBirth           = "date_of_birth"
	FieldDateOfPuberty         = "date_of_puberty"
	FieldPubertySource         = "puberty_source"
	FieldGender                = "gender"
	FieldMadhab                = "madhab"
	FieldHasChildbirthHistory  = "has_childbirth_history"
	FieldCycleLengthDays       = "cycle_length_days"
	FieldNumberOfChildren      = "number_of_children"
	FieldPostNatalBleedingDays = "post_natal_bleeding_days"
	FieldYearsPrayedRegularly  = "years_prayed_regularly"
)

var profileFields = map[string]bool{
	FieldDateOfBirth:           true,
	FieldDateOfPuberty:         true,
	FieldPubertySource:         true,
	FieldGender:                true,
	FieldMadhab:                true,
	FieldHasChildbirthHistory:  true,
	FieldCycleLengthDays:       true,
	FieldNumberOfChildren:      true,
	FieldPostNatalBleedingDays: true,
	FieldYearsPrayedRegularly:  true,
}

// ProfileService persists the onboarding answers one step at a time.
type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

// GetProfile returns the user's profile, creating an empty one on first use.
func (s *ProfileService) GetProfile(ctx context.Context, userID uint) (*database.QadhaProfile, error) {
	var profile database.QadhaProfile
	if err := s.db.WithContext(ctx).
		Where(database.QadhaProfile{UserID: userID}).
		FirstOrCreate(&profile).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err, "get qadha profile")
	}
	return &profile, nil
}

// UpdateProfile writes the given columns. Unknown columns are rejected
// before anything is written.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uint, fields map[string]interface{}) error {
	if err := checkProfileFields(fields); err != nil {
		return err
	}
	if _, err := s.GetProfile(ctx, userID); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).
		Model(&database.QadhaProfile{}).
		Where("user_id = ?", userID).
		Updates(fields).Error; err != nil {
		return apperrors.NewDatabaseError(err, "update qadha profile")
	}
	return nil
}

// SaveSelection stores the participation selection snapshot.
func (s *ProfileService) SaveSelection(ctx context.Context, userID uint, selection qadha.Selection) error {
	if err := s.db.WithContext(ctx).
		Model(&database.QadhaProfile{}).
		Where("user_id = ?", userID).
		Updates(selectionColumns(selection)).Error; err != nil {
		return apperrors.NewDatabaseError(err, "save prayer selection")
	}
	return nil
}

func checkProfileFields(fields map[string]interface{}) error {
	if len(fields) == 0 {
		return apperrors.NewInvalidInputError("fields", "nothing to update")
	}
	unknown := make([]string, 0)
	for name := range fields {
		if !profileFields[name] {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return apperrors.NewInvalidInputError("fields", fmt.Sprintf("unknown profile fields %v", unknown))
	}
	if v, ok := fields[FieldCycleLengthDays].(int); ok {
		if err := qadha.ValidateCycleLength(v); err != nil {
			return err
		}
	}
	for _, name := range []string{FieldNumberOfChildren, FieldPostNatalBleedingDays, FieldYearsPrayedRegularly} {
		if v, ok := fields[name].(int); ok && v < 0 {
			return apperrors.NewInvalidInputError(name, "must not be negative")
		}
	}
	return nil
}

func selectionColumns(selection qadha.Selection) map[string]interface{} {
	return map[string]interface{}{
		"selected_prayers": selection.EncodePrayers(),
		"jummah":           selection.PrayedJummahInsteadOfDhuhr(),
		"ramadan_only":     selection.OnlyDuringRamadan(),
	}
}

// resetColumns clears every onboarding answer.
func resetColumns() map[string]interface{} {
	return map[string]interface{}{
		FieldDateOfBirth:           nil,
		FieldDateOfPuberty:         nil,
		FieldPubertySource:         "",
		FieldGender:                "",
		FieldMadhab:                "",
		FieldHasChildbirthHistory:  false,
		FieldCycleLengthDays:       nil,
		FieldNumberOfChildren:      0,
		FieldPostNatalBleedingDays: 0,
		FieldYearsPrayedRegularly:  nil,
		"years_missed":             0,
		"selected_prayers":         "",
		"jummah":                   false,
		"ramadan_only":             false,
		"onboarding_completed":     false,
	}
}
