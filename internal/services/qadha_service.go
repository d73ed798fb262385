package services

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"github.com/vladimiradmaev/qadha-helper/internal/database"
	apperrors "github.com/vladimiradmaev/qadha-helper/internal/errors"
	"github.com/vladimiradmaev/qadha-helper/internal/logger"
	"github.com/vladimiradmaev/qadha-helper/internal/metrics"
	"github.com/vladimiradmaev/qadha-helper/internal/qadha"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QadhaService runs the estimator over a stored profile and owns the
// persisted debt.
type QadhaService struct {
	db        *gorm.DB
	estimator *qadha.Estimator
}

func NewQadhaService(db *gorm.DB, estimator *qadha.Estimator) *QadhaService {
	if estimator == nil {
		estimator = qadha.NewEstimator()
	}
	return &QadhaService{db: db, estimator: estimator}
}

// Recalculate estimates the debt from scratch and replaces the stored one.
// The profile's years missed, the onboarding flag and every debt count are
// written in a single transaction.
func (s *QadhaService) Recalculate(ctx context.Context, userID uint, now time.Time) (qadha.PrayerDebt, error) {
	var (
		debt   qadha.PrayerDebt
		madhab string
	)
	runID := uuid.New()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stored database.QadhaProfile
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			First(&stored).Error; err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrUserNotFound
			}
			return apperrors.NewDatabaseError(err, "load qadha profile")
		}

		years, estimated, err := estimateStored(s.estimator, &stored, now)
		if err != nil {
			return err
		}
		debt = estimated
		madhab = stored.Madhab

		if err := tx.Model(&stored).Updates(map[string]interface{}{
			"years_missed":         years,
			"onboarding_completed": true,
		}).Error; err != nil {
			return apperrors.NewDatabaseError(err, "update qadha profile")
		}

		record := database.PrayerDebtRecord{
			UserID:      userID,
			Madhab:      stored.Madhab,
			RunID:       runID,
			EstimatedAt: now,
		}
		record.SetDebt(debt)
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).Create(&record).Error; err != nil {
			return apperrors.NewDatabaseError(err, "save prayer debt")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.IncEstimation(madhab)
	logger.Info("Qadha estimated", "user_id", userID, "run_id", runID, "total", debt.Total())
	return debt, nil
}

// GetDebt returns the running debt or ErrDebtNotEstimated.
func (s *QadhaService) GetDebt(ctx context.Context, userID uint) (qadha.PrayerDebt, error) {
	var record database.PrayerDebtRecord
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&record).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrDebtNotEstimated
		}
		return nil, apperrors.NewDatabaseError(err, "get prayer debt")
	}
	return record.ToDebt(), nil
}

// ResetQadha wipes the profile answers, the debt and the ledger so the user
// can onboard again.
func (s *QadhaService) ResetQadha(ctx context.Context, userID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&database.LedgerEntry{}).Error; err != nil {
			return apperrors.NewDatabaseError(err, "clear ledger")
		}
		if err := tx.Where("user_id = ?", userID).Delete(&database.PrayerDebtRecord{}).Error; err != nil {
			return apperrors.NewDatabaseError(err, "clear prayer debt")
		}
		if err := tx.Model(&database.QadhaProfile{}).
			Where("user_id = ?", userID).
			Updates(resetColumns()).Error; err != nil {
			return apperrors.NewDatabaseError(err, "reset qadha profile")
		}
		return nil
	})
	if err != nil {
		return err
	}
	logger.Info("Qadha reset", "user_id", userID)
	return nil
}

// estimateStored derives years missed from the stored answers and runs the
// estimator. Zero years missed yields an all-zero debt without estimating.
func estimateStored(estimator *qadha.Estimator, stored *database.QadhaProfile, now time.Time) (int, qadha.PrayerDebt, error) {
	if stored.DateOfPuberty == nil {
		return 0, nil, apperrors.NewInvalidInputError("date_of_puberty", "not provided")
	}
	if stored.YearsPrayedRegularly == nil {
		return 0, nil, apperrors.NewInvalidInputError("years_prayed_regularly", "not provided")
	}
	madhab, err := qadha.ParseMadhab(stored.Madhab)
	if err != nil {
		return 0, nil, err
	}

	years, err := qadha.DeriveYearsMissed(*stored.DateOfPuberty, *stored.YearsPrayedRegularly, now)
	if err != nil {
		return 0, nil, err
	}
	if years == 0 {
		return 0, qadha.ZeroDebt(madhab), nil
	}

	profile := stored.ToQadha()
	profile.YearsMissed = years
	debt, err := estimator.Estimate(profile, stored.Selection())
	if err != nil {
		return 0, nil, err
	}
	return years, debt, nil
}
