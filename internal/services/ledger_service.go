package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/vladimiradmaev/qadha-helper/internal/database"
	apperrors "github.com/vladimiradmaev/qadha-helper/internal/errors"
	"github.com/vladimiradmaev/qadha-helper/internal/metrics"
	"github.com/vladimiradmaev/qadha-helper/internal/qadha"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	maxMadeUpPerEntry = 1000
	defaultHistory    = 20
)

// LedgerService applies day-by-day adjustments to the running debt.
type LedgerService struct {
	db *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{db: db}
}

// LogMadeUp records count made-up prayers and lowers the debt accordingly.
func (s *LedgerService) LogMadeUp(ctx context.Context, userID uint, date time.Time, prayer qadha.Prayer, count int) (qadha.PrayerDebt, error) {
	if count < 1 || count > maxMadeUpPerEntry {
		return nil, apperrors.NewInvalidInputError("count", fmt.Sprintf("must be between 1 and %d", maxMadeUpPerEntry))
	}

	debt, err := s.mutate(ctx, userID, func(tx *gorm.DB, record *database.PrayerDebtRecord) (qadha.PrayerDebt, error) {
		current := record.ToDebt()
		next, err := qadha.ApplyDelta(current, prayer, -count)
		if err != nil {
			return nil, err
		}
		entry := newEntry(record, userID, date, prayer, database.LedgerKindMadeUp, next.Get(prayer)-current.Get(prayer))
		if err := tx.Create(&entry).Error; err != nil {
			return nil, apperrors.NewDatabaseError(err, "create ledger entry")
		}
		return next, nil
	})
	if err != nil {
		return nil, err
	}
	metrics.IncLedger(database.LedgerKindMadeUp)
	return debt, nil
}

// ToggleMissed marks prayer as missed on date, or unmarks it if it already
// was. It reports whether the prayer is now marked.
func (s *LedgerService) ToggleMissed(ctx context.Context, userID uint, date time.Time, prayer qadha.Prayer) (bool, qadha.PrayerDebt, error) {
	day := normalizeDate(date)
	var marked bool

	debt, err := s.mutate(ctx, userID, func(tx *gorm.DB, record *database.PrayerDebtRecord) (qadha.PrayerDebt, error) {
		current := record.ToDebt()

		var existing database.LedgerEntry
		err := tx.Where("user_id = ? AND date = ? AND prayer = ? AND kind = ?",
			userID, day, string(prayer), database.LedgerKindMissed).
			First(&existing).Error
		switch {
		case err == nil:
			next, err := qadha.ApplyDelta(current, prayer, -existing.Delta)
			if err != nil {
				return nil, err
			}
			if err := tx.Delete(&existing).Error; err != nil {
				return nil, apperrors.NewDatabaseError(err, "delete ledger entry")
			}
			marked = false
			return next, nil
		case stderrors.Is(err, gorm.ErrRecordNotFound):
			next, err := qadha.ApplyDelta(current, prayer, 1)
			if err != nil {
				return nil, err
			}
			entry := newEntry(record, userID, day, prayer, database.LedgerKindMissed, 1)
			if err := tx.Create(&entry).Error; err != nil {
				return nil, apperrors.NewDatabaseError(err, "create ledger entry")
			}
			marked = true
			return next, nil
		default:
			return nil, apperrors.NewDatabaseError(err, "look up ledger entry")
		}
	})
	if err != nil {
		return false, nil, err
	}
	metrics.IncLedger(database.LedgerKindMissed)
	return marked, debt, nil
}

// Correct sets prayer's counter to an absolute value.
func (s *LedgerService) Correct(ctx context.Context, userID uint, date time.Time, prayer qadha.Prayer, value int) (qadha.PrayerDebt, error) {
	debt, err := s.mutate(ctx, userID, func(tx *gorm.DB, record *database.PrayerDebtRecord) (qadha.PrayerDebt, error) {
		current := record.ToDebt()
		next, err := qadha.SetCount(current, prayer, value)
		if err != nil {
			return nil, err
		}
		entry := newEntry(record, userID, date, prayer, database.LedgerKindCorrection, value-current.Get(prayer))
		if err := tx.Create(&entry).Error; err != nil {
			return nil, apperrors.NewDatabaseError(err, "create ledger entry")
		}
		return next, nil
	})
	if err != nil {
		return nil, err
	}
	metrics.IncLedger(database.LedgerKindCorrection)
	return debt, nil
}

// DayEntries returns the entries logged for date, oldest first.
func (s *LedgerService) DayEntries(ctx context.Context, userID uint, date time.Time) ([]database.LedgerEntry, error) {
	var entries []database.LedgerEntry
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, normalizeDate(date)).
		Order("id ASC").
		Find(&entries).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err, "get ledger entries")
	}
	return entries, nil
}

// History returns the most recent entries, newest first.
func (s *LedgerService) History(ctx context.Context, userID uint, limit int) ([]database.LedgerEntry, error) {
	if limit <= 0 {
		limit = defaultHistory
	}
	var entries []database.LedgerEntry
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, apperrors.NewDatabaseError(err, "get ledger history")
	}
	return entries, nil
}

type mutation func(tx *gorm.DB, record *database.PrayerDebtRecord) (qadha.PrayerDebt, error)

// mutate locks the user's debt row, applies fn and writes the new counts
// back in the same transaction.
func (s *LedgerService) mutate(ctx context.Context, userID uint, fn mutation) (qadha.PrayerDebt, error) {
	var debt qadha.PrayerDebt
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record database.PrayerDebtRecord
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			First(&record).Error; err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrDebtNotEstimated
			}
			return apperrors.NewDatabaseError(err, "load prayer debt")
		}

		next, err := fn(tx, &record)
		if err != nil {
			return err
		}

		if err := tx.Model(&record).Updates(debtColumns(next)).Error; err != nil {
			return apperrors.NewDatabaseError(err, "update prayer debt")
		}
		debt = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return debt, nil
}

func newEntry(record *database.PrayerDebtRecord, userID uint, date time.Time, prayer qadha.Prayer, kind string, delta int) database.LedgerEntry {
	return database.LedgerEntry{
		UserID: userID,
		Date:   normalizeDate(date),
		Prayer: string(prayer),
		Kind:   kind,
		Delta:  delta,
		RunID:  record.RunID,
	}
}

// debtColumns maps every tracked prayer to its column. Updates with a map
// writes zero values too.
func debtColumns(debt qadha.PrayerDebt) map[string]interface{} {
	columns := make(map[string]interface{}, len(debt))
	for _, p := range debt.Prayers() {
		columns[database.Column(p)] = debt.Get(p)
	}
	return columns
}

// normalizeDate drops the clock part, keeping the calendar day of t.
func normalizeDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
