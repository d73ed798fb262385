package interfaces

import (
	"context"
	"time"

	"github.com/vladimiradmaev/qadha-helper/internal/database"
	"github.com/vladimiradmaev/qadha-helper/internal/qadha"
)

// UserServiceInterface defines the contract for user operations
type UserServiceInterface interface {
	RegisterUser(ctx context.Context, telegramID int64, username, firstName, lastName string) (*database.User, error)
	GetUserByTelegramID(ctx context.Context, telegramID int64) (*database.User, error)
}

// ProfileServiceInterface stores onboarding answers
type ProfileServiceInterface interface {
	GetProfile(ctx context.Context, userID uint) (*database.QadhaProfile, error)
	UpdateProfile(ctx context.Context, userID uint, fields map[string]interface{}) error
	SaveSelection(ctx context.Context, userID uint, selection qadha.Selection) error
}

// QadhaServiceInterface estimates and stores the prayer debt
type QadhaServiceInterface interface {
	Recalculate(ctx context.Context, userID uint, now time.Time) (qadha.PrayerDebt, error)
	GetDebt(ctx context.Context, userID uint) (qadha.PrayerDebt, error)
	ResetQadha(ctx context.Context, userID uint) error
}

// LedgerServiceInterface applies daily adjustments to the debt
type LedgerServiceInterface interface {
	LogMadeUp(ctx context.Context, userID uint, date time.Time, prayer qadha.Prayer, count int) (qadha.PrayerDebt, error)
	ToggleMissed(ctx context.Context, userID uint, date time.Time, prayer qadha.Prayer) (bool, qadha.PrayerDebt, error)
	Correct(ctx context.Context, userID uint, date time.Time, prayer qadha.Prayer, value int) (qadha.PrayerDebt, error)
	DayEntries(ctx context.Context, userID uint, date time.Time) ([]database.LedgerEntry, error)
	History(ctx context.Context, userID uint, limit int) ([]database.LedgerEntry, error)
}

// AIServiceInterface defines the contract for AI operations
type AIServiceInterface interface {
	Enabled() bool
	Answer(ctx context.Context, question string) (string, error)
}
