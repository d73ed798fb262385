package database

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vladimiradmaev/qadha-helper/internal/qadha"
)

type User struct {
	gorm.Model
	TelegramID int64 `gorm:"uniqueIndex"`
	Username   string
	FirstName  string
	LastName   string
}

// Puberty sources
const (
	PubertySourceAge     = "age"
	PubertySourceDefault = "default"
)

// QadhaProfile is filled in step by step during onboarding.
type QadhaProfile struct {
	gorm.Model
	UserID uint `gorm:"uniqueIndex"`
	User   User

	DateOfBirth   *time.Time `gorm:"type:date"`
	DateOfPuberty *time.Time `gorm:"type:date"`
	PubertySource string
	Gender        string
	Madhab        string

	HasChildbirthHistory  bool
	CycleLengthDays       *int
	NumberOfChildren      int `gorm:"default:0"`
	PostNatalBleedingDays int `gorm:"default:0"`

	YearsPrayedRegularly *int
	YearsMissed          int `gorm:"default:0"`

	// SelectedPrayers is qadha.Selection.EncodePrayers output.
	SelectedPrayers string
	Jummah          bool
	RamadanOnly     bool

	OnboardingCompleted bool
}

// Selection rebuilds the participation selection stored on the profile.
func (p *QadhaProfile) Selection() qadha.Selection {
	return qadha.DecodeSelection(p.SelectedPrayers, p.Jummah, p.RamadanOnly)
}

// ToQadha converts the stored profile into the estimator's input. Cycle
// data is only passed on when childbirth history was reported.
func (p *QadhaProfile) ToQadha() qadha.UserProfile {
	profile := qadha.UserProfile{
		Gender:                qadha.Gender(p.Gender),
		Madhab:                qadha.Madhab(p.Madhab),
		NumberOfChildren:      p.NumberOfChildren,
		PostNatalBleedingDays: p.PostNatalBleedingDays,
		YearsMissed:           p.YearsMissed,
	}
	if p.DateOfBirth != nil {
		profile.DateOfBirth = *p.DateOfBirth
	}
	if p.DateOfPuberty != nil {
		profile.DateOfPuberty = *p.DateOfPuberty
	}
	if p.YearsPrayedRegularly != nil {
		profile.YearsPrayedRegularly = *p.YearsPrayedRegularly
	}
	if p.HasChildbirthHistory && p.CycleLengthDays != nil {
		cycle := *p.CycleLengthDays
		profile.CycleLengthDays = &cycle
	}
	return profile
}

// PrayerDebtRecord holds the running debt, one row per user, so an
// estimation run is always written as a unit.
type PrayerDebtRecord struct {
	ID      uint `gorm:"primarykey"`
	UserID  uint `gorm:"uniqueIndex"`
	User    User
	Madhab  string
	Fajr    int
	Dhuhr   int
	Asr     int
	Maghrib int
	Isha    int
	// Witr is nil when the madhab does not track it.
	Witr *int

	RunID       uuid.UUID `gorm:"type:uuid"`
	EstimatedAt time.Time
	UpdatedAt   time.Time
}

func (r *PrayerDebtRecord) ToDebt() qadha.PrayerDebt {
	debt := qadha.PrayerDebt{
		qadha.Fajr:    r.Fajr,
		qadha.Dhuhr:   r.Dhuhr,
		qadha.Asr:     r.Asr,
		qadha.Maghrib: r.Maghrib,
		qadha.Isha:    r.Isha,
	}
	if r.Witr != nil {
		debt[qadha.Witr] = *r.Witr
	}
	return debt
}

// SetDebt copies every count of debt onto the record.
func (r *PrayerDebtRecord) SetDebt(debt qadha.PrayerDebt) {
	r.Fajr = debt.Get(qadha.Fajr)
	r.Dhuhr = debt.Get(qadha.Dhuhr)
	r.Asr = debt.Get(qadha.Asr)
	r.Maghrib = debt.Get(qadha.Maghrib)
	r.Isha = debt.Get(qadha.Isha)
	r.Witr = nil
	if debt.Tracks(qadha.Witr) {
		witr := debt.Get(qadha.Witr)
		r.Witr = &witr
	}
}

// Column returns the column holding p's count.
func Column(p qadha.Prayer) string {
	return string(p)
}

// Ledger entry kinds
const (
	LedgerKindMissed     = "missed"
	LedgerKindMadeUp     = "made_up"
	LedgerKindCorrection = "correction"
)

// LedgerEntry is one daily adjustment of the running debt.
type LedgerEntry struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UserID    uint      `gorm:"index:idx_ledger_user_date"`
	Date      time.Time `gorm:"type:date;index:idx_ledger_user_date"`
	Prayer    string
	Kind      string
	Delta     int
	RunID     uuid.UUID `gorm:"type:uuid"`
}

// Models lists every table managed by AutoMigrate.
func Models() []interface{} {
	return []interface{}{&User{}, &QadhaProfile{}, &PrayerDebtRecord{}, &LedgerEntry{}}
}
