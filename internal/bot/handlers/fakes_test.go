package handlers

import (
	"context"
	"fmt"
	"sort"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/qadha-helper/internal/database"
	apperrors "github.com/vladimiradmaev/qadha-helper/internal/errors"
	"github.com/vladimiradmaev/qadha-helper/internal/interfaces"
	"github.com/vladimiradmaev/qadha-helper/internal/qadha"
	"github.com/vladimiradmaev/qadha-helper/internal/services"
)

var (
	_ interfaces.UserServiceInterface    = (*fakeUsers)(nil)
	_ interfaces.ProfileServiceInterface = (*fakeProfiles)(nil)
	_ interfaces.QadhaServiceInterface   = (*fakeQadha)(nil)
	_ interfaces.LedgerServiceInterface  = (*fakeLedger)(nil)
	_ interfaces.AIServiceInterface      = (*fakeAI)(nil)
)

type fakeSender struct {
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
}

func (s *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	s.sent = append(s.sent, c)
	return tgbotapi.Message{MessageID: len(s.sent)}, nil
}

func (s *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	s.requests = append(s.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (s *fakeSender) last() tgbotapi.MessageConfig {
	if len(s.sent) == 0 {
		return tgbotapi.MessageConfig{}
	}
	msg, _ := s.sent[len(s.sent)-1].(tgbotapi.MessageConfig)
	return msg
}

func (s *fakeSender) edits() []tgbotapi.EditMessageReplyMarkupConfig {
	var out []tgbotapi.EditMessageReplyMarkupConfig
	for _, r := range s.requests {
		if e, ok := r.(tgbotapi.EditMessageReplyMarkupConfig); ok {
			out = append(out, e)
		}
	}
	return out
}

type fakeUsers struct {
	registered int
}

func (f *fakeUsers) RegisterUser(_ context.Context, telegramID int64, username, firstName, lastName string) (*database.User, error) {
	f.registered++
	u := &database.User{TelegramID: telegramID, Username: username, FirstName: firstName, LastName: lastName}
	u.ID = uint(telegramID)
	return u, nil
}

func (f *fakeUsers) GetUserByTelegramID(ctx context.Context, telegramID int64) (*database.User, error) {
	return f.RegisterUser(ctx, telegramID, "", "", "")
}

type fakeProfiles struct {
	profiles map[uint]*database.QadhaProfile
	err      error
}

func (f *fakeProfiles) GetProfile(_ context.Context, userID uint) (*database.QadhaProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.profiles[userID]
	if !ok {
		p = &database.QadhaProfile{UserID: userID}
		f.profiles[userID] = p
	}
	return p, nil
}

func (f *fakeProfiles) UpdateProfile(ctx context.Context, userID uint, fields map[string]interface{}) error {
	p, err := f.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	for k, v := range fields {
		switch k {
		case services.FieldDateOfBirth:
			t := v.(time.Time)
			p.DateOfBirth = &t
		case services.FieldDateOfPuberty:
			t := v.(time.Time)
			p.DateOfPuberty = &t
		case services.FieldPubertySource:
			p.PubertySource = v.(string)
		case services.FieldGender:
			p.Gender = v.(string)
		case services.FieldMadhab:
			p.Madhab = v.(string)
		case services.FieldHasChildbirthHistory:
			p.HasChildbirthHistory = v.(bool)
		case services.FieldCycleLengthDays:
			if v == nil {
				p.CycleLengthDays = nil
				continue
			}
			n := v.(int)
			p.CycleLengthDays = &n
		case services.FieldNumberOfChildren:
			p.NumberOfChildren = v.(int)
		case services.FieldPostNatalBleedingDays:
			p.PostNatalBleedingDays = v.(int)
		case services.FieldYearsPrayedRegularly:
			n := v.(int)
			p.YearsPrayedRegularly = &n
		default:
			return fmt.Errorf("unexpected field %s", k)
		}
	}
	return nil
}

func (f *fakeProfiles) SaveSelection(ctx context.Context, userID uint, sel qadha.Selection) error {
	p, err := f.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	p.SelectedPrayers = sel.EncodePrayers()
	p.Jummah = sel.PrayedJummahInsteadOfDhuhr()
	p.RamadanOnly = sel.OnlyDuringRamadan()
	return nil
}

type fakeQadha struct {
	profiles  *fakeProfiles
	estimator *qadha.Estimator
	debts     map[uint]qadha.PrayerDebt
}

func (f *fakeQadha) Recalculate(ctx context.Context, userID uint, now time.Time) (qadha.PrayerDebt, error) {
	stored, err := f.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if stored.DateOfPuberty == nil || stored.YearsPrayedRegularly == nil {
		return nil, apperrors.NewInvalidInputError("date_of_puberty", "not provided")
	}
	years, err := qadha.DeriveYearsMissed(*stored.DateOfPuberty, *stored.YearsPrayedRegularly, now)
	if err != nil {
		return nil, err
	}
	debt := qadha.ZeroDebt(qadha.Madhab(stored.Madhab))
	if years > 0 {
		profile := stored.ToQadha()
		profile.YearsMissed = years
		if debt, err = f.estimator.Estimate(profile, stored.Selection()); err != nil {
			return nil, err
		}
	}
	stored.YearsMissed = years
	stored.OnboardingCompleted = true
	f.debts[userID] = debt
	return debt.Clone(), nil
}

func (f *fakeQadha) GetDebt(_ context.Context, userID uint) (qadha.PrayerDebt, error) {
	debt, ok := f.debts[userID]
	if !ok {
		return nil, apperrors.ErrDebtNotEstimated
	}
	return debt.Clone(), nil
}

func (f *fakeQadha) ResetQadha(_ context.Context, userID uint) error {
	delete(f.debts, userID)
	f.profiles.profiles[userID] = &database.QadhaProfile{UserID: userID}
	return nil
}

type fakeLedger struct {
	qadha   *fakeQadha
	entries []database.LedgerEntry
}

func (f *fakeLedger) apply(userID uint, date time.Time, prayer qadha.Prayer, kind string, next qadha.PrayerDebt, delta int) qadha.PrayerDebt {
	f.qadha.debts[userID] = next
	f.entries = append(f.entries, database.LedgerEntry{
		ID: uint(len(f.entries) + 1), UserID: userID, Date: day(date),
		Prayer: string(prayer), Kind: kind, Delta: delta,
	})
	return next.Clone()
}

func (f *fakeLedger) LogMadeUp(ctx context.Context, userID uint, date time.Time, prayer qadha.Prayer, count int) (qadha.PrayerDebt, error) {
	current, err := f.qadha.GetDebt(ctx, userID)
	if err != nil {
		return nil, err
	}
	next, err := qadha.ApplyDelta(current, prayer, -count)
	if err != nil {
		return nil, err
	}
	return f.apply(userID, date, prayer, database.LedgerKindMadeUp, next, next.Get(prayer)-current.Get(prayer)), nil
}

func (f *fakeLedger) ToggleMissed(ctx context.Context, userID uint, date time.Time, prayer qadha.Prayer) (bool, qadha.PrayerDebt, error) {
	current, err := f.qadha.GetDebt(ctx, userID)
	if err != nil {
		return false, nil, err
	}
	for i, e := range f.entries {
		if e.UserID == userID && e.Date.Equal(day(date)) && e.Prayer == string(prayer) && e.Kind == database.LedgerKindMissed {
			next, err := qadha.ApplyDelta(current, prayer, -e.Delta)
			if err != nil {
				return false, nil, err
			}
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			f.qadha.debts[userID] = next
			return false, next.Clone(), nil
		}
	}
	next, err := qadha.ApplyDelta(current, prayer, 1)
	if err != nil {
		return false, nil, err
	}
	return true, f.apply(userID, date, prayer, database.LedgerKindMissed, next, 1), nil
}

func (f *fakeLedger) Correct(ctx context.Context, userID uint, date time.Time, prayer qadha.Prayer, value int) (qadha.PrayerDebt, error) {
	current, err := f.qadha.GetDebt(ctx, userID)
	if err != nil {
		return nil, err
	}
	next, err := qadha.SetCount(current, prayer, value)
	if err != nil {
		return nil, err
	}
	return f.apply(userID, date, prayer, database.LedgerKindCorrection, next, value-current.Get(prayer)), nil
}

func (f *fakeLedger) DayEntries(_ context.Context, userID uint, date time.Time) ([]database.LedgerEntry, error) {
	var out []database.LedgerEntry
	for _, e := range f.entries {
		if e.UserID == userID && e.Date.Equal(day(date)) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeLedger) History(_ context.Context, userID uint, limit int) ([]database.LedgerEntry, error) {
	var out []database.LedgerEntry
	for _, e := range f.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

type fakeAI struct {
	enabled   bool
	answer    string
	err       error
	questions []string
}

func (f *fakeAI) Enabled() bool { return f.enabled }

func (f *fakeAI) Answer(_ context.Context, question string) (string, error) {
	f.questions = append(f.questions, question)
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}
