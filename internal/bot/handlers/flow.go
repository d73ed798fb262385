package handlers

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/vladimiradmaev/qadha-helper/internal/bot/keyboards"
	"github.com/vladimiradmaev/qadha-helper/internal/bot/menus"
	"github.com/vladimiradmaev/qadha-helper/internal/bot/state"
	"github.com/vladimiradmaev/qadha-helper/internal/database"
	apperrors "github.com/vladimiradmaev/qadha-helper/internal/errors"
	"github.com/vladimiradmaev/qadha-helper/internal/qadha"
	"github.com/vladimiradmaev/qadha-helper/internal/services"
	"github.com/vladimiradmaev/qadha-helper/internal/utils"
)

const historyLimit = 20

// flow holds the steps shared by the command, callback and text handlers.
type flow struct {
	api    menus.Sender
	deps   Dependencies
	states state.StateManager
}

func (f *flow) now() time.Time {
	if f.deps.Now != nil {
		return f.deps.Now()
	}
	return time.Now()
}

func (f *flow) send(chatID int64, text string, markup interface{}) error {
	return menus.Send(f.api, chatID, text, markup)
}

func (f *flow) ask(chatID int64, user *database.User, next, text string, markup interface{}) error {
	f.states.SetUserState(user.TelegramID, next)
	return f.send(chatID, text, markup)
}

// Onboarding steps

func (f *flow) startOnboarding(chatID int64, user *database.User) error {
	f.states.ClearTempData(user.TelegramID)
	return f.ask(chatID, user, state.OnboardingGender,
		"Let's estimate the prayers you owe. Your answers are saved as you go.\n\nWhat is your gender?",
		keyboards.Gender())
}

func (f *flow) askMadhab(chatID int64, user *database.User) error {
	return f.ask(chatID, user, state.OnboardingMadhab,
		"Which madhab do you follow? Under the Hanafi madhab Witr is counted as well.",
		keyboards.Madhab())
}

func (f *flow) askDateOfBirth(chatID int64, user *database.User) error {
	return f.ask(chatID, user, state.WaitingForDateOfBirth,
		"What is your date of birth? Send it as DD.MM.YYYY, for example 14.03.1998.", nil)
}

func (f *flow) askPuberty(chatID int64, user *database.User) error {
	return f.ask(chatID, user, state.OnboardingPuberty,
		"When did you reach puberty? If you remember your age at the time, choose \"I know my age\". "+
			"Otherwise the Islamic default of 14 years and 8 months is used.",
		keyboards.Puberty())
}

func (f *flow) askPubertyAge(chatID int64, user *database.User) error {
	return f.ask(chatID, user, state.WaitingForPubertyAge,
		fmt.Sprintf("How old were you when you reached puberty? (%d-%d)", qadha.MinPubertyAge, qadha.MaxPubertyAge), nil)
}

func (f *flow) askYearsPrayed(chatID int64, user *database.User, puberty time.Time) error {
	total := qadha.TotalYearsSincePuberty(puberty, f.now())
	return f.ask(chatID, user, state.WaitingForYearsPrayed,
		fmt.Sprintf("%d years have passed since you reached puberty (%s). For how many of them have you prayed regularly?",
			total, utils.FormatDate(puberty)), nil)
}

func (f *flow) askChildbirth(chatID int64, user *database.User) error {
	return f.ask(chatID, user, state.OnboardingChildbirth,
		"Did you give birth before you started praying regularly?", keyboards.Childbirth())
}

func (f *flow) askCycleLength(chatID int64, user *database.User) error {
	return f.ask(chatID, user, state.WaitingForCycleLength,
		fmt.Sprintf("How many days does your period usually last? (%d-%d)", qadha.MinCycleLengthDays, qadha.MaxCycleLengthDays), nil)
}

func (f *flow) askChildren(chatID int64, user *database.User) error {
	return f.ask(chatID, user, state.WaitingForChildren,
		"How many children did you give birth to before you started praying regularly?", nil)
}

func (f *flow) askBleeding(chatID int64, user *database.User) error {
	return f.ask(chatID, user, state.WaitingForBleedingDays,
		"On average, how many days did post-natal bleeding last after each birth?", nil)
}

func (f *flow) askSelection(ctx context.Context, chatID int64, user *database.User) error {
	profile, err := f.deps.ProfileSvc.GetProfile(ctx, user.ID)
	if err != nil {
		return err
	}
	sel := qadha.Selection{}
	f.states.SetTempData(user.TelegramID, state.KeySelection, encodeSelection(sel))
	f.states.SetUserState(user.TelegramID, state.OnboardingSelection)
	return menus.SendSelection(f.api, chatID, sel, qadha.TrackedPrayers(qadha.Madhab(profile.Madhab)))
}

// afterYearsPrayed picks the next step once years missed is known.
func (f *flow) afterYearsPrayed(ctx context.Context, chatID int64, user *database.User, profile *database.QadhaProfile, yearsMissed int) error {
	switch {
	case yearsMissed == 0:
		return f.finishOnboarding(ctx, chatID, user)
	case profile.Gender == string(qadha.GenderFemale):
		return f.askChildbirth(chatID, user)
	default:
		return f.askSelection(ctx, chatID, user)
	}
}

func (f *flow) finishOnboarding(ctx context.Context, chatID int64, user *database.User) error {
	debt, err := f.deps.QadhaSvc.Recalculate(ctx, user.ID, f.now())
	if err != nil {
		if apperrors.IsInvalidInput(err) {
			f.states.ClearUserState(user.TelegramID)
			return f.send(chatID, "⚠️ "+describeInvalid(err)+"\nLet's go through the questions again.", keyboards.StartOnboarding())
		}
		return err
	}
	f.states.ClearUserState(user.TelegramID)
	f.states.ClearTempData(user.TelegramID)
	return f.send(chatID, "✅ Your Qadha has been estimated.\n\n"+menus.FormatDebt(debt), keyboards.MainMenu())
}

// Main menu actions

func (f *flow) showDebt(ctx context.Context, chatID int64, user *database.User) error {
	debt, err := f.deps.QadhaSvc.GetDebt(ctx, user.ID)
	if err != nil {
		return f.replyError(chatID, err)
	}
	return menus.SendDebtSummary(f.api, chatID, debt)
}

func (f *flow) showFAQ(chatID int64) error {
	var items []keyboards.FAQItem
	for _, e := range services.FAQ() {
		items = append(items, keyboards.FAQItem{ID: e.ID, Question: e.Question})
	}
	canAsk := f.deps.AISvc != nil && f.deps.AISvc.Enabled()
	return f.send(chatID, "❓ Frequently asked questions:", keyboards.FAQ(items, canAsk))
}

func (f *flow) confirmReset(chatID int64) error {
	return f.send(chatID,
		"♻️ This deletes your answers, your Qadha counters and your history, and starts the estimate again. Continue?",
		keyboards.ResetConfirm())
}

const helpText = `Available commands:
/start - Show the main menu or continue the estimate
/qadha - Show the prayers you owe
/faq - Frequently asked questions
/reset - Start the estimate again
/help - Show this message

How it works:
1. Answer a few questions about your history
2. The bot estimates how many of each prayer you owe
3. Every day, log the Qadha prayers you made up and mark any prayer you missed`

func (f *flow) sendHelp(chatID int64) error {
	return f.send(chatID, helpText, keyboards.BackToMenu())
}

// replyError answers user-facing errors in the chat and returns the rest.
func (f *flow) replyError(chatID int64, err error) error {
	switch {
	case apperrors.IsInvalidInput(err):
		return f.send(chatID, "⚠️ "+describeInvalid(err)+"\nPlease try again.", nil)
	case stderrors.Is(err, apperrors.ErrDebtNotEstimated):
		return f.send(chatID, "You have not estimated your Qadha yet.", keyboards.StartOnboarding())
	default:
		return err
	}
}

var fieldLabels = map[string]string{
	"date_of_birth":            "Date of birth",
	"date_of_puberty":          "Date of puberty",
	"puberty_age":              "Age at puberty",
	"years_prayed_regularly":   "Years of regular prayer",
	"cycle_length_days":        "Period length",
	"number_of_children":       "Number of children",
	"post_natal_bleeding_days": "Bleeding days",
	"count":                    "The number",
	"question":                 "The question",
	"gender":                   "Gender",
	"madhab":                   "Madhab",
	"prayer":                   "Prayer",
}

// describeInvalid turns "invalid cycle_length_days: must be between 3 and 10"
// into "Period length must be between 3 and 10."
func describeInvalid(err error) string {
	var appErr *apperrors.AppError
	if !stderrors.As(err, &appErr) {
		return err.Error()
	}
	field := apperrors.FieldOf(err)
	reason := strings.TrimPrefix(appErr.Message, "invalid "+field+": ")
	label, ok := fieldLabels[field]
	if !ok {
		label = field
	}
	return label + " " + reason + "."
}

// The selection being edited lives in temp data as "<prayers>|<jummah>|<ramadan>".
func encodeSelection(sel qadha.Selection) string {
	return sel.EncodePrayers() + "|" + flag(sel.PrayedJummahInsteadOfDhuhr()) + "|" + flag(sel.OnlyDuringRamadan())
}

func decodeSelection(s string) qadha.Selection {
	parts := strings.Split(s, "|")
	if len(parts) != 3 {
		return qadha.Selection{}
	}
	return qadha.DecodeSelection(parts[0], parts[1] == "1", parts[2] == "1")
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
