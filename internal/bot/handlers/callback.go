package handlers

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/qadha-helper/internal/bot/keyboards"
	"github.com/vladimiradmaev/qadha-helper/internal/bot/menus"
	"github.com/vladimiradmaev/qadha-helper/internal/bot/state"
	"github.com/vladimiradmaev/qadha-helper/internal/database"
	apperrors "github.com/vladimiradmaev/qadha-helper/internal/errors"
	"github.com/vladimiradmaev/qadha-helper/internal/logger"
	"github.com/vladimiradmaev/qadha-helper/internal/qadha"
	"github.com/vladimiradmaev/qadha-helper/internal/services"
)

// CallbackHandler handles callback query messages
type CallbackHandler struct {
	*flow
}

// NewCallbackHandler creates a new callback handler
func NewCallbackHandler(api menus.Sender, deps Dependencies, stateManager state.StateManager) *CallbackHandler {
	return &CallbackHandler{flow: &flow{api: api, deps: deps, states: stateManager}}
}

// Handle processes a callback query
func (h *CallbackHandler) Handle(ctx context.Context, query *tgbotapi.CallbackQuery, user *database.User) error {
	// Answer the callback query first
	if _, err := h.api.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		logger.ForUser(user.TelegramID).Warn("Failed to answer callback query", "error", err)
	}
	if query.Message == nil {
		return nil
	}
	chatID := query.Message.Chat.ID

	if prefix, value, ok := strings.Cut(query.Data, ":"); ok {
		return h.handlePrefixed(ctx, query, user, prefix, value)
	}

	switch query.Data {
	case keyboards.CallbackMainMenu:
		h.states.ClearUserState(user.TelegramID)
		return menus.SendMainMenu(h.api, chatID)
	case keyboards.CallbackMyQadha:
		return h.showDebt(ctx, chatID, user)
	case keyboards.CallbackLogMadeUp:
		return h.handlePrayerChoice(ctx, chatID, user, keyboards.PrefixMadeUp, "🕌 Which prayer did you make up?")
	case keyboards.CallbackCorrect:
		return h.handlePrayerChoice(ctx, chatID, user, keyboards.PrefixCorrect, "✏️ Which counter do you want to correct?")
	case keyboards.CallbackToday:
		return h.handleToday(ctx, chatID, user)
	case keyboards.CallbackHistory:
		return h.handleHistory(ctx, chatID, user)
	case keyboards.CallbackFAQ:
		h.states.ClearUserState(user.TelegramID)
		return h.showFAQ(chatID)
	case keyboards.CallbackFAQAsk:
		return h.handleAsk(chatID, user)
	case keyboards.CallbackReset:
		return h.confirmReset(chatID)
	case keyboards.CallbackResetConfirm:
		return h.handleResetConfirm(ctx, chatID, user)
	case keyboards.CallbackStart:
		return h.handleStartButton(ctx, chatID, user)
	case keyboards.CallbackHelp:
		return h.sendHelp(chatID)
	default:
		return h.staleButton(chatID)
	}
}

func (h *CallbackHandler) handlePrefixed(ctx context.Context, query *tgbotapi.CallbackQuery, user *database.User, prefix, value string) error {
	chatID := query.Message.Chat.ID
	current := h.states.GetUserState(user.TelegramID)

	switch prefix {
	case keyboards.PrefixGender:
		if current != state.OnboardingGender {
			return h.staleButton(chatID)
		}
		return h.handleGender(ctx, chatID, user, value)
	case keyboards.PrefixMadhab:
		if current != state.OnboardingMadhab {
			return h.staleButton(chatID)
		}
		return h.handleMadhab(ctx, chatID, user, value)
	case keyboards.PrefixPuberty:
		if current != state.OnboardingPuberty {
			return h.staleButton(chatID)
		}
		return h.handlePuberty(ctx, chatID, user, value)
	case keyboards.PrefixChildbirth:
		if current != state.OnboardingChildbirth {
			return h.staleButton(chatID)
		}
		return h.handleChildbirth(ctx, chatID, user, value == "yes")
	case keyboards.PrefixSelection:
		if current != state.OnboardingSelection {
			return h.staleButton(chatID)
		}
		return h.handleSelection(ctx, query, user, value)
	case keyboards.PrefixMadeUp:
		return h.askPrayerValue(ctx, chatID, user, value, state.WaitingForMadeUpCount)
	case keyboards.PrefixCorrect:
		return h.askPrayerValue(ctx, chatID, user, value, state.WaitingForCorrection)
	case keyboards.PrefixToday:
		return h.handleToggleMissed(ctx, query, user, value)
	case keyboards.PrefixFAQ:
		return h.handleFAQEntry(chatID, value)
	default:
		return h.staleButton(chatID)
	}
}

// Onboarding

func (h *CallbackHandler) handleGender(ctx context.Context, chatID int64, user *database.User, value string) error {
	gender, err := qadha.ParseGender(value)
	if err != nil {
		return h.replyError(chatID, err)
	}
	if err := h.deps.ProfileSvc.UpdateProfile(ctx, user.ID, map[string]interface{}{
		services.FieldGender: string(gender),
	}); err != nil {
		return err
	}
	return h.askMadhab(chatID, user)
}

func (h *CallbackHandler) handleMadhab(ctx context.Context, chatID int64, user *database.User, value string) error {
	madhab, err := qadha.ParseMadhab(value)
	if err != nil {
		return h.replyError(chatID, err)
	}
	if err := h.deps.ProfileSvc.UpdateProfile(ctx, user.ID, map[string]interface{}{
		services.FieldMadhab: string(madhab),
	}); err != nil {
		return err
	}
	return h.askDateOfBirth(chatID, user)
}

func (h *CallbackHandler) handlePuberty(ctx context.Context, chatID int64, user *database.User, value string) error {
	if value == keyboards.PubertyAge {
		return h.askPubertyAge(chatID, user)
	}

	profile, err := h.deps.ProfileSvc.GetProfile(ctx, user.ID)
	if err != nil {
		return err
	}
	if profile.DateOfBirth == nil {
		return h.askDateOfBirth(chatID, user)
	}
	puberty := qadha.IslamicDefaultPuberty(*profile.DateOfBirth)
	if puberty.After(h.now()) {
		return h.replyError(chatID, apperrors.NewInvalidInputError("date_of_puberty", "has not been reached yet by the default age"))
	}
	if err := h.deps.ProfileSvc.UpdateProfile(ctx, user.ID, map[string]interface{}{
		services.FieldDateOfPuberty: puberty,
		services.FieldPubertySource: database.PubertySourceDefault,
	}); err != nil {
		return err
	}
	return h.askYearsPrayed(chatID, user, puberty)
}

func (h *CallbackHandler) handleChildbirth(ctx context.Context, chatID int64, user *database.User, gaveBirth bool) error {
	fields := map[string]interface{}{services.FieldHasChildbirthHistory: gaveBirth}
	if !gaveBirth {
		fields[services.FieldCycleLengthDays] = nil
		fields[services.FieldNumberOfChildren] = 0
		fields[services.FieldPostNatalBleedingDays] = 0
	}
	if err := h.deps.ProfileSvc.UpdateProfile(ctx, user.ID, fields); err != nil {
		return err
	}
	if gaveBirth {
		return h.askCycleLength(chatID, user)
	}
	return h.askSelection(ctx, chatID, user)
}

func (h *CallbackHandler) handleSelection(ctx context.Context, query *tgbotapi.CallbackQuery, user *database.User, value string) error {
	chatID := query.Message.Chat.ID
	encoded, _ := h.states.GetTempData(user.TelegramID, state.KeySelection)
	sel := decodeSelection(encoded)

	switch value {
	case keyboards.SelectionDone:
		// Done with nothing ticked means no prayer was kept.
		if len(sel.Prayers()) == 0 && !sel.IsNone() {
			sel = sel.SetNone()
		}
		if err := h.deps.ProfileSvc.SaveSelection(ctx, user.ID, sel); err != nil {
			return err
		}
		return h.finishOnboarding(ctx, chatID, user)
	case keyboards.SelectionNone:
		sel = sel.SetNone()
	case keyboards.SelectionJummah:
		sel = sel.ToggleJummah()
	case keyboards.SelectionRamadan:
		sel = sel.ToggleRamadan()
	default:
		prayer, err := qadha.ParsePrayer(value)
		if err != nil {
			return h.staleButton(chatID)
		}
		sel = sel.Toggle(prayer)
	}

	h.states.SetTempData(user.TelegramID, state.KeySelection, encodeSelection(sel))

	profile, err := h.deps.ProfileSvc.GetProfile(ctx, user.ID)
	if err != nil {
		return err
	}
	tracked := qadha.TrackedPrayers(qadha.Madhab(profile.Madhab))
	return menus.UpdateSelection(h.api, chatID, query.Message.MessageID, sel, tracked)
}

// Daily tracking

func (h *CallbackHandler) handlePrayerChoice(ctx context.Context, chatID int64, user *database.User, prefix, text string) error {
	debt, err := h.deps.QadhaSvc.GetDebt(ctx, user.ID)
	if err != nil {
		return h.replyError(chatID, err)
	}
	h.states.ClearUserState(user.TelegramID)
	return h.send(chatID, text, keyboards.PrayerChoice(prefix, debt))
}

func (h *CallbackHandler) askPrayerValue(ctx context.Context, chatID int64, user *database.User, value, next string) error {
	prayer, err := qadha.ParsePrayer(value)
	if err != nil {
		return h.staleButton(chatID)
	}
	debt, err := h.deps.QadhaSvc.GetDebt(ctx, user.ID)
	if err != nil {
		return h.replyError(chatID, err)
	}
	if !debt.Tracks(prayer) {
		return h.staleButton(chatID)
	}

	h.states.SetTempData(user.TelegramID, state.KeyPrayer, string(prayer))
	text := fmt.Sprintf("How many %s prayers did you make up? (1-%d)", prayer.Title(), maxMadeUp)
	if next == state.WaitingForCorrection {
		text = fmt.Sprintf("%s is currently %d. Send the correct number.", prayer.Title(), debt.Get(prayer))
	}
	return h.ask(chatID, user, next, text, keyboards.BackToMenu())
}

func (h *CallbackHandler) handleToday(ctx context.Context, chatID int64, user *database.User) error {
	debt, err := h.deps.QadhaSvc.GetDebt(ctx, user.ID)
	if err != nil {
		return h.replyError(chatID, err)
	}
	entries, err := h.deps.LedgerSvc.DayEntries(ctx, user.ID, h.now())
	if err != nil {
		return err
	}
	return menus.SendChecklist(h.api, chatID, debt.Prayers(), entries)
}

func (h *CallbackHandler) handleToggleMissed(ctx context.Context, query *tgbotapi.CallbackQuery, user *database.User, value string) error {
	chatID := query.Message.Chat.ID
	prayer, err := qadha.ParsePrayer(value)
	if err != nil {
		return h.staleButton(chatID)
	}

	today := h.now()
	_, debt, err := h.deps.LedgerSvc.ToggleMissed(ctx, user.ID, today, prayer)
	if err != nil {
		return h.replyError(chatID, err)
	}
	entries, err := h.deps.LedgerSvc.DayEntries(ctx, user.ID, today)
	if err != nil {
		return err
	}
	return menus.UpdateChecklist(h.api, chatID, query.Message.MessageID, debt.Prayers(), entries)
}

func (h *CallbackHandler) handleHistory(ctx context.Context, chatID int64, user *database.User) error {
	entries, err := h.deps.LedgerSvc.History(ctx, user.ID, historyLimit)
	if err != nil {
		return err
	}
	return h.send(chatID, menus.FormatHistory(entries), keyboards.BackToMenu())
}

func (h *CallbackHandler) handleResetConfirm(ctx context.Context, chatID int64, user *database.User) error {
	if err := h.deps.QadhaSvc.ResetQadha(ctx, user.ID); err != nil {
		return err
	}
	if err := h.send(chatID, "🗑️ Your Qadha data has been deleted.", nil); err != nil {
		return err
	}
	return h.startOnboarding(chatID, user)
}

// FAQ

func (h *CallbackHandler) handleFAQEntry(chatID int64, id string) error {
	entry, ok := services.FindFAQ(id)
	if !ok {
		return h.staleButton(chatID)
	}
	return h.send(chatID, "❓ "+entry.Question+"\n\n"+entry.Answer, keyboards.BackToFAQ())
}

func (h *CallbackHandler) handleAsk(chatID int64, user *database.User) error {
	if h.deps.AISvc == nil || !h.deps.AISvc.Enabled() {
		return h.send(chatID, "The assistant is not available right now. Please pick a question from the list.", keyboards.BackToFAQ())
	}
	return h.ask(chatID, user, state.WaitingForQuestion,
		"💬 Send your question about Qadha in one message.", keyboards.BackToFAQ())
}

// handleStartButton ignores start buttons left in the chat once a debt
// has been estimated; re-estimating goes through reset.
func (h *CallbackHandler) handleStartButton(ctx context.Context, chatID int64, user *database.User) error {
	profile, err := h.deps.ProfileSvc.GetProfile(ctx, user.ID)
	if err != nil {
		return err
	}
	if profile.OnboardingCompleted {
		return h.staleButton(chatID)
	}
	return h.startOnboarding(chatID, user)
}

func (h *CallbackHandler) staleButton(chatID int64) error {
	return h.send(chatID, "This button is no longer active. Use /start to open the menu.", nil)
}
