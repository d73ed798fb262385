package handlers

import (
	"context"
	stderrors "errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/qadha-helper/internal/bot/keyboards"
	"github.com/vladimiradmaev/qadha-helper/internal/bot/menus"
	"github.com/vladimiradmaev/qadha-helper/internal/bot/state"
	"github.com/vladimiradmaev/qadha-helper/internal/database"
	apperrors "github.com/vladimiradmaev/qadha-helper/internal/errors"
	"github.com/vladimiradmaev/qadha-helper/internal/qadha"
	"github.com/vladimiradmaev/qadha-helper/internal/services"
	"github.com/vladimiradmaev/qadha-helper/internal/utils"
)

// Bounds for typed answers
const (
	maxChildren     = 30
	maxBleedingDays = 60
	maxMadeUp       = 1000
	maxCorrection   = 100000
)

// TextHandler handles free-text answers according to the user's state
type TextHandler struct {
	*flow
}

// NewTextHandler creates a new text handler
func NewTextHandler(api menus.Sender, deps Dependencies, stateManager state.StateManager) *TextHandler {
	return &TextHandler{flow: &flow{api: api, deps: deps, states: stateManager}}
}

// Handle processes a text message
func (h *TextHandler) Handle(ctx context.Context, message *tgbotapi.Message, user *database.User) error {
	chatID := message.Chat.ID
	text := message.Text

	switch h.states.GetUserState(user.TelegramID) {
	case state.WaitingForDateOfBirth:
		return h.handleDateOfBirth(ctx, chatID, user, text)
	case state.WaitingForPubertyAge:
		return h.handlePubertyAge(ctx, chatID, user, text)
	case state.WaitingForYearsPrayed:
		return h.handleYearsPrayed(ctx, chatID, user, text)
	case state.WaitingForCycleLength:
		return h.handleCycleLength(ctx, chatID, user, text)
	case state.WaitingForChildren:
		return h.handleChildren(ctx, chatID, user, text)
	case state.WaitingForBleedingDays:
		return h.handleBleedingDays(ctx, chatID, user, text)
	case state.WaitingForMadeUpCount:
		return h.handleMadeUpCount(ctx, chatID, user, text)
	case state.WaitingForCorrection:
		return h.handleCorrection(ctx, chatID, user, text)
	case state.WaitingForQuestion:
		return h.handleQuestion(ctx, chatID, user, text)
	case state.OnboardingGender, state.OnboardingMadhab, state.OnboardingPuberty,
		state.OnboardingChildbirth, state.OnboardingSelection:
		return h.send(chatID, "Please answer with the buttons above.", nil)
	default:
		return menus.SendMainMenu(h.api, chatID)
	}
}

func (h *TextHandler) handleDateOfBirth(ctx context.Context, chatID int64, user *database.User, text string) error {
	dob, err := utils.ParseDate(services.FieldDateOfBirth, text, h.now())
	if err != nil {
		return h.replyError(chatID, err)
	}
	if err := h.deps.ProfileSvc.UpdateProfile(ctx, user.ID, map[string]interface{}{
		services.FieldDateOfBirth: dob,
	}); err != nil {
		return err
	}
	return h.askPuberty(chatID, user)
}

func (h *TextHandler) handlePubertyAge(ctx context.Context, chatID int64, user *database.User, text string) error {
	age, err := utils.ParseCount("puberty_age", text, qadha.MinPubertyAge, qadha.MaxPubertyAge)
	if err != nil {
		return h.replyError(chatID, err)
	}
	profile, err := h.deps.ProfileSvc.GetProfile(ctx, user.ID)
	if err != nil {
		return err
	}
	if profile.DateOfBirth == nil {
		return h.askDateOfBirth(chatID, user)
	}
	puberty, err := qadha.PubertyFromAge(*profile.DateOfBirth, age)
	if err != nil {
		return h.replyError(chatID, err)
	}
	if puberty.After(h.now()) {
		return h.replyError(chatID, apperrors.NewInvalidInputError("puberty_age", "is older than you are today"))
	}
	if err := h.deps.ProfileSvc.UpdateProfile(ctx, user.ID, map[string]interface{}{
		services.FieldDateOfPuberty: puberty,
		services.FieldPubertySource: database.PubertySourceAge,
	}); err != nil {
		return err
	}
	return h.askYearsPrayed(chatID, user, puberty)
}

func (h *TextHandler) handleYearsPrayed(ctx context.Context, chatID int64, user *database.User, text string) error {
	prayed, err := qadha.ParseYearsPrayed(text)
	if err != nil {
		return h.replyError(chatID, err)
	}
	profile, err := h.deps.ProfileSvc.GetProfile(ctx, user.ID)
	if err != nil {
		return err
	}
	if profile.DateOfPuberty == nil {
		return h.askPuberty(chatID, user)
	}
	missed, err := qadha.DeriveYearsMissed(*profile.DateOfPuberty, prayed, h.now())
	if err != nil {
		return h.replyError(chatID, err)
	}
	if err := h.deps.ProfileSvc.UpdateProfile(ctx, user.ID, map[string]interface{}{
		services.FieldYearsPrayedRegularly: prayed,
	}); err != nil {
		return err
	}
	return h.afterYearsPrayed(ctx, chatID, user, profile, missed)
}

func (h *TextHandler) handleCycleLength(ctx context.Context, chatID int64, user *database.User, text string) error {
	days, err := utils.ParseCount(services.FieldCycleLengthDays, text, qadha.MinCycleLengthDays, qadha.MaxCycleLengthDays)
	if err != nil {
		return h.replyError(chatID, err)
	}
	if err := h.deps.ProfileSvc.UpdateProfile(ctx, user.ID, map[string]interface{}{
		services.FieldCycleLengthDays: days,
	}); err != nil {
		return err
	}
	return h.askChildren(chatID, user)
}

func (h *TextHandler) handleChildren(ctx context.Context, chatID int64, user *database.User, text string) error {
	children, err := utils.ParseCount(services.FieldNumberOfChildren, text, 0, maxChildren)
	if err != nil {
		return h.replyError(chatID, err)
	}
	fields := map[string]interface{}{services.FieldNumberOfChildren: children}
	if children == 0 {
		fields[services.FieldPostNatalBleedingDays] = 0
	}
	if err := h.deps.ProfileSvc.UpdateProfile(ctx, user.ID, fields); err != nil {
		return err
	}
	if children == 0 {
		return h.askSelection(ctx, chatID, user)
	}
	return h.askBleeding(chatID, user)
}

func (h *TextHandler) handleBleedingDays(ctx context.Context, chatID int64, user *database.User, text string) error {
	days, err := utils.ParseCount(services.FieldPostNatalBleedingDays, text, 0, maxBleedingDays)
	if err != nil {
		return h.replyError(chatID, err)
	}
	if err := h.deps.ProfileSvc.UpdateProfile(ctx, user.ID, map[string]interface{}{
		services.FieldPostNatalBleedingDays: days,
	}); err != nil {
		return err
	}
	return h.askSelection(ctx, chatID, user)
}

func (h *TextHandler) pendingPrayer(user *database.User) (qadha.Prayer, bool) {
	value, ok := h.states.GetTempData(user.TelegramID, state.KeyPrayer)
	if !ok {
		return "", false
	}
	prayer, err := qadha.ParsePrayer(value)
	return prayer, err == nil
}

func (h *TextHandler) handleMadeUpCount(ctx context.Context, chatID int64, user *database.User, text string) error {
	prayer, ok := h.pendingPrayer(user)
	if !ok {
		h.states.ClearUserState(user.TelegramID)
		return menus.SendMainMenu(h.api, chatID)
	}
	count, err := utils.ParseCount("count", text, 1, maxMadeUp)
	if err != nil {
		return h.replyError(chatID, err)
	}
	debt, err := h.deps.LedgerSvc.LogMadeUp(ctx, user.ID, h.now(), prayer, count)
	if err != nil {
		return h.replyError(chatID, err)
	}
	h.states.ClearUserState(user.TelegramID)
	h.states.ClearTempData(user.TelegramID)
	return h.send(chatID,
		fmt.Sprintf("✅ Logged %d %s. May Allah accept it.\n\n%s", count, prayer.Title(), menus.FormatDebt(debt)),
		keyboards.MainMenu())
}

func (h *TextHandler) handleCorrection(ctx context.Context, chatID int64, user *database.User, text string) error {
	prayer, ok := h.pendingPrayer(user)
	if !ok {
		h.states.ClearUserState(user.TelegramID)
		return menus.SendMainMenu(h.api, chatID)
	}
	value, err := utils.ParseCount("count", text, 0, maxCorrection)
	if err != nil {
		return h.replyError(chatID, err)
	}
	debt, err := h.deps.LedgerSvc.Correct(ctx, user.ID, h.now(), prayer, value)
	if err != nil {
		return h.replyError(chatID, err)
	}
	h.states.ClearUserState(user.TelegramID)
	h.states.ClearTempData(user.TelegramID)
	return h.send(chatID,
		fmt.Sprintf("✏️ %s set to %d.\n\n%s", prayer.Title(), value, menus.FormatDebt(debt)),
		keyboards.MainMenu())
}

func (h *TextHandler) handleQuestion(ctx context.Context, chatID int64, user *database.User, text string) error {
	if h.deps.AISvc == nil {
		h.states.ClearUserState(user.TelegramID)
		return h.showFAQ(chatID)
	}
	answer, err := h.deps.AISvc.Answer(ctx, text)
	if err != nil {
		if stderrors.Is(err, apperrors.ErrExternalAPI) || stderrors.Is(err, apperrors.ErrTimeout) {
			h.states.ClearUserState(user.TelegramID)
			return h.send(chatID, "Sorry, the assistant is unavailable right now. Please try again later.", keyboards.BackToFAQ())
		}
		return h.replyError(chatID, err)
	}
	h.states.ClearUserState(user.TelegramID)
	return h.send(chatID, "💬 "+answer+"\n\nThis is general guidance; ask a local scholar about your own situation.", keyboards.BackToFAQ())
}
