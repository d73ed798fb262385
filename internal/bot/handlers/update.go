package handlers

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/qadha-helper/internal/bot/menus"
	"github.com/vladimiradmaev/qadha-helper/internal/bot/state"
	apperrors "github.com/vladimiradmaev/qadha-helper/internal/errors"
	"github.com/vladimiradmaev/qadha-helper/internal/logger"
	"github.com/vladimiradmaev/qadha-helper/internal/metrics"
)

// Update kinds reported to metrics
const (
	kindCallback = "callback"
	kindCommand  = "command"
	kindText     = "text"
	kindOther    = "other"
)

// UpdateHandler handles telegram updates and coordinates other handlers
type UpdateHandler struct {
	api             menus.Sender
	deps            Dependencies
	errorHandler    *apperrors.Handler
	callbackHandler *CallbackHandler
	commandHandler  *CommandHandler
	textHandler     *TextHandler
}

// NewUpdateHandler creates a new update handler. A nil errorHandler logs
// through the global logger and counts errors in metrics.
func NewUpdateHandler(
	api menus.Sender,
	deps Dependencies,
	stateManager state.StateManager,
	errorHandler *apperrors.Handler,
) *UpdateHandler {
	if errorHandler == nil {
		errorHandler = apperrors.NewHandler(logger.GetLogger())
		errorHandler.OnError = func(t apperrors.ErrorType) {
			metrics.IncError(string(t))
		}
	}
	return &UpdateHandler{
		api:             api,
		deps:            deps,
		errorHandler:    errorHandler,
		callbackHandler: NewCallbackHandler(api, deps, stateManager),
		commandHandler:  NewCommandHandler(api, deps, stateManager),
		textHandler:     NewTextHandler(api, deps, stateManager),
	}
}

// Handle processes a telegram update. Errors are logged and answered in
// the chat; only the returned error from that reply is propagated.
func (h *UpdateHandler) Handle(ctx context.Context, update tgbotapi.Update) error {
	from, chatID := sender(update)
	if from == nil {
		return nil
	}

	start := time.Now()
	kind := updateKind(update)
	defer func() {
		metrics.IncUpdate(kind)
		metrics.ObserveUpdateDuration(time.Since(start))
	}()

	user, err := h.deps.UserService.RegisterUser(ctx, from.ID, from.UserName, from.FirstName, from.LastName)
	if err != nil {
		h.errorHandler.Handle(ctx, fmt.Errorf("failed to register user: %w", err))
		return menus.Send(h.api, chatID, "Something went wrong. Please try again later.", nil)
	}

	switch kind {
	case kindCallback:
		err = h.callbackHandler.Handle(ctx, update.CallbackQuery, user)
	case kindCommand:
		err = h.commandHandler.Handle(ctx, update.Message, user)
	case kindText:
		err = h.textHandler.Handle(ctx, update.Message, user)
	default:
		err = menus.Send(h.api, chatID, "I only understand text messages and buttons.", nil)
	}
	if err != nil {
		h.errorHandler.Handle(ctx, err)
		return menus.Send(h.api, chatID, "Something went wrong. Please try again later.", nil)
	}
	return nil
}

func sender(update tgbotapi.Update) (*tgbotapi.User, int64) {
	switch {
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
		return update.CallbackQuery.From, update.CallbackQuery.Message.Chat.ID
	case update.Message != nil && update.Message.From != nil:
		return update.Message.From, update.Message.Chat.ID
	default:
		return nil, 0
	}
}

func updateKind(update tgbotapi.Update) string {
	switch {
	case update.CallbackQuery != nil:
		return kindCallback
	case update.Message != nil && update.Message.IsCommand():
		return kindCommand
	case update.Message != nil && update.Message.Text != "":
		return kindText
	default:
		return kindOther
	}
}
