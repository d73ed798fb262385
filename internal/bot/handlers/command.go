package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vladimiradmaev/qadha-helper/internal/bot/menus"
	"github.com/vladimiradmaev/qadha-helper/internal/bot/state"
	"github.com/vladimiradmaev/qadha-helper/internal/database"
)

// CommandHandler handles command messages
type CommandHandler struct {
	*flow
}

// NewCommandHandler creates a new command handler
func NewCommandHandler(api menus.Sender, deps Dependencies, stateManager state.StateManager) *CommandHandler {
	return &CommandHandler{flow: &flow{api: api, deps: deps, states: stateManager}}
}

// Handle processes a command message
func (h *CommandHandler) Handle(ctx context.Context, message *tgbotapi.Message, user *database.User) error {
	chatID := message.Chat.ID
	switch message.Command() {
	case "start":
		return h.handleStart(ctx, chatID, user)
	case "help":
		return h.sendHelp(chatID)
	case "qadha":
		h.states.ClearUserState(user.TelegramID)
		return h.showDebt(ctx, chatID, user)
	case "faq":
		h.states.ClearUserState(user.TelegramID)
		return h.showFAQ(chatID)
	case "reset":
		h.states.ClearUserState(user.TelegramID)
		return h.confirmReset(chatID)
	default:
		return h.send(chatID, "Unknown command. Use /help to see the available commands.", nil)
	}
}

// handleStart shows the main menu once the estimate exists, and starts
// onboarding otherwise.
func (h *CommandHandler) handleStart(ctx context.Context, chatID int64, user *database.User) error {
	profile, err := h.deps.ProfileSvc.GetProfile(ctx, user.ID)
	if err != nil {
		return err
	}
	if profile.OnboardingCompleted {
		h.states.ClearUserState(user.TelegramID)
		return menus.SendMainMenu(h.api, chatID)
	}
	if err := h.send(chatID, "🕌 Assalamu alaikum! I will help you estimate and make up the prayers you missed.", nil); err != nil {
		return err
	}
	return h.startOnboarding(chatID, user)
}
