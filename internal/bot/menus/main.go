package menus

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/qadha-helper/internal/bot/keyboards"
	"github.com/vladimiradmaev/qadha-helper/internal/database"
	"github.com/vladimiradmaev/qadha-helper/internal/qadha"
	"github.com/vladimiradmaev/qadha-helper/internal/utils"
)

// Sender is the part of *tgbotapi.BotAPI the bot uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

const mainMenuText = `🕌 *Qadha Helper* keeps count of the prayers you owe

• See how many prayers of each kind are left
• Log the Qadha prayers you made up today
• Mark today's prayers you missed
• Read answers to common questions

Choose an action:`

// SendMainMenu sends the main menu to a chat
func SendMainMenu(api Sender, chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, mainMenuText)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = keyboards.MainMenu()
	_, err := api.Send(msg)
	return err
}

// Send sends plain text with an optional keyboard.
func Send(api Sender, chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if markup != nil {
		msg.ReplyMarkup = markup
	}
	_, err := api.Send(msg)
	return err
}

// FormatDebt renders the per-prayer counts and the total.
func FormatDebt(debt qadha.PrayerDebt) string {
	var b strings.Builder
	b.WriteString("📊 Your Qadha:\n\n")
	for _, p := range debt.Prayers() {
		fmt.Fprintf(&b, "• %s: %d\n", p.Title(), debt.Get(p))
	}
	fmt.Fprintf(&b, "\nTotal: %d", debt.Total())
	if debt.Total() == 0 {
		b.WriteString("\n\n🎉 You owe no prayers. May Allah accept them.")
	}
	return b.String()
}

func SendDebtSummary(api Sender, chatID int64, debt qadha.PrayerDebt) error {
	return Send(api, chatID, FormatDebt(debt), keyboards.MainMenu())
}

// MissedToday collects the prayers marked missed among a day's entries.
func MissedToday(entries []database.LedgerEntry) map[qadha.Prayer]bool {
	missed := make(map[qadha.Prayer]bool)
	for _, e := range entries {
		if e.Kind == database.LedgerKindMissed {
			missed[qadha.Prayer(e.Prayer)] = true
		}
	}
	return missed
}

func ChecklistText(entries []database.LedgerEntry) string {
	madeUp := 0
	for _, e := range entries {
		if e.Kind == database.LedgerKindMadeUp {
			madeUp -= e.Delta
		}
	}
	text := "📅 Today's prayers. Tap a prayer you missed to add it to your Qadha; tap again to undo."
	if madeUp > 0 {
		text += fmt.Sprintf("\n\nMade up today: %d", madeUp)
	}
	return text
}

func SendChecklist(api Sender, chatID int64, prayers []qadha.Prayer, entries []database.LedgerEntry) error {
	return Send(api, chatID, ChecklistText(entries), keyboards.Checklist(prayers, MissedToday(entries)))
}

// UpdateChecklist re-renders the checklist keyboard in place.
func UpdateChecklist(api Sender, chatID int64, messageID int, prayers []qadha.Prayer, entries []database.LedgerEntry) error {
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, keyboards.Checklist(prayers, MissedToday(entries)))
	_, err := api.Request(edit)
	return err
}

var kindTitles = map[string]string{
	database.LedgerKindMissed:     "missed",
	database.LedgerKindMadeUp:     "made up",
	database.LedgerKindCorrection: "corrected",
}

// FormatHistory lists ledger entries, newest first.
func FormatHistory(entries []database.LedgerEntry) string {
	if len(entries) == 0 {
		return "🗂 Nothing logged yet."
	}
	var b strings.Builder
	b.WriteString("🗂 Recent activity:\n\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "%s  %s %s (%+d)\n",
			utils.FormatDate(e.Date), qadha.Prayer(e.Prayer).Title(), kindTitles[e.Kind], e.Delta)
	}
	return strings.TrimRight(b.String(), "\n")
}

// SendSelection asks which prayers were kept regularly.
func SendSelection(api Sender, chatID int64, sel qadha.Selection, tracked []qadha.Prayer) error {
	text := `Which prayers did you pray regularly during those years?

Tick every prayer you kept. Tick "None" if you kept none of them, then press Done.`
	return Send(api, chatID, text, keyboards.Selection(sel, tracked))
}

func UpdateSelection(api Sender, chatID int64, messageID int, sel qadha.Selection, tracked []qadha.Prayer) error {
	edit := tgbotapi.NewEditMessageReplyMarkup(chatID, messageID, keyboards.Selection(sel, tracked))
	_, err := api.Request(edit)
	return err
}
