package keyboards

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vladimiradmaev/qadha-helper/internal/qadha"
)

// Callback data. Parameterised callbacks are "<prefix>:<value>".
const (
	CallbackMainMenu     = "main_menu"
	CallbackMyQadha      = "my_qadha"
	CallbackLogMadeUp    = "log_made_up"
	CallbackToday        = "today"
	CallbackCorrect      = "correct"
	CallbackHistory      = "history"
	CallbackFAQ          = "faq"
	CallbackFAQAsk       = "faq_ask"
	CallbackReset        = "reset"
	CallbackResetConfirm = "reset_confirm"
	CallbackStart        = "start_onboarding"
	CallbackHelp         = "help"

	PrefixGender     = "gender"
	PrefixMadhab     = "madhab"
	PrefixPuberty    = "puberty"
	PrefixChildbirth = "childbirth"
	PrefixSelection  = "sel"
	PrefixMadeUp     = "made_up"
	PrefixToday      = "today"
	PrefixCorrect    = "correct"
	PrefixFAQ        = "faq"

	PubertyDefault = "default"
	PubertyAge     = "age"

	SelectionNone    = "none"
	SelectionJummah  = "jummah"
	SelectionRamadan = "ramadan"
	SelectionDone    = "done"
)

func Data(prefix, value string) string {
	return prefix + ":" + value
}

func checkbox(on bool) string {
	if on {
		return "✅"
	}
	return "⬜"
}

func backRow() []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("◀️ Main menu", CallbackMainMenu),
	)
}

// MainMenu creates the main menu keyboard
func MainMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 My Qadha", CallbackMyQadha),
			tgbotapi.NewInlineKeyboardButtonData("📅 Today", CallbackToday),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🕌 Log made-up prayers", CallbackLogMadeUp),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ Correct a counter", CallbackCorrect),
			tgbotapi.NewInlineKeyboardButtonData("🗂 History", CallbackHistory),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❓ FAQ", CallbackFAQ),
			tgbotapi.NewInlineKeyboardButtonData("♻️ Reset Qadha", CallbackReset),
		),
	)
}

func BackToMenu() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(backRow())
}

func StartOnboarding() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("▶️ Estimate my Qadha", CallbackStart),
		),
	)
}

func Gender() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👨 Male", Data(PrefixGender, string(qadha.GenderMale))),
			tgbotapi.NewInlineKeyboardButtonData("👩 Female", Data(PrefixGender, string(qadha.GenderFemale))),
		),
	)
}

func Madhab() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i := 0; i < len(qadha.Madhabs); i += 2 {
		row := tgbotapi.NewInlineKeyboardRow()
		for _, m := range qadha.Madhabs[i:min(i+2, len(qadha.Madhabs))] {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(m.Title(), Data(PrefixMadhab, string(m))))
		}
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func Puberty() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔢 I know my age", Data(PrefixPuberty, PubertyAge)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📖 Use the Islamic default", Data(PrefixPuberty, PubertyDefault)),
		),
	)
}

func Childbirth() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Yes", Data(PrefixChildbirth, "yes")),
			tgbotapi.NewInlineKeyboardButtonData("No", Data(PrefixChildbirth, "no")),
		),
	)
}

// Selection renders the participation checklist for the tracked prayers.
func Selection(sel qadha.Selection, tracked []qadha.Prayer) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, p := range tracked {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(checkbox(sel.Has(p))+" "+p.Title(), Data(PrefixSelection, string(p))),
		))
	}
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(checkbox(sel.IsNone())+" None", Data(PrefixSelection, SelectionNone)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(checkbox(sel.PrayedJummahInsteadOfDhuhr())+" Prayed Jummah on Fridays", Data(PrefixSelection, SelectionJummah)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(checkbox(sel.OnlyDuringRamadan())+" Prayed during Ramadan", Data(PrefixSelection, SelectionRamadan)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✔️ Done", Data(PrefixSelection, SelectionDone)),
		),
	)
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// PrayerChoice lists prayers with their current counts, two per row.
func PrayerChoice(prefix string, debt qadha.PrayerDebt) tgbotapi.InlineKeyboardMarkup {
	prayers := debt.Prayers()
	var rows [][]tgbotapi.InlineKeyboardButton
	for i := 0; i < len(prayers); i += 2 {
		row := tgbotapi.NewInlineKeyboardRow()
		for _, p := range prayers[i:min(i+2, len(prayers))] {
			label := fmt.Sprintf("%s (%d)", p.Title(), debt.Get(p))
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, Data(prefix, string(p))))
		}
		rows = append(rows, row)
	}
	rows = append(rows, backRow())
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// Checklist shows today's prayers; red marks a prayer logged as missed.
func Checklist(prayers []qadha.Prayer, missed map[qadha.Prayer]bool) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, p := range prayers {
		label := "🟢 " + p.Title() + " prayed"
		if missed[p] {
			label = "🔴 " + p.Title() + " missed"
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, Data(PrefixToday, string(p))),
		))
	}
	rows = append(rows, backRow())
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

type FAQItem struct {
	ID       string
	Question string
}

func FAQ(items []FAQItem, canAsk bool) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, item := range items {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(item.Question, Data(PrefixFAQ, item.ID)),
		))
	}
	if canAsk {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💬 Ask a question", CallbackFAQAsk),
		))
	}
	rows = append(rows, backRow())
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func BackToFAQ() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("◀️ FAQ", CallbackFAQ),
		),
		backRow(),
	)
}

func ResetConfirm() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑️ Yes, reset", CallbackResetConfirm),
			tgbotapi.NewInlineKeyboardButtonData("◀️ Cancel", CallbackMainMenu),
		),
	)
}
