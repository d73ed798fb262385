package keyboards

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimiradmaev/qadha-helper/internal/qadha"
)

func data(kb tgbotapi.InlineKeyboardMarkup) []string {
	var out []string
	for _, row := range kb.InlineKeyboard {
		for _, b := range row {
			if b.CallbackData != nil {
				out = append(out, *b.CallbackData)
			}
		}
	}
	return out
}

func labels(kb tgbotapi.InlineKeyboardMarkup) []string {
	var out []string
	for _, row := range kb.InlineKeyboard {
		for _, b := range row {
			out = append(out, b.Text)
		}
	}
	return out
}

func TestCallbackDataFitsTelegramLimit(t *testing.T) {
	debt := qadha.ZeroDebt(qadha.MadhabHanafi)
	boards := []tgbotapi.InlineKeyboardMarkup{
		MainMenu(), StartOnboarding(), Gender(), Madhab(), Puberty(), Childbirth(),
		Selection(qadha.Selection{}, qadha.TrackedPrayers(qadha.MadhabHanafi)),
		PrayerChoice(PrefixMadeUp, debt), PrayerChoice(PrefixCorrect, debt),
		Checklist(debt.Prayers(), nil), ResetConfirm(), BackToFAQ(),
	}
	for _, kb := range boards {
		for _, d := range data(kb) {
			assert.LessOrEqual(t, len(d), 64, d)
		}
	}
}

func TestMadhabKeyboard(t *testing.T) {
	kb := Madhab()
	require.Len(t, kb.InlineKeyboard, 2)
	assert.Equal(t, []string{"madhab:hanafi", "madhab:maliki", "madhab:shafii", "madhab:hanbali"}, data(kb))
	assert.Contains(t, labels(kb), "Shafi'i")
}

func TestSelectionKeyboard(t *testing.T) {
	sel := qadha.NewSelection([]qadha.Prayer{qadha.Asr}, true, false)
	kb := Selection(sel, qadha.TrackedPrayers(qadha.MadhabShafii))

	assert.Equal(t, []string{
		"sel:fajr", "sel:dhuhr", "sel:asr", "sel:maghrib", "sel:isha",
		"sel:none", "sel:jummah", "sel:ramadan", "sel:done",
	}, data(kb))

	l := labels(kb)
	assert.Contains(t, l, "✅ Asr")
	assert.Contains(t, l, "⬜ Fajr")
	assert.Contains(t, l, "⬜ None")
	assert.Contains(t, l, "✅ Prayed Jummah on Fridays")
}

func TestPrayerChoiceShowsCounts(t *testing.T) {
	debt := qadha.ZeroDebt(qadha.MadhabHanafi)
	debt[qadha.Witr] = 12

	kb := PrayerChoice(PrefixCorrect, debt)
	assert.Contains(t, labels(kb), "Witr (12)")
	assert.Contains(t, data(kb), "correct:witr")
	assert.Equal(t, CallbackMainMenu, data(kb)[len(data(kb))-1])
}

func TestChecklistMarksMissed(t *testing.T) {
	prayers := qadha.TrackedPrayers(qadha.MadhabMaliki)
	kb := Checklist(prayers, map[qadha.Prayer]bool{qadha.Maghrib: true})

	l := labels(kb)
	assert.Contains(t, l, "🔴 Maghrib missed")
	assert.Contains(t, l, "🟢 Fajr prayed")
	assert.Len(t, kb.InlineKeyboard, len(prayers)+1)
}

func TestFAQKeyboard(t *testing.T) {
	items := []FAQItem{{ID: "witr", Question: "Is Witr owed?"}}

	assert.Equal(t, []string{"faq:witr", CallbackMainMenu}, data(FAQ(items, false)))
	assert.Equal(t, []string{"faq:witr", CallbackFAQAsk, CallbackMainMenu}, data(FAQ(items, true)))
}
