package qadha

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/vladimiradmaev/qadha-helper/internal/errors"
)

func TestSelectionNoneIsExclusive(t *testing.T) {
	sel := Selection{}.Toggle(Fajr).Toggle(Isha)
	assert.Equal(t, []Prayer{Fajr, Isha}, sel.Prayers())
	assert.False(t, sel.IsNone())

	sel = sel.SetNone()
	assert.True(t, sel.IsNone())
	assert.Empty(t, sel.Prayers())

	sel = sel.Toggle(Asr)
	assert.False(t, sel.IsNone())
	assert.Equal(t, []Prayer{Asr}, sel.Prayers())

	sel = sel.Toggle(Asr)
	assert.Empty(t, sel.Prayers())
}

func TestSelectionIsAValue(t *testing.T) {
	base := NewSelection([]Prayer{Dhuhr}, false, false)
	_ = base.Toggle(Fajr).ToggleJummah().ToggleRamadan()

	assert.Equal(t, []Prayer{Dhuhr}, base.Prayers())
	assert.False(t, base.PrayedJummahInsteadOfDhuhr())
	assert.False(t, base.OnlyDuringRamadan())
}

func TestSelectionEncoding(t *testing.T) {
	sel := NewSelection([]Prayer{Witr, Fajr, Maghrib}, true, false)
	assert.Equal(t, "fajr,maghrib,witr", sel.EncodePrayers())
	assert.Equal(t, sel, DecodeSelection(sel.EncodePrayers(), true, false))

	none := Selection{}.SetNone()
	assert.Equal(t, "none", none.EncodePrayers())
	assert.True(t, DecodeSelection("none", false, false).IsNone())

	assert.Empty(t, DecodeSelection("", false, false).Prayers())
	assert.Equal(t, []Prayer{Asr}, DecodeSelection("asr,tahajjud", false, false).Prayers())
}

func TestSelectionCoversAll(t *testing.T) {
	sel := NewSelection(TrackedPrayers(MadhabMaliki), false, false)
	assert.True(t, sel.CoversAll(TrackedPrayers(MadhabMaliki)))
	assert.False(t, sel.CoversAll(TrackedPrayers(MadhabHanafi)))
}

func TestApplyDelta(t *testing.T) {
	debt := PrayerDebt{Fajr: 3, Dhuhr: 0, Asr: 1, Maghrib: 1, Isha: 1}

	out, err := ApplyDelta(debt, Fajr, -2)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Get(Fajr))
	assert.Equal(t, 3, debt.Get(Fajr), "input must not be mutated")

	out, err = ApplyDelta(out, Fajr, -5)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Get(Fajr))

	out, err = ApplyDelta(out, Dhuhr, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Get(Dhuhr))

	_, err = ApplyDelta(debt, Witr, 1)
	require.Error(t, err)
	assert.Equal(t, "prayer", apperrors.FieldOf(err))
}

func TestSetCount(t *testing.T) {
	debt := ZeroDebt(MadhabHanafi)

	out, err := SetCount(debt, Witr, 120)
	require.NoError(t, err)
	assert.Equal(t, 120, out.Get(Witr))
	assert.Equal(t, 120, out.Total())

	_, err = SetCount(debt, Witr, -1)
	assert.True(t, apperrors.IsInvalidInput(err))

	_, err = SetCount(ZeroDebt(MadhabShafii), Witr, 1)
	assert.True(t, apperrors.IsInvalidInput(err))
}

func TestParseEnums(t *testing.T) {
	g, err := ParseGender(" Female ")
	require.NoError(t, err)
	assert.Equal(t, GenderFemale, g)
	_, err = ParseGender("other")
	assert.Equal(t, "gender", apperrors.FieldOf(err))

	m, err := ParseMadhab("SHAFII")
	require.NoError(t, err)
	assert.Equal(t, MadhabShafii, m)
	assert.Equal(t, "Shafi'i", m.Title())

	p, err := ParsePrayer("maghrib")
	require.NoError(t, err)
	assert.Equal(t, "Maghrib", p.Title())
	_, err = ParsePrayer("duha")
	assert.True(t, apperrors.IsInvalidInput(err))
}

func TestDeriveYearsMissed(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	puberty := time.Date(2010, 11, 20, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 14, TotalYearsSincePuberty(puberty, now))
	assert.Equal(t, 0, TotalYearsSincePuberty(now.AddDate(2, 0, 0), now))

	missed, err := DeriveYearsMissed(puberty, 4, now)
	require.NoError(t, err)
	assert.Equal(t, 10, missed)

	missed, err = DeriveYearsMissed(puberty, 14, now)
	require.NoError(t, err)
	assert.Zero(t, missed)

	_, err = DeriveYearsMissed(puberty, 15, now)
	require.Error(t, err)
	assert.Equal(t, "years_prayed_regularly", apperrors.FieldOf(err))

	_, err = DeriveYearsMissed(puberty, -1, now)
	assert.True(t, apperrors.IsInvalidInput(err))
}

func TestParseYearsPrayed(t *testing.T) {
	n, err := ParseYearsPrayed(" 7 ")
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	for _, in := range []string{"seven", "", "1.5", "-2"} {
		_, err := ParseYearsPrayed(in)
		assert.True(t, apperrors.IsInvalidInput(err), in)
	}
}

func TestPuberty(t *testing.T) {
	dob := time.Date(2000, 1, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2014, 9, 15, 0, 0, 0, 0, time.UTC), IslamicDefaultPuberty(dob))

	p, err := PubertyFromAge(dob, 12)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2012, 1, 15, 0, 0, 0, 0, time.UTC), p)

	for _, age := range []int{8, 17} {
		_, err := PubertyFromAge(dob, age)
		assert.Equal(t, "puberty_age", apperrors.FieldOf(err), age)
	}

	assert.NoError(t, ValidatePuberty(dob, dob))
	assert.Error(t, ValidatePuberty(dob, dob.AddDate(0, 0, -1)))

	profile := male(MadhabHanafi, 1)
	profile.DateOfBirth = dob
	profile.DateOfPuberty = dob.AddDate(-1, 0, 0)
	_, err = Estimate(profile, Selection{})
	assert.Equal(t, "date_of_puberty", apperrors.FieldOf(err))
}
