package qadha

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/vladimiradmaev/qadha-helper/internal/errors"
)

func intPtr(n int) *int { return &n }

func male(madhab Madhab, years int) UserProfile {
	return UserProfile{Gender: GenderMale, Madhab: madhab, YearsMissed: years}
}

func TestEstimateScenarios(t *testing.T) {
	tests := []struct {
		name      string
		profile   UserProfile
		selection Selection
		want      PrayerDebt
	}{
		{
			name:    "male maliki nothing kept",
			profile: male(MadhabMaliki, 5),
			want:    PrayerDebt{Fajr: 1825, Dhuhr: 1825, Asr: 1825, Maghrib: 1825, Isha: 1825},
		},
		{
			name:    "male hanafi tracks witr",
			profile: male(MadhabHanafi, 5),
			want:    PrayerDebt{Fajr: 1825, Dhuhr: 1825, Asr: 1825, Maghrib: 1825, Isha: 1825, Witr: 1825},
		},
		{
			name:      "fajr kept regularly",
			profile:   male(MadhabShafii, 5),
			selection: NewSelection([]Prayer{Fajr}, false, false),
			want:      PrayerDebt{Fajr: 0, Dhuhr: 1825, Asr: 1825, Maghrib: 1825, Isha: 1825},
		},
		{
			name:      "jummah replaces dhuhr",
			profile:   male(MadhabHanbali, 4),
			selection: NewSelection(nil, true, false),
			want:      PrayerDebt{Fajr: 1460, Dhuhr: 1252, Asr: 1460, Maghrib: 1460, Isha: 1460},
		},
		{
			name: "female with cycle and childbirth data",
			profile: UserProfile{
				Gender:                GenderFemale,
				Madhab:                MadhabMaliki,
				YearsMissed:           3,
				CycleLengthDays:       intPtr(5),
				NumberOfChildren:      2,
				PostNatalBleedingDays: 10,
			},
			want: PrayerDebt{Fajr: 898, Dhuhr: 898, Asr: 898, Maghrib: 898, Isha: 898},
		},
		{
			name: "female hanafi includes witr",
			profile: UserProfile{
				Gender:                GenderFemale,
				Madhab:                MadhabHanafi,
				YearsMissed:           3,
				CycleLengthDays:       intPtr(5),
				NumberOfChildren:      2,
				PostNatalBleedingDays: 10,
			},
			want: PrayerDebt{Fajr: 898, Dhuhr: 898, Asr: 898, Maghrib: 898, Isha: 898, Witr: 898},
		},
		{
			name: "female without cycle data uses the flat year",
			profile: UserProfile{
				Gender:      GenderFemale,
				Madhab:      MadhabShafii,
				YearsMissed: 2,
			},
			want: PrayerDebt{Fajr: 730, Dhuhr: 730, Asr: 730, Maghrib: 730, Isha: 730},
		},
		{
			name: "cycle data ignored for male",
			profile: UserProfile{
				Gender:           GenderMale,
				Madhab:           MadhabShafii,
				YearsMissed:      1,
				CycleLengthDays:  intPtr(42),
				NumberOfChildren: -1,
			},
			want: PrayerDebt{Fajr: 365, Dhuhr: 365, Asr: 365, Maghrib: 365, Isha: 365},
		},
		{
			name:      "ramadan only with jummah",
			profile:   male(MadhabMaliki, 2),
			selection: NewSelection([]Prayer{Fajr}, true, true),
			// 730 - 48*2 - 30*2 for Dhuhr, 730 - 60 for the rest
			want: PrayerDebt{Fajr: 0, Dhuhr: 574, Asr: 670, Maghrib: 670, Isha: 670},
		},
		{
			name:      "jummah ignored when dhuhr kept",
			profile:   male(MadhabMaliki, 2),
			selection: NewSelection([]Prayer{Dhuhr}, true, false),
			want:      PrayerDebt{Fajr: 730, Dhuhr: 0, Asr: 730, Maghrib: 730, Isha: 730},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Estimate(tt.profile, tt.selection)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEstimateRejectsInvalidInput(t *testing.T) {
	female := func(cycle, children, bleeding int) UserProfile {
		return UserProfile{
			Gender:                GenderFemale,
			Madhab:                MadhabHanafi,
			YearsMissed:           3,
			CycleLengthDays:       intPtr(cycle),
			NumberOfChildren:      children,
			PostNatalBleedingDays: bleeding,
		}
	}

	tests := []struct {
		name    string
		profile UserProfile
		field   string
	}{
		{"negative years", male(MadhabHanafi, -1), "years_missed"},
		{"cycle too short", female(2, 0, 0), "cycle_length_days"},
		{"cycle too long", female(11, 0, 0), "cycle_length_days"},
		{"negative children", female(5, -1, 0), "number_of_children"},
		{"negative bleeding", female(5, 1, -3), "post_natal_bleeding_days"},
		{"unknown madhab", male("zahiri", 1), "madhab"},
		{"missing gender", UserProfile{Madhab: MadhabHanafi, YearsMissed: 1}, "gender"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			debt, err := Estimate(tt.profile, Selection{})
			require.Error(t, err)
			assert.Nil(t, debt)
			assert.True(t, apperrors.IsInvalidInput(err))
			assert.Equal(t, tt.field, apperrors.FieldOf(err))
		})
	}
}

func TestEstimateCycleBoundsAccepted(t *testing.T) {
	for _, cycle := range []int{MinCycleLengthDays, MaxCycleLengthDays} {
		profile := UserProfile{Gender: GenderFemale, Madhab: MadhabMaliki, YearsMissed: 1, CycleLengthDays: intPtr(cycle)}
		_, err := Estimate(profile, Selection{})
		assert.NoError(t, err, "cycle %d", cycle)
	}
}

func allSelections() []Selection {
	var out []Selection
	for mask := 0; mask < 1<<len(AllPrayers); mask++ {
		var prayers []Prayer
		for i, p := range AllPrayers {
			if mask&(1<<i) != 0 {
				prayers = append(prayers, p)
			}
		}
		for _, jummah := range []bool{false, true} {
			for _, ramadan := range []bool{false, true} {
				out = append(out, NewSelection(prayers, jummah, ramadan))
			}
		}
	}
	return out
}

func sampleProfiles() []UserProfile {
	var out []UserProfile
	for _, madhab := range Madhabs {
		for _, years := range []int{0, 1, 3, 12} {
			out = append(out, male(madhab, years))
			for _, cycle := range []int{3, 7, 10} {
				out = append(out, UserProfile{
					Gender:                GenderFemale,
					Madhab:                madhab,
					YearsMissed:           years,
					CycleLengthDays:       intPtr(cycle),
					NumberOfChildren:      4,
					PostNatalBleedingDays: 40,
				})
			}
		}
	}
	return out
}

func TestEstimateNeverNegative(t *testing.T) {
	for _, profile := range sampleProfiles() {
		for _, sel := range allSelections() {
			debt, err := Estimate(profile, sel)
			require.NoError(t, err)
			for p, n := range debt {
				assert.GreaterOrEqual(t, n, 0, "%s %+v", p, profile)
			}
		}
	}
}

func TestEstimateFullCoverageIsZero(t *testing.T) {
	for _, profile := range sampleProfiles() {
		sel := NewSelection(TrackedPrayers(profile.Madhab), true, true)
		debt, err := Estimate(profile, sel)
		require.NoError(t, err)
		assert.Zero(t, debt.Total())
	}
}

func TestEstimateWitrKeyFollowsMadhab(t *testing.T) {
	for _, madhab := range Madhabs {
		debt, err := Estimate(male(madhab, 2), Selection{})
		require.NoError(t, err)
		assert.Equal(t, madhab == MadhabHanafi, debt.Tracks(Witr), madhab)
		assert.Len(t, debt, len(TrackedPrayers(madhab)))
	}
}

func TestEstimateZeroYearsSkipsFemaleBranch(t *testing.T) {
	// Children alone would give 5*9*10 days under the female formula.
	profile := UserProfile{
		Gender:           GenderFemale,
		Madhab:           MadhabHanafi,
		CycleLengthDays:  intPtr(10),
		NumberOfChildren: 5,
	}
	debt, err := Estimate(profile, Selection{})
	require.NoError(t, err)
	assert.Equal(t, ZeroDebt(MadhabHanafi), debt)
}

func TestEstimateMonotonicInYears(t *testing.T) {
	for _, profile := range sampleProfiles() {
		for _, sel := range allSelections() {
			less, err := Estimate(profile, sel)
			require.NoError(t, err)
			more := profile
			more.YearsMissed++
			greater, err := Estimate(more, sel)
			require.NoError(t, err)
			for p := range less {
				assert.GreaterOrEqual(t, greater[p], less[p], "%s %+v", p, profile)
			}
		}
	}
}

func TestRamadanReductionOnlyLowersDebt(t *testing.T) {
	for _, profile := range sampleProfiles() {
		for _, sel := range allSelections() {
			if !sel.OnlyDuringRamadan() {
				continue
			}
			with, err := Estimate(profile, sel)
			require.NoError(t, err)
			without, err := Estimate(profile, sel.ToggleRamadan())
			require.NoError(t, err)
			for p := range with {
				assert.LessOrEqual(t, with[p], without[p])
			}
		}
	}
}

func TestEvaluationOrdersAgree(t *testing.T) {
	jr := NewEstimator()
	rj := NewEstimator(WithEvaluationOrder(RamadanThenJummah))
	require.Equal(t, JummahThenRamadan, jr.Order())
	require.Equal(t, RamadanThenJummah, rj.Order())

	for _, profile := range sampleProfiles() {
		for _, sel := range allSelections() {
			a, err := jr.Estimate(profile, sel)
			require.NoError(t, err)
			b, err := rj.Estimate(profile, sel)
			require.NoError(t, err)
			assert.Equal(t, a, b)
		}
	}
}

func TestParseEvaluationOrder(t *testing.T) {
	order, err := ParseEvaluationOrder("")
	require.NoError(t, err)
	assert.Equal(t, JummahThenRamadan, order)

	order, err = ParseEvaluationOrder(" Ramadan_Then_Jummah ")
	require.NoError(t, err)
	assert.Equal(t, RamadanThenJummah, order)
	assert.Equal(t, "ramadan_then_jummah", order.String())

	_, err = ParseEvaluationOrder("both")
	assert.Error(t, err)
}
