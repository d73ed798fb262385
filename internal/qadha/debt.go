package qadha

import (
	"fmt"

	apperrors "github.com/vladimiradmaev/qadha-helper/internal/errors"
)

// PrayerDebt maps each tracked prayer to the number of missed occurrences
// still owed. Counts are never negative.
type PrayerDebt map[Prayer]int

// ZeroDebt returns an all-zero debt with the key set implied by madhab.
func ZeroDebt(madhab Madhab) PrayerDebt {
	debt := make(PrayerDebt, len(AllPrayers))
	for _, p := range TrackedPrayers(madhab) {
		debt[p] = 0
	}
	return debt
}

// Prayers returns the keys of d in canonical order.
func (d PrayerDebt) Prayers() []Prayer {
	out := make([]Prayer, 0, len(d))
	for _, p := range AllPrayers {
		if _, ok := d[p]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Get returns the count owed for p; untracked prayers report zero.
func (d PrayerDebt) Get(p Prayer) int {
	return d[p]
}

func (d PrayerDebt) Tracks(p Prayer) bool {
	_, ok := d[p]
	return ok
}

func (d PrayerDebt) Total() int {
	total := 0
	for _, n := range d {
		total += n
	}
	return total
}

func (d PrayerDebt) Clone() PrayerDebt {
	out := make(PrayerDebt, len(d))
	for p, n := range d {
		out[p] = n
	}
	return out
}

// ApplyDelta returns a copy of d with delta added to p, floored at zero.
// Daily logging goes through here: made-up prayers are negative deltas,
// newly missed ones positive.
func ApplyDelta(d PrayerDebt, p Prayer, delta int) (PrayerDebt, error) {
	if !d.Tracks(p) {
		return nil, apperrors.NewInvalidInputError("prayer", fmt.Sprintf("%s is not tracked", p))
	}
	out := d.Clone()
	out[p] = floorZero(out[p] + delta)
	return out, nil
}

// SetCount returns a copy of d with p set to value (a manual correction).
func SetCount(d PrayerDebt, p Prayer, value int) (PrayerDebt, error) {
	if !d.Tracks(p) {
		return nil, apperrors.NewInvalidInputError("prayer", fmt.Sprintf("%s is not tracked", p))
	}
	if value < 0 {
		return nil, apperrors.NewInvalidInputError("count", "must not be negative")
	}
	out := d.Clone()
	out[p] = value
	return out, nil
}

func floorZero(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
