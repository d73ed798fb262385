package qadha

import (
	"fmt"
	"strings"
)

const (
	daysPerYear           = 365
	obligatedDaysFemale   = 336
	cyclesPerYear         = 12
	childbirthCycleFactor = 9
	fridaysPerYear        = 52
	fridaysPerYearRamadan = 48
	ramadanDays           = 30
)

// EvaluationOrder selects whether the Jummah substitution or the Ramadan
// reduction is applied first. Both reductions are floored at zero, so the
// orders agree on every valid input.
type EvaluationOrder int

const (
	JummahThenRamadan EvaluationOrder = iota
	RamadanThenJummah
)

func (o EvaluationOrder) String() string {
	switch o {
	case RamadanThenJummah:
		return "ramadan_then_jummah"
	default:
		return "jummah_then_ramadan"
	}
}

// ParseEvaluationOrder accepts the config spelling; empty means the default.
func ParseEvaluationOrder(s string) (EvaluationOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "jummah_then_ramadan":
		return JummahThenRamadan, nil
	case "ramadan_then_jummah":
		return RamadanThenJummah, nil
	}
	return JummahThenRamadan, fmt.Errorf("unknown evaluation order %q", s)
}

// Estimator turns a profile and selection into a prayer debt.
type Estimator struct {
	order EvaluationOrder
}

// Option configures an Estimator.
type Option func(*Estimator)

// WithEvaluationOrder sets which reduction the Estimator applies first.
func WithEvaluationOrder(order EvaluationOrder) Option {
	return func(e *Estimator) {
		e.order = order
	}
}

// NewEstimator returns an Estimator using JummahThenRamadan unless overridden.
func NewEstimator(opts ...Option) *Estimator {
	e := &Estimator{order: JummahThenRamadan}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Order reports the configured evaluation order.
func (e *Estimator) Order() EvaluationOrder {
	return e.order
}

var defaultEstimator = NewEstimator()

// Estimate computes the debt with the default evaluation order.
func Estimate(profile UserProfile, selection Selection) (PrayerDebt, error) {
	return defaultEstimator.Estimate(profile, selection)
}

// Estimate turns a profile and a participation selection into a debt with
// one entry per tracked prayer. It either returns a complete debt or an
// InvalidInput error.
func (e *Estimator) Estimate(profile UserProfile, selection Selection) (PrayerDebt, error) {
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	debt := ZeroDebt(profile.Madhab)
	years := profile.YearsMissed
	if years == 0 {
		return debt, nil
	}

	days := adjustedDays(profile)
	for _, p := range debt.Prayers() {
		if !selection.Has(p) {
			debt[p] = floorZero(days)
		}
	}

	switch e.order {
	case RamadanThenJummah:
		applyRamadan(debt, selection, years)
		applyJummah(debt, selection, years)
	default:
		applyJummah(debt, selection, years)
		applyRamadan(debt, selection, years)
	}

	for p, n := range debt {
		debt[p] = floorZero(n)
	}
	return debt, nil
}

func adjustedDays(profile UserProfile) int {
	years := profile.YearsMissed
	if !profile.HasCycleData() {
		return years * daysPerYear
	}
	cycle := *profile.CycleLengthDays
	children := profile.NumberOfChildren
	return years*obligatedDaysFemale -
		cycle*cyclesPerYear*years +
		children*childbirthCycleFactor*cycle -
		profile.PostNatalBleedingDays*children
}

// applyJummah removes the Fridays on which Jummah replaced Dhuhr.
func applyJummah(debt PrayerDebt, selection Selection, years int) {
	if !selection.PrayedJummahInsteadOfDhuhr() || selection.Has(Dhuhr) {
		return
	}
	weeks := fridaysPerYear
	if selection.OnlyDuringRamadan() {
		weeks = fridaysPerYearRamadan
	}
	debt[Dhuhr] = floorZero(debt[Dhuhr] - weeks*years)
}

// applyRamadan removes the Ramadan days from every prayer not kept regularly.
func applyRamadan(debt PrayerDebt, selection Selection, years int) {
	if !selection.OnlyDuringRamadan() {
		return
	}
	for p, n := range debt {
		if selection.Has(p) {
			continue
		}
		debt[p] = floorZero(n - ramadanDays*years)
	}
}
