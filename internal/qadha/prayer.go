// Package qadha holds the prayer-debt model and the estimator that turns a
// user's history into the number of missed obligatory prayers per prayer.
// Nothing in this package performs I/O.
package qadha

import (
	"strings"

	apperrors "github.com/vladimiradmaev/qadha-helper/internal/errors"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// ParseGender accepts the stored/callback spelling of a gender.
func ParseGender(s string) (Gender, error) {
	g := Gender(strings.ToLower(strings.TrimSpace(s)))
	if !g.Valid() {
		return "", apperrors.NewInvalidInputError("gender", "must be male or female")
	}
	return g, nil
}

// Madhab is the school of jurisprudence the user follows.
type Madhab string

const (
	MadhabHanafi  Madhab = "hanafi"
	MadhabMaliki  Madhab = "maliki"
	MadhabShafii  Madhab = "shafii"
	MadhabHanbali Madhab = "hanbali"
)

// Madhabs lists every supported school in display order.
var Madhabs = []Madhab{MadhabHanafi, MadhabMaliki, MadhabShafii, MadhabHanbali}

func (m Madhab) Valid() bool {
	switch m {
	case MadhabHanafi, MadhabMaliki, MadhabShafii, MadhabHanbali:
		return true
	}
	return false
}

// TracksWitr reports whether Witr is owed as Qadha under this madhab.
func (m Madhab) TracksWitr() bool {
	return m == MadhabHanafi
}

func (m Madhab) Title() string {
	switch m {
	case MadhabHanafi:
		return "Hanafi"
	case MadhabMaliki:
		return "Maliki"
	case MadhabShafii:
		return "Shafi'i"
	case MadhabHanbali:
		return "Hanbali"
	}
	return string(m)
}

func ParseMadhab(s string) (Madhab, error) {
	m := Madhab(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", apperrors.NewInvalidInputError("madhab", "unknown madhab "+s)
	}
	return m, nil
}

type Prayer string

const (
	Fajr    Prayer = "fajr"
	Dhuhr   Prayer = "dhuhr"
	Asr     Prayer = "asr"
	Maghrib Prayer = "maghrib"
	Isha    Prayer = "isha"
	Witr    Prayer = "witr"
)

// AllPrayers is the canonical order used for display and storage.
var AllPrayers = []Prayer{Fajr, Dhuhr, Asr, Maghrib, Isha, Witr}

var dailyPrayers = []Prayer{Fajr, Dhuhr, Asr, Maghrib, Isha}

// TrackedPrayers returns the prayers a debt is kept for under madhab.
func TrackedPrayers(madhab Madhab) []Prayer {
	prayers := make([]Prayer, len(dailyPrayers), len(AllPrayers))
	copy(prayers, dailyPrayers)
	if madhab.TracksWitr() {
		prayers = append(prayers, Witr)
	}
	return prayers
}

func (p Prayer) index() int {
	for i, known := range AllPrayers {
		if known == p {
			return i
		}
	}
	return -1
}

func (p Prayer) Valid() bool {
	return p.index() >= 0
}

func (p Prayer) Title() string {
	if !p.Valid() {
		return string(p)
	}
	return strings.ToUpper(string(p[:1])) + string(p[1:])
}

func ParsePrayer(s string) (Prayer, error) {
	p := Prayer(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", apperrors.NewInvalidInputError("prayer", "unknown prayer "+s)
	}
	return p, nil
}
