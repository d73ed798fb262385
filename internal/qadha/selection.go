package qadha

import "strings"

// Selection records which prayers the user kept regularly during the years
// they otherwise missed, plus the Jummah and Ramadan modifiers.
//
// None and the per-prayer flags are mutually exclusive: Toggle clears None
// and SetNone clears every prayer. Selection is a value; mutators return a copy.
type Selection struct {
	prayers     uint8
	none        bool
	jummah      bool
	ramadanOnly bool
}

// NewSelection builds a selection from prayers kept regularly. Unknown
// prayers are ignored.
func NewSelection(prayers []Prayer, jummah, ramadanOnly bool) Selection {
	s := Selection{jummah: jummah, ramadanOnly: ramadanOnly}
	for _, p := range prayers {
		if i := p.index(); i >= 0 {
			s.prayers |= 1 << i
		}
	}
	return s
}

// Has reports whether p was marked as prayed regularly.
func (s Selection) Has(p Prayer) bool {
	i := p.index()
	return i >= 0 && s.prayers&(1<<i) != 0
}

// Prayers returns the marked prayers in canonical order.
func (s Selection) Prayers() []Prayer {
	var out []Prayer
	for _, p := range AllPrayers {
		if s.Has(p) {
			out = append(out, p)
		}
	}
	return out
}

func (s Selection) IsNone() bool                     { return s.none }
func (s Selection) PrayedJummahInsteadOfDhuhr() bool { return s.jummah }
func (s Selection) OnlyDuringRamadan() bool          { return s.ramadanOnly }

// Toggle flips p and clears None.
func (s Selection) Toggle(p Prayer) Selection {
	i := p.index()
	if i < 0 {
		return s
	}
	s.prayers ^= 1 << i
	s.none = false
	return s
}

// SetNone marks that no prayer was kept regularly.
func (s Selection) SetNone() Selection {
	s.prayers = 0
	s.none = true
	return s
}

func (s Selection) ToggleJummah() Selection {
	s.jummah = !s.jummah
	return s
}

func (s Selection) ToggleRamadan() Selection {
	s.ramadanOnly = !s.ramadanOnly
	return s
}

// CoversAll reports whether every prayer in tracked was marked.
func (s Selection) CoversAll(tracked []Prayer) bool {
	for _, p := range tracked {
		if !s.Has(p) {
			return false
		}
	}
	return true
}

const noneToken = "none"

// EncodePrayers renders the prayer flags for storage: a comma-separated list
// in canonical order, "none", or "".
func (s Selection) EncodePrayers() string {
	if s.none {
		return noneToken
	}
	names := make([]string, 0, len(AllPrayers))
	for _, p := range s.Prayers() {
		names = append(names, string(p))
	}
	return strings.Join(names, ",")
}

// DecodeSelection is the inverse of EncodePrayers.
func DecodeSelection(encoded string, jummah, ramadanOnly bool) Selection {
	encoded = strings.TrimSpace(encoded)
	if encoded == noneToken {
		return Selection{jummah: jummah, ramadanOnly: ramadanOnly}.SetNone()
	}
	var prayers []Prayer
	for _, part := range strings.Split(encoded, ",") {
		if p, err := ParsePrayer(part); err == nil {
			prayers = append(prayers, p)
		}
	}
	return NewSelection(prayers, jummah, ramadanOnly)
}
