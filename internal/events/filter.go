package events

import "regexp"

// Filter restricts which events of a kind reach a handler. A zero-value
// filter (or a nil *Filter) passes everything. Only the field relevant to
// the event kind is consulted; the rest are ignored.
type Filter struct {
	// Ranges lists literal A1-notation ranges an edit event must address.
	// Any match passes.
	Ranges []string
	// RangePattern is an alternative to Ranges for edit events: the event
	// passes when the pattern matches the addressed range.
	RangePattern *regexp.Regexp
	// FormIDs lists form identifiers a form-submission event must come from.
	FormIDs []string
	// ChangeTypes lists change classifications a structural-change event
	// must carry.
	ChangeTypes []string
}

// Matches reports whether the event passes the filter for the given kind.
// Kinds without a filter dimension (install, open, selection change) always
// pass, as does a kind whose filter dimension was left empty.
func (f *Filter) Matches(kind Kind, event Payload) bool {
	if f == nil {
		return true
	}

	switch kind {
	case KindEdit:
		return f.matchesRange(RangeA1(event))
	case KindFormSubmit:
		return matchesAny(f.FormIDs, FormID(event))
	case KindChange:
		return matchesAny(f.ChangeTypes, ChangeType(event))
	default:
		return true
	}
}

func (f *Filter) matchesRange(a1 string) bool {
	if len(f.Ranges) == 0 && f.RangePattern == nil {
		return true
	}
	for _, r := range f.Ranges {
		if r == a1 {
			return true
		}
	}
	if f.RangePattern != nil && f.RangePattern.MatchString(a1) {
		return true
	}
	return false
}

// matchesAny reports whether value equals one of the wanted literals.
// An empty literal list passes unconditionally.
func matchesAny(wanted []string, value string) bool {
	if len(wanted) == 0 {
		return true
	}
	for _, w := range wanted {
		if w == value {
			return true
		}
	}
	return false
}
