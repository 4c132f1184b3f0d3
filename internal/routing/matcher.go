// Package routing builds the route table from declared controller facts
// and matches inbound request paths against route templates.
//
// The matcher is deliberately simple: templates are slash-delimited, a
// segment wrapped in braces captures any single segment, everything else
// must match exactly. The route table is scanned linearly in declaration
// order and the first structural match wins; with the small route counts
// this engine serves, replacing the scan with a trie or a specificity
// scheme would only change behavior when templates overlap ambiguously.
package routing

import "strings"

// Matches reports whether a path template structurally matches a concrete
// path. Both are split on "/" with empty segments discarded, so leading
// and trailing slashes are insignificant. Segment counts must be equal; a
// template segment wrapped in "{" and "}" accepts any value, any other
// segment requires exact, case-sensitive equality.
func Matches(template, actual string) bool {
	tsegs := segments(template)
	asegs := segments(actual)

	if len(tsegs) != len(asegs) {
		return false
	}

	for i, tseg := range tsegs {
		if isWildcard(tseg) {
			continue
		}
		if tseg != asegs[i] {
			return false
		}
	}

	return true
}

// ExtractParams re-runs the segment walk of Matches and records the value
// captured under each {name} slot. It returns an empty map when the
// template does not match the path.
func ExtractParams(template, actual string) map[string]string {
	params := make(map[string]string)

	tsegs := segments(template)
	asegs := segments(actual)
	if len(tsegs) != len(asegs) {
		return params
	}

	for i, tseg := range tsegs {
		if isWildcard(tseg) {
			name := tseg[1 : len(tseg)-1]
			params[name] = asegs[i]
			continue
		}
		if tseg != asegs[i] {
			return map[string]string{}
		}
	}

	return params
}

// segments splits a path on "/" and discards empty segments.
func segments(path string) []string {
	parts := strings.Split(path, "/")
	segs := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			segs = append(segs, p)
		}
	}
	return segs
}

// isWildcard reports whether a template segment is a {name} capture slot.
func isWildcard(seg string) bool {
	return len(seg) >= 2 && strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}")
}
