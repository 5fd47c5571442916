package core

import "strings"

// NormalizeFinish maps a free-form finish marker to a canonical finish.
//
// Recognized (case-insensitive): "*f*", "[f]" anywhere or exactly "foil" for
// foil; "*e*", "[e]" anywhere or exactly "etched" for etched; exactly
// "nonfoil" for nonfoil. Anything else is FinishUnset.
func NormalizeFinish(marker string) Finish {
	m := strings.ToLower(strings.TrimSpace(marker))
	switch {
	case m == "":
		return FinishUnset
	case strings.Contains(m, "*f*"), strings.Contains(m, "[f]"), m == "foil":
		return FinishFoil
	case strings.Contains(m, "*e*"), strings.Contains(m, "[e]"), m == "etched":
		return FinishEtched
	case m == "nonfoil":
		return FinishNonfoil
	}
	return FinishUnset
}

// ParseFinishFlag reads a boolean-style foil column: yes, true, 1 or foil
// mean foil, anything else is unset.
func ParseFinishFlag(v string) Finish {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes", "true", "1", "foil":
		return FinishFoil
	}
	return FinishUnset
}

// ParseFinishName reads a column holding the finish name itself: foil and
// etched pass through, anything else is unset.
func ParseFinishName(v string) Finish {
	switch f := Finish(strings.ToLower(strings.TrimSpace(v))); f {
	case FinishFoil, FinishEtched:
		return f
	}
	return FinishUnset
}
