package score

import (
	"math"
	"strconv"
	"strings"
)

// priorityFields are searched, in order, before any other object field.
var priorityFields = []string{"total", "points", "score", "runs", "goals"}

// Extract returns the numeric score held by v and whether one was found.
//
// Objects are searched through priorityFields first, then through every field
// in document order; the first usable number wins at each level.
func Extract(v Value) (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindString:
		return parseNumber(v.str)
	case KindObject:
		for _, key := range priorityFields {
			if inner, ok := v.Lookup(key); ok {
				if n, ok := Extract(inner); ok {
					return n, true
				}
			}
		}
		for _, f := range v.fields {
			if n, ok := Extract(f.Value); ok {
				return n, true
			}
		}
	}
	return 0, false
}

// ExtractPtr is Extract returning nil for absent scores.
func ExtractPtr(v Value) *float64 {
	n, ok := Extract(v)
	if !ok {
		return nil
	}
	return &n
}

// Format renders a score the way it appears on the board: shortest decimal
// form, so 5 is "5" and 5.5 is "5.5".
func Format(n float64) string {
	if n == 0 {
		n = 0 // drops the sign of -0
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, false
	}
	return n, true
}
