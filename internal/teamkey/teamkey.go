// Package teamkey canonicalizes team names so the same team can be recognized
// across providers that spell it differently ("LA Lakers", "Los Angeles Lakers").
package teamkey

import "strings"

// dottedCapitalI lowercases U+0130 to "i" plus a combining dot, the full
// Unicode mapping, instead of the plain "i" strings.ToLower gives.
var dottedCapitalI = strings.NewReplacer("\u0130", "i\u0307")

// Normalize lowercases name and collapses every run of characters outside
// [a-z0-9] into a single space, trimming the ends.
func Normalize(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	pendingSpace := false
	for _, r := range strings.ToLower(dottedCapitalI.Replace(name)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
			continue
		}
		pendingSpace = true
	}
	return b.String()
}

// KeySet holds the comparable keys of one team name: the full normalized name
// and, when different, its last token (the likely nickname).
type KeySet struct {
	keys []string
}

// Keys builds the key set for name. An empty or symbol-only name yields an
// empty set, which never matches anything.
func Keys(name string) KeySet {
	normalized := Normalize(name)
	if normalized == "" {
		return KeySet{}
	}

	keys := []string{normalized}
	if i := strings.LastIndexByte(normalized, ' '); i >= 0 {
		keys = append(keys, normalized[i+1:])
	}
	return KeySet{keys: keys}
}

// Len returns the number of keys.
func (s KeySet) Len() int { return len(s.keys) }

// Slice returns a copy of the keys, full name first.
func (s KeySet) Slice() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Has reports whether key is in the set.
func (s KeySet) Has(key string) bool {
	for _, k := range s.keys {
		if k == key {
			return true
		}
	}
	return false
}

// Intersects reports whether the two sets share at least one key.
func (s KeySet) Intersects(other KeySet) bool {
	for _, k := range s.keys {
		if other.Has(k) {
			return true
		}
	}
	return false
}
