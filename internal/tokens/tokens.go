// Package tokens expands a product-type name into the surface forms used to
// match report links against the requested category.
package tokens

import "strings"

// Set is an ordered, deduplicated sequence of lower-cased surface forms for
// one product category. The canonical term is always the first element.
type Set struct {
	canonical string
	terms     []string
	index     map[string]struct{}
}

// family maps a trigger substring to the known compound and alternate forms
// of one product category. Order inside a family is the match order.
type family struct {
	triggers []string
	terms    []string
}

var families = []family{
	{
		triggers: []string{"laptop", "notebook"},
		terms: []string{
			"laptop", "laptops",
			"notebook", "notebooks",
			"chromebook", "chromebooks",
			"macbook", "macbooks",
			"ultrabook", "ultrabooks",
		},
	},
	{
		triggers: []string{"desktop", "pc"},
		terms:    []string{"desktop", "desktops", "pc", "tower", "mini"},
	},
	{
		triggers: []string{"monitor", "display"},
		terms:    []string{"monitor", "monitors", "display", "displays"},
	},
	{
		triggers: []string{"server"},
		terms:    []string{"server", "servers"},
	},
}

// familySuffixes are generic suffix rules: any word ending in one of these
// counts as a category match ("MacBook", "Chromebook", "Zenbook", ...).
var familySuffixes = []string{"book"}

// Expand derives the token set for a product-type name. It never fails;
// unknown categories degrade to a singleton containing the normalized input.
// Expansion is pure and deterministic.
func Expand(productType string) Set {
	canonical := normalize(productType)
	s := Set{
		canonical: canonical,
		index:     make(map[string]struct{}),
	}
	if canonical == "" {
		return s
	}
	s.add(canonical)
	for _, f := range families {
		if !f.matches(canonical) {
			continue
		}
		for _, t := range f.terms {
			s.add(t)
		}
		break
	}
	return s
}

func (f family) matches(canonical string) bool {
	for _, trig := range f.triggers {
		if strings.Contains(canonical, trig) {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (s *Set) add(term string) {
	if _, ok := s.index[term]; ok {
		return
	}
	s.index[term] = struct{}{}
	s.terms = append(s.terms, term)
}

// Canonical returns the normalized input term the set was expanded from.
func (s Set) Canonical() string { return s.canonical }

// Tokens returns the expansion in insertion order.
func (s Set) Tokens() []string {
	out := make([]string, len(s.terms))
	copy(out, s.terms)
	return out
}

// Empty reports whether the set holds no terms.
func (s Set) Empty() bool { return len(s.terms) == 0 }

// Matches reports whether text contains any token as a case-insensitive
// substring, or any word carrying a recognized family suffix. An empty set
// matches nothing, suffixes included.
func (s Set) Matches(text string) bool {
	if text == "" || len(s.terms) == 0 {
		return false
	}
	lower := strings.ToLower(text)
	for _, t := range s.terms {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return matchesSuffix(lower)
}

// matchesSuffix scans the words of text for a recognized family suffix.
func matchesSuffix(lower string) bool {
	words := strings.FieldsFunc(lower, func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
	})
	for _, w := range words {
		for _, suffix := range familySuffixes {
			if w != suffix && strings.HasSuffix(w, suffix) {
				return true
			}
		}
	}
	return false
}
