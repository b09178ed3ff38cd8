package scoring

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed lookup_defaults.yaml
var defaultLookupYAML []byte

// Lookup holds the curated allergen keywords and harmful terms. Build one per request.
type Lookup struct {
	AllergenKeywords map[string][]string `yaml:"allergen_keywords"`
	HarmfulTerms     []string            `yaml:"harmful_terms"`
}

// DefaultLookup parses the embedded tables.
func DefaultLookup() (*Lookup, error) {
	var l Lookup
	if err := yaml.Unmarshal(defaultLookupYAML, &l); err != nil {
		return nil, fmt.Errorf("parse default lookup: %w", err)
	}
	l.normalize()
	return &l, nil
}

// NewLookup builds a lookup from configured rows. Empty inputs fall back to the defaults per table.
func NewLookup(allergenKeywords map[string][]string, harmfulTerms []string) (*Lookup, error) {
	def, err := DefaultLookup()
	if err != nil {
		return nil, err
	}
	l := &Lookup{AllergenKeywords: allergenKeywords, HarmfulTerms: harmfulTerms}
	if len(l.AllergenKeywords) == 0 {
		l.AllergenKeywords = def.AllergenKeywords
	}
	if len(l.HarmfulTerms) == 0 {
		l.HarmfulTerms = def.HarmfulTerms
	}
	l.normalize()
	return l, nil
}

func (l *Lookup) normalize() {
	kws := make(map[string][]string, len(l.AllergenKeywords))
	for code, words := range l.AllergenKeywords {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" {
			continue
		}
		for _, w := range words {
			if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
				kws[code] = append(kws[code], w)
			}
		}
	}
	l.AllergenKeywords = kws

	seen := map[string]struct{}{}
	terms := make([]string, 0, len(l.HarmfulTerms))
	for _, t := range l.HarmfulTerms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		terms = append(terms, t)
	}
	sort.Strings(terms)
	l.HarmfulTerms = terms
}

func (l *Lookup) keywordsFor(code string) []string {
	if l == nil {
		return nil
	}
	return l.AllergenKeywords[strings.ToUpper(code)]
}
