package scoring

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	allergenComponentMax   = 50.0
	commonAllergenPenalty  = 20.0
	harmfulComponentMax    = 20.0
	harmfulTermPenalty     = 5.0
	qualityMeatFirstBonus  = 10.0
	qualityProteinHigh     = 10.0
	qualityProteinMedium   = 5.0
	qualityScoreScale      = 10.0
	qualityReasonThreshold = 70.0

	ReasonAllergenExcluded     = "excluded: allergen match"
	ReasonOtherAllergyExcluded = "excluded: other allergy match"
)

var commonAllergens = map[Species]map[string]struct{}{
	SpeciesDog: setOf("BEEF", "DAIRY", "CHICKEN", "WHEAT", "SOY", "EGG", "LAMB", "CORN"),
	SpeciesCat: setOf("BEEF", "FISH", "DAIRY", "CHICKEN"),
}

type Scorer struct {
	lookup *Lookup
}

func NewScorer(lookup *Lookup) *Scorer {
	if lookup == nil {
		lookup = &Lookup{}
	}
	return &Scorer{lookup: lookup}
}

// Safety scores how safe cand is for subj on a 0-100 scale. A score of 0 excludes the candidate.
func (s *Scorer) Safety(subj *Subject, cand *Candidate) SafetyResult {
	text := cand.ingredientText()

	if s.hardAllergenMatch(subj, cand, text) {
		return SafetyResult{Excluded: true, Reasons: []string{ReasonAllergenExcluded}}
	}
	if otherAllergyMatch(subj.OtherAllergies, text) {
		return SafetyResult{Excluded: true, Reasons: []string{ReasonOtherAllergyExcluded}}
	}

	var reasons []string

	allergen := allergenComponentMax
	common := commonAllergens[subj.Species]
	codes := make([]string, 0, len(cand.AllergenConfidence))
	for code := range cand.AllergenConfidence {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		if cand.AllergenConfidence[code] != ConfidenceHigh {
			continue
		}
		if _, ok := common[strings.ToUpper(code)]; ok {
			allergen -= commonAllergenPenalty
			reasons = append(reasons, fmt.Sprintf("contains common allergen %s", strings.ToUpper(code)))
			break
		}
	}
	if allergen == allergenComponentMax {
		reasons = append(reasons, "no high-confidence common allergens")
	}

	harmful := harmfulComponentMax
	var found []string
	for _, term := range s.lookup.HarmfulTerms {
		if strings.Contains(text, term) {
			harmful -= harmfulTermPenalty
			found = append(found, term)
		}
	}
	if harmful < 0 {
		harmful = 0
	}
	if len(found) > 0 {
		reasons = append(reasons, "harmful ingredients: "+strings.Join(found, ", "))
	} else {
		reasons = append(reasons, "no harmful additives")
	}

	quality := 0.0
	if cand.FirstIngredientMeat {
		quality += qualityMeatFirstBonus
		reasons = append(reasons, "meat is the first ingredient")
	}
	switch cand.ProteinQuality {
	case ProteinHigh:
		quality += qualityProteinHigh
		reasons = append(reasons, "high quality protein source")
	case ProteinMedium:
		quality += qualityProteinMedium
	case ProteinLow, ProteinUnknown:
	}
	qs := clamp(cand.QualityScore, 0, 100)
	quality += qs / 100 * qualityScoreScale
	if qs >= qualityReasonThreshold {
		reasons = append(reasons, fmt.Sprintf("ingredient quality score %.0f", qs))
	}

	total := clamp(allergen+harmful+quality, 0, 100)
	return SafetyResult{
		Score:             total,
		Reasons:           reasons,
		Excluded:          total == 0,
		AllergenComponent: allergen,
		HarmfulComponent:  harmful,
		QualityComponent:  quality,
	}
}

func (s *Scorer) hardAllergenMatch(subj *Subject, cand *Candidate, text string) bool {
	potential := make(map[string]struct{}, len(cand.PotentialAllergens))
	for _, a := range normalizeCodes(cand.PotentialAllergens) {
		potential[a] = struct{}{}
	}
	for _, a := range normalizeCodes(subj.Allergens) {
		if _, ok := potential[a]; ok {
			return true
		}
	}
	for _, a := range subj.ExcludedAllergens {
		if _, ok := potential[a]; ok {
			return true
		}
		for _, kw := range s.lookup.keywordsFor(a) {
			if strings.Contains(text, kw) {
				return true
			}
		}
	}
	return false
}

// otherAllergyMatch applies the free-text rule: the whole entry, or any word longer
// than two characters, appearing in the ingredient text.
func otherAllergyMatch(entries []string, text string) bool {
	for _, entry := range entries {
		entry = strings.ToLower(strings.TrimSpace(entry))
		if entry == "" {
			continue
		}
		if strings.Contains(text, entry) {
			return true
		}
		for _, word := range strings.Fields(entry) {
			word = strings.Trim(word, ",.;:()")
			if utf8.RuneCountInString(word) > 2 && strings.Contains(text, word) {
				return true
			}
		}
	}
	return false
}

func setOf(vals ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		out[v] = struct{}{}
	}
	return out
}
