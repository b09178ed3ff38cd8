package scoring

import (
	"strings"

	"github.com/google/uuid"
)

// Subject is the pet profile as scoring sees it, with owner preferences folded in.
type Subject struct {
	ID             uuid.UUID
	Species        Species
	AgeStage       AgeStage
	WeightKg       float64
	BreedCode      string
	IsNeutered     *bool
	HealthConcerns []string
	Allergens      []string
	OtherAllergies []string

	// ExcludedAllergens come from owner preferences and are also matched by keyword.
	ExcludedAllergens []string
	HealthPriority    bool
}

// Candidate is a product with its parsed ingredient analysis attached.
type Candidate struct {
	ID          uuid.UUID
	BrandName   string
	ProductName string
	Species     Species
	// Parsed is false when the ingredient parser has not produced data; such candidates are never scored.
	Parsed bool

	LifeStage           LifeStage
	IngredientsOrdered  []string
	IngredientsText     string
	PotentialAllergens  []string
	AllergenConfidence  map[string]Confidence
	BenefitTags         []string
	QualityScore        float64
	ProteinQuality      ProteinQuality
	FirstIngredientMeat bool
	GrainFree           bool
	Notes               string

	KcalPerKg        *float64
	KcalPer100g      *float64
	FactsKcalPer100g *float64

	PricePerKg *float64
	Merchant   string
}

func (c *Candidate) DisplayName() string {
	return strings.TrimSpace(c.BrandName + " " + c.ProductName)
}

// ingredientText is the lowercase haystack for every substring check.
func (c *Candidate) ingredientText() string {
	var b strings.Builder
	for i, ing := range c.IngredientsOrdered {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(ing)
	}
	if c.IngredientsText != "" {
		b.WriteByte(' ')
		b.WriteString(c.IngredientsText)
	}
	return strings.ToLower(b.String())
}

func (c *Candidate) hasTag(tag string) bool {
	for _, t := range c.BenefitTags {
		if strings.EqualFold(strings.TrimSpace(t), tag) {
			return true
		}
	}
	return false
}

// Prefs are the preference fields scoring reads. The weights preset only names the strategy
// and is not carried here.
type Prefs struct {
	HardExcludeAllergens  []string
	SoftAvoidIngredients  []string
	MaxPricePerKg         *float64
	Sort                  SortPreference
	HealthConcernPriority bool
}

// WithPrefs returns a copy of s carrying the preference-derived fields.
func (s Subject) WithPrefs(p Prefs) Subject {
	s.ExcludedAllergens = normalizeCodes(p.HardExcludeAllergens)
	s.HealthPriority = p.HealthConcernPriority
	return s
}

type SafetyResult struct {
	Score    float64
	Reasons  []string
	Excluded bool

	AllergenComponent float64
	HarmfulComponent  float64
	QualityComponent  float64
}

type FitnessResult struct {
	Score      float64
	Reasons    []string
	AgePenalty float64
	// SpeciesMismatch is a hard exclusion; Score is 0 when set.
	SpeciesMismatch bool

	SpeciesComponent   float64
	AgeComponent       float64
	HealthComponent    float64
	BreedComponent     float64
	NutritionComponent float64
}

// Excluded is the total score of a candidate that must not be ranked.
const Excluded = -1.0

type ExclusionCause uint8

const (
	CauseNone ExclusionCause = iota
	CauseSafety
	CausePrice
)

type CombineResult struct {
	Total   float64
	Cause   ExclusionCause
	Reasons []string

	SoftAvoidPenalty float64
	PricePenalty     float64
}

func (r CombineResult) Excluded() bool { return r.Total == Excluded }

// Breakdown is persisted with every run item.
type Breakdown struct {
	Safety     float64 `json:"safety"`
	Fitness    float64 `json:"fitness"`
	AgePenalty float64 `json:"age_penalty"`

	Allergen  float64 `json:"allergen"`
	Harmful   float64 `json:"harmful"`
	Quality   float64 `json:"quality"`
	Species   float64 `json:"species"`
	Age       float64 `json:"age"`
	Health    float64 `json:"health"`
	Breed     float64 `json:"breed"`
	Nutrition float64 `json:"nutrition"`

	SoftAvoidPenalty float64 `json:"soft_avoid_penalty,omitempty"`
	PricePenalty     float64 `json:"price_penalty,omitempty"`
}

func normalizeCodes(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, c := range in {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
