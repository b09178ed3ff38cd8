package catalog

import (
	"github.com/goccy/go-json"
)

// ParsedSchemaVersion is bumped whenever ParsedIngredients changes shape.
const ParsedSchemaVersion = 1

// ParsedIngredients is the normalized ingredient analysis stored in
// ProductIngredientProfile.Parsed.
type ParsedIngredients struct {
	SchemaVersion        int                `json:"schema_version" validate:"gte=0"`
	IngredientsOrdered   []string           `json:"ingredients_ordered"`
	FirstIngredientMeat  bool               `json:"first_ingredient_is_meat"`
	PotentialAllergens   []string           `json:"potential_allergens"`
	AllergenConfidence   map[string]string  `json:"allergen_confidence" validate:"dive,oneof=high medium low"`
	BenefitsTags         []string           `json:"benefits_tags"`
	QualityScore         float64            `json:"quality_score" validate:"gte=0,lte=100"`
	ProteinSourceQuality string             `json:"protein_source_quality" validate:"omitempty,oneof=high medium low"`
	LifeStage            string             `json:"life_stage"`
	IsGrainFree          bool               `json:"is_grain_free"`
	Notes                string             `json:"notes"`
	NutritionalProfile   NutritionalProfile `json:"nutritional_profile"`
}

type NutritionalProfile struct {
	KcalPerKg   *float64 `json:"kcal_per_kg,omitempty" validate:"omitempty,gt=0"`
	KcalPer100g *float64 `json:"kcal_per_100g,omitempty" validate:"omitempty,gt=0"`
	ProteinPct  *float64 `json:"protein_pct,omitempty"`
	FatPct      *float64 `json:"fat_pct,omitempty"`
	FiberPct    *float64 `json:"fiber_pct,omitempty"`
}

// DecodeParsed returns nil without error when the parser has not run yet.
func (p *ProductIngredientProfile) DecodeParsed() (*ParsedIngredients, error) {
	if p == nil || len(p.Parsed) == 0 || string(p.Parsed) == "null" {
		return nil, nil
	}
	var out ParsedIngredients
	if err := json.Unmarshal(p.Parsed, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EncodeParsed stamps the schema version and stores doc on the profile.
func (p *ProductIngredientProfile) EncodeParsed(doc ParsedIngredients) error {
	doc.SchemaVersion = ParsedSchemaVersion
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	p.Parsed = raw
	return nil
}
