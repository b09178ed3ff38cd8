package services

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	types "github.com/yungbote/petfit-backend/internal/domain"
	"github.com/yungbote/petfit-backend/internal/modules/recommendation/scoring"
)

var validate = validator.New()

// subjectFromSummary maps a pet summary to the scoring subject. Preferences are applied separately.
func subjectFromSummary(s PetSummary) scoring.Subject {
	species, _ := scoring.ParseSpecies(s.Species)
	return scoring.Subject{
		ID:             s.ID,
		Species:        species,
		AgeStage:       scoring.ParseAgeStage(s.AgeStage),
		WeightKg:       s.WeightKg,
		BreedCode:      s.BreedCode,
		IsNeutered:     s.IsNeutered,
		HealthConcerns: s.HealthConcerns,
		Allergens:      s.FoodAllergies,
		OtherAllergies: s.OtherAllergies,
	}
}

func prefsFromReco(p types.RecoPrefs) scoring.Prefs {
	return scoring.Prefs{
		HardExcludeAllergens:  p.HardExcludeAllergens,
		SoftAvoidIngredients:  p.SoftAvoidIngredients,
		MaxPricePerKg:         p.MaxPricePerKg,
		Sort:                  scoring.ParseSortPreference(p.SortPreference),
		HealthConcernPriority: p.HealthConcernPriority,
	}
}

// candidateFromProduct validates the parsed ingredient document once and maps it to a scoring candidate.
// A product the parser has not reached yet becomes an unparsed candidate, not an error.
func candidateFromProduct(p *types.Product) (*scoring.Candidate, error) {
	c := &scoring.Candidate{
		ID:          p.ID,
		BrandName:   p.BrandName,
		ProductName: p.ProductName,
		PricePerKg:  p.PricePerKg,
	}
	if p.Species != nil {
		c.Species, _ = scoring.ParseSpecies(*p.Species)
	}
	if p.NutritionFacts != nil {
		c.FactsKcalPer100g = p.NutritionFacts.KcalPer100g
	}

	profile := p.IngredientProfile
	if profile == nil {
		return c, nil
	}
	if profile.IngredientsText != nil {
		c.IngredientsText = *profile.IngredientsText
	}
	doc, err := profile.DecodeParsed()
	if err != nil {
		return nil, fmt.Errorf("decode parsed ingredients for %s: %w", p.ID, err)
	}
	if doc == nil {
		return c, nil
	}
	if doc.SchemaVersion > types.ParsedSchemaVersion {
		return nil, fmt.Errorf("parsed ingredients for %s: unsupported schema version %d", p.ID, doc.SchemaVersion)
	}
	if err := validate.Struct(doc); err != nil {
		return nil, fmt.Errorf("validate parsed ingredients for %s: %w", p.ID, err)
	}

	c.Parsed = true
	c.LifeStage = scoring.ParseLifeStage(doc.LifeStage, p.ProductName)
	c.IngredientsOrdered = doc.IngredientsOrdered
	c.PotentialAllergens = doc.PotentialAllergens
	c.AllergenConfidence = make(map[string]scoring.Confidence, len(doc.AllergenConfidence))
	for code, conf := range doc.AllergenConfidence {
		c.AllergenConfidence[strings.ToUpper(strings.TrimSpace(code))] = scoring.ParseConfidence(conf)
	}
	c.BenefitTags = doc.BenefitsTags
	c.QualityScore = doc.QualityScore
	c.ProteinQuality = scoring.ParseProteinQuality(doc.ProteinSourceQuality)
	c.FirstIngredientMeat = doc.FirstIngredientMeat
	c.GrainFree = doc.IsGrainFree
	c.Notes = doc.Notes
	c.KcalPerKg = doc.NutritionalProfile.KcalPerKg
	c.KcalPer100g = doc.NutritionalProfile.KcalPer100g
	return c, nil
}

func strategyFor(p types.RecoPrefs) string {
	return fmt.Sprintf("rule_v1:%s", scoring.ParseWeightsPreset(p.WeightsPreset))
}
