package scoring

import "math"

const (
	nutritionNeutral = 10.0
	nutritionMax     = 20.0

	ReasonNoCalorieData = "no calorie data"
)

type NutritionResult struct {
	Score       float64
	Reasons     []string
	DER         float64
	KcalPerKg   float64
	DailyGrams  float64
	RangeMinG   float64
	RangeMaxG   float64
	HasCalories bool
}

// RER is the resting energy requirement in kcal/day.
func RER(weightKg float64) float64 {
	if weightKg <= 0 {
		return 0
	}
	return 70 * math.Pow(weightKg, 0.75)
}

func derMultiplier(stage AgeStage, neutered *bool) float64 {
	switch stage {
	case AgePuppy:
		return 2.5
	case AgeAdult:
		if neutered != nil && *neutered {
			return 1.6
		}
		return 1.8
	case AgeSenior:
		return 1.5
	case AgeUnknown:
		return 1.6
	}
	return 1.6
}

// DER is the daily energy requirement in kcal/day.
func DER(weightKg float64, stage AgeStage, neutered *bool) float64 {
	return RER(weightKg) * derMultiplier(stage, neutered)
}

// KcalPerKg picks the first available energy density: parsed per kg, parsed per 100g, nutrition facts per 100g.
func KcalPerKg(c *Candidate) (float64, bool) {
	switch {
	case c.KcalPerKg != nil && *c.KcalPerKg > 0:
		return *c.KcalPerKg, true
	case c.KcalPer100g != nil && *c.KcalPer100g > 0:
		return *c.KcalPer100g * 10, true
	case c.FactsKcalPer100g != nil && *c.FactsKcalPer100g > 0:
		return *c.FactsKcalPer100g * 10, true
	}
	return 0, false
}

// expectedGramsPerKg is the daily feeding range per kg of body weight by size class.
func expectedGramsPerKg(weightKg float64) (float64, float64) {
	switch {
	case weightKg < 10:
		return 20, 40
	case weightKg < 25:
		return 18, 35
	default:
		return 15, 30
	}
}

// ScoreNutrition checks the implied daily portion against the expected range for the pet's size.
func ScoreNutrition(subj *Subject, cand *Candidate) NutritionResult {
	kcal, ok := KcalPerKg(cand)
	if !ok || subj.WeightKg <= 0 {
		return NutritionResult{Score: nutritionNeutral, Reasons: []string{ReasonNoCalorieData}}
	}

	der := DER(subj.WeightKg, subj.AgeStage, subj.IsNeutered)
	daily := der / kcal * 1000
	lo, hi := expectedGramsPerKg(subj.WeightKg)
	minG, maxG := subj.WeightKg*lo, subj.WeightKg*hi

	res := NutritionResult{
		DER:         der,
		KcalPerKg:   kcal,
		DailyGrams:  daily,
		RangeMinG:   minG,
		RangeMaxG:   maxG,
		HasCalories: true,
	}

	switch {
	case daily >= minG && daily <= maxG:
		res.Score = 20
		res.Reasons = append(res.Reasons, "daily portion within the ideal range")
	case daily >= minG*0.8 && daily <= maxG*1.2:
		res.Score = 15
		res.Reasons = append(res.Reasons, "daily portion slightly outside the ideal range")
	case daily >= minG*0.6 && daily <= maxG*1.4:
		res.Score = 10
		res.Reasons = append(res.Reasons, "daily portion outside the ideal range")
	default:
		res.Score = 5
		res.Reasons = append(res.Reasons, "daily portion far outside the ideal range")
	}

	if subj.IsNeutered != nil && *subj.IsNeutered {
		if daily > maxG {
			res.Score -= 3
			res.Reasons = append(res.Reasons, "calorie load high for a neutered pet")
		}
		if cand.hasTag("weight_management") {
			res.Score += 2
			res.Reasons = append(res.Reasons, "weight management formula suits a neutered pet")
		}
	}
	res.Score = clamp(res.Score, 0, nutritionMax)
	return res
}
