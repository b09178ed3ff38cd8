package scoring

import (
	"fmt"
	"strings"
)

const (
	safetyFloor         = 40.0
	floorSafetyWeight   = 0.3
	floorFitnessWeight  = 0.1
	normalSafetyWeight  = 0.6
	normalFitnessWeight = 0.4
	pricePenalty        = 30.0
	softAvoidPenalty    = 5.0
	softAvoidPenaltyCap = 15.0
)

type CombineInput struct {
	Safety     float64
	Fitness    float64
	AgePenalty float64
	PricePerKg *float64
	// IngredientText is matched against soft-avoid ingredients; pass Candidate text.
	IngredientText string
}

// Combine merges the two scores under the safety floor and applies preference penalties.
// The result is either Excluded or >= 0.
func Combine(in CombineInput, prefs Prefs) CombineResult {
	if in.Safety <= 0 {
		return CombineResult{Total: Excluded, Cause: CauseSafety}
	}

	var total float64
	if in.Safety < safetyFloor {
		total = in.Safety*floorSafetyWeight + in.Fitness*floorFitnessWeight
	} else {
		total = in.Safety*normalSafetyWeight + in.Fitness*normalFitnessWeight
	}
	total -= in.AgePenalty

	res := CombineResult{}
	if len(prefs.SoftAvoidIngredients) > 0 && in.IngredientText != "" {
		text := strings.ToLower(in.IngredientText)
		var hits []string
		for _, ing := range prefs.SoftAvoidIngredients {
			ing = strings.ToLower(strings.TrimSpace(ing))
			if ing != "" && strings.Contains(text, ing) {
				hits = append(hits, ing)
			}
		}
		if len(hits) > 0 {
			p := clamp(float64(len(hits))*softAvoidPenalty, 0, softAvoidPenaltyCap)
			total -= p
			res.SoftAvoidPenalty = p
			res.Reasons = append(res.Reasons, "contains ingredients you prefer to avoid: "+strings.Join(hits, ", "))
		}
	}

	if prefs.MaxPricePerKg != nil && in.PricePerKg != nil && *in.PricePerKg > *prefs.MaxPricePerKg {
		total -= pricePenalty
		res.PricePenalty = pricePenalty
		res.Reasons = append(res.Reasons, fmt.Sprintf("price %.0f/kg exceeds your limit of %.0f/kg", *in.PricePerKg, *prefs.MaxPricePerKg))
		if total <= 0 {
			res.Total = Excluded
			res.Cause = CausePrice
			return res
		}
	}

	if total < 0 {
		total = 0
	}
	res.Total = total
	return res
}

// CombineCandidate is Combine with the candidate's own price and ingredient text.
func CombineCandidate(safety SafetyResult, fitness FitnessResult, cand *Candidate, prefs Prefs) CombineResult {
	return Combine(CombineInput{
		Safety:         safety.Score,
		Fitness:        fitness.Score,
		AgePenalty:     fitness.AgePenalty,
		PricePerKg:     cand.PricePerKg,
		IngredientText: cand.ingredientText(),
	}, prefs)
}
