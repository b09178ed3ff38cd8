package scoring

// Outcome records where a candidate left the pipeline.
type Outcome uint8

const (
	OutcomeRanked Outcome = iota
	OutcomeParsedNone
	OutcomeSafetyFiltered
	OutcomeFitnessFiltered
	OutcomeTotalFiltered
	OutcomePriceFiltered
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRanked:
		return "ranked"
	case OutcomeParsedNone:
		return "parsed_none"
	case OutcomeSafetyFiltered:
		return "safety_filtered"
	case OutcomeFitnessFiltered:
		return "fitness_filtered"
	case OutcomeTotalFiltered:
		return "total_score_filtered"
	case OutcomePriceFiltered:
		return "price_filtered"
	}
	return "unknown"
}

type Evaluation struct {
	Candidate *Candidate
	Outcome   Outcome
	Safety    SafetyResult
	Fitness   FitnessResult
	Combined  CombineResult
}

func (e Evaluation) Total() float64 {
	if e.Outcome != OutcomeRanked {
		return Excluded
	}
	return e.Combined.Total
}

// Reasons lists safety, fitness, then preference reasons.
func (e Evaluation) Reasons() []string {
	out := make([]string, 0, len(e.Safety.Reasons)+len(e.Fitness.Reasons)+len(e.Combined.Reasons))
	out = append(out, e.Safety.Reasons...)
	out = append(out, e.Fitness.Reasons...)
	out = append(out, e.Combined.Reasons...)
	return out
}

func (e Evaluation) Breakdown() Breakdown {
	return Breakdown{
		Safety:           e.Safety.Score,
		Fitness:          e.Fitness.Score,
		AgePenalty:       e.Fitness.AgePenalty,
		Allergen:         e.Safety.AllergenComponent,
		Harmful:          e.Safety.HarmfulComponent,
		Quality:          e.Safety.QualityComponent,
		Species:          e.Fitness.SpeciesComponent,
		Age:              e.Fitness.AgeComponent,
		Health:           e.Fitness.HealthComponent,
		Breed:            e.Fitness.BreedComponent,
		Nutrition:        e.Fitness.NutritionComponent,
		SoftAvoidPenalty: e.Combined.SoftAvoidPenalty,
		PricePenalty:     e.Combined.PricePenalty,
	}
}

// Evaluate runs safety, fitness and combination for one candidate, stopping at the first exclusion.
func (s *Scorer) Evaluate(subj *Subject, cand *Candidate, prefs Prefs) Evaluation {
	ev := Evaluation{Candidate: cand}
	if !cand.Parsed {
		ev.Outcome = OutcomeParsedNone
		return ev
	}

	ev.Safety = s.Safety(subj, cand)
	if ev.Safety.Excluded || ev.Safety.Score == 0 {
		ev.Outcome = OutcomeSafetyFiltered
		return ev
	}

	ev.Fitness = s.Fitness(subj, cand)
	if ev.Fitness.SpeciesMismatch {
		ev.Outcome = OutcomeFitnessFiltered
		return ev
	}

	ev.Combined = CombineCandidate(ev.Safety, ev.Fitness, cand, prefs)
	if ev.Combined.Excluded() {
		if ev.Combined.Cause == CausePrice {
			ev.Outcome = OutcomePriceFiltered
		} else {
			ev.Outcome = OutcomeTotalFiltered
		}
		return ev
	}
	ev.Outcome = OutcomeRanked
	return ev
}
