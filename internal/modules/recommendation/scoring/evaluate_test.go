package scoring

import (
	"math/rand"
	"testing"
)

func TestEvaluateOutcomes(t *testing.T) {
	s := testScorer(t)
	subj := dogSubject()
	subj.Allergens = []string{"BEEF"}

	unparsed := baseCandidate()
	unparsed.Parsed = false
	if got := s.Evaluate(subj, unparsed, Prefs{}); got.Outcome != OutcomeParsedNone || got.Total() != Excluded {
		t.Fatalf("want parsed_none, got=%s", got.Outcome)
	}

	allergic := baseCandidate()
	allergic.PotentialAllergens = []string{"beef"}
	if got := s.Evaluate(subj, allergic, Prefs{}); got.Outcome != OutcomeSafetyFiltered {
		t.Fatalf("want safety_filtered, got=%s", got.Outcome)
	}

	catFood := baseCandidate()
	catFood.Species = SpeciesCat
	if got := s.Evaluate(subj, catFood, Prefs{}); got.Outcome != OutcomeFitnessFiltered {
		t.Fatalf("want fitness_filtered, got=%s", got.Outcome)
	}

	limit := 1.0
	price := 50000.0
	pricey := baseCandidate()
	pricey.QualityScore = 0
	pricey.ProteinQuality = ProteinLow
	pricey.IngredientsText = "bha bht ethoxyquin corn syrup artificial color"
	pricey.AllergenConfidence = map[string]Confidence{"CHICKEN": ConfidenceHigh}
	pricey.PricePerKg = &price
	if got := s.Evaluate(subj, pricey, Prefs{MaxPricePerKg: &limit}); got.Outcome != OutcomePriceFiltered {
		t.Fatalf("want price_filtered, got=%s total=%v", got.Outcome, got.Combined.Total)
	}

	ok := s.Evaluate(subj, baseCandidate(), Prefs{})
	if ok.Outcome != OutcomeRanked || ok.Total() <= 0 {
		t.Fatalf("want ranked, got=%s total=%v", ok.Outcome, ok.Total())
	}
	b := ok.Breakdown()
	if b.Safety != ok.Safety.Score || b.Fitness != ok.Fitness.Score {
		t.Fatalf("breakdown mismatch: %+v", b)
	}
	if len(ok.Reasons()) == 0 {
		t.Fatalf("ranked candidates carry reasons")
	}
}

func TestEvaluateScoreBounds(t *testing.T) {
	s := testScorer(t)
	r := rand.New(rand.NewSource(42))
	tags := []string{"weight_management", "joint_support", "hypoallergenic", "digestive", "urinary"}
	ingredients := []string{"chicken", "beef", "salmon", "corn", "wheat", "bha", "glucosamine", "rice", "peas"}

	for i := 0; i < 500; i++ {
		subj := &Subject{
			Species:  Species(1 + r.Intn(2)),
			AgeStage: AgeStage(r.Intn(4)),
			WeightKg: r.Float64() * 40,
		}
		if r.Intn(2) == 0 {
			subj.HealthConcerns = []string{"OBESITY", "JOINT"}
		}
		cand := baseCandidate()
		cand.Species = Species(r.Intn(3))
		cand.LifeStage = LifeStage(r.Intn(5))
		cand.QualityScore = r.Float64() * 120
		cand.ProteinQuality = ProteinQuality(r.Intn(4))
		cand.FirstIngredientMeat = r.Intn(2) == 0
		cand.IngredientsOrdered = []string{ingredients[r.Intn(len(ingredients))], ingredients[r.Intn(len(ingredients))]}
		cand.BenefitTags = []string{tags[r.Intn(len(tags))]}
		if r.Intn(2) == 0 {
			kcal := 2500 + r.Float64()*2500
			cand.KcalPerKg = &kcal
		}

		safety := s.Safety(subj, cand)
		if safety.Score < 0 || safety.Score > 100 {
			t.Fatalf("safety out of range: %v", safety.Score)
		}
		fitness := s.Fitness(subj, cand)
		if fitness.Score < 0 || fitness.Score > 100 {
			t.Fatalf("fitness out of range: %v", fitness.Score)
		}
		ev := s.Evaluate(subj, cand, Prefs{})
		if tot := ev.Total(); tot != Excluded && (tot < 0 || tot > 100) {
			t.Fatalf("total out of range: %v", tot)
		}
	}
}

func TestDefaultLookupLoads(t *testing.T) {
	l, err := DefaultLookup()
	if err != nil {
		t.Fatalf("DefaultLookup: %v", err)
	}
	if len(l.HarmfulTerms) == 0 || len(l.keywordsFor("beef")) == 0 {
		t.Fatalf("default tables empty: %+v", l)
	}

	custom, err := NewLookup(map[string][]string{"duck": {" Duck "}}, nil)
	if err != nil {
		t.Fatalf("NewLookup: %v", err)
	}
	if got := custom.keywordsFor("DUCK"); len(got) != 1 || got[0] != "duck" {
		t.Fatalf("want=[duck] got=%v", got)
	}
	if len(custom.HarmfulTerms) != len(l.HarmfulTerms) {
		t.Fatalf("empty harmful table should fall back to defaults")
	}
}
