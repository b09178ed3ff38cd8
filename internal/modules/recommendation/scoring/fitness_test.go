package scoring

import (
	"math"
	"testing"
)

func TestFitnessSpeciesMismatchExcludes(t *testing.T) {
	s := testScorer(t)
	cand := baseCandidate()
	cand.Species = SpeciesCat
	got := s.Fitness(dogSubject(), cand)
	if !got.SpeciesMismatch || got.Score != 0 {
		t.Fatalf("want species exclusion, got=%+v", got)
	}
}

func TestAgeTable(t *testing.T) {
	cases := []struct {
		stage   AgeStage
		life    LifeStage
		score   float64
		penalty float64
	}{
		{AgePuppy, LifePuppy, 25, 0},
		{AgePuppy, LifeSenior, 0, 20},
		{AgeAdult, LifeAll, 22, 0},
		{AgeAdult, LifePuppy, 15, 0},
		{AgeSenior, LifePuppy, 0, 15},
		{AgeSenior, LifeAdult, 20, 0},
		{AgeUnknown, LifeSenior, 20, 0},
	}
	for _, tc := range cases {
		score, penalty, _ := scoreAge(tc.stage, tc.life)
		if score != tc.score || penalty != tc.penalty {
			t.Fatalf("%s/%s: want=(%v,%v) got=(%v,%v)", tc.stage, tc.life, tc.score, tc.penalty, score, penalty)
		}
	}
	for stage := AgeUnknown; stage <= AgeSenior; stage++ {
		for life := LifeUnknown; life <= LifeAll; life++ {
			score, penalty, _ := scoreAge(stage, life)
			if score < 0 || score > 25 || penalty < 0 {
				t.Fatalf("%s/%s out of range: %v %v", stage, life, score, penalty)
			}
		}
	}
}

func TestParseLifeStageFallsBackToName(t *testing.T) {
	if got := ParseLifeStage("", "Acme 퍼피 Formula"); got != LifePuppy {
		t.Fatalf("want puppy got=%s", got)
	}
	if got := ParseLifeStage("all_life_stages", "Senior Care"); got != LifeAll {
		t.Fatalf("tag should win, got=%s", got)
	}
	if got := ParseLifeStage("", "Ocean Recipe"); got != LifeUnknown {
		t.Fatalf("want unknown got=%s", got)
	}
}

func TestFitnessHealthConcerns(t *testing.T) {
	s := testScorer(t)
	subj := dogSubject()
	subj.HealthConcerns = []string{"OBESITY", "DIABETES"}
	cand := baseCandidate()
	cand.BenefitTags = []string{"weight_management"}

	got := s.Fitness(subj, cand)
	if got.HealthComponent != 30 {
		t.Fatalf("two tagged 10-point concerns clamp to 30, got=%v", got.HealthComponent)
	}

	subj.HealthConcerns = []string{"JOINT"}
	cand.BenefitTags = nil
	cand.IngredientsText = "contains glucosamine"
	got = s.Fitness(subj, cand)
	if got.HealthComponent != 8 {
		t.Fatalf("keyword match gives full weight, want=8 got=%v", got.HealthComponent)
	}

	prioritized := subj.WithPrefs(Prefs{HealthConcernPriority: true})
	got = s.Fitness(&prioritized, cand)
	if got.HealthComponent != 12 {
		t.Fatalf("priority multiplies by 1.5, want=12 got=%v", got.HealthComponent)
	}
}

func TestFitnessBreedGroups(t *testing.T) {
	if ClassifyBreed("yorkshire terrier") != BreedSmall || ClassifyBreed("골든리트리버") != BreedLarge || ClassifyBreed("FRENCH-BULLDOG") != BreedBrachycephalic {
		t.Fatalf("breed classification failed")
	}

	cand := baseCandidate()
	cand.ProductName = "Small Bites"
	cand.GrainFree = true
	cand.BenefitTags = []string{"hypoallergenic"}
	if got, _ := scoreBreed("MALTESE", cand); got != 15 {
		t.Fatalf("small breed clamps at 15, got=%v", got)
	}

	cand = baseCandidate()
	cand.IngredientsText = "chondroitin"
	if got, _ := scoreBreed("HUSKY", cand); got != 13.5 {
		t.Fatalf("large breed joint keyword, want=13.5 got=%v", got)
	}

	if got, _ := scoreBreed("", cand); got != 10 {
		t.Fatalf("no breed group gives base 10, got=%v", got)
	}
}

func TestDERExample(t *testing.T) {
	neutered := true
	rer := RER(20)
	if math.Abs(rer-661.98) > 0.5 {
		t.Fatalf("RER(20): want~661.98 got=%v", rer)
	}
	der := DER(20, AgeAdult, &neutered)
	if math.Abs(der-1059.2) > 0.5 {
		t.Fatalf("DER: want~1059.2 got=%v", der)
	}
	if d := DER(20, AgeUnknown, nil); math.Abs(d-rer*1.6) > 1e-9 {
		t.Fatalf("unknown stage uses 1.6, got=%v", d)
	}
	intact := false
	if d := DER(20, AgeAdult, &intact); math.Abs(d-rer*1.8) > 1e-9 {
		t.Fatalf("intact adult uses 1.8, got=%v", d)
	}
}

func TestNutritionPortionBelowRangeIsNotIdeal(t *testing.T) {
	kcal := 3500.0
	cand := baseCandidate()
	cand.KcalPerKg = &kcal

	got := ScoreNutrition(dogSubject(), cand)
	if math.Abs(got.DailyGrams-302.6) > 0.5 {
		t.Fatalf("daily grams: want~302.6 got=%v", got.DailyGrams)
	}
	if got.RangeMinG != 360 || got.RangeMaxG != 700 {
		t.Fatalf("range: want 360-700 got=%v-%v", got.RangeMinG, got.RangeMaxG)
	}
	if got.Score >= 20 {
		t.Fatalf("below-range portion must not reach the ideal tier, got=%v", got.Score)
	}
	if got.Score != 15 {
		t.Fatalf("302.6g is within 20%% of 360g, want=15 got=%v", got.Score)
	}
}

func TestNutritionTiersAndFallbacks(t *testing.T) {
	cand := baseCandidate()
	got := ScoreNutrition(dogSubject(), cand)
	if got.Score != 10 || got.Reasons[0] != ReasonNoCalorieData {
		t.Fatalf("no calorie data: want neutral 10, got=%+v", got)
	}

	intact := false
	small := &Subject{Species: SpeciesDog, AgeStage: AgeAdult, WeightKg: 5, IsNeutered: &intact}
	per100 := 400.0
	cand.KcalPer100g = &per100
	if got := ScoreNutrition(small, cand); got.Score != 20 {
		t.Fatalf("5kg intact adult at 4000kcal/kg is in range, got=%+v", got)
	}

	facts := 150.0
	cand.KcalPer100g = nil
	cand.FactsKcalPer100g = &facts
	got = ScoreNutrition(small, cand)
	if got.KcalPerKg != 1500 || got.Score != 5 {
		t.Fatalf("nutrition facts fallback: want kcal=1500 score=5 got=%+v", got)
	}
}

func TestNutritionNeuteredAdjustments(t *testing.T) {
	subj := dogSubject()
	subj.WeightKg = 5
	kcal := 1200.0
	cand := baseCandidate()
	cand.KcalPerKg = &kcal
	cand.BenefitTags = []string{"weight_management"}

	got := ScoreNutrition(subj, cand)
	if got.DailyGrams <= got.RangeMaxG {
		t.Fatalf("expected an oversized portion, got=%+v", got)
	}
	// far outside (5) - 3 + 2
	if got.Score != 4 {
		t.Fatalf("want=4 got=%v", got.Score)
	}
}

func TestFitnessTotalBounded(t *testing.T) {
	s := testScorer(t)
	subj := dogSubject()
	subj.BreedCode = "MALTESE"
	subj.HealthConcerns = []string{"OBESITY", "JOINT", "DIGESTIVE"}
	kcal := 3000.0
	cand := baseCandidate()
	cand.KcalPerKg = &kcal
	cand.GrainFree = true
	cand.BenefitTags = []string{"weight_management", "joint_support", "digestive", "hypoallergenic"}

	got := s.Fitness(subj, cand)
	if got.Score > 100 || got.Score < 0 {
		t.Fatalf("fitness out of bounds: %v", got.Score)
	}
}
