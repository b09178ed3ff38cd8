package services

import (
	"math"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	types "github.com/yungbote/petfit-backend/internal/domain"
	"github.com/yungbote/petfit-backend/internal/modules/recommendation/scoring"
	"github.com/yungbote/petfit-backend/internal/pkg/pointers"
)

func TestQuoteForDerivesPricePerKg(t *testing.T) {
	prod := &types.Product{ID: uuid.New(), SizeLabel: pointers.String("2kg"), PricePerKg: pointers.Float64(9000)}

	q := quoteFor(prod, &types.ProductOffer{Merchant: "NAVER", CurrentPrice: pointers.Int(30000)})
	if q.Merchant != "NAVER" || q.PricePerKg == nil || math.Abs(*q.PricePerKg-15000) > 1e-9 {
		t.Fatalf("want NAVER/15000 got=%s/%v", q.Merchant, pointers.Deref(q.PricePerKg, -1))
	}

	q = quoteFor(prod, nil)
	if q.Merchant != "" || pointers.Deref(q.PricePerKg, -1) != 9000 {
		t.Fatalf("no offer should keep stored price, got=%+v", q)
	}

	unsized := &types.Product{ID: uuid.New(), PricePerKg: pointers.Float64(9000)}
	q = quoteFor(unsized, &types.ProductOffer{Merchant: "COUPANG", CurrentPrice: pointers.Int(30000)})
	if q.Merchant != "COUPANG" || pointers.Deref(q.PricePerKg, -1) != 9000 {
		t.Fatalf("unknown package size should keep stored price, got=%+v", q)
	}
}

func TestCandidateFromProductUnparsed(t *testing.T) {
	prod := &types.Product{ID: uuid.New(), BrandName: "B", ProductName: "P", Species: pointers.String(types.SpeciesDog)}
	c, err := candidateFromProduct(prod)
	if err != nil {
		t.Fatalf("candidateFromProduct: %v", err)
	}
	if c.Parsed {
		t.Fatalf("product without profile should be unparsed")
	}
}

func TestCandidateFromProductRejectsBadDocuments(t *testing.T) {
	cases := map[string]string{
		"future schema": `{"schema_version": 99, "quality_score": 50}`,
		"bad quality":   `{"schema_version": 1, "quality_score": 140}`,
		"bad conf":      `{"schema_version": 1, "allergen_confidence": {"BEEF": "certain"}}`,
		"not json":      `{"schema_version":`,
	}
	for name, raw := range cases {
		prod := &types.Product{
			ID:                uuid.New(),
			IngredientProfile: &types.ProductIngredientProfile{Parsed: datatypes.JSON(raw)},
		}
		if _, err := candidateFromProduct(prod); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestCandidateFromProductParsed(t *testing.T) {
	profile := &types.ProductIngredientProfile{IngredientsText: pointers.String("닭고기, 현미")}
	err := profile.EncodeParsed(types.ParsedIngredients{
		IngredientsOrdered: []string{"chicken", "brown rice"},
		PotentialAllergens: []string{"CHICKEN"},
		AllergenConfidence: map[string]string{" chicken ": "high"},
		QualityScore:       70,
		LifeStage:          "ADULT",
	})
	if err != nil {
		t.Fatalf("EncodeParsed: %v", err)
	}
	prod := &types.Product{ID: uuid.New(), ProductName: "Adult Chicken", IngredientProfile: profile}

	c, err := candidateFromProduct(prod)
	if err != nil {
		t.Fatalf("candidateFromProduct: %v", err)
	}
	if !c.Parsed || c.QualityScore != 70 || !strings.Contains(c.IngredientsText, "닭고기") {
		t.Fatalf("unexpected candidate: %+v", c)
	}
	if _, ok := c.AllergenConfidence["CHICKEN"]; !ok {
		t.Fatalf("confidence keys should be normalized, got=%v", c.AllergenConfidence)
	}
}

func TestStrategyFor(t *testing.T) {
	if got := strategyFor(types.RecoPrefs{WeightsPreset: "safe"}); got != "rule_v1:SAFE" {
		t.Fatalf("want=rule_v1:SAFE got=%s", got)
	}
}

func TestPrefsFromRecoMapsScoringFields(t *testing.T) {
	limit := 12000.0
	in := types.RecoPrefs{
		WeightsPreset:         "VALUE",
		HardExcludeAllergens:  []string{"BEEF"},
		SoftAvoidIngredients:  []string{"corn"},
		MaxPricePerKg:         &limit,
		SortPreference:        "price_asc",
		HealthConcernPriority: true,
	}
	got := prefsFromReco(in)
	if len(got.HardExcludeAllergens) != 1 || len(got.SoftAvoidIngredients) != 1 || got.MaxPricePerKg == nil || !got.HealthConcernPriority {
		t.Fatalf("unexpected prefs: %+v", got)
	}
	if got.Sort != scoring.SortPriceAsc {
		t.Fatalf("sort want=price_asc got=%v", got.Sort)
	}

	// The preset only changes the strategy tag; scoring sees identical prefs.
	in.WeightsPreset = "SAFE"
	again := prefsFromReco(in)
	if again.Sort != got.Sort || *again.MaxPricePerKg != *got.MaxPricePerKg || strategyFor(in) != "rule_v1:SAFE" {
		t.Fatalf("preset must only affect the strategy, got=%+v strategy=%s", again, strategyFor(in))
	}
}
