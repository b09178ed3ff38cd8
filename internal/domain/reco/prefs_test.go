package reco

import (
	"testing"

	"gorm.io/datatypes"
)

func TestDecodeAppliesDefaults(t *testing.T) {
	u := &UserRecoPrefs{Prefs: datatypes.JSON(`{"max_price_per_kg": 12000, "sort_preference": ""}`)}
	got, err := u.Decode()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.WeightsPreset != PresetBalanced || got.SortPreference != SortDefault {
		t.Fatalf("defaults not applied: %+v", got)
	}
	if got.MaxPricePerKg == nil || *got.MaxPricePerKg != 12000 {
		t.Fatalf("want max price 12000 got=%v", got.MaxPricePerKg)
	}
	if got.HardExcludeAllergens == nil || got.SoftAvoidIngredients == nil {
		t.Fatalf("lists should be non-nil: %+v", got)
	}
}

func TestDecodeNilRow(t *testing.T) {
	var u *UserRecoPrefs
	got, err := u.Decode()
	if err != nil || got.WeightsPreset != PresetBalanced {
		t.Fatalf("want defaults got=%+v err=%v", got, err)
	}
}
