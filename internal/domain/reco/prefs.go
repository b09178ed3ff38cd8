package reco

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	PresetSafe     = "SAFE"
	PresetBalanced = "BALANCED"
	PresetValue    = "VALUE"

	SortDefault  = "default"
	SortPriceAsc = "price_asc"
)

// UserRecoPrefs stores one RecoPrefs document per owner.
type UserRecoPrefs struct {
	UserID    uuid.UUID      `gorm:"type:uuid;primaryKey" json:"user_id"`
	Prefs     datatypes.JSON `gorm:"column:prefs;not null" json:"prefs"`
	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (UserRecoPrefs) TableName() string { return "user_reco_prefs" }

type RecoPrefs struct {
	WeightsPreset         string   `json:"weights_preset" validate:"oneof=SAFE BALANCED VALUE"`
	HardExcludeAllergens  []string `json:"hard_exclude_allergens"`
	SoftAvoidIngredients  []string `json:"soft_avoid_ingredients"`
	MaxPricePerKg         *float64 `json:"max_price_per_kg,omitempty" validate:"omitempty,gt=0"`
	SortPreference        string   `json:"sort_preference" validate:"oneof=default price_asc"`
	HealthConcernPriority bool     `json:"health_concern_priority"`
}

func DefaultRecoPrefs() RecoPrefs {
	return RecoPrefs{
		WeightsPreset:        PresetBalanced,
		HardExcludeAllergens: []string{},
		SoftAvoidIngredients: []string{},
		SortPreference:       SortDefault,
	}
}

// Decode overlays the stored document on the defaults; missing fields keep their default.
func (u *UserRecoPrefs) Decode() (RecoPrefs, error) {
	out := DefaultRecoPrefs()
	if u == nil || len(u.Prefs) == 0 || string(u.Prefs) == "null" {
		return out, nil
	}
	if err := json.Unmarshal(u.Prefs, &out); err != nil {
		return DefaultRecoPrefs(), err
	}
	if out.WeightsPreset == "" {
		out.WeightsPreset = PresetBalanced
	}
	if out.SortPreference == "" {
		out.SortPreference = SortDefault
	}
	if out.HardExcludeAllergens == nil {
		out.HardExcludeAllergens = []string{}
	}
	if out.SoftAvoidIngredients == nil {
		out.SoftAvoidIngredients = []string{}
	}
	return out, nil
}
