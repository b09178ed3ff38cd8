package pets

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SpeciesDog = "DOG"
	SpeciesCat = "CAT"

	AgeStagePuppy  = "PUPPY"
	AgeStageAdult  = "ADULT"
	AgeStageSenior = "SENIOR"
)

type Pet struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerUserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_user_id"`
	Name            string    `gorm:"column:name;not null" json:"name"`
	Species         string    `gorm:"column:species;not null;index" json:"species"`
	AgeStage        *string   `gorm:"column:age_stage" json:"age_stage,omitempty"`
	ApproxAgeMonths *int      `gorm:"column:approx_age_months" json:"approx_age_months,omitempty"`
	BreedCode       *string   `gorm:"column:breed_code" json:"breed_code,omitempty"`
	WeightKg        float64   `gorm:"column:weight_kg;not null" json:"weight_kg"`
	IsNeutered      *bool     `gorm:"column:is_neutered" json:"is_neutered,omitempty"`
	CreatedAt       time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`

	HealthConcerns []PetHealthConcern `gorm:"foreignKey:PetID" json:"health_concerns,omitempty"`
	FoodAllergies  []PetFoodAllergy   `gorm:"foreignKey:PetID" json:"food_allergies,omitempty"`
	OtherAllergies []PetOtherAllergy  `gorm:"foreignKey:PetID" json:"other_allergies,omitempty"`
}

func (Pet) TableName() string { return "pets" }

func (p *Pet) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// EffectiveAgeStage prefers the stored stage and falls back to the approximate age.
func (p *Pet) EffectiveAgeStage() string {
	if p == nil {
		return ""
	}
	if p.AgeStage != nil && strings.TrimSpace(*p.AgeStage) != "" {
		return strings.ToUpper(strings.TrimSpace(*p.AgeStage))
	}
	if p.ApproxAgeMonths != nil {
		return AgeStageFromMonths(*p.ApproxAgeMonths)
	}
	return ""
}

// AgeStageFromMonths: under a year is a puppy, seven years and up is a senior.
func AgeStageFromMonths(months int) string {
	switch {
	case months < 12:
		return AgeStagePuppy
	case months >= 84:
		return AgeStageSenior
	default:
		return AgeStageAdult
	}
}

type PetHealthConcern struct {
	PetID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"pet_id"`
	ConcernCode string    `gorm:"column:concern_code;primaryKey" json:"concern_code"`
}

func (PetHealthConcern) TableName() string { return "pet_health_concerns" }

type PetFoodAllergy struct {
	PetID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"pet_id"`
	AllergenCode string    `gorm:"column:allergen_code;primaryKey" json:"allergen_code"`
}

func (PetFoodAllergy) TableName() string { return "pet_food_allergies" }

type PetOtherAllergy struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PetID     uuid.UUID `gorm:"type:uuid;not null;index" json:"pet_id"`
	OtherText string    `gorm:"column:other_text;not null" json:"other_text"`
}

func (PetOtherAllergy) TableName() string { return "pet_other_allergies" }

func (a *PetOtherAllergy) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
