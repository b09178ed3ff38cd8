package services

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	types "github.com/yungbote/petfit-backend/internal/domain"
)

// PetSummary is the scoring view of a pet, cached under the pet summary key.
type PetSummary struct {
	ID             uuid.UUID `json:"id"`
	OwnerUserID    uuid.UUID `json:"owner_user_id"`
	Name           string    `json:"name"`
	Species        string    `json:"species"`
	AgeStage       string    `json:"age_stage,omitempty"`
	WeightKg       float64   `json:"weight_kg"`
	BreedCode      string    `json:"breed_code,omitempty"`
	IsNeutered     *bool     `json:"is_neutered,omitempty"`
	HealthConcerns []string  `json:"health_concerns"`
	FoodAllergies  []string  `json:"food_allergies"`
	OtherAllergies []string  `json:"other_allergies"`
}

func petSummaryFromPet(p *types.Pet) PetSummary {
	s := PetSummary{
		ID:             p.ID,
		OwnerUserID:    p.OwnerUserID,
		Name:           p.Name,
		Species:        strings.ToUpper(strings.TrimSpace(p.Species)),
		AgeStage:       p.EffectiveAgeStage(),
		WeightKg:       p.WeightKg,
		IsNeutered:     p.IsNeutered,
		HealthConcerns: make([]string, 0, len(p.HealthConcerns)),
		FoodAllergies:  make([]string, 0, len(p.FoodAllergies)),
		OtherAllergies: make([]string, 0, len(p.OtherAllergies)),
	}
	if p.BreedCode != nil {
		s.BreedCode = strings.TrimSpace(*p.BreedCode)
	}
	for _, hc := range p.HealthConcerns {
		s.HealthConcerns = append(s.HealthConcerns, hc.ConcernCode)
	}
	for _, fa := range p.FoodAllergies {
		s.FoodAllergies = append(s.FoodAllergies, fa.AllergenCode)
	}
	for _, oa := range p.OtherAllergies {
		if t := strings.TrimSpace(oa.OtherText); t != "" {
			s.OtherAllergies = append(s.OtherAllergies, t)
		}
	}
	sort.Strings(s.HealthConcerns)
	sort.Strings(s.FoodAllergies)
	return s
}
