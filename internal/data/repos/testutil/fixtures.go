package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/petfit-backend/internal/domain"
	"github.com/yungbote/petfit-backend/internal/pkg/pointers"
)

func SeedPet(tb testing.TB, ctx context.Context, tx *gorm.DB, species string, allergens ...string) *types.Pet {
	tb.Helper()
	p := &types.Pet{
		ID:          uuid.New(),
		OwnerUserID: uuid.New(),
		Name:        "Bori",
		Species:     species,
		AgeStage:    pointers.String(types.AgeStageAdult),
		WeightKg:    8,
		IsNeutered:  pointers.Bool(true),
	}
	for _, a := range allergens {
		p.FoodAllergies = append(p.FoodAllergies, types.PetFoodAllergy{AllergenCode: a})
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed pet: %v", err)
	}
	return p
}

// SeedProduct creates an active product; a nil parsed doc leaves the profile unparsed.
func SeedProduct(tb testing.TB, ctx context.Context, tx *gorm.DB, name string, species *string, parsed *types.ParsedIngredients) *types.Product {
	tb.Helper()
	p := &types.Product{
		ID:          uuid.New(),
		BrandName:   "Brand",
		ProductName: name,
		Species:     species,
		SizeLabel:   pointers.String("2kg"),
		IsActive:    true,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed product: %v", err)
	}
	prof := &types.ProductIngredientProfile{
		ProductID:       p.ID,
		IngredientsText: pointers.String("chicken, rice"),
	}
	if parsed != nil {
		if err := prof.EncodeParsed(*parsed); err != nil {
			tb.Fatalf("encode parsed: %v", err)
		}
	}
	if err := tx.WithContext(ctx).Create(prof).Error; err != nil {
		tb.Fatalf("seed ingredient profile: %v", err)
	}
	p.IngredientProfile = prof
	return p
}
