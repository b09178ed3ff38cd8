package db

import (
	types "github.com/yungbote/petfit-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(

		// =========================
		// Pets
		// =========================
		&types.Pet{},
		&types.PetHealthConcern{},
		&types.PetFoodAllergy{},
		&types.PetOtherAllergy{},

		// =========================
		// Catalog
		// =========================
		&types.Product{},
		&types.ProductIngredientProfile{},
		&types.ProductNutritionFacts{},
		&types.ProductOffer{},

		// =========================
		// Ingredient configuration
		// =========================
		&types.HarmfulIngredient{},
		&types.AllergenKeyword{},

		// =========================
		// Recommendations
		// =========================
		&types.UserRecoPrefs{},
		&types.RecommendationRun{},
		&types.RecommendationRunItem{},
	)
}
