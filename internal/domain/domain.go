package domain

import (
	"github.com/yungbote/petfit-backend/internal/domain/catalog"
	"github.com/yungbote/petfit-backend/internal/domain/ingredients"
	"github.com/yungbote/petfit-backend/internal/domain/pets"
	"github.com/yungbote/petfit-backend/internal/domain/reco"
)

const (
	SpeciesDog = pets.SpeciesDog
	SpeciesCat = pets.SpeciesCat

	AgeStagePuppy  = pets.AgeStagePuppy
	AgeStageAdult  = pets.AgeStageAdult
	AgeStageSenior = pets.AgeStageSenior

	PresetSafe     = reco.PresetSafe
	PresetBalanced = reco.PresetBalanced
	PresetValue    = reco.PresetValue
	SortDefault    = reco.SortDefault
	SortPriceAsc   = reco.SortPriceAsc

	ParsedSchemaVersion = catalog.ParsedSchemaVersion
)

type (
	Pet              = pets.Pet
	PetHealthConcern = pets.PetHealthConcern
	PetFoodAllergy   = pets.PetFoodAllergy
	PetOtherAllergy  = pets.PetOtherAllergy

	Product                  = catalog.Product
	ProductIngredientProfile = catalog.ProductIngredientProfile
	ProductNutritionFacts    = catalog.ProductNutritionFacts
	ProductOffer             = catalog.ProductOffer
	ParsedIngredients        = catalog.ParsedIngredients
	NutritionalProfile       = catalog.NutritionalProfile

	UserRecoPrefs         = reco.UserRecoPrefs
	RecoPrefs             = reco.RecoPrefs
	RecommendationRun     = reco.RecommendationRun
	RecommendationRunItem = reco.RecommendationRunItem

	HarmfulIngredient = ingredients.HarmfulIngredient
	AllergenKeyword   = ingredients.AllergenKeyword
)

var (
	AgeStageFromMonths = pets.AgeStageFromMonths
	DefaultRecoPrefs   = reco.DefaultRecoPrefs
)
