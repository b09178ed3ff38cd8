package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/petfit-backend/internal/data/repos/catalog"
	"github.com/yungbote/petfit-backend/internal/data/repos/ingredients"
	"github.com/yungbote/petfit-backend/internal/data/repos/pets"
	"github.com/yungbote/petfit-backend/internal/data/repos/reco"
	"github.com/yungbote/petfit-backend/internal/pkg/logger"
)

type PetRepo = pets.PetRepo

type ProductRepo = catalog.ProductRepo
type ProductOfferRepo = catalog.ProductOfferRepo

type IngredientConfigRepo = ingredients.IngredientConfigRepo

type UserRecoPrefsRepo = reco.UserRecoPrefsRepo
type RecommendationRunRepo = reco.RecommendationRunRepo

func NewPetRepo(db *gorm.DB, log *logger.Logger) PetRepo { return pets.NewPetRepo(db, log) }

func NewProductRepo(db *gorm.DB, log *logger.Logger) ProductRepo {
	return catalog.NewProductRepo(db, log)
}
func NewProductOfferRepo(db *gorm.DB, log *logger.Logger) ProductOfferRepo {
	return catalog.NewProductOfferRepo(db, log)
}

func NewIngredientConfigRepo(db *gorm.DB, log *logger.Logger) IngredientConfigRepo {
	return ingredients.NewIngredientConfigRepo(db, log)
}

func NewUserRecoPrefsRepo(db *gorm.DB, log *logger.Logger) UserRecoPrefsRepo {
	return reco.NewUserRecoPrefsRepo(db, log)
}
func NewRecommendationRunRepo(db *gorm.DB, log *logger.Logger) RecommendationRunRepo {
	return reco.NewRecommendationRunRepo(db, log)
}
