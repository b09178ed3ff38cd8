package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/petfit-backend/internal/data/repos"
	"github.com/yungbote/petfit-backend/internal/pkg/logger"
)

type Repos struct {
	Pet               repos.PetRepo
	Product           repos.ProductRepo
	ProductOffer      repos.ProductOfferRepo
	IngredientConfig  repos.IngredientConfigRepo
	UserRecoPrefs     repos.UserRecoPrefsRepo
	RecommendationRun repos.RecommendationRunRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Pet:               repos.NewPetRepo(db, log),
		Product:           repos.NewProductRepo(db, log),
		ProductOffer:      repos.NewProductOfferRepo(db, log),
		IngredientConfig:  repos.NewIngredientConfigRepo(db, log),
		UserRecoPrefs:     repos.NewUserRecoPrefsRepo(db, log),
		RecommendationRun: repos.NewRecommendationRunRepo(db, log),
	}
}
