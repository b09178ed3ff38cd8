package app

import (
	"github.com/yungbote/petfit-backend/internal/modules/recommendation/cache"
	"github.com/yungbote/petfit-backend/internal/pkg/logger"
	"github.com/yungbote/petfit-backend/internal/services"
)

type Services struct {
	Cache          *cache.RecommendationCache
	Recommendation services.RecommendationService
}

func wireServices(log *logger.Logger, cfg Config, reposet Repos, store cache.Store, clients Clients) Services {
	log.Info("Wiring services...")

	rc := cache.New(log, store, cache.NewRepoRunStore(reposet.RecommendationRun), cache.Config{
		RecommendationTTL: cfg.Cache.RecommendationTTL,
		SummaryTTL:        cfg.Cache.SummaryTTL,
		ScoreTTL:          cfg.Cache.ScoreTTL,
		FreshnessWindow:   cfg.Cache.FreshnessWindow,
		OpTimeout:         cfg.Cache.OpTimeout,
		DurableTimeout:    cfg.Cache.DurableTimeout,
	})

	var explainer services.ExplanationGenerator
	if clients.OpenAI != nil {
		explainer = services.NewLLMExplainer(log, clients.OpenAI, services.ExplanationConfig{
			Timeout:         cfg.Recommendation.ExplainTimeout,
			RatePerSecond:   cfg.OpenAI.RatePerSecond,
			Burst:           cfg.OpenAI.Burst,
			BreakerFailures: cfg.Breaker.ConsecutiveFailures,
			BreakerOpen:     cfg.Breaker.OpenTimeout,
		})
	}

	recs := services.NewRecommendationService(
		log,
		reposet.Pet,
		reposet.Product,
		reposet.UserRecoPrefs,
		services.NewLookupProvider(log, reposet.IngredientConfig),
		services.NewOfferProvider(reposet.ProductOffer),
		explainer,
		rc,
		services.RecommendationConfig{
			ListLimit:      cfg.Recommendation.ListLimit,
			ComputeTimeout: cfg.Recommendation.ComputeTimeout,
			ExplainTop:     cfg.Recommendation.ExplainTop,
			ExplainTimeout: cfg.Recommendation.ExplainTimeout,
		},
	)

	return Services{Cache: rc, Recommendation: recs}
}
