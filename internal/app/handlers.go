package app

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/petfit-backend/internal/http/handlers"
	"github.com/yungbote/petfit-backend/internal/pkg/logger"
)

type Handlers struct {
	Recommendation *handlers.RecommendationHandler
	Admin          *handlers.AdminHandler
	Health         *handlers.HealthHandler
}

func wireHandlers(log *logger.Logger, serviceset Services, db *gorm.DB, clients Clients) Handlers {
	log.Info("Wiring handlers...")
	checks := map[string]handlers.Check{
		"database": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if clients.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return clients.Redis.Ping(ctx).Err()
		}
	}
	return Handlers{
		Recommendation: handlers.NewRecommendationHandler(serviceset.Recommendation),
		Admin:          handlers.NewAdminHandler(serviceset.Recommendation),
		Health:         handlers.NewHealthHandler(checks),
	}
}
