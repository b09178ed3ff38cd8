package app

import (
	httpserver "github.com/yungbote/petfit-backend/internal/http"
	"github.com/yungbote/petfit-backend/internal/pkg/logger"
)

func wireServer(log *logger.Logger, cfg Config, handlerset Handlers) *httpserver.Server {
	return httpserver.NewServer(cfg.Server.Addr, httpserver.RouterConfig{
		Log:                   log,
		ServiceName:           cfg.Otel.ServiceName,
		CORSOrigins:           cfg.Server.CORSOrigins,
		AdminToken:            cfg.Server.AdminToken,
		RecommendationHandler: handlerset.Recommendation,
		AdminHandler:          handlerset.Admin,
		HealthHandler:         handlerset.Health,
	})
}
