package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/petfit-backend/internal/http/handlers"
	httpMW "github.com/yungbote/petfit-backend/internal/http/middleware"
	"github.com/yungbote/petfit-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string
	AdminToken  string

	RecommendationHandler *httpH.RecommendationHandler
	AdminHandler          *httpH.AdminHandler
	HealthHandler         *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(cfg.ServiceName))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics())
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		if cfg.RecommendationHandler != nil {
			api.GET("/pets/:petId/recommendations", cfg.RecommendationHandler.GetRecommendations)
			api.GET("/pets/:petId/products/:productId/match-score", cfg.RecommendationHandler.GetMatchScore)
			api.POST("/pets/:petId/recommendations/invalidate", cfg.RecommendationHandler.InvalidatePet)
		}
	}

	admin := api.Group("/admin")
	{
		admin.Use(httpMW.RequireAdminToken(cfg.AdminToken))
		if cfg.AdminHandler != nil {
			admin.POST("/products/:productId/invalidate", cfg.AdminHandler.InvalidateProduct)
			admin.POST("/recommendations/invalidate-all", cfg.AdminHandler.InvalidateAll)
		}
	}

	return r
}
