package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/petfit-backend/internal/http/response"
	"github.com/yungbote/petfit-backend/internal/services"
)

type RecommendationHandler struct {
	recs services.RecommendationService
}

func NewRecommendationHandler(recs services.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{recs: recs}
}

// GET /api/pets/:petId/recommendations
func (h *RecommendationHandler) GetRecommendations(c *gin.Context) {
	petID, err := uuidParam(c, "petId")
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	opts := services.RecommendationOptions{}
	if opts.ForceRefresh, err = queryBool(c, "force_refresh"); err == nil {
		if opts.ExplanationOnly, err = queryBool(c, "explanation_only"); err == nil {
			opts.Limit, err = queryPositiveInt(c, "limit")
		}
	}
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}

	res, err := h.recs.GetRecommendations(c.Request.Context(), petID, opts)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, res)
}

// GET /api/pets/:petId/products/:productId/match-score
func (h *RecommendationHandler) GetMatchScore(c *gin.Context) {
	petID, err := uuidParam(c, "petId")
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	productID, err := uuidParam(c, "productId")
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	ms, err := h.recs.GetMatchScore(c.Request.Context(), petID, productID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, ms)
}

// POST /api/pets/:petId/recommendations/invalidate
func (h *RecommendationHandler) InvalidatePet(c *gin.Context) {
	petID, err := uuidParam(c, "petId")
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	n := h.recs.InvalidatePet(c.Request.Context(), petID)
	response.RespondOK(c, gin.H{"deleted": n})
}
