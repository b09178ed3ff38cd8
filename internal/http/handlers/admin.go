package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/petfit-backend/internal/http/response"
	"github.com/yungbote/petfit-backend/internal/services"
)

type AdminHandler struct {
	recs services.RecommendationService
}

func NewAdminHandler(recs services.RecommendationService) *AdminHandler {
	return &AdminHandler{recs: recs}
}

// POST /api/admin/products/:productId/invalidate
func (h *AdminHandler) InvalidateProduct(c *gin.Context) {
	productID, err := uuidParam(c, "productId")
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	n := h.recs.InvalidateProduct(c.Request.Context(), productID)
	response.RespondOK(c, gin.H{"deleted": n})
}

// POST /api/admin/recommendations/invalidate-all
func (h *AdminHandler) InvalidateAll(c *gin.Context) {
	n := h.recs.InvalidateAll(c.Request.Context())
	response.RespondOK(c, gin.H{"deleted": n})
}
