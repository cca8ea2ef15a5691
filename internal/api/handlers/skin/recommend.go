package skin

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"skinsense/internal/core/skincare"
	"skinsense/internal/pkg/common"
)

// RecommendRequest 產品推薦請求
type RecommendRequest struct {
	SkinAnalysis   *common.SkinAnalysis        `json:"skin_analysis" binding:"required"`
	CycleLifestyle *common.CycleLifestyleInput `json:"cycle_lifestyle,omitempty"`
	Limit          int                         `json:"limit,omitempty"`
}

// RecommendedProduct 推薦產品，附上解析後成分與安全分數
type RecommendedProduct struct {
	common.Product
	MatchScore        int      `json:"match_score"`
	SafetyScore       int      `json:"safety_score"`
	ParsedIngredients []string `json:"parsed_ingredients,omitempty"`
}

// RecommendResponse 分組後的產品推薦響應
type RecommendResponse struct {
	Products []RecommendedProduct            `json:"products"`
	Groups   map[string][]RecommendedProduct `json:"groups"`
}

// HandleRecommend 處理產品推薦
func (h *Handler) HandleRecommend(c *gin.Context) {
	requestID := ensureRequestID(c)

	var req RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := skincare.ValidateLifestyle(req.CycleLifestyle); err != nil {
		respondError(c, requestID, err)
		return
	}

	lifestyle := skincare.NormalizeLifestyle(req.CycleLifestyle)
	profile := skincare.BuildProfile(*req.SkinAnalysis, lifestyle)

	ranked := h.recommendationService.RecommendProducts(c.Request.Context(), profile, req.Limit)

	dictionary := h.catalog.Ingredients()
	products := make([]RecommendedProduct, 0, len(ranked))
	groups := make(map[string][]RecommendedProduct)
	for _, sp := range ranked {
		tokens := skincare.ParseIngredients(sp.Product.IngredientsFull)
		enriched := RecommendedProduct{
			Product:           sp.Product,
			MatchScore:        sp.Score,
			SafetyScore:       skincare.ComputeIngredientSafetyScore(tokens, dictionary),
			ParsedIngredients: tokens,
		}
		products = append(products, enriched)

		category := strings.ToLower(sp.Product.Category)
		groups[category] = append(groups[category], enriched)
	}

	c.JSON(http.StatusOK, RecommendResponse{
		Products: products,
		Groups:   groups,
	})
}
