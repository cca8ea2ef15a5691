package skin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"skinsense/internal/core/skincare"
	"skinsense/internal/pkg/common"
)

// HandleBundle 處理端到端推薦
// 分析、流程、排序、比價各自降級，單一外部失敗不會毀掉整份結果
func (h *Handler) HandleBundle(c *gin.Context) {
	requestID := ensureRequestID(c)

	var req skincare.BundleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	common.LogInfo("開始處理推薦請求",
		zap.String("request_id", requestID),
		zap.String("client_ip", c.ClientIP()),
		zap.Bool("has_image", req.Image != ""),
		zap.Bool("has_analysis", req.SkinAnalysis != nil),
	)

	bundle, err := h.recommendationService.GenerateBundle(c.Request.Context(), &req)
	if err != nil {
		respondError(c, requestID, err)
		return
	}

	c.JSON(http.StatusOK, bundle)
}
