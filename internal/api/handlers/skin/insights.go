package skin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"skinsense/internal/core/skincare"
	"skinsense/internal/pkg/common"
)

// InsightsRequest 週期洞察請求
type InsightsRequest struct {
	SkinAnalysis   *common.SkinAnalysis        `json:"skin_analysis,omitempty"`
	CycleLifestyle *common.CycleLifestyleInput `json:"cycle_lifestyle" binding:"required"`
}

// InsightsResponse 週期洞察響應，附上驗證後的輸入
type InsightsResponse struct {
	Insights  skincare.CycleInsights     `json:"insights"`
	Lifestyle common.CycleLifestyleInput `json:"lifestyle"`
}

// HandleInsights 處理週期與生活型態洞察
func (h *Handler) HandleInsights(c *gin.Context) {
	requestID := ensureRequestID(c)

	var req InsightsRequest
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

	var analysis common.SkinAnalysis
	if req.SkinAnalysis != nil {
		analysis = *req.SkinAnalysis
	}
	profile := skincare.BuildProfile(analysis, lifestyle)

	insights := h.cycleService.GenerateInsights(c.Request.Context(), profile)

	c.JSON(http.StatusOK, InsightsResponse{
		Insights:  insights,
		Lifestyle: lifestyle,
	})
}
