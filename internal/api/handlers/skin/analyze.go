package skin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"skinsense/internal/core/ai/prompts"
	"skinsense/internal/pkg/common"
)

// AnalyzeRequest 皮膚分析請求
// Image 可以是 data URL、純 base64 或圖片網址
type AnalyzeRequest struct {
	Image                 string   `json:"image" binding:"required"`
	PreExistingConditions []string `json:"pre_existing_conditions,omitempty"` // 既往皮膚狀況自述
	SelfAssessment        *struct {
		Oily      int `json:"oily"`
		Hydrated  int `json:"hydrated"`
		Sensitive int `json:"sensitive"`
		Breakouts int `json:"breakouts"`
	} `json:"self_assessment,omitempty"` // 1–5 自評量表
}

// HandleAnalyze 處理自拍照皮膚分析
func (h *Handler) HandleAnalyze(c *gin.Context) {
	requestID := ensureRequestID(c)

	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	answers := prompts.DefaultLikertAnswers()
	if req.SelfAssessment != nil {
		answers = prompts.LikertAnswers{
			Oily:      req.SelfAssessment.Oily,
			Hydrated:  req.SelfAssessment.Hydrated,
			Sensitive: req.SelfAssessment.Sensitive,
			Breakouts: req.SelfAssessment.Breakouts,
		}
	}

	common.LogInfo("開始處理皮膚分析請求",
		zap.String("request_id", requestID),
		zap.String("client_ip", c.ClientIP()),
	)

	analysis, err := h.analysisService.AnalyzeSkin(c.Request.Context(), req.Image, req.PreExistingConditions, answers)
	if err != nil {
		respondError(c, requestID, err)
		return
	}

	c.JSON(http.StatusOK, analysis)
}
