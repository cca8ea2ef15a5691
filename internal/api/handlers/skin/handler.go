package skin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"skinsense/internal/core/catalog"
	"skinsense/internal/core/pricing"
	"skinsense/internal/core/skincare"
	"skinsense/internal/pkg/common"
)

// Handler 皮膚分析與推薦處理程序
type Handler struct {
	analysisService       *skincare.AnalysisService
	cycleService          *skincare.CycleService
	recommendationService *skincare.RecommendationService
	pricingService        *pricing.Service
	catalog               *catalog.Catalog
}

// NewHandler 創建新的處理程序
func NewHandler(
	analysis *skincare.AnalysisService,
	cycle *skincare.CycleService,
	recommendation *skincare.RecommendationService,
	pricingSvc *pricing.Service,
	cat *catalog.Catalog,
) *Handler {
	return &Handler{
		analysisService:       analysis,
		cycleService:          cycle,
		recommendationService: recommendation,
		pricingService:        pricingSvc,
		catalog:               cat,
	}
}

// ensureRequestID 沒帶 X-Request-ID 就補一個
func ensureRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = common.GenerateUUID()
		c.Header("X-Request-ID", requestID)
	}
	return requestID
}

// respondError 依錯誤型別決定狀態碼
// 驗證錯誤回 400，其它依 CustomError 的狀態碼，兜底 500
func respondError(c *gin.Context, requestID string, err error) {
	if common.IsValidationError(err) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
			"code":  common.ErrCodeInvalidRequest,
		})
		return
	}

	if custom, ok := err.(*common.CustomError); ok {
		c.JSON(custom.Status, gin.H{
			"error": custom.Message,
			"code":  custom.Code,
		})
		return
	}

	common.LogError("請求處理失敗",
		zap.Error(err),
		zap.String("request_id", requestID),
	)
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "Internal server error",
		"code":  common.ErrCodeInternalError,
	})
}
