package skin

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"skinsense/internal/pkg/common"
)

// HandlePriceCompare 處理跨商店比價
// 聚合層保證固定商店欄位數，這裡不會因為商店失敗回錯誤
func (h *Handler) HandlePriceCompare(c *gin.Context) {
	requestID := ensureRequestID(c)

	productName := strings.TrimSpace(c.Query("product"))
	if productName == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "product query parameter is required",
			"code":  common.ErrCodeInvalidRequest,
		})
		return
	}

	common.LogInfo("開始處理比價請求",
		zap.String("request_id", requestID),
		zap.String("product", productName),
	)

	result := h.pricingService.ComparePrices(c.Request.Context(), productName)
	c.JSON(http.StatusOK, result)
}
