package health

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"skinsense/internal/core/ai/cache"
	"skinsense/internal/core/catalog"
	"skinsense/internal/infrastructure/config"
	"skinsense/internal/pkg/common"
)

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
	Catalog   *CatalogStatus         `json:"catalog,omitempty"`
	AIEnabled bool                   `json:"ai_enabled"`
	AICache   map[string]interface{} `json:"ai_cache,omitempty"`
}

// CatalogStatus 產品目錄載入狀態
type CatalogStatus struct {
	Products    int `json:"products"`
	Ingredients int `json:"ingredients"`
}

// HealthCheck 健康檢查處理器
func HealthCheck(c *gin.Context) {
	cfg, exists := c.Get("config")
	if !exists {
		common.LogError("Configuration not found in context")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Configuration not found",
		})
		return
	}
	conf, ok := cfg.(*config.Config)
	if !ok {
		common.LogError("Invalid configuration type in context")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Invalid configuration type",
		})
		return
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   conf.App.Version,
		AIEnabled: conf.Gemini.Enabled(),
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}

	// 目錄載入數量一併回報，方便確認資料檔有沒有掛上
	if raw, ok := c.Get("catalog"); ok {
		if cat, ok := raw.(*catalog.Catalog); ok {
			response.Catalog = &CatalogStatus{
				Products:    cat.Size(),
				Ingredients: len(cat.Ingredients()),
			}
		}
	}

	// AI 回應緩存統計；未啟用時 GetStats 自己會標示 disabled
	if raw, ok := c.Get("ai_cache"); ok {
		if mgr, ok := raw.(*cache.CacheManager); ok {
			response.AICache = mgr.GetStats()
		}
	}

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查處理器
// 目錄沒載入就不算就緒，推薦管線完全依賴它
func ReadinessCheck(c *gin.Context) {
	raw, ok := c.Get("catalog")
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "catalog not loaded",
		})
		return
	}
	cat, ok := raw.(*catalog.Catalog)
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "catalog not loaded",
		})
		return
	}
	if cat.Size() == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "catalog empty",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck 存活檢查處理器
func LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
