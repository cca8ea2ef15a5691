package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"skinsense/internal/api/handlers/health"
	skinHandler "skinsense/internal/api/handlers/skin"
	"skinsense/internal/api/middleware"
	"skinsense/internal/core/ai/cache"
	aiservice "skinsense/internal/core/ai/service"
	"skinsense/internal/core/catalog"
	"skinsense/internal/core/image"
	"skinsense/internal/core/pricing"
	"skinsense/internal/core/skincare"
	"skinsense/internal/infrastructure/config"
	"skinsense/internal/pkg/common"
)

const (
	// 超時設置；視覺模型加比價可能接近一分鐘
	timeoutDuration = 120 * time.Second
	// 請求體大小限制 (10MB)，自拍照 base64 上傳要吃得下
	maxBodySize = 10 << 20
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, cacheManager *cache.CacheManager, cat *catalog.Catalog) (*gin.Engine, error) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(requestid.New()) // 自動生成請求 ID

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(maxBodySize))

	// 限流與去重
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}
	router.Use(middleware.NewDeduplicator(cfg.DedupWindow).Handler())

	common.LogInfo("Initializing services",
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
		zap.Bool("ai_enabled", cfg.Gemini.Enabled()),
		zap.String("vision_model", cfg.Gemini.VisionModel),
		zap.Duration("timeout", timeoutDuration),
	)

	// 初始化 AI 與圖片服務
	aiSvc := aiservice.NewService(cfg, cacheManager)
	imageSvc := image.NewService(cfg.Image.MaxSizeBytes)

	// 初始化比價服務，Redis 緩存為可選
	priceCache, err := pricing.NewCache(&cfg.PriceCache)
	if err != nil {
		common.LogError("Failed to initialize price cache", zap.Error(err))
		return nil, fmt.Errorf("failed to initialize price cache: %w", err)
	}
	pricingSvc := pricing.NewService(&cfg.Pricing, priceCache)

	// 初始化皮膚分析相關服務
	analysisSvc := skincare.NewAnalysisService(aiSvc, imageSvc)
	routineSvc := skincare.NewRoutineService(aiSvc)
	matcherSvc := skincare.NewMatcherService(aiSvc)
	cycleSvc := skincare.NewCycleService(aiSvc)
	recommendationSvc := skincare.NewRecommendationService(
		analysisSvc, routineSvc, matcherSvc, cycleSvc,
		pricingSvc, cat, cfg.Catalog.RecommendLimit,
	)

	// 全局中間件：設置超時並注入設定與目錄
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeoutDuration)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)

		c.Set("config", cfg)
		c.Set("catalog", cat)
		c.Set("ai_cache", cacheManager)

		c.Next()

		// 檢查是否超時
		if ctx.Err() == context.DeadlineExceeded {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", requestid.Get(c)),
				zap.Duration("timeout", timeoutDuration),
			)
			c.JSON(http.StatusGatewayTimeout, gin.H{
				"error": "Request timeout",
				"code":  common.ErrCodeRequestTimeout,
			})
			c.Abort()
			return
		}
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	// API 路由組
	api := router.Group("/api/v1")
	{
		handler := skinHandler.NewHandler(analysisSvc, cycleSvc, recommendationSvc, pricingSvc, cat)

		skinGroup := api.Group("/skin")
		{
			// 自拍照皮膚分析
			skinGroup.POST("/analyze", handler.HandleAnalyze)
		}

		cycleGroup := api.Group("/cycle")
		{
			// 週期與生活型態洞察
			cycleGroup.POST("/insights", handler.HandleInsights)
		}

		productGroup := api.Group("/products")
		{
			// 產品推薦
			productGroup.POST("/recommend", handler.HandleRecommend)
		}

		priceGroup := api.Group("/price")
		{
			// 跨商店比價
			priceGroup.GET("/compare", handler.HandlePriceCompare)
		}

		recommendationGroup := api.Group("/recommendation")
		{
			// 端到端推薦
			recommendationGroup.POST("/bundle", handler.HandleBundle)
		}
	}

	common.LogInfo("Router setup completed successfully",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
		zap.Int("catalog_products", cat.Size()),
		zap.Duration("timeout", timeoutDuration),
		zap.Int64("max_body_size", maxBodySize),
	)

	return router, nil
}
