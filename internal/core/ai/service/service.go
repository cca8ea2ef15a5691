package service

import (
	"context"
	"strings"
	"time"

	"skinsense/internal/core/ai/cache"
	"skinsense/internal/core/ai/gemini"
	"skinsense/internal/infrastructure/config"
	"skinsense/internal/pkg/common"
)

// Response AI 回應結構
type Response struct {
	Content  string
	CacheHit bool
}

// Service AI 服務
// 統一入口：prompt 正規化、緩存查詢、視覺/文字路由
type Service struct {
	config       *config.Config
	client       *gemini.Client
	cacheManager *cache.CacheManager
}

// NewService 創建 AI 服務
func NewService(cfg *config.Config, cacheManager *cache.CacheManager) *Service {
	return &Service{
		config:       cfg,
		client:       gemini.NewClient(cfg),
		cacheManager: cacheManager,
	}
}

// Enabled AI 是否可用；未設金鑰時呼叫端必須走規則版回退
func (s *Service) Enabled() bool {
	return s.config.Gemini.Enabled()
}

// GenerateText 文字生成，帶緩存
func (s *Service) GenerateText(ctx context.Context, prompt string) (*Response, error) {
	return s.process(ctx, prompt, "", "")
}

// GenerateVision 視覺生成，帶緩存
func (s *Service) GenerateVision(ctx context.Context, prompt, imageBase64, mimeType string) (*Response, error) {
	return s.process(ctx, prompt, imageBase64, mimeType)
}

func (s *Service) process(ctx context.Context, prompt, imageBase64, mimeType string) (*Response, error) {
	// 統一 prompt 格式，去除多餘空白確保快取 key 一致
	cacheKey := normalizePrompt(prompt)

	// 檢查緩存
	if s.config.Cache.Enabled && s.cacheManager != nil {
		if val, err := s.cacheManager.Get(ctx, cacheKey, imageBase64); err == nil && val != "" {
			return &Response{Content: val, CacheHit: true}, nil
		}
	}

	start := time.Now()
	var content string
	var err error
	if imageBase64 != "" {
		content, err = s.client.GenerateVision(ctx, prompt, imageBase64, mimeType)
	} else {
		content, err = s.client.GenerateText(ctx, prompt)
	}
	common.LogAICall(time.Since(start), err, "")
	if err != nil {
		return nil, err
	}

	if s.config.Cache.Enabled && s.cacheManager != nil {
		_ = s.cacheManager.Set(ctx, cacheKey, imageBase64, content)
	}

	return &Response{Content: content}, nil
}

// normalizePrompt 折疊所有空白，讓語意相同的 prompt 對到同一個緩存鍵
func normalizePrompt(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	return strings.Join(strings.Fields(prompt), " ")
}

// Close 關閉 AI 服務
func (s *Service) Close() error {
	return s.client.Close()
}
