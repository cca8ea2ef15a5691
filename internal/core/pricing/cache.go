package pricing

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-redis/redis/v8"

	"skinsense/internal/infrastructure/config"
	"skinsense/internal/pkg/common"
)

// Cache 比價結果的 Redis 緩存
// 未啟用時所有方法安全降級為 miss / no-op
type Cache struct {
	client *redis.Client
	config *config.PriceCacheConfig
}

// NewCache 建立比價緩存
func NewCache(cfg *config.PriceCacheConfig) (*Cache, error) {
	if !cfg.Enabled {
		return &Cache{config: cfg}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Cache{
		client: client,
		config: cfg,
	}, nil
}

// Get 取得緩存的比價結果
func (c *Cache) Get(ctx context.Context, productName string) (*common.PriceComparisonResult, error) {
	if c == nil || !c.config.Enabled || c.client == nil {
		return nil, common.ErrCacheDisabled
	}

	data, err := c.client.Get(ctx, c.generateKey(productName)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("cache miss")
		}
		return nil, fmt.Errorf("failed to get cache: %w", err)
	}

	// 緩存內容是我們自己序列化的，出現未知欄位代表條目已壞
	var result common.PriceComparisonResult
	if err := common.ParseJSONStrict(string(data), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache: %w", err)
	}
	return &result, nil
}

// Set 寫入比價結果
func (c *Cache) Set(ctx context.Context, productName string, result *common.PriceComparisonResult) error {
	if c == nil || !c.config.Enabled || c.client == nil {
		return nil
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	if err := c.client.Set(ctx, c.generateKey(productName), data, c.config.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Close 關閉 Redis 連接
func (c *Cache) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// generateKey 以商品名稱雜湊產生緩存鍵
func (c *Cache) generateKey(productName string) string {
	normalized := strings.ToLower(strings.TrimSpace(productName))
	hash := sha256.Sum256([]byte(normalized))
	return fmt.Sprintf("price:compare:%x", hash[:16])
}
