package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skinsense/internal/infrastructure/config"
)

func testConfig(maxSize int, ttl time.Duration) *config.Config {
	return &config.Config{
		Cache: config.CacheConfig{
			Enabled:         true,
			MaxSize:         maxSize,
			TTL:             ttl,
			CleanupInterval: time.Hour,
		},
	}
}

func TestManagerSetGet(t *testing.T) {
	m := NewManager(testConfig(10, time.Minute))
	require.NotNil(t, m)
	defer m.Close()

	ctx := context.Background()
	require.NoError(t, m.Set(ctx, "prompt", "imagedata", "cached value"))

	got, err := m.Get(ctx, "prompt", "imagedata")
	require.NoError(t, err)
	assert.Equal(t, "cached value", got)

	// 不同圖片是不同鍵
	_, err = m.Get(ctx, "prompt", "other image")
	assert.Error(t, err)
}

func TestManagerExpiry(t *testing.T) {
	m := NewManager(testConfig(10, 10*time.Millisecond))
	require.NotNil(t, m)
	defer m.Close()

	ctx := context.Background()
	require.NoError(t, m.Set(ctx, "p", "", "v"))
	time.Sleep(30 * time.Millisecond)

	_, err := m.Get(ctx, "p", "")
	assert.Error(t, err)
}

func TestManagerDisabled(t *testing.T) {
	cfg := testConfig(10, time.Minute)
	cfg.Cache.Enabled = false

	m := NewManager(cfg)
	assert.Nil(t, m)

	// nil manager 的方法必須安全降級
	_, err := m.Get(context.Background(), "p", "")
	assert.Error(t, err)
	assert.NoError(t, m.Set(context.Background(), "p", "", "v"))
	assert.NoError(t, m.Close())
}

func TestManagerEviction(t *testing.T) {
	m := NewManager(testConfig(2, time.Minute))
	require.NotNil(t, m)
	defer m.Close()

	ctx := context.Background()
	require.NoError(t, m.Set(ctx, "a", "", "1"))
	require.NoError(t, m.Set(ctx, "b", "", "2"))
	// 容量已滿，第三筆觸發 LRU 淘汰而不是報錯
	require.NoError(t, m.Set(ctx, "c", "", "3"))

	got, err := m.Get(ctx, "c", "")
	require.NoError(t, err)
	assert.Equal(t, "3", got)
}
