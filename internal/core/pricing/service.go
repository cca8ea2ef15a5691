package pricing

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"skinsense/internal/infrastructure/config"
	"skinsense/internal/pkg/common"
)

// Service 跨商店比價服務
// 每家商店各自失敗各自回退，聚合呼叫本身永不失敗
type Service struct {
	fetchers []StoreFetcher
	cache    *Cache
	timeout  time.Duration
}

// NewService 建立比價服務，商店順序固定
func NewService(cfg *config.PricingConfig, cache *Cache) *Service {
	return &Service{
		fetchers: []StoreFetcher{
			NewAmazonFetcher(cfg.RapidAPIKey, cfg.StoreTimeout),
			NewSephoraFetcher(cfg.RapidAPIKey, cfg.StoreTimeout),
			NewShoppersFetcher(),
		},
		cache:   cache,
		timeout: cfg.StoreTimeout,
	}
}

// StoreCount 回傳設定的商店數量
func (s *Service) StoreCount() int {
	return len(s.fetchers)
}

// ComparePrices 對所有商店並發查價
// 回傳的欄位數固定等於商店數，失敗的商店放 null 價格佔位
func (s *Service) ComparePrices(ctx context.Context, productName string) common.PriceComparisonResult {
	if cached, err := s.cache.Get(ctx, productName); err == nil {
		common.LogDebug("比價緩存命中", zap.String("product", productName))
		return *cached
	}

	prices := make([]common.StorePrice, len(s.fetchers))

	var wg sync.WaitGroup
	for i, fetcher := range s.fetchers {
		wg.Add(1)
		go func(slot int, f StoreFetcher) {
			defer wg.Done()

			fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()

			price, err := f.Fetch(fetchCtx, productName)
			if err != nil {
				common.LogStageFallback("price_aggregation", "商店查詢失敗",
					zap.String("store", f.Name()),
					zap.String("product", productName),
					zap.Error(err))
				prices[slot] = fallbackPrice(f, productName)
				return
			}
			prices[slot] = *price
		}(i, fetcher)
	}
	wg.Wait()

	result := common.PriceComparisonResult{
		ProductName:   productName,
		Prices:        prices,
		CheapestStore: cheapestStore(prices),
	}

	if err := s.cache.Set(ctx, productName, &result); err != nil {
		common.LogDebug("比價緩存寫入失敗", zap.Error(err))
	}

	return result
}

// CompareForProducts 對多個商品並發比價，輸出順序與輸入一致
func (s *Service) CompareForProducts(ctx context.Context, productNames []string) []common.PriceComparisonResult {
	results := make([]common.PriceComparisonResult, len(productNames))

	var wg sync.WaitGroup
	for i, name := range productNames {
		wg.Add(1)
		go func(slot int, productName string) {
			defer wg.Done()
			results[slot] = s.ComparePrices(ctx, productName)
		}(i, name)
	}
	wg.Wait()

	return results
}

// fallbackPrice 查詢失敗時的佔位結果：null 價格加搜尋深連結
func fallbackPrice(f StoreFetcher, productName string) common.StorePrice {
	return common.StorePrice{
		Store:       f.Name(),
		Price:       nil,
		URL:         f.SearchURL(productName),
		LastChecked: time.Now(),
	}
}

// cheapestStore 取非 null 價格中的最低者
// 同價時取設定順序在前的商店；全部未知時回傳空字串
func cheapestStore(prices []common.StorePrice) string {
	cheapest := ""
	var lowest float64
	for _, p := range prices {
		if p.Price == nil {
			continue
		}
		if cheapest == "" || *p.Price < lowest {
			cheapest = p.Store
			lowest = *p.Price
		}
	}
	return cheapest
}
