package pricing

import (
	"context"
	"time"

	"skinsense/internal/pkg/common"
)

// ShoppersFetcher Shoppers Drug Mart 沒有可用的查價 API
// 只能給搜尋深連結，價格永遠是未知
type ShoppersFetcher struct{}

// NewShoppersFetcher 建立 Shoppers 查價器
func NewShoppersFetcher() *ShoppersFetcher {
	return &ShoppersFetcher{}
}

// Name 回傳商店識別名稱
func (f *ShoppersFetcher) Name() string {
	return StoreShoppers
}

// Fetch 回傳深連結與 null 價格，不發任何網路請求
func (f *ShoppersFetcher) Fetch(_ context.Context, productName string) (*common.StorePrice, error) {
	return &common.StorePrice{
		Store:       f.Name(),
		Price:       nil,
		URL:         f.SearchURL(productName),
		LastChecked: time.Now(),
	}, nil
}

// SearchURL 組出 Shoppers Drug Mart 搜尋連結
func (f *ShoppersFetcher) SearchURL(productName string) string {
	return "https://www.shoppersdrugmart.ca/search?text=" + common.SearchQuery(productName)
}
