package pricing

import (
	"context"
	"regexp"
	"strconv"

	"skinsense/internal/pkg/common"
)

// 固定的商店順序，比價結果的欄位位置依此排列
const (
	StoreAmazonCA = "AmazonCA"
	StoreSephora  = "SephoraCA"
	StoreShoppers = "ShoppersDrugMart"
)

// StoreFetcher 單一商店的查價介面
// 實作只回報「最佳匹配」一筆；查無結果以 error 表示，由聚合層轉為 null 價格
type StoreFetcher interface {
	Name() string
	// Fetch 查詢商品最佳匹配價格
	Fetch(ctx context.Context, productName string) (*common.StorePrice, error)
	// SearchURL 組出該商店的搜尋深連結，查詢失敗時仍可給使用者
	SearchURL(productName string) string
}

var nonNumericPattern = regexp.MustCompile(`[^0-9.]`)

// ParsePriceText 將格式化價格文字轉為數值
// 去掉貨幣符號與千分位後解析；解析不了回傳 nil 代表未知
func ParsePriceText(text string) *float64 {
	cleaned := nonNumericPattern.ReplaceAllString(text, "")
	if cleaned == "" {
		return nil
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &value
}
