package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"skinsense/internal/pkg/common"
)

const amazonAPIHost = "real-time-amazon-data.p.rapidapi.com"

// AmazonFetcher 透過 RapidAPI 查詢 Amazon 加拿大站的商品價格
type AmazonFetcher struct {
	client *resty.Client
	apiKey string
}

// NewAmazonFetcher 建立 Amazon 查價器
func NewAmazonFetcher(apiKey string, timeout time.Duration) *AmazonFetcher {
	client := resty.New().
		SetBaseURL("https://"+amazonAPIHost).
		SetTimeout(timeout).
		SetHeader("X-RapidAPI-Key", apiKey).
		SetHeader("X-RapidAPI-Host", amazonAPIHost)

	return &AmazonFetcher{client: client, apiKey: apiKey}
}

// Name 回傳商店識別名稱
func (f *AmazonFetcher) Name() string {
	return StoreAmazonCA
}

// amazonSearchResponse RapidAPI 搜尋回應
type amazonSearchResponse struct {
	Data struct {
		Products []struct {
			ProductTitle string `json:"product_title"`
			ProductPrice string `json:"product_price"`
			ProductURL   string `json:"product_url"`
			ProductPhoto string `json:"product_photo"`
		} `json:"products"`
	} `json:"data"`
}

// Fetch 取第一筆搜尋結果作為最佳匹配
func (f *AmazonFetcher) Fetch(ctx context.Context, productName string) (*common.StorePrice, error) {
	if f.apiKey == "" {
		return nil, fmt.Errorf("缺少 RapidAPI 金鑰")
	}

	var result amazonSearchResponse
	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"query":   productName,
			"country": "CA",
			"page":    "1",
		}).
		SetResult(&result).
		Get("/search")
	if err != nil {
		return nil, fmt.Errorf("Amazon 查詢失敗: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("Amazon 回應異常狀態: %d", resp.StatusCode())
	}
	if len(result.Data.Products) == 0 {
		return nil, fmt.Errorf("Amazon 查無符合商品")
	}

	best := result.Data.Products[0]
	return &common.StorePrice{
		Store:       f.Name(),
		Price:       ParsePriceText(best.ProductPrice),
		URL:         best.ProductURL,
		Image:       best.ProductPhoto,
		LastChecked: time.Now(),
	}, nil
}

// SearchURL 組出 Amazon 加拿大站搜尋連結
func (f *AmazonFetcher) SearchURL(productName string) string {
	return "https://www.amazon.ca/s?k=" + common.SearchQuery(productName)
}
