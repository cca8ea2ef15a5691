package pricing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"skinsense/internal/pkg/common"
)

const sephoraAPIHost = "sephora.p.rapidapi.com"

// SephoraFetcher 透過 RapidAPI 查詢 Sephora 的商品價格
type SephoraFetcher struct {
	client *resty.Client
	apiKey string
}

// NewSephoraFetcher 建立 Sephora 查價器
func NewSephoraFetcher(apiKey string, timeout time.Duration) *SephoraFetcher {
	client := resty.New().
		SetBaseURL("https://"+sephoraAPIHost).
		SetTimeout(timeout).
		SetHeader("X-RapidAPI-Key", apiKey).
		SetHeader("X-RapidAPI-Host", sephoraAPIHost)

	return &SephoraFetcher{client: client, apiKey: apiKey}
}

// Name 回傳商店識別名稱
func (f *SephoraFetcher) Name() string {
	return StoreSephora
}

// sephoraSearchResponse RapidAPI 搜尋回應
type sephoraSearchResponse struct {
	Products []struct {
		DisplayName string `json:"displayName"`
		TargetURL   string `json:"targetUrl"`
		HeroImage   string `json:"heroImage"`
		CurrentSku  struct {
			ListPrice string `json:"listPrice"`
		} `json:"currentSku"`
	} `json:"products"`
}

// Fetch 取第一筆搜尋結果作為最佳匹配
func (f *SephoraFetcher) Fetch(ctx context.Context, productName string) (*common.StorePrice, error) {
	if f.apiKey == "" {
		return nil, fmt.Errorf("缺少 RapidAPI 金鑰")
	}

	var result sephoraSearchResponse
	resp, err := f.client.R().
		SetContext(ctx).
		SetQueryParam("q", productName).
		SetResult(&result).
		Get("/us/products/v2/search")
	if err != nil {
		return nil, fmt.Errorf("Sephora 查詢失敗: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("Sephora 回應異常狀態: %d", resp.StatusCode())
	}
	if len(result.Products) == 0 {
		return nil, fmt.Errorf("Sephora 查無符合商品")
	}

	best := result.Products[0]
	url := best.TargetURL
	if url != "" && strings.HasPrefix(url, "/") {
		url = "https://www.sephora.com" + url
	}

	return &common.StorePrice{
		Store:       f.Name(),
		Price:       ParsePriceText(best.CurrentSku.ListPrice),
		URL:         url,
		Image:       best.HeroImage,
		LastChecked: time.Now(),
	}, nil
}

// SearchURL 組出 Sephora 加拿大站搜尋連結
func (f *SephoraFetcher) SearchURL(productName string) string {
	return "https://www.sephora.com/ca/en/search?keyword=" + common.SearchQuery(productName)
}
