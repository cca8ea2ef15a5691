package common

import (
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// SearchQuery 將產品名稱編碼為查詢字串片段
func SearchQuery(productName string) string {
	return url.QueryEscape(strings.TrimSpace(productName))
}

// DedupStrings 去除重複字串，保留首次出現順序
func DedupStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
