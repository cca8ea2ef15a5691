package skincare

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"skinsense/internal/core/ai/prompts"
	aiservice "skinsense/internal/core/ai/service"
	"skinsense/internal/pkg/common"
)

// ScoredProduct 附帶配對分數的產品
type ScoredProduct struct {
	Product common.Product `json:"product"`
	Score   int            `json:"score"`
}

// MatcherService 產品配對服務
// 規則排序為主，AI 排序為輔；AI 回應格式不符時完全退回規則結果
type MatcherService struct {
	aiService *aiservice.Service
}

// NewMatcherService 建立產品配對服務
func NewMatcherService(ai *aiservice.Service) *MatcherService {
	return &MatcherService{aiService: ai}
}

// ScoreProduct 計算單一產品對皮膚檔案的配對分數
// 純函數：不碰網路也不改動目錄，相同輸入永遠同分
func ScoreProduct(product common.Product, profile common.SkinProfile, dictionary []common.IngredientInfo) int {
	score := 0
	analysis := profile.SkinAnalysis
	ingredients := strings.ToLower(product.IngredientsFull)

	// 成分安全分數貢獻
	// 門檻各自獨立判斷，高分產品會同時吃到兩段加分
	tokens := ParseIngredients(product.IngredientsFull)
	safety := ComputeIngredientSafetyScore(tokens, dictionary)
	if safety > 90 {
		score += 6
	}
	if safety > 75 {
		score += 4
	}
	if safety < 50 {
		score -= 5
	}
	if safety < 30 {
		score -= 8
	}

	// 膚質適配
	if analysis.Oiliness.AtLeast(common.SeverityModerate) {
		if suitableFor(product, "oily") {
			score += 4
		}
		if suitableFor(product, "acne-prone") {
			score += 3
		}
	}
	if analysis.Dryness.AtLeast(common.SeverityModerate) {
		if suitableFor(product, "dry") {
			score += 4
		}
		if suitableFor(product, "sensitive") {
			score += 2
		}
	}
	if analysis.Redness.AtLeast(common.SeverityModerate) && suitableFor(product, "sensitive") {
		score += 3
	}

	// 活性成分加分
	if analysis.Acne.AtLeast(common.SeverityModerate) {
		if strings.Contains(ingredients, "salicylic") {
			score += 4
		}
		if strings.Contains(ingredients, "bha") {
			score += 3
		}
		if strings.Contains(ingredients, "niacinamide") {
			score += 2
		}
	}
	if analysis.Dryness.AtLeast(common.SeverityModerate) {
		if strings.Contains(ingredients, "hyaluronic") {
			score += 4
		}
		if strings.Contains(ingredients, "ceramide") {
			score += 3
		}
		if strings.Contains(ingredients, "glycerin") {
			score += 2
		}
		if strings.Contains(ingredients, "squalane") {
			score += 2
		}
	}
	if analysis.Redness.AtLeast(common.SeverityModerate) {
		if strings.Contains(ingredients, "centella") {
			score += 3
		}
		if strings.Contains(ingredients, "panthenol") {
			score += 2
		}
		if strings.Contains(ingredients, "madecassoside") {
			score += 3
		}
	}

	// 毛孔堵塞加分
	if hasCongestion(analysis) {
		if strings.Contains(ingredients, "salicylic") {
			score += 3
		}
		if strings.Contains(ingredients, "bha") {
			score += 4
		}
	}

	// 保養重點對齊
	for _, focus := range analysis.RoutineFocus {
		switch strings.ToLower(focus) {
		case "barrier repair":
			if strings.Contains(ingredients, "ceramide") {
				score += 3
			}
		case "oil control":
			if strings.Contains(ingredients, "niacinamide") {
				score += 2
			}
		case "soothing":
			if strings.Contains(ingredients, "centella") {
				score += 3
			}
		}
	}

	// 風險成分扣分
	if !product.FragranceFree {
		score -= 3
	}
	if strings.Contains(ingredients, "fragrance") || strings.Contains(ingredients, "parfum") {
		score -= 4
	}
	if strings.Contains(ingredients, "lavender oil") {
		score -= 3
	}
	if strings.Contains(ingredients, "essential oil") {
		score -= 4
	}
	if strings.Contains(ingredients, "alcohol denat") {
		score -= 3
	}

	return score
}

// RankProducts 規則排序：依配對分數由高到低取前 N 名
// 同分時維持目錄原始順序，結果可重現
func RankProducts(profile common.SkinProfile, catalog []common.Product, dictionary []common.IngredientInfo, limit int) []ScoredProduct {
	scored := make([]ScoredProduct, 0, len(catalog))
	for _, p := range catalog {
		scored = append(scored, ScoredProduct{
			Product: p,
			Score:   ScoreProduct(p, profile, dictionary),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

// aiRanking AI 排序回應的預期格式
type aiRanking struct {
	RankedProducts []string `json:"ranked_products"`
}

// RankProductsWithAI AI 輔助排序
// 回應缺 ranked_products、型別不對或呼叫失敗，一律退回規則排序
// AI 給的結果不足 N 筆時用規則結果補齊，依產品 ID 去重
func (s *MatcherService) RankProductsWithAI(ctx context.Context, profile common.SkinProfile, catalog []common.Product, dictionary []common.IngredientInfo, limit int) []ScoredProduct {
	deterministic := RankProducts(profile, catalog, dictionary, limit)

	if !s.aiService.Enabled() {
		return deterministic
	}

	profileJSON, err := common.ToJSON(profile)
	if err != nil {
		return deterministic
	}

	// 候選集先用規則分數縮小範圍，降低 prompt 長度
	candidates := RankProducts(profile, catalog, dictionary, limit*3)
	candidatesJSON, err := common.ToJSON(candidates)
	if err != nil {
		return deterministic
	}

	resp, err := s.aiService.GenerateText(ctx, prompts.ProductRanking(profileJSON, candidatesJSON, limit))
	if err != nil {
		common.LogStageFallback("product_ranking", "AI 呼叫失敗", zap.Error(err))
		return deterministic
	}

	var ranking aiRanking
	if err := common.ParseJSON(common.ExtractJSONCandidate(resp.Content), &ranking); err != nil {
		common.LogStageFallback("product_ranking", "AI 回應格式不符")
		return deterministic
	}
	if ranking.RankedProducts == nil {
		common.LogStageFallback("product_ranking", "回應缺少 ranked_products 陣列")
		return deterministic
	}

	byID := make(map[string]ScoredProduct, len(candidates))
	for _, sp := range candidates {
		byID[sp.Product.ID] = sp
	}

	result := make([]ScoredProduct, 0, limit)
	seen := make(map[string]bool, limit)
	for _, id := range ranking.RankedProducts {
		if len(result) >= limit {
			break
		}
		sp, ok := byID[id]
		if !ok || seen[id] {
			continue
		}
		result = append(result, sp)
		seen[id] = true
	}

	// AI 排名不足額時用規則結果補滿
	for _, sp := range deterministic {
		if len(result) >= limit {
			break
		}
		if seen[sp.Product.ID] {
			continue
		}
		result = append(result, sp)
		seen[sp.Product.ID] = true
	}

	return result
}

// suitableFor 檢查產品適用膚質標籤
func suitableFor(product common.Product, tag string) bool {
	for _, t := range product.SuitableFor {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// hasCongestion 判斷是否有毛孔堵塞跡象
// 質地備註提到 congestion 或痘痘達中度以上都算
func hasCongestion(a common.SkinAnalysis) bool {
	if a.Acne.AtLeast(common.SeverityModerate) {
		return true
	}
	for _, note := range a.TextureNotes {
		if strings.Contains(strings.ToLower(note), "congestion") {
			return true
		}
	}
	return false
}
