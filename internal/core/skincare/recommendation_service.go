package skincare

import (
	"context"

	"go.uber.org/zap"

	"skinsense/internal/core/ai/prompts"
	"skinsense/internal/core/catalog"
	"skinsense/internal/core/pricing"
	"skinsense/internal/pkg/common"
)

// RecommendationService 推薦流程的總指揮
// 串接分析正規化、流程生成、產品排序與比價；任何外部階段失敗
// 只降級該階段，已算出的上游結果照常回傳
type RecommendationService struct {
	analysisService *AnalysisService
	routineService  *RoutineService
	matcherService  *MatcherService
	cycleService    *CycleService
	pricingService  *pricing.Service
	catalog         *catalog.Catalog
	recommendLimit  int
}

// NewRecommendationService 建立推薦服務
func NewRecommendationService(
	analysis *AnalysisService,
	routine *RoutineService,
	matcher *MatcherService,
	cycle *CycleService,
	pricingSvc *pricing.Service,
	cat *catalog.Catalog,
	recommendLimit int,
) *RecommendationService {
	return &RecommendationService{
		analysisService: analysis,
		routineService:  routine,
		matcherService:  matcher,
		cycleService:    cycle,
		pricingService:  pricingSvc,
		catalog:         cat,
		recommendLimit:  recommendLimit,
	}
}

// BundleRequest 一次端到端推薦的輸入
// Image 與 SkinAnalysis 擇一：已有標準化分析時跳過視覺模型
// 比價預設開啟，SkipPrices 供純推薦場景關掉
type BundleRequest struct {
	Image                 string                      `json:"image,omitempty"`
	SkinAnalysis          *common.SkinAnalysis        `json:"skin_analysis,omitempty"`
	CycleLifestyle        *common.CycleLifestyleInput `json:"cycle_lifestyle,omitempty"`
	PreExistingConditions []string                    `json:"pre_existing_conditions,omitempty"`
	SkipPrices            bool                        `json:"skip_prices,omitempty"`
}

// Validate 請求層驗證，進入管線前擋掉明顯不合法的輸入
func (r *BundleRequest) Validate() error {
	return ValidateLifestyle(r.CycleLifestyle)
}

// BuildProfile 組裝單次請求的皮膚檔案
// 建構完成後下游一律唯讀
func BuildProfile(analysis common.SkinAnalysis, lifestyle common.CycleLifestyleInput) common.SkinProfile {
	return common.SkinProfile{
		SkinAnalysis:     analysis,
		CycleLifestyle:   lifestyle,
		CombinedTriggers: combineTriggers(analysis, lifestyle),
	}
}

// combineTriggers 合併視覺分析誘因與生活型態訊號
func combineTriggers(analysis common.SkinAnalysis, lifestyle common.CycleLifestyleInput) []string {
	triggers := append([]string{}, analysis.ProbableTriggers...)

	if lifestyle.SleepHours < 6 {
		triggers = append(triggers, "lack of sleep")
	}
	if lifestyle.HydrationCups < 4 {
		triggers = append(triggers, "dehydration")
	}
	if lifestyle.StressLevel >= 4 {
		triggers = append(triggers, "stress")
	}
	switch lifestyle.CyclePhase {
	case common.PhaseLuteal, common.PhaseMenstrual:
		triggers = append(triggers, "hormonal")
	}

	return common.DedupStrings(triggers)
}

// GenerateBundle 執行一次完整推薦
// 只有請求驗證與圖片處理錯誤會往上傳；外部階段失敗一律就地降級
func (s *RecommendationService) GenerateBundle(ctx context.Context, req *BundleRequest) (*common.RecommendationBundle, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 皮膚分析：已有標準化結果就直接用，否則走視覺模型
	// 沒有 AI 金鑰也沒有現成分析時，用示範檔案讓 API 離線仍可用
	var analysis common.SkinAnalysis
	if req.SkinAnalysis == nil && !s.analysisService.Enabled() {
		common.LogStageFallback("recommendation_bundle", "AI 未配置，使用示範皮膚檔案")
		analysis = mockAnalysis()
	} else if req.SkinAnalysis != nil {
		analysis = *req.SkinAnalysis
		analysis.Acne = analysis.Acne.Normalize()
		analysis.Redness = analysis.Redness.Normalize()
		analysis.Dryness = analysis.Dryness.Normalize()
		analysis.Oiliness = analysis.Oiliness.Normalize()
	} else {
		if req.Image == "" {
			return nil, common.NewValidationError("必須提供 image 或 skin_analysis 其中之一")
		}
		result, err := s.analysisService.AnalyzeSkin(ctx, req.Image, req.PreExistingConditions, prompts.DefaultLikertAnswers())
		if err != nil {
			return nil, err
		}
		analysis = *result
	}

	// 週期修正：AI 依分析結果校正生活型態，失敗原樣沿用
	lifestyle := NormalizeLifestyle(req.CycleLifestyle)
	lifestyle = s.cycleService.RefineLifestyle(ctx, analysis, lifestyle)
	profile := BuildProfile(analysis, lifestyle)

	// 流程：規則版為底，AI 強化失敗不影響結果
	routine := BuildRoutine(profile)
	routine = s.routineService.EnhanceRoutine(ctx, profile, routine)

	// 產品排序：AI 排序失敗退回規則排序
	ranked := s.matcherService.RankProductsWithAI(ctx, profile, s.catalog.Products(), s.catalog.Ingredients(), s.recommendLimit)

	products := make([]common.Product, 0, len(ranked))
	names := make([]string, 0, len(ranked))
	for _, sp := range ranked {
		products = append(products, sp.Product)
		names = append(names, sp.Product.Name)
	}

	// 比價：聚合層保證每個商品固定商店欄位數，全失敗也不缺格
	var comparisons []common.PriceComparisonResult
	if !req.SkipPrices {
		comparisons = s.pricingService.CompareForProducts(ctx, names)
	}

	common.LogInfo("推薦流程完成",
		zap.Int("products", len(products)),
		zap.Int("routine_steps", len(routine.Steps)),
		zap.Bool("prices_included", !req.SkipPrices))

	return &common.RecommendationBundle{
		SkinProfile:         profile,
		Routine:             routine,
		RecommendedProducts: products,
		PriceComparisons:    comparisons,
	}, nil
}

// mockAnalysis 離線示範用的固定皮膚分析
func mockAnalysis() common.SkinAnalysis {
	return common.SkinAnalysis{
		Acne:              common.SeverityMild,
		Redness:           common.SeverityMild,
		Dryness:           common.SeverityNone,
		Oiliness:          common.SeverityModerate,
		TextureNotes:      []string{"mild congestion on the t-zone"},
		NonMedicalSummary: "Demo profile generated without AI analysis. Combination skin with mild breakouts.",
		ProbableTriggers:  []string{"stress"},
		RoutineFocus:      []string{"oil control"},
	}
}

// RecommendProducts 單獨的產品推薦，不含流程與比價
func (s *RecommendationService) RecommendProducts(ctx context.Context, profile common.SkinProfile, limit int) []ScoredProduct {
	if limit <= 0 {
		limit = s.recommendLimit
	}
	return s.matcherService.RankProductsWithAI(ctx, profile, s.catalog.Products(), s.catalog.Ingredients(), limit)
}
