package skincare

import (
	"context"

	"go.uber.org/zap"

	"skinsense/internal/core/ai/prompts"
	aiservice "skinsense/internal/core/ai/service"
	"skinsense/internal/pkg/common"
)

// 生活型態預設值，欄位缺漏時補上
const (
	defaultSleepHours    = 7
	defaultHydrationCups = 6
	defaultStressLevel   = 3
	defaultMood          = 3
)

// CycleInsights 週期洞察結果
type CycleInsights struct {
	Phase       common.CyclePhase `json:"phase"`
	Summary     string            `json:"summary"`
	SkinImpact  []string          `json:"skin_impact"`
	Suggestions []string          `json:"suggestions"`
}

// CycleService 週期與生活型態服務
type CycleService struct {
	aiService *aiservice.Service
}

// NewCycleService 建立週期服務
func NewCycleService(ai *aiservice.Service) *CycleService {
	return &CycleService{aiService: ai}
}

// NormalizeLifestyle 補預設值並夾限範圍
// 輸入為 nil 時整份套用預設值
func NormalizeLifestyle(input *common.CycleLifestyleInput) common.CycleLifestyleInput {
	if input == nil {
		return common.CycleLifestyleInput{
			CyclePhase:    common.PhaseUnknown,
			SleepHours:    defaultSleepHours,
			HydrationCups: defaultHydrationCups,
			StressLevel:   defaultStressLevel,
			Mood:          defaultMood,
		}
	}

	out := *input
	out.CyclePhase = out.CyclePhase.Normalize()

	if out.SleepHours <= 0 {
		out.SleepHours = defaultSleepHours
	} else if out.SleepHours > 24 {
		out.SleepHours = 24
	}

	if out.HydrationCups <= 0 {
		out.HydrationCups = defaultHydrationCups
	}

	out.StressLevel = clampScale(out.StressLevel, defaultStressLevel)
	out.Mood = clampScale(out.Mood, defaultMood)

	return out
}

// clampScale 將 1–5 量表值夾限到合法範圍，零值補預設
func clampScale(v, fallback int) int {
	switch {
	case v == 0:
		return fallback
	case v < 1:
		return 1
	case v > 5:
		return 5
	default:
		return v
	}
}

// ValidateLifestyle 請求層驗證，明顯不合理的輸入直接退回
func ValidateLifestyle(input *common.CycleLifestyleInput) error {
	if input == nil {
		return nil
	}
	if input.SleepHours < 0 || input.SleepHours > 24 {
		return common.NewValidationError("sleep_hours 必須介於 0 到 24")
	}
	if input.HydrationCups < 0 {
		return common.NewValidationError("hydration_cups 不可為負數")
	}
	if input.StressLevel != 0 && (input.StressLevel < 1 || input.StressLevel > 5) {
		return common.NewValidationError("stress_level 必須介於 1 到 5")
	}
	if input.Mood != 0 && (input.Mood < 1 || input.Mood > 5) {
		return common.NewValidationError("mood 必須介於 1 到 5")
	}
	return nil
}

// refinementResponse 修正回應的外層結構
// cycle_lifestyle 用指標判斷欄位缺漏，缺了就整份不採用
type refinementResponse struct {
	CycleLifestyle *common.CycleLifestyleInput `json:"cycle_lifestyle"`
	Notes          string                      `json:"notes"`
}

// RefineLifestyle 依皮膚分析修正生活型態輸入
// AI 不可用、呼叫失敗或回應形狀不符時原樣回傳輸入（echo）
func (s *CycleService) RefineLifestyle(ctx context.Context, analysis common.SkinAnalysis, lifestyle common.CycleLifestyleInput) common.CycleLifestyleInput {
	if !s.aiService.Enabled() {
		return lifestyle
	}

	payload, err := common.ToJSON(map[string]interface{}{
		"skin_analysis":   analysis,
		"cycle_lifestyle": lifestyle,
	})
	if err != nil {
		return lifestyle
	}

	resp, err := s.aiService.GenerateText(ctx, prompts.CycleRefinement(payload))
	if err != nil {
		common.LogStageFallback("cycle_refinement", "AI 呼叫失敗", zap.Error(err))
		return lifestyle
	}

	refined, ok := parseRefinedLifestyle(common.ExtractJSONCandidate(resp.Content))
	if !ok {
		common.LogStageFallback("cycle_refinement", "AI 回應缺少 cycle_lifestyle")
		return lifestyle
	}
	return refined
}

// parseRefinedLifestyle 解析修正回應，成功時回傳夾限後的生活型態
func parseRefinedLifestyle(content string) (common.CycleLifestyleInput, bool) {
	var resp refinementResponse
	if err := common.ParseJSON(content, &resp); err != nil || resp.CycleLifestyle == nil {
		return common.CycleLifestyleInput{}, false
	}
	return NormalizeLifestyle(resp.CycleLifestyle), true
}

// GenerateInsights 產生週期洞察
// AI 不可用或回應不合格式時退回規則版洞察
func (s *CycleService) GenerateInsights(ctx context.Context, profile common.SkinProfile) CycleInsights {
	fallback := deterministicInsights(profile)

	if !s.aiService.Enabled() {
		return fallback
	}

	profileJSON, err := common.ToJSON(profile)
	if err != nil {
		return fallback
	}

	resp, err := s.aiService.GenerateText(ctx, prompts.CycleInsights(profileJSON))
	if err != nil {
		common.LogStageFallback("cycle_insights", "AI 呼叫失敗", zap.Error(err))
		return fallback
	}

	var insights CycleInsights
	if err := common.ParseJSON(common.ExtractJSONCandidate(resp.Content), &insights); err != nil {
		common.LogStageFallback("cycle_insights", "AI 回應格式不符")
		return fallback
	}
	if insights.Summary == "" {
		common.LogStageFallback("cycle_insights", "回應缺少 summary")
		return fallback
	}

	insights.Phase = profile.CycleLifestyle.CyclePhase
	return insights
}

// deterministicInsights 各週期階段的固定洞察
func deterministicInsights(profile common.SkinProfile) CycleInsights {
	phase := profile.CycleLifestyle.CyclePhase
	insights := CycleInsights{Phase: phase}

	switch phase {
	case common.PhaseMenstrual:
		insights.Summary = "Hormone levels are at their lowest, skin tends to be drier and more sensitive."
		insights.SkinImpact = []string{"increased sensitivity", "drier texture"}
		insights.Suggestions = []string{"keep the routine minimal", "skip strong exfoliants", "focus on barrier support"}
	case common.PhaseFollicular:
		insights.Summary = "Rising estrogen usually brings a calmer, more resilient skin window."
		insights.SkinImpact = []string{"improved glow", "better tolerance for actives"}
		insights.Suggestions = []string{"good window to introduce new actives", "maintain consistent SPF"}
	case common.PhaseOvulatory:
		insights.Summary = "Estrogen peaks, skin is typically at its most balanced."
		insights.SkinImpact = []string{"balanced oil production"}
		insights.Suggestions = []string{"keep the routine steady", "stay hydrated"}
	case common.PhaseLuteal:
		insights.Summary = "Progesterone rises, oil production and congestion often increase pre-period."
		insights.SkinImpact = []string{"increased oiliness", "higher chance of breakouts"}
		insights.Suggestions = []string{"lighter layers", "BHA can help with congestion", "avoid heavy occlusives"}
	default:
		insights.Summary = "Cycle phase unknown, keeping guidance general."
		insights.Suggestions = []string{"track sleep and hydration", "adjust the routine to how skin feels"}
	}

	// 生活型態附加提醒
	ls := profile.CycleLifestyle
	if ls.SleepHours < 6 {
		insights.Suggestions = append(insights.Suggestions, "short sleep shows on the skin, aim for 7+ hours")
	}
	if ls.HydrationCups < 4 {
		insights.Suggestions = append(insights.Suggestions, "increase daily water intake")
	}
	if ls.StressLevel >= 4 {
		insights.Suggestions = append(insights.Suggestions, "high stress can trigger flare-ups, build in recovery time")
	}

	return insights
}
