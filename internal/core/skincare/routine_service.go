package skincare

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"skinsense/internal/core/ai/prompts"
	aiservice "skinsense/internal/core/ai/service"
	"skinsense/internal/pkg/common"
)

// RoutineService 保養流程服務
// 規則引擎產出基準流程，AI 強化只在回應通過驗證時才接受
type RoutineService struct {
	aiService *aiservice.Service
}

// NewRoutineService 建立保養流程服務
func NewRoutineService(ai *aiservice.Service) *RoutineService {
	return &RoutineService{aiService: ai}
}

// BuildRoutine 以規則表產生 AM/PM 保養流程
// 相同輸入永遠產出相同步驟順序
func BuildRoutine(profile common.SkinProfile) common.Routine {
	analysis := profile.SkinAnalysis
	phase := profile.CycleLifestyle.CyclePhase

	var steps []common.RoutineStep

	// 洗面產品依油性／乾性分流
	switch {
	case analysis.Oiliness.AtLeast(common.SeverityModerate):
		steps = append(steps, common.RoutineStep{
			Step:        "cleanser",
			Time:        common.TimeAMPM,
			Description: "Gel or foaming cleanser to manage excess oil without stripping.",
		})
	case analysis.Dryness.AtLeast(common.SeverityModerate):
		steps = append(steps, common.RoutineStep{
			Step:        "cleanser",
			Time:        common.TimeAMPM,
			Description: "Cream or milky cleanser that cleans without disrupting the barrier.",
		})
	default:
		steps = append(steps, common.RoutineStep{
			Step:        "cleanser",
			Time:        common.TimeAMPM,
			Description: "Gentle low-pH cleanser suitable for daily use.",
		})
	}

	if analysis.Dryness.AtLeast(common.SeverityModerate) {
		steps = append(steps, common.RoutineStep{
			Step:        "hydrating serum",
			Time:        common.TimeAMPM,
			Description: "Hyaluronic acid or glycerin serum applied on damp skin.",
		})
	}

	if analysis.Redness.AtLeast(common.SeverityModerate) {
		steps = append(steps, common.RoutineStep{
			Step:        "soothing serum",
			Time:        common.TimeAMPM,
			Description: "Centella or panthenol serum to calm visible redness.",
		})
	}

	// 去角質只排在 PM，經期跳過
	if hasCongestion(analysis) && phase != common.PhaseMenstrual {
		steps = append(steps, common.RoutineStep{
			Step:        "exfoliant",
			Time:        common.TimePM,
			Description: "BHA exfoliant 2-3 times a week to clear congestion.",
		})
	}

	if analysis.Acne.AtLeast(common.SeverityModerate) {
		steps = append(steps, common.RoutineStep{
			Step:        "spot treatment",
			Time:        common.TimePM,
			Description: "Targeted spot treatment on active blemishes only.",
		})
	}

	// 保濕強度依乾燥程度分級
	switch {
	case analysis.Dryness.AtLeast(common.SeveritySevere):
		steps = append(steps, common.RoutineStep{
			Step:        "moisturizer",
			Time:        common.TimeAMPM,
			Description: "Rich ceramide cream to rebuild the moisture barrier.",
		})
	case analysis.Dryness.AtLeast(common.SeverityModerate):
		steps = append(steps, common.RoutineStep{
			Step:        "moisturizer",
			Time:        common.TimeAMPM,
			Description: "Medium-weight moisturizer with ceramides or squalane.",
		})
	default:
		steps = append(steps, common.RoutineStep{
			Step:        "moisturizer",
			Time:        common.TimeAMPM,
			Description: "Lightweight gel moisturizer for daily hydration.",
		})
	}

	if analysis.Redness.AtLeast(common.SeveritySevere) {
		steps = append(steps, common.RoutineStep{
			Step:        "soothing treatment",
			Time:        common.TimePM,
			Description: "Occlusive soothing layer at night while redness is flared.",
		})
	}

	// 防曬固定收在 AM 最後一步
	steps = append(steps, common.RoutineStep{
		Step:        "sunscreen",
		Time:        common.TimeAM,
		Description: "Broad-spectrum SPF 30+ as the final morning step.",
	})

	return common.Routine{
		Steps: steps,
		Notes: routineNotes(profile),
	}
}

// routineNotes 依週期階段補充提醒文字
func routineNotes(profile common.SkinProfile) string {
	base := "Introduce new actives one at a time and patch test first."
	switch profile.CycleLifestyle.CyclePhase {
	case common.PhaseMenstrual:
		return base + " Skin barrier tends to be more reactive during the menstrual phase, keep the routine minimal."
	case common.PhaseLuteal:
		return base + " Oil production often rises in the luteal phase, lighter layers may feel better."
	default:
		return base
	}
}

// EnhanceRoutine 以文字模型強化規則版流程
// 回應缺 steps 陣列、驗證失敗或呼叫出錯，整份退回規則版，不接受半成品
func (s *RoutineService) EnhanceRoutine(ctx context.Context, profile common.SkinProfile, base common.Routine) common.Routine {
	if !s.aiService.Enabled() {
		return base
	}

	profileJSON, err := common.ToJSON(profile)
	if err != nil {
		return base
	}

	resp, err := s.aiService.GenerateText(ctx, prompts.RoutineEnhancement(profileJSON))
	if err != nil {
		common.LogStageFallback("routine_enhancement", "AI 呼叫失敗", zap.Error(err))
		return base
	}

	enhanced, err := parseEnhancedRoutine(resp.Content)
	if err != nil {
		common.LogStageFallback("routine_enhancement", "AI 回應驗證失敗", zap.Error(err))
		return base
	}
	return *enhanced
}

// parseEnhancedRoutine 驗證並解析 AI 回傳的流程
func parseEnhancedRoutine(raw string) (*common.Routine, error) {
	var routine common.Routine
	if err := common.ParseJSON(common.ExtractJSONCandidate(raw), &routine); err != nil {
		return nil, err
	}
	if routine.Steps == nil {
		return nil, fmt.Errorf("回應缺少 steps 陣列")
	}
	for i := range routine.Steps {
		if routine.Steps[i].Step == "" {
			return nil, fmt.Errorf("第 %d 個步驟缺少名稱", i+1)
		}
		switch routine.Steps[i].Time {
		case common.TimeAM, common.TimePM, common.TimeAMPM:
		default:
			return nil, fmt.Errorf("第 %d 個步驟時段標籤不合法", i+1)
		}
	}
	return &routine, nil
}
