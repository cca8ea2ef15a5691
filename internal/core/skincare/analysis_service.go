package skincare

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"skinsense/internal/core/ai/prompts"
	aiservice "skinsense/internal/core/ai/service"
	"skinsense/internal/core/image"
	"skinsense/internal/pkg/common"
)

// 固定誘因詞彙表，從綜合解讀文字做關鍵字比對
var triggerPattern = regexp.MustCompile(`(?i)(dehydration|stress|hormonal|lack of sleep|comedogenic|over-exfoliation|pollution|dry air)`)

// fallbackSummaryLimit 解析失敗時保留的原始文字長度上限
const fallbackSummaryLimit = 400

// AnalysisService 皮膚分析服務
// 負責呼叫視覺模型並將回應正規化為標準分析結果
type AnalysisService struct {
	aiService    *aiservice.Service
	imageService *image.Service
}

// NewAnalysisService 建立皮膚分析服務
func NewAnalysisService(ai *aiservice.Service, img *image.Service) *AnalysisService {
	return &AnalysisService{
		aiService:    ai,
		imageService: img,
	}
}

// Enabled 視覺分析路徑是否可用
func (s *AnalysisService) Enabled() bool {
	return s.aiService.Enabled()
}

// AnalyzeSkin 分析自拍照並回傳標準化皮膚分析
// 模型回應格式不符時走文字 fallback，不會讓請求失敗
func (s *AnalysisService) AnalyzeSkin(ctx context.Context, imageInput string, conditions []string, answers prompts.LikertAnswers) (*common.SkinAnalysis, error) {
	if !s.aiService.Enabled() {
		return nil, common.ErrAIServiceError
	}

	payload, err := s.imageService.ProcessImage(imageInput)
	if err != nil {
		return nil, err
	}

	prompt := prompts.SkinAnalysis(conditions, answers)

	resp, err := s.aiService.GenerateVision(ctx, prompt, payload.Base64, payload.MimeType)
	if err != nil {
		return nil, common.ErrAIServiceError
	}

	analysis := NormalizeAIResponse(resp.Content)
	return &analysis, nil
}

// NormalizeAIResponse 將模型原始回應轉為標準化皮膚分析
// JSON 解析失敗時降級為純文字 fallback，永不拋錯
func NormalizeAIResponse(raw string) common.SkinAnalysis {
	candidate := common.ExtractJSONCandidate(raw)

	var obs common.SkinObservations
	if err := common.ParseJSON(candidate, &obs); err != nil {
		common.LogStageFallback("skin_analysis", "模型回應無法解析為 JSON")
		return fallbackAnalysis(raw)
	}

	return NormalizeObservations(obs)
}

// NormalizeObservations 將視覺模型觀察結果正規化
// 嚴重度欄位缺漏一律視為 none，四個欄位保證存在
func NormalizeObservations(obs common.SkinObservations) common.SkinAnalysis {
	analysis := common.SkinAnalysis{
		Acne:              inferSeverity(obs.AIFindings.Acne),
		Redness:           inferSeverity(obs.AIFindings.Redness),
		Dryness:           inferSeverity(obs.AIFindings.Dryness),
		Oiliness:          inferSeverity(obs.AIFindings.Oiliness),
		NonMedicalSummary: obs.CombinedInterpretation,
	}

	// 質地與其他觀察依序串接，保留原始順序
	analysis.TextureNotes = append(analysis.TextureNotes, obs.AIFindings.Texture...)
	analysis.TextureNotes = append(analysis.TextureNotes, obs.AIFindings.OtherObservations...)

	analysis.ProbableTriggers = extractTriggers(obs.CombinedInterpretation)
	analysis.RoutineFocus = deriveRoutineFocus(analysis)

	return analysis
}

// inferSeverity 從自由文字推斷嚴重度
// 依 severe > moderate > mild 優先序比對，都沒中回傳 none
func inferSeverity(finding *string) common.SeverityLevel {
	if finding == nil {
		return common.SeverityNone
	}

	text := strings.ToLower(*finding)
	switch {
	case strings.Contains(text, "severe"):
		return common.SeveritySevere
	case strings.Contains(text, "moderate"):
		return common.SeverityModerate
	case strings.Contains(text, "mild"):
		return common.SeverityMild
	default:
		return common.SeverityNone
	}
}

// extractTriggers 從綜合解讀文字抽取可能誘因，轉小寫去重
func extractTriggers(interpretation string) []string {
	matches := triggerPattern.FindAllString(interpretation, -1)
	if len(matches) == 0 {
		return nil
	}

	lowered := make([]string, 0, len(matches))
	for _, m := range matches {
		lowered = append(lowered, strings.ToLower(m))
	}
	return common.DedupStrings(lowered)
}

// deriveRoutineFocus 依嚴重度推導保養重點
func deriveRoutineFocus(a common.SkinAnalysis) []string {
	var focus []string
	if a.Acne.AtLeast(common.SeverityModerate) {
		focus = append(focus, "acne care")
	}
	if a.Dryness.AtLeast(common.SeverityModerate) {
		focus = append(focus, "barrier repair")
	}
	if a.Oiliness.AtLeast(common.SeverityModerate) {
		focus = append(focus, "oil control")
	}
	if a.Redness.AtLeast(common.SeverityModerate) {
		focus = append(focus, "soothing")
	}
	return focus
}

// fallbackAnalysis 解析失敗時的最小可用結果
// 嚴重度全部 none，保留原始文字讓呼叫端至少拿得到模型說了什麼
func fallbackAnalysis(raw string) common.SkinAnalysis {
	trimmed := strings.TrimSpace(raw)
	prefix := trimmed
	if len(prefix) > fallbackSummaryLimit {
		// 截斷點退到 rune 邊界，避免切出半個多位元組字元
		cut := fallbackSummaryLimit
		for cut > 0 && !utf8.RuneStart(prefix[cut]) {
			cut--
		}
		prefix = prefix[:cut]
	}

	return common.SkinAnalysis{
		Acne:              common.SeverityNone,
		Redness:           common.SeverityNone,
		Dryness:           common.SeverityNone,
		Oiliness:          common.SeverityNone,
		TextureNotes:      []string{prefix},
		NonMedicalSummary: trimmed,
	}
}
