package common

import (
	"strings"
	"time"
)

// SeverityLevel 四級非醫療嚴重度
type SeverityLevel string

const (
	SeverityNone     SeverityLevel = "none"
	SeverityMild     SeverityLevel = "mild"
	SeverityModerate SeverityLevel = "moderate"
	SeveritySevere   SeverityLevel = "severe"
)

// severityRank 嚴重度排序（none < mild < moderate < severe）
var severityRank = map[SeverityLevel]int{
	SeverityNone:     0,
	SeverityMild:     1,
	SeverityModerate: 2,
	SeveritySevere:   3,
}

// Rank 取得嚴重度排序值，未知值視為 none
func (s SeverityLevel) Rank() int {
	return severityRank[s]
}

// AtLeast 判斷嚴重度是否達到指定門檻
func (s SeverityLevel) AtLeast(min SeverityLevel) bool {
	return s.Rank() >= min.Rank()
}

// Normalize 將任意字串正規化為合法的嚴重度，無法辨識時回傳 none
func (s SeverityLevel) Normalize() SeverityLevel {
	switch SeverityLevel(strings.ToLower(string(s))) {
	case SeverityMild, SeverityModerate, SeveritySevere:
		return SeverityLevel(strings.ToLower(string(s)))
	default:
		return SeverityNone
	}
}

// CyclePhase 月經週期階段（生活型態輸入，非醫療判斷）
type CyclePhase string

const (
	PhaseMenstrual  CyclePhase = "menstrual"
	PhaseFollicular CyclePhase = "follicular"
	PhaseOvulatory  CyclePhase = "ovulatory"
	PhaseLuteal     CyclePhase = "luteal"
	PhaseUnknown    CyclePhase = "unknown"
)

// Normalize 將任意字串正規化為合法的週期階段，無法辨識時回傳 unknown
func (p CyclePhase) Normalize() CyclePhase {
	switch CyclePhase(strings.ToLower(string(p))) {
	case PhaseMenstrual, PhaseFollicular, PhaseOvulatory, PhaseLuteal:
		return CyclePhase(strings.ToLower(string(p)))
	default:
		return PhaseUnknown
	}
}

// SkinAnalysis 標準化皮膚分析結果
// 四個嚴重度欄位必須存在，缺漏或未知一律正規化為 none，不可為 null
type SkinAnalysis struct {
	Acne              SeverityLevel `json:"acne"`
	Redness           SeverityLevel `json:"redness"`
	Dryness           SeverityLevel `json:"dryness"`
	Oiliness          SeverityLevel `json:"oiliness"`
	TextureNotes      []string      `json:"texture_notes"`
	NonMedicalSummary string        `json:"non_medical_summary"`
	ProbableTriggers  []string      `json:"probable_triggers"`
	RoutineFocus      []string      `json:"routine_focus"`
}

// SkinObservations 視覺模型回傳的原始觀察結果
// 嚴重度可能是自由文字描述而非枚舉，由 normalizer 負責轉換
type SkinObservations struct {
	AIFindings struct {
		Acne              *string  `json:"acne"`
		Redness           *string  `json:"redness"`
		Dryness           *string  `json:"dryness"`
		Oiliness          *string  `json:"oiliness"`
		Texture           []string `json:"texture"`
		OtherObservations []string `json:"other_observations"`
	} `json:"ai_findings"`
	CombinedInterpretation string `json:"combined_interpretation"`
}

// CycleLifestyleInput 週期與生活型態輸入
type CycleLifestyleInput struct {
	CyclePhase    CyclePhase `json:"cycle_phase"`
	SleepHours    float64    `json:"sleep_hours"`
	HydrationCups float64    `json:"hydration_cups"`
	StressLevel   int        `json:"stress_level"`
	Mood          int        `json:"mood"`
	Notes         string     `json:"notes,omitempty"`
}

// SkinProfile 單次請求的皮膚檔案
// 建構後不可變，所有下游階段唯讀使用
type SkinProfile struct {
	SkinAnalysis     SkinAnalysis        `json:"skin_analysis"`
	CycleLifestyle   CycleLifestyleInput `json:"cycle_lifestyle"`
	CombinedTriggers []string            `json:"combined_triggers"`
}

// IngredientInfo 成分字典條目
type IngredientInfo struct {
	Name             string   `json:"name"`
	Category         string   `json:"category,omitempty"`
	Functions        []string `json:"functions,omitempty"`
	ComedogenicScale *int     `json:"comedogenic_rating,omitempty"`
	IrritancyScale   *int     `json:"irritancy_rating,omitempty"`
	Fragrance        bool     `json:"fragrance,omitempty"`
	AcneTrigger      bool     `json:"acne_trigger,omitempty"`
	Warnings         []string `json:"warnings,omitempty"`
	Benefits         []string `json:"benefits,omitempty"`
}

// Product 產品目錄條目，載入後不可變
type Product struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Brand           string   `json:"brand"`
	Category        string   `json:"category"`
	KeyIngredients  []string `json:"key_ingredients"`
	IngredientsFull string   `json:"ingredients_full"`
	SuitableFor     []string `json:"suitable_for"`
	Concerns        []string `json:"concerns,omitempty"`
	FragranceFree   bool     `json:"fragrance_free"`
	PriceEstimate   *float64 `json:"price_estimate,omitempty"`
	ImageURL        string   `json:"image_url,omitempty"`
}

// TimeOfDay 保養步驟的時段標籤
type TimeOfDay string

const (
	TimeAM   TimeOfDay = "AM"
	TimePM   TimeOfDay = "PM"
	TimeAMPM TimeOfDay = "AM_PM"
)

// RoutineStep 保養流程的單一步驟
type RoutineStep struct {
	Step        string    `json:"step"`
	Time        TimeOfDay `json:"time"`
	Description string    `json:"description"`
	ProductName string    `json:"product_name,omitempty"`
}

// Routine AM/PM 保養流程
// 每次請求重新建構；AI 強化失敗時整份回退為規則版，不允許半成品
type Routine struct {
	Steps []RoutineStep `json:"steps"`
	Notes string        `json:"notes"`
}

// StorePrice 單一商店的價格查詢結果
// Price 為 nil 代表「未知」而非零元
type StorePrice struct {
	Store       string    `json:"store"`
	Price       *float64  `json:"price"`
	URL         string    `json:"url"`
	Image       string    `json:"image,omitempty"`
	LastChecked time.Time `json:"last_checked"`
}

// PriceComparisonResult 跨商店比價結果
// Prices 固定一個商店一個欄位，查詢失敗也要保留欄位
type PriceComparisonResult struct {
	ProductName   string       `json:"product_name"`
	Prices        []StorePrice `json:"prices"`
	CheapestStore string       `json:"cheapest_store,omitempty"`
}

// RecommendationBundle 最終推薦結果
type RecommendationBundle struct {
	SkinProfile         SkinProfile             `json:"skin_profile"`
	Routine             Routine                 `json:"routine"`
	RecommendedProducts []Product               `json:"recommended_products"`
	PriceComparisons    []PriceComparisonResult `json:"price_comparisons"`
}
