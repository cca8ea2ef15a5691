package skincare

import (
	"strings"

	"skinsense/internal/pkg/common"
)

// ComedogenicHit 致痘成分與其評級
type ComedogenicHit struct {
	Ingredient string
	Rating     int
}

// Hazards 成分風險掃描結果
type Hazards struct {
	Irritants    []string
	Fragrance    []string
	AcneTriggers []string
	Comedogenic  []ComedogenicHit
}

// 啟發式掃描的風險子字串，沒有字典條目也能攔到
var (
	fragranceTerms = []string{
		"fragrance",
		"parfum",
		"essential oil",
		"lavender oil",
		"citrus oil",
		"bergamot",
	}
	dryingAlcohols = []string{"alcohol denat", "ethanol"}
)

// ParseIngredients 將完整 INCI 字串切成正規化 token
// 以逗號、分號、句點切割，去空白轉小寫，丟掉空 token
func ParseIngredients(inci string) []string {
	if inci == "" {
		return nil
	}

	raw := strings.FieldsFunc(inci, func(r rune) bool {
		return r == ',' || r == ';' || r == '.'
	})

	tokens := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// DetectIngredientHazards 對照成分字典標記風險成分
// 查無字典條目的 token 視為未知，不計入風險
func DetectIngredientHazards(tokens []string, dictionary []common.IngredientInfo) Hazards {
	var h Hazards

	for _, token := range tokens {
		var found *common.IngredientInfo
		for i := range dictionary {
			if strings.EqualFold(dictionary[i].Name, token) {
				found = &dictionary[i]
				break
			}
		}
		if found == nil {
			continue
		}

		if found.IrritancyScale != nil && *found.IrritancyScale >= 3 {
			h.Irritants = append(h.Irritants, found.Name)
		}
		if isFragrance(found) {
			h.Fragrance = append(h.Fragrance, found.Name)
		}
		if isAcneTrigger(found) {
			h.AcneTriggers = append(h.AcneTriggers, found.Name)
		}
		if found.ComedogenicScale != nil && *found.ComedogenicScale >= 3 {
			h.Comedogenic = append(h.Comedogenic, ComedogenicHit{
				Ingredient: found.Name,
				Rating:     *found.ComedogenicScale,
			})
		}
	}

	return h
}

// isFragrance 香精判定：旗標或警語提及 fragrance
func isFragrance(info *common.IngredientInfo) bool {
	if info.Fragrance {
		return true
	}
	for _, w := range info.Warnings {
		if strings.Contains(strings.ToLower(w), "fragrance") {
			return true
		}
	}
	return false
}

// isAcneTrigger 致痘判定：旗標或警語提及 acne
func isAcneTrigger(info *common.IngredientInfo) bool {
	if info.AcneTrigger {
		return true
	}
	for _, w := range info.Warnings {
		if strings.Contains(strings.ToLower(w), "acne") {
			return true
		}
	}
	return false
}

// QuickHazardScan 啟發式風險掃描
// token 同時命中香精與酒精清單時會被標記兩次，罰分照算
func QuickHazardScan(tokens []string) []string {
	var flagged []string
	for _, token := range tokens {
		for _, f := range fragranceTerms {
			if strings.Contains(token, f) {
				flagged = append(flagged, token)
				break
			}
		}
		for _, a := range dryingAlcohols {
			if strings.Contains(token, a) {
				flagged = append(flagged, token)
				break
			}
		}
	}
	return flagged
}

// ComputeIngredientSafetyScore 計算成分安全分數（0–100，越高越安全）
// 純函數、無 I/O，相同輸入永遠給出相同分數
func ComputeIngredientSafetyScore(tokens []string, dictionary []common.IngredientInfo) int {
	score := 100

	hazards := DetectIngredientHazards(tokens, dictionary)

	score -= len(hazards.Irritants) * 4
	score -= len(hazards.Fragrance) * 5
	score -= len(hazards.AcneTriggers) * 4

	for _, c := range hazards.Comedogenic {
		score -= c.Rating * 2
	}

	score -= len(QuickHazardScan(tokens)) * 3

	if score < 0 {
		score = 0
	}
	return score
}
