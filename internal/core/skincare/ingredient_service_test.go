package skincare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skinsense/internal/pkg/common"
)

func intPtr(v int) *int {
	return &v
}

func TestParseIngredients(t *testing.T) {
	tokens := ParseIngredients("Aqua, Glycerin; Niacinamide. Salicylic Acid,  , ")
	require.Equal(t, []string{"aqua", "glycerin", "niacinamide", "salicylic acid"}, tokens)
}

func TestParseIngredientsEmpty(t *testing.T) {
	assert.Nil(t, ParseIngredients(""))
	assert.Empty(t, ParseIngredients(" , ; . "))
}

func TestSafetyScoreNoDictionaryMatches(t *testing.T) {
	tokens := ParseIngredients("Aqua, Glycerin, Squalane")
	score := ComputeIngredientSafetyScore(tokens, nil)
	assert.Equal(t, 100, score)
}

func TestSafetyScoreFragrancePenalties(t *testing.T) {
	dictionary := []common.IngredientInfo{
		{Name: "fragrance", Fragrance: true},
	}

	// 字典香精 -5，啟發式掃描再 -3
	tokens := ParseIngredients("Aqua, Fragrance, Niacinamide")
	score := ComputeIngredientSafetyScore(tokens, dictionary)
	assert.Equal(t, 92, score)
}

func TestSafetyScoreComedogenicPenalty(t *testing.T) {
	dictionary := []common.IngredientInfo{
		{Name: "coconut oil", ComedogenicScale: intPtr(4)},
		{Name: "lanolin", ComedogenicScale: intPtr(2)},
	}

	// 評級 >= 3 才扣 2×rating，評級 2 不扣
	tokens := ParseIngredients("Coconut Oil, Lanolin")
	score := ComputeIngredientSafetyScore(tokens, dictionary)
	assert.Equal(t, 92, score)
}

func TestSafetyScoreIrritantAndAcneTrigger(t *testing.T) {
	dictionary := []common.IngredientInfo{
		{Name: "glycolic acid", IrritancyScale: intPtr(4)},
		{Name: "isopropyl myristate", AcneTrigger: true},
	}

	tokens := ParseIngredients("Glycolic Acid, Isopropyl Myristate")
	score := ComputeIngredientSafetyScore(tokens, dictionary)
	assert.Equal(t, 100-4-4, score)
}

func TestSafetyScoreFloorsAtZero(t *testing.T) {
	dictionary := make([]common.IngredientInfo, 0, 30)
	inci := ""
	for i := 0; i < 30; i++ {
		name := "bad ingredient " + string(rune('a'+i))
		dictionary = append(dictionary, common.IngredientInfo{
			Name:           name,
			Fragrance:      true,
			AcneTrigger:    true,
			IrritancyScale: intPtr(5),
		})
		if inci != "" {
			inci += ", "
		}
		inci += name
	}

	score := ComputeIngredientSafetyScore(ParseIngredients(inci), dictionary)
	assert.Equal(t, 0, score)
}

func TestSafetyScoreAlwaysInRange(t *testing.T) {
	dictionary := []common.IngredientInfo{
		{Name: "fragrance", Fragrance: true, IrritancyScale: intPtr(3)},
		{Name: "coconut oil", ComedogenicScale: intPtr(5), AcneTrigger: true},
	}

	inputs := []string{
		"",
		"Aqua",
		"Fragrance, Fragrance, Fragrance",
		"Coconut Oil, Lavender Oil, Alcohol Denat, Ethanol, Parfum",
		"Niacinamide; Glycerin. Squalane",
	}

	for _, inci := range inputs {
		score := ComputeIngredientSafetyScore(ParseIngredients(inci), dictionary)
		assert.GreaterOrEqual(t, score, 0, "inci: %s", inci)
		assert.LessOrEqual(t, score, 100, "inci: %s", inci)
	}
}

func TestQuickHazardScanDoubleFlag(t *testing.T) {
	// 同一 token 同時命中香精與酒精清單會被標記兩次
	flagged := QuickHazardScan([]string{"lavender oil with alcohol denat"})
	assert.Len(t, flagged, 2)
}

func TestQuickHazardScanSubstrings(t *testing.T) {
	flagged := QuickHazardScan([]string{"parfum", "aqua", "citrus oil extract", "ethanol"})
	assert.Equal(t, []string{"parfum", "citrus oil extract", "ethanol"}, flagged)
}

func TestDetectIngredientHazardsUnknownTokens(t *testing.T) {
	hazards := DetectIngredientHazards([]string{"mystery extract"}, nil)
	assert.Empty(t, hazards.Irritants)
	assert.Empty(t, hazards.Fragrance)
	assert.Empty(t, hazards.AcneTriggers)
	assert.Empty(t, hazards.Comedogenic)
}

func TestDetectIngredientHazardsWarningDerivedFlags(t *testing.T) {
	dictionary := []common.IngredientInfo{
		{Name: "limonene", Warnings: []string{"Fragrance allergen"}},
		{Name: "lanolin", Warnings: []string{"can worsen acne"}},
	}

	hazards := DetectIngredientHazards([]string{"limonene", "lanolin"}, dictionary)
	assert.Equal(t, []string{"limonene"}, hazards.Fragrance)
	assert.Equal(t, []string{"lanolin"}, hazards.AcneTriggers)
}
