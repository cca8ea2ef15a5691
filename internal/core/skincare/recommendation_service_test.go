package skincare

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skinsense/internal/core/catalog"
	"skinsense/internal/core/image"
	"skinsense/internal/core/pricing"
	"skinsense/internal/infrastructure/config"
	"skinsense/internal/pkg/common"
)

const bundleTestProducts = `[
  {"id":"cl-1","name":"Gentle Gel Cleanser","brand":"Lab","category":"cleanser","ingredients_full":"Aqua, Glycerin","suitable_for":["oily","combination"],"fragrance_free":true},
  {"id":"se-1","name":"Niacinamide Serum","brand":"Lab","category":"serum","ingredients_full":"Aqua, Niacinamide","suitable_for":["oily"],"fragrance_free":true},
  {"id":"mo-1","name":"Light Gel Moisturizer","brand":"Lab","category":"moisturizer","ingredients_full":"Aqua, Squalane","suitable_for":["oily","combination"],"fragrance_free":true},
  {"id":"su-1","name":"Daily Sunscreen SPF 50","brand":"Lab","category":"sunscreen","ingredients_full":"Aqua, Zinc Oxide","suitable_for":["oily","dry"],"fragrance_free":true}
]`

const bundleTestIngredients = `[
  {"name":"glycerin"},
  {"name":"niacinamide"},
  {"name":"fragrance","fragrance":true}
]`

// testRecommendationService 組一套離線可跑的完整推薦服務
// AI 未配置、比價無金鑰，全部階段走規則版與回退路徑
func testRecommendationService(t *testing.T) *RecommendationService {
	t.Helper()

	dir := t.TempDir()
	productsPath := filepath.Join(dir, "products.json")
	ingredientsPath := filepath.Join(dir, "inci.json")
	require.NoError(t, os.WriteFile(productsPath, []byte(bundleTestProducts), 0o644))
	require.NoError(t, os.WriteFile(ingredientsPath, []byte(bundleTestIngredients), 0o644))

	cat, err := catalog.Load(&config.Config{
		Catalog: config.CatalogConfig{
			ProductsPath:    productsPath,
			IngredientsPath: ingredientsPath,
		},
	})
	require.NoError(t, err)

	priceCache, err := pricing.NewCache(&config.PriceCacheConfig{Enabled: false})
	require.NoError(t, err)
	pricingSvc := pricing.NewService(&config.PricingConfig{StoreTimeout: time.Second}, priceCache)

	ai := disabledAIService()
	return NewRecommendationService(
		NewAnalysisService(ai, image.NewService(10<<20)),
		NewRoutineService(ai),
		NewMatcherService(ai),
		NewCycleService(ai),
		pricingSvc,
		cat,
		3,
	)
}

func TestCombineTriggers(t *testing.T) {
	analysis := common.SkinAnalysis{
		ProbableTriggers: []string{"pollution", "stress"},
	}
	lifestyle := common.CycleLifestyleInput{
		CyclePhase:    common.PhaseLuteal,
		SleepHours:    5,
		HydrationCups: 3,
		StressLevel:   5,
		Mood:          3,
	}

	triggers := combineTriggers(analysis, lifestyle)

	// stress 同時來自分析與生活型態，只留一份
	assert.Equal(t, []string{"pollution", "stress", "lack of sleep", "dehydration", "hormonal"}, triggers)
}

func TestCombineTriggersQuietLifestyle(t *testing.T) {
	lifestyle := common.CycleLifestyleInput{
		CyclePhase:    common.PhaseFollicular,
		SleepHours:    8,
		HydrationCups: 8,
		StressLevel:   2,
		Mood:          4,
	}

	triggers := combineTriggers(common.SkinAnalysis{}, lifestyle)
	assert.Empty(t, triggers)
}

func TestBuildProfileImmutableInputs(t *testing.T) {
	analysis := common.SkinAnalysis{
		Acne:             common.SeverityMild,
		ProbableTriggers: []string{"stress"},
	}
	lifestyle := NormalizeLifestyle(nil)

	profile := BuildProfile(analysis, lifestyle)

	// 合併誘因是新切片，改動它不影響原始分析
	profile.CombinedTriggers = append(profile.CombinedTriggers, "mutated")
	assert.Equal(t, []string{"stress"}, analysis.ProbableTriggers)
}

func TestBundleRequestValidate(t *testing.T) {
	req := &BundleRequest{CycleLifestyle: &common.CycleLifestyleInput{SleepHours: 99}}
	assert.Error(t, req.Validate())

	req = &BundleRequest{}
	assert.NoError(t, req.Validate())
}

func TestGenerateBundleIncludesPricesByDefault(t *testing.T) {
	svc := testRecommendationService(t)

	bundle, err := svc.GenerateBundle(context.Background(), &BundleRequest{})
	require.NoError(t, err)

	// 比價是預設階段，每個推薦商品都要有固定商店欄位數的結果
	require.NotEmpty(t, bundle.RecommendedProducts)
	require.Len(t, bundle.PriceComparisons, len(bundle.RecommendedProducts))
	for _, cmp := range bundle.PriceComparisons {
		assert.Len(t, cmp.Prices, 3)
		assert.NotEmpty(t, cmp.ProductName)
	}
}

func TestGenerateBundleSkipPrices(t *testing.T) {
	svc := testRecommendationService(t)

	bundle, err := svc.GenerateBundle(context.Background(), &BundleRequest{SkipPrices: true})
	require.NoError(t, err)

	assert.NotEmpty(t, bundle.RecommendedProducts)
	assert.Empty(t, bundle.PriceComparisons)
}

func TestGenerateBundleKeepsSuppliedLifestyle(t *testing.T) {
	svc := testRecommendationService(t)

	req := &BundleRequest{
		CycleLifestyle: &common.CycleLifestyleInput{
			CyclePhase:    common.PhaseLuteal,
			SleepHours:    6,
			HydrationCups: 5,
			StressLevel:   2,
			Mood:          4,
		},
		SkipPrices: true,
	}

	bundle, err := svc.GenerateBundle(context.Background(), req)
	require.NoError(t, err)

	// AI 未配置時週期修正原樣沿用輸入（echo）
	assert.Equal(t, common.PhaseLuteal, bundle.SkinProfile.CycleLifestyle.CyclePhase)
	assert.Equal(t, float64(6), bundle.SkinProfile.CycleLifestyle.SleepHours)
	assert.Equal(t, float64(5), bundle.SkinProfile.CycleLifestyle.HydrationCups)
}

func TestMockAnalysisIsWellFormed(t *testing.T) {
	analysis := mockAnalysis()
	assert.NotEqual(t, common.SeverityLevel(""), analysis.Acne)
	assert.NotEqual(t, common.SeverityLevel(""), analysis.Oiliness)
	assert.NotEmpty(t, analysis.NonMedicalSummary)
	assert.NotEmpty(t, analysis.RoutineFocus)
}
