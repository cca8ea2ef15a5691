package skincare

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	aiservice "skinsense/internal/core/ai/service"
	"skinsense/internal/infrastructure/config"
	"skinsense/internal/pkg/common"
)

// disabledAIService 未設金鑰的 AI 服務，所有 AI 階段都走規則版回退
func disabledAIService() *aiservice.Service {
	return aiservice.NewService(&config.Config{}, nil)
}

func TestNormalizeLifestyleDefaults(t *testing.T) {
	out := NormalizeLifestyle(nil)
	assert.Equal(t, common.PhaseUnknown, out.CyclePhase)
	assert.Equal(t, float64(7), out.SleepHours)
	assert.Equal(t, float64(6), out.HydrationCups)
	assert.Equal(t, 3, out.StressLevel)
	assert.Equal(t, 3, out.Mood)
}

func TestNormalizeLifestyleClamping(t *testing.T) {
	out := NormalizeLifestyle(&common.CycleLifestyleInput{
		CyclePhase:    "LUTEAL",
		SleepHours:    30,
		HydrationCups: -2,
		StressLevel:   9,
		Mood:          0,
	})

	assert.Equal(t, common.PhaseLuteal, out.CyclePhase)
	assert.Equal(t, float64(24), out.SleepHours)
	assert.Equal(t, float64(6), out.HydrationCups)
	assert.Equal(t, 5, out.StressLevel)
	assert.Equal(t, 3, out.Mood)
}

func TestNormalizeLifestyleUnknownPhase(t *testing.T) {
	out := NormalizeLifestyle(&common.CycleLifestyleInput{CyclePhase: "waxing gibbous"})
	assert.Equal(t, common.PhaseUnknown, out.CyclePhase)
}

func TestValidateLifestyle(t *testing.T) {
	assert.NoError(t, ValidateLifestyle(nil))
	assert.NoError(t, ValidateLifestyle(&common.CycleLifestyleInput{SleepHours: 8, StressLevel: 2, Mood: 4}))

	cases := []common.CycleLifestyleInput{
		{SleepHours: -1},
		{SleepHours: 25},
		{HydrationCups: -1},
		{StressLevel: 6},
		{Mood: -3},
	}
	for _, input := range cases {
		in := input
		err := ValidateLifestyle(&in)
		require.Error(t, err)
		assert.True(t, common.IsValidationError(err))
	}
}

func TestRefineLifestyleEchoWithoutAI(t *testing.T) {
	svc := NewCycleService(disabledAIService())
	lifestyle := NormalizeLifestyle(&common.CycleLifestyleInput{
		CyclePhase:    common.PhaseLuteal,
		SleepHours:    6,
		HydrationCups: 5,
		StressLevel:   2,
		Mood:          4,
	})

	out := svc.RefineLifestyle(context.Background(), common.SkinAnalysis{}, lifestyle)
	assert.Equal(t, lifestyle, out)
}

func TestParseRefinedLifestyle(t *testing.T) {
	refined, ok := parseRefinedLifestyle(`{"cycle_lifestyle":{"cycle_phase":"luteal","sleep_hours":5,"hydration_cups":3,"stress_level":9,"mood":2},"notes":"short on sleep"}`)
	require.True(t, ok)

	assert.Equal(t, common.PhaseLuteal, refined.CyclePhase)
	assert.Equal(t, float64(5), refined.SleepHours)
	assert.Equal(t, float64(3), refined.HydrationCups)
	// 修正後的值一樣要夾限
	assert.Equal(t, 5, refined.StressLevel)
	assert.Equal(t, 2, refined.Mood)
}

func TestParseRefinedLifestyleRejectsBadShapes(t *testing.T) {
	// 缺 cycle_lifestyle 就整份不採用
	_, ok := parseRefinedLifestyle(`{"notes":"nothing to change"}`)
	assert.False(t, ok)

	_, ok = parseRefinedLifestyle("not json at all")
	assert.False(t, ok)
}

func TestDeterministicInsightsByPhase(t *testing.T) {
	for _, phase := range []common.CyclePhase{
		common.PhaseMenstrual,
		common.PhaseFollicular,
		common.PhaseOvulatory,
		common.PhaseLuteal,
		common.PhaseUnknown,
	} {
		profile := profileWith(common.SkinAnalysis{}, phase)
		insights := deterministicInsights(profile)
		assert.Equal(t, phase, insights.Phase)
		assert.NotEmpty(t, insights.Summary, "phase: %s", phase)
		assert.NotEmpty(t, insights.Suggestions, "phase: %s", phase)
	}
}

func TestDeterministicInsightsLifestyleHints(t *testing.T) {
	lifestyle := NormalizeLifestyle(&common.CycleLifestyleInput{
		CyclePhase:    common.PhaseLuteal,
		SleepHours:    5,
		HydrationCups: 2,
		StressLevel:   5,
		Mood:          2,
	})
	profile := BuildProfile(common.SkinAnalysis{}, lifestyle)

	insights := deterministicInsights(profile)

	joined := ""
	for _, s := range insights.Suggestions {
		joined += s + "\n"
	}
	assert.Contains(t, joined, "sleep")
	assert.Contains(t, joined, "water")
	assert.Contains(t, joined, "stress")
}
