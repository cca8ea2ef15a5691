package skincare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skinsense/internal/pkg/common"
)

func profileWith(analysis common.SkinAnalysis, phase common.CyclePhase) common.SkinProfile {
	lifestyle := NormalizeLifestyle(&common.CycleLifestyleInput{CyclePhase: phase})
	return BuildProfile(analysis, lifestyle)
}

func stepNames(routine common.Routine, time common.TimeOfDay) []string {
	var names []string
	for _, s := range routine.Steps {
		if s.Time == time || s.Time == common.TimeAMPM {
			names = append(names, s.Step)
		}
	}
	return names
}

func TestBuildRoutineDeterministic(t *testing.T) {
	profile := profileWith(common.SkinAnalysis{
		Acne:         common.SeverityModerate,
		Redness:      common.SeverityMild,
		Dryness:      common.SeverityModerate,
		Oiliness:     common.SeverityNone,
		TextureNotes: []string{"congestion"},
	}, common.PhaseFollicular)

	first := BuildRoutine(profile)
	second := BuildRoutine(profile)
	require.Equal(t, first, second)
}

func TestBuildRoutineMenstrualSkipsExfoliant(t *testing.T) {
	profile := profileWith(common.SkinAnalysis{
		Acne:     common.SeveritySevere,
		Redness:  common.SeverityNone,
		Dryness:  common.SeverityNone,
		Oiliness: common.SeverityModerate,
	}, common.PhaseMenstrual)

	routine := BuildRoutine(profile)

	pm := stepNames(routine, common.TimePM)
	assert.NotContains(t, pm, "exfoliant")
	assert.Contains(t, pm, "spot treatment")
}

func TestBuildRoutineExfoliantOnCongestion(t *testing.T) {
	profile := profileWith(common.SkinAnalysis{
		Acne:         common.SeverityNone,
		Redness:      common.SeverityNone,
		Dryness:      common.SeverityNone,
		Oiliness:     common.SeverityMild,
		TextureNotes: []string{"mild congestion on the nose"},
	}, common.PhaseFollicular)

	routine := BuildRoutine(profile)
	assert.Contains(t, stepNames(routine, common.TimePM), "exfoliant")
	// 沒有中度以上痘痘就不該出現局部治療
	assert.NotContains(t, stepNames(routine, common.TimePM), "spot treatment")
}

func TestBuildRoutineSunscreenAlwaysLastAM(t *testing.T) {
	profiles := []common.SkinProfile{
		profileWith(common.SkinAnalysis{}, common.PhaseUnknown),
		profileWith(common.SkinAnalysis{Dryness: common.SeveritySevere}, common.PhaseLuteal),
		profileWith(common.SkinAnalysis{Oiliness: common.SeveritySevere, Acne: common.SeveritySevere}, common.PhaseOvulatory),
	}

	for _, profile := range profiles {
		routine := BuildRoutine(profile)
		require.NotEmpty(t, routine.Steps)
		last := routine.Steps[len(routine.Steps)-1]
		assert.Equal(t, "sunscreen", last.Step)
		assert.Equal(t, common.TimeAM, last.Time)
	}
}

func TestBuildRoutineSerumSelection(t *testing.T) {
	profile := profileWith(common.SkinAnalysis{
		Redness: common.SeveritySevere,
		Dryness: common.SeverityModerate,
	}, common.PhaseUnknown)

	routine := BuildRoutine(profile)
	names := stepNames(routine, common.TimePM)
	assert.Contains(t, names, "hydrating serum")
	assert.Contains(t, names, "soothing serum")
	// 泛紅嚴重才加的夜間舒緩
	assert.Contains(t, names, "soothing treatment")
}

func TestBuildRoutineMoisturizerBranches(t *testing.T) {
	dry := BuildRoutine(profileWith(common.SkinAnalysis{Dryness: common.SeveritySevere}, common.PhaseUnknown))
	oily := BuildRoutine(profileWith(common.SkinAnalysis{Oiliness: common.SeveritySevere}, common.PhaseUnknown))

	var dryDesc, oilyDesc string
	for _, s := range dry.Steps {
		if s.Step == "moisturizer" {
			dryDesc = s.Description
		}
	}
	for _, s := range oily.Steps {
		if s.Step == "moisturizer" {
			oilyDesc = s.Description
		}
	}

	require.NotEmpty(t, dryDesc)
	require.NotEmpty(t, oilyDesc)
	assert.NotEqual(t, dryDesc, oilyDesc)
}

func TestParseEnhancedRoutine(t *testing.T) {
	valid := `{"steps":[{"step":"cleanser","time":"AM_PM","description":"wash"}],"notes":"easy does it"}`
	routine, err := parseEnhancedRoutine(valid)
	require.NoError(t, err)
	assert.Len(t, routine.Steps, 1)
	assert.Equal(t, "easy does it", routine.Notes)
}

func TestParseEnhancedRoutineRejectsMissingSteps(t *testing.T) {
	_, err := parseEnhancedRoutine(`{"notes":"no steps here"}`)
	assert.Error(t, err)

	// steps 不是陣列
	_, err = parseEnhancedRoutine(`{"steps":"cleanser then moisturizer"}`)
	assert.Error(t, err)
}

func TestParseEnhancedRoutineRejectsBadTimeTag(t *testing.T) {
	_, err := parseEnhancedRoutine(`{"steps":[{"step":"cleanser","time":"MORNING"}],"notes":""}`)
	assert.Error(t, err)
}

func TestParseEnhancedRoutineFencedBlock(t *testing.T) {
	raw := "Sure, here you go:\n```json\n{\"steps\":[{\"step\":\"sunscreen\",\"time\":\"AM\",\"description\":\"spf\"}],\"notes\":\"n\"}\n```"
	routine, err := parseEnhancedRoutine(raw)
	require.NoError(t, err)
	assert.Equal(t, "sunscreen", routine.Steps[0].Step)
}
