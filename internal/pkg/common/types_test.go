package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverityOrdering(t *testing.T) {
	assert.True(t, SeveritySevere.AtLeast(SeverityModerate))
	assert.True(t, SeverityModerate.AtLeast(SeverityModerate))
	assert.False(t, SeverityMild.AtLeast(SeverityModerate))
	assert.False(t, SeverityNone.AtLeast(SeverityMild))

	// 未知值排序同 none
	assert.Equal(t, 0, SeverityLevel("bogus").Rank())
}

func TestSeverityNormalize(t *testing.T) {
	assert.Equal(t, SeveritySevere, SeverityLevel("SEVERE").Normalize())
	assert.Equal(t, SeverityMild, SeverityLevel("Mild").Normalize())
	assert.Equal(t, SeverityNone, SeverityLevel("").Normalize())
	assert.Equal(t, SeverityNone, SeverityLevel("extreme").Normalize())
}

func TestCyclePhaseNormalize(t *testing.T) {
	assert.Equal(t, PhaseMenstrual, CyclePhase("Menstrual").Normalize())
	assert.Equal(t, PhaseLuteal, CyclePhase("LUTEAL").Normalize())
	assert.Equal(t, PhaseUnknown, CyclePhase("full moon").Normalize())
	assert.Equal(t, PhaseUnknown, CyclePhase("").Normalize())
}

func TestDedupStrings(t *testing.T) {
	out := DedupStrings([]string{"a", "b", "a", "c", "b"})
	assert.Equal(t, []string{"a", "b", "c"}, out)
	assert.Empty(t, DedupStrings(nil))
}

func TestSearchQuery(t *testing.T) {
	assert.Equal(t, "Niacinamide+10%25+Serum", SearchQuery("  Niacinamide 10% Serum "))
}
