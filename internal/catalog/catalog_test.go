package catalog

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func loadEmbedded(t *testing.T) *Catalog {
	t.Helper()
	return Load(NewLocator(), discard())
}

func TestLoad_EmbeddedDefaults(t *testing.T) {
	c := loadEmbedded(t)
	cats := c.ListCategories()

	require.NotEmpty(t, cats.CompileTime)
	require.NotEmpty(t, cats.Style)
	assert.Contains(t, cats.CompileTime, "LogicalErrors")
	assert.Contains(t, cats.Style, "NamingConventionChecks")
	assert.IsIncreasing(t, cats.CompileTime)
	assert.IsIncreasing(t, cats.Style)
}

func TestLoad_UnparseableFileIsEmptyTree(t *testing.T) {
	// A candidate that serves garbage wins over the embedded defaults,
	// and the resulting tree must be empty rather than an error.
	garbage := func(name string) ([]byte, error) {
		return []byte("not json"), nil
	}
	c := Load(NewLocator(garbage), discard())

	cats := c.ListCategories()
	assert.Empty(t, cats.CompileTime)
	assert.Empty(t, cats.Style)
	assert.Empty(t, c.SampleDefects(Selection{CompileTime: []string{"LogicalErrors"}}, 4, DifficultyMedium))
}

func TestLocator_FallsThroughFailedCandidates(t *testing.T) {
	failing := func(name string) ([]byte, error) {
		return nil, errors.New("no such file")
	}
	c := Load(NewLocator(failing, failing), discard())
	assert.NotEmpty(t, c.ListCategories().CompileTime)
}

func TestAdjustedCount(t *testing.T) {
	tests := []struct {
		base       int
		difficulty Difficulty
		want       int
	}{
		{4, DifficultyEasy, 2},
		{4, DifficultyMedium, 4},
		{4, DifficultyHard, 6},
		{3, DifficultyEasy, 2}, // floor of 2
		{2, DifficultyEasy, 2},
		{5, DifficultyHard, 7},
		{4, Difficulty("unknown"), 4}, // unknown tiers behave as medium
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AdjustedCount(tt.base, tt.difficulty),
			"base=%d difficulty=%s", tt.base, tt.difficulty)
	}
}

func TestSampleDefects_EmptySelection(t *testing.T) {
	c := loadEmbedded(t)
	assert.Empty(t, c.SampleDefects(Selection{}, 4, DifficultyMedium))
}

func TestSampleDefects_RespectsTargetCount(t *testing.T) {
	c := loadEmbedded(t)
	sel := Selection{
		CompileTime: []string{"CompileTimeErrors", "RuntimeErrors", "LogicalErrors"},
		Style:       []string{"NamingConventionChecks", "CodeQualityChecks"},
	}

	// Sampling is random; run repeatedly to cover different draws.
	for range 50 {
		got := c.SampleDefects(sel, 4, DifficultyMedium)
		require.NotEmpty(t, got)
		assert.LessOrEqual(t, len(got), 4)
	}
}

func TestSampleDefects_DifficultyAdjustsTarget(t *testing.T) {
	c := loadEmbedded(t)
	sel := Selection{
		CompileTime: []string{"CompileTimeErrors", "RuntimeErrors", "LogicalErrors"},
		Style:       []string{"NamingConventionChecks", "WhitespaceAndFormattingChecks", "CodeQualityChecks"},
	}

	for range 50 {
		assert.LessOrEqual(t, len(c.SampleDefects(sel, 4, DifficultyEasy)), 2)
		assert.LessOrEqual(t, len(c.SampleDefects(sel, 4, DifficultyHard)), 6)
	}
}

func TestSampleDefects_PerCategoryDraw(t *testing.T) {
	c := loadEmbedded(t)
	sel := Selection{CompileTime: []string{"LogicalErrors"}}

	for range 50 {
		got := c.SampleDefects(sel, 4, DifficultyMedium)
		// One selected category yields 1 or 2 defects.
		require.GreaterOrEqual(t, len(got), 1)
		require.LessOrEqual(t, len(got), 2)

		seen := map[string]bool{}
		for _, d := range got {
			assert.Equal(t, KindCompileTime, d.Kind)
			assert.Equal(t, "LogicalErrors", d.Category)
			assert.NotEmpty(t, d.Description)
			assert.False(t, seen[d.Name], "duplicate defect %q in one draw", d.Name)
			seen[d.Name] = true
		}
	}
}

func TestSampleDefects_UnknownCategoryIsSkipped(t *testing.T) {
	c := loadEmbedded(t)
	got := c.SampleDefects(Selection{CompileTime: []string{"NoSuchCategory"}}, 4, DifficultyMedium)
	assert.Empty(t, got)
}

func TestSampleDefects_CarriesImplementationGuide(t *testing.T) {
	c := loadEmbedded(t)
	for _, d := range c.CategoryDefects(KindStyle, "CodeQualityChecks") {
		assert.NotEmpty(t, d.ImplementationGuide, "defect %q lost its guide", d.Name)
	}
}

func TestSampleDefects_ZeroBaseUsesDefault(t *testing.T) {
	c := loadEmbedded(t)
	sel := Selection{
		CompileTime: []string{"CompileTimeErrors", "RuntimeErrors", "LogicalErrors"},
		Style:       []string{"NamingConventionChecks", "CodeQualityChecks"},
	}
	for range 20 {
		got := c.SampleDefects(sel, 0, DifficultyMedium)
		assert.LessOrEqual(t, len(got), DefaultBaseCount)
	}
}

func TestDefectSpec_Key(t *testing.T) {
	d := DefectSpec{Kind: KindStyle, Name: "Magic number"}
	assert.Equal(t, "style/Magic number", d.Key())
}
