package launch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/obsidianstack/launchdash/pkg/launch"
)

func TestSummarize_CountsSumToSubsetWhenOutcomesValid(t *testing.T) {
	subset := scenario().Records()
	s := launch.Summarize(subset, launch.AllSites)
	assert.Equal(t, len(subset), s.Success+s.Failure)
}

func TestSummarize_IgnoresOutOfRangeOutcomes(t *testing.T) {
	subset := []launch.Record{
		{Site: "A", Outcome: launch.Success},
		{Site: "A", Outcome: launch.Outcome(2)},
		{Site: "A", Outcome: launch.Failure},
	}
	s := launch.Summarize(subset, "A")
	assert.Equal(t, 1, s.Success)
	assert.Equal(t, 1, s.Failure)
}

func TestSummarize_Empty(t *testing.T) {
	s := launch.Summarize(nil, "X")
	assert.Equal(t, launch.Summary{Title: "Success vs Failure for X"}, s)
}

func TestBuildSeries_PartitionsSubset(t *testing.T) {
	subset := scenario().Records()
	res := launch.BuildSeries(subset, launch.AllSites)

	var total int
	seen := make(map[string]bool)
	for _, g := range res.Groups {
		require.False(t, seen[g.Category], "duplicate group %q", g.Category)
		seen[g.Category] = true
		total += len(g.Points)
	}
	assert.Equal(t, len(subset), total)

	// Every subset record maps to exactly one point in its category's group.
	for _, r := range subset {
		var found int
		for _, g := range res.Groups {
			if g.Category != r.BoosterCategory {
				continue
			}
			for _, p := range g.Points {
				if p.PayloadMassKg == r.PayloadMassKg && p.Outcome == r.Outcome {
					found++
				}
			}
		}
		assert.Equal(t, 1, found, "record %+v", r)
	}
}

func TestBuildSeries_FirstSeenOrderIsStable(t *testing.T) {
	subset := []launch.Record{
		{BoosterCategory: "FT"}, {BoosterCategory: "v1.1"}, {BoosterCategory: "FT"},
		{BoosterCategory: "B5"}, {BoosterCategory: "v1.0"}, {BoosterCategory: "B4"},
	}
	for i := 0; i < 20; i++ {
		res := launch.BuildSeries(subset, launch.AllSites)
		var cats []string
		for _, g := range res.Groups {
			cats = append(cats, g.Category)
		}
		require.Equal(t, []string{"FT", "v1.1", "B5", "v1.0", "B4"}, cats)
	}
}

func TestBuildSeries_Empty(t *testing.T) {
	res := launch.BuildSeries([]launch.Record{}, launch.AllSites)
	require.NotNil(t, res.Groups)
	assert.Empty(t, res.Groups)
	assert.Equal(t, "Correlation between Payload and Success for all Sites", res.Title)
}
