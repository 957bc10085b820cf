package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/trawl/internal/core/domain"
)

func tracked(title, tracker string, seq int64) domain.ResultRecord {
	return domain.ResultRecord{Title: title, Tracker: tracker, Seq: seq}
}

func TestFacets_CountsAndTrackerlessOnlyInAll(t *testing.T) {
	c := []domain.ResultRecord{
		tracked("1", "A", 0),
		tracked("2", "B", 1),
		tracked("3", "A", 2),
		tracked("4", "", 3),
	}

	facets := Facets(c, false)

	assert.Equal(t, []domain.FacetEntry{
		{Source: domain.AllSource, Count: 4},
		{Source: "A", Count: 2},
		{Source: "B", Count: 1},
	}, facets)
	assert.Equal(t, map[string]int{"A": 2, "B": 1}, CountSources(c))
}

func TestFacets_SumOfSourcesEqualsTrackedRecords(t *testing.T) {
	c := []domain.ResultRecord{
		tracked("1", "x", 0), tracked("2", "", 1), tracked("3", "y", 2),
		tracked("4", "x", 3), tracked("5", "", 4), tracked("6", "z", 5),
	}

	for _, streaming := range []bool{true, false} {
		facets := Facets(c, streaming)
		sum, withTracker := 0, 0
		for _, f := range facets[1:] {
			sum += f.Count
		}
		for _, r := range c {
			if r.Tracker != "" {
				withTracker++
			}
		}
		assert.Equal(t, withTracker, sum)
		assert.Equal(t, domain.AllSource, facets[0].Source)
		assert.Equal(t, len(c), facets[0].Count)
	}
}

func TestOrderedSources_DiscoveryOrderWhileStreaming(t *testing.T) {
	// Sorted by seeders the collection no longer reflects arrival order.
	c := []domain.ResultRecord{
		tracked("late-big", "big", 5),
		tracked("first", "small", 0),
		tracked("second", "big", 1),
		tracked("third", "big", 2),
		tracked("mid", "medium", 3),
	}

	assert.Equal(t, []string{domain.AllSource, "small", "big", "medium"}, OrderedSources(c, true))
}

func TestOrderedSources_CountDescThenNameOnceFinished(t *testing.T) {
	c := []domain.ResultRecord{
		tracked("1", "zeta", 0),
		tracked("2", "beta", 1),
		tracked("3", "alpha", 2),
		tracked("4", "beta", 3),
		tracked("5", "zeta", 4),
		tracked("6", "gamma", 5),
	}

	assert.Equal(t, []string{domain.AllSource, "beta", "zeta", "alpha", "gamma"}, OrderedSources(c, false))
}

func TestFacets_Empty(t *testing.T) {
	assert.Equal(t, []domain.FacetEntry{{Source: domain.AllSource, Count: 0}}, Facets(nil, true))
}

func TestNarrow(t *testing.T) {
	c := []domain.ResultRecord{tracked("1", "A", 0), tracked("2", "", 1), tracked("3", "B", 2)}

	assert.Equal(t, c, Narrow(c, domain.AllSource))
	assert.Equal(t, c, Narrow(c, ""))
	assert.Equal(t, []string{"3"}, titles(Narrow(c, "B")))
	assert.Empty(t, Narrow(c, "missing"))
}
