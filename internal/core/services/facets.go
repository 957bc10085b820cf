package services

import (
	"cmp"
	"slices"

	"github.com/custodia-labs/trawl/internal/core/domain"
)

// CountSources returns the number of records per tracker.
// Trackerless records are not counted.
func CountSources(collection []domain.ResultRecord) map[string]int {
	counts := make(map[string]int)
	for _, r := range collection {
		if r.Tracker == "" {
			continue
		}
		counts[r.Tracker]++
	}
	return counts
}

// DiscoveryOrder returns the distinct trackers in the order they first
// arrived, judged by arrival sequence rather than position so that
// resorting does not reshuffle it.
func DiscoveryOrder(collection []domain.ResultRecord) []string {
	first := make(map[string]int64)
	for _, r := range collection {
		if r.Tracker == "" {
			continue
		}
		if seq, ok := first[r.Tracker]; !ok || r.Seq < seq {
			first[r.Tracker] = r.Seq
		}
	}

	sources := make([]string, 0, len(first))
	for s := range first {
		sources = append(sources, s)
	}
	slices.SortFunc(sources, func(a, b string) int {
		if c := cmp.Compare(first[a], first[b]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return sources
}

// OrderedSources returns "All" followed by the trackers in discovery order
// while streaming, or by descending count (ties by name) once finished.
func OrderedSources(collection []domain.ResultRecord, streaming bool) []string {
	sources := DiscoveryOrder(collection)
	if !streaming {
		counts := CountSources(collection)
		slices.SortStableFunc(sources, func(a, b string) int {
			if c := cmp.Compare(counts[b], counts[a]); c != 0 {
				return c
			}
			return cmp.Compare(a, b)
		})
	}
	return append([]string{domain.AllSource}, sources...)
}

// Facets pairs OrderedSources with their counts. "All" counts every
// record, trackerless ones included.
func Facets(collection []domain.ResultRecord, streaming bool) []domain.FacetEntry {
	counts := CountSources(collection)
	sources := OrderedSources(collection, streaming)

	facets := make([]domain.FacetEntry, 0, len(sources))
	for _, s := range sources {
		n := counts[s]
		if s == domain.AllSource {
			n = len(collection)
		}
		facets = append(facets, domain.FacetEntry{Source: s, Count: n})
	}
	return facets
}

// Narrow keeps the records produced by source. "All" and "" keep everything.
func Narrow(collection []domain.ResultRecord, source string) []domain.ResultRecord {
	if source == "" || source == domain.AllSource {
		return collection
	}
	out := make([]domain.ResultRecord, 0, len(collection))
	for _, r := range collection {
		if r.Tracker == source {
			out = append(out, r)
		}
	}
	return out
}
