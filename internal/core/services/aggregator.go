package services

import (
	"cmp"
	"slices"
	"strings"

	"github.com/custodia-labs/trawl/internal/core/domain"
)

// Compare orders a before b under spec. Equal keys fall back to arrival
// order so every sort is stable regardless of algorithm.
func Compare(a, b domain.ResultRecord, spec domain.SortSpec) int {
	var c int
	switch spec.Key {
	case domain.SortByName:
		c = strings.Compare(a.Title, b.Title)
	case domain.SortBySize:
		c = cmp.Compare(a.SizeValue(), b.SizeValue())
	case domain.SortByDate:
		c = cmp.Compare(a.PublishedUnixMilli(), b.PublishedUnixMilli())
	default:
		c = cmp.Compare(a.SeedersValue(), b.SeedersValue())
	}
	if spec.Direction == domain.SortDesc {
		c = -c
	}
	if c != 0 {
		return c
	}
	return cmp.Compare(a.Seq, b.Seq)
}

// Insert returns a new collection with record placed after every element
// that does not sort after it. The input is not modified.
func Insert(collection []domain.ResultRecord, record domain.ResultRecord, spec domain.SortSpec) []domain.ResultRecord {
	// Upper bound: first index whose element sorts strictly after record.
	i, _ := slices.BinarySearchFunc(collection, record, func(e, target domain.ResultRecord) int {
		if Compare(e, target, spec) > 0 {
			return 1
		}
		return -1
	})

	out := make([]domain.ResultRecord, len(collection)+1)
	copy(out, collection[:i])
	out[i] = record
	copy(out[i+1:], collection[i:])
	return out
}

// Resort returns a stably sorted copy of collection.
func Resort(collection []domain.ResultRecord, spec domain.SortSpec) []domain.ResultRecord {
	out := slices.Clone(collection)
	if out == nil {
		out = []domain.ResultRecord{}
	}
	slices.SortStableFunc(out, func(a, b domain.ResultRecord) int {
		return Compare(a, b, spec)
	})
	return out
}
