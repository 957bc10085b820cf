package driving

import "github.com/custodia-labs/trawl/internal/core/domain"

// ResultService derives views of an accumulated result collection.
// No method mutates its input; every result is a fresh slice.
type ResultService interface {
	// Insert places record into collection at its sorted position.
	Insert(collection []domain.ResultRecord, record domain.ResultRecord, spec domain.SortSpec) []domain.ResultRecord

	// Resort returns collection stably sorted by spec.
	Resort(collection []domain.ResultRecord, spec domain.SortSpec) []domain.ResultRecord

	// Facets returns "All" followed by each source tracker with its count.
	// Sources keep discovery order while streaming is true and are ranked
	// by count once the stream has finished.
	Facets(collection []domain.ResultRecord, streaming bool) []domain.FacetEntry

	// Filter narrows collection to activeSource and, for a non-blank query,
	// to fuzzy matches ranked by match quality.
	Filter(collection []domain.ResultRecord, query, activeSource string) []domain.ResultRecord

	// Highlight returns the byte offsets of the runes in title matched by query.
	Highlight(query, title string) []int
}
