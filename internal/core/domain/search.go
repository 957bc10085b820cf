package domain

// AllSource is the facet that selects every record, including trackerless ones.
const AllSource = "All"

// SearchSession identifies one ingestion run. A newer session supersedes
// every older one; events carrying an older token are discarded.
type SearchSession string

// StreamEvent is one item produced by an ingestion run.
// A run emits zero or more record events followed by exactly one Done event.
type StreamEvent struct {
	// Session is the token of the run that produced the event.
	Session SearchSession

	// Record is set for record events.
	Record ResultRecord

	// Done marks the terminal event.
	Done bool

	// Err is the reason the run ended, nil on a clean end of stream.
	Err error
}

// FacetEntry is a source tracker with the number of records it produced.
// Derived from the collection, never stored.
type FacetEntry struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

// SessionState is the view state that outlives the search view.
type SessionState struct {
	Query        string         `json:"query"`
	TitleFilter  string         `json:"title_filter"`
	Sort         SortSpec       `json:"sort"`
	ActiveSource string         `json:"active_source"`
	Results      []ResultRecord `json:"results"`
	ScrollOffset int            `json:"scroll_offset"`
}

// NewSessionState returns the state of a view before its first search.
func NewSessionState() SessionState {
	return SessionState{
		Sort:         DefaultSortSpec(),
		ActiveSource: AllSource,
	}
}

// IsEmpty reports whether there is nothing to rehydrate.
func (s SessionState) IsEmpty() bool {
	return s.Query == "" && len(s.Results) == 0
}
