package domain

import (
	"fmt"
	"strings"
)

const unknownDescription = "Unknown"

// SortKey identifies the field the result collection is ordered by.
type SortKey string

// Available sort keys.
const (
	// SortByName orders by title, case-sensitive.
	SortByName SortKey = "name"

	// SortBySeeds orders by seeder count.
	SortBySeeds SortKey = "seeds"

	// SortBySize orders by payload size.
	SortBySize SortKey = "size"

	// SortByDate orders by publish date.
	SortByDate SortKey = "date"
)

// IsValid returns true if the sort key is recognised.
func (k SortKey) IsValid() bool {
	switch k {
	case SortByName, SortBySeeds, SortBySize, SortByDate:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k SortKey) String() string {
	return string(k)
}

// Description returns the label shown in the sort bar.
func (k SortKey) Description() string {
	switch k {
	case SortByName:
		return "Name"
	case SortBySeeds:
		return "Seeds"
	case SortBySize:
		return "Size"
	case SortByDate:
		return "Date"
	default:
		return unknownDescription
	}
}

// DefaultDirection is the direction applied when the key is first selected.
func (k SortKey) DefaultDirection() SortDirection {
	if k == SortByName {
		return SortAsc
	}
	return SortDesc
}

// AllSortKeys returns the sort keys in display order.
func AllSortKeys() []SortKey {
	return []SortKey{SortByName, SortBySeeds, SortBySize, SortByDate}
}

// SortDirection is ascending or descending.
type SortDirection string

// Available sort directions.
const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// IsValid returns true if the direction is recognised.
func (d SortDirection) IsValid() bool {
	return d == SortAsc || d == SortDesc
}

// String returns the string representation.
func (d SortDirection) String() string {
	return string(d)
}

// Flip returns the opposite direction.
func (d SortDirection) Flip() SortDirection {
	if d == SortAsc {
		return SortDesc
	}
	return SortAsc
}

// Arrow returns the glyph used next to the active sort key.
func (d SortDirection) Arrow() string {
	if d == SortAsc {
		return "↑"
	}
	return "↓"
}

// SortSpec is the single active ordering of the result collection.
type SortSpec struct {
	Key       SortKey       `json:"key"`
	Direction SortDirection `json:"dir"`
}

// DefaultSortSpec orders by seeders, most first.
func DefaultSortSpec() SortSpec {
	return SortSpec{Key: SortBySeeds, Direction: SortDesc}
}

// Select returns the ordering after the user picks key: picking the active key
// toggles direction, picking another key applies that key's default.
func (s SortSpec) Select(key SortKey) SortSpec {
	if key == s.Key {
		return SortSpec{Key: key, Direction: s.Direction.Flip()}
	}
	return SortSpec{Key: key, Direction: key.DefaultDirection()}
}

// IsValid returns true if both key and direction are recognised.
func (s SortSpec) IsValid() bool {
	return s.Key.IsValid() && s.Direction.IsValid()
}

// String renders the ordering as "key:dir".
func (s SortSpec) String() string {
	return string(s.Key) + ":" + string(s.Direction)
}

// ParseSortSpec builds a spec from user input. An empty key selects the
// default spec; an empty direction takes the key's default.
func ParseSortSpec(key, dir string) (SortSpec, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	dir = strings.ToLower(strings.TrimSpace(dir))
	if key == "" {
		key = string(SortBySeeds)
	}

	k := SortKey(key)
	if !k.IsValid() {
		return SortSpec{}, fmt.Errorf("%w: unknown sort key %q", ErrInvalidInput, key)
	}
	spec := SortSpec{Key: k, Direction: k.DefaultDirection()}
	if dir != "" {
		spec.Direction = SortDirection(dir)
		if !spec.Direction.IsValid() {
			return SortSpec{}, fmt.Errorf("%w: unknown sort direction %q", ErrInvalidInput, dir)
		}
	}
	return spec, nil
}
