package list

import "sort"

// WindowRange is the slice of rows a frame needs to render.
type WindowRange struct {
	// Start is the first row to render.
	Start int
	// End is one past the last row to render.
	End int
	// Offsets holds the line each rendered row starts at, indexed from Start.
	Offsets []int
}

// Len returns the number of rows in the range.
func (w WindowRange) Len() int {
	return w.End - w.Start
}

// Virtualizer maps a scroll offset (in lines) to the rows that intersect the
// viewport. Rows that have not been measured count as Estimate lines.
type Virtualizer struct {
	estimate int
	overscan int
	count    int
	measured map[int]int

	// starts[i] is the first line of row i; starts[count] is the total.
	starts []int
	dirty  bool
}

// NewVirtualizer creates a virtualizer. estimate is clamped to at least one
// line and overscan to at least zero rows.
func NewVirtualizer(estimate, overscan int) *Virtualizer {
	if estimate < 1 {
		estimate = 1
	}
	if overscan < 0 {
		overscan = 0
	}
	return &Virtualizer{
		estimate: estimate,
		overscan: overscan,
		measured: make(map[int]int),
		dirty:    true,
	}
}

// Estimate returns the assumed height of an unmeasured row.
func (v *Virtualizer) Estimate() int {
	return v.estimate
}

// Overscan returns the number of extra rows rendered on each side.
func (v *Virtualizer) Overscan() int {
	return v.overscan
}

// SetCount sets the number of rows. Measurements past the new end are dropped.
func (v *Virtualizer) SetCount(n int) {
	if n < 0 {
		n = 0
	}
	if n == v.count {
		return
	}
	for i := range v.measured {
		if i >= n {
			delete(v.measured, i)
		}
	}
	v.count = n
	v.dirty = true
}

// Count returns the number of rows.
func (v *Virtualizer) Count() int {
	return v.count
}

// Measure records the rendered height of row i. It reports whether the
// layout changed as a result.
func (v *Virtualizer) Measure(i, size int) bool {
	if i < 0 || i >= v.count || size < 1 {
		return false
	}
	if v.Size(i) == size {
		if _, ok := v.measured[i]; !ok {
			v.measured[i] = size
		}
		return false
	}
	v.measured[i] = size
	v.dirty = true
	return true
}

// Measured reports whether row i has a recorded height.
func (v *Virtualizer) Measured(i int) bool {
	_, ok := v.measured[i]
	return ok
}

// Size returns the height of row i, measured or estimated.
func (v *Virtualizer) Size(i int) int {
	if size, ok := v.measured[i]; ok {
		return size
	}
	return v.estimate
}

// ItemStart returns the first line of row i. Indexes past the end return
// the total size.
func (v *Virtualizer) ItemStart(i int) int {
	v.layout()
	switch {
	case i <= 0:
		return 0
	case i >= v.count:
		return v.starts[v.count]
	default:
		return v.starts[i]
	}
}

// TotalSize returns the height of all rows.
func (v *Virtualizer) TotalSize() int {
	return v.ItemStart(v.count)
}

// IndexAt returns the row covering line, clamped to the valid row range.
func (v *Virtualizer) IndexAt(line int) int {
	if v.count == 0 {
		return 0
	}
	v.layout()
	// First row starting after line, minus one.
	i := sort.Search(v.count, func(i int) bool { return v.starts[i+1] > line })
	if i >= v.count {
		return v.count - 1
	}
	return i
}

// Range returns the minimal contiguous rows intersecting
// [offset, offset+viewport), widened by the overscan on each side.
func (v *Virtualizer) Range(offset, viewport int) WindowRange {
	if v.count == 0 || viewport <= 0 {
		return WindowRange{}
	}
	if offset < 0 {
		offset = 0
	}

	first := v.IndexAt(offset)
	last := v.IndexAt(offset + viewport - 1)

	start := max(0, first-v.overscan)
	end := min(v.count, last+1+v.overscan)

	offsets := make([]int, end-start)
	for i := range offsets {
		offsets[i] = v.starts[start+i]
	}
	return WindowRange{Start: start, End: end, Offsets: offsets}
}

// ClampOffset limits offset to the scrollable extent for viewport.
func (v *Virtualizer) ClampOffset(offset, viewport int) int {
	maxOffset := v.TotalSize() - viewport
	if offset > maxOffset {
		offset = maxOffset
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

// Reset forgets every measurement, keeping the row count.
func (v *Virtualizer) Reset() {
	clear(v.measured)
	v.dirty = true
}

// layout rebuilds the prefix sums after a change.
func (v *Virtualizer) layout() {
	if !v.dirty && len(v.starts) == v.count+1 {
		return
	}
	v.starts = v.starts[:0]
	line := 0
	for i := 0; i < v.count; i++ {
		v.starts = append(v.starts, line)
		line += v.Size(i)
	}
	v.starts = append(v.starts, line)
	v.dirty = false
}
