// Package list provides the virtualized result list for the TUI.
package list

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/custodia-labs/trawl/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/trawl/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/trawl/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/trawl/internal/core/domain"
)

// Layout defaults, in terminal lines and rows.
const (
	DefaultRowEstimate = 3
	DefaultOverscan    = 6

	maxTitleLines   = 2
	minRowWidth     = 24
	wheelStep       = 3
	maxLayoutPasses = 4
)

// rowID identifies a record across re-sorts and re-filters.
type rowID struct {
	seq   int64
	title string
}

func idOf(r *domain.ResultRecord) rowID {
	return rowID{seq: r.Seq, title: r.Title}
}

// ResultList displays search results in a navigable, virtualized list.
// Scroll offsets are measured in terminal lines.
type ResultList struct {
	results  []domain.ResultRecord
	selected int
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	width    int
	height   int

	strategy  Strategy
	virt      *Virtualizer
	port      Viewport
	heights   map[rowID]int
	highlight func(title string) []int
	empty     string

	// frame holds the visible lines computed by the last layout.
	frame []string
}

// NewResultList creates a new result list component.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	r := &ResultList{
		styles:   s,
		keymap:   keymap.DefaultKeyMap(),
		width:    80,
		height:   10,
		strategy: Windowed,
		virt:     NewVirtualizer(DefaultRowEstimate, DefaultOverscan),
		heights:  make(map[rowID]int),
		empty:    "No results",
	}
	r.port.SetHeight(r.height)
	return r
}

// Configure replaces the row estimate, overscan and render strategy.
func (r *ResultList) Configure(estimate, overscan int, strategy Strategy) {
	r.virt = NewVirtualizer(estimate, overscan)
	r.strategy = strategy
	r.resync()
}

// Init initialises the result list.
func (r *ResultList) Init() tea.Cmd {
	return nil
}

// Update handles navigation keys and the mouse wheel. A user scroll is
// reported back as messages.ScrollChanged.
func (r *ResultList) Update(msg tea.Msg) (*ResultList, tea.Cmd) {
	var scrolled bool

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, r.keymap.Up):
			scrolled = r.MoveUp()
		case key.Matches(msg, r.keymap.Down):
			scrolled = r.MoveDown()
		case key.Matches(msg, r.keymap.PageUp):
			scrolled = r.PageUp()
		case key.Matches(msg, r.keymap.PageDown):
			scrolled = r.PageDown()
		case key.Matches(msg, r.keymap.Top):
			scrolled = r.Top()
		case key.Matches(msg, r.keymap.Bottom):
			scrolled = r.Bottom()
		}

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			break
		}
		//nolint:exhaustive // only the wheel scrolls
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			scrolled = r.ScrollBy(-wheelStep)
		case tea.MouseButtonWheelDown:
			scrolled = r.ScrollBy(wheelStep)
		}
	}

	if !scrolled {
		return r, nil
	}
	offset := r.port.Offset()
	return r, func() tea.Msg {
		return messages.ScrollChanged{Offset: offset}
	}
}

// View renders the visible slice of the list.
func (r *ResultList) View() string {
	if len(r.results) == 0 {
		return r.styles.Muted.Render(r.empty)
	}
	return strings.Join(r.frame, "\n")
}

// SetResults replaces the rows. The selection follows the previously
// selected record when it is still present; the scroll offset is kept.
func (r *ResultList) SetResults(results []domain.ResultRecord) {
	var (
		prev    rowID
		hadPrev bool
	)
	if r.selected < len(r.results) {
		prev, hadPrev = idOf(&r.results[r.selected]), true
	}

	r.results = results
	if r.selected >= len(results) {
		r.selected = max(0, len(results)-1)
	}
	if hadPrev {
		for i := range results {
			if idOf(&results[i]) == prev {
				r.selected = i
				break
			}
		}
	}
	r.resync()
}

// Clear drops every row and measurement and returns to the top.
func (r *ResultList) Clear() {
	r.results = nil
	r.selected = 0
	clear(r.heights)
	r.port.Anchor()
	r.resync()
}

// resync rebuilds the virtualizer's index-keyed measurements from the
// identity-keyed cache, then lays out.
func (r *ResultList) resync() {
	r.virt.Reset()
	r.virt.SetCount(len(r.results))
	for i := range r.results {
		if h, ok := r.heights[idOf(&r.results[i])]; ok {
			r.virt.Measure(i, h)
		}
	}
	r.layout()
}

// Results returns the current results.
func (r *ResultList) Results() []domain.ResultRecord {
	return r.results
}

// Selected returns the index of the selected result.
func (r *ResultList) Selected() int {
	return r.selected
}

// SetSelected sets the selected index and scrolls it into view.
func (r *ResultList) SetSelected(index int) bool {
	if index < 0 || index >= len(r.results) {
		return false
	}
	r.selected = index
	return r.follow()
}

// SelectedResult returns the currently selected result, or nil if none.
func (r *ResultList) SelectedResult() *domain.ResultRecord {
	if len(r.results) == 0 || r.selected < 0 || r.selected >= len(r.results) {
		return nil
	}
	return &r.results[r.selected]
}

// MoveUp moves selection up. It reports whether the user scrolled.
func (r *ResultList) MoveUp() bool {
	if r.selected == 0 {
		return false
	}
	r.selected--
	return r.follow()
}

// MoveDown moves selection down. It reports whether the user scrolled.
func (r *ResultList) MoveDown() bool {
	if r.selected >= len(r.results)-1 {
		return false
	}
	r.selected++
	return r.follow()
}

// Top selects the first row.
func (r *ResultList) Top() bool {
	return r.SetSelected(0)
}

// Bottom selects the last row.
func (r *ResultList) Bottom() bool {
	return r.SetSelected(len(r.results) - 1)
}

// PageUp scrolls one viewport up.
func (r *ResultList) PageUp() bool {
	return r.ScrollBy(-max(1, r.height-1))
}

// PageDown scrolls one viewport down.
func (r *ResultList) PageDown() bool {
	return r.ScrollBy(max(1, r.height-1))
}

// ScrollBy moves the viewport by lines, dragging the selection along so it
// stays visible. It reports whether the user scrolled.
func (r *ResultList) ScrollBy(lines int) bool {
	if len(r.results) == 0 {
		return false
	}
	target := r.virt.ClampOffset(r.EffectiveOffset()+lines, r.height)
	if target == r.EffectiveOffset() {
		return false
	}
	changed, user := r.port.ScrollTo(target)
	r.keepSelectionVisible()
	r.layout()
	return changed && user
}

// follow scrolls the selection into view, re-checking after layout because
// rendering may have remeasured the selected row.
func (r *ResultList) follow() bool {
	user := r.reveal()
	r.layout()
	if r.reveal() {
		user = true
	}
	r.layout()
	return user
}

// reveal scrolls the minimum needed to show the selected row.
func (r *ResultList) reveal() bool {
	if len(r.results) == 0 || r.height <= 0 {
		return false
	}
	top := r.virt.ItemStart(r.selected)
	bottom := top + r.virt.Size(r.selected)
	off := r.EffectiveOffset()

	target := off
	switch {
	case top < off:
		target = top
	case bottom > off+r.height:
		target = min(top, bottom-r.height)
	}
	if target == off {
		return false
	}
	changed, user := r.port.ScrollTo(target)
	return changed && user
}

// keepSelectionVisible moves the selection onto a row inside the viewport.
func (r *ResultList) keepSelectionVisible() {
	off := r.EffectiveOffset()
	end := off + r.height

	first := r.virt.IndexAt(off)
	if r.virt.ItemStart(first) < off && first < len(r.results)-1 {
		first++
	}
	last := r.virt.IndexAt(end - 1)
	if r.virt.ItemStart(last)+r.virt.Size(last) > end && last > first {
		last--
	}

	if r.selected < first {
		r.selected = first
	} else if r.selected > last {
		r.selected = last
	}
}

// Restore jumps to a persisted offset without it counting as a user scroll
// until two frames have been drawn.
func (r *ResultList) Restore(offset int) {
	r.port.Restore(offset)
	r.selected = min(r.selected, max(0, len(r.results)-1))
	r.layout()
	r.keepSelectionVisible()
	r.layout()
}

// Frame marks that a frame has been drawn.
func (r *ResultList) Frame() {
	r.port.Frame()
}

// Restoring reports whether a restored offset is still guarded.
func (r *ResultList) Restoring() bool {
	return r.port.Restoring()
}

// Anchor scrolls to the top and selects the first row.
func (r *ResultList) Anchor() {
	r.port.Anchor()
	r.selected = 0
	r.layout()
}

// Offset returns the scroll offset as last set.
func (r *ResultList) Offset() int {
	return r.port.Offset()
}

// EffectiveOffset returns the offset clamped to the current content.
func (r *ResultList) EffectiveOffset() int {
	return r.virt.ClampOffset(r.port.Offset(), r.height)
}

// SetHighlighter sets the function marking matched title bytes.
func (r *ResultList) SetHighlighter(fn func(title string) []int) {
	r.highlight = fn
	r.layout()
}

// SetEmptyText sets the placeholder shown when there are no rows.
func (r *ResultList) SetEmptyText(text string) {
	r.empty = text
}

// Strategy returns the active render strategy.
func (r *ResultList) Strategy() Strategy {
	return r.strategy
}

// Virtualizer exposes the row geometry.
func (r *ResultList) Virtualizer() *Virtualizer {
	return r.virt
}

// SetDimensions sets the component dimensions. A width change remeasures
// every row; the offset is kept, clamped to the new content.
func (r *ResultList) SetDimensions(width, height int) {
	widthChanged := width != r.width
	r.width = width
	r.height = max(0, height)
	r.port.SetHeight(r.height)

	if widthChanged {
		clear(r.heights)
		r.virt.Reset()
	}
	r.layout()
}

// Width returns the current width.
func (r *ResultList) Width() int {
	return r.width
}

// Height returns the current height.
func (r *ResultList) Height() int {
	return r.height
}

// Count returns the number of results.
func (r *ResultList) Count() int {
	return len(r.results)
}

// IsEmpty returns whether the list is empty.
func (r *ResultList) IsEmpty() bool {
	return len(r.results) == 0
}

// layout recomputes the visible frame with the active strategy.
func (r *ResultList) layout() {
	r.frame = nil
	if len(r.results) == 0 || r.height <= 0 {
		return
	}
	if r.strategy == Plain {
		r.frame = r.layoutPlain()
	} else {
		r.frame = r.layoutWindowed()
	}
}

// layoutPlain renders every row, then slices the viewport out.
func (r *ResultList) layoutPlain() []string {
	var lines []string
	for i := range r.results {
		row := r.renderRow(i)
		r.record(i, row)
		lines = append(lines, row...)
	}
	return sliceLines(lines, r.EffectiveOffset(), r.height)
}

// layoutWindowed renders only the rows in range. Measuring them can move
// the range, so it repeats until the geometry settles.
func (r *ResultList) layoutWindowed() []string {
	var (
		rng  WindowRange
		rows [][]string
	)
	for pass := 0; pass < maxLayoutPasses; pass++ {
		rng = r.virt.Range(r.EffectiveOffset(), r.height)
		rows = make([][]string, rng.Len())
		changed := false
		for k := range rows {
			rows[k] = r.renderRow(rng.Start + k)
			if r.record(rng.Start+k, rows[k]) {
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	var lines []string
	for _, row := range rows {
		lines = append(lines, row...)
	}
	return sliceLines(lines, r.EffectiveOffset()-r.virt.ItemStart(rng.Start), r.height)
}

// record stores a rendered row's height. It reports a geometry change.
func (r *ResultList) record(i int, row []string) bool {
	r.heights[idOf(&r.results[i])] = len(row)
	return r.virt.Measure(i, len(row))
}

func sliceLines(lines []string, from, n int) []string {
	from = min(max(0, from), len(lines))
	to := min(len(lines), from+n)
	return lines[from:to]
}

// renderRow formats a result as one or two title lines and a stats line.
func (r *ResultList) renderRow(i int) []string {
	rec := &r.results[i]
	selected := i == r.selected

	width := max(minRowWidth, r.width)
	title := rec.Title
	if title == "" {
		title = "(untitled)"
	}
	var marks []int
	if r.highlight != nil && rec.Title != "" {
		marks = r.highlight(rec.Title)
	}

	spans := wrapTitle(title, width-2, maxTitleLines)
	lines := make([]string, 0, len(spans)+1)
	for n, sp := range spans {
		prefix := "  "
		if n == 0 && selected {
			prefix = "> "
		}
		lines = append(lines, r.styleTitle(prefix, title, sp, marks, selected))
	}

	meta := runewidth.Truncate("  "+metaLine(rec), width, "…")
	lines = append(lines, r.styles.Muted.Render(meta))
	return lines
}

// styleTitle renders one wrapped title line, emphasising matched bytes.
func (r *ResultList) styleTitle(prefix, title string, sp span, marks []int, selected bool) string {
	base := r.styles.Normal
	if selected {
		base = r.styles.Selected
	}

	var b strings.Builder
	b.WriteString(base.Render(prefix))

	// marks is ascending; skip those before this line.
	m := sort.SearchInts(marks, sp.start)
	runStart, runMarked := sp.start, false
	flush := func(end int) {
		if end <= runStart {
			return
		}
		style := base
		if runMarked {
			style = r.styles.Highlight
		}
		b.WriteString(style.Render(title[runStart:end]))
	}

	for off := range title[sp.start:sp.end] {
		at := sp.start + off
		for m < len(marks) && marks[m] < at {
			m++
		}
		marked := m < len(marks) && marks[m] == at
		if marked != runMarked {
			flush(at)
			runStart, runMarked = at, marked
		}
	}
	flush(sp.end)

	if sp.ellipsis {
		b.WriteString(base.Render("…"))
	}
	return b.String()
}

// span is a byte range of a title rendered on one line.
type span struct {
	start, end int
	ellipsis   bool
}

// wrapTitle splits title into at most maxLines spans of at most width
// columns. Overflow on the last line is cut and marked with an ellipsis.
func wrapTitle(title string, width, maxLines int) []span {
	width = max(1, width)
	var spans []span
	start, used := 0, 0

	for i, ru := range title {
		w := runewidth.RuneWidth(ru)
		if used+w > width && i > start {
			if len(spans) == maxLines-1 {
				return append(spans, truncateSpan(title, start, width))
			}
			spans = append(spans, span{start: start, end: i})
			start, used = i, 0
		}
		used += w
	}
	return append(spans, span{start: start, end: len(title)})
}

// truncateSpan fits title[start:] into width columns including an ellipsis.
func truncateSpan(title string, start, width int) span {
	used, end := 0, start
	for i, ru := range title[start:] {
		w := runewidth.RuneWidth(ru)
		if used+w > width-1 {
			break
		}
		used += w
		end = start + i + len(string(ru))
	}
	return span{start: start, end: end, ellipsis: true}
}

// metaLine summarises seeders, size, publish date and tracker.
func metaLine(rec *domain.ResultRecord) string {
	seeders := "?"
	if rec.Seeders != nil {
		seeders = humanize.Comma(*rec.Seeders)
	}
	size := "?"
	if rec.Size != nil && *rec.Size >= 0 {
		size = humanize.IBytes(uint64(*rec.Size))
	}

	parts := []string{fmt.Sprintf("▲ %s", seeders), size}
	if t, ok := rec.PublishedAt(); ok {
		parts = append(parts, t.Format("2006-01-02"))
	}
	if rec.Tracker != "" {
		parts = append(parts, rec.Tracker)
	}
	return strings.Join(parts, " · ")
}
