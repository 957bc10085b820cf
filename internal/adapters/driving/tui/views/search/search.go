// Package search provides the streaming search view for the TUI.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/trawl/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/trawl/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/trawl/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/trawl/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/trawl/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/trawl/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/trawl/internal/core/domain"
	"github.com/custodia-labs/trawl/internal/core/ports/driving"
	"github.com/custodia-labs/trawl/internal/logger"
)

// Action names reported in messages.ActionCompleted.
const (
	ActionDownload = "download"
	ActionCopy     = "copy"
	ActionOpen     = "open"
)

// focus is the component receiving key input.
type focus int

const (
	focusQuery focus = iota
	focusFilter
	focusResults
)

// Services are the driving ports the search view works through.
// Search, Results and Session are required; Actions and History may be nil.
type Services struct {
	Search  driving.SearchService
	Results driving.ResultService
	Session driving.SessionService
	Actions driving.ResultActionService
	History driving.HistoryService
}

// View is the search screen: query and filter inputs, sort and source
// chips, the virtualized result list and a status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	query     *input.SearchInput
	filter    *input.SearchInput
	list      *list.ResultList
	statusbar *status.Bar

	search  driving.SearchService
	results driving.ResultService
	session driving.SessionService
	actions driving.ResultActionService
	history driving.HistoryService
	ctx     context.Context

	// state mirrors what is persisted through the session service.
	state domain.SessionState

	// visible is state.Results narrowed by source and filter.
	visible []domain.ResultRecord
	facets  []domain.FacetEntry

	run       domain.SearchSession
	streaming bool
	noticeID  int

	// resultsDirty marks results not yet written to the session store.
	resultsDirty   bool
	resultsFlushed time.Time
	now            func() time.Time

	focus  focus
	width  int
	height int
	ready  bool
	err    error
}

// NewView creates a new search view.
func NewView(s *styles.Styles, km *keymap.KeyMap, svc Services) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:    s,
		keymap:    km,
		query:     input.NewSearchInput(s),
		filter:    input.NewFilterInput(s),
		list:      list.NewResultList(s),
		statusbar: status.NewBar(s, km),
		search:    svc.Search,
		results:   svc.Results,
		session:   svc.Session,
		actions:   svc.Actions,
		history:   svc.History,
		ctx:       context.Background(),
		now:       time.Now,
		state:     domain.NewSessionState(),
		width:     80,
		height:    24,
		focus:     focusQuery,
	}
	v.list.SetEmptyText("No results")
	return v
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Configure applies result list settings.
func (v *View) Configure(ui domain.UISettings) {
	v.list.Configure(ui.RowEstimate, ui.Overscan, list.DetectStrategy(ui.RenderMode))
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.query.Init()
}

// Mount rehydrates the view from the session store. A restored scroll
// offset is guarded until two frames have been drawn, so it is not
// written back as if the user had scrolled.
func (v *View) Mount() tea.Cmd {
	cmds := []tea.Cmd{v.query.Init(), v.loadSuggestions()}
	v.Flush()

	if v.session == nil {
		return tea.Batch(cmds...)
	}
	state, ok := v.session.Load()
	if !ok {
		v.setFocus(focusQuery)
		return tea.Batch(cmds...)
	}

	logger.Debug("Rehydrating search view: %q, %d results", state.Query, len(state.Results))
	v.state = state
	v.query.SetValue(state.Query)
	v.filter.SetValue(state.TitleFilter)
	v.streaming = v.run != "" && v.search != nil && v.search.IsCurrent(v.run) && v.search.Loading()
	v.refresh()
	v.list.Restore(state.ScrollOffset)

	if len(state.Results) > 0 || v.streaming {
		v.setFocus(focusResults)
	} else {
		v.setFocus(focusQuery)
	}
	cmds = append(cmds, nextFrame())
	if v.streaming {
		v.statusbar.SetState(status.StateStreaming)
		cmds = append(cmds, v.statusbar.Spin())
	}
	return tea.Batch(cmds...)
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v, v.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		v.list, cmd = v.list.Update(msg)
		return v, cmd

	case messages.StreamBatch:
		return v, v.handleBatch(msg)

	case messages.ScrollChanged:
		v.state.ScrollOffset = msg.Offset
		v.persist("scroll offset", func(s driving.SessionService) error {
			return s.SetScrollOffset(msg.Offset)
		})
		return v, nil

	case messages.FrameRendered:
		v.list.Frame()
		if v.list.Restoring() {
			return v, nextFrame()
		}
		return v, nil

	case messages.ActionCompleted:
		return v, v.notify(actionNotice(msg))

	case messages.NotificationExpired:
		if msg.ID == v.noticeID {
			v.statusbar.SetNotice("")
		}
		return v, nil

	case messages.SuggestionsLoaded:
		v.query.SetSuggestions(msg.Queries)
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		v.statusbar, cmd = v.statusbar.Update(msg)
		return v, cmd
	}

	return v, nil
}

// handleKey routes a key press by focus.
func (v *View) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, v.keymap.StopSearch) {
		v.Cancel()
		return nil
	}

	switch v.focus {
	case focusQuery:
		return v.handleQueryKey(msg)
	case focusFilter:
		return v.handleFilterKey(msg)
	case focusResults:
	}
	return v.handleResultsKey(msg)
}

func (v *View) handleQueryKey(msg tea.KeyMsg) tea.Cmd {
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyEnter:
		return v.Submit()
	case tea.KeyEsc:
		if len(v.state.Results) > 0 {
			v.setFocus(focusResults)
			return nil
		}
		return changeView(messages.ViewMenu)
	}

	var cmd tea.Cmd
	v.query, cmd = v.query.Update(msg)
	return cmd
}

func (v *View) handleFilterKey(msg tea.KeyMsg) tea.Cmd {
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc:
		v.setFocus(focusResults)
		return nil
	}

	var cmd tea.Cmd
	v.filter, cmd = v.filter.Update(msg)
	if v.filter.Value() != v.state.TitleFilter {
		v.SetTitleFilter(v.filter.Value())
	}
	return cmd
}

func (v *View) handleResultsKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, v.keymap.Back):
		return changeView(messages.ViewMenu)
	case key.Matches(msg, v.keymap.Quit):
		return func() tea.Msg { return messages.Quit{} }
	case key.Matches(msg, v.keymap.NewSearch):
		v.setFocus(focusQuery)
		v.query.SetValue("")
		return nil
	case key.Matches(msg, v.keymap.Filter):
		v.setFocus(focusFilter)
		return nil
	case key.Matches(msg, v.keymap.NextSort):
		v.SetSort(v.state.Sort.Select(nextSortKey(v.state.Sort.Key)))
		return nil
	case key.Matches(msg, v.keymap.FlipSort):
		v.SetSort(v.state.Sort.Select(v.state.Sort.Key))
		return nil
	case key.Matches(msg, v.keymap.NextSource):
		v.cycleSource(1)
		return nil
	case key.Matches(msg, v.keymap.PrevSource):
		v.cycleSource(-1)
		return nil
	case key.Matches(msg, v.keymap.Download):
		return v.runAction(ActionDownload)
	case key.Matches(msg, v.keymap.CopyMagnet):
		return v.runAction(ActionCopy)
	case key.Matches(msg, v.keymap.OpenDetails):
		return v.runAction(ActionOpen)
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return cmd
}

// Submit starts a search for the query input's value. Blank queries are
// ignored. The sort survives; results, filter, source and scroll reset.
func (v *View) Submit() tea.Cmd {
	query := strings.TrimSpace(v.query.Value())
	if query == "" {
		return nil
	}
	if v.search == nil {
		v.setError(ErrNoSearchService)
		return nil
	}

	session, events, err := v.search.Start(v.ctx, query)
	if err != nil {
		v.setError(err)
		return nil
	}

	v.run = session
	v.streaming = true
	v.err = nil
	v.resultsDirty = false
	v.resultsFlushed = time.Time{}
	v.state = domain.SessionState{
		Query:        query,
		Sort:         v.state.Sort,
		ActiveSource: domain.AllSource,
	}
	v.filter.Reset()
	v.list.Clear()
	v.persist("new search", func(s driving.SessionService) error {
		return s.Begin(query)
	})
	v.refresh()

	v.statusbar.SetState(status.StateStreaming)
	v.statusbar.SetMessage("")
	v.setFocus(focusResults)

	return tea.Batch(
		waitForBatch(session, events),
		v.statusbar.Spin(),
		v.recordQuery(query),
	)
}

// Cancel stops the active search. Records already received are kept.
func (v *View) Cancel() {
	if !v.streaming {
		return
	}
	if v.search != nil {
		v.search.Cancel()
	}
	v.streaming = false
	v.run = ""
	v.Flush()
	v.statusbar.SetState(status.StateResults)
	v.statusbar.SetMessage("Stopped")
	v.refresh()
}

// handleBatch merges streamed records into the sorted collection.
func (v *View) handleBatch(msg messages.StreamBatch) tea.Cmd {
	if msg.Session != v.run || v.search == nil || !v.search.IsCurrent(msg.Session) {
		logger.Debug("Discarding %d records from stale session %s", len(msg.Records), msg.Session)
		return nil
	}

	if len(msg.Records) > 0 {
		collection := v.state.Results
		for _, rec := range msg.Records {
			collection = v.insert(collection, rec)
		}
		v.state.Results = collection
		v.resultsDirty = true
		if v.now().Sub(v.resultsFlushed) >= resultsFlushInterval {
			v.Flush()
		}
	}

	if !msg.Done {
		v.refresh()
		return waitForBatch(msg.Session, msg.Events)
	}

	v.streaming = false
	v.Flush()
	v.statusbar.SetState(status.StateResults)
	v.statusbar.SetMessage("")
	if msg.Err != nil && !errors.Is(msg.Err, context.Canceled) {
		v.setError(msg.Err)
	}
	v.refresh()
	return nil
}

// SetTitleFilter narrows the list by title and returns to the top.
func (v *View) SetTitleFilter(filter string) {
	v.state.TitleFilter = filter
	v.persist("title filter", func(s driving.SessionService) error {
		return s.SetTitleFilter(filter)
	})
	v.anchor()
}

// SetActiveSource narrows the list to one tracker and returns to the top.
func (v *View) SetActiveSource(source string) {
	if source == "" {
		source = domain.AllSource
	}
	if source == v.state.ActiveSource {
		return
	}
	v.state.ActiveSource = source
	v.persist("active source", func(s driving.SessionService) error {
		return s.SetActiveSource(source)
	})
	v.anchor()
}

// SetSort re-sorts the collection. The scroll offset is kept.
func (v *View) SetSort(spec domain.SortSpec) {
	if !spec.IsValid() || spec == v.state.Sort {
		return
	}
	v.state.Sort = spec
	if v.results != nil {
		v.state.Results = v.results.Resort(v.state.Results, spec)
	}
	results := v.state.Results
	v.persist("sort", func(s driving.SessionService) error {
		if err := s.SetSort(spec); err != nil {
			return err
		}
		return s.SetResults(results)
	})
	v.refresh()
}

// anchor recomputes the view and returns to the top, persisting offset 0.
func (v *View) anchor() {
	v.refresh()
	v.list.Anchor()
	v.state.ScrollOffset = 0
	v.persist("scroll offset", func(s driving.SessionService) error {
		return s.SetScrollOffset(0)
	})
}

// refresh derives facets and the visible rows from state.
func (v *View) refresh() {
	if v.results == nil {
		v.visible = v.state.Results
		v.facets = nil
	} else {
		v.facets = v.results.Facets(v.state.Results, v.streaming)
		v.visible = v.results.Filter(v.state.Results, v.state.TitleFilter, v.state.ActiveSource)
	}

	v.list.SetHighlighter(v.highlighter())
	v.list.SetResults(v.visible)
	v.list.SetEmptyText(v.emptyText())
	v.statusbar.SetResultCount(len(v.visible), len(v.state.Results))
}

func (v *View) highlighter() func(string) []int {
	q := strings.TrimSpace(v.state.TitleFilter)
	if q == "" || v.results == nil {
		return nil
	}
	results := v.results
	return func(title string) []int {
		return results.Highlight(q, title)
	}
}

func (v *View) emptyText() string {
	switch {
	case v.streaming:
		return "Waiting for results…"
	case v.state.Query == "":
		return "Type a query and press enter"
	case len(v.state.Results) > 0:
		return "No results match the current filter"
	}
	return "No results"
}

func (v *View) insert(collection []domain.ResultRecord, rec domain.ResultRecord) []domain.ResultRecord {
	if v.results == nil {
		return append(collection, rec)
	}
	return v.results.Insert(collection, rec, v.state.Sort)
}

// cycleSource moves the active source by step through the facet chips.
func (v *View) cycleSource(step int) {
	if len(v.facets) == 0 {
		return
	}
	current := 0
	for i, f := range v.facets {
		if f.Source == v.state.ActiveSource {
			current = i
			break
		}
	}
	n := len(v.facets)
	v.SetActiveSource(v.facets[((current+step)%n+n)%n].Source)
}

// nextSortKey returns the key after k in display order.
func nextSortKey(k domain.SortKey) domain.SortKey {
	keys := domain.AllSortKeys()
	for i, candidate := range keys {
		if candidate == k {
			return keys[(i+1)%len(keys)]
		}
	}
	return keys[0]
}

// runAction applies action to the selected record in the background.
func (v *View) runAction(action string) tea.Cmd {
	selected := v.list.SelectedResult()
	if selected == nil {
		return nil
	}
	rec := *selected
	if v.actions == nil {
		return func() tea.Msg {
			return messages.ActionCompleted{Action: action, Title: rec.Title, Err: ErrNoActionService}
		}
	}

	svc := v.actions
	ctx := v.ctx
	return func() tea.Msg {
		var err error
		switch action {
		case ActionDownload:
			err = svc.Download(ctx, &rec)
		case ActionCopy:
			err = svc.CopyMagnet(ctx, &rec)
		case ActionOpen:
			err = svc.OpenDetails(ctx, &rec)
		}
		return messages.ActionCompleted{Action: action, Title: rec.Title, Err: err}
	}
}

// actionNotice formats the status bar notice for a finished action.
func actionNotice(msg messages.ActionCompleted) string {
	if msg.Err != nil {
		switch {
		case errors.Is(msg.Err, domain.ErrNotActionable):
			return "Nothing to " + msg.Action + " for this result"
		case errors.Is(msg.Err, domain.ErrMagnetUnavailable):
			return "No magnet available"
		}
		return fmt.Sprintf("%s failed: %v", capitalise(msg.Action), msg.Err)
	}
	switch msg.Action {
	case ActionDownload:
		return "Sent to downloader"
	case ActionCopy:
		return "Magnet copied"
	case ActionOpen:
		return "Opened in browser"
	}
	return "Done"
}

func capitalise(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// notify shows text until it expires or is replaced.
func (v *View) notify(text string) tea.Cmd {
	v.noticeID++
	v.statusbar.SetNotice(text)
	return expireNotice(v.noticeID)
}

func (v *View) recordQuery(query string) tea.Cmd {
	if v.history == nil {
		return nil
	}
	history := v.history
	ctx := v.ctx
	return func() tea.Msg {
		if err := history.Record(ctx, query); err != nil {
			logger.Warn("Recording query: %v", err)
			return nil
		}
		return loadSuggestions(ctx, history)
	}
}

func (v *View) loadSuggestions() tea.Cmd {
	if v.history == nil {
		return nil
	}
	history := v.history
	ctx := v.ctx
	return func() tea.Msg {
		return loadSuggestions(ctx, history)
	}
}

func loadSuggestions(ctx context.Context, history driving.HistoryService) tea.Msg {
	queries, err := history.Suggest(ctx, "")
	if err != nil {
		return nil
	}
	return messages.SuggestionsLoaded{Queries: queries}
}

// Flush writes results merged since the last write to the session store.
func (v *View) Flush() {
	if !v.resultsDirty {
		return
	}
	results := v.state.Results
	v.persist("results", func(s driving.SessionService) error {
		return s.SetResults(results)
	})
	v.resultsDirty = false
	v.resultsFlushed = v.now()
}

// persist writes through the session service, logging failures.
func (v *View) persist(what string, write func(driving.SessionService) error) {
	if v.session == nil {
		return
	}
	if err := write(v.session); err != nil {
		logger.Warn("Persisting %s: %v", what, err)
	}
}

func (v *View) setFocus(f focus) {
	v.focus = f
	v.query.Blur()
	v.filter.Blur()
	switch f {
	case focusQuery:
		v.query.Focus()
	case focusFilter:
		v.filter.Focus()
	case focusResults:
	}
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

func changeView(view messages.ViewType) tea.Cmd {
	return func() tea.Msg {
		return messages.ViewChanged{View: view}
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.query.SetWidth(width)
	v.filter.SetWidth(width)
	v.list.SetDimensions(width, max(1, height-chromeHeight))
	v.statusbar.SetWidth(width)
}

// Width returns the current width.
func (v *View) Width() int {
	return v.width
}

// Height returns the current height.
func (v *View) Height() int {
	return v.height
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Query returns the query input's value.
func (v *View) Query() string {
	return v.query.Value()
}

// SetQuery sets the query input's value.
func (v *View) SetQuery(query string) {
	v.query.SetValue(query)
}

// State returns the mirrored session state.
func (v *View) State() domain.SessionState {
	return v.state
}

// Visible returns the rows after source and filter narrowing.
func (v *View) Visible() []domain.ResultRecord {
	return v.visible
}

// Facets returns the source chips.
func (v *View) Facets() []domain.FacetEntry {
	return v.facets
}

// Streaming reports whether a search is still receiving records.
func (v *View) Streaming() bool {
	return v.streaming
}

// SelectedResult returns the currently selected result.
func (v *View) SelectedResult() *domain.ResultRecord {
	return v.list.SelectedResult()
}

// List exposes the result list.
func (v *View) List() *list.ResultList {
	return v.list
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// Notice returns the status bar notice.
func (v *View) Notice() string {
	return v.statusbar.Notice()
}

// InputFocused returns whether the query input has focus.
func (v *View) InputFocused() bool {
	return v.focus == focusQuery
}

// FilterFocused returns whether the filter input has focus.
func (v *View) FilterFocused() bool {
	return v.focus == focusFilter
}
