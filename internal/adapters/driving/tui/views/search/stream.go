package search

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/trawl/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/trawl/internal/core/domain"
)

// maxBatch caps how many records one StreamBatch carries.
const maxBatch = 256

// frameInterval spaces FrameRendered messages so a redraw happens between them.
const frameInterval = time.Second / 60

// resultsFlushInterval spaces session writes of the growing collection
// while a stream is open.
const resultsFlushInterval = time.Second

// noticeTTL is how long an action notice stays in the status bar.
const noticeTTL = 3 * time.Second

// waitForBatch blocks for the next event, then drains whatever else is
// already buffered so a fast stream redraws once per batch.
func waitForBatch(session domain.SearchSession, events <-chan domain.StreamEvent) tea.Cmd {
	return func() tea.Msg {
		batch := messages.StreamBatch{Session: session, Events: events}

		ev, ok := <-events
		if !collect(&batch, ev, ok) {
			return batch
		}
		for len(batch.Records) < maxBatch {
			select {
			case ev, ok = <-events:
				if !collect(&batch, ev, ok) {
					return batch
				}
			default:
				return batch
			}
		}
		return batch
	}
}

// collect adds ev to batch and reports whether more events may follow.
func collect(batch *messages.StreamBatch, ev domain.StreamEvent, ok bool) bool {
	if !ok {
		batch.Done = true
		return false
	}
	if ev.Done {
		batch.Done = true
		batch.Err = ev.Err
		return false
	}
	batch.Records = append(batch.Records, ev.Record)
	return true
}

// nextFrame schedules a FrameRendered after the next redraw.
func nextFrame() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg {
		return messages.FrameRendered{}
	})
}

// expireNotice schedules removal of notice id.
func expireNotice(id int) tea.Cmd {
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return messages.NotificationExpired{ID: id}
	})
}
