package search

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/custodia-labs/trawl/internal/core/domain"
)

// chromeHeight is the number of lines around the result list: header,
// two bordered inputs, sort bar, source chips, spacer and status bar.
const chromeHeight = 11

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)
	sections = append(sections,
		v.renderHeader(),
		v.query.View(),
		v.filter.View(),
		v.renderSortBar(),
		v.renderFacets(),
		"",
		v.list.View(),
	)

	body := lipgloss.JoinVertical(lipgloss.Left, sections...)

	// Pin the status bar to the bottom line.
	gap := v.height - lipgloss.Height(body) - 1
	if gap > 0 {
		body += strings.Repeat("\n", gap)
	}
	return body + "\n" + v.statusbar.View()
}

func (v *View) renderHeader() string {
	title := v.styles.Title.Render("trawl")
	if v.state.Query == "" {
		return title
	}
	return title + v.styles.Muted.Render(" · "+v.state.Query)
}

// renderSortBar shows one chip per sort key with the active direction.
func (v *View) renderSortBar() string {
	chips := []string{v.styles.Muted.Render("Sort")}
	for _, k := range domain.AllSortKeys() {
		if k == v.state.Sort.Key {
			chips = append(chips, v.styles.ChipActive.Render(k.Description()+" "+v.state.Sort.Direction.Arrow()))
			continue
		}
		chips = append(chips, v.styles.Chip.Render(k.Description()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, chips...)
}

// renderFacets shows the source chips on one line, eliding what does not fit.
func (v *View) renderFacets() string {
	if len(v.facets) == 0 {
		return v.styles.Muted.Render("Sources")
	}

	line := v.styles.Muted.Render("Sources")
	used := lipgloss.Width(line)
	for i, f := range v.facets {
		label := fmt.Sprintf("%s %s", f.Source, humanize.Comma(int64(f.Count)))
		style := v.styles.Chip
		if f.Source == v.state.ActiveSource {
			style = v.styles.ChipActive
		}
		chip := style.Render(label)

		w := lipgloss.Width(chip)
		if used+w > v.width {
			more := v.styles.Muted.Render(fmt.Sprintf(" +%d", len(v.facets)-i))
			if used+lipgloss.Width(more) <= v.width {
				line += more
			}
			break
		}
		line += chip
		used += w
	}
	return line
}
