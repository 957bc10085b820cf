package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/custodia-labs/trawl/internal/core/domain"
	"github.com/custodia-labs/trawl/internal/core/ports/driving"
	"github.com/custodia-labs/trawl/internal/logger"
)

// progressInterval paces the record counter on an interactive stderr.
const progressInterval = 250 * time.Millisecond

var (
	searchLimit  int
	searchJSON   bool
	searchSort   string
	searchDir    string
	searchSource string
	searchFilter string
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search for torrents",
	Long: `Streams results for a query from the backend, then prints them sorted.

Ctrl+C stops the stream early and prints what arrived so far.

Examples:
  trawl search "ubuntu 24.04"
  trawl search --sort size --dir asc --source nyaa "debian"
  trawl search --filter "netinst amd64" --json debian`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 20, "maximum number of results to print (0 = all)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().StringVar(&searchSort, "sort", string(domain.SortBySeeds), "sort key: seeds, size, date, name")
	searchCmd.Flags().StringVar(&searchDir, "dir", "", "sort direction: asc or desc (default depends on key)")
	searchCmd.Flags().StringVar(&searchSource, "source", domain.AllSource, "only show results from this tracker")
	searchCmd.Flags().StringVar(&searchFilter, "filter", "", "fuzzy title filter")
	rootCmd.AddCommand(searchCmd)
}

// searchReport is the JSON output of the search command.
type searchReport struct {
	Query   string                `json:"query"`
	Sort    domain.SortSpec       `json:"sort"`
	Total   int                   `json:"total"`
	Shown   int                   `json:"shown"`
	Partial bool                  `json:"partial,omitempty"`
	Error   string                `json:"error,omitempty"`
	Sources []domain.FacetEntry   `json:"sources"`
	Results []domain.ResultRecord `json:"results"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	svc, err := requireServices()
	if err != nil {
		return err
	}
	if svc.Collector == nil || svc.Results == nil {
		return errors.New("search service not configured")
	}

	spec, err := domain.ParseSortSpec(searchSort, searchDir)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	collection, streamErr := collect(ctx, svc.Collector, cmd.ErrOrStderr(), args[0], spec)
	if errors.Is(streamErr, domain.ErrEmptyQuery) {
		return streamErr
	}
	interrupted := errors.Is(streamErr, context.Canceled)
	if streamErr != nil && !interrupted && len(collection) == 0 {
		return fmt.Errorf("search failed: %w", streamErr)
	}

	visible := svc.Results.Filter(collection, searchFilter, searchSource)
	report := searchReport{
		Query:   strings.TrimSpace(args[0]),
		Sort:    spec,
		Total:   len(collection),
		Partial: streamErr != nil,
		Sources: svc.Results.Facets(collection, false),
		Results: visible,
	}
	switch {
	case interrupted:
		report.Error = "interrupted"
	case streamErr != nil:
		report.Error = streamErr.Error()
	}
	if searchLimit > 0 && len(report.Results) > searchLimit {
		report.Results = report.Results[:searchLimit]
	}
	report.Shown = len(report.Results)

	if searchJSON {
		return outputSearchJSON(cmd, report)
	}
	return outputSearchTable(cmd, report, len(visible))
}

// collect runs the stream alongside a progress reporter. Both stop when
// the stream ends or ctx is cancelled. A stream that fails before any
// record arrives fails the group; otherwise the partial collection is
// returned with the stream error.
func collect(
	ctx context.Context,
	collector driving.SearchCollector,
	stderr io.Writer,
	query string,
	spec domain.SortSpec,
) ([]domain.ResultRecord, error) {
	var (
		received   atomic.Int64
		collection []domain.ResultRecord
		streamErr  error
	)
	done := make(chan struct{})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(done)
		collection, streamErr = collector.Collect(gctx, query, spec, func(n int) {
			received.Store(int64(n))
		})
		if streamErr != nil && len(collection) == 0 {
			return streamErr
		}
		return nil
	})
	g.Go(func() error {
		reportProgress(gctx, done, stderr, &received)
		return nil
	})
	if err := g.Wait(); err != nil {
		logger.Debug("Search %q failed: %v", query, err)
		return nil, err
	}

	logger.Debug("Search %q collected %d records (err=%v)", query, len(collection), streamErr)
	return collection, streamErr
}

// reportProgress redraws a record counter on stderr until done closes.
// Nothing is drawn when stderr is not a terminal.
func reportProgress(ctx context.Context, done <-chan struct{}, stderr io.Writer, received *atomic.Int64) {
	f, ok := stderr.(*os.File)
	interactive := ok && term.IsTerminal(int(f.Fd()))

	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()

	clearLine := func() {
		if interactive {
			fmt.Fprint(stderr, "\r\033[K")
		}
	}

	for {
		select {
		case <-done:
			clearLine()
			return
		case <-ctx.Done():
			// The group cancels ctx once a failed stream has already ended.
			select {
			case <-done:
				clearLine()
				return
			default:
			}
			if interactive {
				fmt.Fprintf(stderr, "\r\033[KStopped after %s results\n", humanize.Comma(received.Load()))
			}
			<-done
			return
		case <-ticker.C:
			if interactive {
				fmt.Fprintf(stderr, "\r\033[KStreaming… %s results", humanize.Comma(received.Load()))
			}
		}
	}
}

func outputSearchJSON(cmd *cobra.Command, report searchReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, report searchReport, matched int) error {
	if report.Error != "" {
		cmd.PrintErrf("Warning: stream ended early: %s\n", report.Error)
	}
	if report.Total == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Sources: " + formatFacets(report.Sources))
	cmd.Println()
	if len(report.Results) == 0 {
		cmd.Println("No results match the current filter.")
		return nil
	}

	for i := range report.Results {
		r := &report.Results[i]
		cmd.Printf("  [%d] %s\n", i+1, r.Title)
		cmd.Printf("      %s\n", formatDetails(r))
	}
	cmd.Println()

	if matched == report.Total {
		cmd.Printf("Showing %d of %s results (%s)\n", report.Shown, humanize.Comma(int64(report.Total)), report.Sort)
	} else {
		cmd.Printf("Showing %d of %s matches, %s results total (%s)\n",
			report.Shown, humanize.Comma(int64(matched)), humanize.Comma(int64(report.Total)), report.Sort)
	}
	return nil
}

func formatFacets(facets []domain.FacetEntry) string {
	parts := make([]string, 0, len(facets))
	for _, f := range facets {
		parts = append(parts, fmt.Sprintf("%s %s", f.Source, humanize.Comma(int64(f.Count))))
	}
	return strings.Join(parts, " · ")
}

func formatDetails(r *domain.ResultRecord) string {
	parts := []string{"Seeders: " + formatOptional(r.Seeders, humanize.Comma)}
	if r.Size != nil {
		parts = append(parts, "Size: "+humanize.Bytes(uint64(max(*r.Size, 0))))
	} else {
		parts = append(parts, "Size: -")
	}
	if t, ok := r.PublishedAt(); ok {
		parts = append(parts, "Date: "+t.Format("2006-01-02"))
	}
	if r.Tracker != "" {
		parts = append(parts, "Source: "+r.Tracker)
	}
	return strings.Join(parts, "  ")
}

func formatOptional(v *int64, format func(int64) string) string {
	if v == nil {
		return "-"
	}
	return format(*v)
}
