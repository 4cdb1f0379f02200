// Package report renders the accumulated run statistics as a
// human-readable progress report.
package report

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/gw31415/eschaton/internal/aggregator"
	"github.com/gw31415/eschaton/internal/rotation"
)

// termHeaders label the term columns of the vacancy table.
var termHeaders = [rotation.NumTerms]string{"①", "②", "③", "④", "⑤", "⑥"}

// Renderer writes progress reports to a stream, usually stdout.
type Renderer struct {
	w io.Writer
}

// NewRenderer creates a renderer writing to w.
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

// Render writes one report: the mean number of seats left vacant per
// term and category, the overall trial and success counts, and the
// participants ranked by how often they failed to complete.
//
// Parameters:
//   - stats: Statistics snapshot to render
//
// Returns:
//   - error: Error if the underlying writer fails
func (r *Renderer) Render(stats *aggregator.Stats) error {
	if err := r.renderVacants(stats); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(r.w, "TRIAL: %d, SUCCESS: %d (%.3f %%)\n",
		stats.Trials, stats.Successes, stats.SuccessRate()*100); err != nil {
		return err
	}

	return r.renderFails(stats)
}

// renderVacants writes the mean vacant seats per term and category.
func (r *Renderer) renderVacants(stats *aggregator.Stats) error {
	tw := tabwriter.NewWriter(r.w, 2, 4, 2, ' ', 0)

	fmt.Fprint(tw, "平均残席数")
	for _, h := range termHeaders {
		fmt.Fprintf(tw, "\t%s", h)
	}
	fmt.Fprintln(tw)

	for _, cat := range rotation.Categories {
		fmt.Fprint(tw, cat.Label())
		for term := 0; term < rotation.NumTerms; term++ {
			fmt.Fprintf(tw, "\t%s", meanCell(stats.Vacants[term].Get(cat), stats.Trials))
		}
		fmt.Fprintln(tw)
	}

	return tw.Flush()
}

// renderFails writes the ranked failure table, most frequent first.
// Ties keep a stable order by name.
func (r *Renderer) renderFails(stats *aggregator.Stats) error {
	type entry struct {
		name  string
		count int64
	}

	entries := make([]entry, 0, len(stats.Fails))
	for name, count := range stats.Fails {
		entries = append(entries, entry{name, count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}

		return entries[i].name < entries[j].name
	})

	tw := tabwriter.NewWriter(r.w, 2, 4, 2, ' ', 0)
	for rank, e := range entries {
		rate := 100 * float64(e.count) / float64(stats.Trials)
		fmt.Fprintf(tw, "%d\t%s\t%d\t%.3f %%\n", rank+1, e.name, e.count, rate)
	}

	return tw.Flush()
}

// meanCell formats the mean of a summed vacancy count over the trial
// count. A sum of zero renders as a bare zero.
func meanCell(sum int, trials int64) string {
	if sum == 0 {
		return "0"
	}

	return fmt.Sprintf("%.2f", float64(sum)/float64(trials))
}
