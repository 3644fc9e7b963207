package ingest

import (
	"fmt"
	"io"
	"sort"

	"clawledge/pkg/models"
)

// PrintSummary writes the human-readable outcome of a batch. Invalid records
// are itemised only when verbose.
func PrintSummary(w io.Writer, res Result, outcome Outcome, total int, verbose bool) {
	switch outcome {
	case NothingToWrite:
		fmt.Fprintf(w, "No new cases to add (%d duplicates, %d invalid).\n", len(res.Duplicates), len(res.Invalid))
	case DryRun:
		fmt.Fprintf(w, "\n[DRY RUN] Would add %d cases:\n", res.Added())
		for _, c := range res.Accepted {
			fmt.Fprintf(w, "  - %s: %s [%s]\n", c.ID, c.Title, c.Category)
		}
		fmt.Fprintf(w, "\nSkipped: %d duplicates, %d invalid\n", len(res.Duplicates), len(res.Invalid))
	case Written:
		fmt.Fprintf(w, "\n✅ Added %d cases\n", res.Added())
		fmt.Fprintf(w, "Total cases: %d\n", total)
		if n := len(res.Duplicates); n > 0 {
			fmt.Fprintf(w, "Skipped: %d duplicates\n", n)
		}
		if n := len(res.Invalid); n > 0 {
			fmt.Fprintf(w, "Skipped: %d invalid\n", n)
		}
		fmt.Fprintln(w, "\nBy category:")
		for _, e := range sortedCounts(res.ByCategory()) {
			fmt.Fprintf(w, "  %s: +%d\n", e.cat, e.n)
		}
	}

	if verbose && len(res.Invalid) > 0 {
		fmt.Fprintf(w, "\nInvalid (%d):\n", len(res.Invalid))
		for _, r := range res.Invalid {
			fmt.Fprintf(w, "  - %q: %v\n", r.Title, r.Errors)
		}
	}
}

type catCount struct {
	cat models.Category
	n   int
}

// sortedCounts orders by count descending, then by name for stable output.
func sortedCounts(m map[models.Category]int) []catCount {
	out := make([]catCount, 0, len(m))
	for c, n := range m {
		out = append(out, catCount{c, n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].n != out[j].n {
			return out[i].n > out[j].n
		}
		return out[i].cat < out[j].cat
	})
	return out
}
