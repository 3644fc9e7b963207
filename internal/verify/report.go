package verify

import (
	"fmt"
	"io"
	"strings"

	"clawledge/internal/stats"
)

// PrintProgress returns a Progress callback that rewrites one status line.
func PrintProgress(w io.Writer) func(done, total int) {
	return func(done, total int) {
		fmt.Fprintf(w, "\r  %d/%d checked...", done, total)
	}
}

// WriteReport prints the counts followed by broken and redirected cases.
func WriteReport(w io.Writer, rep Report) {
	counts := rep.Counts()
	fmt.Fprintf(w, "\n\nURL Verification Report\n%s\n", strings.Repeat("─", 40))
	fmt.Fprintf(w, "OK: %d | Redirect: %d | Blocked: %d | Gone: %d | Timeout: %d | Error: %d\n",
		counts[StatusOK], counts[StatusRedirect], counts[StatusBlocked],
		counts[StatusGone], counts[StatusTimeout], counts[StatusError])

	if broken := rep.Broken(); len(broken) > 0 {
		fmt.Fprintf(w, "\nBROKEN (%d):\n", len(broken))
		for _, b := range broken {
			fmt.Fprintf(w, "  %s → %s %s\n", b.ID, b.Detail, b.URL)
		}
	}
	if moved := rep.Redirected(); len(moved) > 0 {
		fmt.Fprintf(w, "\nREDIRECTED (%d):\n", len(moved))
		for _, r := range moved {
			fmt.Fprintf(w, "  %s\n    from: %s\n    to:   %s\n", r.ID, r.URL, r.RedirectTo)
		}
	}
}

// WriteAuthors lists power users with the X profile to check for new posts.
func WriteAuthors(w io.Writer, authors []stats.Author) {
	fmt.Fprintln(w, "\nPower Users — Check these X profiles for new posts:")
	fmt.Fprintln(w)
	for _, a := range authors {
		profile := ""
		if a.Profile != "" {
			profile = " → " + a.Profile
		}
		fmt.Fprintf(w, "  %-25s %d cases%s\n", a.Handle, a.Count, profile)
	}
}
