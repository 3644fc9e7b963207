package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"clawledge/internal/submissions"
	"clawledge/pkg/database"
)

var reviewDryRun bool

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review community submissions",
	Long: `Lists pending rows of the submission sheet. Approving a row runs it
through the ingestion pipeline and appends it to the dataset; the row
is marked approved only after the dataset was written.`,
	RunE: runReviewList,
}

var reviewListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pending submissions",
	RunE:  runReviewList,
}

var reviewApproveCmd = &cobra.Command{
	Use:   "approve N",
	Short: "Import submission N into the dataset",
	Args:  cobra.ExactArgs(1),
	RunE:  runReviewApprove,
}

var reviewRejectCmd = &cobra.Command{
	Use:   "reject N",
	Short: "Mark submission N as rejected",
	Args:  cobra.ExactArgs(1),
	RunE:  runReviewReject,
}

var reviewStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Count submissions per status",
	RunE:  runReviewStats,
}

func init() {
	reviewApproveCmd.Flags().BoolVar(&reviewDryRun, "dry-run", false, "Show the case without writing")
	reviewCmd.AddCommand(reviewListCmd, reviewApproveCmd, reviewRejectCmd, reviewStatsCmd)
}

// newReviewer opens the configured submission store. The returned closer
// releases the local database, if one was opened.
func newReviewer(ctx context.Context) (*submissions.Reviewer, func(), error) {
	var (
		store submissions.Store
		db    *sql.DB
	)
	switch cfg.Sheet.Backend {
	case "sqlite":
		var err error
		db, err = database.Open(database.Config{Path: cfg.Database.Path})
		if err != nil {
			return nil, nil, err
		}
		if err := database.Migrate(db); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("db migrate failed: %w", err)
		}
		store = submissions.NewSQLiteStore(db)
	case "", "google":
		gs, err := submissions.NewGoogleStore(ctx, submissions.GoogleConfig{
			SpreadsheetID:       cfg.Sheet.SpreadsheetID,
			SheetName:           cfg.Sheet.SheetName,
			CredentialsFile:     cfg.Sheet.CredentialsFile,
			ServiceAccountEmail: cfg.Sheet.ServiceAccountEmail,
			PrivateKey:          cfg.Sheet.PrivateKey,
		})
		if errors.Is(err, submissions.ErrNoCredentials) {
			return nil, nil, fmt.Errorf("%w: set GOOGLE_SERVICE_ACCOUNT_EMAIL and GOOGLE_PRIVATE_KEY or provide %s",
				err, cfg.Sheet.CredentialsFile)
		}
		if err != nil {
			return nil, nil, err
		}
		store = gs
	default:
		return nil, nil, fmt.Errorf("unknown sheet backend %q", cfg.Sheet.Backend)
	}

	closer := func() {
		if db != nil {
			_ = db.Close()
		}
	}
	return &submissions.Reviewer{
		Store:    store,
		DataPath: cfg.Data.Cases,
		Logger:   logger,
	}, closer, nil
}

func runReviewList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	r, closer, err := newReviewer(ctx)
	if err != nil {
		return err
	}
	defer closer()

	pending, err := r.Pending(ctx)
	if err != nil {
		return fmt.Errorf("read submissions: %w", err)
	}
	printPending(cmd.OutOrStdout(), pending)
	return nil
}

func printPending(w io.Writer, pending []submissions.Numbered) {
	if len(pending) == 0 {
		fmt.Fprintln(w, "✅ No pending submissions to review.")
		return
	}
	fmt.Fprintf(w, "📥 %d Pending Submission(s)\n", len(pending))
	fmt.Fprintln(w, strings.Repeat("═", 60))
	for _, p := range pending {
		row := p.Row
		submitted := "—"
		if t := row.Submitted(); !t.IsZero() {
			submitted = t.Format("2006-01-02")
		}
		fmt.Fprintf(w, "\n[%d] %s\n", p.N, row.Title)
		fmt.Fprintf(w, "    By: %s (%s)\n", row.Name, row.Contact)
		fmt.Fprintf(w, "    Category: %s  |  Difficulty: %s  |  Cost: %s\n", dash(row.Category), dash(row.Difficulty), dash(row.Cost))
		fmt.Fprintf(w, "    URL: %s\n", dash(row.URL))
		fmt.Fprintf(w, "    Skills: %s\n", dash(row.Skills))
		fmt.Fprintf(w, "    Monetizable: %s  |  Submitted: %s\n", row.Monetizable, submitted)
		fmt.Fprintf(w, "    Description: %s\n", clip(row.Description, 120))
	}
	fmt.Fprintln(w, "\n"+strings.Repeat("═", 60))
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  clawledge review approve N  →  Import submission N into the dataset")
	fmt.Fprintln(w, "  clawledge review reject N   →  Mark submission N as rejected")
}

func runReviewApprove(cmd *cobra.Command, args []string) error {
	n, err := rowArg(args[0])
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	r, closer, err := newReviewer(ctx)
	if err != nil {
		return err
	}
	defer closer()

	a, err := r.Approve(ctx, n, reviewDryRun)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !a.Written {
		fmt.Fprintf(out, "[DRY RUN] Would approve %q as %s [%s]\n", a.Row.Title, a.Case.ID, a.Case.Category)
		return nil
	}
	fmt.Fprintf(out, "✅ Approved & imported: %q\n", a.Row.Title)
	fmt.Fprintf(out, "   ID: %s\n", a.Case.ID)
	fmt.Fprintf(out, "   Category: %s\n", a.Case.Category)
	fmt.Fprintf(out, "   Added to %s (%d total)\n", cfg.Data.Cases, a.Total)
	return nil
}

func runReviewReject(cmd *cobra.Command, args []string) error {
	n, err := rowArg(args[0])
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	r, closer, err := newReviewer(ctx)
	if err != nil {
		return err
	}
	defer closer()

	row, err := r.Reject(ctx, n)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "🚫 Rejected: %q\n", row.Title)
	return nil
}

func runReviewStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	r, closer, err := newReviewer(ctx)
	if err != nil {
		return err
	}
	defer closer()

	st, err := r.Stats(ctx)
	if err != nil {
		return fmt.Errorf("read submissions: %w", err)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "📊 Submission Statistics")
	fmt.Fprintln(out, strings.Repeat("═", 40))
	fmt.Fprintf(out, "Total:    %d\n", st.Total)
	fmt.Fprintf(out, "Pending:  %d\n", st.Pending)
	fmt.Fprintf(out, "Approved: %d\n", st.Approved)
	fmt.Fprintf(out, "Rejected: %d\n", st.Rejected)
	return nil
}

func rowArg(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %q is not a row number", submissions.ErrRowOutOfRange, s)
	}
	return n, nil
}

func dash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
