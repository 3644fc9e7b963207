package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"clawledge/internal/dataset"
	"clawledge/internal/submissions"
	"clawledge/pkg/database"
)

type env struct {
	dir     string
	data    string
	pending string
	db      string
}

func newEnv(t *testing.T) env {
	t.Helper()
	dir := t.TempDir()
	e := env{
		dir:     dir,
		data:    filepath.Join(dir, "use-cases.json"),
		pending: filepath.Join(dir, "pending"),
		db:      filepath.Join(dir, "clawledge.db"),
	}
	require.NoError(t, os.WriteFile(e.data, []byte("[]\n"), 0o644))
	require.NoError(t, os.MkdirAll(e.pending, 0o755))
	t.Setenv("CLAWLEDGE_PENDING_DIR", e.pending)
	t.Setenv("CLAWLEDGE_DB_PATH", e.db)
	return e
}

// resetFlags puts every flag back to its default so commands can run more
// than once in the same process.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func (e env) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetArgs(append([]string{"--config", filepath.Join(e.dir, "none.yaml"), "--data", e.data}, args...))
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (e env) cases(t *testing.T) int {
	t.Helper()
	ds, err := dataset.Load(e.data)
	require.NoError(t, err)
	return ds.Len()
}

const pendingJSON = `[
  {"title": "Inbox triage bot", "description": "Sorts my inbox every morning.", "source": {"url": "https://x.com/alice/status/1"}},
  {"title": "Inbox triage bot again", "description": "Sorts my inbox every morning.", "source": {"url": "https://x.com/alice/status/1/"}},
  {"title": "x"}
]`

func TestAddCasesStdinDryRun(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, pendingJSON, "add-cases", "--stdin", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "[DRY RUN] Would add 1 cases")
	assert.Contains(t, out, "inbox-triage-bot")
	assert.Contains(t, out, "Skipped: 1 duplicates, 1 invalid")
	assert.Equal(t, 0, e.cases(t))
}

func TestAddCasesFromPendingDir(t *testing.T) {
	e := newEnv(t)
	file := filepath.Join(e.pending, "batch.json")
	require.NoError(t, os.WriteFile(file, []byte(pendingJSON), 0o644))

	out, err := e.run(t, "", "add-cases")
	require.NoError(t, err)
	assert.Contains(t, out, "Added 1 cases")
	assert.Equal(t, 1, e.cases(t))

	assert.NoFileExists(t, file)
	assert.FileExists(t, filepath.Join(e.pending, dataset.DoneDir, "batch.json"))

	// a second run has nothing left to do
	out, err = e.run(t, "", "add-cases")
	require.NoError(t, err)
	assert.Contains(t, out, "No pending files found")

	out, err = e.run(t, "", "stats", "--brief")
	require.NoError(t, err)
	assert.Equal(t, "1 cases, 1 cats, 0 verified, 0 repos\n", out)
}

func TestAddCasesRejectsBadStdin(t *testing.T) {
	e := newEnv(t)
	_, err := e.run(t, "{not json", "add-cases", "--stdin")
	assert.ErrorContains(t, err, "invalid JSON")
	assert.Equal(t, 0, e.cases(t))
}

func TestImportExcelPending(t *testing.T) {
	e := newEnv(t)

	f := excelize.NewFile()
	rows := [][]any{
		{"Title", "Link", "Beschreibung"},
		{"Meal planner agent", "https://example.com/meals", "Plans a week of meals from the fridge."},
		{"Price watcher", "https://example.com/prices", "Tracks prices and pings on drops."},
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	book := filepath.Join(e.dir, "cases.xlsx")
	require.NoError(t, f.SaveAs(book))
	require.NoError(t, f.Close())

	out, err := e.run(t, "", "import-excel", book, "--pending")
	require.NoError(t, err)
	assert.Contains(t, out, "Valid new cases: 2")
	assert.Contains(t, out, "multi-column")

	files, err := dataset.PendingFiles(e.pending)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.True(t, strings.HasPrefix(filepath.Base(files[0]), "excel-"))
	assert.Equal(t, 0, e.cases(t), "pending mode leaves the dataset alone")

	_, err = e.run(t, "", "import-excel", filepath.Join(e.dir, "missing.xlsx"))
	assert.ErrorContains(t, err, "excel file not found")
}

func TestReviewWithLocalSheet(t *testing.T) {
	e := newEnv(t)
	t.Setenv("CLAWLEDGE_SHEET_BACKEND", "sqlite")

	db, err := database.Open(database.Config{Path: e.db})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	store := submissions.NewSQLiteStore(db)
	require.NoError(t, store.Append(context.Background(), submissions.Row{
		Timestamp:   "2026-03-01T10:00:00Z",
		Title:       "Morning briefing from my calendar",
		Description: "Reads the calendar and sends a summary every morning.",
		Name:        "Bob",
		Contact:     "@bob",
		URL:         "https://example.com/briefing",
		Category:    "productivity",
		Monetizable: "No",
		Attribution: "Yes",
		Status:      submissions.StatusPending,
	}))
	require.NoError(t, db.Close())

	out, err := e.run(t, "", "review")
	require.NoError(t, err)
	assert.Contains(t, out, "1 Pending Submission(s)")
	assert.Contains(t, out, "[1] Morning briefing from my calendar")

	_, err = e.run(t, "", "review", "approve", "7")
	assert.ErrorIs(t, err, submissions.ErrRowOutOfRange)
	assert.Equal(t, 0, e.cases(t))

	out, err = e.run(t, "", "review", "approve", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "ID: morning-briefing-from-my-calendar")
	assert.Equal(t, 1, e.cases(t))

	_, err = e.run(t, "", "review", "approve", "1")
	assert.ErrorIs(t, err, submissions.ErrNotPending)

	out, err = e.run(t, "", "review", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Approved: 1")
}

func TestReviewWithoutCredentials(t *testing.T) {
	e := newEnv(t)
	t.Setenv("CLAWLEDGE_SHEET_BACKEND", "google")
	t.Setenv("GOOGLE_SHEET_ID", "sheet")

	_, err := e.run(t, "", "review", "list")
	assert.ErrorIs(t, err, submissions.ErrNoCredentials)
}

func TestHashPassword(t *testing.T) {
	e := newEnv(t)

	out, err := e.run(t, "correct horse battery\n", "admin", "hash-password")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "$2"))

	_, err = e.run(t, "", "admin", "hash-password", "short")
	assert.Error(t, err)
}
