package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"clawledge/internal/dataset"
	"clawledge/internal/ingest"
	"clawledge/internal/sheet"
)

const defaultWorkbook = "openclawusecases.xlsx"

var (
	excelDryRun  bool
	excelPending bool
)

var importExcelCmd = &cobra.Command{
	Use:   "import-excel [workbook.xlsx]",
	Short: "Import cases from a multi-sheet Excel workbook",
	Long: `Every sheet is parsed on its own: sheets with recognisable columns go
through column detection, single-column sheets through the free-text
parser. The result is merged into the dataset, or written as a dated
pending file with --pending.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImportExcel,
}

func init() {
	importExcelCmd.Flags().BoolVar(&excelDryRun, "dry-run", false, "Preview without writing")
	importExcelCmd.Flags().BoolVar(&excelPending, "pending", false, "Write accepted cases to the pending directory instead of the dataset")
}

func runImportExcel(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	path := defaultWorkbook
	if len(args) == 1 {
		path = args[0]
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("excel file not found: %s", path)
	}

	wb, err := sheet.ReadWorkbook(path)
	if err != nil {
		return err
	}
	imp := sheet.ParseWorkbook(wb)

	ds, err := dataset.Load(cfg.Data.Cases)
	if err != nil {
		return err
	}
	res := ingest.NewPipeline(ds.Cases(), logger).Run(imp.Cases)

	printImport(out, path, imp, res)

	if excelPending {
		return writePending(out, res)
	}
	outcome, err := ingest.Commit(ds, cfg.Data.Cases, res, excelDryRun)
	if err != nil {
		return err
	}
	ingest.PrintSummary(out, res, outcome, ds.Len(), verbose)
	return nil
}

func printImport(w io.Writer, path string, imp sheet.Import, res ingest.Result) {
	fmt.Fprintln(w, "\nExcel Import Summary")
	fmt.Fprintln(w, strings.Repeat("─", 40))
	fmt.Fprintf(w, "File: %s\n", path)
	fmt.Fprintln(w, "Sheets:")
	for _, r := range imp.Sheets {
		fmt.Fprintf(w, "  %-15s %d rows → %d parsed (%s)\n", r.Name, r.Rows, r.Cases, r.Layout)
	}
	fmt.Fprintf(w, "\nTotal parsed:    %d\n", len(imp.Cases))
	fmt.Fprintf(w, "Valid new cases: %d\n", res.Added())
	fmt.Fprintf(w, "Duplicates:      %d\n", len(res.Duplicates))
	fmt.Fprintf(w, "Invalid:         %d\n", len(res.Invalid))
}

func writePending(w io.Writer, res ingest.Result) error {
	if res.Added() == 0 {
		fmt.Fprintln(w, "\nNo new cases to add.")
		return nil
	}
	if excelDryRun {
		fmt.Fprintf(w, "\n[DRY RUN] Would write %d cases:\n", res.Added())
		for _, c := range res.Accepted {
			fmt.Fprintf(w, "  - %s [%s]\n", c.Title, c.Category)
		}
		return nil
	}

	name := fmt.Sprintf("excel-%s.json", time.Now().UTC().Format(time.DateOnly))
	dest := filepath.Join(cfg.Data.PendingDir, name)
	if err := dataset.WriteJSON(dest, res.Accepted); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}
	fmt.Fprintf(w, "\n✅ Output: %s (%d cases)\n", dest, res.Added())
	fmt.Fprintln(w, `Next: run "clawledge add-cases" to merge into the dataset`)
	return nil
}
