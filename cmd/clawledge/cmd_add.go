package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"clawledge/internal/dataset"
	"clawledge/internal/ingest"
	"clawledge/pkg/models"
)

var (
	addFile   string
	addStdin  bool
	addDryRun bool
)

var addCasesCmd = &cobra.Command{
	Use:   "add-cases",
	Short: "Merge pending cases into the dataset",
	Long: `Reads every *.json file in the pending directory (or --file, or
--stdin), runs the records through the ingestion pipeline and appends the
accepted ones to the dataset. Processed pending files are moved to done/.`,
	RunE: runAddCases,
}

func init() {
	addCasesCmd.Flags().StringVar(&addFile, "file", "", "Process a single file")
	addCasesCmd.Flags().BoolVar(&addStdin, "stdin", false, "Read cases from standard input")
	addCasesCmd.Flags().BoolVar(&addDryRun, "dry-run", false, "Preview without writing")
	addCasesCmd.MarkFlagsMutuallyExclusive("file", "stdin")
}

func runAddCases(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	var (
		pending []models.PartialCase
		files   []string
	)
	switch {
	case addStdin:
		cases, err := dataset.ReadPartials(cmd.InOrStdin())
		if err != nil {
			return err
		}
		pending = cases
	case addFile != "":
		batch, err := dataset.LoadPartials([]string{addFile})
		if err != nil {
			return fmt.Errorf("cannot read %s: %w", addFile, err)
		}
		pending, files = batch.Cases, batch.Files
	default:
		dir := cfg.Data.PendingDir
		paths, err := dataset.PendingFiles(dir)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			fmt.Fprintf(out, "No pending files found in %s. Nothing to process.\n", dir)
			return nil
		}
		batch, err := dataset.LoadPartials(paths)
		if err != nil {
			// unreadable files are skipped; the rest still merge
			logger.Warn("skipping pending files", zap.Error(err))
		}
		pending, files = batch.Cases, batch.Files
	}

	if len(pending) == 0 {
		fmt.Fprintln(out, "No cases to add.")
		return nil
	}

	ds, err := dataset.Load(cfg.Data.Cases)
	if err != nil {
		return err
	}

	res := ingest.NewPipeline(ds.Cases(), logger).Run(pending)
	outcome, err := ingest.Commit(ds, cfg.Data.Cases, res, addDryRun)
	if err != nil {
		return err
	}
	ingest.PrintSummary(out, res, outcome, ds.Len(), true)

	if outcome != ingest.Written || addStdin {
		return nil
	}
	done := filepath.Join(cfg.Data.PendingDir, dataset.DoneDir)
	if addFile != "" {
		done = filepath.Join(filepath.Dir(addFile), dataset.DoneDir)
	}
	if err := dataset.ArchiveFiles(files, done); err != nil {
		return err
	}
	fmt.Fprintf(out, "Moved %d file(s) to %s\n", len(files), done)
	return nil
}
