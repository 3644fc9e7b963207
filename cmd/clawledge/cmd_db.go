package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"clawledge/internal/cases"
	"clawledge/internal/dataset"
	"clawledge/pkg/database"
)

var exportOut string

var syncDBCmd = &cobra.Command{
	Use:   "sync-db",
	Short: "Mirror the dataset into the SQLite database",
	Long: `Rebuilds the cases table from the dataset file. Rows whose id is no
longer in the dataset are removed.`,
	RunE: runSyncDB,
}

var exportCSVCmd = &cobra.Command{
	Use:   "export-csv",
	Short: "Export the mirrored cases as CSV",
	RunE:  runExportCSV,
}

func init() {
	exportCSVCmd.Flags().StringVarP(&exportOut, "out", "o", filepath.Join("data", "cases.csv"), "Output CSV path")
}

func runSyncDB(cmd *cobra.Command, args []string) error {
	ds, err := dataset.Load(cfg.Data.Cases)
	if err != nil {
		return err
	}

	db := database.MustOpen(database.Config{Path: cfg.Database.Path}, logger)
	defer db.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	removed, err := cases.Sync(ctx, db, ds.Cases())
	if err != nil {
		return fmt.Errorf("sync cases: %w", err)
	}
	logger.Info("cases synced",
		zap.String("db", cfg.Database.Path),
		zap.Int("cases", ds.Len()),
		zap.Int64("removed", removed))
	fmt.Fprintf(cmd.OutOrStdout(), "✅ synced %d cases to %s (%d removed)\n", ds.Len(), cfg.Database.Path, removed)
	return nil
}

func runExportCSV(cmd *cobra.Command, args []string) error {
	db := database.MustOpen(database.Config{Path: cfg.Database.Path}, logger)
	defer db.Close()

	if err := os.MkdirAll(filepath.Dir(exportOut), 0o755); err != nil {
		return err
	}
	f, err := os.Create(exportOut)
	if err != nil {
		return err
	}
	defer f.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	n, err := cases.ExportCSV(ctx, db, f)
	if err != nil {
		return fmt.Errorf("export cases: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✅ exported %d cases to %s\n", n, exportOut)
	return nil
}
