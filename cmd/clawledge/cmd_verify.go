package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"clawledge/internal/dataset"
	"clawledge/internal/schema"
	"clawledge/internal/stats"
	"clawledge/internal/verify"
	"clawledge/pkg/models"
)

var (
	verifyPending bool
	verifyID      string
	verifyFix     bool
	verifyAuthors bool
)

var verifyURLsCmd = &cobra.Command{
	Use:   "verify-urls",
	Short: "Check that case source URLs still resolve",
	RunE:  runVerifyURLs,
}

func init() {
	verifyURLsCmd.Flags().BoolVar(&verifyPending, "pending", false, "Check only pending files")
	verifyURLsCmd.Flags().StringVar(&verifyID, "id", "", "Check cases whose id contains this pattern")
	verifyURLsCmd.Flags().BoolVar(&verifyFix, "fix", false, "Set broken cases to verified: false")
	verifyURLsCmd.Flags().BoolVar(&verifyAuthors, "authors", false, "List power users with their X profiles")
}

func runVerifyURLs(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	var (
		ds    *dataset.Dataset
		cases []models.Case
	)
	if verifyPending {
		paths, err := dataset.PendingFiles(cfg.Data.PendingDir)
		if err != nil {
			return err
		}
		batch, err := dataset.LoadPartials(paths)
		if err != nil {
			logger.Warn("skipping pending files", zap.Error(err))
		}
		for _, p := range batch.Cases {
			cases = append(cases, schema.ApplyDefaults(p))
		}
	} else {
		var err error
		ds, err = dataset.Load(cfg.Data.Cases)
		if err != nil {
			return err
		}
		cases = ds.Cases()
	}

	cases = verify.FilterID(cases, verifyID)
	if len(cases) == 0 {
		fmt.Fprintln(out, "No cases to check.")
		return nil
	}

	if verifyAuthors {
		all := cases
		if ds == nil {
			full, err := dataset.Load(cfg.Data.Cases)
			if err != nil {
				return err
			}
			all = full.Cases()
		}
		verify.WriteAuthors(out, stats.PowerUsers(all, stats.PowerUserMin))
		return nil
	}

	ch := verify.NewChecker(logger)
	if cfg.Verify.BatchSize > 0 {
		ch.BatchSize = cfg.Verify.BatchSize
	}
	if cfg.Verify.Timeout > 0 {
		ch.Timeout = cfg.Verify.Timeout
	}
	ch.Delay = cfg.Verify.Delay
	if cfg.Verify.UserAgent != "" {
		ch.UserAgent = cfg.Verify.UserAgent
	}
	if cfg.Verify.OEmbedURL != "" {
		ch.OEmbedURL = cfg.Verify.OEmbedURL
	}
	ch.Progress = verify.PrintProgress(out)

	fmt.Fprintf(out, "\nChecking %d URLs...\n\n", len(cases))
	rep, err := ch.Check(cmd.Context(), cases)
	verify.WriteReport(out, rep)
	if err != nil {
		return fmt.Errorf("check interrupted after %d URLs: %w", len(rep.Results), err)
	}

	if !verifyFix || ds == nil {
		return nil
	}
	if fixed := verify.Fix(ds, rep); fixed > 0 {
		if err := ds.Save(cfg.Data.Cases); err != nil {
			return err
		}
		fmt.Fprintf(out, "\n🔧 Set %d broken cases to verified: false\n", fixed)
	}
	return nil
}
