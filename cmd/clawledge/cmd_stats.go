package main

import (
	"time"

	"github.com/spf13/cobra"

	"clawledge/internal/dataset"
	"clawledge/internal/stats"
)

var (
	statsBrief   bool
	statsJSON    bool
	statsAuthors bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarise the dataset",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsBrief, "brief", false, "One-line summary")
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Machine-readable output")
	statsCmd.Flags().BoolVar(&statsAuthors, "authors", false, "Include power users")
	statsCmd.MarkFlagsMutuallyExclusive("brief", "json")
}

func runStats(cmd *cobra.Command, args []string) error {
	ds, err := dataset.Load(cfg.Data.Cases)
	if err != nil {
		return err
	}
	repos, err := stats.CountRepos(cfg.Data.Repositories)
	if err != nil {
		return err
	}
	sum := stats.Compute(ds.Cases(), repos)

	out := cmd.OutOrStdout()
	switch {
	case statsJSON:
		return sum.WriteJSON(out)
	case statsBrief:
		sum.WriteBrief(out)
	default:
		sum.WriteReport(out, time.Now().Format(time.DateOnly), statsAuthors)
	}
	return nil
}
