// Command clawledge maintains the use-case dataset: it ingests pending
// files, spreadsheets and reviewed submissions, checks source links and
// reports on the collection.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"clawledge/internal/config"
	"clawledge/internal/logging"
)

var (
	// Global flags
	configPath string
	dataPath   string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "clawledge",
	Short: "Clawledge dataset maintenance",
	Long: `clawledge keeps the use-case dataset in shape.

Pending JSON files, Excel workbooks and community submissions all go
through the same defaults, validation and duplicate checks before a
single write to the dataset file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if dataPath != "" {
			cfg.Data.Cases = dataPath
		}

		logger, err = logging.New(logging.Config{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
		}, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger.Debug("config loaded",
			zap.String("config", configPath),
			zap.String("data", cfg.Data.Cases))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Config file")
	rootCmd.PersistentFlags().StringVar(&dataPath, "data", "", "Dataset file (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(
		addCasesCmd,
		importExcelCmd,
		reviewCmd,
		verifyURLsCmd,
		statsCmd,
		syncDBCmd,
		exportCSVCmd,
		adminCmd,
	)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
