// Command syncbreath-cli runs breathing sessions in a terminal and inspects
// the session journal and device frames.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"syncbreath/internal/storage"
)

const appName = "SyncBreath"

var (
	verbose     bool
	configPath  string
	journalPath string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "syncbreath-cli",
	Short: "SyncBreath guided breathing in the terminal",
	Long: `SyncBreath guides timed breathing cycles (inhale, hold, exhale, hold).

Run a session with "syncbreath-cli run", list the meditation modes with
"syncbreath-cli modes" and review past sessions with "syncbreath-cli history".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Settings file (default: user config dir)")
	rootCmd.PersistentFlags().StringVar(&journalPath, "journal", "", "Session journal (default: user config dir)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(modesCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(decodeCmd)
}

func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return storage.SettingsPath(appName)
}

func resolveJournalPath() (string, error) {
	if journalPath != "" {
		return journalPath, nil
	}
	return storage.DataPath(appName, "history.cbor")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
