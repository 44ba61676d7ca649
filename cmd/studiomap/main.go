package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/VantageDataChat/studiomap"
)

var (
	// Global flags
	verbose    bool
	configPath string
	dataPath   string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:     "studiomap",
	Short:   "Positioning maps of animation studios as PowerPoint decks and web pages",
	Version: studiomap.Version,
	Long: `studiomap places animation studios on a positioning map: originality
score on the horizontal axis, team size on a logarithmic vertical axis.

It assembles template slides and rendered maps into a .pptx deck, writes an
interactive HTML page with switchable views, and previews decks as PNG.`,
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
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Map configuration file (YAML, default: built-in)")
	rootCmd.PersistentFlags().StringVarP(&dataPath, "data", "d", "studios.yaml", "Studio dataset file (YAML)")

	rootCmd.AddCommand(deckCmd)
	rootCmd.AddCommand(webCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(checkCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadInputs reads the configuration and the dataset named by the global flags.
func loadInputs() (*studiomap.Config, *studiomap.Dataset, error) {
	cfg := studiomap.DefaultConfig()
	if configPath != "" {
		var err error
		cfg, err = studiomap.LoadConfig(configPath)
		if err != nil {
			return nil, nil, err
		}
	}
	d, err := studiomap.LoadDataset(dataPath)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("inputs loaded",
		zap.String("config", configPath),
		zap.String("data", dataPath),
		zap.Int("studios", d.Len()))
	return cfg, d, nil
}
