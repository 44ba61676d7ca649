package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/VantageDataChat/studiomap"
)

var (
	webOutput string
	webDeck   string
	webTitle  string
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Write the interactive HTML page",
	Long: `Writes a single self-contained HTML page with one map per view, hover
details for every studio and a region and name filter. Views default to the
founded, current and growth maps; --deck takes them from a deck file instead.`,
	Args: cobra.NoArgs,
	RunE: runWeb,
}

func init() {
	webCmd.Flags().StringVarP(&webOutput, "output", "o", "studiomap.html", "Output HTML file")
	webCmd.Flags().StringVar(&webDeck, "deck", "", "Take the views from this deck file")
	webCmd.Flags().StringVar(&webTitle, "title", "", "Page title")
}

func pageOptions() (studiomap.PageOptions, error) {
	opts := studiomap.PageOptions{Title: webTitle}
	if webDeck != "" {
		spec, err := studiomap.LoadDeckSpec(webDeck)
		if err != nil {
			return opts, err
		}
		opts.Views = spec.Views()
		if opts.Title == "" {
			opts.Title = spec.Title
		}
	}
	return opts, nil
}

func runWeb(cmd *cobra.Command, args []string) error {
	cfg, d, err := loadInputs()
	if err != nil {
		return err
	}
	opts, err := pageOptions()
	if err != nil {
		return err
	}
	if err := studiomap.WritePageFile(webOutput, d, cfg, opts); err != nil {
		return err
	}
	logger.Info("page written", zap.String("output", webOutput))
	return nil
}
