package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/VantageDataChat/studiomap"
	"github.com/VantageDataChat/studiomap/pptx"
)

var (
	deckOutput       string
	deckTemplates    string
	deckMeasureFonts bool
	deckFontDirs     []string
	deckNoProgress   bool
)

var deckCmd = &cobra.Command{
	Use:   "deck [deck.yaml]",
	Short: "Assemble a PowerPoint deck from template slides and maps",
	Long: `Runs every step of the deck file in order: load the template slide,
draw the map when the step has one, and move on. The deck is written only
when every step succeeded.`,
	Args: cobra.ExactArgs(1),
	RunE: runDeck,
}

func init() {
	deckCmd.Flags().StringVarP(&deckOutput, "output", "o", "", "Output .pptx (overrides the deck file)")
	deckCmd.Flags().StringVar(&deckTemplates, "templates", "", "Template directory (default: the deck file's directory)")
	deckCmd.Flags().BoolVar(&deckMeasureFonts, "measure-fonts", false, "Size label boxes with installed font metrics")
	deckCmd.Flags().StringSliceVar(&deckFontDirs, "font-dir", nil, "Extra font directory for --measure-fonts")
	deckCmd.Flags().BoolVar(&deckNoProgress, "no-progress", false, "Disable the progress bar")
}

func runDeck(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, d, err := loadInputs()
	if err != nil {
		return err
	}
	spec, err := studiomap.LoadDeckSpec(args[0])
	if err != nil {
		return err
	}
	if deckOutput != "" {
		spec.Output = deckOutput
	}
	base := deckTemplates
	if base == "" {
		base = filepath.Dir(args[0])
	}

	a := studiomap.NewAssembler(d, cfg, base)
	a.Logger = logger
	if deckMeasureFonts {
		a.Measurer = pptx.NewFontCache(deckFontDirs...)
	}
	if !deckNoProgress {
		bar := newProgressBar(len(spec.Slides))
		a.Progress = func(done, total int) { _ = bar.Set(done) }
		defer bar.Finish()
	}

	start := time.Now()
	if err := a.Assemble(ctx, spec); err != nil {
		return err
	}
	logger.Info("deck written",
		zap.String("output", spec.Output),
		zap.Int("slides", len(spec.Slides)),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

func newProgressBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription("slides"),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{Saucer: "#", SaucerPadding: " ", BarStart: "|", BarEnd: "|"}),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetRenderBlankState(true),
	)
}
