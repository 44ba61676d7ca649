package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/VantageDataChat/studiomap/pptx"
)

var (
	previewOut      string
	previewWidth    int
	previewFontDirs []string
)

var previewCmd = &cobra.Command{
	Use:   "preview [deck.pptx]",
	Short: "Render every slide of a deck to PNG",
	Args:  cobra.ExactArgs(1),
	RunE:  runPreview,
}

func init() {
	previewCmd.Flags().StringVar(&previewOut, "out", "", "Output directory (default: next to the deck)")
	previewCmd.Flags().IntVar(&previewWidth, "width", 1280, "Image width in pixels")
	previewCmd.Flags().StringSliceVar(&previewFontDirs, "font-dir", nil, "Extra font directory")
}

func runPreview(cmd *cobra.Command, args []string) error {
	pres, err := pptx.Open(args[0])
	if err != nil {
		return err
	}
	dir := previewOut
	if dir == "" {
		dir = filepath.Dir(args[0])
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}
	base := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	for i, slide := range pres.GetAllSlides() {
		if skipped := slide.Skipped(); len(skipped) > 0 {
			logger.Warn("elements not rendered", zap.Int("slide", i+1), zap.Strings("elements", skipped))
		}
	}

	opts := pptx.DefaultRenderOptions()
	opts.Width = previewWidth
	opts.FontDirs = previewFontDirs
	paths, err := pres.SaveSlidesAsImages(filepath.Join(dir, base+"_%02d.png"), opts)
	for _, p := range paths {
		cmd.Println(p)
	}
	if err != nil {
		return err
	}
	logger.Info("preview written", zap.Int("slides", len(paths)), zap.String("dir", dir))
	return nil
}
