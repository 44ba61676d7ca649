package studiomap

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/samber/lo"
)

//go:embed templates/page.html.tmpl
var pageFS embed.FS

var pageTemplate = template.Must(template.ParseFS(pageFS, "templates/page.html.tmpl"))

// PageOptions configures the interactive page.
type PageOptions struct {
	Title    string
	Views    []MapView // DefaultViews when empty
	Measurer Measurer
}

// StudioHover is the tooltip content of one studio.
type StudioHover struct {
	Name   string   `json:"name"`
	Region Region   `json:"region"`
	Lines  []string `json:"lines"`
}

type pageView struct {
	Key   string
	Title string
	SVG   template.HTML
}

type pageData struct {
	Title   string
	Views   []pageView
	Studios []StudioHover
	Legend  [2]string
	Palette Palette
}

// HoverLines returns the tooltip lines for r: region, founding year, team
// size, originality score, the categorical fields that are set and up to
// three notable works. Category keys are shown with their labels from cfg.
func HoverLines(r StudioRecord, cfg *Config) []string {
	name := r.Name
	if r.NameEN != "" && r.NameEN != r.Name {
		name = fmt.Sprintf("%s (%s)", r.Name, r.NameEN)
	}
	lines := []string{name, "分類: " + r.Region.Label()}
	if r.Founded > 0 {
		lines = append(lines, fmt.Sprintf("設立: %d年", r.Founded))
	}
	size := humanize.Comma(int64(r.CurrentTeamSize)) + "人"
	if r.Grew() {
		size = humanize.Comma(int64(r.FoundedTeamSize)) + "人 → " + size
	}
	lines = append(lines,
		"人数: "+size,
		fmt.Sprintf("オリジナルスコア: %.2f", r.OriginalityScore),
	)
	if r.Ownership != "" {
		lines = append(lines, "所有形態: "+categoryLabel(cfg.Categories.Ownership, r.Ownership))
	}
	if r.AIAdoption != "" && r.AIAdoption != "none" {
		ai := "AI活用: " + categoryLabel(cfg.Categories.AIAdoption, r.AIAdoption)
		if r.AIDetail != "" {
			ai += " (" + r.AIDetail + ")"
		}
		lines = append(lines, ai)
	}
	if len(r.Platforms) > 0 {
		lines = append(lines, "主要PF: "+strings.Join(r.Platforms, ", "))
	}
	if len(r.NotableWorks) > 0 {
		works := r.NotableWorks[:min(3, len(r.NotableWorks))]
		lines = append(lines, "代表作: "+strings.Join(works, "、"))
	}
	return lines
}

// RenderPage writes the interactive page: one SVG per view with buttons to
// switch between them, hover tooltips and a studio filter.
func RenderPage(w io.Writer, d *Dataset, cfg *Config, opts PageOptions) error {
	views := opts.Views
	if len(views) == 0 {
		views = DefaultViews()
	}
	data := pageData{
		Title:   opts.Title,
		Legend:  [2]string{cfg.Text.LegendDomestic, cfg.Text.LegendInternational},
		Palette: cfg.Palette,
		Studios: lo.Map(d.Records(), func(r StudioRecord, _ int) StudioHover {
			return StudioHover{Name: r.Name, Region: r.Region, Lines: HoverLines(r, cfg)}
		}),
	}
	if data.Title == "" {
		data.Title = "アニメスタジオ ポジショニングマップ"
	}
	for i, v := range views {
		if v.Key == "" {
			v.Key = fmt.Sprintf("view-%d", i+1)
		}
		m, err := Compose(d, cfg, v, opts.Measurer)
		if err != nil {
			return errors.Wrapf(err, "view %s", v.Key)
		}
		var svg bytes.Buffer
		if err := WriteSVG(&svg, m, cfg.Fonts.FamilyEA+", "+cfg.Fonts.Family+", sans-serif"); err != nil {
			return errors.Wrapf(err, "view %s", v.Key)
		}
		data.Views = append(data.Views, pageView{
			Key:   v.Key,
			Title: v.Title,
			SVG:   template.HTML(svg.String()),
		})
	}
	return pageTemplate.Execute(w, data)
}

// WritePageFile renders the page to path. The file is replaced only when
// rendering and writing both succeed.
func WritePageFile(path string, d *Dataset, cfg *Config, opts PageOptions) error {
	var buf bytes.Buffer
	if err := RenderPage(&buf, d, cfg, opts); err != nil {
		return err
	}
	if err := writeFileAtomic(path, buf.Bytes()); err != nil {
		return &ArtifactWriteError{Path: path, Err: err}
	}
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	_, err = f.Write(data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Chmod(tmp, 0644)
	}
	if err == nil {
		err = os.Rename(tmp, path)
	}
	if err != nil {
		os.Remove(tmp)
	}
	return err
}
