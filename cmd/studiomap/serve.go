package main

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/VantageDataChat/studiomap"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interactive page over HTTP",
	Long: `Serves the interactive page at / and the data behind it:

  GET /api/studios          the dataset as JSON
  GET /api/views/<key>.svg  one map view as SVG`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
	serveCmd.Flags().StringVar(&webDeck, "deck", "", "Take the views from this deck file")
	serveCmd.Flags().StringVar(&webTitle, "title", "", "Page title")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, d, err := loadInputs()
	if err != nil {
		return err
	}
	opts, err := pageOptions()
	if err != nil {
		return err
	}
	gin.SetMode(gin.ReleaseMode)
	r := newRouter(d, cfg, opts)
	logger.Info("serving", zap.String("addr", serveAddr))
	return r.Run(serveAddr)
}

func newRouter(d *studiomap.Dataset, cfg *studiomap.Config, opts studiomap.PageOptions) *gin.Engine {
	views := opts.Views
	if len(views) == 0 {
		views = studiomap.DefaultViews()
		opts.Views = views
	}

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/", func(c *gin.Context) {
		var buf bytes.Buffer
		if err := studiomap.RenderPage(&buf, d, cfg, opts); err != nil {
			sendError(c, err)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
	})

	r.GET("/api/studios", func(c *gin.Context) {
		c.JSON(http.StatusOK, d.Records())
	})

	r.GET("/api/views/:file", func(c *gin.Context) {
		key := strings.TrimSuffix(c.Param("file"), ".svg")
		for _, v := range views {
			if v.Key != key {
				continue
			}
			m, err := studiomap.Compose(d, cfg, v, opts.Measurer)
			if err != nil {
				sendError(c, err)
				return
			}
			var buf bytes.Buffer
			if err := studiomap.WriteSVG(&buf, m, cfg.Fonts.FamilyEA+", "+cfg.Fonts.Family+", sans-serif"); err != nil {
				sendError(c, err)
				return
			}
			c.Data(http.StatusOK, "image/svg+xml", buf.Bytes())
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown view " + key})
	})
	return r
}

func sendError(c *gin.Context, err error) {
	if logger != nil {
		logger.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
