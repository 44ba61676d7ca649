package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/VantageDataChat/studiomap"
	"github.com/VantageDataChat/studiomap/pptx"
)

const studiosYAML = `studios:
  - name: MAPPA
    region: domestic
    original_score: 0.25
    size_founded_num: 20
    size_current_num: 500
  - name: ufotable
    region: domestic
    original_score: 0.2
    size_founded_num: 15
    size_current_num: 300
  - name: Laika
    region: international
    original_score: 0.9
    size_founded_num: 350
    size_current_num: 350
`

func setup(t *testing.T) string {
	t.Helper()
	logger = zap.NewNop()
	dir := t.TempDir()
	dataPath = filepath.Join(dir, "studios.yaml")
	configPath = ""
	require.NoError(t, os.WriteFile(dataPath, []byte(studiosYAML), 0644))
	return dir
}

func TestCheckSummary(t *testing.T) {
	setup(t)
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)

	require.NoError(t, runCheck(cmd, nil))
	text := out.String()
	assert.Contains(t, text, "3 studios (2 domestic, 1 international), 2 with growth")
	assert.Contains(t, text, "1,150 people today")
	assert.Contains(t, text, "team size axis 1.5 to 4,000")
	assert.NotContains(t, text, "warning")
}

func TestCheckReportsBadDataset(t *testing.T) {
	dir := setup(t)
	dataPath = filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(dataPath, []byte("studios:\n  - name: X\n    region: domestic\n    original_score: 3\n    size_founded_num: 1\n    size_current_num: 1\n"), 0644))

	err := runCheck(&cobra.Command{}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, studiomap.ErrInvalidDomainValue)
}

func TestWebCommand(t *testing.T) {
	dir := setup(t)
	webOutput = filepath.Join(dir, "map.html")
	webDeck = ""
	webTitle = "Studios"
	t.Cleanup(func() { webTitle = "" })

	require.NoError(t, runWeb(&cobra.Command{}, nil))
	data, err := os.ReadFile(webOutput)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<h1>Studios</h1>")
	assert.Equal(t, 6, strings.Count(string(data), "<svg xmlns="))
}

func TestDeckAndPreviewCommands(t *testing.T) {
	dir := setup(t)
	deckPath := filepath.Join(dir, "deck.yaml")
	require.NoError(t, os.WriteFile(deckPath, []byte(`output: deck.pptx
slides:
  - title: Opening
  - map: {field: current, labels: true, legend: true}
`), 0644))

	deckOutput = filepath.Join(dir, "out.pptx")
	deckNoProgress = true
	t.Cleanup(func() { deckOutput, deckNoProgress = "", false })

	require.NoError(t, runDeck(&cobra.Command{}, []string{deckPath}))
	pres, err := pptx.Open(deckOutput)
	require.NoError(t, err)
	assert.Equal(t, 2, pres.GetSlideCount())

	previewOut = filepath.Join(dir, "png")
	previewWidth = 320
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	require.NoError(t, runPreview(cmd, []string{deckOutput}))
	for _, name := range []string{"out_01.png", "out_02.png"} {
		_, err := os.Stat(filepath.Join(previewOut, name))
		assert.NoError(t, err, name)
	}
}

func TestRouter(t *testing.T) {
	setup(t)
	gin.SetMode(gin.TestMode)
	cfg, d, err := loadInputs()
	require.NoError(t, err)
	r := newRouter(d, cfg, studiomap.PageOptions{})

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		r.ServeHTTP(w, req)
		return w
	}

	w := get("/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<!DOCTYPE html>")

	w = get("/api/studios")
	require.Equal(t, http.StatusOK, w.Code)
	var records []studiomap.StudioRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	assert.Len(t, records, 3)
	assert.Equal(t, "Laika", records[2].Name)

	w = get("/api/views/growth.svg")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), `<g id="growth-layer-trajectories">`)

	w = get("/api/views/nope.svg")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
