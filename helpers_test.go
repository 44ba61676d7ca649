package studiomap

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const testStudiosYAML = `studios:
  - name: スタジオジブリ
    name_en: Studio Ghibli
    region: domestic
    original_score: 0.95
    size_founded_num: 30
    size_current_num: 150
    founded: 1985
    ai_adoption_level: none
    notable_works: [となりのトトロ, 千と千尋の神隠し, もののけ姫, 君たちはどう生きるか]
  - name: MAPPA
    region: domestic
    original_score: 0.25
    size_founded_num: 20
    size_current_num: 500
    founded: 2011
    ownership_type: independent
    ai_adoption_level: experimental
    primary_platform: [Netflix, Crunchyroll]
  - name: Laika
    region: international
    original_score: 0.9
    size_founded_num: 350
    size_current_num: 350
    founded: 2005
    notable_works: [Coraline]
`

func testDataset(t *testing.T) *Dataset {
	t.Helper()
	d, err := ParseDataset([]byte(testStudiosYAML))
	require.NoError(t, err)
	return d
}

// testSpace is the default plot rectangle with a [0,1] score range.
func testSpace(t *testing.T) PlotSpace {
	t.Helper()
	ps, err := NewPlotSpace(90, 70, 810, 400, 0, 1, 1.5, 4000)
	require.NoError(t, err)
	return ps
}

func commandsOf[T Command](cmds []Command) []T {
	var out []T
	for _, c := range cmds {
		if v, ok := c.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

// picXML is a picture element as PowerPoint writes it for a pasted logo.
const picXML = `<p:pic><p:nvPicPr><p:cNvPr id="9" name="Logo"/><p:cNvPicPr/><p:nvPr/></p:nvPicPr>` +
	`<p:blipFill><a:blip r:embed="rId9"/></p:blipFill>` +
	`<p:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="914400" cy="914400"/></a:xfrm></p:spPr></p:pic>`

// insertIntoSlide rewrites the deck at path with extra XML appended to the
// shape tree of its first slide.
func insertIntoSlide(t *testing.T, path, extra string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		if f.Name == "ppt/slides/slide1.xml" {
			content = []byte(strings.Replace(string(content), "</p:spTree>", extra+"</p:spTree>", 1))
		}
		w, err := zw.Create(f.Name)
		require.NoError(t, err)
		_, err = w.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}
