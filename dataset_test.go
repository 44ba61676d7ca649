package studiomap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseDataset(t *testing.T) {
	d := testDataset(t)

	assert.Equal(t, 3, d.Len())
	assert.Equal(t, []string{"スタジオジブリ", "MAPPA", "Laika"}, d.Names())
	assert.Len(t, d.ByRegion(RegionDomestic), 2)
	assert.Len(t, d.ByRegion(RegionInternational), 1)

	ghibli, ok := d.Lookup("スタジオジブリ")
	require.True(t, ok)
	assert.Equal(t, "Studio Ghibli", ghibli.NameEN)
	assert.Equal(t, 30, ghibli.Size(SizeFounded))
	assert.Equal(t, 150, ghibli.Size(SizeCurrent))
	assert.Equal(t, 1985, ghibli.Founded)

	_, ok = d.Lookup("Pixar")
	assert.False(t, ok)

	growth := d.GrowthCandidates()
	require.Len(t, growth, 2)
	assert.Equal(t, "スタジオジブリ", growth[0].Name)
	assert.Equal(t, "MAPPA", growth[1].Name)
}

func TestDatasetReturnsCopies(t *testing.T) {
	d := testDataset(t)

	records := d.Records()
	records[0].Name = "changed"
	records[0].NotableWorks[0] = "changed"

	again, ok := d.Lookup("スタジオジブリ")
	require.True(t, ok)
	assert.Equal(t, "となりのトトロ", again.NotableWorks[0])
	assert.Equal(t, "スタジオジブリ", d.Records()[0].Name)
}

func TestDatasetValidation(t *testing.T) {
	valid := StudioRecord{Name: "A", Region: RegionDomestic, OriginalityScore: 0.5, FoundedTeamSize: 1, CurrentTeamSize: 2}

	cases := []struct {
		name    string
		edit    func(*StudioRecord)
		domain  bool
		message string
	}{
		{"score above one", func(r *StudioRecord) { r.OriginalityScore = 1.2 }, true, "original_score"},
		{"negative score", func(r *StudioRecord) { r.OriginalityScore = -0.1 }, true, "original_score"},
		{"zero founded size", func(r *StudioRecord) { r.FoundedTeamSize = 0 }, true, "size_founded_num"},
		{"negative current size", func(r *StudioRecord) { r.CurrentTeamSize = -3 }, true, "size_current_num"},
		{"empty name", func(r *StudioRecord) { r.Name = " " }, false, "name is empty"},
		{"no region", func(r *StudioRecord) { r.Region = "" }, false, "region"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := valid
			tc.edit(&r)
			_, err := NewDataset([]StudioRecord{r})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.message)
			if tc.domain {
				assert.ErrorIs(t, err, ErrInvalidDomainValue)
			}
		})
	}
}

func TestDatasetRejectsDuplicates(t *testing.T) {
	r := StudioRecord{Name: "A", Region: RegionDomestic, OriginalityScore: 0.5, FoundedTeamSize: 1, CurrentTeamSize: 1}
	_, err := NewDataset([]StudioRecord{r, r})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate name "A"`)
}

func TestParseDatasetErrors(t *testing.T) {
	_, err := ParseDataset([]byte("studios: []"))
	assert.EqualError(t, err, "dataset has no studios")

	_, err = ParseDataset([]byte(`studios:
  - name: A
    region: mars
    original_score: 0.5
    size_founded_num: 1
    size_current_num: 1
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown region "mars"`)
}

func TestSizeFieldYAML(t *testing.T) {
	var v MapView
	require.NoError(t, yaml.Unmarshal([]byte("field: founded\nlabels: true"), &v))
	assert.Equal(t, SizeFounded, v.Field)
	assert.True(t, v.Labels)

	require.NoError(t, yaml.Unmarshal([]byte("field: current"), &v))
	assert.Equal(t, SizeCurrent, v.Field)

	assert.Error(t, yaml.Unmarshal([]byte("field: someday"), &v))
	assert.Equal(t, "founded", SizeFounded.String())
}

func TestRegionLabel(t *testing.T) {
	assert.Equal(t, "国内", RegionDomestic.Label())
	assert.Equal(t, "海外", RegionInternational.Label())
}
