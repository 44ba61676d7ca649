package studiomap

import (
	"os"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// Region partitions studios into the two palette groups.
type Region string

const (
	RegionDomestic      Region = "domestic"
	RegionInternational Region = "international"
)

// UnmarshalText accepts the region names used in dataset files.
func (r *Region) UnmarshalText(b []byte) error {
	switch v := Region(strings.ToLower(strings.TrimSpace(string(b)))); v {
	case RegionDomestic, RegionInternational:
		*r = v
		return nil
	default:
		return errors.Errorf("unknown region %q", string(b))
	}
}

// Label is the Japanese display label used in hover text.
func (r Region) Label() string {
	if r == RegionDomestic {
		return "国内"
	}
	return "海外"
}

// SizeField selects which team size snapshot is plotted.
type SizeField int

const (
	SizeCurrent SizeField = iota
	SizeFounded
)

func (f SizeField) String() string {
	if f == SizeFounded {
		return "founded"
	}
	return "current"
}

// UnmarshalText parses "founded" or "current".
func (f *SizeField) UnmarshalText(b []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "founded":
		*f = SizeFounded
	case "current", "":
		*f = SizeCurrent
	default:
		return errors.Errorf("unknown size field %q", string(b))
	}
	return nil
}

func (f SizeField) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// StudioRecord is one studio on the map. Field names follow the dataset file.
type StudioRecord struct {
	Name             string   `yaml:"name" json:"name"`
	NameEN           string   `yaml:"name_en,omitempty" json:"name_en,omitempty"`
	Region           Region   `yaml:"region" json:"region"`
	OriginalityScore float64  `yaml:"original_score" json:"original_score"`
	FoundedTeamSize  int      `yaml:"size_founded_num" json:"size_founded_num"`
	CurrentTeamSize  int      `yaml:"size_current_num" json:"size_current_num"`
	Founded          int      `yaml:"founded,omitempty" json:"founded,omitempty"`
	NotableWorks     []string `yaml:"notable_works,omitempty" json:"notable_works,omitempty"`

	// Optional business attributes used by the categorical views.
	AIAdoption string   `yaml:"ai_adoption_level,omitempty" json:"ai_adoption_level,omitempty"`
	AIDetail   string   `yaml:"ai_adoption_detail,omitempty" json:"ai_adoption_detail,omitempty"`
	Ownership  string   `yaml:"ownership_type,omitempty" json:"ownership_type,omitempty"`
	Platforms  []string `yaml:"primary_platform,omitempty" json:"primary_platform,omitempty"`
}

// Size returns the team size for the given snapshot.
func (r StudioRecord) Size(field SizeField) int {
	if field == SizeFounded {
		return r.FoundedTeamSize
	}
	return r.CurrentTeamSize
}

// Grew reports whether the founded and current team sizes differ.
func (r StudioRecord) Grew() bool {
	return r.FoundedTeamSize != r.CurrentTeamSize
}

func (r StudioRecord) clone() StudioRecord {
	r.NotableWorks = slices.Clone(r.NotableWorks)
	r.Platforms = slices.Clone(r.Platforms)
	return r
}

func (r StudioRecord) validate() error {
	switch {
	case strings.TrimSpace(r.Name) == "":
		return errors.New("name is empty")
	case r.Region == "":
		return errors.New("region is missing")
	case !finite(r.OriginalityScore) || r.OriginalityScore < 0 || r.OriginalityScore > 1:
		return invalidValue("original_score %v outside [0,1]", r.OriginalityScore)
	case r.FoundedTeamSize <= 0:
		return invalidValue("size_founded_num %d must be positive", r.FoundedTeamSize)
	case r.CurrentTeamSize <= 0:
		return invalidValue("size_current_num %d must be positive", r.CurrentTeamSize)
	}
	return nil
}

// Dataset is an ordered, immutable set of studios with unique names.
type Dataset struct {
	records []StudioRecord
	index   map[string]int
}

// NewDataset validates and copies records.
func NewDataset(records []StudioRecord) (*Dataset, error) {
	d := &Dataset{
		records: make([]StudioRecord, 0, len(records)),
		index:   make(map[string]int, len(records)),
	}
	for i, r := range records {
		if err := r.validate(); err != nil {
			return nil, errors.Wrapf(err, "studio %d (%q)", i+1, r.Name)
		}
		if _, dup := d.index[r.Name]; dup {
			return nil, errors.Errorf("studio %d: duplicate name %q", i+1, r.Name)
		}
		d.index[r.Name] = len(d.records)
		d.records = append(d.records, r.clone())
	}
	return d, nil
}

type datasetFile struct {
	Studios []StudioRecord `yaml:"studios"`
}

// ParseDataset decodes a YAML dataset document.
func ParseDataset(data []byte) (*Dataset, error) {
	var f datasetFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "parse dataset")
	}
	if len(f.Studios) == 0 {
		return nil, errors.New("dataset has no studios")
	}
	return NewDataset(f.Studios)
}

// LoadDataset reads a YAML dataset file.
func LoadDataset(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read dataset %v", path)
	}
	d, err := ParseDataset(data)
	if err != nil {
		return nil, errors.Wrapf(err, "dataset %v", path)
	}
	return d, nil
}

// Len returns the number of studios.
func (d *Dataset) Len() int { return len(d.records) }

// Records returns a copy of all studios in file order.
func (d *Dataset) Records() []StudioRecord {
	return lo.Map(d.records, func(r StudioRecord, _ int) StudioRecord { return r.clone() })
}

// Names returns studio names in file order.
func (d *Dataset) Names() []string {
	return lo.Map(d.records, func(r StudioRecord, _ int) string { return r.Name })
}

// ByRegion returns the studios of one region in file order.
func (d *Dataset) ByRegion(region Region) []StudioRecord {
	return lo.FilterMap(d.records, func(r StudioRecord, _ int) (StudioRecord, bool) {
		return r.clone(), r.Region == region
	})
}

// Lookup finds a studio by name.
func (d *Dataset) Lookup(name string) (StudioRecord, bool) {
	i, ok := d.index[name]
	if !ok {
		return StudioRecord{}, false
	}
	return d.records[i].clone(), true
}

// GrowthCandidates returns the studios whose team size changed since founding.
func (d *Dataset) GrowthCandidates() []StudioRecord {
	return lo.FilterMap(d.records, func(r StudioRecord, _ int) (StudioRecord, bool) {
		return r.clone(), r.Grew()
	})
}
