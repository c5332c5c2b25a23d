// Package refdata holds the static reference tables used for comparisons:
// per-state average household emissions, approximate state coordinates for
// the map, and the national average.
//
// The tables are embedded at build time and parsed once on first use.
// Every accessor returns a copy; callers cannot mutate the shared tables.
package refdata

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// NationalAverage is the US average household emissions in lbs CO2 per month.
const NationalAverage = 1000.0

//go:embed data/states.yaml
var statesYAML []byte

// Coordinate is a point in decimal degrees.
type Coordinate struct {
	Lat float64
	Lon float64
}

// UnmarshalYAML decodes a [lat, lon] pair.
func (c *Coordinate) UnmarshalYAML(node *yaml.Node) error {
	var pair []float64
	if err := node.Decode(&pair); err != nil {
		return err
	}
	if len(pair) != 2 { //nolint:mnd // lat, lon
		return fmt.Errorf("%w: line %d: want [lat, lon], got %d values", ErrInvalidDataset, node.Line, len(pair))
	}
	c.Lat, c.Lon = pair[0], pair[1]
	return nil
}

// Dataset is a parsed copy of the reference tables.
type Dataset struct {
	averages    map[string]float64
	coordinates map[string]Coordinate
}

type rawDataset struct {
	Averages    map[string]float64    `yaml:"averages"`
	Coordinates map[string]Coordinate `yaml:"coordinates"`
}

// Load parses a reference dataset from YAML.
// An empty averages table is rejected; coordinate gaps are left to Validate.
func Load(data []byte) (*Dataset, error) {
	var raw rawDataset
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDataset, err)
	}
	if len(raw.Averages) == 0 {
		return nil, fmt.Errorf("%w: no state averages", ErrInvalidDataset)
	}
	for name, v := range raw.Averages {
		if v < 0 {
			return nil, fmt.Errorf("%w: negative average for %q", ErrInvalidDataset, name)
		}
	}
	if raw.Coordinates == nil {
		raw.Coordinates = map[string]Coordinate{}
	}
	return &Dataset{averages: raw.Averages, coordinates: raw.Coordinates}, nil
}

//nolint:gochecknoglobals // parsed once from embedded data
var (
	defaultDataset     *Dataset
	defaultDatasetOnce sync.Once
)

// Default returns the embedded dataset.
// It panics if the embedded data is malformed, which is a build defect.
func Default() *Dataset {
	defaultDatasetOnce.Do(func() {
		ds, err := Load(statesYAML)
		if err != nil {
			panic(fmt.Sprintf("refdata: embedded states.yaml: %v", err))
		}
		defaultDataset = ds
	})
	return defaultDataset
}

// LookupStateAverage returns the average for an exact state name.
// The name must already be normalized (see NormalizeStateName).
func (d *Dataset) LookupStateAverage(name string) (float64, error) {
	v, ok := d.averages[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrStateNotFound, name)
	}
	return v, nil
}

// Coordinate returns the map coordinate for a state.
func (d *Dataset) Coordinate(name string) (Coordinate, bool) {
	c, ok := d.coordinates[name]
	return c, ok
}

// StateAverages returns a copy of the state average table.
func (d *Dataset) StateAverages() map[string]float64 {
	out := make(map[string]float64, len(d.averages))
	for k, v := range d.averages {
		out[k] = v
	}
	return out
}

// StateCoordinates returns a copy of the coordinate table.
func (d *Dataset) StateCoordinates() map[string]Coordinate {
	out := make(map[string]Coordinate, len(d.coordinates))
	for k, v := range d.coordinates {
		out[k] = v
	}
	return out
}

// StateNames returns every state with an average, sorted.
func (d *Dataset) StateNames() []string {
	names := make([]string, 0, len(d.averages))
	for k := range d.averages {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// MappableState is a state with both an average and a coordinate.
type MappableState struct {
	Name       string
	Average    float64
	Coordinate Coordinate
}

// MappableStates returns the states present in both tables, sorted by name.
// States without a coordinate are left out; Validate reports them.
func (d *Dataset) MappableStates() []MappableState {
	out := make([]MappableState, 0, len(d.coordinates))
	for _, name := range d.StateNames() {
		c, ok := d.coordinates[name]
		if !ok {
			continue
		}
		out = append(out, MappableState{Name: name, Average: d.averages[name], Coordinate: c})
	}
	return out
}

// LookupStateAverage resolves a normalized name against the embedded dataset.
func LookupStateAverage(name string) (float64, error) {
	return Default().LookupStateAverage(name)
}

// NormalizeStateName trims whitespace and title-cases each word,
// so " new york" becomes "New York".
func NormalizeStateName(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return cases.Title(language.English).String(strings.Join(fields, " "))
}
