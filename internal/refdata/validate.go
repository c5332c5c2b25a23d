package refdata

import (
	"fmt"
	"sort"
)

// IssueKind classifies a reference data consistency problem.
type IssueKind string

const (
	// MissingCoordinate means a state has an average but no map coordinate.
	MissingCoordinate IssueKind = "missing_coordinate"
	// MissingAverage means a state has a coordinate but no average.
	MissingAverage IssueKind = "missing_average"
)

// Issue is one consistency problem found by Validate.
type Issue struct {
	State string    `json:"state"`
	Kind  IssueKind `json:"kind"`
}

func (i Issue) String() string {
	switch i.Kind {
	case MissingCoordinate:
		return fmt.Sprintf("%s has an average but no map coordinate", i.State)
	case MissingAverage:
		return fmt.Sprintf("%s has a map coordinate but no average", i.State)
	default:
		return fmt.Sprintf("%s: %s", i.State, i.Kind)
	}
}

// Validate cross-checks the average and coordinate tables.
// Issues are sorted by state name; an empty slice means the tables agree.
func (d *Dataset) Validate() []Issue {
	issues := make([]Issue, 0)
	for _, name := range d.StateNames() {
		if _, ok := d.coordinates[name]; !ok {
			issues = append(issues, Issue{State: name, Kind: MissingCoordinate})
		}
	}

	orphans := make([]string, 0)
	for name := range d.coordinates {
		if _, ok := d.averages[name]; !ok {
			orphans = append(orphans, name)
		}
	}
	sort.Strings(orphans)
	for _, name := range orphans {
		issues = append(issues, Issue{State: name, Kind: MissingAverage})
	}
	return issues
}
