// Package fixtures loads the scan statuses shown by the status page from a
// YAML file.
package fixtures

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"scantimeline/internal/snapshot"
)

// ErrNotFound is returned by Lookup for an unknown pk.
var ErrNotFound = errors.New("status not found")

// Status is one scan with its progress snapshots.
type Status struct {
	PK        snapshot.PK     `yaml:"pk"`
	Scanner   string          `yaml:"scanner"`
	Started   time.Time       `yaml:"started"`
	Snapshots snapshot.Series `yaml:"snapshots"`
}

// Progress is the percentage of the latest snapshot, 0 without snapshots.
func (s Status) Progress() float64 {
	if len(s.Snapshots) == 0 {
		return 0
	}
	return s.Snapshots[len(s.Snapshots)-1].Y
}

// Elapsed is the seconds of the latest snapshot.
func (s Status) Elapsed() time.Duration {
	if len(s.Snapshots) == 0 {
		return 0
	}
	return time.Duration(s.Snapshots[len(s.Snapshots)-1].X * float64(time.Second))
}

type file struct {
	Statuses []Status `yaml:"statuses"`
}

// Set is an ordered collection of statuses, indexed by pk.
type Set struct {
	statuses []Status
	byPK     map[string]int
}

// Load reads and parses the file at path.
func Load(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures: %w", err)
	}
	set, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

// Parse decodes a statuses document. Every status needs a pk, and pks must be
// unique.
func Parse(data []byte) (*Set, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}

	set := &Set{byPK: make(map[string]int, len(f.Statuses))}
	for i, st := range f.Statuses {
		if st.PK.IsZero() {
			return nil, fmt.Errorf("status %d has no pk", i)
		}
		key := st.PK.String()
		if _, dup := set.byPK[key]; dup {
			return nil, fmt.Errorf("duplicate status pk %q", key)
		}
		if st.Snapshots == nil {
			st.Snapshots = snapshot.Series{}
		}
		set.byPK[key] = len(set.statuses)
		set.statuses = append(set.statuses, st)
	}
	return set, nil
}

// All returns the statuses in file order.
func (s *Set) All() []Status {
	out := make([]Status, len(s.statuses))
	copy(out, s.statuses)
	return out
}

// Len returns the number of statuses.
func (s *Set) Len() int {
	return len(s.statuses)
}

// Lookup finds the status whose pk renders as pk.
func (s *Set) Lookup(pk string) (Status, error) {
	i, ok := s.byPK[pk]
	if !ok {
		return Status{}, fmt.Errorf("%w: %s", ErrNotFound, pk)
	}
	return s.statuses[i], nil
}
