package fixtures

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sample = `statuses:
  - pk: 7
    scanner: nightly-full
    started: 2025-03-01T02:00:00Z
    snapshots:
      - {x: 0, y: 0}
      - {x: 10, y: 40}
      - {x: 20, y: 100}
  - pk: "web-42"
    scanner: adhoc
    started: 2025-03-01T09:30:00Z
`

func TestParse(t *testing.T) {
	set, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if set.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", set.Len())
	}

	first := set.All()[0]
	if first.PK.String() != "7" {
		t.Errorf("PK = %q, want %q", first.PK.String(), "7")
	}
	if len(first.Snapshots) != 3 {
		t.Errorf("len(Snapshots) = %d, want 3", len(first.Snapshots))
	}
	if first.Progress() != 100 {
		t.Errorf("Progress() = %v, want 100", first.Progress())
	}
	if first.Elapsed().Seconds() != 20 {
		t.Errorf("Elapsed() = %v, want 20s", first.Elapsed())
	}

	second, err := set.Lookup("web-42")
	if err != nil {
		t.Fatalf("Lookup(web-42) error: %v", err)
	}
	if second.Snapshots == nil || len(second.Snapshots) != 0 {
		t.Errorf("Snapshots = %#v, want empty non-nil series", second.Snapshots)
	}
	if second.Progress() != 0 {
		t.Errorf("Progress() = %v, want 0", second.Progress())
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{name: "Missing pk", data: "statuses:\n  - scanner: x\n", wantErr: "no pk"},
		{name: "Duplicate pk", data: "statuses:\n  - pk: 1\n  - pk: \"1\"\n", wantErr: "duplicate"},
		{name: "Bad YAML", data: "statuses: [", wantErr: "failed to parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Parse() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestLookupMissing(t *testing.T) {
	set, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if _, err := set.Lookup("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Lookup(nope) error = %v, want ErrNotFound", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statuses.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o600); err != nil {
		t.Fatalf("failed to write fixtures: %v", err)
	}

	set, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if set.Len() != 2 {
		t.Errorf("Len() = %d, want 2", set.Len())
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() of a missing file should fail")
	}
}

func TestShippedFixtures(t *testing.T) {
	set, err := Load(filepath.Join("..", "..", "fixtures", "statuses.yaml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if set.Len() == 0 {
		t.Error("shipped fixtures should not be empty")
	}
}
