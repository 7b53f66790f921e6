package charts

import (
	"errors"
	"testing"

	"scantimeline/internal/i18n"
)

func TestParseDuplicatePolicy(t *testing.T) {
	tests := []struct {
		input   string
		want    DuplicatePolicy
		wantErr bool
	}{
		{input: "", want: PolicyReplace},
		{input: "replace", want: PolicyReplace},
		{input: " Reject ", want: PolicyReject},
		{input: "allow", want: PolicyAllow},
		{input: "ignore", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDuplicatePolicy(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDuplicatePolicy(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseDuplicatePolicy(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRegistryReplace(t *testing.T) {
	doc := testDoc(t)
	canvas := doc.GetElementByID("line_chart_status__7")
	reg := NewRegistry(ChartJSFactory{}, PolicyReplace)
	cfg := TimelineConfig(sample, i18n.New("en"))

	first, err := reg.Construct("7", canvas, cfg)
	if err != nil {
		t.Fatalf("first Construct() error: %v", err)
	}
	second, err := reg.Construct("7", canvas, cfg)
	if err != nil {
		t.Fatalf("second Construct() error: %v", err)
	}
	if first.ID() == second.ID() {
		t.Error("replacement should be a new chart")
	}
	if got := reg.Charts("7"); len(got) != 1 || got[0].ID() != second.ID() {
		t.Errorf("Charts(7) = %v, want only the replacement", got)
	}
	if id, _ := canvas.Attr(ChartIDAttr); id != second.ID() {
		t.Errorf("canvas bound to %s, want %s", id, second.ID())
	}
}

func TestRegistryReject(t *testing.T) {
	doc := testDoc(t)
	canvas := doc.GetElementByID("line_chart_status__7")
	reg := NewRegistry(ChartJSFactory{}, PolicyReject)
	cfg := TimelineConfig(sample, i18n.New("en"))

	if _, err := reg.Construct("7", canvas, cfg); err != nil {
		t.Fatalf("first Construct() error: %v", err)
	}
	if _, err := reg.Construct("7", canvas, cfg); !errors.Is(err, ErrDuplicateChart) {
		t.Errorf("second Construct() error = %v, want ErrDuplicateChart", err)
	}
	if reg.Len() != 1 {
		t.Errorf("Len() = %d, want 1", reg.Len())
	}
}

func TestRegistryAllowSurfacesBackendError(t *testing.T) {
	doc := testDoc(t)
	canvas := doc.GetElementByID("line_chart_status__7")
	reg := NewRegistry(ChartJSFactory{}, PolicyAllow)
	cfg := TimelineConfig(sample, i18n.New("en"))

	if _, err := reg.Construct("7", canvas, cfg); err != nil {
		t.Fatalf("first Construct() error: %v", err)
	}
	if _, err := reg.Construct("7", canvas, cfg); !errors.Is(err, ErrCanvasInUse) {
		t.Errorf("second Construct() error = %v, want ErrCanvasInUse from the backend", err)
	}
	if reg.Len() != 1 {
		t.Errorf("Len() = %d, want 1", reg.Len())
	}
}

func TestRegistryDestroyAll(t *testing.T) {
	doc := testDoc(t)
	reg := NewRegistry(ChartJSFactory{}, PolicyReplace)
	cfg := TimelineConfig(sample, i18n.New("en"))

	if _, err := reg.Construct("7", doc.GetElementByID("line_chart_status__7"), cfg); err != nil {
		t.Fatalf("Construct() error: %v", err)
	}
	reg.DestroyAll()
	if reg.Len() != 0 {
		t.Errorf("Len() = %d after DestroyAll, want 0", reg.Len())
	}
	if _, ok := doc.GetElementByID("line_chart_status__7").Attr(ChartIDAttr); ok {
		t.Error("DestroyAll() should release the canvas")
	}
}
