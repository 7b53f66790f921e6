package telemetry

import (
	"context"
	"testing"
)

func TestParseHeaders(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want map[string]string
	}{
		{name: "Empty", raw: "", want: nil},
		{name: "Single", raw: "x-api-key=abc", want: map[string]string{"x-api-key": "abc"}},
		{name: "Multiple with spaces", raw: " a = 1 , b=2", want: map[string]string{"a": "1", "b": "2"}},
		{name: "Malformed pairs skipped", raw: "novalue,=x,c=3", want: map[string]string{"c": "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseHeaders(tt.raw)
			if len(got) != len(tt.want) {
				t.Fatalf("parseHeaders(%q) = %v, want %v", tt.raw, got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("parseHeaders(%q)[%q] = %q, want %q", tt.raw, k, got[k], v)
				}
			}
		})
	}
}

func TestInitializeFromEnvDisabled(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "")

	shutdown, err := InitializeFromEnv(context.Background(), "test")
	if err != nil {
		t.Fatalf("InitializeFromEnv() error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown() error: %v", err)
	}

	_, span := StartSpan(context.Background(), "noop")
	defer span.End()
	if span.SpanContext().IsSampled() {
		t.Error("spans should not be sampled when telemetry is disabled")
	}
}
