package version

import (
	"strings"
	"testing"
	"time"
)

func TestAge(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		buildDate string
		want      string
	}{
		{name: "Minutes", buildDate: "2025-06-01T11:30:00Z", want: "30 minutes ago"},
		{name: "Hours", buildDate: "2025-06-01T07:00:00Z", want: "5 hours ago"},
		{name: "Days", buildDate: "2025-05-29T12:00:00Z", want: "3 days ago"},
		{name: "Months", buildDate: "2025-02-01T12:00:00Z", want: "4 months ago"},
		{name: "Years", buildDate: "2023-05-01T12:00:00Z", want: "2 years ago"},
		{name: "Unknown", buildDate: "unknown", want: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Age(tt.buildDate, now); got != tt.want {
				t.Errorf("Age(%q) = %q, want %q", tt.buildDate, got, tt.want)
			}
		})
	}
}

func TestInfoString(t *testing.T) {
	info := Info{Version: "v1.2.3", Commit: "0123456789abcdef", BuildDate: "today", GoVersion: "go1.24", Platform: "linux/amd64"}
	got := info.String()

	for _, want := range []string{"v1.2.3", "0123456789ab", "linux/amd64"} {
		if !strings.Contains(got, want) {
			t.Errorf("String() = %q, want it to contain %q", got, want)
		}
	}
	if strings.Contains(got, "cdef") {
		t.Errorf("String() = %q, commit should be shortened", got)
	}
}
