package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"scantimeline/internal/charts"
)

var configEnv = []string{
	"LISTEN_ADDR", "FIXTURES_PATH", "CHART_BACKEND", "DUPLICATE_CHARTS",
	"LOCALE", "LOG_DIR", "SESSION_KEY", "PAGE_TTL", "DEBUG",
}

// isolate clears every variable Load reads and points it at configPath.
func isolate(t *testing.T, configPath string) {
	t.Helper()
	for _, name := range configEnv {
		t.Setenv(name, "")
	}
	t.Setenv(ConfigPathEnv, configPath)
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.ListenAddr != DefaultPort {
		t.Errorf("ListenAddr = %v, want %v", cfg.ListenAddr, DefaultPort)
	}
	if cfg.ChartBackend != charts.BackendChartJS {
		t.Errorf("ChartBackend = %v, want %v", cfg.ChartBackend, charts.BackendChartJS)
	}
	if cfg.DuplicatePolicy() != charts.PolicyReplace {
		t.Errorf("DuplicatePolicy() = %v, want %v", cfg.DuplicatePolicy(), charts.PolicyReplace)
	}
	if cfg.TTL() != DefaultPageTTL {
		t.Errorf("TTL() = %v, want %v", cfg.TTL(), DefaultPageTTL)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name       string
		envVars    map[string]string
		wantListen string
		wantPolicy charts.DuplicatePolicy
		wantTTL    time.Duration
		wantDebug  bool
	}{
		{
			name:       "defaults without file or environment",
			envVars:    map[string]string{},
			wantListen: DefaultPort,
			wantPolicy: charts.PolicyReplace,
			wantTTL:    DefaultPageTTL,
		},
		{
			name: "environment overrides",
			envVars: map[string]string{
				"LISTEN_ADDR":      ":8080",
				"DUPLICATE_CHARTS": "reject",
				"PAGE_TTL":         "5m",
				"DEBUG":            "true",
			},
			wantListen: ":8080",
			wantPolicy: charts.PolicyReject,
			wantTTL:    5 * time.Minute,
			wantDebug:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t, "/nonexistent/scantimeline.toml")
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}

			if cfg.ListenAddr != tt.wantListen {
				t.Errorf("ListenAddr = %v, want %v", cfg.ListenAddr, tt.wantListen)
			}
			if cfg.DuplicatePolicy() != tt.wantPolicy {
				t.Errorf("DuplicatePolicy() = %v, want %v", cfg.DuplicatePolicy(), tt.wantPolicy)
			}
			if cfg.TTL() != tt.wantTTL {
				t.Errorf("TTL() = %v, want %v", cfg.TTL(), tt.wantTTL)
			}
			if cfg.Debug != tt.wantDebug {
				t.Errorf("Debug = %v, want %v", cfg.Debug, tt.wantDebug)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scantimeline.toml")
	content := `listen_addr = ":9000"
chart_backend = "svg"
duplicate_charts = "allow"
locale = "da"
page_ttl = "90s"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	isolate(t, path)
	t.Setenv("LOCALE", "en")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ListenAddr != ":9000" {
		t.Errorf("ListenAddr = %v, want :9000", cfg.ListenAddr)
	}
	if cfg.ChartBackend != charts.BackendSVG {
		t.Errorf("ChartBackend = %v, want %v", cfg.ChartBackend, charts.BackendSVG)
	}
	if cfg.DuplicatePolicy() != charts.PolicyAllow {
		t.Errorf("DuplicatePolicy() = %v, want %v", cfg.DuplicatePolicy(), charts.PolicyAllow)
	}
	if cfg.TTL() != 90*time.Second {
		t.Errorf("TTL() = %v, want 90s", cfg.TTL())
	}
	// Environment wins over the file.
	if cfg.Locale != "en" {
		t.Errorf("Locale = %v, want en", cfg.Locale)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		wantErr string
	}{
		{name: "bad backend", envVars: map[string]string{"CHART_BACKEND": "pie"}, wantErr: "chart_backend"},
		{name: "bad policy", envVars: map[string]string{"DUPLICATE_CHARTS": "sometimes"}, wantErr: "duplicate_charts"},
		{name: "bad ttl", envVars: map[string]string{"PAGE_TTL": "soon"}, wantErr: "PAGE_TTL"},
		{name: "negative ttl", envVars: map[string]string{"PAGE_TTL": "-1m"}, wantErr: "page_ttl"},
		{name: "bad debug", envVars: map[string]string{"DEBUG": "maybe"}, wantErr: "DEBUG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t, "/nonexistent/scantimeline.toml")
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			_, err := Load()
			if err == nil {
				t.Fatal("Load() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestStringHidesSessionKey(t *testing.T) {
	cfg := defaultConfig()
	cfg.SessionKey = "super-secret"

	s := cfg.String()
	if strings.Contains(s, "super-secret") {
		t.Errorf("String() leaked the session key: %s", s)
	}
	if !strings.Contains(s, "SessionKeySet: true") {
		t.Errorf("String() = %s, want SessionKeySet: true", s)
	}
}

func TestNormalizeListenAddr(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "bare port number", input: "3000", want: ":3000"},
		{name: "port with colon prefix", input: ":3000", want: ":3000"},
		{name: "full address with host", input: "127.0.0.1:3000", want: "127.0.0.1:3000"},
		{name: "IPv6 address", input: "[::1]:3000", want: "[::1]:3000"},
		{name: "invalid port - too high", input: "70000", wantErr: true},
		{name: "invalid port - zero", input: "0", wantErr: true},
		{name: "invalid port - not a number", input: "abc", wantErr: true},
		{name: "host without port", input: "localhost:", wantErr: true},
		{name: "empty string", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeListenAddr(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("normalizeListenAddr() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("normalizeListenAddr() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadNormalizesListenAddr(t *testing.T) {
	isolate(t, "/nonexistent/scantimeline.toml")
	t.Setenv("LISTEN_ADDR", "8080")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %v, want :8080", cfg.ListenAddr)
	}
}
