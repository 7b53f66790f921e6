package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"scantimeline/internal/charts"
)

// Defaults used when neither the config file nor the environment set a value.
const (
	DefaultPort         = ":3000"
	DefaultFixturesPath = "fixtures/statuses.yaml"
	DefaultLocale       = "en"
	DefaultPageTTL      = 30 * time.Minute
	DefaultConfigPath   = "scantimeline.toml"

	// ConfigPathEnv points Load at a different config file.
	ConfigPathEnv = "SCANTIMELINE_CONFIG_PATH"
)

// Config holds all configuration settings for the application
type Config struct {
	// ListenAddr is the address and port for the web server
	ListenAddr string `toml:"listen_addr"`

	// FixturesPath is the YAML file with the scan statuses to show
	FixturesPath string `toml:"fixtures_path"`

	// ChartBackend selects how timelines are drawn: "chartjs" or "svg"
	ChartBackend string `toml:"chart_backend"`

	// DuplicateCharts decides what happens when a placeholder is drawn twice
	DuplicateCharts string `toml:"duplicate_charts"`

	// Locale is the language for chart axis titles and page strings
	Locale string `toml:"locale"`

	// LogDir is where scantimeline.log is written; empty logs to stdout only
	LogDir string `toml:"log_dir"`

	// SessionKey signs the session cookie
	SessionKey string `toml:"session_key"`

	// PageTTL is how long an idle page document is kept
	PageTTL duration `toml:"page_ttl"`

	Debug bool `toml:"debug"`
}

// duration lets the config file spell durations as "15m".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return defaultConfig()
}

func defaultConfig() *Config {
	return &Config{
		ListenAddr:      DefaultPort,
		FixturesPath:    DefaultFixturesPath,
		ChartBackend:    charts.BackendChartJS,
		DuplicateCharts: charts.PolicyReplace.String(),
		Locale:          DefaultLocale,
		PageTTL:         duration{DefaultPageTTL},
	}
}

// Load loads the configuration from file and environment variables
func Load() (*Config, error) {
	config := defaultConfig()

	configPath := os.Getenv(ConfigPathEnv)
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, config); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	}

	if err := config.applyEnv(); err != nil {
		return nil, err
	}

	addr, err := normalizeListenAddr(config.ListenAddr)
	if err != nil {
		return nil, fmt.Errorf("listen_addr: %w", err)
	}
	config.ListenAddr = addr

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) applyEnv() error {
	stringVars := map[string]*string{
		"LISTEN_ADDR":      &c.ListenAddr,
		"FIXTURES_PATH":    &c.FixturesPath,
		"CHART_BACKEND":    &c.ChartBackend,
		"DUPLICATE_CHARTS": &c.DuplicateCharts,
		"LOCALE":           &c.Locale,
		"LOG_DIR":          &c.LogDir,
		"SESSION_KEY":      &c.SessionKey,
	}
	for name, field := range stringVars {
		if v := os.Getenv(name); v != "" {
			*field = v
		}
	}

	if v := os.Getenv("PAGE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid PAGE_TTL %q: %w", v, err)
		}
		c.PageTTL = duration{ttl}
	}

	if v := os.Getenv("DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid DEBUG %q: %w", v, err)
		}
		c.Debug = debug
	}
	return nil
}

// normalizeListenAddr accepts "3000", ":3000" or "host:3000".
func normalizeListenAddr(addr string) (string, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return "", fmt.Errorf("address is empty")
	}
	if !strings.Contains(addr, ":") {
		if err := validatePort(addr); err != nil {
			return "", err
		}
		return ":" + addr, nil
	}
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "", fmt.Errorf("invalid address %q: %w", addr, err)
	}
	if err := validatePort(port); err != nil {
		return "", err
	}
	return addr, nil
}

func validatePort(port string) error {
	n, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("invalid port %q", port)
	}
	if n < 1 || n > 65535 {
		return fmt.Errorf("port %d out of range", n)
	}
	return nil
}

// Validate checks the values that the rest of the program parses again.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ListenAddr) == "" {
		return fmt.Errorf("listen_addr must not be empty")
	}
	if _, err := charts.NewFactory(c.ChartBackend); err != nil {
		return fmt.Errorf("chart_backend: %w", err)
	}
	if _, err := charts.ParseDuplicatePolicy(c.DuplicateCharts); err != nil {
		return fmt.Errorf("duplicate_charts: %w", err)
	}
	if c.PageTTL.Duration <= 0 {
		return fmt.Errorf("page_ttl must be positive, got %s", c.PageTTL.Duration)
	}
	return nil
}

// TTL returns the page expiry as a time.Duration.
func (c *Config) TTL() time.Duration {
	return c.PageTTL.Duration
}

// DuplicatePolicy returns the parsed duplicate chart policy.
func (c *Config) DuplicatePolicy() charts.DuplicatePolicy {
	p, _ := charts.ParseDuplicatePolicy(c.DuplicateCharts)
	return p
}

// String returns a string representation of the configuration. The
// session key is never printed.
func (c *Config) String() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("ListenAddr: %s", c.ListenAddr))
	parts = append(parts, fmt.Sprintf("FixturesPath: %s", c.FixturesPath))
	parts = append(parts, fmt.Sprintf("ChartBackend: %s", c.ChartBackend))
	parts = append(parts, fmt.Sprintf("DuplicateCharts: %s", c.DuplicateCharts))
	parts = append(parts, fmt.Sprintf("Locale: %s", c.Locale))
	parts = append(parts, fmt.Sprintf("LogDir: %s", c.LogDir))
	parts = append(parts, fmt.Sprintf("SessionKeySet: %t", c.SessionKey != ""))
	parts = append(parts, fmt.Sprintf("PageTTL: %s", c.PageTTL.Duration))
	parts = append(parts, fmt.Sprintf("Debug: %t", c.Debug))
	return strings.Join(parts, ", ")
}
