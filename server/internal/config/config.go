package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values for the dashboard configuration.
const (
	DefaultHTTPPort   = 8050
	DefaultLogLevel   = "info"
	DefaultSource     = "csv"
	DefaultDataPath   = "data/spacex_launch_dash.csv"
	DefaultTable      = "launches"
	DefaultTitle      = "SpaceX Launch Records Dashboard"
	DefaultSliderMin  = 0
	DefaultSliderMax  = 10000
	DefaultSliderStep = 1000
	DefaultCacheTTL   = 5 * time.Minute
)

// Config holds the dashboard configuration parsed from config.yaml.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Dataset DatasetConfig `yaml:"dataset"`
	UI      UIConfig      `yaml:"ui"`
	Cache   CacheConfig   `yaml:"cache"`
}

// ServerConfig holds process-level settings.
type ServerConfig struct {
	// HTTPPort is the port the page, REST API, WebSocket and metrics listen on (default 8050).
	HTTPPort int `yaml:"http_port"`

	// LogLevel is one of: debug | info | warn | error.
	LogLevel string `yaml:"log_level"`
}

// SlogLevel maps LogLevel to a slog.Level. Unknown values map to Info.
func (s ServerConfig) SlogLevel() slog.Level {
	switch strings.ToLower(s.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// DatasetConfig says where the launch records come from.
type DatasetConfig struct {
	// Source is one of: csv | sqlite.
	Source string `yaml:"source"`

	// Path is the CSV file or the SQLite database file.
	Path string `yaml:"path"`

	// Table is the SQLite table holding the records. Ignored for csv.
	Table string `yaml:"table"`

	// Strict rejects the whole dataset on the first row that breaks the
	// record invariants. When false, rows with a missing or negative payload
	// are skipped and out-of-range outcomes are kept.
	Strict bool `yaml:"strict"`

	// Columns maps record fields to CSV header names.
	Columns Columns `yaml:"columns"`
}

// Columns names the CSV header of each record field.
type Columns struct {
	Site    string `yaml:"site"`
	Payload string `yaml:"payload"`
	Booster string `yaml:"booster"`
	Outcome string `yaml:"outcome"`
}

// DefaultColumns returns the header names used by the SpaceX launch CSV.
func DefaultColumns() Columns {
	return Columns{
		Site:    "Launch Site",
		Payload: "Payload Mass (kg)",
		Booster: "Booster Version Category",
		Outcome: "class",
	}
}

// UIConfig controls the dashboard page. It is the only section applied on
// hot reload.
type UIConfig struct {
	Title  string       `yaml:"title"`
	Slider SliderConfig `yaml:"slider"`
}

// SliderConfig bounds the payload range selector.
type SliderConfig struct {
	Min   float64   `yaml:"min"`
	Max   float64   `yaml:"max"`
	Step  float64   `yaml:"step"`
	Marks []float64 `yaml:"marks"`
}

// CacheConfig controls the computed-view cache.
type CacheConfig struct {
	// TTL is how long a computed view is reused for identical criteria.
	// Zero disables caching.
	TTL time.Duration `yaml:"ttl"`
}

// Load reads and parses the config file at path.
// Missing fields are filled with defaults before validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %q: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML document into a validated Config.
func Parse(data []byte) (*Config, error) {
	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}
	if len(cfg.UI.Slider.Marks) == 0 {
		cfg.UI.Slider.Marks = []float64{cfg.UI.Slider.Min, cfg.UI.Slider.Max}
	}
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Defaults returns a Config pre-populated with default values.
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort: DefaultHTTPPort,
			LogLevel: DefaultLogLevel,
		},
		Dataset: DatasetConfig{
			Source:  DefaultSource,
			Path:    DefaultDataPath,
			Table:   DefaultTable,
			Strict:  true,
			Columns: DefaultColumns(),
		},
		UI: UIConfig{
			Title: DefaultTitle,
			Slider: SliderConfig{
				Min:  DefaultSliderMin,
				Max:  DefaultSliderMax,
				Step: DefaultSliderStep,
			},
		},
		Cache: CacheConfig{TTL: DefaultCacheTTL},
	}
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	if cfg.Server.HTTPPort <= 0 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range [1, 65535]", cfg.Server.HTTPPort)
	}
	switch strings.ToLower(cfg.Server.LogLevel) {
	case "debug", "info", "warn", "error", "":
	default:
		return fmt.Errorf("server.log_level %q unknown: want debug|info|warn|error", cfg.Server.LogLevel)
	}
	switch cfg.Dataset.Source {
	case "csv", "sqlite":
	default:
		return fmt.Errorf("dataset.source %q unknown: want csv|sqlite", cfg.Dataset.Source)
	}
	if cfg.Dataset.Path == "" {
		return fmt.Errorf("dataset.path is required")
	}
	if cfg.Dataset.Source == "sqlite" && cfg.Dataset.Table == "" {
		return fmt.Errorf("dataset.table is required for sqlite")
	}
	c := cfg.Dataset.Columns
	if c.Site == "" || c.Payload == "" || c.Booster == "" || c.Outcome == "" {
		return fmt.Errorf("dataset.columns: site, payload, booster and outcome must all be named")
	}
	if err := cfg.UI.Validate(); err != nil {
		return err
	}
	if cfg.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative")
	}
	return nil
}

// Validate checks the UI section on its own so a hot reload can be vetted
// before it is applied.
func (u UIConfig) Validate() error {
	s := u.Slider
	if s.Min < 0 {
		return fmt.Errorf("ui.slider.min must not be negative")
	}
	if s.Min >= s.Max {
		return fmt.Errorf("ui.slider: min %g must be below max %g", s.Min, s.Max)
	}
	if s.Step <= 0 {
		return fmt.Errorf("ui.slider.step must be positive")
	}
	for _, m := range s.Marks {
		if m < s.Min || m > s.Max {
			return fmt.Errorf("ui.slider.marks: %g is outside [%g, %g]", m, s.Min, s.Max)
		}
	}
	return nil
}
