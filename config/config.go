package config

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the complete paper-trading session configuration
type Config struct {
	App      AppConfig      `json:"app" yaml:"app"`
	Sim      SimConfig      `json:"sim" yaml:"sim"`
	Selector SelectorConfig `json:"selector" yaml:"selector"`
	Venue    VenueConfig    `json:"venue" yaml:"venue"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Theme    ThemeConfig    `json:"theme,omitempty" yaml:"theme,omitempty"`
}

// AppConfig contains run-loop parameters
type AppConfig struct {
	Name          string  `json:"name" yaml:"name"`
	LogLevel      string  `json:"log_level" yaml:"log_level"`
	TickSeconds   float64 `json:"tick_seconds" yaml:"tick_seconds"`
	StatsLogEvery int     `json:"stats_log_every" yaml:"stats_log_every"`
}

// SimConfig contains paper market-making parameters
type SimConfig struct {
	QuoteHalfSpreadBps float64 `json:"quote_half_spread_bps" yaml:"quote_half_spread_bps"`
	QuoteSizeUSD       float64 `json:"quote_size_usd" yaml:"quote_size_usd"`
	MaxInventoryUSD    float64 `json:"max_inventory_usd" yaml:"max_inventory_usd"`
	PrintFills         bool    `json:"print_fills" yaml:"print_fills"`
	FillLog            string  `json:"fill_log,omitempty" yaml:"fill_log,omitempty"`
}

// SelectorConfig contains market selection thresholds
type SelectorConfig struct {
	MinSpreadBps float64 `json:"min_spread_bps" yaml:"min_spread_bps"`
	MinTPM       float64 `json:"min_tpm" yaml:"min_tpm"`
	TopN         int     `json:"top_n" yaml:"top_n"`
}

// VenueConfig contains the public websocket feed parameters
type VenueConfig struct {
	Enabled   bool     `json:"enabled" yaml:"enabled"`
	Host      string   `json:"host" yaml:"host"`
	Depth     int      `json:"depth" yaml:"depth"`
	UserAgent string   `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
	Markets   []string `json:"markets" yaml:"markets"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "csv", "sqlite" or "none"
	FillsFile  string `json:"fills_file,omitempty" yaml:"fills_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// ThemeConfig optionally overrides the transcript's ANSI tokens. Empty
// fields keep the defaults; the durable fill log never sees these either way.
type ThemeConfig struct {
	RowOdd  string `json:"row_odd,omitempty" yaml:"row_odd,omitempty"`
	RowEven string `json:"row_even,omitempty" yaml:"row_even,omitempty"`
	Buy     string `json:"buy,omitempty" yaml:"buy,omitempty"`
	Sell    string `json:"sell,omitempty" yaml:"sell,omitempty"`
}

// LoadFromFile loads configuration from a file (YAML or JSON)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.App.TickSeconds <= 0 {
		return fmt.Errorf("app.tick_seconds must be positive")
	}
	if c.App.StatsLogEvery < 1 {
		return fmt.Errorf("app.stats_log_every must be at least 1")
	}
	if c.Sim.QuoteHalfSpreadBps <= 0 {
		return fmt.Errorf("sim.quote_half_spread_bps must be positive")
	}
	if c.Sim.QuoteSizeUSD <= 0 {
		return fmt.Errorf("sim.quote_size_usd must be positive")
	}
	if c.Sim.MaxInventoryUSD <= 0 {
		return fmt.Errorf("sim.max_inventory_usd must be positive")
	}
	if c.Sim.PrintFills && c.Sim.FillLog == "" {
		return fmt.Errorf("sim.fill_log required when print_fills is set")
	}
	if c.Selector.TopN < 1 {
		return fmt.Errorf("selector.top_n must be at least 1")
	}
	if c.Venue.Enabled {
		if c.Venue.Host == "" {
			return fmt.Errorf("venue.host is required")
		}
		if len(c.Venue.Markets) == 0 {
			return fmt.Errorf("venue.markets must name at least one market")
		}
	}
	switch c.Journal.Type {
	case "csv":
		if c.Journal.FillsFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal fills_file and equity_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	case "none":
	default:
		return fmt.Errorf("journal.type must be 'csv', 'sqlite' or 'none'")
	}
	for name, token := range map[string]string{
		"row_odd":  c.Theme.RowOdd,
		"row_even": c.Theme.RowEven,
		"buy":      c.Theme.Buy,
		"sell":     c.Theme.Sell,
	} {
		if !ansiToken.MatchString(token) {
			return fmt.Errorf("theme.%s must be an ANSI escape sequence", name)
		}
	}
	return nil
}

// ansiToken matches zero or more ANSI SGR escapes and nothing else. A theme
// token outside this set would survive stripping, so the durable fill log
// could no longer be recovered from the decorated transcript.
var ansiToken = regexp.MustCompile(`^(?:\x1b\[[0-9;]*m)*$`)

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:          "papermm",
			LogLevel:      "info",
			TickSeconds:   1.0,
			StatsLogEvery: 30,
		},
		Sim: SimConfig{
			QuoteHalfSpreadBps: 10,
			QuoteSizeUSD:       1000,
			MaxInventoryUSD:    50000,
			PrintFills:         true,
			FillLog:            "fills.log",
		},
		Selector: SelectorConfig{
			MinSpreadBps: 1,
			MinTPM:       1,
			TopN:         3,
		},
		Venue: VenueConfig{
			Enabled:   true,
			Host:      "wss://api.starknet.extended.exchange",
			Depth:     1,
			UserAgent: "papermm/0.1",
			Markets:   []string{"BTC-USD", "ETH-USD"},
		},
		Journal: JournalConfig{
			Type:       "csv",
			FillsFile:  "./fills.csv",
			EquityFile: "./equity.csv",
		},
	}
}
