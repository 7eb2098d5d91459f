package models

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"readalong-editor/internal/config"
	"readalong-editor/internal/logger"
)

// Config holds application settings
type Config struct {
	// Waveform zoom
	MinPxPerSec float64 `json:"min_px_per_sec"`
	ZoomFactor  float64 `json:"zoom_factor"`

	// Region defaults
	ContentEditable      bool    `json:"content_editable"`
	RemoveButton         bool    `json:"remove_button"`
	RegionMinLength      float64 `json:"region_min_length"`
	EdgeScrollProportion float64 `json:"edge_scroll_proportion"`
	ScrollSpeed          float64 `json:"scroll_speed"`
	SnapToGridInterval   float64 `json:"snap_to_grid_interval"` // seconds, 0 disables snapping
	SnapToGridOffset     float64 `json:"snap_to_grid_offset"`
	MaxRegions           int     `json:"max_regions"` // 0 means unlimited

	// Documents
	TimePrecision       int   `json:"time_precision"` // decimals written for time and dur
	MaxLinkDepth        int   `json:"max_link_depth"`
	MaxPayloadBytes     int64 `json:"max_payload_bytes"`
	FetchTimeoutSeconds int   `json:"fetch_timeout_seconds"`

	// Tool paths
	FFmpegPath      string `json:"ffmpeg_path"` // empty means auto-detect
	OutputDirectory string `json:"output_directory"`

	LogLevel string `json:"log_level"` // debug, info, warn, error
}

// DefaultConfig returns the settings used before a config file exists.
func DefaultConfig() *Config {
	return &Config{
		MinPxPerSec: config.DefaultMinPxPerSec,
		ZoomFactor:  config.ZoomFactor,

		ContentEditable:      true,
		RemoveButton:         true,
		EdgeScrollProportion: config.EdgeScrollProportion,
		ScrollSpeed:          config.EdgeScrollSpeed,

		TimePrecision:       config.TimePrecision,
		MaxLinkDepth:        config.MaxLinkDepth,
		MaxPayloadBytes:     config.MaxPayloadBytes,
		FetchTimeoutSeconds: int(config.HTTPTimeout / time.Second),

		// Empty output directory saves next to the opened document
		OutputDirectory: "",
		FFmpegPath:      "",

		LogLevel: "info",
	}
}

func (c *Config) ConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "readalong-editor", "config.json")
}

// FetchTimeout returns the per-request timeout for document and audio fetches.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// Level returns the configured log level.
func (c *Config) Level() logger.Level {
	level, _ := logger.ParseLevel(c.LogLevel)
	return level
}

// Normalize replaces out-of-range values with their defaults so a hand-edited
// file cannot produce a zero zoom or an unbounded fetch.
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.MinPxPerSec < config.MinPxPerSec || c.MinPxPerSec > config.MaxPxPerSec {
		c.MinPxPerSec = def.MinPxPerSec
	}
	if c.ZoomFactor <= 1 {
		c.ZoomFactor = def.ZoomFactor
	}
	if c.RegionMinLength < 0 {
		c.RegionMinLength = 0
	}
	if c.EdgeScrollProportion <= 0 || c.EdgeScrollProportion >= 0.5 {
		c.EdgeScrollProportion = def.EdgeScrollProportion
	}
	if c.ScrollSpeed <= 0 {
		c.ScrollSpeed = def.ScrollSpeed
	}
	if c.SnapToGridInterval < 0 {
		c.SnapToGridInterval = 0
	}
	if c.MaxRegions < 0 {
		c.MaxRegions = 0
	}
	if c.TimePrecision < 1 || c.TimePrecision > 9 {
		c.TimePrecision = def.TimePrecision
	}
	if c.MaxLinkDepth < 1 {
		c.MaxLinkDepth = def.MaxLinkDepth
	}
	if c.MaxPayloadBytes <= 0 {
		c.MaxPayloadBytes = def.MaxPayloadBytes
	}
	if c.FetchTimeoutSeconds <= 0 {
		c.FetchTimeoutSeconds = def.FetchTimeoutSeconds
	}
	if _, ok := logger.ParseLevel(c.LogLevel); !ok {
		c.LogLevel = def.LogLevel
	}
}

func LoadConfig() (*Config, error) {
	return LoadConfigFrom(DefaultConfig().ConfigPath())
}

// LoadConfigFrom reads settings from path. A missing file yields the defaults.
func LoadConfigFrom(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}
	config.Normalize()

	return config, nil
}

func (c *Config) Save() error {
	return c.SaveTo(c.ConfigPath())
}

// SaveTo writes the settings to path as indented JSON.
func (c *Config) SaveTo(configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0600)
}
