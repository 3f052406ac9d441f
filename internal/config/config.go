// Package config handles task scheduler configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Collaborne/task-scheduler/internal/models"
	"github.com/Collaborne/task-scheduler/internal/scale"
	"github.com/Collaborne/task-scheduler/internal/styles"
)

// Config is the root configuration structure.
type Config struct {
	Global   GlobalConfig   `yaml:"global" mapstructure:"global"`
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`
	Logging  LoggingConfig  `yaml:"logging" mapstructure:"logging"`
	Timeline TimelineConfig `yaml:"timeline" mapstructure:"timeline"`
	Journal  JournalConfig  `yaml:"journal" mapstructure:"journal"`
	TUI      TUIConfig      `yaml:"tui" mapstructure:"tui"`
}

// GlobalConfig contains directory settings.
type GlobalConfig struct {
	// DataDir holds the journal database (default: ~/.local/share/taskscheduler).
	DataDir string `yaml:"data_dir" mapstructure:"data_dir"`

	// ConfigDir is searched for config.yaml (default: ~/.config/taskscheduler).
	ConfigDir string `yaml:"config_dir" mapstructure:"config_dir"`
}

// DatabaseConfig contains journal database settings.
type DatabaseConfig struct {
	// Path is the SQLite database file path. Empty means DataDir/journal.db.
	Path string `yaml:"path" mapstructure:"path"`

	MaxConnections int `yaml:"max_connections" mapstructure:"max_connections"`

	// BusyTimeoutMs is how long to wait for a locked database.
	BusyTimeoutMs int `yaml:"busy_timeout_ms" mapstructure:"busy_timeout_ms"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Level is the minimum log level (trace, debug, info, warn, error, disabled).
	Level string `yaml:"level" mapstructure:"level"`

	// Format is json or console.
	Format string `yaml:"format" mapstructure:"format"`

	// File receives logs instead of stderr. The TUI always logs to a file.
	File string `yaml:"file" mapstructure:"file"`

	EnableCaller bool `yaml:"enable_caller" mapstructure:"enable_caller"`
}

// TimelineConfig sizes the graph and pins optional dates.
type TimelineConfig struct {
	Width  float64      `yaml:"width" mapstructure:"width"`
	Height float64      `yaml:"height" mapstructure:"height"`
	Margin scale.Margin `yaml:"margin" mapstructure:"margin"`

	// Today overrides the current date (YYYY-MM-DD). Empty means the wall clock.
	Today string `yaml:"today" mapstructure:"today"`

	// MinBorderDays pads the date domain when all deadlines share one day.
	MinBorderDays int `yaml:"min_border_days" mapstructure:"min_border_days"`
}

// JournalConfig controls the change journal.
type JournalConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// MaxEvents caps the journal size; the oldest events are trimmed. 0 keeps all.
	MaxEvents int `yaml:"max_events" mapstructure:"max_events"`
}

// TUIConfig contains terminal UI settings.
type TUIConfig struct {
	// Theme is default or high-contrast.
	Theme string `yaml:"theme" mapstructure:"theme"`

	// Mouse enables pointer gestures (cell motion reporting).
	Mouse bool `yaml:"mouse" mapstructure:"mouse"`
}

// DefaultMinBorderDays is the domain padding used for a single-day list.
const DefaultMinBorderDays = 15

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	vp := scale.DefaultViewport()

	return &Config{
		Global: GlobalConfig{
			DataDir:   filepath.Join(homeDir, ".local", "share", "taskscheduler"),
			ConfigDir: filepath.Join(homeDir, ".config", "taskscheduler"),
		},
		Database: DatabaseConfig{
			MaxConnections: 4,
			BusyTimeoutMs:  5000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Timeline: TimelineConfig{
			Width:         vp.Width,
			Height:        vp.Height,
			Margin:        vp.Margin,
			MinBorderDays: DefaultMinBorderDays,
		},
		Journal: JournalConfig{
			Enabled:   true,
			MaxEvents: 10000,
		},
		TUI: TUIConfig{
			Theme: styles.DefaultTheme.Name,
			Mouse: true,
		},
	}
}

// Validate checks the configuration and reports every problem found.
func (c *Config) Validate() error {
	var errs models.ValidationErrors

	if c.Database.MaxConnections < 1 {
		errs.AddMessage("database.max_connections", "must be at least 1")
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		errs.AddMessage("logging.format", "must be json or console")
	}

	t := c.Timeline
	if t.Width <= 0 || t.Height <= 0 {
		errs.AddMessage("timeline", "width and height must be positive")
	}
	if t.Margin.Top < 0 || t.Margin.Right < 0 || t.Margin.Bottom < 0 || t.Margin.Left < 0 {
		errs.AddMessage("timeline.margin", "must not be negative")
	}
	if t.Width > 0 && t.Margin.Left+t.Margin.Right >= t.Width {
		errs.AddMessage("timeline.margin", "left+right must be smaller than width")
	}
	if t.Height > 0 && t.Margin.Top+t.Margin.Bottom >= t.Height {
		errs.AddMessage("timeline.margin", "top+bottom must be smaller than height")
	}
	if t.Today != "" {
		if _, err := models.ParseDate(t.Today); err != nil {
			errs.Add("timeline.today", err)
		}
	}
	if t.MinBorderDays < 1 {
		errs.AddMessage("timeline.min_border_days", "must be at least 1")
	}

	if c.Journal.MaxEvents < 0 {
		errs.AddMessage("journal.max_events", "must not be negative")
	}
	if _, ok := styles.Themes[c.TUI.Theme]; !ok {
		errs.AddMessage("tui.theme", "must be one of "+strings.Join(styles.Names(), ", "))
	}

	return errs.Err()
}

// Viewport returns the configured graph viewport.
func (c *Config) Viewport() scale.Viewport {
	return scale.Viewport{Width: c.Timeline.Width, Height: c.Timeline.Height, Margin: c.Timeline.Margin}
}

// Today returns the configured today override, or now's calendar day.
func (c *Config) Today(now time.Time) time.Time {
	if c.Timeline.Today != "" {
		if d, err := models.ParseDate(c.Timeline.Today); err == nil {
			return d
		}
	}
	return models.TruncateDay(now.UTC())
}

// EnsureDirectories creates the data and config directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Global.DataDir, c.Global.ConfigDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the full journal database path.
func (c *Config) DatabasePath() string {
	if c.Database.Path != "" {
		return c.Database.Path
	}
	return filepath.Join(c.Global.DataDir, "journal.db")
}
