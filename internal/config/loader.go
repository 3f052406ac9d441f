package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. TASKSCHED_LOGGING_LEVEL.
const EnvPrefix = "TASKSCHED"

// envKeys lists every key that can be overridden from the environment.
// Viper only merges env values into nested structs for bound keys.
var envKeys = []string{
	"global.data_dir",
	"global.config_dir",
	"database.path",
	"database.max_connections",
	"database.busy_timeout_ms",
	"logging.level",
	"logging.format",
	"logging.file",
	"logging.enable_caller",
	"timeline.width",
	"timeline.height",
	"timeline.margin.top",
	"timeline.margin.right",
	"timeline.margin.bottom",
	"timeline.margin.left",
	"timeline.today",
	"timeline.min_border_days",
	"journal.enabled",
	"journal.max_events",
	"tui.theme",
	"tui.mouse",
}

// Loader loads configuration with viper.
type Loader struct {
	v          *viper.Viper
	configFile string
}

// NewLoader creates a loader with a fresh viper instance.
func NewLoader() *Loader {
	return &Loader{v: viper.New()}
}

// SetConfigFile sets an explicit config file path. A missing explicit file
// is an error; a missing default file is not.
func (l *Loader) SetConfigFile(path string) {
	l.configFile = path
}

// Load resolves configuration with precedence
// defaults < config file < TASKSCHED_* env < bound CLI flags.
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()
	l.setup(cfg)

	if err := l.readConfigFile(); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Global.DataDir = expandTilde(cfg.Global.DataDir)
	cfg.Global.ConfigDir = expandTilde(cfg.Global.ConfigDir)
	cfg.Database.Path = expandTilde(cfg.Database.Path)
	cfg.Logging.File = expandTilde(cfg.Logging.File)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (l *Loader) setup(cfg *Config) {
	v := l.v
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		v.AddConfigPath(filepath.Join(xdg, "taskscheduler"))
	}
	v.AddConfigPath(cfg.Global.ConfigDir)
	v.AddConfigPath(".")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("global.data_dir", cfg.Global.DataDir)
	v.SetDefault("global.config_dir", cfg.Global.ConfigDir)
	v.SetDefault("database.path", cfg.Database.Path)
	v.SetDefault("database.max_connections", cfg.Database.MaxConnections)
	v.SetDefault("database.busy_timeout_ms", cfg.Database.BusyTimeoutMs)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.enable_caller", cfg.Logging.EnableCaller)
	v.SetDefault("timeline.width", cfg.Timeline.Width)
	v.SetDefault("timeline.height", cfg.Timeline.Height)
	v.SetDefault("timeline.margin.top", cfg.Timeline.Margin.Top)
	v.SetDefault("timeline.margin.right", cfg.Timeline.Margin.Right)
	v.SetDefault("timeline.margin.bottom", cfg.Timeline.Margin.Bottom)
	v.SetDefault("timeline.margin.left", cfg.Timeline.Margin.Left)
	v.SetDefault("timeline.today", cfg.Timeline.Today)
	v.SetDefault("timeline.min_border_days", cfg.Timeline.MinBorderDays)
	v.SetDefault("journal.enabled", cfg.Journal.Enabled)
	v.SetDefault("journal.max_events", cfg.Journal.MaxEvents)
	v.SetDefault("tui.theme", cfg.TUI.Theme)
	v.SetDefault("tui.mouse", cfg.TUI.Mouse)

	for _, key := range envKeys {
		_ = v.BindEnv(key, EnvPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")))
	}
	v.AutomaticEnv()
}

func (l *Loader) readConfigFile() error {
	if l.configFile != "" {
		l.v.SetConfigFile(l.configFile)
	}
	err := l.v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && l.configFile == "" && errors.As(err, &notFound) {
		return nil
	}
	return err
}

// ConfigFileUsed returns the config file that was read, if any.
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// Set overrides key with the highest precedence. CLI flags use this.
func (l *Loader) Set(key string, value any) {
	l.v.Set(key, value)
}

// Viper exposes the underlying instance, e.g. for BindPFlag.
func (l *Loader) Viper() *viper.Viper {
	return l.v
}

// LoadFromFile loads configuration from path.
func LoadFromFile(path string) (*Config, error) {
	loader := NewLoader()
	loader.SetConfigFile(path)
	return loader.Load()
}

func expandTilde(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
