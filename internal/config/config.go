package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the top-level eventwatch configuration.
type Config struct {
	Database   string `mapstructure:"database"`
	Timezone   string `mapstructure:"timezone"`
	ListenAddr string `mapstructure:"listen_addr"`
	Report     Report `mapstructure:"report"`
	Output     Output `mapstructure:"output"`
}

// Report tunes the feedback rankings in analytics reports.
type Report struct {
	TopKeywords int `mapstructure:"top_keywords"`
	TopEmojis   int `mapstructure:"top_emojis"`
}

// Output defines output preferences.
type Output struct {
	Color bool `mapstructure:"color"`
	Width int  `mapstructure:"width"`
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Load reads configuration from the given path (or the default location)
// and returns a Config with all defaults applied. Every key can also be set
// through an EVENTWATCH_ prefixed environment variable, with dots replaced
// by underscores (EVENTWATCH_REPORT_TOP_KEYWORDS).
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("database", DBPath())
	v.SetDefault("timezone", DefaultTimezone)
	v.SetDefault("listen_addr", DefaultListenAddr)
	v.SetDefault("report.top_keywords", DefaultReport.TopKeywords)
	v.SetDefault("report.top_emojis", DefaultReport.TopEmojis)
	v.SetDefault("output.color", DefaultOutput.Color)
	v.SetDefault("output.width", DefaultOutput.Width)

	v.SetEnvPrefix("eventwatch")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(expandPath(cfgFile))
	} else {
		v.AddConfigPath(ConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Missing file is not an error.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.Database != ":memory:" {
		cfg.Database = expandPath(cfg.Database)
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	if cfg.Report.TopKeywords <= 0 || cfg.Report.TopEmojis <= 0 {
		return nil, fmt.Errorf("report.top_keywords and report.top_emojis must be positive")
	}

	return &cfg, nil
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// DBPath returns the default full path to the SQLite database.
func DBPath() string {
	return filepath.Join(ConfigDir(), DefaultDBName)
}

// ConfigDir returns the expanded configuration directory.
func ConfigDir() string {
	return expandPath(DefaultConfigDir)
}
