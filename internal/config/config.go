package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// defaultExcludedVessels are known barge/tow names that pollute the movement
// feed. Overridable via excluded_vessel_names.
var defaultExcludedVessels = []string{
	"allisonk", "allins k", "keeneland", "chesapeake bay", "jadwin discharge",
	"dixie raider", "mack b", "texas star", "dodge island", "ginny lab",
	"kennington", "randy martin", "white star",
}

// Config holds all run settings, populated from an optional config file and
// RIVERCALL_* environment variables.
type Config struct {
	// Inputs and outputs.
	InputDir        string `mapstructure:"input_dir"`         // movement-event CSVs
	BerthDictionary string `mapstructure:"berth_dictionary"`  // facility reference CSV
	Manifest        string `mapstructure:"manifest"`          // trade-manifest CSV
	OutputDir       string `mapstructure:"output_dir"`

	// Matching tunables.
	DateToleranceDays int           `mapstructure:"date_tolerance_days"`
	SpecialZoneLabel  string        `mapstructure:"special_zone_label"`
	BatchTimeout      time.Duration `mapstructure:"batch_timeout"`
	TimeoutCheckRows  int           `mapstructure:"timeout_check_rows"`

	ExcludedVesselNames []string `mapstructure:"excluded_vessel_names"`

	// Observability.
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	// Watch mode.
	HTTPAddr      string        `mapstructure:"http_addr"`
	WatchInterval time.Duration `mapstructure:"watch_interval"`
}

// Load reads configuration, applying defaults where unset. path may name a
// config file explicitly; when empty, rivercall.yaml in the working directory
// is used if present. Environment variables win over the file:
// RIVERCALL_DATE_TOLERANCE_DAYS, RIVERCALL_INPUT_DIR, and so on.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("input_dir", "input")
	v.SetDefault("berth_dictionary", "berthdictionary.csv")
	v.SetDefault("manifest", "manifest.csv")
	v.SetDefault("output_dir", "output")
	v.SetDefault("date_tolerance_days", 4)
	v.SetDefault("special_zone_label", "SWP Cross")
	v.SetDefault("batch_timeout", 30*time.Minute)
	v.SetDefault("timeout_check_rows", 1000)
	v.SetDefault("excluded_vessel_names", defaultExcludedVessels)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("watch_interval", time.Minute)

	v.SetEnvPrefix("RIVERCALL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("rivercall")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.DateToleranceDays < 0 {
		return errors.New("date_tolerance_days must not be negative")
	}
	if c.BatchTimeout < 0 {
		return errors.New("batch_timeout must not be negative")
	}
	if c.TimeoutCheckRows <= 0 {
		return errors.New("timeout_check_rows must be positive")
	}
	if c.SpecialZoneLabel == "" {
		return errors.New("special_zone_label is required")
	}
	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("log_format must be json or text, got %q", c.LogFormat)
	}
	return nil
}
