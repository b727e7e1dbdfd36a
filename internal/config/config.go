// Package config loads codeexplain configuration from defaults, an optional
// YAML file, a .env file and CODEEXPLAIN_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Sentinel validation errors.
var (
	ErrInvalidWorkers   = errors.New("workers must be positive")
	ErrInvalidFormat    = errors.New("unknown output format")
	ErrInvalidSize      = errors.New("invalid max file size")
	ErrInvalidCacheSize = errors.New("cache size must not be negative")
	ErrInvalidTop       = errors.New("top must not be negative")
	ErrInvalidLogFormat = errors.New("unknown log format")
)

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = ".codeexplain.yaml"

// Output formats.
const (
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatTOON  = "toon"
	FormatTable = "table"
)

// Formats lists the accepted output formats.
var Formats = []string{FormatJSON, FormatYAML, FormatTOON, FormatTable}

// Default values.
const (
	defaultWorkers     = 4
	defaultMaxFileSize = "1MiB"
	defaultCacheSize   = 1024
	defaultTop         = 0
	envPrefix          = "CODEEXPLAIN"
)

// Config holds all codeexplain settings.
type Config struct {
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis"`
	Discover DiscoverConfig `mapstructure:"discover" yaml:"discover"`
	Output   OutputConfig   `mapstructure:"output" yaml:"output"`
	Logging  LoggingConfig  `mapstructure:"logging" yaml:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics" yaml:"metrics"`
}

// AnalysisConfig controls the analyzer.
type AnalysisConfig struct {
	Workers     int      `mapstructure:"workers" yaml:"workers"`
	MaxFileSize string   `mapstructure:"max_file_size" yaml:"max_file_size"`
	CacheSize   int      `mapstructure:"cache_size" yaml:"cache_size"`
	Languages   []string `mapstructure:"languages" yaml:"languages"`
}

// DiscoverConfig controls file discovery.
type DiscoverConfig struct {
	Include    []string `mapstructure:"include" yaml:"include"`
	Exclude    []string `mapstructure:"exclude" yaml:"exclude"`
	SkipVendor bool     `mapstructure:"skip_vendor" yaml:"skip_vendor"`
}

// OutputConfig controls rendering.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format"`
	Top    int    `mapstructure:"top" yaml:"top"`
}

// LoggingConfig controls the logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// MetricsConfig controls the metrics dump.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile" yaml:"textfile"`
}

// MaxFileSizeBytes parses Analysis.MaxFileSize ("512KB", "1MiB", ...).
func (c *Config) MaxFileSizeBytes() (int64, error) {
	n, err := humanize.ParseBytes(c.Analysis.MaxFileSize)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, c.Analysis.MaxFileSize)
	}
	return int64(n), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Load reads configuration. An empty configPath looks for DefaultFile in
// the working directory; a missing default file is not an error.
func Load(configPath string) (*Config, error) {
	// Variables already set in the environment win over .env.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(strings.TrimSuffix(DefaultFile, ".yaml"))
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("analysis.workers", defaultWorkers)
	v.SetDefault("analysis.max_file_size", defaultMaxFileSize)
	v.SetDefault("analysis.cache_size", defaultCacheSize)
	v.SetDefault("analysis.languages", []string{})

	v.SetDefault("discover.include", []string{})
	v.SetDefault("discover.exclude", []string{})
	v.SetDefault("discover.skip_vendor", true)

	v.SetDefault("output.format", FormatJSON)
	v.SetDefault("output.top", defaultTop)

	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "text")

	v.SetDefault("metrics.textfile", "")
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	if c.Analysis.Workers <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, c.Analysis.Workers)
	}
	if _, err := c.MaxFileSizeBytes(); err != nil {
		return err
	}
	if c.Analysis.CacheSize < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCacheSize, c.Analysis.CacheSize)
	}
	if !validFormat(c.Output.Format) {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, c.Output.Format)
	}
	if c.Output.Top < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTop, c.Output.Top)
	}
	if f := c.Logging.Format; f != "text" && f != "json" {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, f)
	}
	return nil
}

func validFormat(f string) bool {
	for _, known := range Formats {
		if f == known {
			return true
		}
	}
	return false
}

// WriteYAML writes cfg to path. Existing files are not overwritten.
func WriteYAML(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
