// Package config loads the optional .bccheck configuration file.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/emenda-labs/bccheck/core/changespec"
)

// FileName is the configuration file name without extension. Any format
// viper understands (yaml, json, toml) is accepted.
const FileName = ".bccheck"

// ErrInvalid is wrapped by every ConfigError.
var ErrInvalid = errors.New("invalid configuration")

// Output formats understood by the assert command.
var Formats = []string{"console", "markdown", "github-actions", "json"}

// Config is the complete tool configuration.
type Config struct {
	Formats                        []string      `mapstructure:"formats"`
	MarkdownFile                   string        `mapstructure:"markdown-file"`
	Baseline                       []string      `mapstructure:"baseline"`
	InstallDependencies            bool          `mapstructure:"install-dependencies"`
	InstallDevelopmentDependencies bool          `mapstructure:"install-development-dependencies"`
	CacheDir                       string        `mapstructure:"cache-dir"`
	SourcesPath                    string        `mapstructure:"sources-path"`
	Log                            LoggingConfig `mapstructure:"log"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Formats:             []string{"console"},
		InstallDependencies: true,
		Log: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("formats", d.Formats)
	v.SetDefault("markdown-file", d.MarkdownFile)
	v.SetDefault("baseline", []string{})
	v.SetDefault("install-dependencies", d.InstallDependencies)
	v.SetDefault("install-development-dependencies", d.InstallDevelopmentDependencies)
	v.SetDefault("cache-dir", d.CacheDir)
	v.SetDefault("sources-path", d.SourcesPath)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// LoadConfig reads the configuration. An explicit path must exist;
// otherwise .bccheck.* is looked up in repoRoot and defaults are used when
// it is missing. BCCHECK_* environment variables override file values,
// e.g. BCCHECK_LOG_LEVEL or BCCHECK_CACHE_DIR.
func LoadConfig(repoRoot, explicit string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("BCCHECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(repoRoot)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if cfg.CacheDir != "" && !filepath.IsAbs(cfg.CacheDir) {
		cfg.CacheDir = filepath.Join(repoRoot, cfg.CacheDir)
	}
	return &cfg, nil
}

// Validate checks field values that viper cannot type-check.
func (c *Config) Validate() error {
	if len(c.Formats) == 0 {
		return &ConfigError{Field: "formats", Message: "at least one output format is required"}
	}
	for _, f := range c.Formats {
		if !slices.Contains(Formats, f) {
			return &ConfigError{Field: "formats", Message: fmt.Sprintf("unknown format %q, expected one of %s", f, strings.Join(Formats, ", "))}
		}
	}
	if c.MarkdownFile != "" && !slices.Contains(c.Formats, "markdown") {
		return &ConfigError{Field: "markdown-file", Message: "requires the markdown format"}
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return &ConfigError{Field: "log.format", Message: fmt.Sprintf("unknown log format %q", c.Log.Format)}
	}
	if _, err := c.CompileBaseline(); err != nil {
		return err
	}
	return nil
}

// Baseline holds patterns of change messages that are known and accepted.
type Baseline struct {
	patterns []*regexp.Regexp
}

// CompileBaseline compiles the configured baseline patterns.
func (c *Config) CompileBaseline() (*Baseline, error) {
	b := &Baseline{}
	for i, expr := range c.Baseline {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, &ConfigError{Field: fmt.Sprintf("baseline[%d]", i), Message: err.Error()}
		}
		b.patterns = append(b.patterns, re)
	}
	return b, nil
}

// Ignores reports whether the change message matches any pattern.
func (b *Baseline) Ignores(c changespec.Change) bool {
	for _, re := range b.patterns {
		if re.MatchString(c.Message()) {
			return true
		}
	}
	return false
}

// Apply removes ignored changes.
func (b *Baseline) Apply(changes changespec.Changes) changespec.Changes {
	if b == nil || len(b.patterns) == 0 {
		return changes
	}
	return changes.Filter(func(c changespec.Change) bool { return !b.Ignores(c) })
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}

func (e *ConfigError) Unwrap() error { return ErrInvalid }
