// Package config provides configuration loading and validation for the CLI.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Defaults used when neither the config file nor the environment sets a value.
const (
	DefaultAPIURL            = "http://localhost:5000"
	DefaultPort              = 8080
	DefaultMaxFileSize       = 5 * 1024 * 1024
	DefaultResetDelayMS      = 3000
	DefaultMaxRequestBytes   = 32 * 1024 * 1024
	DefaultSessionTTLMinutes = 30
)

// Config represents the CLI configuration that can be loaded from a JSON or
// YAML file. All fields are optional; missing values use defaults.
type Config struct {
	// APIURL is the intake API root, e.g. http://localhost:5000.
	APIURL string `json:"api_url,omitempty" yaml:"api_url,omitempty" validate:"required,url,startswith=http"`

	// Web front end
	Port              int   `json:"port,omitempty" yaml:"port,omitempty" validate:"gte=1,lte=65535"`
	MaxRequestBytes   int64 `json:"max_request_bytes,omitempty" yaml:"max_request_bytes,omitempty" validate:"gtefield=MaxFileSize"`
	SessionTTLMinutes int   `json:"session_ttl_minutes,omitempty" yaml:"session_ttl_minutes,omitempty" validate:"gte=1"`

	// Widget limits
	MaxFileSize  int64 `json:"max_file_size,omitempty" yaml:"max_file_size,omitempty" validate:"gte=1"`
	ResetDelayMS int   `json:"reset_delay_ms,omitempty" yaml:"reset_delay_ms,omitempty" validate:"gte=1"`

	// Verbose prints detailed debug information.
	Verbose bool `json:"verbose,omitempty" yaml:"verbose,omitempty"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		APIURL:            DefaultAPIURL,
		Port:              DefaultPort,
		MaxRequestBytes:   DefaultMaxRequestBytes,
		SessionTTLMinutes: DefaultSessionTTLMinutes,
		MaxFileSize:       DefaultMaxFileSize,
		ResetDelayMS:      DefaultResetDelayMS,
	}
}

// LoadConfig loads configuration from a JSON file, or a YAML file when the
// extension is .yaml or .yml.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// Load resolves the effective configuration: the file at path (if any),
// then environment overrides, then defaults, then validation.
func Load(path string) (Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return Config{}, err
		}
		cfg = loaded
	}

	if err := cfg.ApplyEnv(); err != nil {
		return Config{}, err
	}

	merged := cfg.MergeWithDefaults(Defaults())
	if err := merged.Validate(); err != nil {
		return Config{}, err
	}
	return merged, nil
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

// Validate checks that the configuration has valid values.
// It expects a merged config; zero values are reported as out of range.
func (c *Config) Validate() error {
	err := structValidator().Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("config error: %w", err)
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, fmt.Sprintf("'%s' %s", fe.Field(), describeRule(fe)))
	}
	return fmt.Errorf("config error: %s", strings.Join(messages, "; "))
}

func describeRule(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "url", "startswith":
		return fmt.Sprintf("must be an http(s) URL, got %q", fe.Value())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gtefield":
		return "must not be smaller than 'max_file_size'"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.APIURL == "" {
		result.APIURL = defaults.APIURL
	}

	// Numeric fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.MaxRequestBytes == 0 {
		result.MaxRequestBytes = defaults.MaxRequestBytes
	}
	if result.SessionTTLMinutes == 0 {
		result.SessionTTLMinutes = defaults.SessionTTLMinutes
	}
	if result.MaxFileSize == 0 {
		result.MaxFileSize = defaults.MaxFileSize
	}
	if result.ResetDelayMS == 0 {
		result.ResetDelayMS = defaults.ResetDelayMS
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// ResetDelay returns the auto-reset delay as a duration.
func (c *Config) ResetDelay() time.Duration {
	return time.Duration(c.ResetDelayMS) * time.Millisecond
}

// SessionTTL returns the session idle timeout as a duration.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

// Addr returns the listen address for serve.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
