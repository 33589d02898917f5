package config

import (
	"fmt"
	"os"

	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/mahdiidarabi/rsabench/internal/keyfile"
	"github.com/mahdiidarabi/rsabench/pkg/rsabench"
)

// Config holds CLI settings. Flags set on the command line take precedence.
type Config struct {
	// KeySize is the modulus size in bits
	KeySize int `yaml:"key_size"`

	// Exponent is the public exponent
	Exponent int64 `yaml:"exponent"`

	// Workers sizes the parallel prime search (0 = auto-detect, -1 = sequential)
	Workers int `yaml:"workers"`

	// DemoPrimes uses the fixed demonstration primes instead of random ones
	DemoPrimes bool `yaml:"demo_primes"`

	// Format is the key file format: json or yaml
	Format string `yaml:"format"`

	// LogLevel is a zap level name
	LogLevel string `yaml:"log_level"`
}

// Default returns the settings used when no config file is given.
func Default() Config {
	return Config{
		KeySize:    2048,
		Exponent:   65537,
		Workers:    0, // Auto-detect
		DemoPrimes: false,
		Format:     string(keyfile.JSON),
		LogLevel:   "info",
	}
}

// Load reads a YAML config file on top of Default. An empty path yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var errs error
	if c.KeySize < rsabench.MinKeyBits {
		errs = multierr.Append(errs, fmt.Errorf("key_size must be at least %d, got %d", rsabench.MinKeyBits, c.KeySize))
	}
	if c.Exponent < 2 {
		errs = multierr.Append(errs, fmt.Errorf("exponent must be at least 2, got %d", c.Exponent))
	}
	if c.Workers < -1 {
		errs = multierr.Append(errs, fmt.Errorf("workers must be -1, 0 or positive, got %d", c.Workers))
	}
	if _, err := keyfile.ParseFormat(c.Format); err != nil {
		errs = multierr.Append(errs, err)
	}
	if _, err := c.Level(); err != nil {
		errs = multierr.Append(errs, err)
	}
	return errs
}

// Level parses LogLevel.
func (c Config) Level() (zapcore.Level, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log_level: %w", err)
	}
	return level, nil
}

// PrimeSource picks the prime supply these settings describe.
func (c Config) PrimeSource() rsabench.PrimeSource {
	switch {
	case c.DemoPrimes:
		return rsabench.DemoPrimes()
	case c.Workers < 0:
		return rsabench.RandomPrimes{}
	default:
		return rsabench.ParallelPrimes{NumWorkers: c.Workers}
	}
}
