// Package config holds the server configuration and loads it from viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/docker/go-units"
	"github.com/spf13/viper"

	"github.com/vmlinuzx/peekaboo-mcp/filesystemserver/governor"
)

// EnvPrefix is prepended to every environment variable, e.g.
// PEEKABOO_MAX_DEPTH.
const EnvPrefix = "PEEKABOO"

// Keys shared by flags, environment variables and config files.
const (
	KeyRoot         = "root"
	KeyRecursive    = "recursive"
	KeyMaxDepth     = "max-depth"
	KeyTimeoutMs    = "timeout-ms"
	KeyMaxFileSize  = "max-file-size"
	KeyMaxTotalSize = "max-total-size"
	KeyLogLevel     = "log-level"
	KeyLogFile      = "log-file"
)

const (
	defaultMaxDepth     = 10
	defaultTimeoutMs    = 30000
	defaultMaxFileSize  = "10MiB"
	defaultMaxTotalSize = "100MiB"
	defaultLogLevel     = "info"
)

var (
	ErrEmptyRoot       = errors.New("config: root directory is empty")
	ErrNegativeDepth   = errors.New("config: max depth cannot be negative")
	ErrNegativeTimeout = errors.New("config: timeout cannot be negative")
	ErrInvalidSize     = errors.New("config: invalid size")
	ErrResolveWorkDir  = errors.New("config: resolve working directory")
	ErrUnknownLogLevel = errors.New("config: unknown log level")
)

// Config is the server configuration. It is not modified after the server
// is built.
type Config struct {
	RootDirectory     string `json:"rootDir"`
	Recursive         bool   `json:"recursive"`
	MaxDepth          int    `json:"maxDepth"`
	TimeoutMs         int64  `json:"timeout"`
	MaxFileSizeBytes  int64  `json:"maxFileSize"`
	MaxTotalSizeBytes int64  `json:"maxTotalSize"`
	LogLevel          string `json:"-"`
	LogFile           string `json:"-"`
}

// Default returns the configuration used when nothing is overridden.
func Default(root string) Config {
	maxFile, _ := units.RAMInBytes(defaultMaxFileSize)
	maxTotal, _ := units.RAMInBytes(defaultMaxTotalSize)
	return Config{
		RootDirectory:     root,
		Recursive:         true,
		MaxDepth:          defaultMaxDepth,
		TimeoutMs:         defaultTimeoutMs,
		MaxFileSizeBytes:  maxFile,
		MaxTotalSizeBytes: maxTotal,
		LogLevel:          defaultLogLevel,
	}
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyRecursive, true)
	v.SetDefault(KeyMaxDepth, defaultMaxDepth)
	v.SetDefault(KeyTimeoutMs, defaultTimeoutMs)
	v.SetDefault(KeyMaxFileSize, defaultMaxFileSize)
	v.SetDefault(KeyMaxTotalSize, defaultMaxTotalSize)
	v.SetDefault(KeyLogLevel, defaultLogLevel)
}

// BindEnv makes every key readable from PEEKABOO_* variables.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
}

// Load builds a Config from v. An unset root falls back to the working
// directory. Sizes accept human units ("10MiB", "512k"); "0" disables the
// limit.
func Load(v *viper.Viper) (Config, error) {
	root := v.GetString(KeyRoot)
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("%w: %w", ErrResolveWorkDir, err)
		}
		root = wd
	}

	maxFile, err := parseSize(KeyMaxFileSize, v.GetString(KeyMaxFileSize))
	if err != nil {
		return Config{}, err
	}
	maxTotal, err := parseSize(KeyMaxTotalSize, v.GetString(KeyMaxTotalSize))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		RootDirectory:     root,
		Recursive:         v.GetBool(KeyRecursive),
		MaxDepth:          v.GetInt(KeyMaxDepth),
		TimeoutMs:         v.GetInt64(KeyTimeoutMs),
		MaxFileSizeBytes:  maxFile,
		MaxTotalSizeBytes: maxTotal,
		LogLevel:          strings.ToLower(v.GetString(KeyLogLevel)),
		LogFile:           v.GetString(KeyLogFile),
	}
	return cfg, cfg.Validate()
}

// Validate checks the values Load cannot reject while parsing.
func (c Config) Validate() error {
	if c.RootDirectory == "" {
		return ErrEmptyRoot
	}
	if c.MaxDepth < 0 {
		return ErrNegativeDepth
	}
	if c.TimeoutMs < 0 {
		return ErrNegativeTimeout
	}
	switch c.LogLevel {
	case "", "error", "warn", "info", "debug":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownLogLevel, c.LogLevel)
	}
	return nil
}

// Timeout returns the per-operation timeout, zero when disabled.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// Limits converts the resource settings for a governor.
func (c Config) Limits() governor.Limits {
	return governor.Limits{
		Timeout:      c.Timeout(),
		MaxFileSize:  c.MaxFileSizeBytes,
		MaxTotalSize: c.MaxTotalSizeBytes,
	}
}

func parseSize(key, value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == "0" {
		return 0, nil
	}
	n, err := units.RAMInBytes(value)
	if err != nil {
		return 0, fmt.Errorf("%w for %s: %w", ErrInvalidSize, key, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w for %s: %q is negative", ErrInvalidSize, key, value)
	}
	return n, nil
}
