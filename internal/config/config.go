// Package config loads typegraph settings from defaults, a YAML file,
// TYPEGRAPH_* environment variables and command-line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/matzehuels/typegraph/pkg/cache"
	"github.com/matzehuels/typegraph/pkg/errors"
)

// EnvPrefix is the prefix of environment variables read by [Load].
const EnvPrefix = "TYPEGRAPH_"

// Cache backends.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// Backends lists the accepted values of cache.backend.
var Backends = []string{BackendFile, BackendMemory, BackendRedis, BackendNone}

// Config holds all typegraph settings.
type Config struct {
	// Schema is the path of the schema file (.toml, .yaml or .yml).
	Schema string      `koanf:"schema"`
	Cache  CacheConfig `koanf:"cache"`
	Redis  RedisConfig `koanf:"redis"`
}

// CacheConfig selects and sizes the snapshot cache.
type CacheConfig struct {
	Backend    string        `koanf:"backend"`
	Dir        string        `koanf:"dir"`
	TTL        time.Duration `koanf:"ttl"`
	MemorySize int           `koanf:"memory_size"`
}

// RedisConfig is used when cache.backend is "redis".
type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
	Prefix   string `koanf:"prefix"`
}

// RedisOptions converts the settings into cache options.
func (r RedisConfig) RedisOptions() cache.RedisOptions {
	return cache.RedisOptions{
		Addr:     r.Addr,
		Password: r.Password,
		DB:       r.DB,
		Prefix:   r.Prefix,
	}
}

// Defaults returns the lowest-priority layer.
func Defaults() map[string]any {
	return map[string]any{
		"schema":            "",
		"cache.backend":     BackendFile,
		"cache.dir":         "",
		"cache.ttl":         "0s",
		"cache.memory_size": cache.DefaultMemorySize,
		"redis.addr":        "localhost:6379",
		"redis.password":    "",
		"redis.db":          0,
		"redis.prefix":      "typegraph:",
	}
}

// flagKeys maps command-line flag names onto config keys.
var flagKeys = map[string]string{
	"schema":        "schema",
	"cache-backend": "cache.backend",
	"cache-dir":     "cache.dir",
	"cache-ttl":     "cache.ttl",
	"redis-addr":    "redis.addr",
}

// topLevel lists keys that are not nested under a section.
var topLevel = []string{"schema"}

// envKey turns TYPEGRAPH_CACHE_MEMORY_SIZE into cache.memory_size.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if slices.Contains(topLevel, key) {
		return key
	}
	return strings.Replace(key, "_", ".", 1)
}

// FileNames are the config files [Load] looks for in the working directory
// when no explicit path is given.
var FileNames = []string{"typegraph.yaml", "typegraph.yml"}

// findConfigFile returns explicit, or the first of [FileNames] that exists.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range FileNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load builds the configuration. Precedence, highest first: flags that were
// explicitly set, environment variables, the config file, defaults.
//
// cfgFile may be empty, in which case typegraph.yaml in the working directory
// is used if present. flags may be nil.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")
	cfgFile = findConfigFile(cfgFile)

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if cfgFile != "" {
		if _, err := os.Stat(cfgFile); err != nil {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", cfgFile)
		}
		if err := k.Load(file.Provider(cfgFile), yaml.Parser()); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read config file %s", cfgFile)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if cfg.Cache.Dir == "" {
		if dir, err := DefaultCacheDir(); err == nil {
			cfg.Cache.Dir = dir
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if !slices.Contains(Backends, c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend %q is not one of %s", c.Cache.Backend, strings.Join(Backends, ", "))
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	if c.Cache.Backend == BackendMemory && c.Cache.MemorySize < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.memory_size must not be negative")
	}
	if c.Cache.Backend == BackendRedis {
		if c.Redis.Addr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "redis.addr is required for the redis backend")
		}
		if c.Redis.Prefix == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "redis.prefix is required for the redis backend")
		}
	}
	return nil
}

// DefaultCacheDir returns the cache directory using XDG standard (~/.cache/typegraph/).
func DefaultCacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, "typegraph"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "typegraph"), nil
}
