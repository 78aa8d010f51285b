package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/telcoplan/hubgrid/pkg/errors"
	"github.com/telcoplan/hubgrid/pkg/plan"
)

// Cache backend names accepted in the config file.
const (
	CacheBackendFile  = "file"
	CacheBackendRedis = "redis"
	CacheBackendMongo = "mongo"
	CacheBackendNone  = "none"
)

// Config is the on-disk CLI configuration, read from
// ~/.config/hubgrid/config.toml. All fields are optional; flags take
// precedence over the file, and the file over built-in defaults.
type Config struct {
	ThresholdKm   float64     `toml:"threshold_km"`
	TargetMaxHubs int         `toml:"target_max_hubs"`
	Workers       int         `toml:"workers"`
	Cache         CacheConfig `toml:"cache"`
}

// CacheConfig selects and configures the result cache backend.
type CacheConfig struct {
	Backend string `toml:"backend"`

	// Scope prefixes every cache key, isolating deployments that share
	// one redis or mongo instance.
	Scope string `toml:"scope"`

	Redis RedisConfig `toml:"redis"`
	Mongo MongoConfig `toml:"mongo"`
}

// RedisConfig holds redis backend settings.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// MongoConfig holds mongo backend settings.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// loadConfig reads the config file at path, or the default location when
// path is empty. A missing file is not an error: the zero Config defers to
// built-in defaults.
func (c *CLI) loadConfig() (*Config, error) {
	path := c.configPath
	explicit := path != ""
	if !explicit {
		p, err := defaultConfigPath()
		if err != nil {
			return &Config{}, nil
		}
		path = p
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) && !explicit {
			return &Config{}, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "read config %s", path)
	}
	if cfg.Cache.Backend != "" && !validBackend(cfg.Cache.Backend) {
		return nil, errInvalidBackend(cfg.Cache.Backend)
	}
	return &cfg, nil
}

// apply copies config values onto options that are still unset.
func (cfg *Config) apply(opts *plan.Options) {
	if opts.ThresholdKm == 0 && cfg.ThresholdKm != 0 {
		opts.ThresholdKm = cfg.ThresholdKm
	}
	if opts.TargetMax == 0 && cfg.TargetMaxHubs != 0 {
		opts.TargetMax = cfg.TargetMaxHubs
	}
	if opts.Workers == 0 && cfg.Workers != 0 {
		opts.Workers = cfg.Workers
	}
}

// defaultConfigPath returns the config location using XDG standard
// (~/.config/hubgrid/config.toml).
func defaultConfigPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

func validBackend(name string) bool {
	switch name {
	case CacheBackendFile, CacheBackendRedis, CacheBackendMongo, CacheBackendNone:
		return true
	}
	return false
}

func errInvalidBackend(name string) error {
	return errors.New(errors.ErrCodeInvalidInput,
		"invalid cache backend %q (must be one of: file, redis, mongo, none)", name)
}
