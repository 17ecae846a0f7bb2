// Package config builds the single configuration object a run is driven by.
// Values come from flags, environment, an optional YAML file and defaults, in
// that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"antmart/internal/common"
	apperrors "antmart/pkg/errors"
)

// EnvConfigFile overrides the config file location
const EnvConfigFile = "ANTMART_CONFIG"

// Config is the full run configuration
type Config struct {
	Counts    Counts    `mapstructure:"counts" yaml:"counts"`
	Micro     Micro     `mapstructure:"micro" yaml:"micro"`
	Paths     Paths     `mapstructure:"paths" yaml:"paths"`
	Warehouse Warehouse `mapstructure:"warehouse" yaml:"warehouse"`
	Pipeline  Pipeline  `mapstructure:"pipeline" yaml:"pipeline"`
	Log       Log       `mapstructure:"log" yaml:"log"`
}

// Counts are the batch table sizes
type Counts struct {
	Users    int `mapstructure:"users" yaml:"users"`
	Products int `mapstructure:"products" yaml:"products"`
	Orders   int `mapstructure:"orders" yaml:"orders"`
	Events   int `mapstructure:"events" yaml:"events"`
}

// Micro configures the micro-batch producer. The default bounds apply when no
// seed files are available.
type Micro struct {
	Count           int   `mapstructure:"count" yaml:"count"`
	DefaultUsers    int64 `mapstructure:"default_users" yaml:"default_users"`
	DefaultProducts int64 `mapstructure:"default_products" yaml:"default_products"`
}

// Paths locate every output directory. Relative entries resolve under BaseDir.
type Paths struct {
	BaseDir        string `mapstructure:"base_dir" yaml:"base_dir"`
	RawBatch       string `mapstructure:"raw_batch" yaml:"raw_batch"`
	RawEventsSeed  string `mapstructure:"raw_events_seed" yaml:"raw_events_seed"`
	RawEventsMicro string `mapstructure:"raw_events_micro" yaml:"raw_events_micro"`
	Seeds          string `mapstructure:"seeds" yaml:"seeds"`
}

// Warehouse locates the analytical store read by reports
type Warehouse struct {
	Driver string `mapstructure:"driver" yaml:"driver"`
	Path   string `mapstructure:"path" yaml:"path"`
	DSN    string `mapstructure:"dsn" yaml:"dsn,omitempty"`
}

// Pipeline lists the external commands run after generation
type Pipeline struct {
	WorkDir string   `mapstructure:"work_dir" yaml:"work_dir"`
	Batch   []string `mapstructure:"batch" yaml:"batch"`
	Micro   []string `mapstructure:"micro" yaml:"micro"`
}

// Log configures the logger
type Log struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Supported warehouse drivers
const (
	DriverDuckDB    = "duckdb"
	DriverSQLite    = "sqlite"
	DriverSnowflake = "snowflake"
	DriverPostgres  = "postgres"
)

// Default returns the documented defaults
func Default() *Config {
	return &Config{
		Counts: Counts{Users: 1000, Products: 200, Orders: 5000, Events: 10000},
		Micro:  Micro{Count: 100, DefaultUsers: 1000, DefaultProducts: 200},
		Paths: Paths{
			BaseDir:        ".",
			RawBatch:       filepath.Join("data", "raw", "batch"),
			RawEventsSeed:  filepath.Join("data", "raw", "events", "seed"),
			RawEventsMicro: filepath.Join("data", "raw", "events", "micro"),
			Seeds:          filepath.Join("dbt", "seeds"),
		},
		Warehouse: Warehouse{
			Driver: DriverDuckDB,
			Path:   filepath.Join("data", "warehouse", "antmart.duckdb"),
		},
		Pipeline: Pipeline{WorkDir: "."},
		Log:      Log{Level: "info", Format: "auto"},
	}
}

// envBindings keeps the historical variable names working. The micro-batch
// fallback bounds read the same counts as the batch generator.
var envBindings = map[string][]string{
	"counts.users":           {"USERS_COUNT"},
	"counts.products":        {"PRODUCTS_COUNT"},
	"counts.orders":          {"ORDERS_COUNT"},
	"counts.events":          {"EVENTS_COUNT"},
	"micro.default_users":    {"USERS_COUNT"},
	"micro.default_products": {"PRODUCTS_COUNT"},
	"warehouse.path":         {"DUCKDB_PATH"},
}

// NewViper returns a viper instance with defaults and environment bindings.
// Every key is also reachable as ANTMART_<SECTION>_<KEY>, which wins over the
// historical names.
func NewViper() *viper.Viper {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix("ANTMART")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, envs := range envBindings {
		names := append([]string{"ANTMART_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}, envs...)
		_ = v.BindEnv(append([]string{key}, names...)...)
	}
	return v
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("counts.users", d.Counts.Users)
	v.SetDefault("counts.products", d.Counts.Products)
	v.SetDefault("counts.orders", d.Counts.Orders)
	v.SetDefault("counts.events", d.Counts.Events)
	v.SetDefault("micro.count", d.Micro.Count)
	v.SetDefault("micro.default_users", d.Micro.DefaultUsers)
	v.SetDefault("micro.default_products", d.Micro.DefaultProducts)
	v.SetDefault("paths.base_dir", d.Paths.BaseDir)
	v.SetDefault("paths.raw_batch", d.Paths.RawBatch)
	v.SetDefault("paths.raw_events_seed", d.Paths.RawEventsSeed)
	v.SetDefault("paths.raw_events_micro", d.Paths.RawEventsMicro)
	v.SetDefault("paths.seeds", d.Paths.Seeds)
	v.SetDefault("warehouse.driver", d.Warehouse.Driver)
	v.SetDefault("warehouse.path", d.Warehouse.Path)
	v.SetDefault("warehouse.dsn", d.Warehouse.DSN)
	v.SetDefault("pipeline.work_dir", d.Pipeline.WorkDir)
	v.SetDefault("pipeline.batch", d.Pipeline.Batch)
	v.SetDefault("pipeline.micro", d.Pipeline.Micro)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// ReadFile loads a config file into v. An explicit path must exist; without
// one, ./antmart.yaml or $ANTMART_CONFIG is used when present.
func ReadFile(v *viper.Viper, path string) error {
	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}

	if path != "" {
		cleaned, err := common.CleanPath(path)
		if err != nil {
			return apperrors.ConfigError(err.Error(), "config")
		}
		v.SetConfigFile(cleaned)
		if err := v.ReadInConfig(); err != nil {
			return apperrors.Wrap(err, apperrors.ErrCodeConfigInvalid, fmt.Sprintf("failed to read config file %s", cleaned))
		}
		return nil
	}

	v.SetConfigName("antmart")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return apperrors.Wrap(err, apperrors.ErrCodeConfigInvalid, "failed to read config file")
	}
	return nil
}

// Load decodes v into a validated Config
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeConfigInvalid, "failed to decode configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the fields that are not validated by the components
// consuming them. Table counts are checked by the generator.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return apperrors.ConfigError(fmt.Sprintf("unknown log level %q", c.Log.Level), "log.level")
	}

	switch c.Log.Format {
	case "auto", "console", "json":
	default:
		return apperrors.ConfigError(fmt.Sprintf("unknown log format %q", c.Log.Format), "log.format")
	}

	switch c.Warehouse.Driver {
	case DriverDuckDB, DriverSQLite:
		if c.Warehouse.Path == "" {
			return apperrors.ConfigError(fmt.Sprintf("warehouse path is required for %s", c.Warehouse.Driver), "warehouse.path")
		}
	case DriverSnowflake, DriverPostgres:
		if c.Warehouse.DSN == "" {
			return apperrors.ConfigError(fmt.Sprintf("warehouse dsn is required for %s", c.Warehouse.Driver), "warehouse.dsn")
		}
	default:
		return apperrors.ConfigError(fmt.Sprintf("unsupported warehouse driver %q", c.Warehouse.Driver), "warehouse.driver")
	}

	if c.Micro.DefaultUsers < 1 {
		return apperrors.ConfigError("micro.default_users must be at least 1", "micro.default_users")
	}
	if c.Micro.DefaultProducts < 1 {
		return apperrors.ConfigError("micro.default_products must be at least 1", "micro.default_products")
	}
	return nil
}

// Save writes cfg as YAML, creating the parent directory
func Save(cfg *Config, path string) error {
	cleaned, err := common.CleanPath(path)
	if err != nil {
		return fmt.Errorf("invalid config file path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cleaned), common.DirPermissionNormal); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(cleaned, data, common.FilePermissionSecure); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Exists reports whether a file is present at path
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
