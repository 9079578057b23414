package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/vancomm/sweeper/internal/mines"
)

const EnvPrefix = "SWEEPER"

const (
	StoreFile     = "file"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

var ErrInvalidConfig = errors.New("invalid config")

type Log struct {
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type Config struct {
	Mode        string   `mapstructure:"mode"`
	Size        int      `mapstructure:"size"`
	Seed        uint64   `mapstructure:"seed"`
	Debug       bool     `mapstructure:"debug"`
	Store       string   `mapstructure:"store"`
	SaveDir     string   `mapstructure:"save_dir"`
	SQLitePath  string   `mapstructure:"sqlite_path"`
	DatabaseURL string   `mapstructure:"database_url"`
	Postgres    Database `mapstructure:"postgres"`
	Addr        string   `mapstructure:"addr"`
	CorsOrigins []string `mapstructure:"cors_origins"`
	Log         Log      `mapstructure:"log"`
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("mode", "production")
	v.SetDefault("size", mines.DefaultSize)
	v.SetDefault("seed", 0)
	v.SetDefault("debug", false)
	v.SetDefault("store", StoreFile)
	v.SetDefault("save_dir", "saves")
	v.SetDefault("sqlite_path", "sweeper.db")
	v.SetDefault("database_url", "")
	v.SetDefault("postgres.user", "")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.password_file", "")
	v.SetDefault("postgres.host", "")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.db_name", "")
	v.SetDefault("postgres.ssl_mode", "disable")
	v.SetDefault("addr", ":8080")
	v.SetDefault("cors_origins", []string{})
	v.SetDefault("log.file", "sweeper.log")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
}

// New returns a viper instance with defaults set and SWEEPER_* environment
// variables bound, e.g. SWEEPER_LOG_FILE for log.file.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional config file at path into v and decodes the result.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("unable to read config %s: %w", path, err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unable to parse config: %w", err)
	}
	if err := c.Postgres.loadPassword(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c Config) Validate() error {
	if !mines.ValidSize(c.Size) {
		return fmt.Errorf("%w: size %d out of range %d..%d",
			ErrInvalidConfig, c.Size, mines.MinSize, mines.MaxSize)
	}
	switch c.Store {
	case StoreFile, StoreSQLite, StorePostgres:
	default:
		return fmt.Errorf("%w: unknown store %q", ErrInvalidConfig, c.Store)
	}
	if c.Mode != "production" && c.Mode != "development" {
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, c.Mode)
	}
	return nil
}

func (c Config) Development() bool {
	return c.Mode != "production"
}

func (c Config) Fields() logrus.Fields {
	return map[string]any{
		"mode":         c.Mode,
		"size":         c.Size,
		"seed":         c.Seed,
		"debug":        c.Debug,
		"store":        c.Store,
		"save_dir":     c.SaveDir,
		"sqlite_path":  c.SQLitePath,
		"pg_host":      c.Postgres.Host,
		"pg_port":      c.Postgres.Port,
		"pg_user":      c.Postgres.Username,
		"pg_db_name":   c.Postgres.DBName,
		"addr":         c.Addr,
		"log_file":     c.Log.File,
		"log_max_size": c.Log.MaxSizeMB,
	}
}

// DbURL prefers database_url and falls back to the postgres.* keys.
func (c Config) DbURL() (string, error) {
	if c.DatabaseURL != "" {
		return c.DatabaseURL, nil
	}
	if err := c.Postgres.complete(); err != nil {
		return "", fmt.Errorf("no database_url set; %w", err)
	}
	return c.Postgres.URL(), nil
}
