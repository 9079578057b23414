package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Database struct {
	Username     string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	PasswordFile string `mapstructure:"password_file"`
	Host         string `mapstructure:"host"`
	Port         uint16 `mapstructure:"port"`
	DBName       string `mapstructure:"db_name"`
	SSLMode      string `mapstructure:"ssl_mode"`
}

func (c *Database) loadPassword() error {
	if c.Password != "" || c.PasswordFile == "" {
		return nil
	}
	data, err := os.ReadFile(c.PasswordFile)
	if err != nil {
		return fmt.Errorf("unable to read from password file: %w", err)
	}
	c.Password = strings.TrimSpace(string(data))
	return nil
}

func (c Database) complete() error {
	var missing []string
	if c.Username == "" {
		missing = append(missing, "postgres.user")
	}
	if c.Host == "" {
		missing = append(missing, "postgres.host")
	}
	if c.DBName == "" {
		missing = append(missing, "postgres.db_name")
	}
	if len(missing) > 0 {
		return errors.New("missing " + strings.Join(missing, ", "))
	}
	return nil
}

func (c Database) URL() string {
	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%d/%s?sslmode=%s",
		c.Username,
		url.QueryEscape(c.Password),
		c.Host,
		c.Port,
		c.DBName,
		c.SSLMode,
	)
}

func (c Config) NewPgxpoolConfig() (*pgxpool.Config, error) {
	dbURL, err := c.DbURL()
	if err != nil {
		return nil, err
	}
	return pgxpool.ParseConfig(dbURL)
}
