package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Addr     string
	Database Database
	JWT      JWT
	SMTP     SMTP
}

type Database struct {
	Driver string
	DSN    string
}

type JWT struct {
	Secret     string
	TTLMinutes int
}

type SMTP struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// Load reads config.yaml from dir, with PACTCHAT_* environment variables
// overriding file values. A missing file is fine; defaults apply.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetDefault("addr", ":8080")
	v.SetDefault("database.driver", "sqlite3")
	v.SetDefault("database.dsn", "pactchat.db")
	v.SetDefault("jwt.secret", "dev-secret-change-me")
	v.SetDefault("jwt.ttlminutes", 24*60)
	v.SetDefault("smtp.host", "")
	v.SetDefault("smtp.port", "587")
	v.SetDefault("smtp.username", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("smtp.from", "no-reply@pactchat.local")

	v.SetEnvPrefix("PACTCHAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	return &c, nil
}
