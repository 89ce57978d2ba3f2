package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type PostgresConfig struct {
	DSN             string
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	MinConns        int
	MaxConns        int
	ConnMaxLifetime time.Duration
}

// URL returns the explicit DSN when set, otherwise one assembled from the
// discrete host/port/name/user/password fields.
func (c PostgresConfig) URL() string {
	if c.DSN != "" {
		return c.DSN
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   c.Name,
	}
	return u.String()
}

type SessionConfig struct {
	CookieName   string
	TTL          time.Duration
	CookieSecure bool
}

type AppConfig struct {
	Environment      string
	HTTP             HTTPConfig
	Postgres         PostgresConfig
	Session          SessionConfig
	AllowCORSOrigins []string
}

func (c *AppConfig) Production() bool {
	return c.Environment == "production"
}

func Load() (*AppConfig, error) {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Per-environment dotenv file, if present. Real env vars win.
	_ = godotenv.Load(".env." + env)

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("HRIS")
	v.AutomaticEnv()

	setDefaults(v, env)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, env string) {
	v.SetDefault("environment", env)

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "15s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("postgres.host", "127.0.0.1")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.name", "hris")
	v.SetDefault("postgres.user", "hris")
	v.SetDefault("postgres.minconns", 1)
	v.SetDefault("postgres.maxconns", 20)
	v.SetDefault("postgres.connmaxlifetime", "30m")

	v.SetDefault("session.cookiename", "session_id")
	v.SetDefault("session.ttl", "24h")
	v.SetDefault("session.cookiesecure", env == "production")
}
