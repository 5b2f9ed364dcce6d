package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

type Config struct {
	HTTP struct {
		Addr string `validate:"required"`
	}
	DB struct {
		Driver string `validate:"required,oneof=sqlite3 mysql postgres"`
		DSN    string `validate:"required"`
	}
	Log struct {
		Level string `validate:"required,oneof=debug info warn error"`
	}
	CORS struct {
		AllowedOrigins []string
	}
	Env             string `validate:"required,oneof=development production test"`
	APIToken        string `validate:"required"`
	ShutdownTimeout time.Duration
}

// IsProduction reports whether the process runs with the production profile.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Load reads config from an optional .env file, the environment (BOOKMARKS_
// prefix, plus the legacy PORT, NODE_ENV, API_TOKEN and DATABASE_URL names)
// and an optional joe-bookmarks.yaml.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("BOOKMARKS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("joe-bookmarks")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional config file

	_ = v.BindEnv("http.addr", "BOOKMARKS_HTTP_ADDR", "PORT")
	_ = v.BindEnv("env", "BOOKMARKS_ENV", "NODE_ENV")
	_ = v.BindEnv("api_token", "BOOKMARKS_API_TOKEN", "API_TOKEN")
	_ = v.BindEnv("db.dsn", "BOOKMARKS_DB_DSN", "DATABASE_URL")

	v.SetDefault("http.addr", ":8000")
	v.SetDefault("env", EnvDevelopment)
	v.SetDefault("db.driver", "postgres")
	v.SetDefault("shutdown_timeout", "5s")
	v.SetDefault("cors.allowed_origins", "*")

	cfg := &Config{}
	cfg.HTTP.Addr = normalizeAddr(v.GetString("http.addr"))
	cfg.DB.Driver = v.GetString("db.driver")
	cfg.DB.DSN = v.GetString("db.dsn")
	cfg.Env = v.GetString("env")
	cfg.APIToken = v.GetString("api_token")
	cfg.CORS.AllowedOrigins = splitList(v.GetString("cors.allowed_origins"))

	cfg.Log.Level = v.GetString("log.level")
	if cfg.Log.Level == "" {
		cfg.Log.Level = "debug"
		if cfg.IsProduction() {
			cfg.Log.Level = "info"
		}
	}

	timeout, err := time.ParseDuration(v.GetString("shutdown_timeout"))
	if err != nil {
		return nil, fmt.Errorf("invalid BOOKMARKS_SHUTDOWN_TIMEOUT: %w", err)
	}
	cfg.ShutdownTimeout = timeout

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

var envNames = map[string]string{
	"Config.HTTP.Addr": "BOOKMARKS_HTTP_ADDR",
	"Config.DB.Driver": "BOOKMARKS_DB_DRIVER",
	"Config.DB.DSN":    "BOOKMARKS_DB_DSN",
	"Config.Log.Level": "BOOKMARKS_LOG_LEVEL",
	"Config.Env":       "BOOKMARKS_ENV",
	"Config.APIToken":  "BOOKMARKS_API_TOKEN",
}

// validate turns validator failures into messages naming the environment
// variable an operator has to fix.
func validate(cfg *Config) error {
	err := validator.New().Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fe := verrs[0]
	name := envNames[fe.Namespace()]
	if name == "" {
		name = fe.Namespace()
	}
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", name)
	case "oneof":
		return fmt.Errorf("%s must be one of: %s (got %q)", name, strings.ReplaceAll(fe.Param(), " ", ", "), fe.Value())
	default:
		return fmt.Errorf("%s is invalid: %s", name, fe.Tag())
	}
}

// normalizeAddr accepts a bare port, as PORT is usually set, and turns it into
// a listen address.
func normalizeAddr(addr string) string {
	if addr != "" && !strings.Contains(addr, ":") {
		return ":" + addr
	}
	return addr
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
