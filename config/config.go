package config

import (
	"os"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/goliatone/go-errors"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	TextCodeInvalidConfig = "INVALID_CONFIGURATION"
	TextCodeConfigFile    = "CONFIG_FILE_ERROR"
)

// Config is the process configuration. It is loaded once at startup and
// only read afterwards.
type Config struct {
	AppName  string
	Env      string
	Server   *Server
	Database *Database
	Auth     *Auth
	Logger   *Logger
}

// Load reads the optional config file at path, a .env file in the working
// directory and the process environment, in increasing precedence.
func Load(path string, dotenvFiles ...string) (*Config, error) {
	if err := loadDotEnv(dotenvFiles...); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)
	bindEnv(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(err, errors.CategoryBadInput, "failed to read config file").
				WithTextCode(TextCodeConfigFile)
		}
	}

	return FromViper(v)
}

// FromViper builds and validates a Config from an already populated viper
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppName:  v.GetString("app.name"),
		Env:      v.GetString("app.env"),
		Server:   getServerConfig(v),
		Database: getDatabaseConfig(v),
		Auth:     getAuthConfig(v),
		Logger:   getLoggerConfig(v),
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.CategoryValidation, "invalid configuration").
			WithTextCode(TextCodeInvalidConfig)
	}

	return cfg, nil
}

// Validate will run validation rules
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Env, validation.Required),
		validation.Field(&c.Server, validation.Required),
		validation.Field(&c.Database, validation.Required),
		validation.Field(&c.Auth, validation.Required),
		validation.Field(&c.Logger, validation.Required),
	)
}

// IsProduction reports whether the app runs in production
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Redacted returns a printable view of the configuration with secrets masked
func (c *Config) Redacted() map[string]any {
	return map[string]any{
		"app": map[string]any{
			"name": c.AppName,
			"env":  c.Env,
		},
		"server": c.Server,
		"database": map[string]any{
			"driver": c.Database.Driver,
			"url":    maskDSN(c.Database.URL),
			"debug":  c.Database.Debug,
		},
		"auth": map[string]any{
			"jwt_secret":      mask(c.Auth.JWTSecret),
			"jwt_expires_in":  c.Auth.JWTExpiresIn,
			"jwt_issuer":      c.Auth.Issuer,
			"scheme":          c.Auth.Scheme,
			"token_lookup":    c.Auth.TokenLookup,
			"context_key":     c.Auth.ContextKey,
			"password_hasher": c.Auth.PasswordHasher,
			"use_hashid":      c.Auth.UseHashid,
		},
		"logger": c.Logger,
	}
}

func loadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return err
		}
		if err := godotenv.Load(f); err != nil {
			return errors.Wrap(err, errors.CategoryBadInput, "failed to load "+f).
				WithTextCode(TextCodeConfigFile)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "bookmarks")
	v.SetDefault("app.env", "development")
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.debug", false)
	v.SetDefault("database.max_open_conns", 0)
	v.SetDefault("auth.jwt.expires_in", 3600)
	v.SetDefault("auth.jwt.issuer", "")
	v.SetDefault("auth.jwt.audience", []string{})
	v.SetDefault("auth.scheme", "Bearer")
	v.SetDefault("auth.token_lookup", "header:Authorization")
	v.SetDefault("auth.context_key", "user")
	v.SetDefault("auth.password_hasher", "argon2id")
	v.SetDefault("auth.argon2.memory", 64*1024)
	v.SetDefault("auth.argon2.iterations", 1)
	v.SetDefault("auth.argon2.parallelism", 4)
	v.SetDefault("auth.argon2.salt_length", 16)
	v.SetDefault("auth.argon2.key_length", 32)
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("auth.use_hashid", false)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "text")
}

// bindEnv maps the documented environment variables, anything else can be
// set through the APP_ prefix, e.g. APP_LOGGER_LEVEL
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindings := map[string]string{
		"app.env":             "APP_ENV",
		"server.port":         "PORT",
		"database.driver":     "DATABASE_DRIVER",
		"database.url":        "DATABASE_URL",
		"auth.jwt.secret":     "JWT_SECRET",
		"auth.jwt.expires_in": "JWT_EXPIRES_IN",
	}
	for key, env := range bindings {
		_ = v.BindEnv(key, env)
	}
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "******"
}
