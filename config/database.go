package config

import (
	"net/url"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/spf13/viper"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Database connection config
type Database struct {
	Driver       string `json:"driver"`
	URL          string `json:"-"`
	Debug        bool   `json:"debug"`
	MaxOpenConns int    `json:"max_open_conns"`
}

func getDatabaseConfig(v *viper.Viper) *Database {
	return &Database{
		Driver:       v.GetString("database.driver"),
		URL:          v.GetString("database.url"),
		Debug:        v.GetBool("database.debug"),
		MaxOpenConns: v.GetInt("database.max_open_conns"),
	}
}

// Validate will run validation rules
func (d Database) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Driver, validation.Required, validation.In(DriverSQLite, DriverPostgres)),
		validation.Field(&d.URL, validation.Required),
		validation.Field(&d.MaxOpenConns, validation.Min(0)),
	)
}

// maskDSN hides the password of URL shaped DSNs
func maskDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return dsn
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}
