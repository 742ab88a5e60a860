package config

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/spf13/viper"
)

// Logger logger config struct
type Logger struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

func getLoggerConfig(v *viper.Viper) *Logger {
	return &Logger{
		Level:  v.GetString("logger.level"),
		Format: v.GetString("logger.format"),
	}
}

// Validate will run validation rules
func (l Logger) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Level, validation.In("trace", "debug", "info", "warn", "warning", "error")),
		validation.Field(&l.Format, validation.In("text", "json")),
	)
}
