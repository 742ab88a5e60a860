package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	auth "github.com/goliatone/go-auth-bookmarks"
	"github.com/goliatone/go-auth-bookmarks/config"
)

// Logger adapts logrus to the auth.Logger interface. Messages with printf
// verbs are formatted, otherwise trailing args are read as key/value pairs.
type Logger struct {
	entry *logrus.Entry
}

var _ auth.Logger = (*Logger)(nil)

// New creates a logger writing to stderr
func New(cfg *config.Logger) *Logger {
	return NewWithWriter(cfg, os.Stderr)
}

// NewWithWriter creates a logger writing to out
func NewWithWriter(cfg *config.Logger, out io.Writer) *Logger {
	l := logrus.New()
	l.SetOutput(out)

	level := logrus.InfoLevel
	format := "text"
	if cfg != nil {
		if lvl, err := logrus.ParseLevel(cfg.Level); err == nil {
			level = lvl
		}
		format = cfg.Format
	}
	l.SetLevel(level)

	if format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	l.AddHook(NewRedactHook())

	return &Logger{entry: logrus.NewEntry(l)}
}

// Logrus exposes the underlying logger
func (l *Logger) Logrus() *logrus.Logger {
	return l.entry.Logger
}

// WithField returns a logger that always adds key to its entries
func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{entry: l.entry.WithField(key, value)}
}

func (l *Logger) Debug(format string, args ...any) {
	l.log(logrus.DebugLevel, format, args...)
}

func (l *Logger) Info(format string, args ...any) {
	l.log(logrus.InfoLevel, format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.log(logrus.WarnLevel, format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.log(logrus.ErrorLevel, format, args...)
}

func (l *Logger) log(level logrus.Level, format string, args ...any) {
	if !l.entry.Logger.IsLevelEnabled(level) {
		return
	}

	if strings.Contains(format, "%") {
		l.entry.Log(level, fmt.Sprintf(format, args...))
		return
	}

	l.entry.WithFields(fields(args)).Log(level, format)
}

// fields pairs up args, a dangling value is kept under "extra"
func fields(args []any) logrus.Fields {
	out := logrus.Fields{}
	for i := 0; i < len(args); i += 2 {
		if i+1 >= len(args) {
			out["extra"] = args[i]
			break
		}
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		value := args[i+1]
		if err, ok := value.(error); ok {
			value = err.Error()
		}
		out[key] = value
	}
	return out
}
