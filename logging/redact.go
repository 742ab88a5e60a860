package logging

import (
	"strings"

	"github.com/sirupsen/logrus"
)

const redacted = "[REDACTED]"

// DefaultSensitiveKeys are field names whose values never reach the output
var DefaultSensitiveKeys = []string{
	"password",
	"password_hash",
	"passwordhash",
	"hash",
	"token",
	"access_token",
	"accesstoken",
	"authorization",
	"secret",
	"jwt_secret",
}

// RedactHook masks sensitive fields before any formatter sees them
type RedactHook struct {
	keys map[string]struct{}
}

func NewRedactHook(keys ...string) *RedactHook {
	if len(keys) == 0 {
		keys = DefaultSensitiveKeys
	}
	h := &RedactHook{keys: make(map[string]struct{}, len(keys))}
	for _, k := range keys {
		h.keys[strings.ToLower(k)] = struct{}{}
	}
	return h
}

func (h *RedactHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *RedactHook) Fire(entry *logrus.Entry) error {
	for key, value := range entry.Data {
		entry.Data[key] = h.redact(key, value, 0)
	}
	return nil
}

// IsSensitive reports whether key names a secret
func (h *RedactHook) IsSensitive(key string) bool {
	_, ok := h.keys[strings.ToLower(strings.TrimSpace(key))]
	return ok
}

func (h *RedactHook) redact(key string, value any, depth int) any {
	if h.IsSensitive(key) {
		return redacted
	}

	if depth > 5 {
		return value
	}

	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, inner := range v {
			out[k] = h.redact(k, inner, depth+1)
		}
		return out
	case map[string]string:
		out := make(map[string]string, len(v))
		for k, inner := range v {
			if h.IsSensitive(k) {
				out[k] = redacted
				continue
			}
			out[k] = inner
		}
		return out
	default:
		return value
	}
}
