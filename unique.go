package auth

import (
	"errors"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgUniqueViolation is the SQLSTATE for unique_violation
const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err is the store signal for a duplicated
// unique value, as produced by NewUniqueViolation
func IsUniqueViolation(err error) bool {
	return HasTextCode(err, TextCodeUniqueConstraint)
}

// NewUniqueViolation translates a driver error into ErrUniqueConstraint when
// it is a unique constraint failure. Any other error is returned as is.
func NewUniqueViolation(err error, metadata map[string]any) error {
	if err == nil || !isDriverUniqueViolation(err) {
		return err
	}

	meta := map[string]any{"cause": err.Error()}
	for k, v := range metadata {
		meta[k] = v
	}

	return ErrUniqueConstraint.Clone().WithMetadata(meta)
}

func isDriverUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && richErr.TextCode == TextCodeUniqueConstraint {
		return true
	}

	// both sqlite drivers behind sqliteshim report the same message
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "constraint failed: UNIQUE")
}
