package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeDuplicateIdentity    = "DUPLICATE_IDENTITY"
	TextCodeInvalidCredentials   = "INVALID_CREDENTIALS"
	TextCodeUnauthenticated      = "UNAUTHENTICATED"
	TextCodeTokenExpired         = "TOKEN_EXPIRED"
	TextCodeTokenMalformed       = "TOKEN_MALFORMED"
	TextCodeOwnershipViolation   = "OWNERSHIP_VIOLATION"
	TextCodeUniqueConstraint     = "UNIQUE_CONSTRAINT"
	TextCodeIdentityNotFound     = "IDENTITY_NOT_FOUND"
	TextCodeValidationFailure    = "VALIDATION_FAILURE"
	TextCodeUnsupportedHash      = "UNSUPPORTED_PASSWORD_HASH"
	TextCodeMismatchedPassword   = "MISMATCHED_PASSWORD"
	TextCodeEmptyPassword        = "EMPTY_PASSWORD"
	TextCodePasswordTooLong      = "PASSWORD_TOO_LONG"
	TextCodeInternalServerFailed = "INTERNAL_SERVER_ERROR"
)

// ErrDuplicateIdentity is returned when sign-up or a profile edit hits
// an email that is already registered
var ErrDuplicateIdentity = errors.New("Email already in use", errors.CategoryConflict).
	WithTextCode(TextCodeDuplicateIdentity).
	WithCode(errors.CodeForbidden)

// ErrInvalidCredentials covers both unknown email and wrong password
var ErrInvalidCredentials = errors.New("Invalid email or password", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(errors.CodeForbidden)

// ErrUnauthenticated is the request level rejection of the guard
var ErrUnauthenticated = errors.New("Unauthorized", errors.CategoryAuth).
	WithTextCode(TextCodeUnauthenticated).
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is returned for tokens past their expiration instant
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned for tokens that fail parsing or signature checks
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrOwnershipViolation is returned when a resource is not owned by the caller
var ErrOwnershipViolation = errors.New("resource not found", errors.CategoryAuthz).
	WithTextCode(TextCodeOwnershipViolation).
	WithCode(errors.CodeForbidden)

// ErrUniqueConstraint is the store signal for a duplicated unique value
var ErrUniqueConstraint = errors.New("unique constraint violation", errors.CategoryConflict).
	WithTextCode(TextCodeUniqueConstraint).
	WithCode(errors.CodeConflict)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound).
	WithTextCode(TextCodeIdentityNotFound).
	WithCode(errors.CodeNotFound)

// ErrMismatchedHashAndPassword password does not match stored hash
var ErrMismatchedHashAndPassword = errors.New("password does not match hash", errors.CategoryAuth).
	WithTextCode(TextCodeMismatchedPassword).
	WithCode(errors.CodeForbidden)

// ErrUnsupportedPasswordHash stored digest has an unknown or broken format
var ErrUnsupportedPasswordHash = errors.New("unsupported password hash format", errors.CategoryAuth).
	WithTextCode(TextCodeUnsupportedHash).
	WithCode(errors.CodeForbidden)

// ErrNoEmptyString we refuse to hash empty passwords
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(errors.CodeBadRequest)

// ErrPasswordTooLong bcrypt only reads the first MaxPasswordBytes bytes
var ErrPasswordTooLong = errors.New("password must be at most 72 bytes", errors.CategoryValidation).
	WithTextCode(TextCodePasswordTooLong).
	WithCode(errors.CodeBadRequest)

// NewValidationError wraps a payload validation failure
func NewValidationError(err error) *errors.Error {
	rich := errors.New("Validation failed", errors.CategoryValidation).
		WithTextCode(TextCodeValidationFailure).
		WithCode(errors.CodeBadRequest)

	if err != nil {
		rich = rich.WithMetadata(map[string]any{
			"details": ValidationDetails(err),
		})
	}

	return rich
}

// NewOwnershipError is ErrOwnershipViolation with a resource specific message
func NewOwnershipError(resource, id string) *errors.Error {
	rich := ErrOwnershipViolation.Clone()
	rich.Message = resource + " with id " + id + " not found"
	return rich.WithMetadata(map[string]any{
		"resource": resource,
		"id":       id,
	})
}

// HasTextCode reports whether err is a rich error with the given text code
func HasTextCode(err error, code string) bool {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return false
	}
	return richErr.TextCode == code
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if HasTextCode(err, TextCodeTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if HasTextCode(err, TextCodeTokenMalformed) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// IsNotFound reports missing identities
func IsNotFound(err error) bool {
	return HasTextCode(err, TextCodeIdentityNotFound)
}
