package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of an identity that are safe to put
// in a token payload
type Identity interface {
	ID() string
	Email() string
}

// Authenticator holds the sign-up, sign-in and token resolution flows
type Authenticator interface {
	SignUp(ctx context.Context, input SignUpInput) (*PublicUser, error)
	SignIn(ctx context.Context, email, password string) (*AccessToken, error)
	IdentityFromToken(ctx context.Context, token string) (*PublicUser, error)
}

// Config holds auth options
type Config interface {
	GetSigningKey() string
	GetSigningMethod() string
	GetContextKey() string
	// GetTokenExpiration is the token time-to-live in seconds
	GetTokenExpiration() int
	GetTokenLookup() string
	GetAuthScheme() string
	GetIssuer() string
	GetAudience() []string
}

// IdentityStore is the narrow view of the persistence layer the core needs.
// A uniqueness violation on create must be reported so IsUniqueViolation
// recognises it, and a missing record as ErrIdentityNotFound.
type IdentityStore interface {
	CreateIdentity(ctx context.Context, user *User) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
}

// ProfileStore persists profile edits
type ProfileStore interface {
	IdentityStore
	UpdateProfile(ctx context.Context, user *User, columns ...string) (*User, error)
}

// PasswordHasher hashes and verifies passwords
type PasswordHasher interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

// TokenService issues and validates bearer tokens
type TokenService interface {
	TokenValidator
	Issue(identity Identity) (string, time.Time, error)
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Print("[ERR] AUTH " + render(format, args...))
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Print("[WRN] AUTH " + render(format, args...))
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Print("[INF] AUTH " + render(format, args...))
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Print("[DBG] AUTH " + render(format, args...))
}

// render supports both printf verbs and trailing key/value pairs
func render(format string, args ...any) string {
	if strings.Contains(format, "%") {
		return newline(fmt.Sprintf(format, args...))
	}
	if len(args) == 0 {
		return newline(format)
	}
	return newline(strings.TrimSpace(fmt.Sprintln(append([]any{format}, args...)...)))
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
