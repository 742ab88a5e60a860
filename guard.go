package auth

import (
	"context"
	"strings"
)

// RouteAccess is the access class of a route
type RouteAccess int

const (
	// RouteProtected is the zero value so an unclassified route requires a token
	RouteProtected RouteAccess = iota
	RoutePublic
)

func (r RouteAccess) String() string {
	if r == RoutePublic {
		return "public"
	}
	return "protected"
}

// DefaultAuthScheme is the authorization header scheme
const DefaultAuthScheme = "Bearer"

// Guard decides per request whether it may proceed. It does not mutate the
// request, callers attach the returned user themselves.
type Guard struct {
	auth   Authenticator
	scheme string
	logger Logger
}

// NewGuard returns a guard that resolves tokens through auth
func NewGuard(auth Authenticator, opts ...GuardOption) *Guard {
	g := &Guard{
		auth:   auth,
		scheme: DefaultAuthScheme,
		logger: defLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

type GuardOption func(*Guard)

func WithGuardScheme(scheme string) GuardOption {
	return func(g *Guard) {
		if scheme != "" {
			g.scheme = scheme
		}
	}
}

func WithGuardLogger(logger Logger) GuardOption {
	return func(g *Guard) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// Scheme returns the expected authorization scheme
func (g *Guard) Scheme() string {
	return g.scheme
}

// Authorize checks the authorization header value against the route access.
// Public routes return (nil, nil) without inspecting the header.
func (g *Guard) Authorize(ctx context.Context, access RouteAccess, authorization string) (*PublicUser, error) {
	if access == RoutePublic {
		return nil, nil
	}

	token, ok := ParseAuthorization(authorization, g.scheme)
	if !ok {
		return nil, ErrUnauthenticated
	}

	return g.AuthorizeToken(ctx, access, token)
}

// AuthorizeToken is Authorize for an already extracted raw token
func (g *Guard) AuthorizeToken(ctx context.Context, access RouteAccess, token string) (*PublicUser, error) {
	if access == RoutePublic {
		return nil, nil
	}

	if token == "" {
		return nil, ErrUnauthenticated
	}

	user, err := g.auth.IdentityFromToken(ctx, token)
	if err != nil {
		if IsTokenExpiredError(err) || IsMalformedError(err) {
			g.logger.Debug("guard rejected token", "error", err)
		}
		return nil, err
	}

	if user == nil {
		return nil, ErrUnauthenticated
	}

	return user, nil
}

// ParseAuthorization extracts the token from "<scheme> <token>". The scheme
// match is case insensitive. An empty scheme accepts the raw value.
func ParseAuthorization(header, scheme string) (string, bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", false
	}

	if scheme == "" {
		return header, true
	}

	l := len(scheme)
	if len(header) <= l+1 || !strings.EqualFold(header[:l], scheme) || header[l] != ' ' {
		return "", false
	}

	token := strings.TrimSpace(header[l+1:])
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}

	return token, true
}
