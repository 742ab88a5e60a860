package auth

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

// DefaultContextKey is the fiber locals key holding the current user
const DefaultContextKey = "user"

var userCtxKey = &contextKey{"user"}

type contextKey struct {
	name string
}

// WithContext sets the User in the given context
func WithContext(r context.Context, user *PublicUser) context.Context {
	return context.WithValue(r, userCtxKey, user)
}

// FromContext finds the user from the context.
func FromContext(ctx context.Context) (*PublicUser, bool) {
	if ctx == nil {
		return nil, false
	}
	raw, ok := ctx.Value(userCtxKey).(*PublicUser)
	return raw, ok && raw != nil
}

// CurrentUser returns the user the guard attached to the request, looking at
// the request context first and then at the fiber locals.
func CurrentUser(c *fiber.Ctx, keys ...string) (*PublicUser, bool) {
	if user, ok := FromContext(c.UserContext()); ok {
		return user, true
	}

	key := DefaultContextKey
	if len(keys) > 0 && keys[0] != "" {
		key = keys[0]
	}

	user, ok := c.Locals(key).(*PublicUser)
	return user, ok && user != nil
}

// MustCurrentUser is CurrentUser for handlers mounted behind the guard, a
// missing user is reported as ErrUnauthenticated
func MustCurrentUser(c *fiber.Ctx, keys ...string) (*PublicUser, error) {
	user, ok := CurrentUser(c, keys...)
	if !ok {
		return nil, ErrUnauthenticated
	}
	return user, nil
}
