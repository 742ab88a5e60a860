package auth_test

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	auth "github.com/goliatone/go-auth-bookmarks"
)

// MockUsers implements auth.ProfileStore
type MockUsers struct {
	mock.Mock
}

func (m *MockUsers) CreateIdentity(ctx context.Context, user *auth.User) (*auth.User, error) {
	args := m.Called(ctx, user)
	switch u := args.Get(0).(type) {
	case func(context.Context, *auth.User) *auth.User:
		return u(ctx, user), args.Error(1)
	case *auth.User:
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*auth.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) FindByID(ctx context.Context, id uuid.UUID) (*auth.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*auth.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUsers) UpdateProfile(ctx context.Context, user *auth.User, columns ...string) (*auth.User, error) {
	args := m.Called(ctx, user, columns)
	switch u := args.Get(0).(type) {
	case func(context.Context, *auth.User, ...string) *auth.User:
		return u(ctx, user, columns...), args.Error(1)
	case *auth.User:
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockAuthenticator implements auth.Authenticator
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) SignUp(ctx context.Context, input auth.SignUpInput) (*auth.PublicUser, error) {
	args := m.Called(ctx, input)
	if u := args.Get(0); u != nil {
		return u.(*auth.PublicUser), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthenticator) SignIn(ctx context.Context, email, password string) (*auth.AccessToken, error) {
	args := m.Called(ctx, email, password)
	if t := args.Get(0); t != nil {
		return t.(*auth.AccessToken), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAuthenticator) IdentityFromToken(ctx context.Context, token string) (*auth.PublicUser, error) {
	args := m.Called(ctx, token)
	if u := args.Get(0); u != nil {
		return u.(*auth.PublicUser), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockLogger implements auth.Logger for testing
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

type capturingSink struct {
	mu     sync.Mutex
	events []auth.ActivityEvent
}

func (c *capturingSink) Record(ctx context.Context, evt auth.ActivityEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, evt)
	return nil
}

func (c *capturingSink) types() []auth.ActivityEventType {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]auth.ActivityEventType, 0, len(c.events))
	for _, e := range c.events {
		out = append(out, e.EventType)
	}
	return out
}

// countingHasher wraps a hasher and counts verifications
type countingHasher struct {
	auth.PasswordHasher
	mu       sync.Mutex
	compares int
}

func (c *countingHasher) ComparePasswordAndHash(password, hash string) error {
	c.mu.Lock()
	c.compares++
	c.mu.Unlock()
	return c.PasswordHasher.ComparePasswordAndHash(password, hash)
}

func (c *countingHasher) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.compares
}

// fastArgon2 keeps tests quick, production uses the defaults
var fastArgon2 = auth.Argon2Params{
	Memory:      1024,
	Iterations:  1,
	Parallelism: 1,
}

func newTestHasher() auth.PasswordHasher {
	return auth.NewPasswordHasher(auth.Argon2ID, fastArgon2, 4)
}
