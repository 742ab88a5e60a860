package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	auth "github.com/goliatone/go-auth-bookmarks"
)

type autherFixture struct {
	store  *MockUsers
	hasher *countingHasher
	tokens *auth.TokenServiceImpl
	clock  *fakeClock
	sink   *capturingSink
	auther *auth.Auther
}

func newAutherFixture() *autherFixture {
	f := &autherFixture{
		store:  new(MockUsers),
		hasher: &countingHasher{PasswordHasher: newTestHasher()},
		clock:  &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
		sink:   &capturingSink{},
	}
	f.tokens = newTestTokenService(f.clock)
	f.auther = auth.NewAuthenticator(f.store, f.hasher, f.tokens).
		WithLogger(nopLogger{}).
		WithActivitySink(f.sink)
	return f
}

func (f *autherFixture) storedUser(t *testing.T, email, password string) *auth.User {
	t.Helper()
	digest, err := f.hasher.HashPassword(password)
	require.NoError(t, err)
	return &auth.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: digest,
	}
}

func TestSignUp(t *testing.T) {
	ctx := context.Background()

	t.Run("creates identity and returns the public projection", func(t *testing.T) {
		f := newAutherFixture()

		var created *auth.User
		f.store.On("CreateIdentity", ctx, mock.AnythingOfType("*auth.User")).
			Run(func(args mock.Arguments) {
				created = args.Get(1).(*auth.User)
				created.ID = uuid.New()
			}).
			Return(func(ctx context.Context, u *auth.User) *auth.User { return u }, nil).Once()

		user, err := f.auther.SignUp(ctx, auth.SignUpInput{Email: " a@x.com ", Password: "pw123456", FirstName: "Ada"})
		require.NoError(t, err)
		require.NotNil(t, user)

		assert.Equal(t, "a@x.com", user.Email)
		assert.Equal(t, "Ada", user.FirstName)
		assert.Equal(t, created.ID, user.ID)

		assert.NotEqual(t, "pw123456", created.PasswordHash)
		assert.NoError(t, f.hasher.ComparePasswordAndHash("pw123456", created.PasswordHash))

		raw, err := json.Marshal(user)
		require.NoError(t, err)
		assert.NotContains(t, string(raw), "assword")
		assert.NotContains(t, string(raw), created.PasswordHash)

		assert.Equal(t, []auth.ActivityEventType{auth.ActivityEventSignUpSuccess}, f.sink.types())
		f.store.AssertNumberOfCalls(t, "CreateIdentity", 1)
	})

	t.Run("duplicate email", func(t *testing.T) {
		f := newAutherFixture()

		f.store.On("CreateIdentity", ctx, mock.Anything).
			Return(nil, auth.ErrUniqueConstraint.Clone()).Once()

		user, err := f.auther.SignUp(ctx, auth.SignUpInput{Email: "a@x.com", Password: "pw123456"})
		assert.Nil(t, user)
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrDuplicateIdentity)
		assert.Contains(t, err.Error(), "Email already in use")
		assert.Equal(t, []auth.ActivityEventType{auth.ActivityEventSignUpFailure}, f.sink.types())
	})

	t.Run("other store failures propagate unchanged", func(t *testing.T) {
		f := newAutherFixture()
		boom := errors.New("disk on fire")

		f.store.On("CreateIdentity", ctx, mock.Anything).Return(nil, boom).Once()

		_, err := f.auther.SignUp(ctx, auth.SignUpInput{Email: "a@x.com", Password: "pw123456"})
		assert.Same(t, boom, err)
	})

	t.Run("hashid identifiers are derived from the email", func(t *testing.T) {
		f := newAutherFixture()
		f.auther.WithHashidIdentifiers(true)

		var ids []uuid.UUID
		f.store.On("CreateIdentity", ctx, mock.Anything).
			Run(func(args mock.Arguments) {
				ids = append(ids, args.Get(1).(*auth.User).ID)
			}).
			Return(func(ctx context.Context, u *auth.User) *auth.User { return u }, nil).Twice()

		_, err := f.auther.SignUp(ctx, auth.SignUpInput{Email: "a@x.com", Password: "pw123456"})
		require.NoError(t, err)
		_, err = f.auther.SignUp(ctx, auth.SignUpInput{Email: "a@x.com", Password: "pw123456"})
		require.NoError(t, err)

		require.Len(t, ids, 2)
		assert.NotEqual(t, uuid.Nil, ids[0])
		assert.Equal(t, ids[0], ids[1])
	})
}

func TestSignIn(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials return a token for the identity", func(t *testing.T) {
		f := newAutherFixture()
		user := f.storedUser(t, "a@x.com", "pw123456")
		f.store.On("FindByEmail", ctx, "a@x.com").Return(user, nil).Once()

		out, err := f.auther.SignIn(ctx, "a@x.com", "pw123456")
		require.NoError(t, err)
		require.NotEmpty(t, out.AccessToken)

		claims, err := f.tokens.Validate(out.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), claims.Subject())
		assert.Equal(t, "a@x.com", claims.Email())

		assert.Equal(t, []auth.ActivityEventType{auth.ActivityEventSignInSuccess}, f.sink.types())
		f.store.AssertNotCalled(t, "CreateIdentity", mock.Anything, mock.Anything)
		f.store.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		f := newAutherFixture()
		user := f.storedUser(t, "a@x.com", "pw123456")
		f.store.On("FindByEmail", ctx, "a@x.com").Return(user, nil).Once()
		f.store.On("FindByEmail", ctx, "b@x.com").Return(nil, auth.ErrIdentityNotFound).Once()

		before := f.hasher.count()

		_, wrongPassword := f.auther.SignIn(ctx, "a@x.com", "wrong-password")
		_, unknownEmail := f.auther.SignIn(ctx, "b@x.com", "pw123456")

		require.Error(t, wrongPassword)
		require.Error(t, unknownEmail)
		assert.ErrorIs(t, wrongPassword, auth.ErrInvalidCredentials)
		assert.ErrorIs(t, unknownEmail, auth.ErrInvalidCredentials)
		assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
		assert.Contains(t, unknownEmail.Error(), "Invalid email or password")

		// both paths run exactly one verification
		assert.Equal(t, before+2, f.hasher.count())

		assert.Equal(t, []auth.ActivityEventType{
			auth.ActivityEventSignInFailure,
			auth.ActivityEventSignInFailure,
		}, f.sink.types())
	})

	t.Run("malformed stored digest fails closed", func(t *testing.T) {
		f := newAutherFixture()
		f.store.On("FindByEmail", ctx, "a@x.com").
			Return(&auth.User{ID: uuid.New(), Email: "a@x.com", PasswordHash: "garbage"}, nil).Once()

		out, err := f.auther.SignIn(ctx, "a@x.com", "pw123456")
		assert.Nil(t, out)
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("store failure propagates", func(t *testing.T) {
		f := newAutherFixture()
		boom := errors.New("connection reset")
		f.store.On("FindByEmail", ctx, "a@x.com").Return(nil, boom).Once()

		_, err := f.auther.SignIn(ctx, "a@x.com", "pw123456")
		assert.Same(t, boom, err)
	})
}

func TestIdentityFromToken(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves the subject with a fresh lookup", func(t *testing.T) {
		f := newAutherFixture()
		user := f.storedUser(t, "a@x.com", "pw123456")
		token, _, err := f.tokens.Issue(auth.NewIdentityFromUser(user.Public()))
		require.NoError(t, err)

		f.store.On("FindByID", ctx, user.ID).Return(user, nil).Twice()

		first, err := f.auther.IdentityFromToken(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, first.ID)
		assert.Equal(t, "a@x.com", first.Email)

		_, err = f.auther.IdentityFromToken(ctx, token)
		require.NoError(t, err)
		f.store.AssertNumberOfCalls(t, "FindByID", 2)
	})

	t.Run("deleted identity is unauthenticated", func(t *testing.T) {
		f := newAutherFixture()
		id := uuid.New()
		token, _, err := f.tokens.Issue(testIdentity{id: id.String(), email: "a@x.com"})
		require.NoError(t, err)

		f.store.On("FindByID", ctx, id).Return(nil, auth.ErrIdentityNotFound.Clone()).Once()

		_, err = f.auther.IdentityFromToken(ctx, token)
		assert.ErrorIs(t, err, auth.ErrUnauthenticated)
	})

	t.Run("expired token", func(t *testing.T) {
		f := newAutherFixture()
		token, _, err := f.tokens.Issue(testIdentity{id: uuid.NewString(), email: "a@x.com"})
		require.NoError(t, err)

		f.clock.Advance(2 * time.Hour)

		_, err = f.auther.IdentityFromToken(ctx, token)
		assert.ErrorIs(t, err, auth.ErrTokenExpired)
		f.store.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("subject that is not a uuid", func(t *testing.T) {
		f := newAutherFixture()
		token, _, err := f.tokens.Issue(testIdentity{id: "42", email: "a@x.com"})
		require.NoError(t, err)

		_, err = f.auther.IdentityFromToken(ctx, token)
		assert.ErrorIs(t, err, auth.ErrTokenMalformed)
	})

	t.Run("custom validator", func(t *testing.T) {
		f := newAutherFixture()
		id := uuid.New()
		f.auther.WithTokenValidator(auth.TokenValidatorFunc(func(token string) (auth.AuthClaims, error) {
			return &auth.JWTClaims{UID: id.String()}, nil
		}))
		f.store.On("FindByID", ctx, id).Return(&auth.User{ID: id, Email: "c@x.com"}, nil).Once()

		user, err := f.auther.IdentityFromToken(ctx, "opaque")
		require.NoError(t, err)
		assert.Equal(t, "c@x.com", user.Email)
	})
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("writes only the provided columns", func(t *testing.T) {
		f := newAutherFixture()
		user := f.storedUser(t, "a@x.com", "pw123456")
		name := "Grace"

		f.store.On("FindByID", ctx, user.ID).Return(user, nil).Once()
		f.store.On("UpdateProfile", ctx, user, []string{"first_name"}).
			Return(func(ctx context.Context, u *auth.User, cols ...string) *auth.User { return u }, nil).Once()

		out, err := f.auther.UpdateProfile(ctx, user.ID, auth.ProfileUpdate{FirstName: &name})
		require.NoError(t, err)
		assert.Equal(t, "Grace", out.FirstName)
		assert.Contains(t, f.sink.types(), auth.ActivityEventProfileUpdated)
	})

	t.Run("duplicate email", func(t *testing.T) {
		f := newAutherFixture()
		user := f.storedUser(t, "a@x.com", "pw123456")
		email := "b@x.com"

		f.store.On("FindByID", ctx, user.ID).Return(user, nil).Once()
		f.store.On("UpdateProfile", ctx, user, []string{"email"}).
			Return(nil, auth.ErrUniqueConstraint.Clone()).Once()

		_, err := f.auther.UpdateProfile(ctx, user.ID, auth.ProfileUpdate{Email: &email})
		assert.ErrorIs(t, err, auth.ErrDuplicateIdentity)
	})

	t.Run("empty update is a read", func(t *testing.T) {
		f := newAutherFixture()
		user := f.storedUser(t, "a@x.com", "pw123456")
		f.store.On("FindByID", ctx, user.ID).Return(user, nil).Once()

		out, err := f.auther.UpdateProfile(ctx, user.ID, auth.ProfileUpdate{})
		require.NoError(t, err)
		assert.Equal(t, user.ID, out.ID)
		f.store.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything, mock.Anything)
	})
}
