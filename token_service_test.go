package auth_test

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auth "github.com/goliatone/go-auth-bookmarks"
)

type testIdentity struct {
	id    string
	email string
}

func (t testIdentity) ID() string    { return t.id }
func (t testIdentity) Email() string { return t.email }

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestTokenService(clock *fakeClock) *auth.TokenServiceImpl {
	return auth.NewTokenService([]byte("test-signing-key"), 3600, "", nil, nopLogger{}, auth.WithClock(clock.Now))
}

func TestTokenService_IssueAndValidate(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	ts := newTestTokenService(clock)

	id := uuid.NewString()
	token, expiresAt, err := ts.Issue(testIdentity{id: id, email: "a@x.com"})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, clock.now.Add(time.Hour), expiresAt)

	claims, err := ts.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.Subject())
	assert.Equal(t, id, claims.UserID())
	assert.Equal(t, "a@x.com", claims.Email())
	assert.NotEmpty(t, claims.TokenID())
	assert.Equal(t, clock.now.Unix(), claims.IssuedAt().Unix())
	assert.Equal(t, expiresAt.Unix(), claims.Expires().Unix())
}

func TestTokenService_PayloadHasNoSecrets(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	ts := newTestTokenService(clock)

	token, _, err := ts.Issue(testIdentity{id: uuid.NewString(), email: "a@x.com"})
	require.NoError(t, err)

	payload, err := base64.RawURLEncoding.DecodeString(strings.Split(token, ".")[1])
	require.NoError(t, err)

	assert.Contains(t, string(payload), `"userId"`)
	assert.Contains(t, string(payload), `"email":"a@x.com"`)
	assert.NotContains(t, strings.ToLower(string(payload)), "hash")
	assert.NotContains(t, strings.ToLower(string(payload)), "password")
}

func TestTokenService_Expiry(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	ts := newTestTokenService(clock)

	token, _, err := ts.Issue(testIdentity{id: uuid.NewString(), email: "a@x.com"})
	require.NoError(t, err)

	clock.Advance(59 * time.Minute)
	_, err = ts.Validate(token)
	require.NoError(t, err)

	clock.Advance(time.Minute)
	_, err = ts.Validate(token)
	require.Error(t, err)
	assert.True(t, auth.IsTokenExpiredError(err))
	assert.ErrorIs(t, err, auth.ErrTokenExpired)
}

func TestTokenService_DefaultTTL(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	ts := auth.NewTokenService([]byte("k"), 0, "", nil, nil, auth.WithClock(clock.Now))

	assert.Equal(t, time.Duration(auth.DefaultTokenExpiration)*time.Second, ts.TTL())
}

func TestTokenService_TamperedSignature(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	ts := newTestTokenService(clock)

	token, _, err := ts.Issue(testIdentity{id: uuid.NewString(), email: "a@x.com"})
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	require.NoError(t, err)
	sig[0] ^= 0x01
	parts[2] = base64.RawURLEncoding.EncodeToString(sig)

	_, err = ts.Validate(strings.Join(parts, "."))
	require.Error(t, err)
	assert.True(t, auth.IsMalformedError(err))
	assert.False(t, auth.IsTokenExpiredError(err))
}

func TestTokenService_EverySignatureBitFlipIsRejected(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	ts := newTestTokenService(clock)

	for i := 0; i < 20; i++ {
		token, _, err := ts.Issue(testIdentity{id: uuid.NewString(), email: "a@x.com"})
		require.NoError(t, err)

		parts := strings.Split(token, ".")
		sig := []byte(parts[2])

		for pos := range sig {
			for bit := 0; bit < 8; bit++ {
				mutated := append([]byte(nil), sig...)
				mutated[pos] ^= 1 << bit

				forged := parts[0] + "." + parts[1] + "." + string(mutated)
				_, err := ts.Validate(forged)
				require.Errorf(t, err, "signature char %d bit %d accepted (%q -> %q)", pos, bit, sig[pos], mutated[pos])
				assert.True(t, auth.IsMalformedError(err))
			}
		}
	}
}

func TestTokenService_TamperedPayload(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	ts := newTestTokenService(clock)

	token, _, err := ts.Issue(testIdentity{id: uuid.NewString(), email: "a@x.com"})
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	forged := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"` + uuid.NewString() + `","exp":4102444800}`))

	_, err = ts.Validate(parts[0] + "." + forged + "." + parts[2])
	assert.ErrorIs(t, err, auth.ErrTokenMalformed)
}

func TestTokenService_RejectsOtherKeysAndAlgorithms(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	ts := newTestTokenService(clock)

	claims := jwt.MapClaims{
		"sub":    uuid.NewString(),
		"userId": uuid.NewString(),
		"iat":    clock.now.Unix(),
		"exp":    clock.now.Add(time.Hour).Unix(),
	}

	tests := []struct {
		name  string
		token func(t *testing.T) string
	}{
		{
			name: "wrong secret",
			token: func(t *testing.T) string {
				s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-key"))
				require.NoError(t, err)
				return s
			},
		},
		{
			name: "hs512 with same secret",
			token: func(t *testing.T) string {
				s, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-signing-key"))
				require.NoError(t, err)
				return s
			},
		},
		{
			name: "alg none",
			token: func(t *testing.T) string {
				s, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
				require.NoError(t, err)
				return s
			},
		},
		{
			name:  "garbage",
			token: func(t *testing.T) string { return "not.a.token" },
		},
		{
			name:  "empty",
			token: func(t *testing.T) string { return "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ts.Validate(tt.token(t))
			assert.ErrorIs(t, err, auth.ErrTokenMalformed)
		})
	}
}

func TestTokenService_RequiresExpiration(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	ts := newTestTokenService(clock)

	token, err := ts.SignClaims(&auth.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  uuid.NewString(),
			IssuedAt: jwt.NewNumericDate(clock.now),
		},
	})
	require.NoError(t, err)

	_, err = ts.Validate(token)
	assert.ErrorIs(t, err, auth.ErrTokenMalformed)
}

func TestTokenService_Issuer(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	issuer := auth.NewTokenService([]byte("k"), 60, "bookmarks", nil, nil, auth.WithClock(clock.Now))
	other := auth.NewTokenService([]byte("k"), 60, "someone-else", nil, nil, auth.WithClock(clock.Now))

	token, _, err := other.Issue(testIdentity{id: uuid.NewString()})
	require.NoError(t, err)

	_, err = issuer.Validate(token)
	assert.ErrorIs(t, err, auth.ErrTokenMalformed)

	token, _, err = issuer.Issue(testIdentity{id: uuid.NewString()})
	require.NoError(t, err)
	_, err = issuer.Validate(token)
	assert.NoError(t, err)
}

func TestTokenService_IssueRequiresIdentity(t *testing.T) {
	ts := newTestTokenService(&fakeClock{now: time.Now()})

	_, _, err := ts.Issue(nil)
	assert.Error(t, err)

	_, _, err = ts.Issue(testIdentity{})
	assert.Error(t, err)
}

func TestTokenValidatorFunc(t *testing.T) {
	var nilFunc auth.TokenValidatorFunc
	_, err := nilFunc.Validate("x")
	assert.ErrorIs(t, err, auth.ErrTokenMalformed)

	fn := auth.TokenValidatorFunc(func(token string) (auth.AuthClaims, error) {
		return &auth.JWTClaims{UID: token}, nil
	})
	claims, err := fn.Validate("abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", claims.UserID())
}

func TestTokenService_Audience(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	api := auth.NewTokenService([]byte("k"), 3600, "", jwt.ClaimStrings{"bookmarks-api"}, nopLogger{}, auth.WithClock(clock.Now))
	other := auth.NewTokenService([]byte("k"), 3600, "", jwt.ClaimStrings{"admin-api"}, nopLogger{}, auth.WithClock(clock.Now))

	token, _, err := api.Issue(testIdentity{id: uuid.NewString()})
	require.NoError(t, err)
	_, err = api.Validate(token)
	require.NoError(t, err)

	foreign, _, err := other.Issue(testIdentity{id: uuid.NewString()})
	require.NoError(t, err)
	_, err = api.Validate(foreign)
	assert.True(t, auth.IsMalformedError(err))
}
