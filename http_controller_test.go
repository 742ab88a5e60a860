package auth_test

import (
	"context"
	"strings"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	auth "github.com/goliatone/go-auth-bookmarks"
)

func TestSignUpRequest_PasswordBounds(t *testing.T) {
	tests := []struct {
		name     string
		password string
		valid    bool
	}{
		{"too short", "pw123", false},
		{"minimum", "pw1234", true},
		{"at the byte limit", strings.Repeat("a", auth.MaxPasswordBytes), true},
		{"over the byte limit", strings.Repeat("a", auth.MaxPasswordBytes+1), false},
		{"multibyte under the limit", strings.Repeat("é", 36), true},
		{"multibyte over the limit", strings.Repeat("é", 37), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := auth.SignUpRequest{Email: "a@x.com", Password: tt.password}.Validate()
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			errs, ok := err.(validation.Errors)
			require.True(t, ok)
			assert.Contains(t, errs, "password")
		})
	}
}

func TestSignUp_BcryptPasswordTooLong(t *testing.T) {
	store := new(MockUsers)
	hasher := auth.NewPasswordHasher(auth.Bcrypt, fastArgon2, 4)
	auther := auth.NewAuthenticator(store, hasher, newTestTokenService(&fakeClock{})).
		WithLogger(nopLogger{})

	_, err := auther.SignUp(context.Background(), auth.SignUpInput{
		Email:    "a@x.com",
		Password: strings.Repeat("a", auth.MaxPasswordBytes+1),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, auth.ErrPasswordTooLong)
	assert.Equal(t, 400, auth.ErrPasswordTooLong.Code)
	store.AssertNotCalled(t, "CreateIdentity", mock.Anything, mock.Anything)
}
