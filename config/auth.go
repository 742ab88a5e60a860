package config

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/spf13/viper"

	auth "github.com/goliatone/go-auth-bookmarks"
)

// Auth holds the token and password hashing options
type Auth struct {
	JWTSecret      string
	JWTExpiresIn   int
	Issuer         string
	Audience       []string
	Scheme         string
	TokenLookup    string
	ContextKey     string
	PasswordHasher string
	Argon2         auth.Argon2Params
	BcryptCost     int
	UseHashid      bool
}

var _ auth.Config = (*Auth)(nil)

func getAuthConfig(v *viper.Viper) *Auth {
	return &Auth{
		JWTSecret:      v.GetString("auth.jwt.secret"),
		JWTExpiresIn:   v.GetInt("auth.jwt.expires_in"),
		Issuer:         v.GetString("auth.jwt.issuer"),
		Audience:       v.GetStringSlice("auth.jwt.audience"),
		Scheme:         v.GetString("auth.scheme"),
		TokenLookup:    v.GetString("auth.token_lookup"),
		ContextKey:     v.GetString("auth.context_key"),
		PasswordHasher: v.GetString("auth.password_hasher"),
		Argon2: auth.Argon2Params{
			Memory:      v.GetUint32("auth.argon2.memory"),
			Iterations:  v.GetUint32("auth.argon2.iterations"),
			Parallelism: uint8(v.GetUint("auth.argon2.parallelism")),
			SaltLength:  v.GetUint32("auth.argon2.salt_length"),
			KeyLength:   v.GetUint32("auth.argon2.key_length"),
		},
		BcryptCost: v.GetInt("auth.bcrypt_cost"),
		UseHashid:  v.GetBool("auth.use_hashid"),
	}
}

// Validate will run validation rules
func (a Auth) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.JWTSecret, validation.Required),
		validation.Field(&a.JWTExpiresIn, validation.Required, validation.Min(1)),
		validation.Field(&a.Scheme, validation.Required),
		validation.Field(&a.PasswordHasher, validation.In(auth.Argon2ID, auth.Bcrypt)),
	)
}

func (a *Auth) GetSigningKey() string {
	return a.JWTSecret
}

func (a *Auth) GetSigningMethod() string {
	return "HS256"
}

func (a *Auth) GetContextKey() string {
	return a.ContextKey
}

func (a *Auth) GetTokenExpiration() int {
	return a.JWTExpiresIn
}

func (a *Auth) GetTokenLookup() string {
	return a.TokenLookup
}

func (a *Auth) GetAuthScheme() string {
	return a.Scheme
}

func (a *Auth) GetIssuer() string {
	return a.Issuer
}

func (a *Auth) GetAudience() []string {
	return a.Audience
}
