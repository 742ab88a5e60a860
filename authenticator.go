package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// dummyPassword is hashed once and verified against when sign-in targets an
// unknown email, so both failure paths spend the same hashing work
const dummyPassword = "dummy-password-for-timing"

type Auther struct {
	store          IdentityStore
	hasher         PasswordHasher
	tokenService   TokenService
	tokenValidator TokenValidator
	logger         Logger
	activitySink   ActivitySink
	useHashid      bool

	dummyOnce   sync.Once
	dummyDigest string
}

var _ Authenticator = (*Auther)(nil)

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(store IdentityStore, hasher PasswordHasher, tokens TokenService) *Auther {
	if hasher == nil {
		hasher = NewPasswordHasher(Argon2ID, DefaultArgon2Params, 0)
	}

	return &Auther{
		store:        store,
		hasher:       hasher,
		tokenService: tokens,
		logger:       defLogger{},
		activitySink: noopActivitySink{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithActivitySink configures an ActivitySink for emitting auth events.
func (s *Auther) WithActivitySink(sink ActivitySink) *Auther {
	s.activitySink = normalizeActivitySink(sink)
	return s
}

// WithTokenValidator sets a custom token validator, by default the
// token service validates its own tokens.
func (s *Auther) WithTokenValidator(validator TokenValidator) *Auther {
	s.tokenValidator = validator
	return s
}

// WithHashidIdentifiers derives new user ids from their email
func (s *Auther) WithHashidIdentifiers(enabled bool) *Auther {
	s.useHashid = enabled
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// SignUp hashes the password and creates the identity with a single store
// write. The store unique index decides concurrent sign-ups for one email.
func (s *Auther) SignUp(ctx context.Context, input SignUpInput) (*PublicUser, error) {
	email := strings.TrimSpace(input.Email)

	hash, err := s.hasher.HashPassword(input.Password)
	if err != nil {
		s.logger.Error("signup failed to hash password", "error", err)
		s.emitAuthEvent(ctx, ActivityEventSignUpFailure, ActorRef{Type: "unknown"}, "", map[string]any{
			"email": email,
			"error": "hash",
		})
		if HasTextCode(err, TextCodeEmptyPassword) || HasTextCode(err, TextCodePasswordTooLong) {
			return nil, err
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to hash password")
	}

	user := &User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
	}

	derivedID := false
	if s.useHashid {
		if id, err := hashid.NewUUID(email); err == nil {
			user.ID = id
			derivedID = true
		}
	}

	created, err := s.store.CreateIdentity(ctx, user)
	if err != nil && derivedID && IsUniqueViolation(err) && s.emailAvailable(ctx, email) {
		// the derived id belongs to an account that has since changed email
		s.logger.Info("signup derived id taken, using a random id", "email", email)
		user.ID = uuid.New()
		created, err = s.store.CreateIdentity(ctx, user)
	}
	if err != nil {
		if IsUniqueViolation(err) {
			s.logger.Info("signup rejected duplicate email", "email", email)
			s.emitAuthEvent(ctx, ActivityEventSignUpFailure, ActorRef{Type: "unknown"}, "", map[string]any{
				"email": email,
				"error": TextCodeDuplicateIdentity,
			})
			return nil, ErrDuplicateIdentity
		}
		s.logger.Error("signup store create failed", "error", err)
		return nil, err
	}

	public := created.Public()
	s.emitAuthEvent(ctx, ActivityEventSignUpSuccess, s.actorFromUser(public), public.ID.String(), map[string]any{
		"email": email,
	})

	return public, nil
}

// SignIn verifies the credentials and returns a signed access token. Unknown
// email and wrong password are indistinguishable to the caller.
func (s *Auther) SignIn(ctx context.Context, email, password string) (*AccessToken, error) {
	email = strings.TrimSpace(email)

	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if !IsNotFound(err) {
			s.logger.Error("signin store lookup failed", "error", err)
			return nil, err
		}
		_ = s.hasher.ComparePasswordAndHash(password, s.dummyHash())
		s.signInFailed(ctx, email, "", TextCodeIdentityNotFound)
		return nil, ErrInvalidCredentials
	}

	if err := s.hasher.ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		reason := TextCodeMismatchedPassword
		if HasTextCode(err, TextCodeUnsupportedHash) {
			s.logger.Warn("signin stored digest not recognised", "user_id", user.ID.String())
			reason = TextCodeUnsupportedHash
		}
		s.signInFailed(ctx, email, user.ID.String(), reason)
		return nil, ErrInvalidCredentials
	}

	public := user.Public()
	token, expiresAt, err := s.tokenService.Issue(NewIdentityFromUser(public))
	if err != nil {
		s.logger.Error("signin failed to issue token", "error", err)
		s.signInFailed(ctx, email, user.ID.String(), TextCodeInternalServerFailed)
		return nil, err
	}

	s.emitAuthEvent(ctx, ActivityEventSignInSuccess, s.actorFromUser(public), public.ID.String(), map[string]any{
		"email":      email,
		"expires_at": expiresAt.UTC().Format(time.RFC3339),
	})

	return &AccessToken{AccessToken: token}, nil
}

// IdentityFromToken validates the token and resolves its subject with a
// fresh store lookup. A valid token for a deleted identity is rejected.
func (s *Auther) IdentityFromToken(ctx context.Context, raw string) (*PublicUser, error) {
	validator := s.tokenValidator
	if validator == nil {
		validator = s.tokenService
	}

	claims, err := validator.Validate(raw)
	if err != nil {
		s.logger.Debug("identity from token validation failed", "error", err)
		return nil, err
	}

	id, err := uuid.Parse(claims.UserID())
	if err != nil {
		s.logger.Debug("identity from token subject is not a uuid", "subject", claims.UserID())
		return nil, ErrTokenMalformed
	}

	user, err := s.store.FindByID(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return nil, ErrUnauthenticated
		}
		s.logger.Error("identity from token store lookup failed", "error", err)
		return nil, err
	}

	return user.Public(), nil
}

// UpdateProfile applies the non nil fields of update to the identity
func (s *Auther) UpdateProfile(ctx context.Context, id uuid.UUID, update ProfileUpdate) (*PublicUser, error) {
	store, ok := s.store.(ProfileStore)
	if !ok {
		return nil, errors.New("identity store does not support profile updates", errors.CategoryInternal).
			WithCode(errors.CodeInternal).
			WithTextCode(TextCodeInternalServerFailed)
	}

	user, err := store.FindByID(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}

	if update.IsEmpty() {
		return user.Public(), nil
	}

	columns := make([]string, 0, 3)
	if update.Email != nil {
		user.Email = strings.TrimSpace(*update.Email)
		columns = append(columns, "email")
	}
	if update.FirstName != nil {
		user.FirstName = strings.TrimSpace(*update.FirstName)
		columns = append(columns, "first_name")
	}
	if update.LastName != nil {
		user.LastName = strings.TrimSpace(*update.LastName)
		columns = append(columns, "last_name")
	}

	updated, err := store.UpdateProfile(ctx, user, columns...)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, ErrDuplicateIdentity
		}
		if IsNotFound(err) {
			return nil, ErrUnauthenticated
		}
		s.logger.Error("update profile store write failed", "error", err)
		return nil, err
	}

	public := updated.Public()
	s.emitAuthEvent(ctx, ActivityEventProfileUpdated, s.actorFromUser(public), public.ID.String(), map[string]any{
		"columns": strings.Join(columns, ","),
	})

	return public, nil
}

// emailAvailable reports whether no identity holds email. Lookup failures
// count as taken so the caller keeps the duplicate answer.
func (s *Auther) emailAvailable(ctx context.Context, email string) bool {
	_, err := s.store.FindByEmail(ctx, email)
	return IsNotFound(err)
}

func (s *Auther) dummyHash() string {
	s.dummyOnce.Do(func() {
		digest, err := s.hasher.HashPassword(dummyPassword)
		if err != nil {
			s.logger.Warn("could not compute dummy digest", "error", err)
			return
		}
		s.dummyDigest = digest
	})
	return s.dummyDigest
}

func (s *Auther) signInFailed(ctx context.Context, email, userID, reason string) {
	s.logger.Info("signin rejected", "email", email, "reason", reason)
	s.emitAuthEvent(ctx, ActivityEventSignInFailure, ActorRef{Type: "unknown"}, userID, map[string]any{
		"email":  email,
		"reason": reason,
	})
}

func (s *Auther) emitAuthEvent(ctx context.Context, eventType ActivityEventType, actor ActorRef, userID string, metadata map[string]any) {
	sink := normalizeActivitySink(s.activitySink)
	event := ActivityEvent{
		EventType:  eventType,
		Actor:      actor,
		UserID:     userID,
		Metadata:   metadata,
		OccurredAt: time.Now(),
	}

	if event.Metadata == nil {
		event.Metadata = map[string]any{}
	}

	if err := sink.Record(ctx, event); err != nil {
		s.logger.Warn("activity sink record error", "error", err)
	}
}

func (s *Auther) actorFromUser(user *PublicUser) ActorRef {
	if user == nil {
		return ActorRef{Type: "unknown"}
	}
	return ActorRef{
		ID:   user.ID.String(),
		Type: "user",
	}
}
