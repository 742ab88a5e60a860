package auth

import (
	"context"
	"errors"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-print"
	"github.com/google/uuid"
)

// MinPasswordLength is the shortest password accepted at sign-up
const MinPasswordLength = 6

// MaxPasswordBytes is the bcrypt input limit, enforced for every hasher so
// switching algorithms never changes which passwords are accepted
const MaxPasswordBytes = 72

// ProfileEditor updates the profile of an existing identity
type ProfileEditor interface {
	UpdateProfile(ctx context.Context, id uuid.UUID, update ProfileUpdate) (*PublicUser, error)
}

type AuthControllerRoutes struct {
	SignUp string
	SignIn string
}

// AuthController serves the public credential endpoints
type AuthController struct {
	Debug  bool
	Logger Logger
	Routes *AuthControllerRoutes
	Auther Authenticator
}

type AuthControllerOption func(*AuthController) *AuthController

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

func WithControllerDebug(debug bool) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Debug = debug
		return c
	}
}

func NewAuthController(auther Authenticator, opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Auther: auther,
		Routes: &AuthControllerRoutes{
			SignUp: "/auth/signup",
			SignIn: "/auth/signin",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Auther == nil {
		panic("Missing Authenticator in auth controller...")
	}

	return c
}

// SignUpRequest payload
type SignUpRequest struct {
	Email     string `json:"email" form:"email"`
	Password  string `json:"password" form:"password"`
	FirstName string `json:"firstName" form:"firstName"`
	LastName  string `json:"lastName" form:"lastName"`
}

// Validate will run validation rules
func (r SignUpRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, validation.Length(3, 254), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(MinPasswordLength, 0), validation.By(maxBytes(MaxPasswordBytes))),
		validation.Field(&r.FirstName, validation.Length(0, 200)),
		validation.Field(&r.LastName, validation.Length(0, 200)),
	)
}

// maxBytes limits the encoded size of a string, Length counts runes
func maxBytes(limit int) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if len(s) > limit {
			return errors.New("the length must be no more than " + strconv.Itoa(limit) + " bytes")
		}
		return nil
	}
}

func (r SignUpRequest) redacted() SignUpRequest {
	r.Password = "******"
	return r
}

// SignInRequest payload
type SignInRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Validate will run validation rules
func (r SignInRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

func (r SignInRequest) redacted() SignInRequest {
	r.Password = "******"
	return r
}

// SignUp handles POST /auth/signup
func (a *AuthController) SignUp(c *fiber.Ctx) error {
	payload := new(SignUpRequest)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Warn("signup parse payload", "error", err)
		return NewValidationError(err)
	}

	if err := payload.Validate(); err != nil {
		return NewValidationError(err)
	}

	if a.Debug {
		a.Logger.Debug("signup payload: %s", print.MaybePrettyJSON(payload.redacted()))
	}

	user, err := a.Auther.SignUp(c.UserContext(), SignUpInput{
		Email:     payload.Email,
		Password:  payload.Password,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// SignIn handles POST /auth/signin
func (a *AuthController) SignIn(c *fiber.Ctx) error {
	payload := new(SignInRequest)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Warn("signin parse payload", "error", err)
		return NewValidationError(err)
	}

	if err := payload.Validate(); err != nil {
		return NewValidationError(err)
	}

	if a.Debug {
		a.Logger.Debug("signin payload: %s", print.MaybePrettyJSON(payload.redacted()))
	}

	token, err := a.Auther.SignIn(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(token)
}

// UserController serves the authenticated user endpoints
type UserController struct {
	Logger     Logger
	Editor     ProfileEditor
	ContextKey string
}

func NewUserController(editor ProfileEditor, logger Logger) *UserController {
	if logger == nil {
		logger = defLogger{}
	}
	return &UserController{
		Logger:     logger,
		Editor:     editor,
		ContextKey: DefaultContextKey,
	}
}

// Me handles GET /users/me
func (u *UserController) Me(c *fiber.Ctx) error {
	user, err := MustCurrentUser(c, u.ContextKey)
	if err != nil {
		return err
	}
	return c.JSON(user)
}

// EditUserRequest payload, absent fields are left untouched
type EditUserRequest struct {
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
}

// Validate will run validation rules
func (r EditUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.NilOrNotEmpty, is.Email),
		validation.Field(&r.FirstName, validation.Length(0, 200)),
		validation.Field(&r.LastName, validation.Length(0, 200)),
	)
}

// Edit handles PATCH /users
func (u *UserController) Edit(c *fiber.Ctx) error {
	user, err := MustCurrentUser(c, u.ContextKey)
	if err != nil {
		return err
	}

	payload := new(EditUserRequest)
	if err := c.BodyParser(payload); err != nil {
		return NewValidationError(err)
	}

	if err := payload.Validate(); err != nil {
		return NewValidationError(err)
	}

	updated, err := u.Editor.UpdateProfile(c.UserContext(), user.ID, ProfileUpdate{
		Email:     payload.Email,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
	})
	if err != nil {
		return err
	}

	return c.JSON(updated)
}
