package bookmark

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	auth "github.com/goliatone/go-auth-bookmarks"
)

// Bookmarks is what the controller needs from the service
type Bookmarks interface {
	List(ctx context.Context, owner uuid.UUID) ([]*Bookmark, error)
	Get(ctx context.Context, owner, id uuid.UUID) (*Bookmark, error)
	Create(ctx context.Context, owner uuid.UUID, input CreateInput) (*Bookmark, error)
	Update(ctx context.Context, owner, id uuid.UUID, input UpdateInput) (*Bookmark, error)
	Delete(ctx context.Context, owner, id uuid.UUID) error
}

var _ Bookmarks = (*Service)(nil)

type Controller struct {
	Service    Bookmarks
	ContextKey string
}

func NewController(service Bookmarks) *Controller {
	return &Controller{
		Service:    service,
		ContextKey: auth.DefaultContextKey,
	}
}

// CreateRequest payload
type CreateRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Link        string  `json:"link"`
}

// Validate will run validation rules
func (r CreateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Description, validation.Length(0, 2000)),
		validation.Field(&r.Link, validation.Required, is.URL),
	)
}

// UpdateRequest payload
type UpdateRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Link        *string `json:"link,omitempty"`
}

// Validate will run validation rules
func (r UpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty, validation.Length(1, 255)),
		validation.Field(&r.Description, validation.Length(0, 2000)),
		validation.Field(&r.Link, validation.NilOrNotEmpty, is.URL),
	)
}

func (ctrl *Controller) List(c *fiber.Ctx) error {
	user, err := auth.MustCurrentUser(c, ctrl.ContextKey)
	if err != nil {
		return err
	}

	records, err := ctrl.Service.List(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(records)
}

func (ctrl *Controller) Get(c *fiber.Ctx) error {
	user, id, err := ctrl.target(c)
	if err != nil {
		return err
	}

	record, err := ctrl.Service.Get(c.UserContext(), user.ID, id)
	if err != nil {
		return err
	}
	return c.JSON(record)
}

func (ctrl *Controller) Create(c *fiber.Ctx) error {
	user, err := auth.MustCurrentUser(c, ctrl.ContextKey)
	if err != nil {
		return err
	}

	payload := new(CreateRequest)
	if err := c.BodyParser(payload); err != nil {
		return auth.NewValidationError(err)
	}

	if err := payload.Validate(); err != nil {
		return auth.NewValidationError(err)
	}

	record, err := ctrl.Service.Create(c.UserContext(), user.ID, CreateInput{
		Title:       payload.Title,
		Description: payload.Description,
		Link:        payload.Link,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(record)
}

func (ctrl *Controller) Update(c *fiber.Ctx) error {
	user, id, err := ctrl.target(c)
	if err != nil {
		return err
	}

	payload := new(UpdateRequest)
	if err := c.BodyParser(payload); err != nil {
		return auth.NewValidationError(err)
	}

	if err := payload.Validate(); err != nil {
		return auth.NewValidationError(err)
	}

	record, err := ctrl.Service.Update(c.UserContext(), user.ID, id, UpdateInput{
		Title:       payload.Title,
		Description: payload.Description,
		Link:        payload.Link,
	})
	if err != nil {
		return err
	}

	return c.JSON(record)
}

func (ctrl *Controller) Delete(c *fiber.Ctx) error {
	user, id, err := ctrl.target(c)
	if err != nil {
		return err
	}

	if err := ctrl.Service.Delete(c.UserContext(), user.ID, id); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// target resolves the caller and the path id. An id that is not a uuid can
// not name an owned bookmark, so it gets the same 403 as a foreign one.
func (ctrl *Controller) target(c *fiber.Ctx) (*auth.PublicUser, uuid.UUID, error) {
	user, err := auth.MustCurrentUser(c, ctrl.ContextKey)
	if err != nil {
		return nil, uuid.Nil, err
	}

	raw := c.Params("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, uuid.Nil, auth.NewOwnershipError("Bookmark", raw)
	}

	return user, id, nil
}
