package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Users interface {
	ProfileStore

	CreateIdentityTx(ctx context.Context, tx bun.IDB, user *User) (*User, error)
	FindByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error)
	FindByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*User, error)
	UpdateProfileTx(ctx context.Context, tx bun.IDB, user *User, columns ...string) (*User, error)

	Delete(ctx context.Context, id uuid.UUID) error
	DeleteTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error
}

type users struct {
	db *bun.DB
}

var (
	_ Users         = (*users)(nil)
	_ IdentityStore = (*users)(nil)
)

func NewUsersRepository(db *bun.DB) Users {
	return &users{db: db}
}

func (a *users) CreateIdentity(ctx context.Context, user *User) (*User, error) {
	return a.CreateIdentityTx(ctx, a.db, user)
}

// CreateIdentityTx inserts the user. A duplicated email surfaces as
// ErrUniqueConstraint, other errors are returned unmodified.
func (a *users) CreateIdentityTx(ctx context.Context, tx bun.IDB, user *User) (*User, error) {
	prepareUserDefaults(user)

	if _, err := tx.NewInsert().Model(user).Exec(ctx); err != nil {
		return nil, NewUniqueViolation(err, map[string]any{
			"table":  "users",
			"column": "email",
		})
	}

	return user, nil
}

func (a *users) FindByEmail(ctx context.Context, email string) (*User, error) {
	return a.FindByEmailTx(ctx, a.db, email)
}

func (a *users) FindByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error) {
	record := &User{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", strings.TrimSpace(email)).
		Limit(1).
		Scan(ctx)

	if err != nil {
		return nil, notFoundOr(err, "email", email)
	}

	return record, nil
}

func (a *users) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return a.FindByIDTx(ctx, a.db, id)
}

func (a *users) FindByIDTx(ctx context.Context, tx bun.IDB, id uuid.UUID) (*User, error) {
	record := &User{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		return nil, notFoundOr(err, "id", id.String())
	}

	return record, nil
}

func (a *users) UpdateProfile(ctx context.Context, user *User, columns ...string) (*User, error) {
	var out *User
	err := a.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		out, err = a.UpdateProfileTx(ctx, tx, user, columns...)
		return err
	})
	return out, err
}

// UpdateProfileTx writes the given columns and reloads the record
func (a *users) UpdateProfileTx(ctx context.Context, tx bun.IDB, user *User, columns ...string) (*User, error) {
	now := time.Now().UTC()
	user.UpdatedAt = &now

	q := tx.NewUpdate().
		Model(user).
		Column(append(columns, "updated_at")...).
		WherePK()

	res, err := q.Exec(ctx)
	if err != nil {
		return nil, NewUniqueViolation(err, map[string]any{
			"table":  "users",
			"column": "email",
		})
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, notFoundOr(sql.ErrNoRows, "id", user.ID.String())
	}

	return a.FindByIDTx(ctx, tx, user.ID)
}

func (a *users) Delete(ctx context.Context, id uuid.UUID) error {
	return a.DeleteTx(ctx, a.db, id)
}

func (a *users) DeleteTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	_, err := tx.NewDelete().
		Model(&User{ID: id}).
		WherePK().
		Exec(ctx)
	return err
}

func prepareUserDefaults(record *User) {
	if record == nil {
		return
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	now := time.Now().UTC()
	if record.CreatedAt == nil {
		record.CreatedAt = &now
	}
	if record.UpdatedAt == nil {
		record.UpdatedAt = &now
	}
}

func notFoundOr(err error, column, value string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrIdentityNotFound.Clone().WithMetadata(map[string]any{
			column: value,
		})
	}
	return err
}
