package bookmark

import (
	"context"
	"database/sql"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const TextCodeBookmarkNotFound = "BOOKMARK_NOT_FOUND"

// ErrNotFound is returned by the repository when no owned row matches
var ErrNotFound = errors.New("bookmark not found", errors.CategoryNotFound).
	WithTextCode(TextCodeBookmarkNotFound).
	WithCode(errors.CodeNotFound)

// Repository persists bookmarks. Every query is scoped by owner so a foreign
// bookmark is indistinguishable from a missing one.
type Repository interface {
	ListTx(ctx context.Context, tx bun.IDB, owner uuid.UUID) ([]*Bookmark, error)
	GetTx(ctx context.Context, tx bun.IDB, owner, id uuid.UUID) (*Bookmark, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *Bookmark) (*Bookmark, error)
	UpdateTx(ctx context.Context, tx bun.IDB, record *Bookmark, columns ...string) (*Bookmark, error)
	DeleteTx(ctx context.Context, tx bun.IDB, owner, id uuid.UUID) error
}

type repository struct{}

func NewRepository() Repository {
	return repository{}
}

func (repository) ListTx(ctx context.Context, tx bun.IDB, owner uuid.UUID) ([]*Bookmark, error) {
	records := make([]*Bookmark, 0)
	err := tx.NewSelect().
		Model(&records).
		Where("?TableAlias.user_id = ?", owner).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (repository) GetTx(ctx context.Context, tx bun.IDB, owner, id uuid.UUID) (*Bookmark, error) {
	record := &Bookmark{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.user_id = ?", owner).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return record, nil
}

func (repository) CreateTx(ctx context.Context, tx bun.IDB, record *Bookmark) (*Bookmark, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	now := time.Now().UTC()
	record.CreatedAt = &now
	record.UpdatedAt = &now

	if _, err := tx.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, err
	}
	return record, nil
}

func (r repository) UpdateTx(ctx context.Context, tx bun.IDB, record *Bookmark, columns ...string) (*Bookmark, error) {
	now := time.Now().UTC()
	record.UpdatedAt = &now

	res, err := tx.NewUpdate().
		Model(record).
		Column(append(columns, "updated_at")...).
		WherePK().
		Where("user_id = ?", record.UserID).
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}

	return r.GetTx(ctx, tx, record.UserID, record.ID)
}

func (repository) DeleteTx(ctx context.Context, tx bun.IDB, owner, id uuid.UUID) error {
	res, err := tx.NewDelete().
		Model((*Bookmark)(nil)).
		Where("id = ?", id).
		Where("user_id = ?", owner).
		Exec(ctx)
	if err != nil {
		return err
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
