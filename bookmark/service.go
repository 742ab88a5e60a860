package bookmark

import (
	"context"
	"strings"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	auth "github.com/goliatone/go-auth-bookmarks"
)

// Service holds the bookmark use cases for the authenticated owner
type Service struct {
	tx     auth.TransactionManager
	db     bun.IDB
	repo   Repository
	logger auth.Logger
}

// NewService wires the service. db is used for single statement reads,
// tx for read-modify-write operations.
func NewService(db bun.IDB, tx auth.TransactionManager, repo Repository, logger auth.Logger) *Service {
	if repo == nil {
		repo = NewRepository()
	}
	return &Service{
		tx:     tx,
		db:     db,
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) List(ctx context.Context, owner uuid.UUID) ([]*Bookmark, error) {
	return s.repo.ListTx(ctx, s.db, owner)
}

func (s *Service) Get(ctx context.Context, owner, id uuid.UUID) (*Bookmark, error) {
	record, err := s.repo.GetTx(ctx, s.db, owner, id)
	if err != nil {
		return nil, ownershipError(err, id)
	}
	return record, nil
}

func (s *Service) Create(ctx context.Context, owner uuid.UUID, input CreateInput) (*Bookmark, error) {
	return s.repo.CreateTx(ctx, s.db, &Bookmark{
		UserID:      owner,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Link:        strings.TrimSpace(input.Link),
	})
}

// Update loads the owned bookmark and applies the change in one transaction
func (s *Service) Update(ctx context.Context, owner, id uuid.UUID, input UpdateInput) (*Bookmark, error) {
	var out *Bookmark
	err := s.tx.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		record, err := s.repo.GetTx(ctx, tx, owner, id)
		if err != nil {
			return err
		}

		columns := input.columns()
		if len(columns) == 0 {
			out = record
			return nil
		}

		input.apply(record)
		out, err = s.repo.UpdateTx(ctx, tx, record, columns...)
		return err
	})

	if err != nil {
		return nil, ownershipError(err, id)
	}

	return out, nil
}

func (s *Service) Delete(ctx context.Context, owner, id uuid.UUID) error {
	if err := s.repo.DeleteTx(ctx, s.db, owner, id); err != nil {
		return ownershipError(err, id)
	}
	return nil
}

func ownershipError(err error, id uuid.UUID) error {
	if errors.Is(err, ErrNotFound) {
		return auth.NewOwnershipError("Bookmark", id.String())
	}
	return err
}
