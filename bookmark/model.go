package bookmark

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Bookmark is a link saved by a user
type Bookmark struct {
	bun.BaseModel `bun:"table:bookmarks,alias:bm"`
	ID            uuid.UUID  `bun:"id,pk" json:"id"`
	UserID        uuid.UUID  `bun:"user_id,notnull" json:"userId"`
	Title         string     `bun:"title,notnull" json:"title"`
	Description   *string    `bun:"description" json:"description,omitempty"`
	Link          string     `bun:"link,notnull" json:"link"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt,omitempty"`
}

// CreateInput holds the fields of a new bookmark
type CreateInput struct {
	Title       string
	Description *string
	Link        string
}

// UpdateInput holds the editable fields, nil means unchanged
type UpdateInput struct {
	Title       *string
	Description *string
	Link        *string
}

func (u UpdateInput) columns() []string {
	cols := make([]string, 0, 3)
	if u.Title != nil {
		cols = append(cols, "title")
	}
	if u.Description != nil {
		cols = append(cols, "description")
	}
	if u.Link != nil {
		cols = append(cols, "link")
	}
	return cols
}

func (u UpdateInput) apply(b *Bookmark) {
	if u.Title != nil {
		b.Title = *u.Title
	}
	if u.Description != nil {
		b.Description = u.Description
	}
	if u.Link != nil {
		b.Link = *u.Link
	}
}
