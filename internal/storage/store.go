// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/giftdeed/internal/models"
)

// ErrNotFound is returned when a draft does not exist.
var ErrNotFound = errors.New("draft not found")

// Store defines the interface for draft storage operations.
// This abstraction allows swapping storage backends without changing the
// service layer.
type Store interface {
	// CreateDraft persists a new draft.
	// The draft.ID and timestamp fields are populated by the store when empty.
	CreateDraft(ctx context.Context, draft *models.Draft) error

	// GetDraft retrieves a draft by its ID.
	// Returns an error wrapping ErrNotFound if the draft does not exist.
	GetDraft(ctx context.Context, draftID string) (*models.Draft, error)

	// UpdateDraft replaces the contract data of an existing draft.
	UpdateDraft(ctx context.Context, draft *models.Draft) error

	// DeleteDraft removes a draft and its gifts.
	DeleteDraft(ctx context.Context, draftID string) error

	// ListDrafts returns summaries of all drafts, most recently updated first.
	ListDrafts(ctx context.Context) ([]models.DraftSummary, error)

	// Close releases any resources held by the store.
	Close() error
}
