// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/giftdeed/internal/models"
	"github.com/mmynk/giftdeed/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Pragmas are per connection; keep a single one so they always apply.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateDraft persists a new draft to the database.
func (s *SQLiteStore) CreateDraft(ctx context.Context, draft *models.Draft) error {
	if draft.ID == "" {
		draft.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if draft.CreatedAt == 0 {
		draft.CreatedAt = now
	}
	if draft.UpdatedAt == 0 {
		draft.UpdatedAt = draft.CreatedAt
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	d := draft.Data
	_, err = tx.ExecContext(ctx,
		`INSERT INTO drafts (id, donor_name, donor_address, donee_name, donee_address,
			contract_date, special_terms, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		draft.ID, d.Donor.Name, d.Donor.Address, d.Donee.Name, d.Donee.Address,
		d.ContractDate, d.SpecialTerms, draft.CreatedAt, draft.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert draft: %w", err)
	}

	if err := insertGifts(ctx, tx, draft.ID, d.Gifts); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetDraft retrieves a draft by ID, including its gifts in order.
func (s *SQLiteStore) GetDraft(ctx context.Context, draftID string) (*models.Draft, error) {
	draft := &models.Draft{}
	d := &draft.Data
	err := s.db.QueryRowContext(ctx,
		`SELECT id, donor_name, donor_address, donee_name, donee_address,
			contract_date, special_terms, created_at, updated_at
		FROM drafts WHERE id = ?`,
		draftID,
	).Scan(&draft.ID, &d.Donor.Name, &d.Donor.Address, &d.Donee.Name, &d.Donee.Address,
		&d.ContractDate, &d.SpecialTerms, &draft.CreatedAt, &draft.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, draftID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT description FROM gifts WHERE draft_id = ? ORDER BY position",
		draftID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get gifts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var g models.Gift
		if err := rows.Scan(&g.Description); err != nil {
			return nil, fmt.Errorf("failed to scan gift: %w", err)
		}
		d.Gifts = append(d.Gifts, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate gifts: %w", err)
	}

	return draft, nil
}

// UpdateDraft replaces the contract data of an existing draft.
func (s *SQLiteStore) UpdateDraft(ctx context.Context, draft *models.Draft) error {
	draft.UpdatedAt = time.Now().Unix()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	d := draft.Data
	result, err := tx.ExecContext(ctx,
		`UPDATE drafts SET donor_name = ?, donor_address = ?, donee_name = ?, donee_address = ?,
			contract_date = ?, special_terms = ?, updated_at = ?
		WHERE id = ?`,
		d.Donor.Name, d.Donor.Address, d.Donee.Name, d.Donee.Address,
		d.ContractDate, d.SpecialTerms, draft.UpdatedAt, draft.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update draft: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, draft.ID)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM gifts WHERE draft_id = ?", draft.ID); err != nil {
		return fmt.Errorf("failed to clear gifts: %w", err)
	}
	if err := insertGifts(ctx, tx, draft.ID, d.Gifts); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteDraft removes a draft. Gifts are removed by cascade.
func (s *SQLiteStore) DeleteDraft(ctx context.Context, draftID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM drafts WHERE id = ?", draftID)
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, draftID)
	}
	return nil
}

// ListDrafts returns draft summaries, most recently updated first.
func (s *SQLiteStore) ListDrafts(ctx context.Context) ([]models.DraftSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT d.id, d.donor_name, d.donee_name, d.contract_date, d.updated_at,
			(SELECT COUNT(*) FROM gifts g WHERE g.draft_id = d.id)
		FROM drafts d
		ORDER BY d.updated_at DESC, d.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	defer rows.Close()

	var summaries []models.DraftSummary
	for rows.Next() {
		var sum models.DraftSummary
		if err := rows.Scan(&sum.ID, &sum.DonorName, &sum.DoneeName, &sum.ContractDate, &sum.UpdatedAt, &sum.GiftCount); err != nil {
			return nil, fmt.Errorf("failed to scan draft: %w", err)
		}
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate drafts: %w", err)
	}
	return summaries, nil
}

func insertGifts(ctx context.Context, tx *sql.Tx, draftID string, gifts []models.Gift) error {
	for i, g := range gifts {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO gifts (draft_id, position, description) VALUES (?, ?, ?)",
			draftID, i, g.Description,
		)
		if err != nil {
			return fmt.Errorf("failed to insert gift: %w", err)
		}
	}
	return nil
}
