package models

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/wardenlabs/inquest/internal/database/dbretry"
	"github.com/wardenlabs/inquest/internal/database/types"
)

// NoteModel handles database operations for moderator notes on users.
type NoteModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewNote creates a new note model.
func NewNote(db *bun.DB, logger *zap.Logger) *NoteModel {
	return &NoteModel{
		db:     db,
		logger: logger.Named("db_note"),
	}
}

// GetByUser retrieves all notes attached to a user, newest first.
// An empty slice is a normal result for users nobody has annotated.
func (r *NoteModel) GetByUser(ctx context.Context, userID uint64) ([]*types.ModNote, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.ModNote, error) {
		notes := make([]*types.ModNote, 0)

		err := r.db.NewSelect().
			Model(&notes).
			Where("user_id = ?", userID).
			Order("created_at DESC").
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get notes: %w", err)
		}

		return notes, nil
	})
}

// Create inserts a new note.
func (r *NoteModel) Create(ctx context.Context, note *types.ModNote) error {
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now()
	}

	_, err := r.db.NewInsert().
		Model(note).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}

	return nil
}
