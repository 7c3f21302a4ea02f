package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/wardenlabs/inquest/internal/database/dbretry"
	"github.com/wardenlabs/inquest/internal/database/types"
)

// ModeratorModel handles database operations for moderator accounts.
type ModeratorModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewModerator creates a new moderator model.
func NewModerator(db *bun.DB, logger *zap.Logger) *ModeratorModel {
	return &ModeratorModel{
		db:     db,
		logger: logger.Named("db_moderator"),
	}
}

// GetByID retrieves a moderator by their ID.
func (r *ModeratorModel) GetByID(ctx context.Context, id uint64) (*types.Moderator, error) {
	moderator := new(types.Moderator)

	err := r.db.NewSelect().
		Model(moderator).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, types.ErrModeratorNotFound
		}

		return nil, fmt.Errorf("failed to get moderator: %w", err)
	}

	return moderator, nil
}

// GetByAPIKey resolves the moderator owning an API key. This backs request
// authentication, so transient faults are retried.
func (r *ModeratorModel) GetByAPIKey(ctx context.Context, apiKey string) (*types.Moderator, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.Moderator, error) {
		moderator := new(types.Moderator)

		err := r.db.NewSelect().
			Model(moderator).
			Where("api_key = ?", apiKey).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, types.ErrModeratorNotFound
			}

			return nil, fmt.Errorf("failed to get moderator by api key: %w", err)
		}

		return moderator, nil
	})
}

// TouchLastActive records that the moderator made an authenticated request.
// Failures are logged rather than surfaced; activity tracking must never
// fail a request.
func (r *ModeratorModel) TouchLastActive(ctx context.Context, id uint64) {
	_, err := r.db.NewUpdate().
		Model((*types.Moderator)(nil)).
		Set("last_active_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		r.logger.Error("Failed to update moderator activity",
			zap.Error(err),
			zap.Uint64("moderatorID", id))
	}
}

// Create inserts a new moderator account.
func (r *ModeratorModel) Create(ctx context.Context, moderator *types.Moderator) error {
	if moderator.CreatedAt.IsZero() {
		moderator.CreatedAt = time.Now()
	}

	_, err := r.db.NewInsert().
		Model(moderator).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create moderator: %w", err)
	}

	return nil
}
