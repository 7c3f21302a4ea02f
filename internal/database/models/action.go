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

// historyLimit bounds how much of a user's moderation log an inquiry shows.
const historyLimit = 30

// ActionModel handles database operations for the moderation log.
type ActionModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewAction creates a new moderation log model.
func NewAction(db *bun.DB, logger *zap.Logger) *ActionModel {
	return &ActionModel{
		db:     db,
		logger: logger.Named("db_action"),
	}
}

// GetByUser retrieves the most recent moderation actions against a user,
// newest first, bounded to the last 30 entries.
func (r *ActionModel) GetByUser(ctx context.Context, userID uint64) ([]*types.ModAction, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.ModAction, error) {
		actions := make([]*types.ModAction, 0)

		err := r.db.NewSelect().
			Model(&actions).
			Where("user_id = ?", userID).
			OrderExpr("created_at DESC, id DESC").
			Limit(historyLimit).
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get moderation history: %w", err)
		}

		return actions, nil
	})
}

// Log records a moderation action against a user.
func (r *ActionModel) Log(ctx context.Context, action *types.ModAction) error {
	if action.CreatedAt.IsZero() {
		action.CreatedAt = time.Now()
	}

	_, err := r.db.NewInsert().
		Model(action).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to log moderation action: %w", err)
	}

	r.logger.Debug("Logged moderation action",
		zap.Uint64("userID", action.UserID),
		zap.Uint64("moderatorID", action.ModeratorID),
		zap.String("action", string(action.Action)))

	return nil
}
