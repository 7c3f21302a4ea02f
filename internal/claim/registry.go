// Package claim tracks which report each moderator is actively working.
// Claims live in Redis under a TTL so abandoned inquiries expire on their
// own instead of pinning reports forever.
package claim

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/rueidis"
	"go.uber.org/zap"

	"github.com/wardenlabs/inquest/internal/database/types"
)

// KeyPrefix identifies claim markers in Redis.
const KeyPrefix = "claim:"

// Registry stores the active-claim marker for each moderator. A moderator
// holds at most one claim; claiming again replaces the previous marker.
type Registry struct {
	client rueidis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRegistry creates a claim registry whose markers expire after ttl.
func NewRegistry(client rueidis.Client, ttl time.Duration, logger *zap.Logger) *Registry {
	return &Registry{
		client: client,
		ttl:    ttl,
		logger: logger.Named("claim_registry"),
	}
}

// Claim marks the report as actively worked by the moderator, replacing
// any report they previously held.
func (r *Registry) Claim(ctx context.Context, moderatorID uint64, reportID int64) error {
	key := KeyPrefix + strconv.FormatUint(moderatorID, 10)
	value := strconv.FormatInt(reportID, 10)

	err := r.client.Do(ctx, r.client.B().Set().Key(key).Value(value).Ex(r.ttl).Build()).Error()
	if err != nil {
		return fmt.Errorf("failed to claim report %d for moderator %d: %w", reportID, moderatorID, err)
	}

	r.logger.Debug("Claimed report",
		zap.Uint64("moderatorID", moderatorID),
		zap.Int64("reportID", reportID))

	return nil
}

// Release drops the moderator's current claim. Releasing when no claim is
// held is not an error.
func (r *Registry) Release(ctx context.Context, moderatorID uint64) error {
	key := KeyPrefix + strconv.FormatUint(moderatorID, 10)

	err := r.client.Do(ctx, r.client.B().Del().Key(key).Build()).Error()
	if err != nil {
		return fmt.Errorf("failed to release claim for moderator %d: %w", moderatorID, err)
	}

	r.logger.Debug("Released claim",
		zap.Uint64("moderatorID", moderatorID))

	return nil
}

// ActiveReportID returns the report the moderator currently has claimed.
// Returns types.ErrNoActiveClaim when no marker exists or it has expired.
func (r *Registry) ActiveReportID(ctx context.Context, moderatorID uint64) (int64, error) {
	key := KeyPrefix + strconv.FormatUint(moderatorID, 10)

	value, err := r.client.Do(ctx, r.client.B().Get().Key(key).Build()).ToString()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return 0, types.ErrNoActiveClaim
		}

		return 0, fmt.Errorf("failed to get claim for moderator %d: %w", moderatorID, err)
	}

	reportID, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		r.logger.Warn("Invalid claim marker in Redis",
			zap.Uint64("moderatorID", moderatorID),
			zap.String("value", value))

		return 0, fmt.Errorf("invalid claim marker for moderator %d: %w", moderatorID, err)
	}

	return reportID, nil
}
