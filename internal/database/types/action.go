package types

import (
	"time"

	"github.com/wardenlabs/inquest/internal/database/types/enum"
)

// ModAction represents a past moderation action taken against a user.
// Entries form the moderation log consulted during inquiries.
type ModAction struct {
	ID          int64           `bun:",pk,autoincrement" json:"id"`
	UserID      uint64          `bun:",notnull"          json:"userId"`
	ModeratorID uint64          `bun:",notnull"          json:"moderatorId"`
	Action      enum.ActionType `bun:",notnull"          json:"action"`
	Details     string          `bun:",nullzero"         json:"details"`
	CreatedAt   time.Time       `bun:",notnull"          json:"createdAt"`
}
