package types

import (
	"errors"
	"time"

	"github.com/wardenlabs/inquest/internal/database/types/enum"
)

var ErrModeratorNotFound = errors.New("moderator not found")

// Moderator represents a staff account that reviews reports.
type Moderator struct {
	ID           uint64             `bun:",pk"               json:"id"`
	Username     string             `bun:",notnull,unique"   json:"username"`
	DisplayName  string             `bun:",notnull"          json:"displayName"`
	Role         enum.ModeratorRole `bun:",notnull"          json:"role"`
	APIKey       string             `bun:",notnull,unique"   json:"-"` // Bearer credential for the REST API
	CreatedAt    time.Time          `bun:",notnull"          json:"createdAt"`
	LastActiveAt time.Time          `bun:",nullzero"         json:"lastActiveAt"`
}
