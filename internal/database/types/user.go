package types

import (
	"errors"
	"time"

	"github.com/wardenlabs/inquest/internal/database/types/enum"
)

var ErrUserNotFound = errors.New("user not found")

// User represents a platform account that can be the subject of reports.
type User struct {
	ID          uint64          `bun:",pk"             json:"id"`
	Username    string          `bun:",notnull,unique" json:"username"`
	DisplayName string          `bun:",notnull"        json:"displayName"`
	Status      enum.UserStatus `bun:",notnull"        json:"status"`
	CreatedAt   time.Time       `bun:",notnull"        json:"createdAt"`
	LastSeenAt  time.Time       `bun:",nullzero"       json:"lastSeenAt"`
}
