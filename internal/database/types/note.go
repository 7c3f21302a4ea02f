package types

import "time"

// ModNote represents a moderator-authored annotation attached to a user.
type ModNote struct {
	ID         int64     `bun:",pk,autoincrement" json:"id"`
	UserID     uint64    `bun:",notnull"          json:"userId"`
	AuthorID   uint64    `bun:",notnull"          json:"authorId"`
	AuthorName string    `bun:",notnull"          json:"authorName"`
	Content    string    `bun:",notnull"          json:"content"`
	CreatedAt  time.Time `bun:",notnull"          json:"createdAt"`
}
