package enum

// UserStatus represents the standing of a platform account.
type UserStatus string

const (
	UserStatusActive UserStatus = "active"
	UserStatusBanned UserStatus = "banned"
	// UserStatusClosed marks an account deleted by its owner or the platform.
	UserStatusClosed UserStatus = "closed"
)
