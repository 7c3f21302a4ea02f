package enum

// ActionType represents a moderation action recorded against a user.
type ActionType string

const (
	ActionTypeWarn           ActionType = "warn"
	ActionTypeMute           ActionType = "mute"
	ActionTypeUnmute         ActionType = "unmute"
	ActionTypeBan            ActionType = "ban"
	ActionTypeUnban          ActionType = "unban"
	ActionTypeContentRemoval ActionType = "content_removal"
	ActionTypeAccountClosure ActionType = "account_closure"
)
