package enum

// ModeratorRole represents the permission tier assigned to a moderator.
type ModeratorRole string

const (
	// ModeratorRoleOwner has every capability including instance administration.
	ModeratorRoleOwner ModeratorRole = "owner"
	// ModeratorRoleAdmin manages moderators and holds all moderation capabilities.
	ModeratorRoleAdmin ModeratorRole = "admin"
	// ModeratorRoleInvestigator works report inquiries and resolves reports.
	ModeratorRoleInvestigator ModeratorRole = "investigator"
	// ModeratorRoleReviewer handles routine queue review without inquiry access.
	ModeratorRoleReviewer ModeratorRole = "reviewer"
)
