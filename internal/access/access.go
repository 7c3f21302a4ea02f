// Package access models the capability system that gates elevated
// moderation features. Capabilities are derived from moderator roles;
// callers depend on the Checker interface so tests can substitute
// their own grant policy.
package access

import (
	"github.com/wardenlabs/inquest/internal/database/types"
	"github.com/wardenlabs/inquest/internal/database/types/enum"
)

// Capability names an elevated permission a moderator may hold.
type Capability string

const (
	// CapabilityInvestigate allows claiming reports and opening inquiries.
	CapabilityInvestigate Capability = "investigate"
	// CapabilityResolve allows resolving or dismissing reports.
	CapabilityResolve Capability = "resolve"
	// CapabilityManageNotes allows annotating user accounts.
	CapabilityManageNotes Capability = "manage_notes"
	// CapabilityAdmin allows managing moderator accounts.
	CapabilityAdmin Capability = "admin"
)

// Checker decides whether a moderator holds a capability. Implementations
// must be pure: no I/O, no side effects, safe for concurrent use.
type Checker interface {
	HasCapability(moderator *types.Moderator, capability Capability) bool
}

// roleGrants maps each moderator role to the capabilities it carries.
var roleGrants = map[enum.ModeratorRole][]Capability{
	enum.ModeratorRoleOwner: {
		CapabilityInvestigate, CapabilityResolve, CapabilityManageNotes, CapabilityAdmin,
	},
	enum.ModeratorRoleAdmin: {
		CapabilityInvestigate, CapabilityResolve, CapabilityManageNotes, CapabilityAdmin,
	},
	enum.ModeratorRoleInvestigator: {
		CapabilityInvestigate, CapabilityResolve, CapabilityManageNotes,
	},
	enum.ModeratorRoleReviewer: {},
}

// RoleChecker grants capabilities from the moderator's role alone.
type RoleChecker struct{}

// NewRoleChecker creates a role-based capability checker.
func NewRoleChecker() *RoleChecker {
	return &RoleChecker{}
}

// HasCapability reports whether the moderator's role carries the capability.
func (*RoleChecker) HasCapability(moderator *types.Moderator, capability Capability) bool {
	if moderator == nil {
		return false
	}

	for _, grant := range roleGrants[moderator.Role] {
		if grant == capability {
			return true
		}
	}

	return false
}
