package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wardenlabs/inquest/internal/access"
	"github.com/wardenlabs/inquest/internal/database/types"
	"github.com/wardenlabs/inquest/internal/database/types/enum"
)

func TestHasCapability_ByRole(t *testing.T) {
	t.Parallel()

	checker := access.NewRoleChecker()

	tests := []struct {
		name       string
		role       enum.ModeratorRole
		capability access.Capability
		want       bool
	}{
		{"owner investigates", enum.ModeratorRoleOwner, access.CapabilityInvestigate, true},
		{"owner administrates", enum.ModeratorRoleOwner, access.CapabilityAdmin, true},
		{"admin investigates", enum.ModeratorRoleAdmin, access.CapabilityInvestigate, true},
		{"investigator investigates", enum.ModeratorRoleInvestigator, access.CapabilityInvestigate, true},
		{"investigator resolves", enum.ModeratorRoleInvestigator, access.CapabilityResolve, true},
		{"investigator is not admin", enum.ModeratorRoleInvestigator, access.CapabilityAdmin, false},
		{"reviewer cannot investigate", enum.ModeratorRoleReviewer, access.CapabilityInvestigate, false},
		{"reviewer cannot resolve", enum.ModeratorRoleReviewer, access.CapabilityResolve, false},
		{"unknown role has nothing", enum.ModeratorRole("intern"), access.CapabilityInvestigate, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			moderator := &types.Moderator{ID: 1, Role: tt.role}
			assert.Equal(t, tt.want, checker.HasCapability(moderator, tt.capability))
		})
	}
}

func TestHasCapability_NilModerator(t *testing.T) {
	t.Parallel()

	checker := access.NewRoleChecker()

	assert.False(t, checker.HasCapability(nil, access.CapabilityInvestigate),
		"nil moderator must never hold a capability")
}
