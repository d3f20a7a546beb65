package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeroclasses/coaching-service/internal/domain"
)

func TestAuthorizerMatchesRoleTable(t *testing.T) {
	authz, err := NewAuthorizer()
	require.NoError(t, err)

	all := []domain.Capability{
		domain.CapabilityProfileRead,
		domain.CapabilityCourseEnroll,
		domain.CapabilityCourseManage,
		domain.CapabilityMaterialManage,
		domain.CapabilityUserManage,
		domain.CapabilityNotificationSend,
	}

	for _, role := range domain.Roles {
		granted := map[domain.Capability]bool{}
		for _, c := range domain.RoleCapabilities[role] {
			granted[c] = true
		}
		for _, c := range all {
			assert.Equal(t, granted[c], authz.Can(role, c), "%s %s", role, c)
		}
	}
}

func TestAuthorizerUnknownRole(t *testing.T) {
	authz, err := NewAuthorizer()
	require.NoError(t, err)
	assert.False(t, authz.Can(domain.Role("GUEST"), domain.CapabilityProfileRead))
}
