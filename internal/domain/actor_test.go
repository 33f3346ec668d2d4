package domain_test

import (
	"testing"

	"dealdesk-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	role, ok := domain.ParseRole("ADMIN")
	assert.True(t, ok)
	assert.Equal(t, domain.RoleAdmin, role)

	role, ok = domain.ParseRole("OPERATOR")
	assert.True(t, ok)
	assert.Equal(t, domain.RoleOperator, role)

	_, ok = domain.ParseRole("admin")
	assert.False(t, ok)
	_, ok = domain.ParseRole("")
	assert.False(t, ok)
}

func TestActorPermissions(t *testing.T) {
	admin := domain.Actor{ID: "a", Role: domain.RoleAdmin}
	operator := domain.Actor{ID: "o", Role: domain.RoleOperator}

	assert.True(t, admin.CanCancelBookings())
	assert.False(t, operator.CanCancelBookings())

	for _, actor := range []domain.Actor{admin, operator} {
		assert.True(t, actor.CanSubmitRequests())
		assert.True(t, actor.CanIssuePublicLinks())
		assert.True(t, actor.CanEditPendingRequests())
		assert.True(t, actor.CanReschedule())
	}
}
