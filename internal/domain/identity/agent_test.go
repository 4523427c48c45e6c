package identity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printshop/backend/internal/domain/identity"
	"github.com/printshop/backend/internal/domain/shared"
)

func TestNewAgent(t *testing.T) {
	agent, err := identity.NewAgent("Maria Lopez", "Maria@Example.com ", "secret123")
	require.NoError(t, err)

	assert.Equal(t, "Maria Lopez", agent.Name)
	assert.Equal(t, "maria@example.com", agent.Email)
	assert.Equal(t, identity.RoleAgent, agent.Role)
	assert.Equal(t, identity.AgentStatusPending, agent.Status)
	assert.NotEmpty(t, agent.PasswordHash)
	assert.NotEqual(t, "secret123", agent.PasswordHash)

	events := agent.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, identity.EventTypeAgentRegistered, events[0].EventType())
}

func TestNewAgent_Validation(t *testing.T) {
	tests := []struct {
		name     string
		agent    string
		email    string
		password string
	}{
		{"empty name", "", "a@b.com", "secret123"},
		{"empty email", "Maria", "", "secret123"},
		{"bad email", "Maria", "not-an-email", "secret123"},
		{"short password", "Maria", "a@b.com", "short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := identity.NewAgent(tt.agent, tt.email, tt.password)
			assert.Error(t, err)
		})
	}
}

func TestAgent_ApproveReject(t *testing.T) {
	agent, err := identity.NewAgent("Maria", "maria@example.com", "secret123")
	require.NoError(t, err)
	agent.ClearDomainEvents()

	require.NoError(t, agent.Approve("admin"))
	assert.Equal(t, identity.AgentStatusApproved, agent.Status)
	assert.NotNil(t, agent.ApprovedAt)
	require.NotNil(t, agent.ApprovedBy)
	assert.Equal(t, "admin", *agent.ApprovedBy)
	assert.True(t, agent.CanLogin())

	// Approving twice is an error
	err = agent.Approve("admin")
	assert.Error(t, err)

	// Rejecting an approved agent is an invalid transition
	err = agent.Reject("admin")
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestAgent_RejectPending(t *testing.T) {
	agent, err := identity.NewAgent("Pedro", "pedro@example.com", "secret123")
	require.NoError(t, err)

	require.NoError(t, agent.Reject("admin"))
	assert.Equal(t, identity.AgentStatusRejected, agent.Status)
	assert.False(t, agent.CanLogin())

	// A rejected agent cannot be approved afterwards
	err = agent.Approve("admin")
	assert.Error(t, err)
}

func TestAgent_VerifyPassword(t *testing.T) {
	agent, err := identity.NewAgent("Maria", "maria@example.com", "secret123")
	require.NoError(t, err)

	assert.True(t, agent.VerifyPassword("secret123"))
	assert.False(t, agent.VerifyPassword("wrong"))

	require.NoError(t, agent.SetPassword("newpass456"))
	assert.True(t, agent.VerifyPassword("newpass456"))
	assert.False(t, agent.VerifyPassword("secret123"))
}

func TestNewAdmin(t *testing.T) {
	admin, err := identity.NewAdmin("Root", "root@example.com", "secret123")
	require.NoError(t, err)

	assert.Equal(t, identity.RoleAdmin, admin.Role)
	assert.Equal(t, identity.AgentStatusApproved, admin.Status)
	assert.True(t, admin.IsAdmin())
	assert.True(t, admin.CanLogin())
}
