package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printshop/backend/internal/domain/identity"
	"github.com/printshop/backend/internal/infrastructure/auth"
	"github.com/printshop/backend/internal/infrastructure/config"
)

func newService(expiration time.Duration) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-at-least-32-characters!!",
		AccessTokenExpiration: expiration,
		Issuer:                "printshop-test",
	})
}

func newAgent(t *testing.T) *identity.Agent {
	t.Helper()
	agent, err := identity.NewAgent("Maria", "maria@example.com", "secret123")
	require.NoError(t, err)
	return agent
}

func TestJWTService_GenerateAndValidate(t *testing.T) {
	svc := newService(time.Hour)
	agent := newAgent(t)

	token, err := svc.GenerateToken(agent)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.NotEmpty(t, token.AccessToken)

	claims, err := svc.ValidateToken(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, agent.ID.String(), claims.AgentID)
	assert.Equal(t, "Maria", claims.Name)
	assert.Equal(t, "agent", claims.Role)
	assert.False(t, claims.IsAdmin())

	id, err := claims.GetAgentUUID()
	require.NoError(t, err)
	assert.Equal(t, agent.ID, id)
}

func TestJWTService_AdminRoleClaim(t *testing.T) {
	svc := newService(time.Hour)
	admin, err := identity.NewAdmin("Root", "root@example.com", "secret123")
	require.NoError(t, err)

	token, err := svc.GenerateToken(admin)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token.AccessToken)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin())
}

func TestJWTService_RejectsGarbage(t *testing.T) {
	svc := newService(time.Hour)

	_, err := svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestJWTService_RejectsWrongSecret(t *testing.T) {
	issuing := newService(time.Hour)
	validating := auth.NewJWTService(config.JWTConfig{
		Secret:                "a-different-secret-32-characters!!!!",
		AccessTokenExpiration: time.Hour,
		Issuer:                "printshop-test",
	})

	token, err := issuing.GenerateToken(newAgent(t))
	require.NoError(t, err)

	_, err = validating.ValidateToken(token.AccessToken)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestJWTService_RejectsExpired(t *testing.T) {
	svc := newService(-time.Minute)

	token, err := svc.GenerateToken(newAgent(t))
	require.NoError(t, err)

	_, err = svc.ValidateToken(token.AccessToken)
	assert.ErrorIs(t, err, auth.ErrExpiredToken)
}
