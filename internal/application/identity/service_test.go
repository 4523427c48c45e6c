package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/printshop/backend/internal/domain/identity"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/printshop/backend/internal/infrastructure/auth"
	"github.com/printshop/backend/internal/infrastructure/config"
)

// MockAgentRepository is a mock implementation of identity.AgentRepository
type MockAgentRepository struct {
	mock.Mock
}

func (m *MockAgentRepository) Create(ctx context.Context, agent *identity.Agent) error {
	args := m.Called(ctx, agent)
	return args.Error(0)
}

func (m *MockAgentRepository) Update(ctx context.Context, agent *identity.Agent) error {
	args := m.Called(ctx, agent)
	return args.Error(0)
}

func (m *MockAgentRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Agent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Agent), args.Error(1)
}

func (m *MockAgentRepository) FindByEmail(ctx context.Context, email string) (*identity.Agent, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Agent), args.Error(1)
}

func (m *MockAgentRepository) FindByName(ctx context.Context, name string) (*identity.Agent, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Agent), args.Error(1)
}

func (m *MockAgentRepository) FindAll(ctx context.Context, filter identity.AgentFilter) ([]*identity.Agent, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*identity.Agent), args.Get(1).(int64), args.Error(2)
}

func (m *MockAgentRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockAgentRepository) CountAdmins(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// noopPublisher swallows events
type noopPublisher struct{}

func (noopPublisher) Publish(_ context.Context, _ ...shared.DomainEvent) error { return nil }

func newAgentService(repo *MockAgentRepository) *AgentService {
	jwt := auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret",
		AccessTokenExpiration: time.Hour,
		Issuer:                "printshop-test",
	})
	return NewAgentService(repo, jwt, noopPublisher{}, zap.NewNop())
}

func TestAgentService_Register(t *testing.T) {
	repo := new(MockAgentRepository)
	repo.On("ExistsByEmail", mock.Anything, "luis@example.com").Return(false, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	svc := newAgentService(repo)

	agent, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Luis",
		Email:    "luis@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	assert.Equal(t, identity.AgentStatusPending, agent.Status)
	assert.False(t, agent.CanLogin())
}

func TestAgentService_Register_DuplicateEmail(t *testing.T) {
	repo := new(MockAgentRepository)
	repo.On("ExistsByEmail", mock.Anything, "luis@example.com").Return(true, nil)

	svc := newAgentService(repo)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Luis",
		Email:    "luis@example.com",
		Password: "s3cret-pass",
	})
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "EMAIL_TAKEN", domainErr.Code)

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAgentService_Login_ApprovedAgent(t *testing.T) {
	repo := new(MockAgentRepository)

	agent, err := identity.NewAgent("Maria", "maria@example.com", "s3cret-pass")
	require.NoError(t, err)
	require.NoError(t, agent.Approve("admin@example.com"))
	agent.ClearDomainEvents()

	repo.On("FindByEmail", mock.Anything, "maria@example.com").Return(agent, nil)
	repo.On("Update", mock.Anything, agent).Return(nil)

	svc := newAgentService(repo)

	result, err := svc.Login(context.Background(), "maria@example.com", "s3cret-pass")
	require.NoError(t, err)

	assert.NotEmpty(t, result.Token.AccessToken)
	assert.Equal(t, "Bearer", result.Token.TokenType)
	assert.NotNil(t, agent.LastLoginAt)
}

func TestAgentService_Login_WrongPassword(t *testing.T) {
	repo := new(MockAgentRepository)

	agent, err := identity.NewAgent("Maria", "maria@example.com", "s3cret-pass")
	require.NoError(t, err)
	require.NoError(t, agent.Approve("admin@example.com"))

	repo.On("FindByEmail", mock.Anything, "maria@example.com").Return(agent, nil)

	svc := newAgentService(repo)

	_, err = svc.Login(context.Background(), "maria@example.com", "wrong")
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
}

func TestAgentService_Login_UnknownEmailLooksLikeBadPassword(t *testing.T) {
	repo := new(MockAgentRepository)
	repo.On("FindByEmail", mock.Anything, "ghost@example.com").
		Return(nil, shared.ErrNotFound)

	svc := newAgentService(repo)

	_, err := svc.Login(context.Background(), "ghost@example.com", "anything")
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
}

func TestAgentService_Login_PendingAgentRefused(t *testing.T) {
	repo := new(MockAgentRepository)

	agent, err := identity.NewAgent("Pedro", "pedro@example.com", "s3cret-pass")
	require.NoError(t, err)

	repo.On("FindByEmail", mock.Anything, "pedro@example.com").Return(agent, nil)

	svc := newAgentService(repo)

	_, err = svc.Login(context.Background(), "pedro@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, shared.ErrAgentNotApproved)
}

func TestAgentService_ApproveThenReject(t *testing.T) {
	repo := new(MockAgentRepository)

	agent, err := identity.NewAgent("Ana", "ana@example.com", "s3cret-pass")
	require.NoError(t, err)
	agent.ClearDomainEvents()

	repo.On("FindByID", mock.Anything, agent.ID).Return(agent, nil)
	repo.On("Update", mock.Anything, agent).Return(nil)

	svc := newAgentService(repo)

	approved, err := svc.Approve(context.Background(), agent.ID, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, identity.AgentStatusApproved, approved.Status)
	assert.True(t, approved.CanLogin())

	// Only pending agents can be rejected.
	_, err = svc.Reject(context.Background(), agent.ID, "admin@example.com")
	assert.Error(t, err)
}

func TestAgentService_EnsureAdmin(t *testing.T) {
	repo := new(MockAgentRepository)
	repo.On("CountAdmins", mock.Anything).Return(int64(0), nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	svc := newAgentService(repo)

	require.NoError(t, svc.EnsureAdmin(context.Background(), "Admin", "admin@example.com", "s3cret-pass"))

	repo.AssertCalled(t, "Create", mock.Anything,
		mock.MatchedBy(func(a *identity.Agent) bool {
			return a.Role == identity.RoleAdmin && a.Status == identity.AgentStatusApproved
		}))
}

func TestAgentService_EnsureAdmin_SkipsWhenAdminExists(t *testing.T) {
	repo := new(MockAgentRepository)
	repo.On("CountAdmins", mock.Anything).Return(int64(1), nil)

	svc := newAgentService(repo)

	require.NoError(t, svc.EnsureAdmin(context.Background(), "Admin", "admin@example.com", "s3cret-pass"))

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
