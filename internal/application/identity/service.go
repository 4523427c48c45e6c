package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/printshop/backend/internal/domain/identity"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/printshop/backend/internal/infrastructure/auth"
)

// AgentService handles registration, login, and the admin approval
// workflow for agent accounts.
type AgentService struct {
	agentRepo identity.AgentRepository
	jwt       *auth.JWTService
	eventBus  shared.EventPublisher
	logger    *zap.Logger
}

// NewAgentService creates a new AgentService
func NewAgentService(agentRepo identity.AgentRepository, jwt *auth.JWTService, eventBus shared.EventPublisher, logger *zap.Logger) *AgentService {
	return &AgentService{
		agentRepo: agentRepo,
		jwt:       jwt,
		eventBus:  eventBus,
		logger:    logger,
	}
}

// RegisterRequest carries a new agent registration
type RegisterRequest struct {
	Name     string
	Email    string
	Password string
}

// Register creates a new agent in pending status. The account cannot
// log in until an admin approves it.
func (s *AgentService) Register(ctx context.Context, req RegisterRequest) (*identity.Agent, error) {
	exists, err := s.agentRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "Email is already registered")
	}

	agent, err := identity.NewAgent(req.Name, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	if err := s.agentRepo.Create(ctx, agent); err != nil {
		return nil, fmt.Errorf("failed to create agent: %w", err)
	}

	s.logger.Info("Agent registered",
		zap.String("agent_id", agent.ID.String()),
		zap.String("email", agent.Email),
	)

	s.publishEvents(ctx, agent)
	return agent, nil
}

// LoginResult bundles the authenticated agent with its token
type LoginResult struct {
	Agent *identity.Agent
	Token *auth.Token
}

// Login verifies credentials and issues a JWT. Pending and rejected
// accounts are refused even with a correct password.
func (s *AgentService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	agent, err := s.agentRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
		}
		return nil, err
	}

	if !agent.VerifyPassword(password) {
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	if !agent.CanLogin() {
		return nil, shared.ErrAgentNotApproved
	}

	token, err := s.jwt.GenerateToken(agent)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	agent.RecordLogin()
	if err := s.agentRepo.Update(ctx, agent); err != nil {
		// Login timestamps are advisory; do not fail the login.
		s.logger.Warn("Failed to record login time",
			zap.String("agent_id", agent.ID.String()),
			zap.Error(err),
		)
	}

	return &LoginResult{Agent: agent, Token: token}, nil
}

// Approve transitions a pending agent to approved
func (s *AgentService) Approve(ctx context.Context, agentID uuid.UUID, approvedBy string) (*identity.Agent, error) {
	agent, err := s.agentRepo.FindByID(ctx, agentID)
	if err != nil {
		return nil, err
	}

	if err := agent.Approve(approvedBy); err != nil {
		return nil, err
	}

	if err := s.agentRepo.Update(ctx, agent); err != nil {
		return nil, fmt.Errorf("failed to save approval: %w", err)
	}

	s.logger.Info("Agent approved",
		zap.String("agent_id", agent.ID.String()),
		zap.String("approved_by", approvedBy),
	)

	s.publishEvents(ctx, agent)
	return agent, nil
}

// Reject declines a pending agent's registration
func (s *AgentService) Reject(ctx context.Context, agentID uuid.UUID, rejectedBy string) (*identity.Agent, error) {
	agent, err := s.agentRepo.FindByID(ctx, agentID)
	if err != nil {
		return nil, err
	}

	if err := agent.Reject(rejectedBy); err != nil {
		return nil, err
	}

	if err := s.agentRepo.Update(ctx, agent); err != nil {
		return nil, fmt.Errorf("failed to save rejection: %w", err)
	}

	s.publishEvents(ctx, agent)
	return agent, nil
}

// GetAgent returns one agent by id
func (s *AgentService) GetAgent(ctx context.Context, agentID uuid.UUID) (*identity.Agent, error) {
	return s.agentRepo.FindByID(ctx, agentID)
}

// ListAgents returns agents matching the filter with a total count
func (s *AgentService) ListAgents(ctx context.Context, filter identity.AgentFilter) ([]*identity.Agent, int64, error) {
	return s.agentRepo.FindAll(ctx, filter)
}

// EnsureAdmin creates the bootstrap administrator when no admin
// account exists yet
func (s *AgentService) EnsureAdmin(ctx context.Context, name, email, password string) error {
	count, err := s.agentRepo.CountAdmins(ctx)
	if err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	admin, err := identity.NewAdmin(name, email, password)
	if err != nil {
		return err
	}

	if err := s.agentRepo.Create(ctx, admin); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil
		}
		return fmt.Errorf("failed to create admin: %w", err)
	}

	s.logger.Info("Bootstrap admin created", zap.String("email", admin.Email))
	return nil
}

func (s *AgentService) publishEvents(ctx context.Context, agent *identity.Agent) {
	events := agent.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventBus.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish agent events",
			zap.String("agent_id", agent.ID.String()),
			zap.Error(err),
		)
	}
	agent.ClearDomainEvents()
}
