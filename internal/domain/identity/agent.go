package identity

import (
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/printshop/backend/internal/domain/shared"
)

// AgentRole represents the role of an agent account
type AgentRole string

const (
	RoleAgent AgentRole = "agent" // Regular printing agent
	RoleAdmin AgentRole = "admin" // Administrator with approval powers
)

// AgentStatus represents the approval status of an agent account
type AgentStatus string

const (
	AgentStatusPending  AgentStatus = "pending"  // Registered, awaiting admin approval
	AgentStatusApproved AgentStatus = "approved" // Approved, can log in and print
	AgentStatusRejected AgentStatus = "rejected" // Rejected by an admin
)

// Password cost for bcrypt
const bcryptCost = 12

// Agent represents a printing agent account.
// It is the aggregate root for identity operations: agents register,
// an admin approves or rejects them, and approved agents log in to
// record print events and manage their debts.
type Agent struct {
	shared.BaseAggregateRoot
	Name         string
	Email        string
	PasswordHash string
	Role         AgentRole
	Status       AgentStatus
	ApprovedBy   *string
	ApprovedAt   *time.Time
	LastLoginAt  *time.Time
}

// NewAgent creates a new agent in pending status
func NewAgent(name, email, password string) (*Agent, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	agent := &Agent{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Email:             strings.ToLower(strings.TrimSpace(email)),
		PasswordHash:      passwordHash,
		Role:              RoleAgent,
		Status:            AgentStatusPending,
	}

	agent.AddDomainEvent(NewAgentRegisteredEvent(agent))

	return agent, nil
}

// NewAdmin creates an administrator account that is immediately approved.
// Used by the bootstrap path when the system has no admin yet.
func NewAdmin(name, email, password string) (*Agent, error) {
	agent, err := NewAgent(name, email, password)
	if err != nil {
		return nil, err
	}

	agent.Role = RoleAdmin
	agent.Status = AgentStatusApproved
	now := time.Now()
	agent.ApprovedAt = &now

	return agent, nil
}

// Approve transitions a pending agent to approved
func (a *Agent) Approve(approvedBy string) error {
	if a.Status == AgentStatusApproved {
		return shared.NewDomainError("ALREADY_APPROVED", "Agent is already approved")
	}
	if a.Status != AgentStatusPending {
		return shared.ErrInvalidState
	}

	now := time.Now()
	a.Status = AgentStatusApproved
	a.ApprovedBy = &approvedBy
	a.ApprovedAt = &now
	a.UpdatedAt = now
	a.IncrementVersion()

	a.AddDomainEvent(NewAgentApprovedEvent(a, approvedBy))

	return nil
}

// Reject transitions a pending agent to rejected
func (a *Agent) Reject(rejectedBy string) error {
	if a.Status != AgentStatusPending {
		return shared.ErrInvalidState
	}

	a.Status = AgentStatusRejected
	a.ApprovedBy = &rejectedBy
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	a.AddDomainEvent(NewAgentRejectedEvent(a, rejectedBy))

	return nil
}

// VerifyPassword verifies if the provided password matches
func (a *Agent) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password))
	return err == nil
}

// SetPassword sets a new password (admin reset, no old password check)
func (a *Agent) SetPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	passwordHash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	a.PasswordHash = passwordHash
	a.UpdatedAt = time.Now()
	a.IncrementVersion()

	return nil
}

// RecordLogin records a successful login
func (a *Agent) RecordLogin() {
	now := time.Now()
	a.LastLoginAt = &now
	a.UpdatedAt = now
	a.IncrementVersion()
}

// IsApproved returns true if the agent is approved
func (a *Agent) IsApproved() bool {
	return a.Status == AgentStatusApproved
}

// IsAdmin returns true if the agent has the admin role
func (a *Agent) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanLogin returns true if the agent can log in
func (a *Agent) CanLogin() bool {
	return a.Status == AgentStatusApproved
}

// Validation functions

func validateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 200 characters")
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot be empty")
	}
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 128 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 128 characters")
	}
	return nil
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}

	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}

	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
