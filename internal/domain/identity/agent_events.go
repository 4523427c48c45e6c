package identity

import (
	"github.com/printshop/backend/internal/domain/shared"
)

// Aggregate type constant for Agent
const AggregateTypeAgent = "Agent"

// Agent domain event types
const (
	EventTypeAgentRegistered = "AgentRegistered"
	EventTypeAgentApproved   = "AgentApproved"
	EventTypeAgentRejected   = "AgentRejected"
)

// AgentRegisteredEvent is published when an agent registers
type AgentRegisteredEvent struct {
	shared.BaseDomainEvent
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NewAgentRegisteredEvent creates a new AgentRegisteredEvent
func NewAgentRegisteredEvent(agent *Agent) *AgentRegisteredEvent {
	return &AgentRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAgentRegistered, AggregateTypeAgent, agent.ID),
		Name:            agent.Name,
		Email:           agent.Email,
	}
}

// AgentApprovedEvent is published when an admin approves an agent
type AgentApprovedEvent struct {
	shared.BaseDomainEvent
	Name       string `json:"name"`
	ApprovedBy string `json:"approved_by"`
}

// NewAgentApprovedEvent creates a new AgentApprovedEvent
func NewAgentApprovedEvent(agent *Agent, approvedBy string) *AgentApprovedEvent {
	return &AgentApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAgentApproved, AggregateTypeAgent, agent.ID),
		Name:            agent.Name,
		ApprovedBy:      approvedBy,
	}
}

// AgentRejectedEvent is published when an admin rejects an agent
type AgentRejectedEvent struct {
	shared.BaseDomainEvent
	Name       string `json:"name"`
	RejectedBy string `json:"rejected_by"`
}

// NewAgentRejectedEvent creates a new AgentRejectedEvent
func NewAgentRejectedEvent(agent *Agent, rejectedBy string) *AgentRejectedEvent {
	return &AgentRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAgentRejected, AggregateTypeAgent, agent.ID),
		Name:            agent.Name,
		RejectedBy:      rejectedBy,
	}
}
