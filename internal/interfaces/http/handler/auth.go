package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appidentity "github.com/printshop/backend/internal/application/identity"
	"github.com/printshop/backend/internal/domain/identity"
)

// AuthHandler handles registration, login, and the agent's own profile
type AuthHandler struct {
	BaseHandler
	agentService *appidentity.AgentService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(agentService *appidentity.AgentService) *AuthHandler {
	return &AuthHandler{agentService: agentService}
}

// RegisterRequest is the request body for agent registration
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest is the request body for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AgentResponse is the wire form of an agent account
type AgentResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	ApprovedBy  *string    `json:"approved_by,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// TokenResponse is the wire form of an issued token
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	TokenType   string    `json:"token_type"`
}

// LoginResponse bundles an agent with its token
type LoginResponse struct {
	Agent AgentResponse `json:"agent"`
	Token TokenResponse `json:"token"`
}

func toAgentResponse(agent *identity.Agent) AgentResponse {
	return AgentResponse{
		ID:          agent.ID,
		Name:        agent.Name,
		Email:       agent.Email,
		Role:        string(agent.Role),
		Status:      string(agent.Status),
		ApprovedBy:  agent.ApprovedBy,
		LastLoginAt: agent.LastLoginAt,
		CreatedAt:   agent.CreatedAt,
	}
}

// Register creates a new agent account in pending status
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	agent, err := h.agentService.Register(c.Request.Context(), appidentity.RegisterRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toAgentResponse(agent))
}

// Login authenticates an agent and issues a JWT
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.agentService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, LoginResponse{
		Agent: toAgentResponse(result.Agent),
		Token: TokenResponse{
			AccessToken: result.Token.AccessToken,
			ExpiresAt:   result.Token.ExpiresAt,
			TokenType:   result.Token.TokenType,
		},
	})
}

// Me returns the authenticated agent's own account
func (h *AuthHandler) Me(c *gin.Context) {
	agentID, err := getAgentID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	agent, err := h.agentService.GetAgent(c.Request.Context(), agentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toAgentResponse(agent))
}

// RegisterRoutes registers auth routes
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.GET("/me", h.Me)
	}
}
