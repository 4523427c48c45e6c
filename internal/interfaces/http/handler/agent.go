package handler

import (
	"github.com/gin-gonic/gin"

	appidentity "github.com/printshop/backend/internal/application/identity"
	"github.com/printshop/backend/internal/domain/identity"
	"github.com/printshop/backend/internal/interfaces/http/dto"
	"github.com/printshop/backend/internal/interfaces/http/middleware"
)

// AgentHandler exposes the admin-side account management endpoints
type AgentHandler struct {
	BaseHandler
	agentService *appidentity.AgentService
}

// NewAgentHandler creates a new agent handler
func NewAgentHandler(agentService *appidentity.AgentService) *AgentHandler {
	return &AgentHandler{agentService: agentService}
}

// ListAgentsRequest carries the list filters
type ListAgentsRequest struct {
	dto.ListRequest
	Status string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
	Role   string `form:"role" binding:"omitempty,oneof=agent admin"`
}

// ListAgents returns agents matching the filter
func (h *AgentHandler) ListAgents(c *gin.Context) {
	req := ListAgentsRequest{ListRequest: dto.DefaultListRequest()}
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	filter := identity.AgentFilter{
		Keyword:  req.Search,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if req.Status != "" {
		status := identity.AgentStatus(req.Status)
		filter.Status = &status
	}
	if req.Role != "" {
		role := identity.AgentRole(req.Role)
		filter.Role = &role
	}

	agents, total, err := h.agentService.ListAgents(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]AgentResponse, len(agents))
	for i, agent := range agents {
		responses[i] = toAgentResponse(agent)
	}

	h.SuccessWithMeta(c, responses, total, req.Page, req.PageSize)
}

// GetAgent returns one agent account
func (h *AgentHandler) GetAgent(c *gin.Context) {
	agentID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid agent ID")
		return
	}

	agent, err := h.agentService.GetAgent(c.Request.Context(), agentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toAgentResponse(agent))
}

// Approve transitions a pending agent to approved
func (h *AgentHandler) Approve(c *gin.Context) {
	agentID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid agent ID")
		return
	}

	claims := middleware.GetJWTClaims(c)
	agent, err := h.agentService.Approve(c.Request.Context(), agentID, claims.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toAgentResponse(agent))
}

// Reject declines a pending agent's registration
func (h *AgentHandler) Reject(c *gin.Context) {
	agentID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid agent ID")
		return
	}

	claims := middleware.GetJWTClaims(c)
	agent, err := h.agentService.Reject(c.Request.Context(), agentID, claims.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toAgentResponse(agent))
}

// RegisterRoutes registers agent management routes
func (h *AgentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	agents := rg.Group("/agents")
	agents.Use(middleware.AdminOnly())
	{
		agents.GET("", h.ListAgents)
		agents.GET("/:id", h.GetAgent)
		agents.POST("/:id/approve", h.Approve)
		agents.POST("/:id/reject", h.Reject)
	}
}
