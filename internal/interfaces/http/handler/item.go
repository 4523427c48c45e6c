package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appcatalog "github.com/printshop/backend/internal/application/catalog"
	"github.com/printshop/backend/internal/domain/catalog"
	"github.com/printshop/backend/internal/interfaces/http/middleware"
)

// ItemHandler exposes the printable catalog endpoints
type ItemHandler struct {
	BaseHandler
	itemService *appcatalog.ItemService
}

// NewItemHandler creates a new item handler
func NewItemHandler(itemService *appcatalog.ItemService) *ItemHandler {
	return &ItemHandler{itemService: itemService}
}

// ItemResponse is the wire form of a catalog item
type ItemResponse struct {
	ID              uuid.UUID  `json:"id"`
	Name            string     `json:"name"`
	Category        string     `json:"category"`
	FileRef         string     `json:"file_ref"`
	AssignedAgentID *uuid.UUID `json:"assigned_agent_id,omitempty"`
	SortOrder       int        `json:"sort_order"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
}

func toItemResponse(item *catalog.Item) ItemResponse {
	return ItemResponse{
		ID:              item.ID,
		Name:            item.Name,
		Category:        item.Category,
		FileRef:         item.FileRef,
		AssignedAgentID: item.AssignedAgentID,
		SortOrder:       item.SortOrder,
		Status:          string(item.Status),
		CreatedAt:       item.CreatedAt,
	}
}

func toItemResponses(items []*catalog.Item) []ItemResponse {
	responses := make([]ItemResponse, len(items))
	for i, item := range items {
		responses[i] = toItemResponse(item)
	}
	return responses
}

// CreateItemRequest is the request body for creating an item
type CreateItemRequest struct {
	Name            string     `json:"name" binding:"required,min=2,max=200"`
	Category        string     `json:"category" binding:"required,max=100"`
	FileRef         string     `json:"file_ref" binding:"required,max=500"`
	AssignedAgentID *uuid.UUID `json:"assigned_agent_id"`
	SortOrder       int        `json:"sort_order" binding:"omitempty,min=0"`
}

// CreateItem creates a new catalog item
func (h *ItemHandler) CreateItem(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	item, err := h.itemService.CreateItem(c.Request.Context(), appcatalog.CreateItemRequest{
		Name:            req.Name,
		Category:        req.Category,
		FileRef:         req.FileRef,
		AssignedAgentID: req.AssignedAgentID,
		SortOrder:       req.SortOrder,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toItemResponse(item))
}

// UpdateItemRequest is the request body for updating an item. Omitted
// fields are left untouched.
type UpdateItemRequest struct {
	Name      *string `json:"name" binding:"omitempty,min=2,max=200"`
	Category  *string `json:"category" binding:"omitempty,max=100"`
	FileRef   *string `json:"file_ref" binding:"omitempty,max=500"`
	SortOrder *int    `json:"sort_order" binding:"omitempty,min=0"`
}

// UpdateItem applies a partial change to an item
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	itemID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	item, err := h.itemService.UpdateItem(c.Request.Context(), itemID, appcatalog.UpdateItemRequest{
		Name:      req.Name,
		Category:  req.Category,
		FileRef:   req.FileRef,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toItemResponse(item))
}

// AssignAgentRequest is the request body for changing an item's
// assignment. A null agent_id releases the item to everyone.
type AssignAgentRequest struct {
	AgentID *uuid.UUID `json:"agent_id"`
}

// AssignAgent restricts an item to one agent or releases it
func (h *ItemHandler) AssignAgent(c *gin.Context) {
	itemID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	var req AssignAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	item, err := h.itemService.AssignAgent(c.Request.Context(), itemID, req.AgentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toItemResponse(item))
}

// SetActiveRequest is the request body for toggling item availability
type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// SetActive activates or deactivates an item
func (h *ItemHandler) SetActive(c *gin.Context) {
	itemID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	item, err := h.itemService.SetActive(c.Request.Context(), itemID, *req.Active)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toItemResponse(item))
}

// GetItem returns one catalog item
func (h *ItemHandler) GetItem(c *gin.Context) {
	itemID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	item, err := h.itemService.GetItem(c.Request.Context(), itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toItemResponse(item))
}

// ListItems returns all items for the admin view
func (h *ItemHandler) ListItems(c *gin.Context) {
	activeOnly := c.Query("active_only") == "true"

	items, err := h.itemService.ListItems(c.Request.Context(), activeOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toItemResponses(items))
}

// ListAvailable returns the items the authenticated agent may print
func (h *ItemHandler) ListAvailable(c *gin.Context) {
	agentID, err := getAgentID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	items, err := h.itemService.ListAvailable(c.Request.Context(), agentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toItemResponses(items))
}

// RegisterRoutes registers catalog routes
func (h *ItemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	items := rg.Group("/items")
	{
		items.GET("/available", h.ListAvailable)
		items.GET("", middleware.AdminOnly(), h.ListItems)
		items.POST("", middleware.AdminOnly(), h.CreateItem)
		items.GET("/:id", middleware.AdminOnly(), h.GetItem)
		items.PUT("/:id", middleware.AdminOnly(), h.UpdateItem)
		items.PUT("/:id/assignment", middleware.AdminOnly(), h.AssignAgent)
		items.PUT("/:id/active", middleware.AdminOnly(), h.SetActive)
	}
}
