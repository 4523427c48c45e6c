package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appusage "github.com/printshop/backend/internal/application/usage"
	"github.com/printshop/backend/internal/domain/usage"
	"github.com/printshop/backend/internal/interfaces/http/middleware"
)

// PrintEventHandler exposes print recording and usage queries
type PrintEventHandler struct {
	BaseHandler
	usageService *appusage.UsageService
}

// NewPrintEventHandler creates a new print event handler
func NewPrintEventHandler(usageService *appusage.UsageService) *PrintEventHandler {
	return &PrintEventHandler{usageService: usageService}
}

// RecordPrintRequest is the request body for recording a print
type RecordPrintRequest struct {
	ItemID *uuid.UUID `json:"item_id"`
	Pages  int        `json:"pages" binding:"required,min=1"`
}

// PrintEventResponse is the wire form of a print event
type PrintEventResponse struct {
	ID           uuid.UUID  `json:"id"`
	AgentID      uuid.UUID  `json:"agent_id"`
	ItemID       *uuid.UUID `json:"item_id,omitempty"`
	Pages        int        `json:"pages"`
	OveragePages int        `json:"overage_pages"`
	ExtraCost    string     `json:"extra_cost"`
	OccurredAt   time.Time  `json:"occurred_at"`
}

func toPrintEventResponse(event *usage.PrintEvent) PrintEventResponse {
	return PrintEventResponse{
		ID:           event.ID,
		AgentID:      event.AgentID,
		ItemID:       event.ItemID,
		Pages:        event.Pages,
		OveragePages: event.OveragePages,
		ExtraCost:    event.ExtraCost.StringFixed(2),
		OccurredAt:   event.OccurredAt,
	}
}

// RecordPrint accounts for one print by the authenticated agent
func (h *PrintEventHandler) RecordPrint(c *gin.Context) {
	agentID, err := getAgentID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req RecordPrintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.usageService.RecordPrint(c.Request.Context(), appusage.RecordPrintRequest{
		AgentID: agentID,
		ItemID:  req.ItemID,
		Pages:   req.Pages,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// GetCounts returns the authenticated agent's totals and remaining quota
func (h *PrintEventHandler) GetCounts(c *gin.Context) {
	agentID, err := getAgentID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	counts, err := h.usageService.GetCounts(c.Request.Context(), agentID, time.Now())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, counts)
}

// ListEventsRequest carries the time window for listing events
type ListEventsRequest struct {
	From time.Time `form:"from" time_format:"2006-01-02"`
	To   time.Time `form:"to" time_format:"2006-01-02"`
}

// ListEvents returns the authenticated agent's events within a window.
// Without parameters it covers the current ISO week.
func (h *PrintEventHandler) ListEvents(c *gin.Context) {
	agentID, err := getAgentID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ListEventsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	from, to := req.From, req.To
	if from.IsZero() || to.IsZero() {
		from, to = usage.WeekBounds(time.Now())
	}

	events, err := h.usageService.ListEvents(c.Request.Context(), agentID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]PrintEventResponse, len(events))
	for i, event := range events {
		responses[i] = toPrintEventResponse(event)
	}

	h.Success(c, responses)
}

// ListRecentRequest carries the cap on returned events
type ListRecentRequest struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// ListRecent returns the latest events across all agents
func (h *PrintEventHandler) ListRecent(c *gin.Context) {
	var req ListRecentRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	events, err := h.usageService.ListRecent(c.Request.Context(), req.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]PrintEventResponse, len(events))
	for i, event := range events {
		responses[i] = toPrintEventResponse(event)
	}

	h.Success(c, responses)
}

// RegisterRoutes registers print usage routes
func (h *PrintEventHandler) RegisterRoutes(rg *gin.RouterGroup) {
	prints := rg.Group("/prints")
	{
		prints.POST("", h.RecordPrint)
		prints.GET("", h.ListEvents)
		prints.GET("/counts", h.GetCounts)
		prints.GET("/recent", middleware.AdminOnly(), h.ListRecent)
	}
}
