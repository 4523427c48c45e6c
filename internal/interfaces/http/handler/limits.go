package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	appbilling "github.com/printshop/backend/internal/application/billing"
	"github.com/printshop/backend/internal/domain/billing"
	"github.com/printshop/backend/internal/interfaces/http/middleware"
)

// LimitsHandler exposes the quota configuration endpoints
type LimitsHandler struct {
	BaseHandler
	limitsService *appbilling.LimitsService
}

// NewLimitsHandler creates a new limits handler
func NewLimitsHandler(limitsService *appbilling.LimitsService) *LimitsHandler {
	return &LimitsHandler{limitsService: limitsService}
}

// LimitsResponse is the wire form of the effective quota configuration
type LimitsResponse struct {
	DailyLimit  int       `json:"daily_limit"`
	WeeklyLimit int       `json:"weekly_limit"`
	UnitCost    string    `json:"unit_cost"`
	ApplyToAll  bool      `json:"apply_to_all"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

func toLimitsResponse(limits billing.Limits) LimitsResponse {
	return LimitsResponse{
		DailyLimit:  limits.DailyLimit,
		WeeklyLimit: limits.WeeklyLimit,
		UnitCost:    limits.UnitCost.Amount().StringFixed(2),
		ApplyToAll:  limits.ApplyToAll,
		UpdatedAt:   limits.UpdatedAt,
	}
}

// GetLimits returns the effective quota configuration
func (h *LimitsHandler) GetLimits(c *gin.Context) {
	limits, err := h.limitsService.Effective(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toLimitsResponse(limits))
}

// UpdateLimitsRequest is the request body for changing the quota
// configuration. Omitted fields are left untouched.
type UpdateLimitsRequest struct {
	DailyLimit  *int    `json:"daily_limit" binding:"omitempty,min=0"`
	WeeklyLimit *int    `json:"weekly_limit" binding:"omitempty,min=0"`
	UnitCost    *string `json:"unit_cost"`
	ApplyToAll  *bool   `json:"apply_to_all"`
}

// UpdateLimits applies a partial change to the quota configuration
func (h *LimitsHandler) UpdateLimits(c *gin.Context) {
	var req UpdateLimitsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	claims := middleware.GetJWTClaims(c)
	limits, err := h.limitsService.Update(c.Request.Context(), appbilling.UpdateLimitsRequest{
		DailyLimit:  req.DailyLimit,
		WeeklyLimit: req.WeeklyLimit,
		UnitCost:    req.UnitCost,
		ApplyToAll:  req.ApplyToAll,
		ChangedBy:   claims.Name,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toLimitsResponse(limits))
}

// SettingResponse is one entry of a setting's change log
type SettingResponse struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	Kind      string    `json:"kind"`
	ChangedBy string    `json:"changed_by"`
	CreatedAt time.Time `json:"created_at"`
}

// History returns the change log for one setting key, newest first
func (h *LimitsHandler) History(c *gin.Context) {
	key := c.Param("key")

	settings, err := h.limitsService.History(c.Request.Context(), key)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]SettingResponse, len(settings))
	for i, s := range settings {
		responses[i] = SettingResponse{
			Key:       s.Key,
			Value:     s.Value,
			Kind:      s.Kind,
			ChangedBy: s.ChangedBy,
			CreatedAt: s.CreatedAt,
		}
	}

	h.Success(c, responses)
}

// RegisterRoutes registers limits routes
func (h *LimitsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	limits := rg.Group("/limits")
	{
		limits.GET("", h.GetLimits)
		limits.PUT("", middleware.AdminOnly(), h.UpdateLimits)
		limits.GET("/history/:key", middleware.AdminOnly(), h.History)
	}
}
