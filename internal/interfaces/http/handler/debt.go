package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appbilling "github.com/printshop/backend/internal/application/billing"
	"github.com/printshop/backend/internal/domain/billing"
	"github.com/printshop/backend/internal/interfaces/http/middleware"
)

// DebtHandler exposes the debt and verification workflow endpoints
type DebtHandler struct {
	BaseHandler
	debtService *appbilling.DebtService
}

// NewDebtHandler creates a new debt handler
func NewDebtHandler(debtService *appbilling.DebtService) *DebtHandler {
	return &DebtHandler{debtService: debtService}
}

// ProofResponse is the wire form of submitted payment proof
type ProofResponse struct {
	Method      string    `json:"method"`
	Reference   string    `json:"reference"`
	ProofRef    string    `json:"proof_ref,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// DebtResponse is the wire form of a debt
type DebtResponse struct {
	ID           uuid.UUID      `json:"id"`
	AgentID      uuid.UUID      `json:"agent_id"`
	PeriodType   string         `json:"period_type"`
	PeriodStart  time.Time      `json:"period_start"`
	OveragePages int            `json:"overage_pages"`
	AmountOwed   string         `json:"amount_owed"`
	ItemID       *uuid.UUID     `json:"item_id,omitempty"`
	Status       string         `json:"status"`
	Proof        *ProofResponse `json:"proof,omitempty"`
	ReviewedBy   *string        `json:"reviewed_by,omitempty"`
	ReviewedAt   *time.Time     `json:"reviewed_at,omitempty"`
	PaidAt       *time.Time     `json:"paid_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

func toDebtResponse(debt *billing.Debt) DebtResponse {
	resp := DebtResponse{
		ID:           debt.ID,
		AgentID:      debt.AgentID,
		PeriodType:   string(debt.PeriodType),
		PeriodStart:  debt.PeriodStart,
		OveragePages: debt.OveragePages,
		AmountOwed:   debt.AmountOwed.StringFixed(2),
		ItemID:       debt.ItemID,
		Status:       string(debt.Status),
		ReviewedBy:   debt.ReviewedBy,
		ReviewedAt:   debt.ReviewedAt,
		PaidAt:       debt.PaidAt,
		CreatedAt:    debt.CreatedAt,
	}
	if debt.Proof != nil {
		resp.Proof = &ProofResponse{
			Method:      debt.Proof.Method,
			Reference:   debt.Proof.Reference,
			ProofRef:    debt.Proof.ProofRef,
			SubmittedAt: debt.Proof.SubmittedAt,
		}
	}
	return resp
}

func toDebtResponses(debts []*billing.Debt) []DebtResponse {
	responses := make([]DebtResponse, len(debts))
	for i, debt := range debts {
		responses[i] = toDebtResponse(debt)
	}
	return responses
}

// SubmitProofRequest is the request body for submitting payment proof
type SubmitProofRequest struct {
	Method    string `json:"method" binding:"required,oneof=transfer mobile_payment cash"`
	Reference string `json:"reference" binding:"required,max=100"`
	ProofRef  string `json:"proof_ref" binding:"omitempty,max=500"`
}

// OutstandingDebtsResponse carries an agent's unpaid debts together
// with their summed amount
type OutstandingDebtsResponse struct {
	Debts            []DebtResponse `json:"debts"`
	TotalOutstanding string         `json:"total_outstanding"`
}

func toOutstandingDebtsResponse(debts []*billing.Debt) OutstandingDebtsResponse {
	total := decimal.Zero
	for _, debt := range debts {
		total = total.Add(debt.AmountOwed)
	}
	return OutstandingDebtsResponse{
		Debts:            toDebtResponses(debts),
		TotalOutstanding: total.StringFixed(2),
	}
}

// ListOutstanding returns the authenticated agent's unpaid debts and
// the total amount owed
func (h *DebtHandler) ListOutstanding(c *gin.Context) {
	agentID, err := getAgentID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	debts, err := h.debtService.ListOutstanding(c.Request.Context(), agentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toOutstandingDebtsResponse(debts))
}

// ListHistory returns the authenticated agent's full debt history
func (h *DebtHandler) ListHistory(c *gin.Context) {
	agentID, err := getAgentID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	debts, err := h.debtService.ListByAgent(c.Request.Context(), agentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toDebtResponses(debts))
}

// GetDebt returns one debt, owner or admin only
func (h *DebtHandler) GetDebt(c *gin.Context) {
	debtID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid debt ID")
		return
	}

	agentID, err := getAgentID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	debt, err := h.debtService.GetDebt(c.Request.Context(), debtID, agentID, middleware.IsAdmin(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toDebtResponse(debt))
}

// SubmitProof attaches payment proof to the agent's own debt
func (h *DebtHandler) SubmitProof(c *gin.Context) {
	debtID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid debt ID")
		return
	}

	agentID, err := getAgentID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req SubmitProofRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	debt, err := h.debtService.SubmitProof(c.Request.Context(), appbilling.SubmitProofRequest{
		DebtID:    debtID,
		AgentID:   agentID,
		Method:    req.Method,
		Reference: req.Reference,
		ProofRef:  req.ProofRef,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toDebtResponse(debt))
}

// Approve confirms a submitted proof and marks the debt paid
func (h *DebtHandler) Approve(c *gin.Context) {
	debtID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid debt ID")
		return
	}

	claims := middleware.GetJWTClaims(c)
	debt, err := h.debtService.Approve(c.Request.Context(), debtID, claims.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toDebtResponse(debt))
}

// Reject declines a submitted proof
func (h *DebtHandler) Reject(c *gin.Context) {
	debtID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid debt ID")
		return
	}

	claims := middleware.GetJWTClaims(c)
	debt, err := h.debtService.Reject(c.Request.Context(), debtID, claims.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toDebtResponse(debt))
}

// DebtSummaryResponse is one row of the admin outstanding overview
type DebtSummaryResponse struct {
	AgentID          uuid.UUID `json:"agent_id"`
	DebtCount        int       `json:"debt_count"`
	TotalOutstanding string    `json:"total_outstanding"`
	OldestPeriod     time.Time `json:"oldest_period"`
}

// SummarizeOutstanding returns per-agent outstanding totals
func (h *DebtHandler) SummarizeOutstanding(c *gin.Context) {
	summaries, err := h.debtService.SummarizeOutstanding(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]DebtSummaryResponse, len(summaries))
	for i, s := range summaries {
		responses[i] = DebtSummaryResponse{
			AgentID:          s.AgentID,
			DebtCount:        s.DebtCount,
			TotalOutstanding: s.TotalOutstanding.StringFixed(2),
			OldestPeriod:     s.OldestPeriod,
		}
	}

	h.Success(c, responses)
}

// RegisterRoutes registers debt routes
func (h *DebtHandler) RegisterRoutes(rg *gin.RouterGroup) {
	debts := rg.Group("/debts")
	{
		debts.GET("", h.ListOutstanding)
		debts.GET("/history", h.ListHistory)
		debts.GET("/summary", middleware.AdminOnly(), h.SummarizeOutstanding)
		debts.GET("/:id", h.GetDebt)
		debts.POST("/:id/proof", h.SubmitProof)
		debts.POST("/:id/approve", middleware.AdminOnly(), h.Approve)
		debts.POST("/:id/reject", middleware.AdminOnly(), h.Reject)
	}
}
