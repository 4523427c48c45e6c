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

// PaymentHandler exposes the direct payment endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService *appbilling.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *appbilling.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// RecordPaymentRequest is the request body for recording a payment
type RecordPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Method    string          `json:"method" binding:"required,oneof=transfer mobile_payment cash"`
	Reference string          `json:"reference" binding:"required,max=100"`
	ProofRef  string          `json:"proof_ref" binding:"omitempty,max=500"`
}

// PaymentResponse is the wire form of a payment
type PaymentResponse struct {
	ID          uuid.UUID  `json:"id"`
	AgentID     uuid.UUID  `json:"agent_id"`
	Amount      string     `json:"amount"`
	Method      string     `json:"method"`
	Reference   string     `json:"reference"`
	Status      string     `json:"status"`
	Allocated   string     `json:"allocated"`
	Unallocated string     `json:"unallocated"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toPaymentResponse(payment *billing.Payment) PaymentResponse {
	return PaymentResponse{
		ID:          payment.ID,
		AgentID:     payment.AgentID,
		Amount:      payment.Amount.StringFixed(2),
		Method:      payment.Method,
		Reference:   payment.Reference,
		Status:      string(payment.Status),
		Allocated:   payment.Allocated.StringFixed(2),
		Unallocated: payment.Unallocated.StringFixed(2),
		CompletedAt: payment.CompletedAt,
		CreatedAt:   payment.CreatedAt,
	}
}

// RecordPayment allocates a payment against the agent's pending debts
func (h *PaymentHandler) RecordPayment(c *gin.Context) {
	agentID, err := getAgentID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.paymentService.RecordPayment(c.Request.Context(), appbilling.RecordPaymentRequest{
		AgentID:   agentID,
		Amount:    req.Amount,
		Method:    req.Method,
		Reference: req.Reference,
		ProofRef:  req.ProofRef,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// GetPayment returns one payment, owner or admin only
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	paymentID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	agentID, err := getAgentID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	payment, err := h.paymentService.GetPayment(c.Request.Context(), paymentID, agentID, middleware.IsAdmin(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toPaymentResponse(payment))
}

// ListOwn returns the authenticated agent's payments, newest first
func (h *PaymentHandler) ListOwn(c *gin.Context) {
	agentID, err := getAgentID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	payments, err := h.paymentService.ListByAgent(c.Request.Context(), agentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]PaymentResponse, len(payments))
	for i, payment := range payments {
		responses[i] = toPaymentResponse(payment)
	}

	h.Success(c, responses)
}

// ListAll returns recent payments across all agents
func (h *PaymentHandler) ListAll(c *gin.Context) {
	var req ListRecentRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	payments, err := h.paymentService.ListAll(c.Request.Context(), req.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]PaymentResponse, len(payments))
	for i, payment := range payments {
		responses[i] = toPaymentResponse(payment)
	}

	h.Success(c, responses)
}

// RegisterRoutes registers payment routes
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/payments")
	{
		payments.POST("", h.RecordPayment)
		payments.GET("", h.ListOwn)
		payments.GET("/all", middleware.AdminOnly(), h.ListAll)
		payments.GET("/:id", h.GetPayment)
	}
}
