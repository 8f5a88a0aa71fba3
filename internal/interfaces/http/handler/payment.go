package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	billingapp "github.com/waterworks/backend/internal/application/billing"
	"github.com/waterworks/backend/internal/domain/billing"
	"github.com/waterworks/backend/internal/domain/identity"
	"github.com/waterworks/backend/internal/interfaces/http/dto"
	"github.com/waterworks/backend/internal/interfaces/http/middleware"
)

// PaymentHandler handles payment endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService *billingapp.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *billingapp.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// SubmitPaymentRequest represents a request to take a payment
type SubmitPaymentRequest struct {
	BillingID   string    `json:"billing_id" binding:"required,uuid"`
	Amount      float64   `json:"amount" binding:"required,gt=0"`
	Mode        string    `json:"mode" binding:"required,oneof=CASH CHECK ONLINE"`
	PaymentDate time.Time `json:"payment_date"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID            string    `json:"id"`
	PaymentNumber string    `json:"payment_number"`
	BillingID     string    `json:"billing_id"`
	Amount        float64   `json:"amount"`
	Mode          string    `json:"mode"`
	Status        string    `json:"status"`
	PaymentDate   time.Time `json:"payment_date"`
	ReceivedBy    string    `json:"received_by"`
	CreatedAt     time.Time `json:"created_at"`
}

// PaymentResultResponse reports a payment and the billing state it left behind
type PaymentResultResponse struct {
	Payment       PaymentResponse `json:"payment"`
	BillingStatus string          `json:"billing_status"`
	TotalPosted   float64         `json:"total_posted"`
	AmountDue     float64         `json:"amount_due"`
}

func toPaymentResponse(p *billing.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID.String(),
		PaymentNumber: p.PaymentNumber,
		BillingID:     p.BillingID.String(),
		Amount:        p.Amount.InexactFloat64(),
		Mode:          string(p.Mode),
		Status:        string(p.Status),
		PaymentDate:   p.PaymentDate,
		ReceivedBy:    p.ReceivedBy,
		CreatedAt:     p.CreatedAt,
	}
}

func toPaymentResultResponse(result *billingapp.PaymentResult) PaymentResultResponse {
	return PaymentResultResponse{
		Payment:       toPaymentResponse(result.Payment),
		BillingStatus: string(result.BillingStatus),
		TotalPosted:   result.TotalPosted.InexactFloat64(),
		AmountDue:     result.AmountDue.InexactFloat64(),
	}
}

// Submit takes a payment against a collectible billing
func (h *PaymentHandler) Submit(c *gin.Context) {
	var req SubmitPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid payment request: "+err.Error())
		return
	}
	billingID, err := uuid.Parse(req.BillingID)
	if err != nil {
		h.BadRequest(c, "Invalid billing ID")
		return
	}

	result, err := h.paymentService.Submit(c.Request.Context(), billingapp.SubmitPaymentRequest{
		BillingID:   billingID,
		Amount:      toDecimal(req.Amount),
		Mode:        billing.PaymentMode(req.Mode),
		PaymentDate: req.PaymentDate,
	}, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toPaymentResultResponse(result))
}

// Confirm posts a check payment
func (h *PaymentHandler) Confirm(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	result, err := h.paymentService.Confirm(c.Request.Context(), id, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toPaymentResultResponse(result))
}

// Cancel voids an unposted check payment
func (h *PaymentHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	p, err := h.paymentService.Cancel(c.Request.Context(), id, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toPaymentResponse(p))
}

// Get returns a payment by ID
func (h *PaymentHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID")
		return
	}

	p, err := h.paymentService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toPaymentResponse(p))
}

// List returns payments with pagination
func (h *PaymentHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid list request: "+err.Error())
		return
	}
	filter := req.ToFilter()

	payments, total, err := h.paymentService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]PaymentResponse, 0, len(payments))
	for i := range payments {
		responses = append(responses, toPaymentResponse(&payments[i]))
	}
	h.SuccessWithMeta(c, responses, total, filter.Page, filter.PageSize)
}

// RegisterRoutes registers payment routes
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/payments")
	payments.Use(middleware.RequireRole(identity.RoleAdministrator, identity.RoleTeller))
	{
		payments.GET("", h.List)
		payments.GET(":id", h.Get)
		payments.POST("", h.Submit)
		payments.POST(":id/confirm", h.Confirm)
		payments.POST(":id/cancel", h.Cancel)
	}
}
