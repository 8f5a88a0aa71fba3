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

// BillingHandler handles billing lifecycle endpoints
type BillingHandler struct {
	BaseHandler
	billingService *billingapp.BillingService
}

// NewBillingHandler creates a new BillingHandler
func NewBillingHandler(billingService *billingapp.BillingService) *BillingHandler {
	return &BillingHandler{billingService: billingService}
}

// BillingResponse represents a billing in API responses. Amounts are
// recomputed from the snapshotted rates on every render.
type BillingResponse struct {
	ID                 string    `json:"id"`
	BillingNumber      string    `json:"billing_number"`
	ReadingID          string    `json:"reading_id"`
	MeterID            string    `json:"meter_id"`
	Consumption        float64   `json:"consumption"`
	RatePerCubicMeter  float64   `json:"rate_per_cubic_meter"`
	MinimumConsumption int       `json:"minimum_consumption"`
	MinimumCharge      float64   `json:"minimum_charge"`
	VATRate            float64   `json:"vat_rate"`
	PenaltyRate        float64   `json:"penalty_rate"`
	Arrears            float64   `json:"arrears"`
	BaseAmount         float64   `json:"base_amount"`
	VATAmount          float64   `json:"vat_amount"`
	DueAmount          float64   `json:"due_amount"`
	PenaltyAmount      float64   `json:"penalty_amount"`
	OverdueAmount      float64   `json:"overdue_amount"`
	AmountDue          float64   `json:"amount_due"`
	Status             string    `json:"status"`
	BillingDate        time.Time `json:"billing_date"`
	DueDate            time.Time `json:"due_date"`
	DisconnectionDate  time.Time `json:"disconnection_date"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func toBillingResponse(b *billing.Billing) BillingResponse {
	return BillingResponse{
		ID:                 b.ID.String(),
		BillingNumber:      b.BillingNumber,
		ReadingID:          b.ReadingID.String(),
		MeterID:            b.MeterID.String(),
		Consumption:        b.Consumption.InexactFloat64(),
		RatePerCubicMeter:  b.RatePerCubicMeter.InexactFloat64(),
		MinimumConsumption: b.MinimumConsumption,
		MinimumCharge:      b.MinimumCharge.InexactFloat64(),
		VATRate:            b.VATRate.InexactFloat64(),
		PenaltyRate:        b.PenaltyRate.InexactFloat64(),
		Arrears:            b.Arrears.InexactFloat64(),
		BaseAmount:         b.BaseAmount().InexactFloat64(),
		VATAmount:          b.VATAmount().InexactFloat64(),
		DueAmount:          b.DueAmount().InexactFloat64(),
		PenaltyAmount:      b.PenaltyAmount().InexactFloat64(),
		OverdueAmount:      b.OverdueAmount().InexactFloat64(),
		AmountDue:          b.AmountDue(time.Now()).InexactFloat64(),
		Status:             string(b.Status),
		BillingDate:        b.BillingDate,
		DueDate:            b.DueDate,
		DisconnectionDate:  b.DisconnectionDate,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

// Get returns a billing by ID
func (h *BillingHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid billing ID")
		return
	}

	b, err := h.billingService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toBillingResponse(b))
}

// List returns billings with pagination
func (h *BillingHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid list request: "+err.Error())
		return
	}
	filter := req.ToFilter()

	billings, total, err := h.billingService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]BillingResponse, 0, len(billings))
	for i := range billings {
		responses = append(responses, toBillingResponse(&billings[i]))
	}
	h.SuccessWithMeta(c, responses, total, filter.Page, filter.PageSize)
}

// Confirm transitions a pending billing to unpaid
func (h *BillingHandler) Confirm(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid billing ID")
		return
	}

	b, err := h.billingService.Confirm(c.Request.Context(), id, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toBillingResponse(b))
}

// Void cancels a pending billing
func (h *BillingHandler) Void(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid billing ID")
		return
	}

	b, err := h.billingService.Void(c.Request.Context(), id, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toBillingResponse(b))
}

// RegisterRoutes registers billing routes
func (h *BillingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	billings := rg.Group("/billings")
	billings.Use(middleware.RequireRole(identity.RoleAdministrator, identity.RoleTeller))
	{
		billings.GET("", h.List)
		billings.GET(":id", h.Get)
		billings.POST(":id/confirm", h.Confirm)
		billings.POST(":id/void", h.Void)
	}
}
