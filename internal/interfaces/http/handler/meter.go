package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	meteringapp "github.com/waterworks/backend/internal/application/metering"
	"github.com/waterworks/backend/internal/domain/identity"
	"github.com/waterworks/backend/internal/domain/metering"
	"github.com/waterworks/backend/internal/interfaces/http/dto"
	"github.com/waterworks/backend/internal/interfaces/http/middleware"
)

// MeterHandler handles meter endpoints
type MeterHandler struct {
	BaseHandler
	meterService *meteringapp.MeterService
}

// NewMeterHandler creates a new MeterHandler
func NewMeterHandler(meterService *meteringapp.MeterService) *MeterHandler {
	return &MeterHandler{meterService: meterService}
}

// CreateMeterRequest represents a request to install a meter
type CreateMeterRequest struct {
	MeterNumber      string    `json:"meter_number" binding:"required,min=1,max=50"`
	AccountID        string    `json:"account_id" binding:"required,uuid"`
	FirstValue       float64   `json:"first_value" binding:"min=0"`
	InstallationDate time.Time `json:"installation_date" binding:"required"`
}

// MeterResponse represents a meter in API responses
type MeterResponse struct {
	ID               string    `json:"id"`
	MeterNumber      string    `json:"meter_number"`
	AccountID        string    `json:"account_id"`
	FirstValue       float64   `json:"first_value"`
	InstallationDate time.Time `json:"installation_date"`
	Active           bool      `json:"active"`
	CreatedAt        time.Time `json:"created_at"`
}

func toMeterResponse(meter *metering.Meter) MeterResponse {
	return MeterResponse{
		ID:               meter.ID.String(),
		MeterNumber:      meter.MeterNumber,
		AccountID:        meter.AccountID.String(),
		FirstValue:       meter.FirstValue.InexactFloat64(),
		InstallationDate: meter.InstallationDate,
		Active:           meter.Active,
		CreatedAt:        meter.CreatedAt,
	}
}

// Create installs a meter for an account
func (h *MeterHandler) Create(c *gin.Context) {
	var req CreateMeterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid meter request: "+err.Error())
		return
	}
	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	meter, err := h.meterService.Create(c.Request.Context(), meteringapp.CreateMeterRequest{
		MeterNumber:      req.MeterNumber,
		AccountID:        accountID,
		FirstValue:       toDecimal(req.FirstValue),
		InstallationDate: req.InstallationDate,
	}, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toMeterResponse(meter))
}

// Delete soft-deletes a meter
func (h *MeterHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid meter ID")
		return
	}

	if err := h.meterService.Delete(c.Request.Context(), id, getActor(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Get returns a meter by ID
func (h *MeterHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid meter ID")
		return
	}

	meter, err := h.meterService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toMeterResponse(meter))
}

// List returns meters with pagination and search
func (h *MeterHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid list request: "+err.Error())
		return
	}
	filter := req.ToFilter()

	meters, total, err := h.meterService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]MeterResponse, 0, len(meters))
	for i := range meters {
		responses = append(responses, toMeterResponse(&meters[i]))
	}
	h.SuccessWithMeta(c, responses, total, filter.Page, filter.PageSize)
}

// RegisterRoutes registers meter routes
func (h *MeterHandler) RegisterRoutes(rg *gin.RouterGroup) {
	meters := rg.Group("/meters")
	meters.Use(middleware.RequireRole(identity.RoleAdministrator, identity.RoleReader))
	{
		meters.GET("", h.List)
		meters.GET(":id", h.Get)
	}

	adminMeters := rg.Group("/meters")
	adminMeters.Use(middleware.RequireRole(identity.RoleAdministrator))
	{
		adminMeters.POST("", h.Create)
		adminMeters.DELETE(":id", h.Delete)
	}
}
