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

// ReadingHandler handles meter reading endpoints
type ReadingHandler struct {
	BaseHandler
	readingService *meteringapp.ReadingService
}

// NewReadingHandler creates a new ReadingHandler
func NewReadingHandler(readingService *meteringapp.ReadingService) *ReadingHandler {
	return &ReadingHandler{readingService: readingService}
}

// RecordReadingRequest represents a request to record a register reading
type RecordReadingRequest struct {
	MeterID     string    `json:"meter_id" binding:"required,uuid"`
	Value       float64   `json:"value" binding:"required,gt=0"`
	Month       int       `json:"month" binding:"required,min=1,max=12"`
	Year        int       `json:"year" binding:"required,min=2000,max=2100"`
	ReadingDate time.Time `json:"reading_date" binding:"required"`
}

// ReadingResponse represents a reading in API responses
type ReadingResponse struct {
	ID          string    `json:"id"`
	MeterID     string    `json:"meter_id"`
	Value       float64   `json:"value"`
	Month       int       `json:"month"`
	Year        int       `json:"year"`
	ReadingDate time.Time `json:"reading_date"`
	IsBilled    bool      `json:"is_billed"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// RecordReadingResponse reports the recorded reading and its billing
type RecordReadingResponse struct {
	Reading     ReadingResponse `json:"reading"`
	Billing     BillingResponse `json:"billing"`
	Consumption float64         `json:"consumption"`
}

func toReadingResponse(reading *metering.Reading) ReadingResponse {
	return ReadingResponse{
		ID:          reading.ID.String(),
		MeterID:     reading.MeterID.String(),
		Value:       reading.Value.InexactFloat64(),
		Month:       reading.Month,
		Year:        reading.Year,
		ReadingDate: reading.ReadingDate,
		IsBilled:    reading.IsBilled,
		Active:      reading.Active,
		CreatedAt:   reading.CreatedAt,
	}
}

// Record validates and saves a reading and generates its billing
func (h *ReadingHandler) Record(c *gin.Context) {
	var req RecordReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid reading request: "+err.Error())
		return
	}
	meterID, err := uuid.Parse(req.MeterID)
	if err != nil {
		h.BadRequest(c, "Invalid meter ID")
		return
	}

	result, err := h.readingService.Record(c.Request.Context(), meteringapp.RecordReadingRequest{
		MeterID:     meterID,
		Value:       toDecimal(req.Value),
		Month:       req.Month,
		Year:        req.Year,
		ReadingDate: req.ReadingDate,
	}, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, RecordReadingResponse{
		Reading:     toReadingResponse(result.Reading),
		Billing:     toBillingResponse(result.Billing),
		Consumption: result.Consumption.InexactFloat64(),
	})
}

// UpdateReadingRequest represents a request to correct a recorded reading
type UpdateReadingRequest struct {
	Value       float64   `json:"value" binding:"required,gt=0"`
	Month       int       `json:"month" binding:"required,min=1,max=12"`
	Year        int       `json:"year" binding:"required,min=2000,max=2100"`
	ReadingDate time.Time `json:"reading_date" binding:"required"`
}

// Update amends a reading and regenerates its billing
func (h *ReadingHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid reading ID")
		return
	}
	var req UpdateReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid reading request: "+err.Error())
		return
	}

	result, err := h.readingService.Update(c.Request.Context(), id, meteringapp.UpdateReadingRequest{
		Value:       toDecimal(req.Value),
		Month:       req.Month,
		Year:        req.Year,
		ReadingDate: req.ReadingDate,
	}, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, RecordReadingResponse{
		Reading:     toReadingResponse(result.Reading),
		Billing:     toBillingResponse(result.Billing),
		Consumption: result.Consumption.InexactFloat64(),
	})
}

// Get returns a reading by ID
func (h *ReadingHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid reading ID")
		return
	}

	reading, err := h.readingService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toReadingResponse(reading))
}

// List returns readings with pagination
func (h *ReadingHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid list request: "+err.Error())
		return
	}
	filter := req.ToFilter()

	readings, total, err := h.readingService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]ReadingResponse, 0, len(readings))
	for i := range readings {
		responses = append(responses, toReadingResponse(&readings[i]))
	}
	h.SuccessWithMeta(c, responses, total, filter.Page, filter.PageSize)
}

// RegisterRoutes registers reading routes
func (h *ReadingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	readings := rg.Group("/readings")
	readings.Use(middleware.RequireRole(identity.RoleAdministrator, identity.RoleReader))
	{
		readings.GET("", h.List)
		readings.GET(":id", h.Get)
		readings.POST("", h.Record)
		readings.PUT(":id", h.Update)
	}
}
