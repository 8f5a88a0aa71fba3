package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	tariffapp "github.com/waterworks/backend/internal/application/tariff"
	"github.com/waterworks/backend/internal/domain/identity"
	"github.com/waterworks/backend/internal/domain/tariff"
	"github.com/waterworks/backend/internal/interfaces/http/middleware"
)

// ConfigurationHandler handles rate configuration endpoints
type ConfigurationHandler struct {
	BaseHandler
	tariffService *tariffapp.Service
}

// NewConfigurationHandler creates a new ConfigurationHandler
func NewConfigurationHandler(tariffService *tariffapp.Service) *ConfigurationHandler {
	return &ConfigurationHandler{tariffService: tariffService}
}

// UpdateConfigurationRequest represents a request to replace the active rates
type UpdateConfigurationRequest struct {
	RatePerCubicMeter  float64 `json:"rate_per_cubic_meter" binding:"required,gt=0"`
	MinimumConsumption int     `json:"minimum_consumption" binding:"min=0"`
	MinimumCharge      float64 `json:"minimum_charge" binding:"min=0"`
	VATRate            float64 `json:"vat_rate" binding:"min=0,lt=1"`
	PenaltyRate        float64 `json:"penalty_rate" binding:"min=0,lt=1"`
}

// ConfigurationResponse represents a rate configuration version
type ConfigurationResponse struct {
	ID                 string    `json:"id"`
	RatePerCubicMeter  float64   `json:"rate_per_cubic_meter"`
	MinimumConsumption int       `json:"minimum_consumption"`
	MinimumCharge      float64   `json:"minimum_charge"`
	VATRate            float64   `json:"vat_rate"`
	PenaltyRate        float64   `json:"penalty_rate"`
	Active             bool      `json:"active"`
	CreatedAt          time.Time `json:"created_at"`
}

func toConfigurationResponse(config *tariff.Configuration) ConfigurationResponse {
	return ConfigurationResponse{
		ID:                 config.ID.String(),
		RatePerCubicMeter:  config.RatePerCubicMeter.InexactFloat64(),
		MinimumConsumption: config.MinimumConsumption,
		MinimumCharge:      config.MinimumCharge.InexactFloat64(),
		VATRate:            config.VATRate.InexactFloat64(),
		PenaltyRate:        config.PenaltyRate.InexactFloat64(),
		Active:             config.Active,
		CreatedAt:          config.CreatedAt,
	}
}

// GetActive returns the active rate configuration
func (h *ConfigurationHandler) GetActive(c *gin.Context) {
	config, err := h.tariffService.GetActive(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toConfigurationResponse(config))
}

// Update replaces the active configuration with a new version
func (h *ConfigurationHandler) Update(c *gin.Context) {
	var req UpdateConfigurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid configuration request: "+err.Error())
		return
	}

	config, err := h.tariffService.Update(c.Request.Context(), tariffapp.UpdateRequest{
		RatePerCubicMeter:  toDecimal(req.RatePerCubicMeter),
		MinimumConsumption: req.MinimumConsumption,
		MinimumCharge:      toDecimal(req.MinimumCharge),
		VATRate:            toDecimal(req.VATRate),
		PenaltyRate:        toDecimal(req.PenaltyRate),
	}, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toConfigurationResponse(config))
}

// History returns every configuration version, newest first
func (h *ConfigurationHandler) History(c *gin.Context) {
	configs, err := h.tariffService.History(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]ConfigurationResponse, 0, len(configs))
	for i := range configs {
		responses = append(responses, toConfigurationResponse(&configs[i]))
	}
	h.Success(c, responses)
}

// RegisterRoutes registers configuration routes
func (h *ConfigurationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	configs := rg.Group("/configurations")
	configs.Use(middleware.RequireRole(identity.RoleAdministrator))
	{
		configs.GET("/active", h.GetActive)
		configs.GET("", h.History)
		configs.PUT("", h.Update)
	}
}
