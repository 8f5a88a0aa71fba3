package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	notificationapp "github.com/waterworks/backend/internal/application/notification"
	"github.com/waterworks/backend/internal/domain/identity"
	"github.com/waterworks/backend/internal/domain/notification"
	"github.com/waterworks/backend/internal/interfaces/http/dto"
	"github.com/waterworks/backend/internal/interfaces/http/middleware"
)

// AlertSettingsHandler handles SMS alert settings and delivery logs
type AlertSettingsHandler struct {
	BaseHandler
	settingsService *notificationapp.SettingsService
}

// NewAlertSettingsHandler creates a new AlertSettingsHandler
func NewAlertSettingsHandler(settingsService *notificationapp.SettingsService) *AlertSettingsHandler {
	return &AlertSettingsHandler{settingsService: settingsService}
}

// UpdateAlertSettingsRequest represents a request to replace the alert settings
type UpdateAlertSettingsRequest struct {
	AllowSMSAlerts     bool   `json:"allow_sms_alerts"`
	AllowReadingAlerts bool   `json:"allow_reading_alerts"`
	AllowBillingAlerts bool   `json:"allow_billing_alerts"`
	AllowPaymentAlerts bool   `json:"allow_payment_alerts"`
	MessageHeader      string `json:"message_header" binding:"max=100"`
	APIKey             string `json:"api_key" binding:"max=200"`
	Token              string `json:"token" binding:"max=200"`
	Sender             string `json:"sender" binding:"max=50"`
}

// AlertSettingsResponse represents alert settings in API responses. The
// gateway token is never echoed back.
type AlertSettingsResponse struct {
	ID                 string    `json:"id"`
	AllowSMSAlerts     bool      `json:"allow_sms_alerts"`
	AllowReadingAlerts bool      `json:"allow_reading_alerts"`
	AllowBillingAlerts bool      `json:"allow_billing_alerts"`
	AllowPaymentAlerts bool      `json:"allow_payment_alerts"`
	MessageHeader      string    `json:"message_header"`
	APIKey             string    `json:"api_key"`
	Sender             string    `json:"sender"`
	Active             bool      `json:"active"`
	CreatedAt          time.Time `json:"created_at"`
}

// SMSLogResponse represents a delivery log entry
type SMSLogResponse struct {
	ID        string    `json:"id"`
	Recipient string    `json:"recipient"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toAlertSettingsResponse(settings *notification.AlertSettings) AlertSettingsResponse {
	return AlertSettingsResponse{
		ID:                 settings.ID.String(),
		AllowSMSAlerts:     settings.AllowSMSAlerts,
		AllowReadingAlerts: settings.AllowReadingAlerts,
		AllowBillingAlerts: settings.AllowBillingAlerts,
		AllowPaymentAlerts: settings.AllowPaymentAlerts,
		MessageHeader:      settings.MessageHeader,
		APIKey:             settings.APIKey,
		Sender:             settings.Sender,
		Active:             settings.Active,
		CreatedAt:          settings.CreatedAt,
	}
}

// GetActive returns the active alert settings
func (h *AlertSettingsHandler) GetActive(c *gin.Context) {
	settings, err := h.settingsService.GetActive(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if settings == nil {
		h.NotFound(c, "Alert settings have not been configured")
		return
	}
	h.Success(c, toAlertSettingsResponse(settings))
}

// Update replaces the active alert settings with a new version
func (h *AlertSettingsHandler) Update(c *gin.Context) {
	var req UpdateAlertSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid alert settings request: "+err.Error())
		return
	}

	settings, err := h.settingsService.Update(c.Request.Context(), notificationapp.UpdateSettingsRequest{
		AllowSMSAlerts:     req.AllowSMSAlerts,
		AllowReadingAlerts: req.AllowReadingAlerts,
		AllowBillingAlerts: req.AllowBillingAlerts,
		AllowPaymentAlerts: req.AllowPaymentAlerts,
		MessageHeader:      req.MessageHeader,
		APIKey:             req.APIKey,
		Token:              req.Token,
		Sender:             req.Sender,
	}, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toAlertSettingsResponse(settings))
}

// ListLogs returns SMS delivery logs, newest first
func (h *AlertSettingsHandler) ListLogs(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid list request: "+err.Error())
		return
	}
	filter := req.ToFilter()

	logs, total, err := h.settingsService.ListLogs(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]SMSLogResponse, 0, len(logs))
	for i := range logs {
		responses = append(responses, SMSLogResponse{
			ID:        logs[i].ID.String(),
			Recipient: logs[i].Recipient,
			Message:   logs[i].Message,
			Status:    string(logs[i].Status),
			Error:     logs[i].Error,
			CreatedAt: logs[i].CreatedAt,
		})
	}
	h.SuccessWithMeta(c, responses, total, filter.Page, filter.PageSize)
}

// RegisterRoutes registers alert settings routes
func (h *AlertSettingsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	settings := rg.Group("/alert-settings")
	settings.Use(middleware.RequireRole(identity.RoleAdministrator))
	{
		settings.GET("", h.GetActive)
		settings.PUT("", h.Update)
	}

	logs := rg.Group("/sms-logs")
	logs.Use(middleware.RequireRole(identity.RoleAdministrator))
	{
		logs.GET("", h.ListLogs)
	}
}
