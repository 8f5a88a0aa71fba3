package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	auditapp "github.com/waterworks/backend/internal/application/audit"
	"github.com/waterworks/backend/internal/domain/identity"
	"github.com/waterworks/backend/internal/interfaces/http/dto"
	"github.com/waterworks/backend/internal/interfaces/http/middleware"
)

// AuditLogHandler handles audit trail endpoints
type AuditLogHandler struct {
	BaseHandler
	recorder *auditapp.Recorder
}

// NewAuditLogHandler creates a new AuditLogHandler
func NewAuditLogHandler(recorder *auditapp.Recorder) *AuditLogHandler {
	return &AuditLogHandler{recorder: recorder}
}

// AuditLogResponse represents an audit entry
type AuditLogResponse struct {
	ID          string    `json:"id"`
	ActionType  string    `json:"action_type"`
	Description string    `json:"description"`
	PerformedBy string    `json:"performed_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// List returns audit entries, newest first
func (h *AuditLogHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid list request: "+err.Error())
		return
	}
	filter := req.ToFilter()

	logs, total, err := h.recorder.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]AuditLogResponse, 0, len(logs))
	for i := range logs {
		responses = append(responses, AuditLogResponse{
			ID:          logs[i].ID.String(),
			ActionType:  string(logs[i].ActionType),
			Description: logs[i].Description,
			PerformedBy: logs[i].PerformedBy,
			CreatedAt:   logs[i].CreatedAt,
		})
	}
	h.SuccessWithMeta(c, responses, total, filter.Page, filter.PageSize)
}

// RegisterRoutes registers audit log routes
func (h *AuditLogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	logs := rg.Group("/audit-logs")
	logs.Use(middleware.RequireRole(identity.RoleAdministrator))
	{
		logs.GET("", h.List)
	}
}
