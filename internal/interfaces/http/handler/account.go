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

// AccountHandler handles accountholder endpoints
type AccountHandler struct {
	BaseHandler
	accountService *meteringapp.AccountService
	meterService   *meteringapp.MeterService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accountService *meteringapp.AccountService, meterService *meteringapp.MeterService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		meterService:   meterService,
	}
}

// AccountRequest represents a request to create or update an accountholder
type AccountRequest struct {
	FirstName    string `json:"first_name" binding:"required,min=1,max=100"`
	MiddleName   string `json:"middle_name" binding:"max=100"`
	LastName     string `json:"last_name" binding:"required,min=1,max=100"`
	Address      string `json:"address" binding:"max=500"`
	MobileNumber string `json:"mobile_number" binding:"omitempty,phmobile"`
}

// AccountResponse represents an accountholder in API responses
type AccountResponse struct {
	ID            string    `json:"id"`
	AccountNumber string    `json:"account_number"`
	FirstName     string    `json:"first_name"`
	MiddleName    string    `json:"middle_name,omitempty"`
	LastName      string    `json:"last_name"`
	FullName      string    `json:"full_name"`
	Address       string    `json:"address,omitempty"`
	MobileNumber  string    `json:"mobile_number,omitempty"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toAccountResponse(account *metering.Account) AccountResponse {
	return AccountResponse{
		ID:            account.ID.String(),
		AccountNumber: account.AccountNumber,
		FirstName:     account.FirstName,
		MiddleName:    account.MiddleName,
		LastName:      account.LastName,
		FullName:      account.FullName(),
		Address:       account.Address,
		MobileNumber:  account.MobileNumber,
		Active:        account.Active,
		CreatedAt:     account.CreatedAt,
		UpdatedAt:     account.UpdatedAt,
	}
}

// Create registers a new accountholder
func (h *AccountHandler) Create(c *gin.Context) {
	var req AccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid account request: "+err.Error())
		return
	}

	account, err := h.accountService.Create(c.Request.Context(), meteringapp.AccountRequest{
		FirstName:    req.FirstName,
		MiddleName:   req.MiddleName,
		LastName:     req.LastName,
		Address:      req.Address,
		MobileNumber: req.MobileNumber,
	}, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toAccountResponse(account))
}

// Update edits an accountholder's details
func (h *AccountHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	var req AccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid account request: "+err.Error())
		return
	}

	account, err := h.accountService.Update(c.Request.Context(), id, meteringapp.AccountRequest{
		FirstName:    req.FirstName,
		MiddleName:   req.MiddleName,
		LastName:     req.LastName,
		Address:      req.Address,
		MobileNumber: req.MobileNumber,
	}, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toAccountResponse(account))
}

// Delete soft-deletes an account together with its meters
func (h *AccountHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	if err := h.accountService.Delete(c.Request.Context(), id, getActor(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Get returns an account by ID
func (h *AccountHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	account, err := h.accountService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toAccountResponse(account))
}

// List returns accounts with pagination and search
func (h *AccountHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid list request: "+err.Error())
		return
	}
	filter := req.ToFilter()

	accounts, total, err := h.accountService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]AccountResponse, 0, len(accounts))
	for i := range accounts {
		responses = append(responses, toAccountResponse(&accounts[i]))
	}
	h.SuccessWithMeta(c, responses, total, filter.Page, filter.PageSize)
}

// ListMeters returns the meters installed for an account
func (h *AccountHandler) ListMeters(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	meters, err := h.meterService.ListByAccount(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]MeterResponse, 0, len(meters))
	for i := range meters {
		if meters[i].Deleted {
			continue
		}
		responses = append(responses, toMeterResponse(&meters[i]))
	}
	h.Success(c, responses)
}

// RegisterRoutes registers account routes
func (h *AccountHandler) RegisterRoutes(rg *gin.RouterGroup) {
	accounts := rg.Group("/accounts")
	accounts.Use(middleware.RequireRole(identity.RoleAdministrator))
	{
		accounts.GET("", h.List)
		accounts.GET(":id", h.Get)
		accounts.GET(":id/meters", h.ListMeters)
		accounts.POST("", h.Create)
		accounts.PUT(":id", h.Update)
		accounts.DELETE(":id", h.Delete)
	}
}
