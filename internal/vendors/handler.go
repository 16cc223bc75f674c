package vendors

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/aurelius-events/backend/internal/models"
	"github.com/aurelius-events/backend/pkg/apperrors"
	"github.com/aurelius-events/backend/pkg/response"
)

// Handler handles vendor and service type HTTP endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a vendor handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// CreateVendorRequest is the body for POST /vendors.
type CreateVendorRequest struct {
	Name          string          `json:"name" binding:"required"`
	Description   string          `json:"description"`
	ContactEmail  string          `json:"contact_email" binding:"omitempty,email"`
	ContactPhone  string          `json:"contact_phone"`
	ServiceTypeID uuid.UUID       `json:"service_type_id" binding:"required"`
	BaseRate      decimal.Decimal `json:"base_rate"`
}

// Create handles POST /vendors (admin only).
func (h *Handler) Create(c *gin.Context) {
	var req CreateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.BaseRate.IsNegative() {
		response.BadRequest(c, "base_rate must not be negative")
		return
	}

	st, err := h.repo.GetServiceType(c.Request.Context(), req.ServiceTypeID)
	if err != nil {
		h.logger.Error("lookup service type failed", zap.Error(err))
		response.Internal(c, "failed to create vendor")
		return
	}
	if st == nil {
		response.Error(c, apperrors.NotFound("service type", "id", req.ServiceTypeID))
		return
	}

	v := &models.Vendor{
		Name:          req.Name,
		Description:   req.Description,
		ContactEmail:  req.ContactEmail,
		ContactPhone:  req.ContactPhone,
		ServiceTypeID: req.ServiceTypeID,
		BaseRate:      req.BaseRate,
		IsActive:      true,
	}
	if err := h.repo.Create(c.Request.Context(), v); err != nil {
		h.logger.Error("create vendor failed", zap.Error(err))
		response.Internal(c, "failed to create vendor")
		return
	}
	response.Created(c, v)
}

// Get handles GET /vendors/:id.
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid vendor id")
		return
	}
	v, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to load vendor")
		return
	}
	if v == nil {
		response.Error(c, apperrors.NotFound("vendor", "id", id))
		return
	}
	response.OK(c, v)
}

// List handles GET /vendors. Supports ?service_type_id= and ?active=true.
func (h *Handler) List(c *gin.Context) {
	var serviceTypeID *uuid.UUID
	if raw := c.Query("service_type_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "invalid service_type_id")
			return
		}
		serviceTypeID = &id
	}
	vendors, err := h.repo.List(c.Request.Context(), serviceTypeID, c.Query("active") == "true")
	if err != nil {
		response.Internal(c, "failed to list vendors")
		return
	}
	response.OK(c, vendors)
}

// UpdateVendorRequest is the body for PUT /vendors/:id. Pointer fields are
// optional; absent fields keep their current value.
type UpdateVendorRequest struct {
	Name         *string          `json:"name"`
	Description  *string          `json:"description"`
	ContactEmail *string          `json:"contact_email"`
	ContactPhone *string          `json:"contact_phone"`
	BaseRate     *decimal.Decimal `json:"base_rate"`
	IsActive     *bool            `json:"is_active"`
}

// Update handles PUT /vendors/:id (admin only).
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid vendor id")
		return
	}
	var req UpdateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	v, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to load vendor")
		return
	}
	if v == nil {
		response.Error(c, apperrors.NotFound("vendor", "id", id))
		return
	}

	if req.Name != nil {
		v.Name = *req.Name
	}
	if req.Description != nil {
		v.Description = *req.Description
	}
	if req.ContactEmail != nil {
		v.ContactEmail = *req.ContactEmail
	}
	if req.ContactPhone != nil {
		v.ContactPhone = *req.ContactPhone
	}
	if req.BaseRate != nil {
		if req.BaseRate.IsNegative() {
			response.BadRequest(c, "base_rate must not be negative")
			return
		}
		v.BaseRate = *req.BaseRate
	}
	if req.IsActive != nil {
		v.IsActive = *req.IsActive
	}

	if err := h.repo.Update(c.Request.Context(), v); err != nil {
		h.logger.Error("update vendor failed", zap.Error(err))
		response.Internal(c, "failed to update vendor")
		return
	}
	response.OK(c, v)
}

// CreateServiceTypeRequest is the body for POST /service-types.
type CreateServiceTypeRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CreateServiceType handles POST /service-types (admin only).
func (h *Handler) CreateServiceType(c *gin.Context) {
	var req CreateServiceTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	st := &models.ServiceType{Name: req.Name, Description: req.Description}
	if err := h.repo.CreateServiceType(c.Request.Context(), st); err != nil {
		h.logger.Error("create service type failed", zap.Error(err))
		response.Internal(c, "failed to create service type")
		return
	}
	response.Created(c, st)
}

// ListServiceTypes handles GET /service-types.
func (h *Handler) ListServiceTypes(c *gin.Context) {
	types, err := h.repo.ListServiceTypes(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list service types")
		return
	}
	response.OK(c, types)
}
