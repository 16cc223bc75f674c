package tickets

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/aurelius-events/backend/internal/events"
	"github.com/aurelius-events/backend/internal/middleware"
	"github.com/aurelius-events/backend/internal/models"
	"github.com/aurelius-events/backend/pkg/apperrors"
	"github.com/aurelius-events/backend/pkg/response"
)

// Handler handles ticket HTTP endpoints.
type Handler struct {
	repo   *Repository
	events *events.Repository
	logger *zap.Logger
}

// NewHandler creates a ticket handler.
func NewHandler(repo *Repository, eventRepo *events.Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, events: eventRepo, logger: logger}
}

// CreateTicketRequest is the body for POST /events/:id/tickets.
type CreateTicketRequest struct {
	Name          string          `json:"name" binding:"required"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	Quantity      int             `json:"quantity" binding:"required,min=1"`
	SaleStartDate *time.Time      `json:"sale_start_date"`
	SaleEndDate   *time.Time      `json:"sale_end_date"`
}

// Create handles POST /events/:id/tickets (owning organizer or admin).
func (h *Handler) Create(c *gin.Context) {
	event, ok := h.loadOwnedEvent(c)
	if !ok {
		return
	}
	var req CreateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.Price.IsNegative() {
		response.BadRequest(c, "price must not be negative")
		return
	}
	if req.SaleStartDate != nil && req.SaleEndDate != nil && !req.SaleEndDate.After(*req.SaleStartDate) {
		response.BadRequest(c, "sale_end_date must be after sale_start_date")
		return
	}

	t := &models.Ticket{
		EventID:       event.ID,
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		Quantity:      req.Quantity,
		SaleStartDate: req.SaleStartDate,
		SaleEndDate:   req.SaleEndDate,
		Status:        models.TicketStatusAvailable,
	}
	if err := h.repo.Create(c.Request.Context(), t); err != nil {
		h.logger.Error("create ticket failed", zap.Error(err))
		response.Internal(c, "failed to create ticket")
		return
	}
	response.Created(c, t)
}

// ListByEvent handles GET /events/:id/tickets.
func (h *Handler) ListByEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	list, err := h.repo.ListByEvent(c.Request.Context(), eventID)
	if err != nil {
		response.Internal(c, "failed to list tickets")
		return
	}
	response.OK(c, list)
}

// Get handles GET /tickets/:id.
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid ticket id")
		return
	}
	t, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to load ticket")
		return
	}
	if t == nil {
		response.Error(c, apperrors.NotFound("ticket", "id", id))
		return
	}
	response.OK(c, t)
}

// UpdateTicketRequest is the body for PUT /tickets/:id. Pointer fields are
// optional; absent fields keep their current value.
type UpdateTicketRequest struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	Quantity      *int             `json:"quantity"`
	SaleStartDate *time.Time       `json:"sale_start_date"`
	SaleEndDate   *time.Time       `json:"sale_end_date"`
	Status        *string          `json:"status"`
}

// Update handles PUT /tickets/:id (owning organizer or admin).
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid ticket id")
		return
	}
	t, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to load ticket")
		return
	}
	if t == nil {
		response.Error(c, apperrors.NotFound("ticket", "id", id))
		return
	}
	if !h.ownsEvent(c, t.EventID) {
		return
	}

	var req UpdateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.Name != nil {
		t.Name = *req.Name
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			response.BadRequest(c, "price must not be negative")
			return
		}
		t.Price = *req.Price
	}
	if req.Quantity != nil {
		if *req.Quantity < t.Sold {
			response.Error(c, apperrors.Business("quantity cannot drop below %d already sold", t.Sold))
			return
		}
		t.Quantity = *req.Quantity
	}
	if req.SaleStartDate != nil {
		t.SaleStartDate = req.SaleStartDate
	}
	if req.SaleEndDate != nil {
		t.SaleEndDate = req.SaleEndDate
	}
	if req.Status != nil {
		switch *req.Status {
		case models.TicketStatusAvailable, models.TicketStatusSoldOut, models.TicketStatusClosed:
			t.Status = *req.Status
		default:
			response.BadRequest(c, "invalid ticket status")
			return
		}
	}

	if err := h.repo.Update(c.Request.Context(), t); err != nil {
		h.logger.Error("update ticket failed", zap.Error(err))
		response.Internal(c, "failed to update ticket")
		return
	}
	response.OK(c, t)
}

// Delete handles DELETE /tickets/:id (owning organizer or admin). Tickets
// with sales cannot be deleted.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid ticket id")
		return
	}
	t, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to load ticket")
		return
	}
	if t == nil {
		response.Error(c, apperrors.NotFound("ticket", "id", id))
		return
	}
	if !h.ownsEvent(c, t.EventID) {
		return
	}
	deleted, err := h.repo.Delete(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("delete ticket failed", zap.Error(err))
		response.Internal(c, "failed to delete ticket")
		return
	}
	if !deleted {
		response.Error(c, apperrors.Business("tickets with sales cannot be deleted"))
		return
	}
	response.NoContent(c)
}

func (h *Handler) loadOwnedEvent(c *gin.Context) (*models.Event, bool) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return nil, false
	}
	event, err := h.events.GetByID(c.Request.Context(), eventID)
	if err != nil {
		response.Internal(c, "failed to load event")
		return nil, false
	}
	if event == nil {
		response.Error(c, apperrors.NotFound("event", "id", eventID))
		return nil, false
	}
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return nil, false
	}
	if event.OrganizerID != userID && middleware.CurrentRole(c) != models.RoleAdmin {
		response.Forbidden(c, "not your event")
		return nil, false
	}
	return event, true
}

func (h *Handler) ownsEvent(c *gin.Context, eventID uuid.UUID) bool {
	event, err := h.events.GetByID(c.Request.Context(), eventID)
	if err != nil || event == nil {
		response.Internal(c, "failed to load event")
		return false
	}
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return false
	}
	if event.OrganizerID != userID && middleware.CurrentRole(c) != models.RoleAdmin {
		response.Forbidden(c, "not your event")
		return false
	}
	return true
}
