package events

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/aurelius-events/backend/internal/analytics"
	"github.com/aurelius-events/backend/internal/middleware"
	"github.com/aurelius-events/backend/internal/models"
	"github.com/aurelius-events/backend/internal/vendors"
	"github.com/aurelius-events/backend/pkg/apperrors"
	"github.com/aurelius-events/backend/pkg/response"
)

// Handler handles event HTTP endpoints.
type Handler struct {
	repo      *Repository
	vendors   *vendors.Repository
	analytics *analytics.Repository
	logger    *zap.Logger
}

// NewHandler creates an event handler.
func NewHandler(repo *Repository, vendorRepo *vendors.Repository, analyticsRepo *analytics.Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, vendors: vendorRepo, analytics: analyticsRepo, logger: logger}
}

// CreateEventRequest is the body for POST /events.
type CreateEventRequest struct {
	Title         string     `json:"title" binding:"required"`
	Description   string     `json:"description"`
	VenueID       *uuid.UUID `json:"venue_id"`
	CategoryID    *uuid.UUID `json:"category_id"`
	StartDateTime time.Time  `json:"start_date_time" binding:"required"`
	EndDateTime   time.Time  `json:"end_date_time" binding:"required"`
	Capacity      int        `json:"capacity" binding:"required,min=1"`
	Visibility    string     `json:"visibility"`
	ImageURL      string     `json:"image_url"`
}

// Create handles POST /events (organizer).
func (h *Handler) Create(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if !req.EndDateTime.After(req.StartDateTime) {
		response.BadRequest(c, "end_date_time must be after start_date_time")
		return
	}
	visibility := req.Visibility
	switch visibility {
	case "":
		visibility = models.EventVisibilityPublic
	case models.EventVisibilityPublic, models.EventVisibilityPrivate:
	default:
		response.BadRequest(c, "visibility must be public or private")
		return
	}
	organizerID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	e := &models.Event{
		Title:         req.Title,
		Description:   req.Description,
		OrganizerID:   organizerID,
		VenueID:       req.VenueID,
		CategoryID:    req.CategoryID,
		StartDateTime: req.StartDateTime,
		EndDateTime:   req.EndDateTime,
		Capacity:      req.Capacity,
		Status:        models.EventStatusDraft,
		Visibility:    visibility,
		ImageURL:      req.ImageURL,
	}
	if err := h.repo.Create(c.Request.Context(), e); err != nil {
		h.logger.Error("create event failed", zap.Error(err))
		response.Internal(c, "failed to create event")
		return
	}
	response.Created(c, e)
}

// Get handles GET /events/:id.
func (h *Handler) Get(c *gin.Context) {
	e, ok := h.load(c)
	if !ok {
		return
	}
	response.OK(c, e)
}

// List handles GET /events with optional ?q=, ?category_id=, ?status=, ?city= filters.
func (h *Handler) List(c *gin.Context) {
	filter := SearchFilter{
		Query:  c.Query("q"),
		Status: c.Query("status"),
		City:   c.Query("city"),
	}
	if raw := c.Query("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "invalid category_id")
			return
		}
		filter.CategoryID = &id
	}
	// Unauthenticated browsing sees only published public events.
	if middleware.CurrentRole(c) == "" {
		filter.Status = models.EventStatusPublished
		filter.Visibility = models.EventVisibilityPublic
	}
	events, err := h.repo.List(c.Request.Context(), filter)
	if err != nil {
		response.Internal(c, "failed to list events")
		return
	}
	response.OK(c, events)
}

// ListUpcoming handles GET /events/upcoming.
func (h *Handler) ListUpcoming(c *gin.Context) {
	events, err := h.repo.ListUpcomingPublic(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list events")
		return
	}
	response.OK(c, events)
}

// ListMine handles GET /events/mine (organizer).
func (h *Handler) ListMine(c *gin.Context) {
	organizerID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}
	events, err := h.repo.ListByOrganizer(c.Request.Context(), organizerID)
	if err != nil {
		response.Internal(c, "failed to list events")
		return
	}
	response.OK(c, events)
}

// UpdateEventRequest is the body for PUT /events/:id. Pointer fields are
// optional; absent fields keep their current value.
type UpdateEventRequest struct {
	Title         *string    `json:"title"`
	Description   *string    `json:"description"`
	VenueID       *uuid.UUID `json:"venue_id"`
	CategoryID    *uuid.UUID `json:"category_id"`
	StartDateTime *time.Time `json:"start_date_time"`
	EndDateTime   *time.Time `json:"end_date_time"`
	Capacity      *int       `json:"capacity"`
	Visibility    *string    `json:"visibility"`
	ImageURL      *string    `json:"image_url"`
}

// Update handles PUT /events/:id (owning organizer or admin).
func (h *Handler) Update(c *gin.Context) {
	e, ok := h.loadOwned(c)
	if !ok {
		return
	}
	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if e.Status == models.EventStatusCancelled || e.Status == models.EventStatusCompleted {
		response.Error(c, apperrors.Business("cannot update a %s event", e.Status))
		return
	}

	if req.Title != nil {
		e.Title = *req.Title
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.VenueID != nil {
		e.VenueID = req.VenueID
	}
	if req.CategoryID != nil {
		e.CategoryID = req.CategoryID
	}
	if req.StartDateTime != nil {
		e.StartDateTime = *req.StartDateTime
	}
	if req.EndDateTime != nil {
		e.EndDateTime = *req.EndDateTime
	}
	if !e.EndDateTime.After(e.StartDateTime) {
		response.BadRequest(c, "end_date_time must be after start_date_time")
		return
	}
	if req.Capacity != nil {
		if *req.Capacity < 1 {
			response.BadRequest(c, "capacity must be at least 1")
			return
		}
		e.Capacity = *req.Capacity
	}
	if req.Visibility != nil {
		if *req.Visibility != models.EventVisibilityPublic && *req.Visibility != models.EventVisibilityPrivate {
			response.BadRequest(c, "visibility must be public or private")
			return
		}
		e.Visibility = *req.Visibility
	}
	if req.ImageURL != nil {
		e.ImageURL = *req.ImageURL
	}

	if err := h.repo.Update(c.Request.Context(), e); err != nil {
		h.logger.Error("update event failed", zap.Error(err))
		response.Internal(c, "failed to update event")
		return
	}
	response.OK(c, e)
}

// Publish handles POST /events/:id/publish (owning organizer or admin).
func (h *Handler) Publish(c *gin.Context) {
	e, ok := h.loadOwned(c)
	if !ok {
		return
	}
	if e.Status != models.EventStatusDraft {
		response.Error(c, apperrors.Business("only draft events can be published"))
		return
	}
	if err := h.repo.UpdateStatus(c.Request.Context(), e.ID, models.EventStatusPublished); err != nil {
		h.logger.Error("publish event failed", zap.Error(err))
		response.Internal(c, "failed to publish event")
		return
	}
	e.Status = models.EventStatusPublished
	response.OK(c, e)
}

// Cancel handles POST /events/:id/cancel (owning organizer or admin).
func (h *Handler) Cancel(c *gin.Context) {
	e, ok := h.loadOwned(c)
	if !ok {
		return
	}
	if e.Status == models.EventStatusCompleted || e.Status == models.EventStatusCancelled {
		response.Error(c, apperrors.Business("cannot cancel a %s event", e.Status))
		return
	}
	if err := h.repo.UpdateStatus(c.Request.Context(), e.ID, models.EventStatusCancelled); err != nil {
		h.logger.Error("cancel event failed", zap.Error(err))
		response.Internal(c, "failed to cancel event")
		return
	}
	e.Status = models.EventStatusCancelled
	response.OK(c, e)
}

// Delete handles DELETE /events/:id (owning organizer or admin).
func (h *Handler) Delete(c *gin.Context) {
	e, ok := h.loadOwned(c)
	if !ok {
		return
	}
	if e.Status == models.EventStatusPublished {
		response.Error(c, apperrors.Business("published events must be cancelled before deletion"))
		return
	}
	if err := h.repo.Delete(c.Request.Context(), e.ID); err != nil {
		h.logger.Error("delete event failed", zap.Error(err))
		response.Internal(c, "failed to delete event")
		return
	}
	response.NoContent(c)
}

// AddServiceRequest is the body for POST /events/:id/services.
type AddServiceRequest struct {
	VendorID uuid.UUID        `json:"vendor_id" binding:"required"`
	Rate     *decimal.Decimal `json:"rate"` // defaults to the vendor's base rate
	Notes    string           `json:"notes"`
}

// AddService handles POST /events/:id/services (owning organizer or admin).
// The vendor must exist, be active, and the attached service takes the
// vendor's service type.
func (h *Handler) AddService(c *gin.Context) {
	e, ok := h.loadOwned(c)
	if !ok {
		return
	}
	var req AddServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	vendor, err := h.vendors.GetByID(c.Request.Context(), req.VendorID)
	if err != nil {
		h.logger.Error("lookup vendor failed", zap.Error(err))
		response.Internal(c, "failed to add service")
		return
	}
	if vendor == nil {
		response.Error(c, apperrors.NotFound("vendor", "id", req.VendorID))
		return
	}
	if !vendor.IsActive {
		response.Error(c, apperrors.Business("vendor %s is not active", vendor.Name))
		return
	}

	rate := vendor.BaseRate
	if req.Rate != nil {
		if req.Rate.IsNegative() {
			response.BadRequest(c, "rate must not be negative")
			return
		}
		rate = *req.Rate
	}

	s := &models.EventServiceItem{
		EventID:       e.ID,
		ServiceTypeID: vendor.ServiceTypeID,
		VendorID:      vendor.ID,
		Rate:          rate,
		Notes:         req.Notes,
	}
	if err := h.repo.AddService(c.Request.Context(), s); err != nil {
		h.logger.Error("add event service failed", zap.Error(err))
		response.Internal(c, "failed to add service")
		return
	}
	response.Created(c, s)
}

// ListServices handles GET /events/:id/services.
func (h *Handler) ListServices(c *gin.Context) {
	e, ok := h.load(c)
	if !ok {
		return
	}
	services, err := h.repo.ListServices(c.Request.Context(), e.ID)
	if err != nil {
		response.Internal(c, "failed to list services")
		return
	}
	response.OK(c, services)
}

// RemoveService handles DELETE /events/:id/services/:serviceId.
func (h *Handler) RemoveService(c *gin.Context) {
	e, ok := h.loadOwned(c)
	if !ok {
		return
	}
	serviceID, err := uuid.Parse(c.Param("serviceId"))
	if err != nil {
		response.BadRequest(c, "invalid service id")
		return
	}
	removed, err := h.repo.RemoveService(c.Request.Context(), e.ID, serviceID)
	if err != nil {
		h.logger.Error("remove event service failed", zap.Error(err))
		response.Internal(c, "failed to remove service")
		return
	}
	if !removed {
		response.Error(c, apperrors.NotFound("event service", "id", serviceID))
		return
	}
	response.NoContent(c)
}

// FinancialMetricsResponse is the body for GET /events/:id/financials.
type FinancialMetricsResponse struct {
	EventID           uuid.UUID       `json:"event_id"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalServiceCosts decimal.Decimal `json:"total_service_costs"`
	Profit            decimal.Decimal `json:"profit"`
	Margin            decimal.Decimal `json:"margin"`
	TotalTicketsSold  int             `json:"total_tickets_sold"`
}

// Financials handles GET /events/:id/financials (owning organizer or admin).
func (h *Handler) Financials(c *gin.Context) {
	e, ok := h.loadOwned(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	payments, err := h.analytics.SuccessfulPaymentsByEvent(ctx, e.ID)
	if err != nil {
		h.logger.Error("load payments failed", zap.Error(err))
		response.Internal(c, "failed to compute financials")
		return
	}
	services, err := h.analytics.ServicesByEvent(ctx, e.ID)
	if err != nil {
		h.logger.Error("load services failed", zap.Error(err))
		response.Internal(c, "failed to compute financials")
		return
	}
	registrations, err := h.analytics.RegistrationsByEvent(ctx, e.ID)
	if err != nil {
		h.logger.Error("load registrations failed", zap.Error(err))
		response.Internal(c, "failed to compute financials")
		return
	}

	summary := analytics.Summarize(payments, services, registrations)
	response.OK(c, FinancialMetricsResponse{
		EventID:           e.ID,
		TotalRevenue:      summary.TotalRevenue,
		TotalServiceCosts: summary.TotalServiceCosts,
		Profit:            summary.Profit,
		Margin:            summary.Margin,
		TotalTicketsSold:  summary.TotalTicketsSold,
	})
}

// Categories handles GET /categories.
func (h *Handler) Categories(c *gin.Context) {
	cats, err := h.repo.ListCategories(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list categories")
		return
	}
	response.OK(c, cats)
}

// CreateCategoryRequest is the body for POST /categories.
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CreateCategory handles POST /categories (admin only).
func (h *Handler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	cat := &models.Category{Name: req.Name, Description: req.Description}
	if err := h.repo.CreateCategory(c.Request.Context(), cat); err != nil {
		h.logger.Error("create category failed", zap.Error(err))
		response.Internal(c, "failed to create category")
		return
	}
	response.Created(c, cat)
}

// Venues handles GET /venues.
func (h *Handler) Venues(c *gin.Context) {
	venues, err := h.repo.ListVenues(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list venues")
		return
	}
	response.OK(c, venues)
}

// CreateVenueRequest is the body for POST /venues.
type CreateVenueRequest struct {
	Name     string `json:"name" binding:"required"`
	Address  string `json:"address"`
	City     string `json:"city"`
	Capacity int    `json:"capacity"`
}

// CreateVenue handles POST /venues (admin only).
func (h *Handler) CreateVenue(c *gin.Context) {
	var req CreateVenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	v := &models.Venue{Name: req.Name, Address: req.Address, City: req.City, Capacity: req.Capacity}
	if err := h.repo.CreateVenue(c.Request.Context(), v); err != nil {
		h.logger.Error("create venue failed", zap.Error(err))
		response.Internal(c, "failed to create venue")
		return
	}
	response.Created(c, v)
}

// load parses :id and fetches the event, replying 404 when absent.
func (h *Handler) load(c *gin.Context) (*models.Event, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return nil, false
	}
	e, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("load event failed", zap.Error(err))
		response.Internal(c, "failed to load event")
		return nil, false
	}
	if e == nil {
		response.Error(c, apperrors.NotFound("event", "id", id))
		return nil, false
	}
	return e, true
}

// loadOwned is load plus an ownership check: only the organizer who created
// the event, or an admin, may proceed.
func (h *Handler) loadOwned(c *gin.Context) (*models.Event, bool) {
	e, ok := h.load(c)
	if !ok {
		return nil, false
	}
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return nil, false
	}
	if e.OrganizerID != userID && middleware.CurrentRole(c) != models.RoleAdmin {
		response.Forbidden(c, "not your event")
		return nil, false
	}
	return e, true
}
