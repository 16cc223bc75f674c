package registrations

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aurelius-events/backend/internal/events"
	"github.com/aurelius-events/backend/internal/middleware"
	"github.com/aurelius-events/backend/internal/models"
	"github.com/aurelius-events/backend/internal/notifications"
	"github.com/aurelius-events/backend/pkg/apperrors"
	"github.com/aurelius-events/backend/pkg/response"
)

// Handler handles registration HTTP endpoints.
type Handler struct {
	repo     *Repository
	events   *events.Repository
	notifier *notifications.Publisher
	logger   *zap.Logger
}

// NewHandler creates a registration handler. notifier may be nil when
// RabbitMQ is not configured.
func NewHandler(repo *Repository, eventRepo *events.Repository, notifier *notifications.Publisher, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, events: eventRepo, notifier: notifier, logger: logger}
}

// CreateRegistrationRequest is the body for POST /registrations.
type CreateRegistrationRequest struct {
	EventID  uuid.UUID  `json:"event_id" binding:"required"`
	TicketID *uuid.UUID `json:"ticket_id"`
	Quantity int        `json:"quantity" binding:"required,min=1"`
}

// Create handles POST /registrations.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	event, err := h.events.GetByID(c.Request.Context(), req.EventID)
	if err != nil {
		h.logger.Error("load event failed", zap.Error(err))
		response.Internal(c, "failed to register")
		return
	}
	if event == nil {
		response.Error(c, apperrors.NotFound("event", "id", req.EventID))
		return
	}
	if event.Status != models.EventStatusPublished {
		response.Error(c, apperrors.Business("event is not open for registration"))
		return
	}

	reg := &models.Registration{
		UserID:   userID,
		EventID:  req.EventID,
		TicketID: req.TicketID,
		Quantity: req.Quantity,
	}
	if err := h.repo.Create(c.Request.Context(), reg); err != nil {
		if apperrors.IsBusiness(err) || apperrors.IsNotFound(err) {
			response.Error(c, err)
			return
		}
		h.logger.Error("create registration failed", zap.Error(err))
		response.Internal(c, "failed to register")
		return
	}

	h.notifier.Publish(c.Request.Context(), notifications.Notification{
		Type:      notifications.TypeRegistrationConfirmed,
		Recipient: userID.String(),
		Payload: map[string]interface{}{
			"registration_id": reg.ID.String(),
			"event_id":        event.ID.String(),
			"event_title":     event.Title,
		},
	})
	response.Created(c, reg)
}

// Get handles GET /registrations/:id (owner, event organizer or admin).
func (h *Handler) Get(c *gin.Context) {
	reg, ok := h.loadAuthorized(c)
	if !ok {
		return
	}
	response.OK(c, reg)
}

// ListMine handles GET /registrations/mine.
func (h *Handler) ListMine(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}
	list, err := h.repo.ListByUser(c.Request.Context(), userID)
	if err != nil {
		response.Internal(c, "failed to list registrations")
		return
	}
	response.OK(c, list)
}

// ListByEvent handles GET /events/:id/registrations (owning organizer or admin).
func (h *Handler) ListByEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	event, err := h.events.GetByID(c.Request.Context(), eventID)
	if err != nil {
		response.Internal(c, "failed to load event")
		return
	}
	if event == nil {
		response.Error(c, apperrors.NotFound("event", "id", eventID))
		return
	}
	userID, _ := middleware.CurrentUserID(c)
	if event.OrganizerID != userID && middleware.CurrentRole(c) != models.RoleAdmin {
		response.Forbidden(c, "not your event")
		return
	}
	list, err := h.repo.ListByEvent(c.Request.Context(), eventID)
	if err != nil {
		response.Internal(c, "failed to list registrations")
		return
	}
	response.OK(c, list)
}

// Cancel handles POST /registrations/:id/cancel (owner or admin). Cancelling
// returns the reserved tickets to the pool.
func (h *Handler) Cancel(c *gin.Context) {
	reg, ok := h.loadAuthorized(c)
	if !ok {
		return
	}
	if reg.Status == models.RegistrationStatusCancelled {
		response.Error(c, apperrors.Business("registration is already cancelled"))
		return
	}
	if err := h.repo.Cancel(c.Request.Context(), reg); err != nil {
		h.logger.Error("cancel registration failed", zap.Error(err))
		response.Error(c, err)
		return
	}
	h.notifier.Publish(c.Request.Context(), notifications.Notification{
		Type:      notifications.TypeRegistrationCancelled,
		Recipient: reg.UserID.String(),
		Payload:   map[string]interface{}{"registration_id": reg.ID.String()},
	})
	response.OK(c, reg)
}

// CheckIn handles GET /registrations/checkin/:code, the QR scan lookup.
// Only confirmed registrations admit.
func (h *Handler) CheckIn(c *gin.Context) {
	code := c.Param("code")
	reg, err := h.repo.GetByQRCode(c.Request.Context(), code)
	if err != nil {
		response.Internal(c, "failed to look up code")
		return
	}
	if reg == nil {
		response.Error(c, apperrors.NotFound("registration", "qr_code", code))
		return
	}
	if reg.Status != models.RegistrationStatusConfirmed {
		response.Error(c, apperrors.Business("registration is %s, not confirmed", reg.Status))
		return
	}
	response.OK(c, reg)
}

// Remind handles POST /events/:id/reminders (owning organizer or admin).
// Publishes an event reminder to every confirmed registrant.
func (h *Handler) Remind(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	event, err := h.events.GetByID(c.Request.Context(), eventID)
	if err != nil {
		response.Internal(c, "failed to load event")
		return
	}
	if event == nil {
		response.Error(c, apperrors.NotFound("event", "id", eventID))
		return
	}
	userID, _ := middleware.CurrentUserID(c)
	if event.OrganizerID != userID && middleware.CurrentRole(c) != models.RoleAdmin {
		response.Forbidden(c, "not your event")
		return
	}
	if event.Status != models.EventStatusPublished {
		response.Error(c, apperrors.Business("only published events can send reminders"))
		return
	}
	list, err := h.repo.ListByEvent(c.Request.Context(), eventID)
	if err != nil {
		response.Internal(c, "failed to list registrations")
		return
	}
	sent := 0
	for _, reg := range list {
		if reg.Status != models.RegistrationStatusConfirmed {
			continue
		}
		h.notifier.Publish(c.Request.Context(), notifications.Notification{
			Type:      notifications.TypeEventReminder,
			Recipient: reg.UserID.String(),
			Payload: map[string]interface{}{
				"event_id":    event.ID.String(),
				"event_title": event.Title,
				"starts_at":   event.StartDateTime,
			},
		})
		sent++
	}
	response.OK(c, gin.H{"reminded": sent})
}

// loadAuthorized parses :id, fetches the registration and verifies the caller
// is its owner, the event organizer, or an admin.
func (h *Handler) loadAuthorized(c *gin.Context) (*models.Registration, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid registration id")
		return nil, false
	}
	reg, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to load registration")
		return nil, false
	}
	if reg == nil {
		response.Error(c, apperrors.NotFound("registration", "id", id))
		return nil, false
	}
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return nil, false
	}
	if reg.UserID == userID || middleware.CurrentRole(c) == models.RoleAdmin {
		return reg, true
	}
	event, err := h.events.GetByID(c.Request.Context(), reg.EventID)
	if err == nil && event != nil && event.OrganizerID == userID {
		return reg, true
	}
	response.Forbidden(c, "not your registration")
	return nil, false
}
