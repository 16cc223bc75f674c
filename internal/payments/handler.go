package payments

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aurelius-events/backend/internal/middleware"
	"github.com/aurelius-events/backend/internal/models"
	"github.com/aurelius-events/backend/internal/notifications"
	"github.com/aurelius-events/backend/internal/registrations"
	"github.com/aurelius-events/backend/pkg/apperrors"
	"github.com/aurelius-events/backend/pkg/response"
)

// Handler handles payment HTTP endpoints.
type Handler struct {
	repo          *Repository
	registrations *registrations.Repository
	notifier      *notifications.Publisher
	currency      string
	logger        *zap.Logger
}

// NewHandler creates a payment handler. notifier may be nil.
func NewHandler(repo *Repository, regRepo *registrations.Repository, notifier *notifications.Publisher, currency string, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, registrations: regRepo, notifier: notifier, currency: currency, logger: logger}
}

// ProcessRequest is the body for POST /payments.
type ProcessRequest struct {
	RegistrationID uuid.UUID `json:"registration_id" binding:"required"`
	PaymentMethod  string    `json:"payment_method" binding:"required"`
	TransactionID  string    `json:"transaction_id"`
}

// Process handles POST /payments: capture the charge for a registration.
// The amount is the registration total; the registration is confirmed on
// success.
func (h *Handler) Process(c *gin.Context) {
	var req ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}
	ctx := c.Request.Context()

	reg, err := h.registrations.GetByID(ctx, req.RegistrationID)
	if err != nil {
		h.logger.Error("load registration failed", zap.Error(err))
		response.Internal(c, "failed to process payment")
		return
	}
	if reg == nil {
		response.Error(c, apperrors.NotFound("registration", "id", req.RegistrationID))
		return
	}
	if reg.UserID != userID && middleware.CurrentRole(c) != models.RoleAdmin {
		response.Forbidden(c, "not your registration")
		return
	}
	if reg.Status == models.RegistrationStatusCancelled {
		response.Error(c, apperrors.Business("cannot pay for a cancelled registration"))
		return
	}

	paid, err := h.repo.ExistsForRegistration(ctx, reg.ID)
	if err != nil {
		h.logger.Error("check existing payment failed", zap.Error(err))
		response.Internal(c, "failed to process payment")
		return
	}
	if paid {
		response.Error(c, apperrors.Business("registration is already paid"))
		return
	}

	transactionID := req.TransactionID
	if transactionID == "" {
		transactionID = uuid.NewString()
	}
	p := &models.Payment{
		RegistrationID: reg.ID,
		Amount:         reg.TotalAmount,
		Currency:       h.currency,
		PaymentMethod:  req.PaymentMethod,
		TransactionID:  transactionID,
	}
	if err := h.repo.CreateSuccessful(ctx, p); err != nil {
		h.logger.Error("create payment failed", zap.Error(err))
		response.Error(c, err)
		return
	}

	h.notifier.Publish(ctx, notifications.Notification{
		Type:      notifications.TypePaymentReceived,
		Recipient: reg.UserID.String(),
		Payload: map[string]interface{}{
			"payment_id":      p.ID.String(),
			"registration_id": reg.ID.String(),
			"amount":          p.Amount.String(),
			"currency":        p.Currency,
		},
	})
	response.Created(c, p)
}

// Get handles GET /payments/:id.
func (h *Handler) Get(c *gin.Context) {
	p, ok := h.loadAuthorized(c)
	if !ok {
		return
	}
	response.OK(c, p)
}

// History handles GET /payments/mine.
func (h *Handler) History(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}
	list, err := h.repo.ListByUser(c.Request.Context(), userID)
	if err != nil {
		response.Internal(c, "failed to list payments")
		return
	}
	response.OK(c, list)
}

// Refund handles POST /payments/:id/refund (admin only). Only successful
// payments can be refunded; the registration is cancelled alongside.
func (h *Handler) Refund(c *gin.Context) {
	p, ok := h.loadAuthorized(c)
	if !ok {
		return
	}
	if err := h.repo.Refund(c.Request.Context(), p); err != nil {
		if apperrors.IsBusiness(err) {
			response.Error(c, err)
			return
		}
		h.logger.Error("refund payment failed", zap.Error(err))
		response.Error(c, err)
		return
	}

	reg, err := h.registrations.GetByID(c.Request.Context(), p.RegistrationID)
	if err == nil && reg != nil {
		h.notifier.Publish(c.Request.Context(), notifications.Notification{
			Type:      notifications.TypePaymentRefunded,
			Recipient: reg.UserID.String(),
			Payload: map[string]interface{}{
				"payment_id": p.ID.String(),
				"amount":     p.Amount.String(),
			},
		})
	}
	response.OK(c, p)
}

func (h *Handler) loadAuthorized(c *gin.Context) (*models.Payment, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid payment id")
		return nil, false
	}
	p, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to load payment")
		return nil, false
	}
	if p == nil {
		response.Error(c, apperrors.NotFound("payment", "id", id))
		return nil, false
	}
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return nil, false
	}
	if middleware.CurrentRole(c) == models.RoleAdmin {
		return p, true
	}
	reg, err := h.registrations.GetByID(c.Request.Context(), p.RegistrationID)
	if err != nil || reg == nil || reg.UserID != userID {
		response.Forbidden(c, "not your payment")
		return nil, false
	}
	return p, true
}
