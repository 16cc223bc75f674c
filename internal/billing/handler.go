package billing

import (
	"bytes"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/aurelius-events/backend/internal/analytics"
	"github.com/aurelius-events/backend/internal/middleware"
	"github.com/aurelius-events/backend/internal/models"
	"github.com/aurelius-events/backend/internal/notifications"
	"github.com/aurelius-events/backend/internal/payments"
	"github.com/aurelius-events/backend/internal/registrations"
	"github.com/aurelius-events/backend/internal/reports"
	"github.com/aurelius-events/backend/pkg/apperrors"
	"github.com/aurelius-events/backend/pkg/queue"
	"github.com/aurelius-events/backend/pkg/response"
	"github.com/aurelius-events/backend/pkg/storage"
)

// Handler handles invoice and payout HTTP endpoints.
type Handler struct {
	repo          *Repository
	payments      *payments.Repository
	registrations *registrations.Repository
	analytics     *analytics.Repository
	jobs          *queue.Queue
	notifier      *notifications.Publisher
	store         *storage.S3
	currency      string
	invoicePrefix string
	logger        *zap.Logger
}

// NewHandler creates a billing handler. notifier and store may be nil.
func NewHandler(repo *Repository, paymentRepo *payments.Repository, regRepo *registrations.Repository,
	analyticsRepo *analytics.Repository, jobs *queue.Queue, notifier *notifications.Publisher,
	store *storage.S3, currency, invoicePrefix string, logger *zap.Logger) *Handler {
	return &Handler{
		repo:          repo,
		payments:      paymentRepo,
		registrations: regRepo,
		analytics:     analyticsRepo,
		jobs:          jobs,
		notifier:      notifier,
		store:         store,
		currency:      currency,
		invoicePrefix: invoicePrefix,
		logger:        logger,
	}
}

// GenerateInvoice handles POST /payments/:id/invoice. Invoices are issued for
// successful payments only, and at most once per payment.
func (h *Handler) GenerateInvoice(c *gin.Context) {
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid payment id")
		return
	}
	ctx := c.Request.Context()

	payment, err := h.payments.GetByID(ctx, paymentID)
	if err != nil {
		h.logger.Error("load payment failed", zap.Error(err))
		response.Internal(c, "failed to generate invoice")
		return
	}
	if payment == nil {
		response.Error(c, apperrors.NotFound("payment", "id", paymentID))
		return
	}
	if !h.authorizePayment(c, payment) {
		return
	}
	if payment.Status != models.PaymentStatusSuccess {
		response.Error(c, apperrors.Business("invoices can only be generated for successful payments"))
		return
	}

	existing, err := h.repo.GetInvoiceByPayment(ctx, paymentID)
	if err != nil {
		response.Internal(c, "failed to generate invoice")
		return
	}
	if existing != nil {
		response.Error(c, apperrors.Business("invoice %s already exists for this payment", existing.InvoiceNumber))
		return
	}

	details, err := h.repo.InvoiceDetailsForPayment(ctx, paymentID)
	if err != nil {
		response.Internal(c, "failed to generate invoice")
		return
	}
	if details == nil {
		response.Error(c, apperrors.NotFound("registration", "payment_id", paymentID))
		return
	}

	issuedAt := time.Now().UTC()
	inv := &models.Invoice{
		PaymentID:     payment.ID,
		InvoiceNumber: NewInvoiceNumber(h.invoicePrefix, issuedAt),
		Amount:        payment.Amount,
		Currency:      payment.Currency,
		IssuedAt:      issuedAt,
	}

	pdf, err := reports.BuildInvoicePDF(reports.InvoiceData{
		InvoiceNumber: inv.InvoiceNumber,
		IssuedAt:      issuedAt,
		BillTo:        details.UserName,
		BillToEmail:   details.UserEmail,
		EventTitle:    details.EventTitle,
		TicketType:    details.TicketType,
		Quantity:      details.Quantity,
		Amount:        payment.Amount,
		Currency:      payment.Currency,
		PaymentMethod: payment.PaymentMethod,
		TransactionID: payment.TransactionID,
	})
	if err != nil {
		response.Error(c, apperrors.IO("render invoice pdf", err))
		return
	}
	if h.store != nil {
		key := storage.InvoiceKey(inv.InvoiceNumber)
		if _, err := h.store.Upload(ctx, key, "application/pdf", bytes.NewReader(pdf)); err != nil {
			response.Error(c, apperrors.IO("upload invoice", err))
			return
		}
		inv.StorageKey = key
	}

	if err := h.repo.CreateInvoice(ctx, inv); err != nil {
		h.logger.Error("create invoice failed", zap.Error(err))
		response.Internal(c, "failed to generate invoice")
		return
	}

	h.notifier.Publish(ctx, notifications.Notification{
		Type:      notifications.TypeInvoiceReady,
		Recipient: details.UserEmail,
		Payload: map[string]interface{}{
			"invoice_id":     inv.ID.String(),
			"invoice_number": inv.InvoiceNumber,
		},
	})
	response.Created(c, inv)
}

// GetInvoice handles GET /invoices/:id.
func (h *Handler) GetInvoice(c *gin.Context) {
	inv, ok := h.loadInvoice(c)
	if !ok {
		return
	}
	response.OK(c, inv)
}

// DownloadInvoice handles GET /invoices/:id/download, returning a presigned
// URL for the stored PDF.
func (h *Handler) DownloadInvoice(c *gin.Context) {
	inv, ok := h.loadInvoice(c)
	if !ok {
		return
	}
	if h.store == nil || inv.StorageKey == "" {
		response.Error(c, apperrors.Business("invoice PDF is not stored"))
		return
	}
	url, err := h.store.GeneratePresignedDownloadURL(c.Request.Context(), inv.StorageKey, h.store.PresignExpire())
	if err != nil {
		response.Error(c, apperrors.IO("presign invoice", err))
		return
	}
	response.OK(c, gin.H{"url": url, "invoice_number": inv.InvoiceNumber})
}

// CreatePayoutRequest is the body for POST /payouts.
type CreatePayoutRequest struct {
	OrganizerID   uuid.UUID       `json:"organizer_id" binding:"required"`
	EventID       *uuid.UUID      `json:"event_id"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	PaymentMethod string          `json:"payment_method"`
	Notes         string          `json:"notes"`
}

// CreatePayout handles POST /payouts (admin only).
func (h *Handler) CreatePayout(c *gin.Context) {
	var req CreatePayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if !req.Amount.IsPositive() {
		response.Error(c, apperrors.Business("payout amount must be positive"))
		return
	}
	ctx := c.Request.Context()

	organizer, err := h.analytics.UserByID(ctx, req.OrganizerID)
	if err != nil {
		response.Internal(c, "failed to create payout")
		return
	}
	if organizer == nil {
		response.Error(c, apperrors.NotFound("organizer", "id", req.OrganizerID))
		return
	}
	if organizer.Role != models.RoleOrganizer {
		response.Error(c, apperrors.Business("payouts can only target organizers"))
		return
	}
	if req.EventID != nil {
		event, err := h.analytics.EventByID(ctx, *req.EventID)
		if err != nil {
			response.Internal(c, "failed to create payout")
			return
		}
		if event == nil {
			response.Error(c, apperrors.NotFound("event", "id", *req.EventID))
			return
		}
		if event.OrganizerID != req.OrganizerID {
			response.Error(c, apperrors.Business("event does not belong to the organizer"))
			return
		}
	}

	p := &models.Payout{
		OrganizerID:   req.OrganizerID,
		EventID:       req.EventID,
		Amount:        req.Amount,
		Currency:      h.currency,
		Status:        models.PayoutStatusPending,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	}
	if err := h.repo.CreatePayout(ctx, p); err != nil {
		h.logger.Error("create payout failed", zap.Error(err))
		response.Internal(c, "failed to create payout")
		return
	}
	response.Created(c, p)
}

// ProcessPayout handles POST /payouts/:id/process (admin only). The payout is
// handed to the background worker; the transaction reference is fixed at
// enqueue time so redelivered jobs complete with the same reference.
// Re-processing a completed payout is a no-op.
func (h *Handler) ProcessPayout(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid payout id")
		return
	}
	ctx := c.Request.Context()

	p, err := h.repo.GetPayout(ctx, id)
	if err != nil {
		response.Internal(c, "failed to load payout")
		return
	}
	if p == nil {
		response.Error(c, apperrors.NotFound("payout", "id", id))
		return
	}
	if p.Status == models.PayoutStatusCompleted {
		response.OK(c, p)
		return
	}
	if p.Status == models.PayoutStatusFailed {
		response.Error(c, apperrors.Business("failed payouts cannot be reprocessed"))
		return
	}

	reference := p.TransactionReference
	if reference == "" {
		reference = "PAYOUT-" + uuid.NewString()
	}
	if err := h.jobs.EnqueuePayout(ctx, queue.PayoutPayload{
		PayoutID:             p.ID,
		TransactionReference: reference,
	}); err != nil {
		h.logger.Error("enqueue payout failed", zap.Error(err))
		response.Error(c, apperrors.IO("enqueue payout", err))
		return
	}
	response.OK(c, gin.H{"payout_id": p.ID, "status": p.Status, "queued": true})
}

// ListPayouts handles GET /payouts. Admins see any scope via ?organizer_id=
// or ?event_id=; organizers see their own payouts.
func (h *Handler) ListPayouts(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}
	ctx := c.Request.Context()

	if middleware.CurrentRole(c) == models.RoleAdmin {
		if raw := c.Query("event_id"); raw != "" {
			eventID, err := uuid.Parse(raw)
			if err != nil {
				response.BadRequest(c, "invalid event_id")
				return
			}
			list, err := h.repo.ListPayoutsByEvent(ctx, eventID)
			if err != nil {
				response.Internal(c, "failed to list payouts")
				return
			}
			response.OK(c, list)
			return
		}
		target := userID
		if raw := c.Query("organizer_id"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				response.BadRequest(c, "invalid organizer_id")
				return
			}
			target = id
		}
		list, err := h.repo.ListPayoutsByOrganizer(ctx, target)
		if err != nil {
			response.Internal(c, "failed to list payouts")
			return
		}
		response.OK(c, list)
		return
	}

	list, err := h.repo.ListPayoutsByOrganizer(ctx, userID)
	if err != nil {
		response.Internal(c, "failed to list payouts")
		return
	}
	response.OK(c, list)
}

// GetPayout handles GET /payouts/:id (admin or owning organizer).
func (h *Handler) GetPayout(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid payout id")
		return
	}
	p, err := h.repo.GetPayout(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to load payout")
		return
	}
	if p == nil {
		response.Error(c, apperrors.NotFound("payout", "id", id))
		return
	}
	userID, _ := middleware.CurrentUserID(c)
	if p.OrganizerID != userID && middleware.CurrentRole(c) != models.RoleAdmin {
		response.Forbidden(c, "not your payout")
		return
	}
	response.OK(c, p)
}

func (h *Handler) loadInvoice(c *gin.Context) (*models.Invoice, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid invoice id")
		return nil, false
	}
	inv, err := h.repo.GetInvoiceByID(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to load invoice")
		return nil, false
	}
	if inv == nil {
		response.Error(c, apperrors.NotFound("invoice", "id", id))
		return nil, false
	}
	payment, err := h.payments.GetByID(c.Request.Context(), inv.PaymentID)
	if err != nil || payment == nil {
		response.Internal(c, "failed to load invoice")
		return nil, false
	}
	if !h.authorizePayment(c, payment) {
		return nil, false
	}
	return inv, true
}

// authorizePayment allows the payment's registrant or an admin.
func (h *Handler) authorizePayment(c *gin.Context, payment *models.Payment) bool {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return false
	}
	if middleware.CurrentRole(c) == models.RoleAdmin {
		return true
	}
	reg, err := h.registrations.GetByID(c.Request.Context(), payment.RegistrationID)
	if err != nil || reg == nil || reg.UserID != userID {
		response.Forbidden(c, "not your payment")
		return false
	}
	return true
}
