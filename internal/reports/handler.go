package reports

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aurelius-events/backend/internal/analytics"
	"github.com/aurelius-events/backend/internal/events"
	"github.com/aurelius-events/backend/internal/middleware"
	"github.com/aurelius-events/backend/internal/models"
	"github.com/aurelius-events/backend/pkg/apperrors"
	"github.com/aurelius-events/backend/pkg/response"
	"github.com/aurelius-events/backend/pkg/storage"
)

// Handler serves report downloads and exports.
type Handler struct {
	repo      *Repository
	events    *events.Repository
	analytics *analytics.Repository
	store     *storage.S3
	currency  string
	logger    *zap.Logger
}

// NewHandler creates a reports handler. store may be nil; exports to object
// storage are then disabled and downloads stream directly.
func NewHandler(repo *Repository, eventRepo *events.Repository, analyticsRepo *analytics.Repository, store *storage.S3, currency string, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, events: eventRepo, analytics: analyticsRepo, store: store, currency: currency, logger: logger}
}

// RegistrationsCSV handles GET /events/:id/reports/registrations.csv.
func (h *Handler) RegistrationsCSV(c *gin.Context) {
	event, ok := h.loadOwnedEvent(c)
	if !ok {
		return
	}
	rows, err := h.repo.RegistrationRows(c.Request.Context(), event.ID)
	if err != nil {
		h.logger.Error("load registration rows failed", zap.Error(err))
		response.Error(c, apperrors.IO("load registrations export", err))
		return
	}
	var buf bytes.Buffer
	if err := WriteRegistrationsCSV(&buf, rows); err != nil {
		response.Error(c, apperrors.IO("write registrations csv", err))
		return
	}
	h.serveFile(c, fmt.Sprintf("registrations-%s.csv", event.ID), "text/csv", buf.Bytes())
}

// PaymentsCSV handles GET /events/:id/reports/payments.csv.
func (h *Handler) PaymentsCSV(c *gin.Context) {
	event, ok := h.loadOwnedEvent(c)
	if !ok {
		return
	}
	rows, err := h.repo.PaymentRows(c.Request.Context(), event.ID)
	if err != nil {
		h.logger.Error("load payment rows failed", zap.Error(err))
		response.Error(c, apperrors.IO("load payments export", err))
		return
	}
	var buf bytes.Buffer
	if err := WritePaymentsCSV(&buf, rows); err != nil {
		response.Error(c, apperrors.IO("write payments csv", err))
		return
	}
	h.serveFile(c, fmt.Sprintf("payments-%s.csv", event.ID), "text/csv", buf.Bytes())
}

// SummaryPDF handles GET /events/:id/reports/summary.pdf.
func (h *Handler) SummaryPDF(c *gin.Context) {
	event, ok := h.loadOwnedEvent(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	payments, err := h.analytics.SuccessfulPaymentsByEvent(ctx, event.ID)
	if err != nil {
		response.Error(c, apperrors.IO("load payments", err))
		return
	}
	services, err := h.analytics.ServicesByEvent(ctx, event.ID)
	if err != nil {
		response.Error(c, apperrors.IO("load services", err))
		return
	}
	registrations, err := h.analytics.RegistrationsByEvent(ctx, event.ID)
	if err != nil {
		response.Error(c, apperrors.IO("load registrations", err))
		return
	}

	summary := analytics.Summarize(payments, services, registrations)
	counts := analytics.CountByStatus(registrations)
	pdf, err := BuildEventReportPDF(EventReportData{
		EventTitle:         event.Title,
		GeneratedAt:        time.Now(),
		TotalRegistrations: counts.Total,
		ConfirmedCount:     counts.Confirmed,
		CancelledCount:     counts.Cancelled,
		PendingCount:       counts.Pending,
		TotalTicketsSold:   summary.TotalTicketsSold,
		TotalRevenue:       summary.TotalRevenue,
		TotalServiceCosts:  summary.TotalServiceCosts,
		Profit:             summary.Profit,
		Margin:             summary.Margin,
		Currency:           h.currency,
	})
	if err != nil {
		response.Error(c, apperrors.IO("render report pdf", err))
		return
	}
	h.serveFile(c, fmt.Sprintf("summary-%s.pdf", event.ID), "application/pdf", pdf)
}

// ExportRegistrations handles POST /events/:id/reports/registrations/export:
// write the CSV to object storage and return a presigned download URL.
func (h *Handler) ExportRegistrations(c *gin.Context) {
	event, ok := h.loadOwnedEvent(c)
	if !ok {
		return
	}
	if h.store == nil {
		response.Error(c, apperrors.Business("object storage is not configured"))
		return
	}
	ctx := c.Request.Context()

	rows, err := h.repo.RegistrationRows(ctx, event.ID)
	if err != nil {
		response.Error(c, apperrors.IO("load registrations export", err))
		return
	}
	var buf bytes.Buffer
	if err := WriteRegistrationsCSV(&buf, rows); err != nil {
		response.Error(c, apperrors.IO("write registrations csv", err))
		return
	}

	filename := fmt.Sprintf("registrations-%d.csv", time.Now().Unix())
	key := storage.ReportKey(event.ID.String(), filename)
	if _, err := h.store.Upload(ctx, key, "text/csv", &buf); err != nil {
		h.logger.Error("upload report failed", zap.Error(err))
		response.Error(c, apperrors.IO("upload report", err))
		return
	}
	url, err := h.store.GeneratePresignedDownloadURL(ctx, key, h.store.PresignExpire())
	if err != nil {
		response.Error(c, apperrors.IO("presign report", err))
		return
	}
	response.OK(c, gin.H{"key": key, "url": url})
}

func (h *Handler) serveFile(c *gin.Context, filename, contentType string, body []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, body)
}

func (h *Handler) loadOwnedEvent(c *gin.Context) (*models.Event, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return nil, false
	}
	event, err := h.events.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Internal(c, "failed to load event")
		return nil, false
	}
	if event == nil {
		response.Error(c, apperrors.NotFound("event", "id", id))
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
