package analytics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/aurelius-events/backend/internal/middleware"
	"github.com/aurelius-events/backend/internal/models"
	"github.com/aurelius-events/backend/pkg/apperrors"
	"github.com/aurelius-events/backend/pkg/response"
)

const (
	registrationTrendDays = 30
	revenueTrendMonths    = 12
)

// Handler serves the analytics endpoints. Each request issues several
// independent repository queries; the resulting view is a weak-consistency
// read (no shared snapshot across queries).
type Handler struct {
	repo              *Repository
	commissionPercent int
	logger            *zap.Logger
}

// NewHandler creates an analytics handler.
func NewHandler(repo *Repository, commissionPercent int, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, commissionPercent: commissionPercent, logger: logger}
}

// EventAnalyticsResponse is the per-event analytics view.
type EventAnalyticsResponse struct {
	EventID               uuid.UUID          `json:"event_id"`
	EventTitle            string             `json:"event_title"`
	StartDateTime         time.Time          `json:"start_date_time"`
	EndDateTime           time.Time          `json:"end_date_time"`
	Registrations         RegistrationCounts `json:"registrations"`
	TotalTicketsSold      int                `json:"total_tickets_sold"`
	TotalTicketsAvailable int                `json:"total_tickets_available"`
	TicketSalesRevenue    decimal.Decimal    `json:"ticket_sales_revenue"`
	TotalRevenue          decimal.Decimal    `json:"total_revenue"`
	TotalServiceCosts     decimal.Decimal    `json:"total_service_costs"`
	Profit                decimal.Decimal    `json:"profit"`
	Margin                decimal.Decimal    `json:"margin"`
	CheckedInCount        int                `json:"checked_in_count"`
	NoShowCount           int                `json:"no_show_count"`
	AttendanceRate        float64            `json:"attendance_rate"`
	RegistrationTrends    []DailyPoint       `json:"registration_trends"`
}

// GetEventAnalytics handles GET /analytics/events/:id.
func (h *Handler) GetEventAnalytics(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}
	ctx := c.Request.Context()

	event, err := h.repo.EventByID(ctx, eventID)
	if err != nil {
		h.logger.Error("load event failed", zap.Error(err))
		response.Internal(c, "failed to load event")
		return
	}
	if event == nil {
		response.Error(c, apperrors.NotFound("event", "id", eventID))
		return
	}
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}
	if event.OrganizerID != userID && middleware.CurrentRole(c) != models.RoleAdmin {
		response.Forbidden(c, "not your event")
		return
	}

	registrations, err := h.repo.RegistrationsByEvent(ctx, eventID)
	if err != nil {
		response.Internal(c, "failed to load registrations")
		return
	}
	payments, err := h.repo.SuccessfulPaymentsByEvent(ctx, eventID)
	if err != nil {
		response.Internal(c, "failed to load payments")
		return
	}
	services, err := h.repo.ServicesByEvent(ctx, eventID)
	if err != nil {
		response.Internal(c, "failed to load event services")
		return
	}
	tickets, err := h.repo.TicketsByEvent(ctx, eventID)
	if err != nil {
		response.Internal(c, "failed to load tickets")
		return
	}

	summary := Summarize(payments, services, registrations)
	counts := CountByStatus(registrations)
	available := 0
	for _, t := range tickets {
		available += t.Quantity
	}

	// Check-in is approximated by confirmed registrations; no independent
	// check-in tracking exists yet.
	checkedIn := counts.Confirmed
	now := time.Now()

	response.OK(c, EventAnalyticsResponse{
		EventID:               eventID,
		EventTitle:            event.Title,
		StartDateTime:         event.StartDateTime,
		EndDateTime:           event.EndDateTime,
		Registrations:         counts,
		TotalTicketsSold:      summary.TotalTicketsSold,
		TotalTicketsAvailable: available,
		TicketSalesRevenue:    summary.TotalRevenue,
		TotalRevenue:          summary.TotalRevenue,
		TotalServiceCosts:     summary.TotalServiceCosts,
		Profit:                summary.Profit,
		Margin:                summary.Margin,
		CheckedInCount:        checkedIn,
		NoShowCount:           0,
		AttendanceRate:        AttendanceRate(checkedIn, counts.Total),
		RegistrationTrends:    DailyRegistrationTrend(registrations, now, registrationTrendDays),
	})
}

// EventPerformance is one row of the organizer dashboard's recent events list.
type EventPerformance struct {
	EventID       uuid.UUID       `json:"event_id"`
	Title         string          `json:"title"`
	Status        string          `json:"status"`
	Revenue       decimal.Decimal `json:"revenue"`
	Registrations int             `json:"registrations"`
	TicketsSold   int             `json:"tickets_sold"`
}

// OrganizerDashboardResponse aggregates all of one organizer's events.
type OrganizerDashboardResponse struct {
	OrganizerID        uuid.UUID          `json:"organizer_id"`
	OrganizerName      string             `json:"organizer_name"`
	TotalEvents        int                `json:"total_events"`
	ActiveEvents       int                `json:"active_events"`
	CompletedEvents    int                `json:"completed_events"`
	CancelledEvents    int                `json:"cancelled_events"`
	TotalRevenue       decimal.Decimal    `json:"total_revenue"`
	TotalServiceCosts  decimal.Decimal    `json:"total_service_costs"`
	TotalProfit        decimal.Decimal    `json:"total_profit"`
	AverageMargin      decimal.Decimal    `json:"average_margin"`
	TotalRegistrations int                `json:"total_registrations"`
	TotalTicketsSold   int                `json:"total_tickets_sold"`
	RecentEvents       []EventPerformance `json:"recent_events"`
	RevenueTrends      []MonthlyPoint     `json:"revenue_trends"`
}

// GetOrganizerDashboard handles GET /organizers/:id/dashboard. Organizers may
// only read their own dashboard; admins may read any.
func (h *Handler) GetOrganizerDashboard(c *gin.Context) {
	organizerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid organizer id")
		return
	}
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}
	if organizerID != userID && middleware.CurrentRole(c) != models.RoleAdmin {
		response.Forbidden(c, "not your dashboard")
		return
	}
	ctx := c.Request.Context()

	organizer, err := h.repo.UserByID(ctx, organizerID)
	if err != nil {
		response.Internal(c, "failed to load organizer")
		return
	}
	if organizer == nil {
		response.Error(c, apperrors.NotFound("organizer", "id", organizerID))
		return
	}

	events, err := h.repo.EventsByOrganizer(ctx, organizerID)
	if err != nil {
		response.Internal(c, "failed to load events")
		return
	}

	out := OrganizerDashboardResponse{
		OrganizerID:       organizerID,
		OrganizerName:     organizer.FullName(),
		TotalEvents:       len(events),
		TotalRevenue:      decimal.Zero,
		TotalServiceCosts: decimal.Zero,
		TotalProfit:       decimal.Zero,
		AverageMargin:     decimal.Zero,
		RecentEvents:      []EventPerformance{},
	}

	var allPayments []models.Payment
	for _, event := range events {
		switch event.Status {
		case models.EventStatusPublished:
			out.ActiveEvents++
		case models.EventStatusCompleted:
			out.CompletedEvents++
		case models.EventStatusCancelled:
			out.CancelledEvents++
		}

		payments, err := h.repo.SuccessfulPaymentsByEvent(ctx, event.ID)
		if err != nil {
			response.Internal(c, "failed to load payments")
			return
		}
		services, err := h.repo.ServicesByEvent(ctx, event.ID)
		if err != nil {
			response.Internal(c, "failed to load event services")
			return
		}
		registrations, err := h.repo.RegistrationsByEvent(ctx, event.ID)
		if err != nil {
			response.Internal(c, "failed to load registrations")
			return
		}

		revenue := SumSuccessfulPayments(payments)
		out.TotalRevenue = out.TotalRevenue.Add(revenue)
		out.TotalServiceCosts = out.TotalServiceCosts.Add(SumServiceCosts(services))
		out.TotalRegistrations += len(registrations)
		out.TotalTicketsSold += TicketsSold(registrations)
		allPayments = append(allPayments, payments...)

		// Events arrive newest-first; cap the performance list at ten.
		if len(out.RecentEvents) < 10 {
			out.RecentEvents = append(out.RecentEvents, EventPerformance{
				EventID:       event.ID,
				Title:         event.Title,
				Status:        event.Status,
				Revenue:       revenue,
				Registrations: len(registrations),
				TicketsSold:   TicketsSold(registrations),
			})
		}
	}

	out.TotalProfit = out.TotalRevenue.Sub(out.TotalServiceCosts)
	// Margin over aggregated totals, not averaged per event.
	out.AverageMargin = Margin(out.TotalProfit, out.TotalRevenue)
	out.RevenueTrends = MonthlyRevenueTrend(allPayments, time.Now(), revenueTrendMonths)

	response.OK(c, out)
}

// PlatformAnalyticsResponse is the platform-wide view.
type PlatformAnalyticsResponse struct {
	TotalUsers             int             `json:"total_users"`
	TotalOrganizers        int             `json:"total_organizers"`
	TotalAttendees         int             `json:"total_attendees"`
	ActiveUsers            int             `json:"active_users"`
	TotalEvents            int             `json:"total_events"`
	PublishedEvents        int             `json:"published_events"`
	CompletedEvents        int             `json:"completed_events"`
	UpcomingEvents         int             `json:"upcoming_events"`
	TotalPlatformRevenue   decimal.Decimal `json:"total_platform_revenue"`
	TotalRefunds           decimal.Decimal `json:"total_refunds"`
	PlatformCommission     decimal.Decimal `json:"platform_commission"`
	TotalRegistrations     int             `json:"total_registrations"`
	TotalTicketsSold       int             `json:"total_tickets_sold"`
	AverageEventAttendance float64         `json:"average_event_attendance"`
	EventsByCategory       []CategoryCount `json:"events_by_category"`
	RevenueTrends          []MonthlyPoint  `json:"revenue_trends"`
}

// GetPlatformAnalytics handles GET /analytics/platform (admin only).
func (h *Handler) GetPlatformAnalytics(c *gin.Context) {
	ctx := c.Request.Context()
	now := time.Now()

	users, err := h.repo.AllUsers(ctx)
	if err != nil {
		response.Internal(c, "failed to load users")
		return
	}
	events, err := h.repo.AllEvents(ctx)
	if err != nil {
		response.Internal(c, "failed to load events")
		return
	}
	payments, err := h.repo.AllPayments(ctx)
	if err != nil {
		response.Internal(c, "failed to load payments")
		return
	}
	registrations, err := h.repo.AllRegistrations(ctx)
	if err != nil {
		response.Internal(c, "failed to load registrations")
		return
	}
	byCategory, err := h.repo.EventsByCategory(ctx)
	if err != nil {
		response.Internal(c, "failed to load categories")
		return
	}
	if byCategory == nil {
		byCategory = []CategoryCount{}
	}

	out := PlatformAnalyticsResponse{
		TotalUsers:       len(users),
		TotalEvents:      len(events),
		EventsByCategory: byCategory,
	}
	for _, u := range users {
		switch u.Role {
		case models.RoleOrganizer:
			out.TotalOrganizers++
		case models.RoleAttendee:
			out.TotalAttendees++
		}
		if u.Status == models.UserStatusActive {
			out.ActiveUsers++
		}
	}
	for _, e := range events {
		switch e.Status {
		case models.EventStatusPublished:
			out.PublishedEvents++
			if e.StartDateTime.After(now) {
				out.UpcomingEvents++
			}
		case models.EventStatusCompleted:
			out.CompletedEvents++
		}
	}

	out.TotalPlatformRevenue = SumSuccessfulPayments(payments)
	out.TotalRefunds = SumRefundedPayments(payments)
	out.PlatformCommission = Commission(out.TotalPlatformRevenue, h.commissionPercent)

	out.TotalRegistrations = len(registrations)
	out.TotalTicketsSold = TicketsSold(registrations)
	if out.TotalEvents > 0 {
		out.AverageEventAttendance = float64(out.TotalRegistrations) / float64(out.TotalEvents)
	}
	out.RevenueTrends = MonthlyRevenueTrend(payments, now, revenueTrendMonths)

	response.OK(c, out)
}
