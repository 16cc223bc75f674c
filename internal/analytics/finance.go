// Package analytics computes financial summaries and time-series trends over
// event, registration, payment, and service collections. All aggregation is
// pure: functions take entity slices already fetched by the caller, never
// mutate them, and return zero-valued summaries for empty input.
package analytics

import (
	"github.com/shopspring/decimal"

	"github.com/aurelius-events/backend/internal/models"
)

var hundred = decimal.NewFromInt(100)

// FinancialSummary holds revenue, cost, profit, and margin for a scope
// (one event, one organizer's events, or the whole platform).
type FinancialSummary struct {
	TotalRevenue       decimal.Decimal `json:"total_revenue"`
	TotalServiceCosts  decimal.Decimal `json:"total_service_costs"`
	Profit             decimal.Decimal `json:"profit"`
	Margin             decimal.Decimal `json:"margin"`
	TotalTicketsSold   int             `json:"total_tickets_sold"`
	TotalRegistrations int             `json:"total_registrations"`
}

// RegistrationCounts partitions registrations by status. The three counts
// always sum to Total.
type RegistrationCounts struct {
	Total     int `json:"total"`
	Confirmed int `json:"confirmed"`
	Cancelled int `json:"cancelled"`
	Pending   int `json:"pending"`
}

// Summarize reduces a scope's payments, event services, and registrations to
// a financial summary. Only SUCCESS payments contribute to revenue; tickets
// sold sums registration quantity across all statuses, mirroring how the
// rest of the platform reports it (see README on the sold-count caveat).
func Summarize(payments []models.Payment, services []models.EventServiceItem, registrations []models.Registration) FinancialSummary {
	revenue := SumSuccessfulPayments(payments)
	costs := SumServiceCosts(services)
	profit := revenue.Sub(costs)

	return FinancialSummary{
		TotalRevenue:       revenue,
		TotalServiceCosts:  costs,
		Profit:             profit,
		Margin:             Margin(profit, revenue),
		TotalTicketsSold:   TicketsSold(registrations),
		TotalRegistrations: len(registrations),
	}
}

// SumSuccessfulPayments returns the exact decimal sum of SUCCESS payment
// amounts. Order-independent; non-successful payments are skipped.
func SumSuccessfulPayments(payments []models.Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		if p.Status == models.PaymentStatusSuccess {
			total = total.Add(p.Amount)
		}
	}
	return total
}

// SumRefundedPayments returns the sum of REFUNDED payment amounts.
func SumRefundedPayments(payments []models.Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		if p.Status == models.PaymentStatusRefunded {
			total = total.Add(p.Amount)
		}
	}
	return total
}

// SumServiceCosts returns the sum of event service rates.
func SumServiceCosts(services []models.EventServiceItem) decimal.Decimal {
	total := decimal.Zero
	for _, s := range services {
		total = total.Add(s.Rate)
	}
	return total
}

// Margin returns profit as a percentage of revenue: the ratio is taken at
// 4 decimal places half-up, multiplied by 100, then rounded to 2 decimal
// places half-up. When revenue is zero or negative the margin is exactly 0,
// avoiding division by zero.
func Margin(profit, revenue decimal.Decimal) decimal.Decimal {
	if revenue.Cmp(decimal.Zero) <= 0 {
		return decimal.Zero
	}
	return profit.DivRound(revenue, 4).Mul(hundred).Round(2)
}

// TicketsSold sums registration quantities regardless of status.
func TicketsSold(registrations []models.Registration) int {
	total := 0
	for _, r := range registrations {
		total += r.Quantity
	}
	return total
}

// CountByStatus partitions registrations into confirmed, cancelled, and
// pending counts by exact status equality.
func CountByStatus(registrations []models.Registration) RegistrationCounts {
	counts := RegistrationCounts{Total: len(registrations)}
	for _, r := range registrations {
		switch r.Status {
		case models.RegistrationStatusConfirmed:
			counts.Confirmed++
		case models.RegistrationStatusCancelled:
			counts.Cancelled++
		case models.RegistrationStatusPending:
			counts.Pending++
		}
	}
	return counts
}

// AttendanceRate returns checkedIn/total x 100 as a float percentage, or 0
// when there are no registrations. Check-in is approximated by the confirmed
// registration count; there is no independent check-in record.
func AttendanceRate(checkedIn, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(checkedIn) / float64(total) * 100
}

// Commission returns the platform's cut of revenue at the given whole
// percentage, rounded to 2 decimal places half-up.
func Commission(revenue decimal.Decimal, percent int) decimal.Decimal {
	return revenue.Mul(decimal.NewFromInt(int64(percent))).Div(hundred).Round(2)
}
