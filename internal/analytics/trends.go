package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/aurelius-events/backend/internal/models"
)

const dayKeyFormat = "2006-01-02"

// DailyPoint is one day's registration count in a trend series.
type DailyPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// MonthlyPoint is one month's revenue in a trend series. Month is the first
// day of the month in YYYY-MM-DD form.
type MonthlyPoint struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
}

// DailyRegistrationTrend buckets registrations into one-day windows and
// returns exactly `days` points ending at `now`, in chronological order.
// Days without registrations carry a zero count. Registrations with no
// timestamp, or outside the window, are excluded. `now` is captured once by
// the caller so the window stays stable across the whole computation.
func DailyRegistrationTrend(registrations []models.Registration, now time.Time, days int) []DailyPoint {
	start := now.AddDate(0, 0, -days)

	counts := make(map[string]int)
	for _, r := range registrations {
		if r.RegisteredAt == nil {
			continue
		}
		t := *r.RegisteredAt
		if !t.After(start) || !t.Before(now) {
			continue
		}
		counts[t.Format(dayKeyFormat)]++
	}

	trend := make([]DailyPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		key := now.AddDate(0, 0, -i).Format(dayKeyFormat)
		trend = append(trend, DailyPoint{Date: key, Count: counts[key]})
	}
	return trend
}

// MonthlyRevenueTrend buckets SUCCESS payment amounts by calendar month
// (keyed by the first day of the month) and returns exactly `months` points
// ending at now's month, in chronological order. Months without payments
// carry zero revenue; payments with no paid-at timestamp are excluded.
func MonthlyRevenueTrend(payments []models.Payment, now time.Time, months int) []MonthlyPoint {
	revenue := make(map[string]decimal.Decimal)
	for _, p := range payments {
		if p.Status != models.PaymentStatusSuccess || p.PaidAt == nil {
			continue
		}
		key := monthKey(*p.PaidAt)
		revenue[key] = revenue[key].Add(p.Amount)
	}

	// Step back from the first of the current month so month arithmetic never
	// overflows into a neighboring month (e.g. Mar 31 minus one month).
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	trend := make([]MonthlyPoint, 0, months)
	for i := months - 1; i >= 0; i-- {
		key := first.AddDate(0, -i, 0).Format(dayKeyFormat)
		amount, ok := revenue[key]
		if !ok {
			amount = decimal.Zero
		}
		trend = append(trend, MonthlyPoint{Month: key, Revenue: amount})
	}
	return trend
}

func monthKey(t time.Time) string {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).Format(dayKeyFormat)
}
