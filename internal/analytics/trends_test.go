package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/aurelius-events/backend/internal/models"
)

func regAt(t time.Time) models.Registration {
	return models.Registration{RegisteredAt: &t}
}

func TestDailyRegistrationTrendExactLength(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	points := DailyRegistrationTrend(nil, now, 30)

	if len(points) != 30 {
		t.Fatalf("len = %d, want 30", len(points))
	}
	for _, p := range points {
		if p.Count != 0 {
			t.Errorf("empty input produced count %d on %s", p.Count, p.Date)
		}
	}
	if points[0].Date != "2026-02-14" {
		t.Errorf("first bucket = %s, want 2026-02-14", points[0].Date)
	}
	if points[29].Date != "2026-03-15" {
		t.Errorf("last bucket = %s, want 2026-03-15", points[29].Date)
	}
}

func TestDailyRegistrationTrendBucketsAndWindow(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	regs := []models.Registration{
		regAt(time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)),
		regAt(time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)),
		regAt(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)),
		// outside the 30 day window
		regAt(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
		// in the future relative to now
		regAt(time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)),
		// nil timestamp is skipped, not bucketed
		{RegisteredAt: nil},
	}

	points := DailyRegistrationTrend(regs, now, 30)

	counts := map[string]int{}
	total := 0
	for _, p := range points {
		counts[p.Date] = p.Count
		total += p.Count
	}
	if counts["2026-03-14"] != 2 {
		t.Errorf("2026-03-14 count = %d, want 2", counts["2026-03-14"])
	}
	if counts["2026-03-01"] != 1 {
		t.Errorf("2026-03-01 count = %d, want 1", counts["2026-03-01"])
	}
	if total != 3 {
		t.Errorf("total bucketed = %d, want 3 (out of window and nil excluded)", total)
	}
}

func TestDailyRegistrationTrendAscending(t *testing.T) {
	now := time.Date(2026, 8, 31, 23, 59, 0, 0, time.UTC)

	points := DailyRegistrationTrend(nil, now, 7)

	for i := 1; i < len(points); i++ {
		if points[i-1].Date >= points[i].Date {
			t.Fatalf("dates not ascending: %s then %s", points[i-1].Date, points[i].Date)
		}
	}
}

func TestMonthlyRevenueTrendExactLength(t *testing.T) {
	now := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)

	points := MonthlyRevenueTrend(nil, now, 12)

	if len(points) != 12 {
		t.Fatalf("len = %d, want 12", len(points))
	}
	for _, p := range points {
		if !p.Revenue.Equal(decimal.Zero) {
			t.Errorf("empty input produced revenue %s in %s", p.Revenue, p.Month)
		}
	}
	if points[0].Month != "2025-07-01" {
		t.Errorf("first bucket = %s, want 2025-07-01", points[0].Month)
	}
	if points[11].Month != "2026-06-01" {
		t.Errorf("last bucket = %s, want 2026-06-01", points[11].Month)
	}
}

func TestMonthlyRevenueTrendGroupsSuccessOnly(t *testing.T) {
	now := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	paid := func(y int, m time.Month, amount string, status string) models.Payment {
		at := time.Date(y, m, 5, 10, 0, 0, 0, time.UTC)
		return models.Payment{Amount: dec(amount), Status: status, PaidAt: &at}
	}
	payments := []models.Payment{
		paid(2026, time.May, "100.00", models.PaymentStatusSuccess),
		paid(2026, time.May, "25.50", models.PaymentStatusSuccess),
		paid(2026, time.May, "99.00", models.PaymentStatusRefunded),
		paid(2026, time.June, "10.00", models.PaymentStatusSuccess),
		{Amount: dec("40.00"), Status: models.PaymentStatusSuccess, PaidAt: nil},
	}

	points := MonthlyRevenueTrend(payments, now, 12)

	byMonth := map[string]decimal.Decimal{}
	for _, p := range points {
		byMonth[p.Month] = p.Revenue
	}
	if !byMonth["2026-05-01"].Equal(dec("125.50")) {
		t.Errorf("2026-05-01 revenue = %s, want 125.50", byMonth["2026-05-01"])
	}
	if !byMonth["2026-06-01"].Equal(dec("10.00")) {
		t.Errorf("2026-06-01 revenue = %s, want 10.00", byMonth["2026-06-01"])
	}
	if !byMonth["2026-04-01"].Equal(decimal.Zero) {
		t.Errorf("2026-04-01 revenue = %s, want 0", byMonth["2026-04-01"])
	}
}

func TestMonthlyRevenueTrendMonthEndAnchor(t *testing.T) {
	// Anchoring on the last day of a long month must still step back one
	// calendar month per bucket.
	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)

	points := MonthlyRevenueTrend(nil, now, 3)

	want := []string{"2026-01-01", "2026-02-01", "2026-03-01"}
	for i, p := range points {
		if p.Month != want[i] {
			t.Errorf("bucket %d = %s, want %s", i, p.Month, want[i])
		}
	}
}
