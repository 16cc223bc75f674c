package analytics

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/aurelius-events/backend/internal/models"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func successPayment(amount string) models.Payment {
	return models.Payment{Amount: dec(amount), Status: models.PaymentStatusSuccess}
}

func TestSummarizeEmptyInputs(t *testing.T) {
	got := Summarize(nil, nil, nil)

	if !got.TotalRevenue.Equal(decimal.Zero) {
		t.Errorf("TotalRevenue = %s, want 0", got.TotalRevenue)
	}
	if !got.Profit.Equal(decimal.Zero) {
		t.Errorf("Profit = %s, want 0", got.Profit)
	}
	if !got.Margin.Equal(decimal.Zero) {
		t.Errorf("Margin = %s, want 0", got.Margin)
	}
	if got.TotalTicketsSold != 0 || got.TotalRegistrations != 0 {
		t.Errorf("counts = %d/%d, want 0/0", got.TotalTicketsSold, got.TotalRegistrations)
	}
}

func TestSummarizeNoRevenueWithCosts(t *testing.T) {
	services := []models.EventServiceItem{{Rate: dec("150.00")}, {Rate: dec("75.50")}}

	got := Summarize(nil, services, nil)

	if !got.TotalServiceCosts.Equal(dec("225.50")) {
		t.Errorf("TotalServiceCosts = %s, want 225.50", got.TotalServiceCosts)
	}
	if !got.Profit.Equal(dec("-225.50")) {
		t.Errorf("Profit = %s, want -225.50", got.Profit)
	}
	if !got.Margin.Equal(decimal.Zero) {
		t.Errorf("Margin = %s, want 0 when revenue is zero", got.Margin)
	}
}

func TestSummarizeScenarioTwoRegistrations(t *testing.T) {
	payments := []models.Payment{successPayment("40.00"), successPayment("60.00")}
	registrations := []models.Registration{
		{Quantity: 2, Status: models.RegistrationStatusConfirmed},
		{Quantity: 3, Status: models.RegistrationStatusConfirmed},
	}

	got := Summarize(payments, nil, registrations)

	if !got.TotalRevenue.Equal(dec("100.00")) {
		t.Errorf("TotalRevenue = %s, want 100.00", got.TotalRevenue)
	}
	if got.TotalTicketsSold != 5 {
		t.Errorf("TotalTicketsSold = %d, want 5", got.TotalTicketsSold)
	}
	if !got.Profit.Equal(dec("100.00")) {
		t.Errorf("Profit = %s, want 100.00", got.Profit)
	}
	if !got.Margin.Equal(dec("100.00")) {
		t.Errorf("Margin = %s, want 100.00", got.Margin)
	}
}

func TestSumSuccessfulPaymentsSkipsOtherStatuses(t *testing.T) {
	payments := []models.Payment{
		successPayment("10.00"),
		{Amount: dec("99.99"), Status: models.PaymentStatusPending},
		{Amount: dec("50.00"), Status: models.PaymentStatusRefunded},
		successPayment("0.01"),
	}

	if got := SumSuccessfulPayments(payments); !got.Equal(dec("10.01")) {
		t.Errorf("SumSuccessfulPayments = %s, want 10.01", got)
	}
	if got := SumRefundedPayments(payments); !got.Equal(dec("50.00")) {
		t.Errorf("SumRefundedPayments = %s, want 50.00", got)
	}
}

func TestSumSuccessfulPaymentsOrderIndependent(t *testing.T) {
	a := []models.Payment{successPayment("0.10"), successPayment("0.20"), successPayment("0.30")}
	b := []models.Payment{successPayment("0.30"), successPayment("0.10"), successPayment("0.20")}

	if !SumSuccessfulPayments(a).Equal(SumSuccessfulPayments(b)) {
		t.Error("sum should not depend on payment order")
	}
	if !SumSuccessfulPayments(a).Equal(dec("0.60")) {
		t.Errorf("sum = %s, want 0.60 with no floating point drift", SumSuccessfulPayments(a))
	}
}

func TestMarginRounding(t *testing.T) {
	tests := []struct {
		name    string
		profit  string
		revenue string
		want    string
	}{
		{"half up at 2dp from 4dp intermediate", "50", "300", "16.67"},
		{"full margin", "100", "100", "100.00"},
		{"zero revenue", "-20", "0", "0"},
		{"negative revenue", "10", "-5", "0"},
		{"negative profit", "-50", "200", "-25.00"},
		{"one third", "1", "3", "33.33"},
		{"two thirds", "2", "3", "66.67"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Margin(dec(tt.profit), dec(tt.revenue))
			if !got.Equal(dec(tt.want)) {
				t.Errorf("Margin(%s, %s) = %s, want %s", tt.profit, tt.revenue, got, tt.want)
			}
		})
	}
}

func TestOrganizerAggregatedMargin(t *testing.T) {
	// Two events: revenue 500 / costs 100 and revenue 0 / costs 50. The
	// average margin comes from aggregated totals, not per-event averages.
	revenue := dec("500").Add(dec("0"))
	costs := dec("100").Add(dec("50"))
	profit := revenue.Sub(costs)

	if !profit.Equal(dec("350")) {
		t.Fatalf("profit = %s, want 350", profit)
	}
	if got := Margin(profit, revenue); !got.Equal(dec("70.00")) {
		t.Errorf("Margin = %s, want 70.00", got)
	}
}

func TestCountByStatusPartitions(t *testing.T) {
	registrations := []models.Registration{
		{Status: models.RegistrationStatusConfirmed},
		{Status: models.RegistrationStatusConfirmed},
		{Status: models.RegistrationStatusCancelled},
		{Status: models.RegistrationStatusPending},
		{Status: models.RegistrationStatusPending},
		{Status: models.RegistrationStatusPending},
	}

	counts := CountByStatus(registrations)

	if counts.Confirmed != 2 || counts.Cancelled != 1 || counts.Pending != 3 {
		t.Errorf("counts = %+v", counts)
	}
	if counts.Confirmed+counts.Cancelled+counts.Pending != counts.Total {
		t.Errorf("status counts %d+%d+%d do not partition total %d",
			counts.Confirmed, counts.Cancelled, counts.Pending, counts.Total)
	}
}

func TestTicketsSoldCountsAllStatuses(t *testing.T) {
	// Quantity is summed across every registration, cancelled and pending
	// included, matching how the platform has always reported it.
	registrations := []models.Registration{
		{Quantity: 2, Status: models.RegistrationStatusConfirmed},
		{Quantity: 4, Status: models.RegistrationStatusCancelled},
		{Quantity: 1, Status: models.RegistrationStatusPending},
	}

	if got := TicketsSold(registrations); got != 7 {
		t.Errorf("TicketsSold = %d, want 7", got)
	}
}

func TestAttendanceRate(t *testing.T) {
	if got := AttendanceRate(3, 4); got != 75 {
		t.Errorf("AttendanceRate(3, 4) = %f, want 75", got)
	}
	if got := AttendanceRate(0, 0); got != 0 {
		t.Errorf("AttendanceRate(0, 0) = %f, want 0", got)
	}
}

func TestCommission(t *testing.T) {
	if got := Commission(dec("1234.56"), 10); !got.Equal(dec("123.46")) {
		t.Errorf("Commission = %s, want 123.46", got)
	}
	if got := Commission(decimal.Zero, 10); !got.Equal(decimal.Zero) {
		t.Errorf("Commission = %s, want 0", got)
	}
}
