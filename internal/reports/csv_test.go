package reports

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestWriteRegistrationsCSVHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRegistrationsCSV(&buf, nil); err != nil {
		t.Fatal(err)
	}
	got := strings.TrimRight(buf.String(), "\n")
	want := "Registration ID,User Name,Email,Ticket Type,Quantity,Total Amount,Status,Registered At"
	if got != want {
		t.Errorf("header = %q, want %q", got, want)
	}
}

func TestWriteRegistrationsCSVRows(t *testing.T) {
	registeredAt := time.Date(2026, 5, 20, 14, 30, 0, 0, time.UTC)
	rows := []RegistrationRow{
		{
			RegistrationID: "r-1",
			UserName:       "Ada Lovelace",
			Email:          "ada@example.com",
			TicketType:     "VIP",
			Quantity:       2,
			TotalAmount:    decimal.RequireFromString("150.5"),
			Status:         "confirmed",
			RegisteredAt:   &registeredAt,
		},
		{
			RegistrationID: "r-2",
			UserName:       "Grace Hopper",
			Email:          "grace@example.com",
			Quantity:       1,
			TotalAmount:    decimal.Zero,
			Status:         "pending",
			RegisteredAt:   nil,
		},
	}

	var buf bytes.Buffer
	if err := WriteRegistrationsCSV(&buf, rows); err != nil {
		t.Fatal(err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want header + 2 rows", len(records))
	}
	first := records[1]
	if first[4] != "2" {
		t.Errorf("quantity cell = %q, want 2", first[4])
	}
	if first[5] != "150.50" {
		t.Errorf("amount cell = %q, want two decimal places", first[5])
	}
	if first[7] != "2026-05-20 14:30:00" {
		t.Errorf("registered at cell = %q", first[7])
	}
	second := records[2]
	if second[3] != "" {
		t.Errorf("ticket type cell = %q, want empty for general registration", second[3])
	}
	if second[7] != "" {
		t.Errorf("registered at cell = %q, want empty for nil timestamp", second[7])
	}
}

func TestWritePaymentsCSV(t *testing.T) {
	paidAt := time.Date(2026, 5, 21, 9, 0, 0, 0, time.UTC)
	rows := []PaymentRow{
		{
			PaymentID:      "p-1",
			RegistrationID: "r-1",
			Amount:         decimal.RequireFromString("99.9"),
			Currency:       "USD",
			PaymentMethod:  "card",
			TransactionID:  "txn-42",
			Status:         "success",
			PaidAt:         &paidAt,
		},
	}

	var buf bytes.Buffer
	if err := WritePaymentsCSV(&buf, rows); err != nil {
		t.Fatal(err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	wantHeader := []string{"Payment ID", "Registration ID", "Amount", "Currency",
		"Payment Method", "Transaction ID", "Status", "Paid At"}
	for i, col := range wantHeader {
		if records[0][i] != col {
			t.Errorf("header[%d] = %q, want %q", i, records[0][i], col)
		}
	}
	row := records[1]
	if row[2] != "99.90" {
		t.Errorf("amount cell = %q, want 99.90", row[2])
	}
	if row[7] != "2026-05-21 09:00:00" {
		t.Errorf("paid at cell = %q", row[7])
	}
}
