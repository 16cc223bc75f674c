package reports

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestBuildInvoicePDF(t *testing.T) {
	pdf, err := BuildInvoicePDF(InvoiceData{
		InvoiceNumber: "INV-20260520-AB12CD34",
		IssuedAt:      time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC),
		BillTo:        "Ada Lovelace",
		BillToEmail:   "ada@example.com",
		EventTitle:    "GopherCon",
		TicketType:    "VIP",
		Quantity:      2,
		Amount:        decimal.RequireFromString("150.50"),
		Currency:      "USD",
		PaymentMethod: "card",
		TransactionID: "txn-42",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Errorf("output does not start with PDF magic bytes")
	}
}

func TestBuildEventReportPDF(t *testing.T) {
	pdf, err := BuildEventReportPDF(EventReportData{
		EventTitle:         "GopherCon",
		GeneratedAt:        time.Now(),
		TotalRegistrations: 10,
		ConfirmedCount:     7,
		CancelledCount:     2,
		PendingCount:       1,
		TotalTicketsSold:   15,
		TotalRevenue:       decimal.RequireFromString("1500.00"),
		TotalServiceCosts:  decimal.RequireFromString("450.00"),
		Profit:             decimal.RequireFromString("1050.00"),
		Margin:             decimal.RequireFromString("70.00"),
		Currency:           "USD",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Errorf("output does not start with PDF magic bytes")
	}
}
