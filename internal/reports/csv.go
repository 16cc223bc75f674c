// Package reports renders event data as CSV and PDF exports and serves the
// download endpoints.
package reports

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

const timeLayout = "2006-01-02 15:04:05"

// RegistrationRow is one line of a registrations export, enriched with
// attendee and ticket details.
type RegistrationRow struct {
	RegistrationID string
	UserName       string
	Email          string
	TicketType     string
	Quantity       int
	TotalAmount    decimal.Decimal
	Status         string
	RegisteredAt   *time.Time
}

// PaymentRow is one line of a payments export.
type PaymentRow struct {
	PaymentID      string
	RegistrationID string
	Amount         decimal.Decimal
	Currency       string
	PaymentMethod  string
	TransactionID  string
	Status         string
	PaidAt         *time.Time
}

var registrationHeader = []string{
	"Registration ID", "User Name", "Email", "Ticket Type",
	"Quantity", "Total Amount", "Status", "Registered At",
}

var paymentHeader = []string{
	"Payment ID", "Registration ID", "Amount", "Currency",
	"Payment Method", "Transaction ID", "Status", "Paid At",
}

// WriteRegistrationsCSV writes the header row followed by one row per
// registration. Amounts are fixed to two decimal places; nil timestamps
// render as an empty cell.
func WriteRegistrationsCSV(w io.Writer, rows []RegistrationRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(registrationHeader); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.RegistrationID,
			r.UserName,
			r.Email,
			r.TicketType,
			strconv.Itoa(r.Quantity),
			r.TotalAmount.StringFixed(2),
			r.Status,
			formatTime(r.RegisteredAt),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePaymentsCSV writes the header row followed by one row per payment.
func WritePaymentsCSV(w io.Writer, rows []PaymentRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(paymentHeader); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.PaymentID,
			r.RegistrationID,
			r.Amount.StringFixed(2),
			r.Currency,
			r.PaymentMethod,
			r.TransactionID,
			r.Status,
			formatTime(r.PaidAt),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(timeLayout)
}
