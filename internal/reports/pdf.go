package reports

import (
	"bytes"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// InvoiceData carries everything the invoice PDF renders.
type InvoiceData struct {
	InvoiceNumber string
	IssuedAt      time.Time
	BillTo        string
	BillToEmail   string
	EventTitle    string
	TicketType    string
	Quantity      int
	Amount        decimal.Decimal
	Currency      string
	PaymentMethod string
	TransactionID string
}

// BuildInvoicePDF renders a one-page invoice.
func BuildInvoicePDF(data InvoiceData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice "+data.InvoiceNumber, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.Cell(0, 12, "INVOICE")
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, "Invoice Number: "+data.InvoiceNumber)
	pdf.Ln(6)
	pdf.Cell(0, 6, "Issued: "+data.IssuedAt.UTC().Format("2 Jan 2006"))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 6, "Billed To")
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, data.BillTo)
	pdf.Ln(6)
	if data.BillToEmail != "" {
		pdf.Cell(0, 6, data.BillToEmail)
		pdf.Ln(6)
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(90, 8, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(25, 8, "Qty", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 8, "Amount", "1", 0, "R", true, 0, "")
	pdf.CellFormat(25, 8, "Currency", "1", 1, "L", true, 0, "")

	description := data.EventTitle
	if data.TicketType != "" {
		description += " - " + data.TicketType
	}
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(90, 8, description, "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 8, itoa(data.Quantity), "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, data.Amount.StringFixed(2), "1", 0, "R", false, 0, "")
	pdf.CellFormat(25, 8, data.Currency, "1", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(115, 8, "Total", "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, data.Amount.StringFixed(2)+" "+data.Currency, "", 1, "R", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 9)
	if data.PaymentMethod != "" {
		pdf.Cell(0, 5, "Payment Method: "+data.PaymentMethod)
		pdf.Ln(5)
	}
	if data.TransactionID != "" {
		pdf.Cell(0, 5, "Transaction: "+data.TransactionID)
		pdf.Ln(5)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EventReportData carries the figures the event summary PDF renders.
type EventReportData struct {
	EventTitle         string
	GeneratedAt        time.Time
	TotalRegistrations int
	ConfirmedCount     int
	CancelledCount     int
	PendingCount       int
	TotalTicketsSold   int
	TotalRevenue       decimal.Decimal
	TotalServiceCosts  decimal.Decimal
	Profit             decimal.Decimal
	Margin             decimal.Decimal
	Currency           string
}

// BuildEventReportPDF renders a one-page financial and attendance summary.
func BuildEventReportPDF(data EventReportData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Event Report - "+data.EventTitle, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Event Report")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, data.EventTitle)
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 5, "Generated "+data.GeneratedAt.UTC().Format("2 Jan 2006 15:04 MST"))
	pdf.Ln(12)

	row := func(label, value string) {
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(70, 8, label, "B", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(60, 8, value, "B", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Registrations")
	pdf.Ln(9)
	row("Total", itoa(data.TotalRegistrations))
	row("Confirmed", itoa(data.ConfirmedCount))
	row("Pending", itoa(data.PendingCount))
	row("Cancelled", itoa(data.CancelledCount))
	row("Tickets Sold", itoa(data.TotalTicketsSold))
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Financials")
	pdf.Ln(9)
	row("Total Revenue", data.TotalRevenue.StringFixed(2)+" "+data.Currency)
	row("Service Costs", data.TotalServiceCosts.StringFixed(2)+" "+data.Currency)
	row("Profit", data.Profit.StringFixed(2)+" "+data.Currency)
	row("Margin", data.Margin.StringFixed(2)+" %")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func itoa(n int) string { return strconv.Itoa(n) }
