package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ticket statuses.
const (
	TicketStatusAvailable = "available"
	TicketStatusSoldOut   = "sold_out"
	TicketStatusClosed    = "closed"
)

// Ticket is a priced admission tier for an event. Invariant: Sold <= Quantity.
type Ticket struct {
	ID            uuid.UUID       `json:"id"`
	EventID       uuid.UUID       `json:"event_id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	Quantity      int             `json:"quantity"`
	Sold          int             `json:"sold"`
	SaleStartDate *time.Time      `json:"sale_start_date,omitempty"`
	SaleEndDate   *time.Time      `json:"sale_end_date,omitempty"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
