package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Registration statuses.
const (
	RegistrationStatusPending   = "pending"
	RegistrationStatusConfirmed = "confirmed"
	RegistrationStatusCancelled = "cancelled"
)

// Registration is an attendee's booking for an event, optionally tied to a ticket tier.
// TotalAmount = ticket price x quantity when a ticket is present.
type Registration struct {
	ID           uuid.UUID       `json:"id"`
	UserID       uuid.UUID       `json:"user_id"`
	EventID      uuid.UUID       `json:"event_id"`
	TicketID     *uuid.UUID      `json:"ticket_id,omitempty"`
	Quantity     int             `json:"quantity"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Status       string          `json:"status"`
	QRCode       string          `json:"qr_code,omitempty"`
	RegisteredAt *time.Time      `json:"registered_at,omitempty"`
}
