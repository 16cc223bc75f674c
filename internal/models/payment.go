package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment statuses. Only SUCCESS payments count toward revenue.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusSuccess  = "success"
	PaymentStatusRefunded = "refunded"
)

// Payment is a captured (or attempted) charge for a registration.
// PaidAt is set when the payment reaches SUCCESS.
type Payment struct {
	ID             uuid.UUID       `json:"id"`
	RegistrationID uuid.UUID       `json:"registration_id"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	PaymentMethod  string          `json:"payment_method,omitempty"`
	TransactionID  string          `json:"transaction_id,omitempty"`
	Status         string          `json:"status"`
	PaidAt         *time.Time      `json:"paid_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}
