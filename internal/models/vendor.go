package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ServiceType is a kind of event service (e.g. "Photography", "Catering").
type ServiceType struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Vendor is a provider of one service type. Invariant: an event service
// referencing the vendor must use the vendor's service type.
type Vendor struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	ContactEmail  string          `json:"contact_email,omitempty"`
	ContactPhone  string          `json:"contact_phone,omitempty"`
	ServiceTypeID uuid.UUID       `json:"service_type_id"`
	BaseRate      decimal.Decimal `json:"base_rate"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// EventServiceItem attaches a vendor service to an event at an agreed rate.
// The rate may differ from the vendor's base rate.
type EventServiceItem struct {
	ID            uuid.UUID       `json:"id"`
	EventID       uuid.UUID       `json:"event_id"`
	ServiceTypeID uuid.UUID       `json:"service_type_id"`
	VendorID      uuid.UUID       `json:"vendor_id"`
	Rate          decimal.Decimal `json:"rate"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
