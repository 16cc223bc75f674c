package models

import (
	"time"

	"github.com/google/uuid"
)

// Event statuses.
const (
	EventStatusDraft     = "draft"
	EventStatusPublished = "published"
	EventStatusCancelled = "cancelled"
	EventStatusCompleted = "completed"
)

// Event visibility.
const (
	EventVisibilityPublic  = "public"
	EventVisibilityPrivate = "private"
)

// Event is an organizer-created event attendees can register for.
type Event struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	OrganizerID   uuid.UUID  `json:"organizer_id"`
	VenueID       *uuid.UUID `json:"venue_id,omitempty"`
	CategoryID    *uuid.UUID `json:"category_id,omitempty"`
	StartDateTime time.Time  `json:"start_date_time"`
	EndDateTime   time.Time  `json:"end_date_time"`
	Capacity      int        `json:"capacity"`
	Status        string     `json:"status"`
	Visibility    string     `json:"visibility"`
	ImageURL      string     `json:"image_url,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Category groups events (e.g. "Music", "Tech Conference").
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Venue is a physical location events take place at.
type Venue struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	City      string    `json:"city,omitempty"`
	Capacity  int       `json:"capacity"`
	CreatedAt time.Time `json:"created_at"`
}
