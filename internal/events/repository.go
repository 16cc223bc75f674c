package events

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aurelius-events/backend/internal/models"
)

const eventColumns = `id, title, description, organizer_id, venue_id, category_id,
	start_date_time, end_date_time, capacity, status, visibility, image_url,
	created_at, updated_at`

// Repository provides event, category and venue persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an event repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts an event and fills in generated fields.
func (r *Repository) Create(ctx context.Context, e *models.Event) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO events (title, description, organizer_id, venue_id, category_id,
			start_date_time, end_date_time, capacity, status, visibility, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`,
		e.Title, e.Description, e.OrganizerID, e.VenueID, e.CategoryID,
		e.StartDateTime, e.EndDateTime, e.Capacity, e.Status, e.Visibility, e.ImageURL,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

// GetByID returns an event, or nil when it does not exist.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	var e models.Event
	err := r.pool.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = $1`, id,
	).Scan(&e.ID, &e.Title, &e.Description, &e.OrganizerID, &e.VenueID, &e.CategoryID,
		&e.StartDateTime, &e.EndDateTime, &e.Capacity, &e.Status, &e.Visibility,
		&e.ImageURL, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Update persists mutable event fields.
func (r *Repository) Update(ctx context.Context, e *models.Event) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE events SET title = $2, description = $3, venue_id = $4, category_id = $5,
			start_date_time = $6, end_date_time = $7, capacity = $8, status = $9,
			visibility = $10, image_url = $11, updated_at = NOW()
		WHERE id = $1`,
		e.ID, e.Title, e.Description, e.VenueID, e.CategoryID,
		e.StartDateTime, e.EndDateTime, e.Capacity, e.Status, e.Visibility, e.ImageURL)
	return err
}

// UpdateStatus sets only the event status.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE events SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	return err
}

// Delete removes an event.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	return err
}

// SearchFilter narrows List results. Zero values mean no filtering.
type SearchFilter struct {
	Query      string
	CategoryID *uuid.UUID
	Status     string
	Visibility string
	City       string
}

// List returns events matching the filter, newest first.
func (r *Repository) List(ctx context.Context, f SearchFilter) ([]models.Event, error) {
	var (
		where []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.Query != "" {
		p := arg("%" + f.Query + "%")
		where = append(where, fmt.Sprintf("(e.title ILIKE %s OR e.description ILIKE %s)", p, p))
	}
	if f.CategoryID != nil {
		where = append(where, "e.category_id = "+arg(*f.CategoryID))
	}
	if f.Status != "" {
		where = append(where, "e.status = "+arg(f.Status))
	}
	if f.Visibility != "" {
		where = append(where, "e.visibility = "+arg(f.Visibility))
	}
	if f.City != "" {
		where = append(where, "e.venue_id IN (SELECT id FROM venues WHERE city ILIKE "+arg(f.City)+")")
	}

	query := `SELECT e.id, e.title, e.description, e.organizer_id, e.venue_id, e.category_id,
		e.start_date_time, e.end_date_time, e.capacity, e.status, e.visibility, e.image_url,
		e.created_at, e.updated_at FROM events e`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY e.created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

// ListByOrganizer returns the organizer's events, newest first.
func (r *Repository) ListByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]models.Event, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+eventColumns+` FROM events WHERE organizer_id = $1 ORDER BY created_at DESC`,
		organizerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

// ListUpcomingPublic returns published public events that have not started yet,
// soonest first.
func (r *Repository) ListUpcomingPublic(ctx context.Context) ([]models.Event, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+eventColumns+` FROM events
		WHERE status = $1 AND visibility = $2 AND start_date_time > NOW()
		ORDER BY start_date_time ASC`,
		models.EventStatusPublished, models.EventVisibilityPublic)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

func scanEvents(rows pgx.Rows) ([]models.Event, error) {
	var out []models.Event
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.OrganizerID, &e.VenueID,
			&e.CategoryID, &e.StartDateTime, &e.EndDateTime, &e.Capacity, &e.Status,
			&e.Visibility, &e.ImageURL, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ListCategories returns all categories by name.
func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, description, created_at FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CreateCategory inserts a category.
func (r *Repository) CreateCategory(ctx context.Context, cat *models.Category) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO categories (name, description) VALUES ($1, $2) RETURNING id, created_at`,
		cat.Name, cat.Description,
	).Scan(&cat.ID, &cat.CreatedAt)
}

// ListVenues returns all venues by name.
func (r *Repository) ListVenues(ctx context.Context) ([]models.Venue, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, address, city, capacity, created_at FROM venues ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Venue
	for rows.Next() {
		var v models.Venue
		if err := rows.Scan(&v.ID, &v.Name, &v.Address, &v.City, &v.Capacity, &v.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// CreateVenue inserts a venue.
func (r *Repository) CreateVenue(ctx context.Context, v *models.Venue) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO venues (name, address, city, capacity) VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		v.Name, v.Address, v.City, v.Capacity,
	).Scan(&v.ID, &v.CreatedAt)
}

// AddService attaches a vendor service to an event.
func (r *Repository) AddService(ctx context.Context, s *models.EventServiceItem) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO event_services (event_id, service_type_id, vendor_id, rate, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`,
		s.EventID, s.ServiceTypeID, s.VendorID, s.Rate, s.Notes,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

// ListServices returns the services attached to an event.
func (r *Repository) ListServices(ctx context.Context, eventID uuid.UUID) ([]models.EventServiceItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, event_id, service_type_id, vendor_id, rate, notes, created_at, updated_at
		FROM event_services WHERE event_id = $1 ORDER BY created_at`,
		eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.EventServiceItem
	for rows.Next() {
		var s models.EventServiceItem
		if err := rows.Scan(&s.ID, &s.EventID, &s.ServiceTypeID, &s.VendorID, &s.Rate,
			&s.Notes, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// RemoveService detaches a service from an event. Returns false when the
// service does not belong to the event.
func (r *Repository) RemoveService(ctx context.Context, eventID, serviceID uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM event_services WHERE id = $1 AND event_id = $2`, serviceID, eventID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
