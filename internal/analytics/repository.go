package analytics

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aurelius-events/backend/internal/models"
)

// Repository fetches the entity collections the aggregation engine reduces.
// Each method is an independent query; a dashboard computation composed of
// several calls reads without a shared snapshot (documented weak consistency).
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an analytics repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// RegistrationsByEvent returns all registrations for an event.
func (r *Repository) RegistrationsByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Registration, error) {
	const q = `SELECT id, user_id, event_id, ticket_id, quantity, total_amount, status, qr_code, registered_at
		FROM registrations WHERE event_id = $1`
	rows, err := r.pool.Query(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRegistrations(rows)
}

// AllRegistrations returns every registration on the platform.
func (r *Repository) AllRegistrations(ctx context.Context) ([]models.Registration, error) {
	const q = `SELECT id, user_id, event_id, ticket_id, quantity, total_amount, status, qr_code, registered_at
		FROM registrations`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRegistrations(rows)
}

// SuccessfulPaymentsByEvent returns SUCCESS payments whose registration
// belongs to the event.
func (r *Repository) SuccessfulPaymentsByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Payment, error) {
	const q = `SELECT p.id, p.registration_id, p.amount, p.currency, p.payment_method, p.transaction_id, p.status, p.paid_at, p.created_at
		FROM payments p
		INNER JOIN registrations r ON r.id = p.registration_id
		WHERE r.event_id = $1 AND p.status = $2`
	rows, err := r.pool.Query(ctx, q, eventID, models.PaymentStatusSuccess)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPayments(rows)
}

// AllPayments returns every payment on the platform, any status.
func (r *Repository) AllPayments(ctx context.Context) ([]models.Payment, error) {
	const q = `SELECT id, registration_id, amount, currency, payment_method, transaction_id, status, paid_at, created_at
		FROM payments`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPayments(rows)
}

// ServicesByEvent returns the vendor services attached to an event.
func (r *Repository) ServicesByEvent(ctx context.Context, eventID uuid.UUID) ([]models.EventServiceItem, error) {
	const q = `SELECT id, event_id, service_type_id, vendor_id, rate, notes, created_at, updated_at
		FROM event_services WHERE event_id = $1`
	rows, err := r.pool.Query(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.EventServiceItem
	for rows.Next() {
		var s models.EventServiceItem
		if err := rows.Scan(&s.ID, &s.EventID, &s.ServiceTypeID, &s.VendorID, &s.Rate, &s.Notes, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// EventsByOrganizer returns all events created by the organizer.
func (r *Repository) EventsByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]models.Event, error) {
	const q = `SELECT id, title, description, organizer_id, venue_id, category_id, start_date_time, end_date_time,
		capacity, status, visibility, image_url, created_at, updated_at
		FROM events WHERE organizer_id = $1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q, organizerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

// AllEvents returns every event on the platform.
func (r *Repository) AllEvents(ctx context.Context) ([]models.Event, error) {
	const q = `SELECT id, title, description, organizer_id, venue_id, category_id, start_date_time, end_date_time,
		capacity, status, visibility, image_url, created_at, updated_at
		FROM events`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

// AllUsers returns every user on the platform.
func (r *Repository) AllUsers(ctx context.Context) ([]models.User, error) {
	const q = `SELECT id, email, password_hash, first_name, last_name, role, status, created_at, updated_at FROM users`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// EventByID returns one event, or nil when absent.
func (r *Repository) EventByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	const q = `SELECT id, title, description, organizer_id, venue_id, category_id, start_date_time, end_date_time,
		capacity, status, visibility, image_url, created_at, updated_at
		FROM events WHERE id = $1`
	var e models.Event
	err := r.pool.QueryRow(ctx, q, id).Scan(&e.ID, &e.Title, &e.Description, &e.OrganizerID, &e.VenueID, &e.CategoryID,
		&e.StartDateTime, &e.EndDateTime, &e.Capacity, &e.Status, &e.Visibility, &e.ImageURL, &e.CreatedAt, &e.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// UserByID returns one user, or nil when absent.
func (r *Repository) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	const q = `SELECT id, email, password_hash, first_name, last_name, role, status, created_at, updated_at
		FROM users WHERE id = $1`
	var u models.User
	err := r.pool.QueryRow(ctx, q, id).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// TicketsByEvent returns all ticket tiers for an event.
func (r *Repository) TicketsByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Ticket, error) {
	const q = `SELECT id, event_id, name, description, price, quantity, sold, sale_start_date, sale_end_date, status, created_at, updated_at
		FROM tickets WHERE event_id = $1`
	rows, err := r.pool.Query(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.Ticket
	for rows.Next() {
		var t models.Ticket
		if err := rows.Scan(&t.ID, &t.EventID, &t.Name, &t.Description, &t.Price, &t.Quantity, &t.Sold, &t.SaleStartDate, &t.SaleEndDate, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// CategoryCount is the number of events filed under one category.
type CategoryCount struct {
	CategoryID   uuid.UUID `json:"category_id"`
	CategoryName string    `json:"category_name"`
	EventCount   int       `json:"event_count"`
}

// EventsByCategory returns per-category event counts, skipping uncategorized events.
func (r *Repository) EventsByCategory(ctx context.Context) ([]CategoryCount, error) {
	const q = `SELECT c.id, c.name, COUNT(e.id)
		FROM categories c
		INNER JOIN events e ON e.category_id = c.id
		GROUP BY c.id, c.name
		ORDER BY COUNT(e.id) DESC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []CategoryCount
	for rows.Next() {
		var cc CategoryCount
		if err := rows.Scan(&cc.CategoryID, &cc.CategoryName, &cc.EventCount); err != nil {
			return nil, err
		}
		list = append(list, cc)
	}
	return list, rows.Err()
}

func scanRegistrations(rows pgx.Rows) ([]models.Registration, error) {
	var list []models.Registration
	for rows.Next() {
		var reg models.Registration
		if err := rows.Scan(&reg.ID, &reg.UserID, &reg.EventID, &reg.TicketID, &reg.Quantity, &reg.TotalAmount, &reg.Status, &reg.QRCode, &reg.RegisteredAt); err != nil {
			return nil, err
		}
		list = append(list, reg)
	}
	return list, rows.Err()
}

func scanPayments(rows pgx.Rows) ([]models.Payment, error) {
	var list []models.Payment
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.RegistrationID, &p.Amount, &p.Currency, &p.PaymentMethod, &p.TransactionID, &p.Status, &p.PaidAt, &p.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func scanEvents(rows pgx.Rows) ([]models.Event, error) {
	var list []models.Event
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.OrganizerID, &e.VenueID, &e.CategoryID, &e.StartDateTime, &e.EndDateTime, &e.Capacity, &e.Status, &e.Visibility, &e.ImageURL, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}
