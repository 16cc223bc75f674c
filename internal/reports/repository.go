package reports

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository loads the enriched rows the exports render.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a reports repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// RegistrationRows returns one row per registration for an event, joined with
// attendee and ticket details, oldest first.
func (r *Repository) RegistrationRows(ctx context.Context, eventID uuid.UUID) ([]RegistrationRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT reg.id, u.first_name || ' ' || u.last_name, u.email,
			COALESCE(t.name, ''), reg.quantity, reg.total_amount, reg.status, reg.registered_at
		FROM registrations reg
		JOIN users u ON u.id = reg.user_id
		LEFT JOIN tickets t ON t.id = reg.ticket_id
		WHERE reg.event_id = $1
		ORDER BY reg.registered_at`,
		eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []RegistrationRow
	for rows.Next() {
		var row RegistrationRow
		var id uuid.UUID
		if err := rows.Scan(&id, &row.UserName, &row.Email, &row.TicketType,
			&row.Quantity, &row.TotalAmount, &row.Status, &row.RegisteredAt); err != nil {
			return nil, err
		}
		row.RegistrationID = id.String()
		out = append(out, row)
	}
	return out, rows.Err()
}

// PaymentRows returns one row per payment for an event, oldest first.
func (r *Repository) PaymentRows(ctx context.Context, eventID uuid.UUID) ([]PaymentRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.id, p.registration_id, p.amount, p.currency,
			COALESCE(p.payment_method, ''), COALESCE(p.transaction_id, ''), p.status, p.paid_at
		FROM payments p
		JOIN registrations reg ON reg.id = p.registration_id
		WHERE reg.event_id = $1
		ORDER BY p.created_at`,
		eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []PaymentRow
	for rows.Next() {
		var row PaymentRow
		var paymentID, registrationID uuid.UUID
		if err := rows.Scan(&paymentID, &registrationID, &row.Amount, &row.Currency,
			&row.PaymentMethod, &row.TransactionID, &row.Status, &row.PaidAt); err != nil {
			return nil, err
		}
		row.PaymentID = paymentID.String()
		row.RegistrationID = registrationID.String()
		out = append(out, row)
	}
	return out, rows.Err()
}
