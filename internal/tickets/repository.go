package tickets

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aurelius-events/backend/internal/models"
)

const ticketColumns = `id, event_id, name, description, price, quantity, sold,
	sale_start_date, sale_end_date, status, created_at, updated_at`

// Repository provides ticket persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a ticket repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a ticket.
func (r *Repository) Create(ctx context.Context, t *models.Ticket) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO tickets (event_id, name, description, price, quantity, sale_start_date,
			sale_end_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, sold, created_at, updated_at`,
		t.EventID, t.Name, t.Description, t.Price, t.Quantity,
		t.SaleStartDate, t.SaleEndDate, t.Status,
	).Scan(&t.ID, &t.Sold, &t.CreatedAt, &t.UpdatedAt)
}

// GetByID returns a ticket, or nil when it does not exist.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	var t models.Ticket
	err := r.pool.QueryRow(ctx,
		`SELECT `+ticketColumns+` FROM tickets WHERE id = $1`, id,
	).Scan(&t.ID, &t.EventID, &t.Name, &t.Description, &t.Price, &t.Quantity, &t.Sold,
		&t.SaleStartDate, &t.SaleEndDate, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListByEvent returns an event's tickets in creation order.
func (r *Repository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Ticket, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+ticketColumns+` FROM tickets WHERE event_id = $1 ORDER BY created_at`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Ticket
	for rows.Next() {
		var t models.Ticket
		if err := rows.Scan(&t.ID, &t.EventID, &t.Name, &t.Description, &t.Price, &t.Quantity,
			&t.Sold, &t.SaleStartDate, &t.SaleEndDate, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Update persists mutable ticket fields.
func (r *Repository) Update(ctx context.Context, t *models.Ticket) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE tickets SET name = $2, description = $3, price = $4, quantity = $5,
			sale_start_date = $6, sale_end_date = $7, status = $8, updated_at = NOW()
		WHERE id = $1`,
		t.ID, t.Name, t.Description, t.Price, t.Quantity,
		t.SaleStartDate, t.SaleEndDate, t.Status)
	return err
}

// Delete removes an unsold ticket. Returns false when the ticket has sales
// or does not exist.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tickets WHERE id = $1 AND sold = 0`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ReserveTx increments sold by quantity inside tx, guarded so sold never
// exceeds quantity. Returns false when not enough tickets remain.
func ReserveTx(ctx context.Context, tx pgx.Tx, ticketID uuid.UUID, quantity int) (bool, error) {
	tag, err := tx.Exec(ctx, `
		UPDATE tickets SET sold = sold + $2, updated_at = NOW()
		WHERE id = $1 AND sold + $2 <= quantity`,
		ticketID, quantity)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// ReleaseTx returns quantity tickets to the pool inside tx.
func ReleaseTx(ctx context.Context, tx pgx.Tx, ticketID uuid.UUID, quantity int) error {
	_, err := tx.Exec(ctx, `
		UPDATE tickets SET sold = GREATEST(sold - $2, 0), updated_at = NOW()
		WHERE id = $1`,
		ticketID, quantity)
	return err
}
