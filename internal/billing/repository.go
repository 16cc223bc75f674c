package billing

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aurelius-events/backend/internal/models"
)

const payoutColumns = `id, organizer_id, event_id, amount, currency, status,
	payment_method, transaction_reference, notes, processed_at, created_at, updated_at`

// Repository provides invoice and payout persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a billing repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateInvoice inserts an invoice.
func (r *Repository) CreateInvoice(ctx context.Context, inv *models.Invoice) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO invoices (payment_id, invoice_number, amount, currency, storage_key, issued_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		inv.PaymentID, inv.InvoiceNumber, inv.Amount, inv.Currency, inv.StorageKey, inv.IssuedAt,
	).Scan(&inv.ID, &inv.CreatedAt)
}

// GetInvoiceByPayment returns the payment's invoice, or nil.
func (r *Repository) GetInvoiceByPayment(ctx context.Context, paymentID uuid.UUID) (*models.Invoice, error) {
	return r.getInvoice(ctx,
		`SELECT id, payment_id, invoice_number, amount, currency, storage_key, issued_at, created_at
		 FROM invoices WHERE payment_id = $1`, paymentID)
}

// GetInvoiceByID returns an invoice, or nil.
func (r *Repository) GetInvoiceByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	return r.getInvoice(ctx,
		`SELECT id, payment_id, invoice_number, amount, currency, storage_key, issued_at, created_at
		 FROM invoices WHERE id = $1`, id)
}

func (r *Repository) getInvoice(ctx context.Context, query string, arg interface{}) (*models.Invoice, error) {
	var inv models.Invoice
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&inv.ID, &inv.PaymentID, &inv.InvoiceNumber, &inv.Amount, &inv.Currency,
		&inv.StorageKey, &inv.IssuedAt, &inv.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// InvoiceDetails is the joined context an invoice PDF is rendered from.
type InvoiceDetails struct {
	UserName   string
	UserEmail  string
	EventTitle string
	TicketType string
	Quantity   int
}

// InvoiceDetailsForPayment loads attendee, event and ticket details for a
// payment's registration.
func (r *Repository) InvoiceDetailsForPayment(ctx context.Context, paymentID uuid.UUID) (*InvoiceDetails, error) {
	var d InvoiceDetails
	err := r.pool.QueryRow(ctx, `
		SELECT u.first_name || ' ' || u.last_name, u.email, e.title,
			COALESCE(t.name, ''), reg.quantity
		FROM payments p
		JOIN registrations reg ON reg.id = p.registration_id
		JOIN users u ON u.id = reg.user_id
		JOIN events e ON e.id = reg.event_id
		LEFT JOIN tickets t ON t.id = reg.ticket_id
		WHERE p.id = $1`,
		paymentID,
	).Scan(&d.UserName, &d.UserEmail, &d.EventTitle, &d.TicketType, &d.Quantity)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// CreatePayout inserts a pending payout.
func (r *Repository) CreatePayout(ctx context.Context, p *models.Payout) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO payouts (organizer_id, event_id, amount, currency, status, payment_method, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		p.OrganizerID, p.EventID, p.Amount, p.Currency, p.Status, p.PaymentMethod, p.Notes,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

// GetPayout returns a payout, or nil.
func (r *Repository) GetPayout(ctx context.Context, id uuid.UUID) (*models.Payout, error) {
	var p models.Payout
	err := r.pool.QueryRow(ctx,
		`SELECT `+payoutColumns+` FROM payouts WHERE id = $1`, id,
	).Scan(&p.ID, &p.OrganizerID, &p.EventID, &p.Amount, &p.Currency, &p.Status,
		&p.PaymentMethod, &p.TransactionReference, &p.Notes, &p.ProcessedAt,
		&p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPayoutsByOrganizer returns an organizer's payouts, newest first.
func (r *Repository) ListPayoutsByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]models.Payout, error) {
	return r.listPayouts(ctx,
		`SELECT `+payoutColumns+` FROM payouts WHERE organizer_id = $1 ORDER BY created_at DESC`,
		organizerID)
}

// ListPayoutsByEvent returns an event's payouts, newest first.
func (r *Repository) ListPayoutsByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Payout, error) {
	return r.listPayouts(ctx,
		`SELECT `+payoutColumns+` FROM payouts WHERE event_id = $1 ORDER BY created_at DESC`,
		eventID)
}

func (r *Repository) listPayouts(ctx context.Context, query string, arg interface{}) ([]models.Payout, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Payout
	for rows.Next() {
		var p models.Payout
		if err := rows.Scan(&p.ID, &p.OrganizerID, &p.EventID, &p.Amount, &p.Currency,
			&p.Status, &p.PaymentMethod, &p.TransactionReference, &p.Notes,
			&p.ProcessedAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ClaimPayout moves a payout to processing. Idempotent: claiming a payout
// that is already processing succeeds, so a worker can resume a run that
// died mid-flight. Returns false when the payout is in a terminal state or
// does not exist.
func (r *Repository) ClaimPayout(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE payouts SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status IN ($3, $2)`,
		id, models.PayoutStatusProcessing, models.PayoutStatusPending)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// CompletePayout finishes a processing payout, stamping the transaction
// reference and processed time. Completing an already completed payout is a
// no-op success so that redelivered jobs stay harmless.
func (r *Repository) CompletePayout(ctx context.Context, id uuid.UUID, transactionReference string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE payouts SET status = $2, transaction_reference = $3,
			processed_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = $4`,
		id, models.PayoutStatusCompleted, transactionReference, models.PayoutStatusProcessing)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() > 0 {
		return true, nil
	}
	p, err := r.GetPayout(ctx, id)
	if err != nil {
		return false, err
	}
	return p != nil && p.Status == models.PayoutStatusCompleted, nil
}

// FailPayout marks a payout failed after retries are exhausted.
func (r *Repository) FailPayout(ctx context.Context, id uuid.UUID, note string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE payouts SET status = $2, notes = $3, updated_at = NOW()
		WHERE id = $1 AND status <> $4`,
		id, models.PayoutStatusFailed, note, models.PayoutStatusCompleted)
	return err
}
