package payments

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aurelius-events/backend/internal/models"
	"github.com/aurelius-events/backend/pkg/apperrors"
)

const paymentColumns = `id, registration_id, amount, currency, payment_method,
	transaction_id, status, paid_at, created_at`

// Repository provides payment persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a payment repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateSuccessful records a captured charge and confirms its registration in
// one transaction. PaidAt is set to the capture time.
func (r *Repository) CreateSuccessful(ctx context.Context, p *models.Payment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return apperrors.IO("begin payment tx", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()
	p.Status = models.PaymentStatusSuccess
	p.PaidAt = &now
	err = tx.QueryRow(ctx, `
		INSERT INTO payments (registration_id, amount, currency, payment_method,
			transaction_id, status, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		p.RegistrationID, p.Amount, p.Currency, p.PaymentMethod,
		p.TransactionID, p.Status, p.PaidAt,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return apperrors.IO("insert payment", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE registrations SET status = $2 WHERE id = $1`,
		p.RegistrationID, models.RegistrationStatusConfirmed)
	if err != nil {
		return apperrors.IO("confirm registration", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return apperrors.IO("commit payment tx", err)
	}
	return nil
}

// Refund flips a successful payment to refunded and cancels its registration
// in one transaction.
func (r *Repository) Refund(ctx context.Context, p *models.Payment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return apperrors.IO("begin refund tx", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE payments SET status = $2 WHERE id = $1 AND status = $3`,
		p.ID, models.PaymentStatusRefunded, models.PaymentStatusSuccess)
	if err != nil {
		return apperrors.IO("refund payment", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.Business("only successful payments can be refunded")
	}
	_, err = tx.Exec(ctx,
		`UPDATE registrations SET status = $2 WHERE id = $1`,
		p.RegistrationID, models.RegistrationStatusCancelled)
	if err != nil {
		return apperrors.IO("cancel registration", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return apperrors.IO("commit refund tx", err)
	}
	p.Status = models.PaymentStatusRefunded
	return nil
}

// GetByID returns a payment, or nil when it does not exist.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	var p models.Payment
	err := r.pool.QueryRow(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE id = $1`, id,
	).Scan(&p.ID, &p.RegistrationID, &p.Amount, &p.Currency, &p.PaymentMethod,
		&p.TransactionID, &p.Status, &p.PaidAt, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ExistsForRegistration reports whether the registration already has a
// non-refunded payment.
func (r *Repository) ExistsForRegistration(ctx context.Context, registrationID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM payments WHERE registration_id = $1 AND status <> $2
		)`,
		registrationID, models.PaymentStatusRefunded,
	).Scan(&exists)
	return exists, err
}

// ListByUser returns all payments for a user's registrations, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Payment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.id, p.registration_id, p.amount, p.currency, p.payment_method,
			p.transaction_id, p.status, p.paid_at, p.created_at
		FROM payments p
		JOIN registrations r ON r.id = p.registration_id
		WHERE r.user_id = $1
		ORDER BY p.created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Payment
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.RegistrationID, &p.Amount, &p.Currency, &p.PaymentMethod,
			&p.TransactionID, &p.Status, &p.PaidAt, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
