package registrations

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/aurelius-events/backend/internal/models"
	"github.com/aurelius-events/backend/internal/tickets"
	"github.com/aurelius-events/backend/pkg/apperrors"
)

const registrationColumns = `id, user_id, event_id, ticket_id, quantity, total_amount,
	status, qr_code, registered_at`

// Repository provides registration persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a registration repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create books a registration atomically: rejects a duplicate booking for the
// same user and event, reserves ticket inventory, computes the total from the
// ticket price and assigns a QR code.
func (r *Repository) Create(ctx context.Context, reg *models.Registration) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return apperrors.IO("begin registration tx", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM registrations
			WHERE user_id = $1 AND event_id = $2 AND status <> $3
		)`,
		reg.UserID, reg.EventID, models.RegistrationStatusCancelled,
	).Scan(&exists)
	if err != nil {
		return apperrors.IO("check duplicate registration", err)
	}
	if exists {
		return apperrors.Business("user is already registered for this event")
	}

	reg.TotalAmount = decimal.Zero
	if reg.TicketID != nil {
		var price decimal.Decimal
		err = tx.QueryRow(ctx,
			`SELECT price FROM tickets WHERE id = $1 AND event_id = $2`,
			*reg.TicketID, reg.EventID,
		).Scan(&price)
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NotFound("ticket", "id", *reg.TicketID)
		}
		if err != nil {
			return apperrors.IO("load ticket", err)
		}
		reserved, err := tickets.ReserveTx(ctx, tx, *reg.TicketID, reg.Quantity)
		if err != nil {
			return apperrors.IO("reserve tickets", err)
		}
		if !reserved {
			return apperrors.Business("not enough tickets available")
		}
		reg.TotalAmount = price.Mul(decimal.NewFromInt(int64(reg.Quantity)))
	}

	reg.QRCode = newQRCode()
	reg.Status = models.RegistrationStatusPending
	err = tx.QueryRow(ctx, `
		INSERT INTO registrations (user_id, event_id, ticket_id, quantity, total_amount, status, qr_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, registered_at`,
		reg.UserID, reg.EventID, reg.TicketID, reg.Quantity, reg.TotalAmount,
		reg.Status, reg.QRCode,
	).Scan(&reg.ID, &reg.RegisteredAt)
	if err != nil {
		return apperrors.IO("insert registration", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return apperrors.IO("commit registration tx", err)
	}
	return nil
}

// Cancel moves a registration to cancelled and returns its reserved tickets.
func (r *Repository) Cancel(ctx context.Context, reg *models.Registration) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return apperrors.IO("begin cancel tx", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`UPDATE registrations SET status = $2 WHERE id = $1`,
		reg.ID, models.RegistrationStatusCancelled)
	if err != nil {
		return apperrors.IO("cancel registration", err)
	}
	if reg.TicketID != nil {
		if err := tickets.ReleaseTx(ctx, tx, *reg.TicketID, reg.Quantity); err != nil {
			return apperrors.IO("release tickets", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return apperrors.IO("commit cancel tx", err)
	}
	reg.Status = models.RegistrationStatusCancelled
	return nil
}

// GetByID returns a registration, or nil when it does not exist.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Registration, error) {
	return r.getOne(ctx, `SELECT `+registrationColumns+` FROM registrations WHERE id = $1`, id)
}

// GetByQRCode returns the registration carrying the QR code, or nil.
func (r *Repository) GetByQRCode(ctx context.Context, code string) (*models.Registration, error) {
	return r.getOne(ctx, `SELECT `+registrationColumns+` FROM registrations WHERE qr_code = $1`, code)
}

func (r *Repository) getOne(ctx context.Context, query string, arg interface{}) (*models.Registration, error) {
	var reg models.Registration
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&reg.ID, &reg.UserID, &reg.EventID, &reg.TicketID, &reg.Quantity,
		&reg.TotalAmount, &reg.Status, &reg.QRCode, &reg.RegisteredAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// ListByUser returns a user's registrations, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Registration, error) {
	return r.list(ctx,
		`SELECT `+registrationColumns+` FROM registrations WHERE user_id = $1 ORDER BY registered_at DESC`,
		userID)
}

// ListByEvent returns an event's registrations, newest first.
func (r *Repository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]models.Registration, error) {
	return r.list(ctx,
		`SELECT `+registrationColumns+` FROM registrations WHERE event_id = $1 ORDER BY registered_at DESC`,
		eventID)
}

func (r *Repository) list(ctx context.Context, query string, arg interface{}) ([]models.Registration, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Registration
	for rows.Next() {
		var reg models.Registration
		if err := rows.Scan(&reg.ID, &reg.UserID, &reg.EventID, &reg.TicketID, &reg.Quantity,
			&reg.TotalAmount, &reg.Status, &reg.QRCode, &reg.RegisteredAt); err != nil {
			return nil, err
		}
		out = append(out, reg)
	}
	return out, rows.Err()
}

// UpdateStatus sets only the registration status.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE registrations SET status = $2 WHERE id = $1`, id, status)
	return err
}

// newQRCode returns an opaque check-in token.
func newQRCode() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return uuid.NewString()
	}
	return hex.EncodeToString(buf)
}
