package vendors

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aurelius-events/backend/internal/models"
)

const vendorColumns = `id, name, description, contact_email, contact_phone,
	service_type_id, base_rate, is_active, created_at, updated_at`

// Repository provides vendor and service type persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a vendor repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a vendor.
func (r *Repository) Create(ctx context.Context, v *models.Vendor) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO vendors (name, description, contact_email, contact_phone,
			service_type_id, base_rate, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		v.Name, v.Description, v.ContactEmail, v.ContactPhone,
		v.ServiceTypeID, v.BaseRate, v.IsActive,
	).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
}

// GetByID returns a vendor, or nil when it does not exist.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	var v models.Vendor
	err := r.pool.QueryRow(ctx,
		`SELECT `+vendorColumns+` FROM vendors WHERE id = $1`, id,
	).Scan(&v.ID, &v.Name, &v.Description, &v.ContactEmail, &v.ContactPhone,
		&v.ServiceTypeID, &v.BaseRate, &v.IsActive, &v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// List returns vendors, optionally restricted to active ones or one service type.
func (r *Repository) List(ctx context.Context, serviceTypeID *uuid.UUID, activeOnly bool) ([]models.Vendor, error) {
	query := `SELECT ` + vendorColumns + ` FROM vendors WHERE 1=1`
	var args []interface{}
	if serviceTypeID != nil {
		args = append(args, *serviceTypeID)
		query += ` AND service_type_id = $1`
	}
	if activeOnly {
		query += ` AND is_active`
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Vendor
	for rows.Next() {
		var v models.Vendor
		if err := rows.Scan(&v.ID, &v.Name, &v.Description, &v.ContactEmail, &v.ContactPhone,
			&v.ServiceTypeID, &v.BaseRate, &v.IsActive, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// Update persists mutable vendor fields.
func (r *Repository) Update(ctx context.Context, v *models.Vendor) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE vendors SET name = $2, description = $3, contact_email = $4,
			contact_phone = $5, base_rate = $6, is_active = $7, updated_at = NOW()
		WHERE id = $1`,
		v.ID, v.Name, v.Description, v.ContactEmail, v.ContactPhone, v.BaseRate, v.IsActive)
	return err
}

// CreateServiceType inserts a service type.
func (r *Repository) CreateServiceType(ctx context.Context, st *models.ServiceType) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO service_types (name, description) VALUES ($1, $2)
		RETURNING id, created_at, updated_at`,
		st.Name, st.Description,
	).Scan(&st.ID, &st.CreatedAt, &st.UpdatedAt)
}

// GetServiceType returns a service type, or nil when it does not exist.
func (r *Repository) GetServiceType(ctx context.Context, id uuid.UUID) (*models.ServiceType, error) {
	var st models.ServiceType
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, description, created_at, updated_at FROM service_types WHERE id = $1`, id,
	).Scan(&st.ID, &st.Name, &st.Description, &st.CreatedAt, &st.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// ListServiceTypes returns all service types by name.
func (r *Repository) ListServiceTypes(ctx context.Context) ([]models.ServiceType, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, description, created_at, updated_at FROM service_types ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.ServiceType
	for rows.Next() {
		var st models.ServiceType
		if err := rows.Scan(&st.ID, &st.Name, &st.Description, &st.CreatedAt, &st.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}
