package leads

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB abstracts the pgx query interface for testing.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores leads in the relational database.
type PostgresRepository struct {
	db DB
}

// NewPostgresRepository initializes a repo backed by pgx.
func NewPostgresRepository(db DB) *PostgresRepository {
	if db == nil {
		panic("leads: pgx pool required")
	}
	return &PostgresRepository{db: db}
}

// Create inserts a new row.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	query := `
		INSERT INTO leads (id, name, email, phone, message, source, preferred_contact, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`
	var createdAt time.Time
	if err := r.db.QueryRow(ctx, query,
		id,
		req.Name,
		req.Email,
		req.Phone,
		req.Message,
		string(req.Source),
		req.PreferredContact,
		string(StatusNew),
	).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("leads: insert failed: %w", err)
	}

	return &Lead{
		ID:               id.String(),
		Name:             req.Name,
		Email:            req.Email,
		Phone:            req.Phone,
		Message:          req.Message,
		Source:           req.Source,
		PreferredContact: req.PreferredContact,
		Status:           StatusNew,
		CreatedAt:        createdAt,
	}, nil
}

// GetByID fetches a lead by identifier.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Lead, error) {
	query := `
		SELECT id, name, email, phone, message, source, preferred_contact, status, created_at
		FROM leads
		WHERE id = $1
	`
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

// GetByEmail fetches the most recent lead with the given email.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*Lead, error) {
	query := `
		SELECT id, name, email, phone, message, source, preferred_contact, status, created_at
		FROM leads
		WHERE lower(email) = lower($1)
		ORDER BY created_at DESC
		LIMIT 1
	`
	return r.scanOne(r.db.QueryRow(ctx, query, email))
}

// List returns leads newest first.
func (r *PostgresRepository) List(ctx context.Context, limit, offset int) ([]*Lead, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.db.Query(ctx, `
		SELECT id, name, email, phone, message, source, preferred_contact, status, created_at
		FROM leads
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("leads: list failed: %w", err)
	}
	defer rows.Close()

	var out []*Lead
	for rows.Next() {
		var lead Lead
		var source, status string
		if err := rows.Scan(
			&lead.ID, &lead.Name, &lead.Email, &lead.Phone, &lead.Message,
			&source, &lead.PreferredContact, &status, &lead.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("leads: scan failed: %w", err)
		}
		lead.Source = Source(source)
		lead.Status = Status(status)
		out = append(out, &lead)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) scanOne(row pgx.Row) (*Lead, error) {
	var lead Lead
	var source, status string
	if err := row.Scan(
		&lead.ID, &lead.Name, &lead.Email, &lead.Phone, &lead.Message,
		&source, &lead.PreferredContact, &status, &lead.CreatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("leads: select failed: %w", err)
	}
	lead.Source = Source(source)
	lead.Status = Status(status)
	return &lead, nil
}
