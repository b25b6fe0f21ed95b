package callbacks

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

// PostgresStore stores scheduled callbacks in the relational database.
type PostgresStore struct {
	db DB
}

// NewPostgresStore initializes a store backed by pgx.
func NewPostgresStore(db DB) *PostgresStore {
	if db == nil {
		panic("callbacks: pgx pool required")
	}
	return &PostgresStore{db: db}
}

const callbackColumns = `id, phone, scheduled_for, session_id, notes, lead_id, status, provider_call_id, last_error, created_at, processed_at`

// Create inserts a new pending callback.
func (s *PostgresStore) Create(ctx context.Context, cb *Callback) error {
	query := `
		INSERT INTO scheduled_callbacks
			(id, phone, scheduled_for, session_id, notes, lead_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`
	if err := s.db.QueryRow(ctx, query,
		cb.ID,
		cb.Phone,
		cb.ScheduledFor,
		cb.SessionID,
		cb.Notes,
		cb.LeadID,
		string(cb.Status),
	).Scan(&cb.CreatedAt); err != nil {
		return fmt.Errorf("callbacks: insert failed: %w", err)
	}
	return nil
}

// GetByID fetches a callback by identifier.
func (s *PostgresStore) GetByID(ctx context.Context, id uuid.UUID) (*Callback, error) {
	query := `SELECT ` + callbackColumns + ` FROM scheduled_callbacks WHERE id = $1`
	return s.scanOne(s.db.QueryRow(ctx, query, id))
}

// ListDue returns pending callbacks scheduled at or before asOf, oldest first.
func (s *PostgresStore) ListDue(ctx context.Context, asOf time.Time, limit int) ([]*Callback, error) {
	if limit <= 0 {
		limit = 10
	}
	query := `
		SELECT ` + callbackColumns + `
		FROM scheduled_callbacks
		WHERE status = 'pending' AND scheduled_for <= $1
		ORDER BY scheduled_for ASC
		LIMIT $2
	`
	rows, err := s.db.Query(ctx, query, asOf, limit)
	if err != nil {
		return nil, fmt.Errorf("callbacks: list due failed: %w", err)
	}
	defer rows.Close()
	return s.scanAll(rows)
}

// ClaimProcessing flips a pending callback to processing. The conditional
// UPDATE is the concurrency guard: whichever sweep's statement lands first
// sees one affected row, everyone else sees zero.
func (s *PostgresStore) ClaimProcessing(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE scheduled_callbacks
		SET status = 'processing'
		WHERE id = $1 AND status = 'pending'`, id)
	if err != nil {
		return false, fmt.Errorf("callbacks: claim failed: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Complete records a successful dispatch with the provider's call handle.
func (s *PostgresStore) Complete(ctx context.Context, id uuid.UUID, providerCallID string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE scheduled_callbacks
		SET status = 'completed', provider_call_id = $2, last_error = '', processed_at = now()
		WHERE id = $1 AND status = 'processing'`, id, providerCallID)
	if err != nil {
		return fmt.Errorf("callbacks: complete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCallbackNotFound
	}
	return nil
}

// Fail records a dispatch failure. Failed callbacks are not retried.
func (s *PostgresStore) Fail(ctx context.Context, id uuid.UUID, reason string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE scheduled_callbacks
		SET status = 'failed', last_error = $2, processed_at = now()
		WHERE id = $1 AND status = 'processing'`, id, reason)
	if err != nil {
		return fmt.Errorf("callbacks: fail failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCallbackNotFound
	}
	return nil
}

// Cancel withdraws a callback that has not reached a terminal state.
func (s *PostgresStore) Cancel(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE scheduled_callbacks
		SET status = 'cancelled'
		WHERE id = $1 AND status IN ('pending', 'processing')`, id)
	if err != nil {
		return fmt.Errorf("callbacks: cancel failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCallbackNotFound
	}
	return nil
}

// List returns recent callbacks newest first, optionally filtered by status.
func (s *PostgresStore) List(ctx context.Context, status Status, limit int) ([]*Callback, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var (
		rows pgx.Rows
		err  error
	)
	if status == "" {
		rows, err = s.db.Query(ctx, `
			SELECT `+callbackColumns+`
			FROM scheduled_callbacks
			ORDER BY created_at DESC
			LIMIT $1`, limit)
	} else {
		rows, err = s.db.Query(ctx, `
			SELECT `+callbackColumns+`
			FROM scheduled_callbacks
			WHERE status = $1
			ORDER BY created_at DESC
			LIMIT $2`, string(status), limit)
	}
	if err != nil {
		return nil, fmt.Errorf("callbacks: list failed: %w", err)
	}
	defer rows.Close()
	return s.scanAll(rows)
}

func (s *PostgresStore) scanAll(rows pgx.Rows) ([]*Callback, error) {
	var out []*Callback
	for rows.Next() {
		cb, err := scanCallback(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, cb)
	}
	return out, rows.Err()
}

func (s *PostgresStore) scanOne(row pgx.Row) (*Callback, error) {
	cb, err := scanCallback(row)
	if err == pgx.ErrNoRows {
		return nil, ErrCallbackNotFound
	}
	return cb, err
}

func scanCallback(row pgx.Row) (*Callback, error) {
	var cb Callback
	var status string
	if err := row.Scan(
		&cb.ID, &cb.Phone, &cb.ScheduledFor, &cb.SessionID, &cb.Notes,
		&cb.LeadID, &status, &cb.ProviderCallID, &cb.LastError,
		&cb.CreatedAt, &cb.ProcessedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("callbacks: scan failed: %w", err)
	}
	cb.Status = Status(status)
	return &cb, nil
}
