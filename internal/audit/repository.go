package audit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vrent/internal/activation"
	"vrent/pkg/db"
)

// Entry is one journaled activation attempt.
type Entry struct {
	ID          int64     `json:"id"`
	VehicleKey  string    `json:"vehicleKey"`
	BookingID   string    `json:"bookingId"`
	Source      string    `json:"source"`
	Stage       string    `json:"stage"`
	Result      string    `json:"result"`
	Error       string    `json:"error,omitempty"`
	AttemptedAt time.Time `json:"attemptedAt"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Repository persists activation attempts; it implements activation.Journal.
type Repository struct {
	db      db.Querier
	timeout time.Duration
}

var _ activation.Journal = (*Repository)(nil)

func NewRepository(q db.Querier) *Repository {
	return &Repository{db: q, timeout: 5 * time.Second}
}

func (r *Repository) RecordAttempt(ctx context.Context, a activation.Attempt) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var errText *string
	if a.Error != "" {
		errText = &a.Error
	}
	const q = `
INSERT INTO activation_attempts (vehicle_key, booking_id, key_source, stage, result, error, attempted_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`
	_, err := r.db.Exec(ctx, q, a.VehicleKey, a.BookingID, string(a.Source), string(a.Stage), a.Result, errText, a.AttemptedAt)
	if err != nil {
		return fmt.Errorf("insert activation attempt: %w", err)
	}
	return nil
}

// ListRecent returns the newest attempts first, optionally for one vehicle key.
func (r *Repository) ListRecent(ctx context.Context, vehicleKey string, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	const q = `
SELECT id, vehicle_key, booking_id, key_source, stage, result, COALESCE(error, ''), attempted_at, created_at
FROM activation_attempts
WHERE ($1 = '' OR lower(vehicle_key) = $1)
ORDER BY attempted_at DESC, id DESC
LIMIT $2
`
	rows, err := r.db.Query(ctx, q, strings.ToLower(strings.TrimSpace(vehicleKey)), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.VehicleKey, &e.BookingID, &e.Source, &e.Stage, &e.Result, &e.Error, &e.AttemptedAt, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
