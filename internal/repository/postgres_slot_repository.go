package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// SessionSlot is one durable session slot row.
type SessionSlot struct {
	SessionID string    `db:"session_id"`
	Slot      string    `db:"slot"`
	Value     string    `db:"value"`
	UpdatedAt time.Time `db:"updated_at"`
}

// PostgresSlotRepository keeps session slots in the session_slots table.
type PostgresSlotRepository struct {
	db *sqlx.DB
}

// NewPostgresSlotRepository constructs the repository.
func NewPostgresSlotRepository(db *sqlx.DB) *PostgresSlotRepository {
	return &PostgresSlotRepository{db: db}
}

// Get returns the slot value and whether it exists.
func (r *PostgresSlotRepository) Get(ctx context.Context, sessionID, slot string) (string, bool, error) {
	const query = `SELECT session_id, slot, value, updated_at FROM session_slots WHERE session_id = $1 AND slot = $2`
	var row SessionSlot
	if err := r.db.GetContext(ctx, &row, query, sessionID, slot); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get session slot: %w", err)
	}
	return row.Value, true, nil
}

// Set upserts the slot value.
func (r *PostgresSlotRepository) Set(ctx context.Context, sessionID, slot, value string) error {
	const query = `INSERT INTO session_slots (session_id, slot, value, updated_at)
VALUES (:session_id, :slot, :value, :updated_at)
ON CONFLICT (session_id, slot)
DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	row := SessionSlot{SessionID: sessionID, Slot: slot, Value: value, UpdatedAt: time.Now().UTC()}
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("upsert session slot: %w", err)
	}
	return nil
}

// Remove deletes the slot; removing a missing slot is not an error.
func (r *PostgresSlotRepository) Remove(ctx context.Context, sessionID, slot string) error {
	const query = `DELETE FROM session_slots WHERE session_id = $1 AND slot = $2`
	if _, err := r.db.ExecContext(ctx, query, sessionID, slot); err != nil {
		return fmt.Errorf("delete session slot: %w", err)
	}
	return nil
}

// PurgeBefore deletes slots not written since cutoff and returns how many
// rows were removed.
func (r *PostgresSlotRepository) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `DELETE FROM session_slots WHERE updated_at < $1`
	res, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge session slots: %w", err)
	}
	return res.RowsAffected()
}
