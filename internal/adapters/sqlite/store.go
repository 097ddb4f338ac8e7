package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ahoin001/Soma-sub005/internal/domain"
)

// Store implements ports.MutationStore on SQLite.
// All mutation is append/remove/update-by-id, never a bulk rewrite, so the
// window for lost updates under concurrent access stays minimal.
type Store struct {
	db *sql.DB
}

// NewStore creates a Store over an already-opened database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Append persists a new pending mutation and returns its generated id.
func (s *Store) Append(ctx context.Context, kind domain.Kind, payload json.RawMessage) (string, error) {
	id := uuid.NewString()
	createdAt := time.Now().UnixNano()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO pending_mutation (id, kind, payload, created_at) VALUES (?, ?, ?, ?)",
		id, string(kind), []byte(payload), createdAt,
	)
	if err != nil {
		return "", fmt.Errorf("append mutation: %w", err)
	}
	return id, nil
}

// ListAll returns every pending mutation ordered ascending by creation time.
// rowid breaks timestamp ties in insertion order, which preserves per-kind
// FIFO even for mutations created within the same nanosecond.
func (s *Store) ListAll(ctx context.Context) ([]domain.PendingMutation, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, kind, payload, created_at, retry_count, last_error FROM pending_mutation ORDER BY created_at ASC, rowid ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("list mutations: %w", err)
	}
	defer rows.Close()

	var records []domain.PendingMutation
	for rows.Next() {
		var (
			rec       domain.PendingMutation
			kind      string
			payload   []byte
			createdAt int64
		)
		if err := rows.Scan(&rec.ID, &kind, &payload, &createdAt, &rec.RetryCount, &rec.LastError); err != nil {
			return nil, fmt.Errorf("scan mutation: %w", err)
		}
		rec.Kind = domain.Kind(kind)
		rec.Payload = json.RawMessage(payload)
		rec.CreatedAt = time.Unix(0, createdAt)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list mutations: %w", err)
	}
	return records, nil
}

// Remove deletes a record by id. Removing an absent id is not an error.
func (s *Store) Remove(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM pending_mutation WHERE id = ?", id); err != nil {
		return fmt.Errorf("remove mutation: %w", err)
	}
	return nil
}

// Count returns the number of pending mutations.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM pending_mutation").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count mutations: %w", err)
	}
	return n, nil
}

// UpdateRetry increments the retry count and records the failure message.
// The single UPDATE keeps the read-modify-write atomic per record.
func (s *Store) UpdateRetry(ctx context.Context, id string, errMsg string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE pending_mutation SET retry_count = retry_count + 1, last_error = ? WHERE id = ?",
		errMsg, id,
	)
	if err != nil {
		return fmt.Errorf("update retry: %w", err)
	}
	return nil
}

// Clear removes every record.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM pending_mutation"); err != nil {
		return fmt.Errorf("clear mutations: %w", err)
	}
	return nil
}
