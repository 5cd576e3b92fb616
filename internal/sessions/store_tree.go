package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// TreeAge returns the persisted bonsai age. A fresh database reports 0.
func (s *Store) TreeAge(ctx context.Context) (int64, error) {
	var age int64
	err := s.db.QueryRowContext(ctx, `SELECT age FROM tree_state WHERE id = 1`).Scan(&age)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read tree age: %w", err)
	}
	return age, nil
}

// GrowTree increments the persisted age by one and returns the new value.
// The age only ever increases.
func (s *Store) GrowTree(ctx context.Context) (int64, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO tree_state (id, age, updated_at) VALUES (1, 1, ?)
        ON CONFLICT(id) DO UPDATE SET age = age + 1, updated_at = excluded.updated_at`,
		now,
	)
	if err != nil {
		return 0, fmt.Errorf("grow tree: %w", err)
	}
	return s.TreeAge(ctx)
}

// SetTreeAge overwrites the persisted age. It refuses to shrink the tree.
func (s *Store) SetTreeAge(ctx context.Context, age int64) error {
	if age < 0 {
		return fmt.Errorf("tree age must not be negative, got %d", age)
	}
	current, err := s.TreeAge(ctx)
	if err != nil {
		return err
	}
	if age < current {
		return fmt.Errorf("tree age can only increase (current %d, requested %d)", current, age)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO tree_state (id, age, updated_at) VALUES (1, ?, ?)
        ON CONFLICT(id) DO UPDATE SET age = excluded.age, updated_at = excluded.updated_at`,
		age, now,
	)
	if err != nil {
		return fmt.Errorf("set tree age: %w", err)
	}
	return nil
}
