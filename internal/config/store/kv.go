package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// LoadValue returns the stored value for key. A missing key yields a
// NotFoundError.
func (s *Store) LoadValue(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM client_storage WHERE key = ?`, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", NotFoundError{Entity: "storage key", Key: key}
	}
	if err != nil {
		return "", fmt.Errorf("storage: load %q: %w", key, err)
	}
	return value, nil
}

// LoadValues returns the stored values for the given keys. Missing keys are
// simply absent from the result map.
func (s *Store) LoadValues(ctx context.Context, keys ...string) (map[string]string, error) {
	query := `SELECT key, value FROM client_storage`
	var args []any

	if len(keys) > 0 {
		placeholders := strings.TrimRight(strings.Repeat("?,", len(keys)), ",")
		query += fmt.Sprintf(" WHERE key IN (%s)", placeholders)
		for _, key := range keys {
			args = append(args, key)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: load values: %w", err)
	}
	defer rows.Close()

	result := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("storage: scan value row: %w", err)
		}
		result[key] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: iterate value rows: %w", err)
	}

	return result, nil
}

// SaveValue upserts a single key/value pair.
func (s *Store) SaveValue(ctx context.Context, key, value string) error {
	return s.SaveValues(ctx, map[string]string{key: value})
}

// SaveValues upserts the provided key/value pairs in one transaction.
func (s *Store) SaveValues(ctx context.Context, values map[string]string) error {
	if s.readOnly {
		return fmt.Errorf("storage: save values: store opened read-only")
	}
	if len(values) == 0 {
		return nil
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
            INSERT INTO client_storage (key, value, updated_at)
            VALUES (?, ?, CURRENT_TIMESTAMP)
            ON CONFLICT(key) DO UPDATE SET
                value = excluded.value,
                updated_at = CURRENT_TIMESTAMP
        `)
		if err != nil {
			return fmt.Errorf("storage: prepare save values: %w", err)
		}
		defer stmt.Close()

		for key, value := range values {
			if _, err := stmt.ExecContext(ctx, key, value); err != nil {
				return fmt.Errorf("storage: exec save value %q: %w", key, err)
			}
		}
		return nil
	})
}

// DeleteValues removes the given keys. Keys that do not exist are ignored.
func (s *Store) DeleteValues(ctx context.Context, keys ...string) error {
	if s.readOnly {
		return fmt.Errorf("storage: delete values: store opened read-only")
	}
	if len(keys) == 0 {
		return nil
	}

	placeholders := strings.TrimRight(strings.Repeat("?,", len(keys)), ",")
	args := make([]any, 0, len(keys))
	for _, key := range keys {
		args = append(args, key)
	}

	if _, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM client_storage WHERE key IN (%s)`, placeholders),
		args...,
	); err != nil {
		return fmt.Errorf("storage: delete values: %w", err)
	}
	return nil
}
