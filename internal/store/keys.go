package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// GetAPIKey fetches the secret stored for a provider. The second return
// reports whether a record exists; an absent record means the provider is
// unavailable for dispatch.
func (s *Store) GetAPIKey(ctx context.Context, service string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	var key string
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT api_key FROM api_keys WHERE service = ?`, service,
	).Scan(&key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get api key for %q: %w", service, err)
	}
	return key, true, nil
}

// SaveAPIKeys applies save-all semantics over the given provider/secret
// map: non-empty secrets are upserted, empty ones delete the record. This
// mirrors a settings form where clearing a field removes the key.
func (s *Store) SaveAPIKeys(ctx context.Context, keys map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save api keys: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for service, key := range keys {
		key = strings.TrimSpace(key)
		if key == "" {
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM api_keys WHERE service = ?`, service,
			); err != nil {
				return fmt.Errorf("delete api key for %q: %w", service, err)
			}
			continue
		}
		if _, err := tx.ExecContext(ctx, `
INSERT INTO api_keys (service, api_key) VALUES (?, ?)
ON CONFLICT(service) DO UPDATE SET api_key = excluded.api_key
`, service, key); err != nil {
			return fmt.Errorf("save api key for %q: %w", service, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save api keys: %w", err)
	}
	return nil
}

// ConfiguredServices returns the providers with a stored key, sorted by name.
func (s *Store) ConfiguredServices(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT service FROM api_keys ORDER BY service ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list configured services: %w", err)
	}
	defer rows.Close()

	var services []string
	for rows.Next() {
		var service string
		if err := rows.Scan(&service); err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		services = append(services, service)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate services: %w", err)
	}
	return services, nil
}
