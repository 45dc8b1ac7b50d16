package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Well-known app_config keys.
const (
	ConfigLicenseStatus  = "license_status"
	ConfigQueryCount     = "query_count"
	ConfigLastQueryReset = "last_query_reset"
)

// GetConfig reads a value from the app_config table. A missing key returns
// an empty string, not an error; absence is a normal state for new keys
// added by schema evolution.
func (s *Store) GetConfig(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("config key is required")
	}

	var value string
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT value FROM app_config WHERE key = ?`, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get config %q: %w", key, err)
	}
	return value, nil
}

// SetConfig upserts a value in the app_config table. The write commits
// immediately; quota state must survive a crash right after mutation.
func (s *Store) SetConfig(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("config key is required")
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO app_config (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value
`, key, value)
	if err != nil {
		return fmt.Errorf("set config %q: %w", key, err)
	}
	return nil
}
