package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/mohamedimran-32/jobportal-client/internal/domain"
)

// Fixed keys under which the credential pair is persisted. Nothing else is
// stored across restarts.
const (
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
)

// TokenRepository persists the credential pair in a local SQLite database.
// Save and Clear run in a transaction so a crash never leaves one token
// without the other.
type TokenRepository struct {
	db *sql.DB
}

// Open opens (creating if needed) the credential store at path.
func Open(path string) (*TokenRepository, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create credential store dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open credential store: %w", err)
	}

	const schema = `CREATE TABLE IF NOT EXISTS credentials (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init credential store: %w", err)
	}

	return &TokenRepository{db: db}, nil
}

func (r *TokenRepository) Close() error {
	return r.db.Close()
}

// Load returns the stored pair, or nil when no credentials are present.
// A pair missing either half is treated as absent.
func (r *TokenRepository) Load(ctx context.Context) (*domain.Credentials, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT key, value FROM credentials WHERE key IN (?, ?)`,
		keyAccessToken, keyRefreshToken)
	if err != nil {
		return nil, fmt.Errorf("load credentials: %w", err)
	}
	defer rows.Close()

	var creds domain.Credentials
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan credentials: %w", err)
		}
		switch key {
		case keyAccessToken:
			creds.AccessToken = value
		case keyRefreshToken:
			creds.RefreshToken = value
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load credentials: %w", err)
	}

	if creds.AccessToken == "" || creds.RefreshToken == "" {
		return nil, nil
	}
	return &creds, nil
}

// Save stores both tokens atomically, replacing any previous pair.
func (r *TokenRepository) Save(ctx context.Context, creds domain.Credentials) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin credential save: %w", err)
	}
	defer tx.Rollback()

	const upsert = `INSERT INTO credentials (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	if _, err := tx.ExecContext(ctx, upsert, keyAccessToken, creds.AccessToken); err != nil {
		return fmt.Errorf("save access token: %w", err)
	}
	if _, err := tx.ExecContext(ctx, upsert, keyRefreshToken, creds.RefreshToken); err != nil {
		return fmt.Errorf("save refresh token: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit credential save: %w", err)
	}
	return nil
}

// Clear removes the stored pair. Clearing an empty store is a no-op.
func (r *TokenRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM credentials WHERE key IN (?, ?)`,
		keyAccessToken, keyRefreshToken); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

var _ domain.TokenRepository = (*TokenRepository)(nil)
