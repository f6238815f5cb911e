package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned by Lookup when no credential record exists for
// the requested identity.
var ErrNotFound = errors.New("credential not found")

// Credential is one user's delegated-authorization material, keyed by the
// identity Google reported during the authorization handshake.
type Credential struct {
	Identity     string
	AccessToken  string
	RefreshToken string
	Expiry       time.Time
	TokenURI     string
	ClientID     string
	ClientSecret string
	Scopes       []string
}

const schema = `
CREATE TABLE IF NOT EXISTS credentials (
	identity      TEXT PRIMARY KEY,
	access_token  TEXT NOT NULL DEFAULT '',
	refresh_token TEXT NOT NULL DEFAULT '',
	token_expiry  INTEGER NOT NULL DEFAULT 0,
	token_uri     TEXT NOT NULL DEFAULT '',
	client_id     TEXT NOT NULL DEFAULT '',
	client_secret TEXT NOT NULL DEFAULT '',
	scopes        TEXT NOT NULL DEFAULT '[]',
	updated_at    INTEGER NOT NULL
);
`

// Store provides SQLite-backed persistence for credential records.
type Store struct {
	sqlDB *sql.DB
}

// Open opens (and creates if necessary) the credential database at the
// given DSN. Use ":memory:" for an ephemeral store in tests.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("database dsn is required")
	}

	memory := strings.HasPrefix(dsn, ":memory:")
	if !memory {
		dsn = filepath.Clean(dsn) + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	}

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// An in-memory database is private to each pool connection, so every
	// caller must share the one connection that saw the schema.
	if memory {
		sqlDB.SetMaxOpenConns(1)
	}

	if _, err := sqlDB.ExecContext(ctx, schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{sqlDB: sqlDB}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Ping verifies the database is reachable. Used by readiness checks.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return s.sqlDB.PingContext(ctx)
}

// Upsert persists a credential record, overwriting every field except the
// identity when a record already exists. An empty incoming refresh token
// never erases a stored one: a repeat authorization may omit the refresh
// token, and discarding the original would strand the identity without a
// way to rotate access tokens.
func (s *Store) Upsert(ctx context.Context, cred Credential) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(cred.Identity) == "" {
		return fmt.Errorf("identity is required")
	}

	scopes, err := encodeScopes(cred.Scopes)
	if err != nil {
		return err
	}

	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO credentials (
	identity, access_token, refresh_token, token_expiry, token_uri, client_id, client_secret, scopes, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(identity) DO UPDATE SET
	access_token = excluded.access_token,
	refresh_token = COALESCE(NULLIF(excluded.refresh_token, ''), refresh_token),
	token_expiry = excluded.token_expiry,
	token_uri = excluded.token_uri,
	client_id = excluded.client_id,
	client_secret = excluded.client_secret,
	scopes = excluded.scopes,
	updated_at = excluded.updated_at
`,
		cred.Identity,
		cred.AccessToken,
		cred.RefreshToken,
		toMillis(cred.Expiry),
		cred.TokenURI,
		cred.ClientID,
		cred.ClientSecret,
		scopes,
		toMillis(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("upsert credential: %w", err)
	}
	return nil
}

// Lookup fetches the credential record for an identity. Returns ErrNotFound
// when no record exists; never returns a partially populated record.
func (s *Store) Lookup(ctx context.Context, identity string) (Credential, error) {
	if err := ctx.Err(); err != nil {
		return Credential{}, err
	}
	if s == nil || s.sqlDB == nil {
		return Credential{}, fmt.Errorf("storage is not configured")
	}
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return Credential{}, fmt.Errorf("identity is required")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT identity, access_token, refresh_token, token_expiry, token_uri, client_id, client_secret, scopes
FROM credentials
WHERE identity = ?
`, identity)

	var cred Credential
	var expiry int64
	var scopes string
	err := row.Scan(
		&cred.Identity,
		&cred.AccessToken,
		&cred.RefreshToken,
		&expiry,
		&cred.TokenURI,
		&cred.ClientID,
		&cred.ClientSecret,
		&scopes,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Credential{}, ErrNotFound
		}
		return Credential{}, fmt.Errorf("lookup credential: %w", err)
	}

	cred.Expiry = fromMillis(expiry)
	cred.Scopes, err = decodeScopes(scopes)
	if err != nil {
		return Credential{}, err
	}
	return cred, nil
}

func toMillis(value time.Time) int64 {
	if value.IsZero() {
		return 0
	}
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	if value == 0 {
		return time.Time{}
	}
	return time.UnixMilli(value).UTC()
}

func encodeScopes(scopes []string) (string, error) {
	if len(scopes) == 0 {
		return "[]", nil
	}
	encoded, err := json.Marshal(scopes)
	if err != nil {
		return "", fmt.Errorf("marshal scopes: %w", err)
	}
	return string(encoded), nil
}

func decodeScopes(value string) ([]string, error) {
	value = strings.TrimSpace(value)
	if value == "" || value == "[]" {
		return nil, nil
	}
	var scopes []string
	if err := json.Unmarshal([]byte(value), &scopes); err != nil {
		return nil, fmt.Errorf("unmarshal scopes: %w", err)
	}
	return scopes, nil
}
