package credentials

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/studynotes/internal/client/models"
	"github.com/dmitrijs2005/studynotes/internal/dbx"
)

const (
	keyToken = "token"
	keyUser  = "user"
)

// SQLiteStore keeps the credential slot in the local SQLite database as
// two rows of a key/value table, written together in one transaction.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) get(ctx context.Context, q dbx.DBTX, key string) ([]byte, error) {
	var value []byte
	err := q.QueryRowContext(ctx, `SELECT value FROM credentials WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credentials[%s]: %w", key, err)
	}
	return value, nil
}

func (s *SQLiteStore) set(ctx context.Context, q dbx.DBTX, key string, value []byte) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO credentials (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set credentials[%s]: %w", key, err)
	}
	return nil
}

// Get returns the stored credential, or (nil, nil) when the slot is empty.
// A slot with an unreadable user snapshot counts as empty; the next Set
// overwrites it.
func (s *SQLiteStore) Get(ctx context.Context) (*models.Credential, error) {
	token, err := s.get(ctx, s.db, keyToken)
	if err != nil {
		return nil, err
	}
	if len(token) == 0 {
		return nil, nil
	}

	userRaw, err := s.get(ctx, s.db, keyUser)
	if err != nil {
		return nil, err
	}

	var user models.UserProfile
	if err := json.Unmarshal(userRaw, &user); err != nil {
		return nil, nil
	}

	return &models.Credential{Token: string(token), User: user}, nil
}

// Set replaces the slot with cred. Both rows are written in a single
// transaction so the slot is never half-updated.
func (s *SQLiteStore) Set(ctx context.Context, cred *models.Credential) error {
	userRaw, err := json.Marshal(cred.User)
	if err != nil {
		return fmt.Errorf("failed to encode user profile: %w", err)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.set(ctx, tx, keyToken, []byte(cred.Token)); err != nil {
			return err
		}
		return s.set(ctx, tx, keyUser, userRaw)
	})
}

// Clear removes the slot. Safe to call when already empty.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM credentials`)
	if err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	return nil
}
