package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/dealflow/internal/db"
	"github.com/alexanderramin/dealflow/internal/domain"
)

// SQLiteTokenRepo implements TokenRepo using a SQLite database.
type SQLiteTokenRepo struct {
	db db.DBTX
}

// NewSQLiteTokenRepo creates a new SQLiteTokenRepo.
func NewSQLiteTokenRepo(conn db.DBTX) *SQLiteTokenRepo {
	return &SQLiteTokenRepo{db: conn}
}

func (r *SQLiteTokenRepo) Get(ctx context.Context, baseURL string) (*domain.StoredToken, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT base_url, token, saved_at FROM auth_tokens WHERE base_url = ?`, baseURL)

	var (
		t       domain.StoredToken
		savedAt string
	)
	if err := row.Scan(&t.BaseURL, &t.Token, &savedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("token for %s: %w", baseURL, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning token: %w", err)
	}
	t.SavedAt = parseTime(savedAt)
	return &t, nil
}

func (r *SQLiteTokenRepo) Save(ctx context.Context, t *domain.StoredToken) error {
	if t.SavedAt.IsZero() {
		t.SavedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO auth_tokens (base_url, token, saved_at) VALUES (?, ?, ?)`,
		t.BaseURL, t.Token, t.SavedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("saving token: %w", err)
	}
	return nil
}

// Delete removes the token for baseURL. Deleting a missing token is not an error.
func (r *SQLiteTokenRepo) Delete(ctx context.Context, baseURL string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM auth_tokens WHERE base_url = ?`, baseURL); err != nil {
		return fmt.Errorf("deleting token: %w", err)
	}
	return nil
}
