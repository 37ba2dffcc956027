package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/dealflow/internal/domain"
)

// ErrNotFound is returned when no row matches the lookup key.
var ErrNotFound = errors.New("not found")

// TokenRepo persists the bearer token issued by an API, keyed by base URL.
type TokenRepo interface {
	Get(ctx context.Context, baseURL string) (*domain.StoredToken, error)
	Save(ctx context.Context, t *domain.StoredToken) error
	Delete(ctx context.Context, baseURL string) error
}
