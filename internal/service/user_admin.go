package service

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/alexanderramin/dealflow/internal/api"
	"github.com/alexanderramin/dealflow/internal/domain"
)

// UserAdmin lists and creates accounts. Admin only.
type UserAdmin struct {
	users    api.UserAPI
	session  Session
	observer UseCaseObserver

	mu    sync.Mutex
	items []domain.User
}

func NewUserAdmin(users api.UserAPI, session Session, observers ...UseCaseObserver) *UserAdmin {
	return &UserAdmin{
		users:    users,
		session:  session,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Allowed reports whether the signed-in role may manage users.
func (a *UserAdmin) Allowed() bool {
	return roleOf(a.session).CanAdminister()
}

// List fetches every account.
func (a *UserAdmin) List(ctx context.Context) ([]domain.User, error) {
	if !a.Allowed() {
		return nil, ErrPermissionDenied
	}
	users, err := a.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	a.mu.Lock()
	a.items = users
	a.mu.Unlock()
	return slices.Clone(users), nil
}

// Users returns the last fetched list.
func (a *UserAdmin) Users() []domain.User {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.items)
}

// Create validates and submits a new account, then refetches the list.
func (a *UserAdmin) Create(ctx context.Context, in domain.UserCreate) (created *domain.User, err error) {
	startedAt := time.Now()
	fields := map[string]any{"role": string(in.Role)}
	defer observe(ctx, a.observer, "create-user", startedAt, fields, &err)

	if !a.Allowed() {
		return nil, ErrPermissionDenied
	}
	in.Email = strings.TrimSpace(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)
	if err = in.Validate(); err != nil {
		return nil, err
	}
	created, err = a.users.CreateUser(ctx, in)
	if err != nil {
		return nil, err
	}
	fields["user_id"] = created.ID
	if _, err = a.List(ctx); err != nil {
		return created, err
	}
	return created, nil
}
