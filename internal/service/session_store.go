package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/alexanderramin/dealflow/internal/api"
	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/alexanderramin/dealflow/internal/repository"
)

// SessionStore owns the bearer token and the resolved profile of the
// signed-in user. The token is the only client state persisted across runs.
// The lock is never held across a network call.
type SessionStore struct {
	auth     api.AuthAPI
	tokens   repository.TokenRepo
	baseURL  string
	observer UseCaseObserver

	mu      sync.RWMutex
	token   string
	user    *domain.User
	loading bool
}

// NewSessionStore creates a store whose persisted token is keyed by baseURL.
func NewSessionStore(auth api.AuthAPI, tokens repository.TokenRepo, baseURL string, observers ...UseCaseObserver) *SessionStore {
	return &SessionStore{
		auth:     auth,
		tokens:   tokens,
		baseURL:  baseURL,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Init restores a persisted token and resolves its profile. Any failure to
// resolve the profile logs out without retrying; only local storage errors
// are returned.
func (s *SessionStore) Init(ctx context.Context) (err error) {
	startedAt := time.Now()
	fields := map[string]any{"base_url": s.baseURL}
	defer observe(ctx, s.observer, "session-init", startedAt, fields, &err)

	s.setLoading(true)
	defer s.setLoading(false)

	stored, err := s.tokens.Get(ctx, s.baseURL)
	if errors.Is(err, repository.ErrNotFound) {
		fields["restored"] = false
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading saved token: %w", err)
	}

	s.mu.Lock()
	s.token = stored.Token
	s.user = nil
	s.mu.Unlock()

	user, meErr := s.auth.Me(ctx)
	if meErr != nil {
		fields["restored"] = false
		fields["reason"] = meErr.Error()
		return s.Logout(ctx)
	}
	fields["restored"] = s.adopt(stored.Token, user)
	return nil
}

// Login persists token and resolves the profile behind it. If the profile
// cannot be resolved the session is logged out and the error returned.
func (s *SessionStore) Login(ctx context.Context, token string) (err error) {
	startedAt := time.Now()
	defer observe(ctx, s.observer, "login", startedAt, nil, &err)

	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("%w: empty token", ErrNoSession)
	}

	s.mu.Lock()
	s.token = token
	s.user = nil
	s.mu.Unlock()

	if err := s.tokens.Save(ctx, &domain.StoredToken{BaseURL: s.baseURL, Token: token}); err != nil {
		_ = s.Logout(ctx)
		return fmt.Errorf("saving token: %w", err)
	}

	user, err := s.auth.Me(ctx)
	if err != nil {
		_ = s.Logout(ctx)
		return fmt.Errorf("resolving profile: %w", err)
	}
	s.adopt(token, user)
	return nil
}

// Authenticate exchanges email and password for a token and signs in with it.
func (s *SessionStore) Authenticate(ctx context.Context, email, password string) error {
	creds := domain.Credentials{Email: strings.TrimSpace(email), Password: password}
	if err := creds.Validate(); err != nil {
		return err
	}
	tok, err := s.auth.Login(ctx, creds)
	if err != nil {
		return err
	}
	return s.Login(ctx, tok.AccessToken)
}

// Logout clears the token and profile and forgets the persisted token.
func (s *SessionStore) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if err := s.tokens.Delete(ctx, s.baseURL); err != nil {
		return fmt.Errorf("deleting saved token: %w", err)
	}
	return nil
}

// Invalidate tears the session down after the API rejected the token.
func (s *SessionStore) Invalidate(ctx context.Context) {
	err := s.Logout(ctx)
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      "session-invalidated",
		StartedAt: time.Now(),
		Success:   err == nil,
		Err:       err,
	})
}

// adopt installs user unless the token changed while the profile was in
// flight. It reports whether the profile was kept.
func (s *SessionStore) adopt(token string, user *domain.User) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token != token {
		return false
	}
	s.user = user
	return true
}

func (s *SessionStore) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *SessionStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// CurrentUser returns a copy of the signed-in profile, or nil.
func (s *SessionStore) CurrentUser() *domain.User {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *SessionStore) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.user != nil
}

// IsLoading is true only while Init is resolving a restored token.
func (s *SessionStore) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

var _ api.Credentials = (*SessionStore)(nil)
