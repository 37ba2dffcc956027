package testutil

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/alexanderramin/dealflow/internal/api"
	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/alexanderramin/dealflow/internal/mockapi"
)

// APIEnv is a stand-in API served over a real loopback listener.
type APIEnv struct {
	Server *mockapi.Server
	URL    string
}

// NewMockAPI starts an empty stand-in server, stopped when the test completes.
func NewMockAPI(t *testing.T) *APIEnv {
	t.Helper()
	srv := mockapi.New(mockapi.Options{Secret: "test-secret"})
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return &APIEnv{Server: srv, URL: ts.URL}
}

// SeedUser registers an account for role; its password is TestPassword.
func (e *APIEnv) SeedUser(t *testing.T, role domain.Role) domain.User {
	t.Helper()
	u, err := e.Server.SeedUser(NewTestUserCreate(role))
	if err != nil {
		t.Fatalf("seeding %s: %v", role, err)
	}
	return u
}

// Token mints a bearer token for u.
func (e *APIEnv) Token(t *testing.T, u domain.User) string {
	t.Helper()
	tok, err := e.Server.TokenFor(u.ID)
	if err != nil {
		t.Fatalf("minting token: %v", err)
	}
	return tok
}

// Client returns an API client for the stand-in with no credentials bound.
func (e *APIEnv) Client() *api.Client {
	cfg := api.DefaultConfig()
	cfg.BaseURL = e.URL
	return api.NewClient(cfg, api.NoopObserver{})
}

// StaticCredentials is a fixed token source that records teardown.
type StaticCredentials struct {
	Value       string
	Invalidated int
}

func (s *StaticCredentials) Token() string { return s.Value }

func (s *StaticCredentials) Invalidate(context.Context) {
	s.Invalidated++
	s.Value = ""
}

// ClientAs returns an API client authenticated as u.
func (e *APIEnv) ClientAs(t *testing.T, u domain.User) (*api.Client, *StaticCredentials) {
	t.Helper()
	c := e.Client()
	creds := &StaticCredentials{Value: e.Token(t, u)}
	c.SetCredentials(creds)
	return c, creds
}
