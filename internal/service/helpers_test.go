package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/dealflow/internal/api"
	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/alexanderramin/dealflow/internal/repository"
	"github.com/alexanderramin/dealflow/internal/testutil"
	"github.com/stretchr/testify/require"
)

// fixture is a signed-in session against a fresh stand-in API.
type fixture struct {
	env     *testutil.APIEnv
	client  *api.Client
	tokens  *repository.SQLiteTokenRepo
	session *SessionStore
	user    domain.User
}

func newFixture(t *testing.T, role domain.Role) *fixture {
	t.Helper()
	env := testutil.NewMockAPI(t)
	client := env.Client()
	tokens := repository.NewSQLiteTokenRepo(testutil.NewTestDB(t))
	session := NewSessionStore(client, tokens, env.URL)
	client.SetCredentials(session)

	user := env.SeedUser(t, role)
	require.NoError(t, session.Login(context.Background(), env.Token(t, user)))
	return &fixture{env: env, client: client, tokens: tokens, session: session, user: user}
}

func (f *fixture) seedDeal(name string, opts ...testutil.DealOption) domain.Deal {
	return f.env.Server.SeedDeal(testutil.NewTestDeal(name, append([]testutil.DealOption{testutil.WithOwner(f.user.ID)}, opts...)...))
}

// staticSession is a Session with a fixed user.
type staticSession struct {
	user *domain.User
}

func (s staticSession) CurrentUser() *domain.User { return s.user }

func sessionAs(role domain.Role) staticSession {
	return staticSession{user: &domain.User{ID: 1, Email: "x@fund.test", Role: role, IsActive: true}}
}

type recordingObserver struct {
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.events = append(r.events, e)
}
