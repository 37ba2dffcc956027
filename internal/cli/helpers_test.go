package cli

import (
	"bytes"
	"context"
	"regexp"
	"testing"

	"github.com/alexanderramin/dealflow/internal/config"
	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/alexanderramin/dealflow/internal/logging"
	"github.com/alexanderramin/dealflow/internal/repository"
	"github.com/alexanderramin/dealflow/internal/testutil"
	"github.com/stretchr/testify/require"
)

// testEnv is an App wired against a loopback stand-in API and an in-memory
// token store.
type testEnv struct {
	API *testutil.APIEnv
	App *App
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := testutil.NewMockAPI(t)

	cfg := config.DefaultConfig(t.TempDir())
	cfg.APIURL = env.URL
	tokens := repository.NewSQLiteTokenRepo(testutil.NewTestDB(t))

	return &testEnv{
		API: env,
		App: NewApp(cfg, tokens, logging.Discard()),
	}
}

// testApp returns an App signed in as a fresh account with role.
func testApp(t *testing.T, role domain.Role) (*testEnv, domain.User) {
	t.Helper()
	e := newTestEnv(t)
	return e, e.signIn(t, role)
}

// signIn seeds an account for role and signs the App in as it.
func (e *testEnv) signIn(t *testing.T, role domain.Role) domain.User {
	t.Helper()
	u := e.API.SeedUser(t, role)
	require.NoError(t, e.App.Session.Login(context.Background(), e.API.Token(t, u)))
	e.App.sessionInit = true
	return u
}

// seedDeal stores a deal on the stand-in and returns it with its ID.
func (e *testEnv) seedDeal(name string, opts ...testutil.DealOption) domain.Deal {
	return e.API.Server.SeedDeal(testutil.NewTestDeal(name, opts...))
}

// executeCmd runs the root command with args and returns stdout and stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCmd(app)
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stripANSI(stdout.String()), stripANSI(stderr.String()), err
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}
