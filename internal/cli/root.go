package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alexanderramin/dealflow/internal/api"
	"github.com/alexanderramin/dealflow/internal/config"
	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/alexanderramin/dealflow/internal/repository"
	"github.com/alexanderramin/dealflow/internal/service"
	"github.com/spf13/cobra"
)

var errNotSignedIn = errors.New("not signed in: run `dealflow login` first")

// App holds the services shared by the cobra commands and the TUI. Connect
// rebuilds the API-bound services when the base URL changes.
type App struct {
	Config config.Config
	Logger *slog.Logger
	Tokens repository.TokenRepo

	API      *api.Client
	Session  *service.SessionStore
	Board    *service.PipelineBoard
	Memo     *service.MemoEditor
	Activity *service.ActivityPanel
	Users    *service.UserAdmin

	// IsInteractive reports whether the bare command should open the TUI.
	IsInteractive func() bool

	output      outputFormat
	sessionInit bool
}

// NewApp wires the services against cfg.APIURL.
func NewApp(cfg config.Config, tokens repository.TokenRepo, logger *slog.Logger) *App {
	app := &App{Config: cfg, Logger: logger, Tokens: tokens, output: outputTable}
	app.Connect(cfg.APIURL)
	return app
}

// Connect points every service at baseURL. The session is re-read from the
// token store on next use.
func (a *App) Connect(baseURL string) {
	baseURL = strings.TrimRight(baseURL, "/")
	a.Config.APIURL = baseURL

	var callObserver api.Observer = api.NoopObserver{}
	if a.Config.LogCalls {
		callObserver = api.NewLogObserver(a.Logger)
	}
	client := api.NewClient(api.Config{
		BaseURL:        baseURL,
		DialTimeout:    a.Config.DialTimeout,
		RequestTimeout: a.Config.RequestTimeout,
	}, callObserver)

	useCases := service.NewLogUseCaseObserver(a.Logger)
	session := service.NewSessionStore(client, a.Tokens, baseURL, useCases)
	client.SetCredentials(session)

	a.API = client
	a.Session = session
	a.Board = service.NewPipelineBoard(client, session, useCases)
	a.Memo = service.NewMemoEditor(client, session, useCases)
	a.Activity = service.NewActivityPanel(client, session, useCases)
	a.Users = service.NewUserAdmin(client, session, useCases)
	a.sessionInit = false
}

// ensureSession restores the persisted token once per process.
func (a *App) ensureSession(ctx context.Context) error {
	if a.sessionInit {
		return nil
	}
	a.sessionInit = true
	return a.Session.Init(ctx)
}

// requireSession returns the signed-in user or errNotSignedIn.
func (a *App) requireSession(ctx context.Context) (*domain.User, error) {
	if err := a.ensureSession(ctx); err != nil {
		return nil, err
	}
	u := a.Session.CurrentUser()
	if u == nil {
		return nil, errNotSignedIn
	}
	return u, nil
}

// NewRootCmd creates the top-level "dealflow" command and registers all
// subcommands against app.
func NewRootCmd(app *App) *cobra.Command {
	var apiURL, output string

	root := &cobra.Command{
		Use:           "dealflow",
		Short:         "Terminal client for the venture deal pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseOutputFormat(output)
			if err != nil {
				return err
			}
			app.output = format
			if cmd.Flags().Changed("api-url") {
				app.Connect(apiURL)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && app.IsInteractive() {
				return runTUI(cmd.Context(), app)
			}
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringVar(&apiURL, "api-url", app.Config.APIURL, "pipeline API base URL")
	root.PersistentFlags().StringVarP(&output, "output", "o", string(outputTable), "output format: table, json or yaml")

	root.AddCommand(
		newLoginCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newDealCmd(app),
		newMemoCmd(app),
		newActivityCmd(app),
		newVoteCmd(app),
		newApproveCmd(app),
		newDeclineCmd(app),
		newUserCmd(app),
		newBoardCmd(app),
		newMockServerCmd(app),
	)

	return root
}

// printf writes to the command's stdout.
func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
