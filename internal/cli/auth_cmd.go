package cli

import (
	"errors"
	"strings"

	"github.com/alexanderramin/dealflow/internal/api"
	"github.com/alexanderramin/dealflow/internal/cli/formatter"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newLoginCmd(app *App) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || password == "" {
				if app.IsInteractive == nil || !app.IsInteractive() {
					return errors.New("--email and --password are required")
				}
				if err := loginPrompt(&email, &password).RunWithContext(cmd.Context()); err != nil {
					return err
				}
			}
			if err := app.Session.Authenticate(cmd.Context(), email, password); err != nil {
				if errors.Is(err, api.ErrUnauthorized) {
					return errBadCredentials
				}
				return describeAPIError(err)
			}
			app.sessionInit = true
			printf(cmd, "%s\n", formatter.Success("Signed in as "+formatter.UserBadge(app.Session.CurrentUser())))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when omitted)")
	return cmd
}

func loginPrompt(email, password *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Email").Value(email).Validate(validateRequired("email")),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(password).Validate(validateRequired("password")),
		),
	).WithTheme(dealflowHuhTheme())
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.ensureSession(cmd.Context()); err != nil {
				return err
			}
			if err := app.Session.Logout(cmd.Context()); err != nil {
				return err
			}
			printf(cmd, "Signed out.\n")
			return nil
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := app.requireSession(cmd.Context())
			if err != nil {
				return err
			}
			return render(cmd, app, u, func() string {
				return formatter.UserBadge(u) + "\n" + formatter.Dim(u.Email+" · "+strings.TrimRight(app.Config.APIURL, "/")) + "\n"
			})
		},
	}
}
