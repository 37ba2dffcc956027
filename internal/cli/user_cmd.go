package cli

import (
	"fmt"

	"github.com/alexanderramin/dealflow/internal/cli/formatter"
	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/spf13/cobra"
)

func newUserCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts (admins only)",
	}

	cmd.AddCommand(
		newUserListCmd(app),
		newUserCreateCmd(app),
	)

	return cmd
}

func newUserListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireSession(cmd.Context()); err != nil {
				return err
			}
			users, err := app.Users.List(cmd.Context())
			if err != nil {
				return describeAPIError(err)
			}
			return render(cmd, app, users, func() string {
				return formatter.FormatUserList(users)
			})
		},
	}
}

func newUserCreateCmd(app *App) *cobra.Command {
	var in domain.UserCreate
	var role string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireSession(cmd.Context()); err != nil {
				return err
			}
			in.Role = domain.Role(role)
			u, err := app.Users.Create(cmd.Context(), in)
			if err != nil {
				return describeAPIError(err)
			}
			printf(cmd, "%s\n", formatter.Success(fmt.Sprintf("Created %s %s", u.Email, formatter.RoleBadge(u.Role))))
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Email, "email", "", "login email")
	cmd.Flags().StringVar(&in.FullName, "name", "", "full name")
	cmd.Flags().StringVar(&in.Password, "password", "", "initial password (at least 6 characters)")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleAnalyst), "admin, analyst or partner")
	return cmd
}
