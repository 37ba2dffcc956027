package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/dealflow/internal/cli/formatter"
	"github.com/spf13/cobra"
)

// loadActivity signs in and loads the activity panel for the deal in arg.
func loadActivity(cmd *cobra.Command, app *App, arg string) error {
	id, err := parseDealID(arg)
	if err != nil {
		return err
	}
	if _, err := app.requireSession(cmd.Context()); err != nil {
		return err
	}
	if err := app.Activity.Load(cmd.Context(), id); err != nil {
		return describeAPIError(err)
	}
	return nil
}

func newActivityCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Read and comment on a deal's activity log",
	}

	cmd.AddCommand(
		newActivityListCmd(app),
		newActivityCommentCmd(app),
	)

	return cmd
}

func newActivityListCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list <deal-id>",
		Short: "Show the activity log, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadActivity(cmd, app, args[0]); err != nil {
				return err
			}
			items := app.Activity.Activities()
			return render(cmd, app, items, func() string {
				return formatter.FormatActivities(items, limit)
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "entries to show (0 for all)")
	return cmd
}

func newActivityCommentCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "comment <deal-id> <text>...",
		Short: "Add a comment to a deal",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadActivity(cmd, app, args[0]); err != nil {
				return err
			}
			if err := app.Activity.Comment(cmd.Context(), strings.Join(args[1:], " ")); err != nil {
				return describeAPIError(err)
			}
			printf(cmd, "%s\n", formatter.Success("Comment added"))
			return nil
		},
	}
}

// partnerActionCmd builds vote, approve and decline, which share one shape.
func partnerActionCmd(app *App, use, short, done string, act func(ctx context.Context) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <deal-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := loadActivity(cmd, app, args[0]); err != nil {
				return err
			}
			if err := act(cmd.Context()); err != nil {
				return describeAPIError(err)
			}
			d := app.Activity.Deal()
			printf(cmd, "%s\n", formatter.Success(fmt.Sprintf("%s %s", done, formatter.Bold(d.Name))))
			return nil
		},
	}
}

func newVoteCmd(app *App) *cobra.Command {
	return partnerActionCmd(app, "vote", "Vote for a deal (partners, once per deal)", "Voted for",
		func(ctx context.Context) error { return app.Activity.Vote(ctx) })
}

func newApproveCmd(app *App) *cobra.Command {
	return partnerActionCmd(app, "approve", "Approve a deal (partners)", "Approved",
		func(ctx context.Context) error { return app.Activity.Approve(ctx) })
}

func newDeclineCmd(app *App) *cobra.Command {
	return partnerActionCmd(app, "decline", "Decline a deal (partners)", "Declined",
		func(ctx context.Context) error { return app.Activity.Decline(ctx) })
}
