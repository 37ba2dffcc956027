package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/dealflow/internal/cli/formatter"
	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/alexanderramin/dealflow/internal/service"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func parseDealID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(s), "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid deal ID %q", s)
	}
	return id, nil
}

func newDealCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deal",
		Short: "Manage pipeline deals",
	}

	cmd.AddCommand(
		newDealListCmd(app),
		newDealShowCmd(app),
		newDealCreateCmd(app),
		newDealUpdateCmd(app),
		newDealDeleteCmd(app),
		newDealMoveCmd(app),
	)

	return cmd
}

func newDealListCmd(app *App) *cobra.Command {
	var stage string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List deals",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireSession(cmd.Context()); err != nil {
				return err
			}
			if err := app.Board.Load(cmd.Context()); err != nil {
				return describeAPIError(err)
			}
			deals := app.Board.Deals()
			if stage != "" {
				s, err := domain.ParseStage(stage)
				if err != nil {
					return err
				}
				filtered := deals[:0]
				for _, d := range deals {
					if d.Stage == s {
						filtered = append(filtered, d)
					}
				}
				deals = filtered
			}
			return render(cmd, app, deals, func() string {
				return formatter.FormatDealList(deals)
			})
		},
	}

	cmd.Flags().StringVar(&stage, "stage", "", "only deals in this stage")
	return cmd
}

func newDealShowCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "show <deal-id>",
		Short: "Show a deal and its recent activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseDealID(args[0])
			if err != nil {
				return err
			}
			if _, err := app.requireSession(cmd.Context()); err != nil {
				return err
			}
			if err := app.Activity.Load(cmd.Context(), id); err != nil {
				return describeAPIError(err)
			}
			deal := app.Activity.Deal()
			return render(cmd, app, deal, func() string {
				return formatter.FormatDeal(*deal) + "\n\n" +
					formatter.Header("Activity") + "\n" +
					formatter.FormatActivities(app.Activity.Activities(), limit)
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "activity entries to show (0 for all)")
	return cmd
}

// dealFlags binds the editable deal fields. Only flags the user set are
// applied, so an update keeps every other field of the fetched record.
type dealFlags struct {
	name, url, round, checkSize, stage, status string
}

func (f *dealFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.name, "name", "", "company name")
	fs.StringVar(&f.url, "url", "", "company website")
	fs.StringVar(&f.round, "round", "", "round, e.g. Seed or Series A")
	fs.StringVar(&f.checkSize, "check-size", "", "planned check size (\"none\" clears it)")
	fs.StringVar(&f.stage, "stage", "", "pipeline stage")
	fs.StringVar(&f.status, "status", "", "active, archived, approved or declined")
}

func (f *dealFlags) apply(fs *pflag.FlagSet, in *domain.DealInput) error {
	if fs.Changed("name") {
		in.Name = strings.TrimSpace(f.name)
	}
	if fs.Changed("url") {
		in.CompanyURL = strings.TrimSpace(f.url)
	}
	if fs.Changed("round") {
		in.Round = strings.TrimSpace(f.round)
	}
	if fs.Changed("check-size") {
		v, err := parseCheckSize(f.checkSize)
		if err != nil {
			return err
		}
		in.CheckSize = v
	}
	if fs.Changed("stage") {
		s, err := domain.ParseStage(f.stage)
		if err != nil {
			return err
		}
		in.Stage = s
	}
	if fs.Changed("status") {
		in.Status = domain.DealStatus(strings.ToLower(strings.TrimSpace(f.status)))
	}
	return nil
}

func newDealCreateCmd(app *App) *cobra.Command {
	var flags dealFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a deal",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireSession(cmd.Context()); err != nil {
				return err
			}
			in := domain.NewDealInput()
			if err := flags.apply(cmd.Flags(), &in); err != nil {
				return err
			}
			d, err := app.Board.SaveDeal(cmd.Context(), 0, in)
			if err != nil {
				return describeAPIError(err)
			}
			printf(cmd, "%s\n", formatter.Success(fmt.Sprintf("Created deal #%d %s in %s", d.ID, formatter.Bold(d.Name), d.Stage.Label())))
			return nil
		},
	}

	flags.register(cmd.Flags())
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newDealUpdateCmd(app *App) *cobra.Command {
	var flags dealFlags

	cmd := &cobra.Command{
		Use:   "update <deal-id>",
		Short: "Update a deal's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseDealID(args[0])
			if err != nil {
				return err
			}
			if _, err := app.requireSession(cmd.Context()); err != nil {
				return err
			}
			current, err := app.API.GetDeal(cmd.Context(), id)
			if err != nil {
				return describeAPIError(err)
			}
			in := current.Input()
			if err := flags.apply(cmd.Flags(), &in); err != nil {
				return err
			}
			d, err := app.Board.SaveDeal(cmd.Context(), id, in)
			if err != nil {
				return describeAPIError(err)
			}
			printf(cmd, "%s\n", formatter.Success(fmt.Sprintf("Updated deal #%d %s", d.ID, formatter.Bold(d.Name))))
			return nil
		},
	}

	flags.register(cmd.Flags())
	return cmd
}

func newDealDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <deal-id>",
		Short: "Delete a deal with its memo and activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseDealID(args[0])
			if err != nil {
				return err
			}
			if _, err := app.requireSession(cmd.Context()); err != nil {
				return err
			}
			if !yes {
				if app.IsInteractive == nil || !app.IsInteractive() {
					return errors.New("refusing to delete without --yes")
				}
				confirm := huh.NewConfirm().Title(fmt.Sprintf("Delete deal #%d?", id)).Value(&yes)
				if err := huh.NewForm(huh.NewGroup(confirm)).WithTheme(dealflowHuhTheme()).RunWithContext(cmd.Context()); err != nil {
					return err
				}
				if !yes {
					printf(cmd, "Cancelled.\n")
					return nil
				}
			}
			if err := app.Board.DeleteDeal(cmd.Context(), id); err != nil {
				return describeAPIError(err)
			}
			printf(cmd, "%s\n", formatter.Success(fmt.Sprintf("Deleted deal #%d", id)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newDealMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move <deal-id> <stage>",
		Short: "Move a deal to another pipeline stage",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseDealID(args[0])
			if err != nil {
				return err
			}
			stage, err := domain.ParseStage(args[1])
			if err != nil {
				return err
			}
			if _, err := app.requireSession(cmd.Context()); err != nil {
				return err
			}
			if err := app.Board.Load(cmd.Context()); err != nil {
				return describeAPIError(err)
			}
			deal, ok := app.Board.Deal(id)
			if !ok {
				return fmt.Errorf("deal #%d not found", id)
			}

			out := app.Board.MoveDeal(cmd.Context(), id, stage)
			switch out.Result {
			case service.MoveNoop:
				printf(cmd, "%s is already in %s.\n", deal.Name, stage.Label())
				return nil
			case service.MoveRolledBack:
				fmt.Fprintln(cmd.ErrOrStderr(), formatter.StyleRed.Render(out.Notice))
				return describeAPIError(out.Err)
			}
			printf(cmd, "%s\n", formatter.Success(fmt.Sprintf("Moved %s from %s to %s",
				formatter.Bold(deal.Name), out.From.Label(), out.To.Label())))
			return nil
		},
	}
}
