package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// runTUI restores the saved session and runs the full-screen client until
// the user quits.
func runTUI(ctx context.Context, app *App) error {
	if err := app.ensureSession(ctx); err != nil {
		return err
	}
	p := tea.NewProgram(newAppModel(app), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func newBoardCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Open the interactive pipeline board",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), app)
		},
	}
}
