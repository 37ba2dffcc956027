package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alexanderramin/dealflow/internal/cli/formatter"
	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/spf13/cobra"
)

func newMemoCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "memo",
		Short: "Read and write investment memos",
	}

	cmd.AddCommand(
		newMemoShowCmd(app),
		newMemoVersionsCmd(app),
		newMemoEditCmd(app),
	)

	return cmd
}

// loadMemo signs in and loads the memo editor for the deal named by arg.
func loadMemo(cmd *cobra.Command, app *App, arg string) (int64, error) {
	id, err := parseDealID(arg)
	if err != nil {
		return 0, err
	}
	if _, err := app.requireSession(cmd.Context()); err != nil {
		return 0, err
	}
	if err := app.Memo.Load(cmd.Context(), id); err != nil {
		return 0, describeAPIError(err)
	}
	return id, nil
}

func newMemoShowCmd(app *App) *cobra.Command {
	var version int

	cmd := &cobra.Command{
		Use:   "show <deal-id>",
		Short: "Print the current memo or a past version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dealID, err := loadMemo(cmd, app, args[0])
			if err != nil {
				return err
			}

			if version > 0 {
				v, ok := findVersion(app.Memo.Versions(), version)
				if !ok {
					return fmt.Errorf("deal #%d has no memo version %d", dealID, version)
				}
				if err := app.Memo.SelectVersion(v.ID); err != nil {
					return err
				}
				return render(cmd, app, v, func() string {
					return formatter.MemoBanner(v.VersionNumber, false) + "\n\n" + formatter.FormatMemo(v.MemoSections)
				})
			}

			memo := app.Memo.Memo()
			if memo == nil {
				if app.output != outputTable {
					return render(cmd, app, nil, nil)
				}
				printf(cmd, "%s\n", formatter.Dim(fmt.Sprintf("Deal #%d has no memo yet.", dealID)))
				return nil
			}
			return render(cmd, app, memo, func() string {
				return formatter.MemoBanner(0, false) + "\n\n" + formatter.FormatMemo(memo.MemoSections)
			})
		},
	}

	cmd.Flags().IntVar(&version, "version", 0, "version number to show")
	return cmd
}

func findVersion(versions []domain.MemoVersion, number int) (domain.MemoVersion, bool) {
	for _, v := range versions {
		if v.VersionNumber == number {
			return v, true
		}
	}
	return domain.MemoVersion{}, false
}

func newMemoVersionsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "versions <deal-id>",
		Short: "List memo versions, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadMemo(cmd, app, args[0]); err != nil {
				return err
			}
			versions := app.Memo.Versions()
			return render(cmd, app, versions, func() string {
				return formatter.FormatVersionList(versions)
			})
		},
	}
}

func newMemoEditCmd(app *App) *cobra.Command {
	var section, text, file string

	cmd := &cobra.Command{
		Use:   "edit <deal-id>",
		Short: "Replace one memo section and save a new version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := domain.ParseSectionKey(section)
			if err != nil {
				return err
			}
			body, err := sectionBody(cmd, text, file)
			if err != nil {
				return err
			}
			if _, err := loadMemo(cmd, app, args[0]); err != nil {
				return err
			}
			if err := app.Memo.BeginEdit(); err != nil {
				return err
			}
			if err := app.Memo.SetSection(key, body); err != nil {
				return err
			}
			if err := app.Memo.Save(cmd.Context()); err != nil {
				app.Memo.Cancel()
				return describeAPIError(err)
			}

			msg := "Saved " + key.Label()
			if versions := app.Memo.Versions(); len(versions) > 0 {
				msg += fmt.Sprintf(" (version %d)", versions[0].VersionNumber)
			}
			printf(cmd, "%s\n", formatter.Success(msg))
			return nil
		},
	}

	cmd.Flags().StringVar(&section, "section", "", "summary, market, product, traction, risks or open_questions")
	cmd.Flags().StringVar(&text, "text", "", "new section text")
	cmd.Flags().StringVar(&file, "file", "", "read the section text from a file (- for stdin)")
	_ = cmd.MarkFlagRequired("section")
	cmd.MarkFlagsMutuallyExclusive("text", "file")
	return cmd
}

func sectionBody(cmd *cobra.Command, text, file string) (string, error) {
	switch file {
	case "":
		if !cmd.Flags().Changed("text") {
			return "", errors.New("one of --text or --file is required")
		}
		return text, nil
	case "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	default:
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", file, err)
		}
		return string(data), nil
	}
}
