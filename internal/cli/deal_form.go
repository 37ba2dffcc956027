package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/dealflow/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// dealFormFields holds the form-bound values of the deal form.
type dealFormFields struct {
	name      string
	url       string
	round     string
	checkSize string
	stage     domain.Stage
	status    domain.DealStatus
}

func newDealFormFields(d *domain.Deal) *dealFormFields {
	in := domain.NewDealInput()
	if d != nil {
		in = d.Input()
	}
	f := &dealFormFields{
		name:   in.Name,
		url:    in.CompanyURL,
		round:  in.Round,
		stage:  in.Stage,
		status: in.Status,
	}
	if in.CheckSize.Valid {
		f.checkSize = in.CheckSize.Decimal.String()
	}
	return f
}

func (f *dealFormFields) input() (domain.DealInput, error) {
	check, err := parseCheckSize(f.checkSize)
	if err != nil {
		return domain.DealInput{}, err
	}
	return domain.DealInput{
		Name:       strings.TrimSpace(f.name),
		CompanyURL: strings.TrimSpace(f.url),
		Stage:      f.stage,
		Round:      strings.TrimSpace(f.round),
		CheckSize:  check,
		Status:     f.status,
	}, nil
}

// newDealFormView opens the create form when d is nil and the edit form
// otherwise.
func newDealFormView(state *SharedState, d *domain.Deal) View {
	f := newDealFormFields(d)
	title := "New Deal"
	var editingID int64
	if d != nil {
		title = "Edit " + d.Name
		editingID = d.ID
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Company Name").Value(&f.name).Validate(validateRequired("name")),
			huh.NewInput().Title("Company URL (optional)").Placeholder("https://").Value(&f.url).Validate(validateOptionalURL),
			huh.NewInput().Title("Round (optional)").Placeholder("Series A").Value(&f.round),
			huh.NewInput().Title("Check Size (optional)").Placeholder("1500000").Value(&f.checkSize).Validate(validateCheckSize),
		),
		huh.NewGroup(
			huh.NewSelect[domain.Stage]().Title("Stage").Options(stageOptions()...).Value(&f.stage),
			huh.NewSelect[domain.DealStatus]().Title("Status").Options(statusOptions()...).Value(&f.status),
		),
	)

	app := state.App
	return newFormView(state, title, form, func() tea.Cmd {
		return func() tea.Msg { return applyDealForm(context.Background(), app, editingID, f) }
	})
}

// applyDealForm validates and saves the form, creating when editingID is 0.
func applyDealForm(ctx context.Context, app *App, editingID int64, f *dealFormFields) tea.Msg {
	in, err := f.input()
	if err != nil {
		return errorMsg(err)
	}
	d, err := app.Board.SaveDeal(ctx, editingID, in)
	if err != nil {
		return errorMsg(err)
	}
	verb := "Updated"
	if editingID == 0 {
		verb = "Created"
	}
	return noticeMsg{text: fmt.Sprintf("%s %s.", verb, d.Name)}
}

// newDeleteDealView asks for confirmation before deleting d.
func newDeleteDealView(state *SharedState, d domain.Deal) View {
	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %s?", d.Name)).
				Description("Its memo, versions and activity are deleted too.").
				Affirmative("Delete").
				Negative("Keep").
				Value(&confirmed),
		),
	)
	app := state.App
	return newFormView(state, "Delete Deal", form, func() tea.Cmd {
		return func() tea.Msg {
			if !confirmed {
				return noticeMsg{text: "Cancelled."}
			}
			return applyDeleteDeal(context.Background(), app, d)
		}
	})
}

func applyDeleteDeal(ctx context.Context, app *App, d domain.Deal) tea.Msg {
	if err := app.Board.DeleteDeal(ctx, d.ID); err != nil {
		return errorMsg(err)
	}
	return noticeMsg{text: fmt.Sprintf("Deleted %s.", d.Name)}
}

// userFormFields holds the form-bound values of the new-user form.
type userFormFields struct {
	email    string
	fullName string
	password string
	role     domain.Role
}

func newUserFormView(state *SharedState) View {
	f := &userFormFields{role: domain.RoleAnalyst}
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Email").Value(&f.email).Validate(validateRequired("email")),
			huh.NewInput().Title("Full Name").Value(&f.fullName).Validate(validateRequired("full name")),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&f.password).Validate(validateRequired("password")),
			huh.NewSelect[domain.Role]().Title("Role").Options(roleOptions()...).Value(&f.role),
		),
	)
	app := state.App
	return newFormView(state, "New User", form, func() tea.Cmd {
		return func() tea.Msg { return applyUserForm(context.Background(), app, f) }
	})
}

func applyUserForm(ctx context.Context, app *App, f *userFormFields) tea.Msg {
	u, err := app.Users.Create(ctx, domain.UserCreate{
		Email:    f.email,
		Password: f.password,
		Role:     f.role,
		FullName: f.fullName,
	})
	if err != nil {
		return errorMsg(err)
	}
	return noticeMsg{text: fmt.Sprintf("Created %s (%s).", u.Email, u.Role)}
}
