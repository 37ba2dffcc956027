package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/alexanderramin/dealflow/internal/api"
	"github.com/alexanderramin/dealflow/internal/cli/formatter"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
)

// loginResultMsg carries the outcome of a sign-in attempt.
type loginResultMsg struct {
	err error
}

// loginView collects credentials and signs in. It is the root view
// whenever there is no session.
type loginView struct {
	state      *SharedState
	form       *huh.Form
	email      string
	password   string
	submitting bool
}

func newLoginView(state *SharedState) *loginView {
	v := &loginView{state: state}
	v.form = v.buildForm()
	return v
}

func (v *loginView) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("you@fund.com").
				Value(&v.email).
				Validate(validateRequired("email")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&v.password).
				Validate(validateRequired("password")),
		),
	).WithTheme(dealflowHuhTheme()).WithShowHelp(false)
}

func (v *loginView) ID() ViewID    { return ViewLogin }
func (v *loginView) Title() string { return "Sign in" }

func (v *loginView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "next")),
		key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (v *loginView) Init() tea.Cmd {
	return v.form.Init()
}

func (v *loginView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if res, ok := msg.(loginResultMsg); ok {
		v.submitting = false
		if res.err == nil {
			return v, func() tea.Msg { return signedInMsg{} }
		}
		v.password = ""
		v.form = v.buildForm()
		return v, tea.Batch(v.form.Init(), func() tea.Msg {
			return noticeMsg{text: loginFailure(res.err), isErr: true}
		})
	}

	if v.submitting {
		return v, nil
	}

	form, cmd := v.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		v.form = f
	}
	if v.form.State == huh.StateCompleted {
		v.submitting = true
		app, email, password := v.state.App, v.email, v.password
		return v, tea.Batch(cmd, func() tea.Msg {
			return applyLogin(context.Background(), app, email, password)
		})
	}
	return v, cmd
}

// applyLogin signs in against the API.
func applyLogin(ctx context.Context, app *App, email, password string) tea.Msg {
	err := app.Session.Authenticate(ctx, email, password)
	if err == nil {
		app.sessionInit = true
	}
	return loginResultMsg{err: err}
}

func loginFailure(err error) string {
	if errors.Is(err, api.ErrUnauthorized) {
		return "Incorrect email or password."
	}
	return noticeFor(err)
}

func (v *loginView) View() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(formatter.Header("Sign in to dealflow") + "\n")
	b.WriteString(formatter.Dim(v.state.App.Config.APIURL) + "\n\n")
	if v.submitting {
		b.WriteString(formatter.Dim("Signing in...") + "\n")
		return b.String()
	}
	b.WriteString(v.form.View())
	return formatter.Indent(b.String(), "  ")
}
