package cli

import (
	"context"

	"github.com/alexanderramin/dealflow/internal/cli/formatter"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// usersLoadedMsg signals that the account list has been fetched.
type usersLoadedMsg struct {
	err error
}

func (usersLoadedMsg) targetView() ViewID { return ViewUsers }

// usersView lists accounts for an admin.
type usersView struct {
	state   *SharedState
	loading bool
}

func newUsersView(state *SharedState) *usersView {
	return &usersView{state: state, loading: true}
}

func (v *usersView) ID() ViewID    { return ViewUsers }
func (v *usersView) Title() string { return "Users" }

func (v *usersView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new user")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	}
}

func (v *usersView) Init() tea.Cmd {
	return v.load()
}

func (v *usersView) load() tea.Cmd {
	users := v.state.App.Users
	v.loading = true
	return func() tea.Msg {
		_, err := users.List(context.Background())
		return usersLoadedMsg{err: err}
	}
}

func (v *usersView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case usersLoadedMsg:
		v.loading = false
		if msg.err != nil {
			return v, errorCmd(msg.err)
		}
	case refreshViewMsg:
		return v, v.load()
	case tea.KeyMsg:
		switch msg.String() {
		case "n":
			return v, pushView(newUserFormView(v.state))
		case "r":
			return v, v.load()
		}
	}
	return v, nil
}

func (v *usersView) View() string {
	if v.loading && len(v.state.App.Users.Users()) == 0 {
		return "\n  " + formatter.Dim("Loading users...")
	}
	return "\n" + formatter.Indent(formatter.FormatUserList(v.state.App.Users.Users()), "  ")
}
