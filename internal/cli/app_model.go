package cli

import (
	"strings"

	"github.com/alexanderramin/dealflow/internal/cli/formatter"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// targetedMsg is an async result that belongs to a specific view. It is
// delivered to the topmost view with that ID even when another view has
// been pushed above it in the meantime.
type targetedMsg interface {
	targetView() ViewID
}

// appModel is the root bubbletea Model for the TUI. It owns the view
// stack, the notice line and the header and status chrome.
type appModel struct {
	state     *SharedState
	viewStack []View
	quitting  bool

	notice    string
	noticeErr bool
}

func newAppModel(app *App) appModel {
	state := &SharedState{App: app}
	m := appModel{state: state}
	m.viewStack = []View{homeView(state)}
	return m
}

// homeView is the board for a signed-in user and the login form otherwise.
func homeView(state *SharedState) View {
	if state.App.Session.IsAuthenticated() {
		return newBoardView(state)
	}
	return newLoginView(state)
}

func (m *appModel) activeView() View {
	if len(m.viewStack) == 0 {
		return nil
	}
	return m.viewStack[len(m.viewStack)-1]
}

func (m *appModel) setActiveView(v View) {
	if len(m.viewStack) > 0 {
		m.viewStack[len(m.viewStack)-1] = v
	}
}

// ── bubbletea interface ──────────────────────────────────────────────────────

func (m appModel) Init() tea.Cmd {
	if v := m.activeView(); v != nil {
		return v.Init()
	}
	return nil
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.state.Width = msg.Width
		m.state.Height = msg.Height
		return m.forward(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case pushViewMsg:
		m.viewStack = append(m.viewStack, msg.view)
		return m, msg.view.Init()

	case popViewMsg:
		if len(m.viewStack) > 1 {
			m.viewStack = m.viewStack[:len(m.viewStack)-1]
		}
		return m, nil

	case replaceViewMsg:
		if len(m.viewStack) > 0 {
			m.viewStack[len(m.viewStack)-1] = msg.view
		} else {
			m.viewStack = append(m.viewStack, msg.view)
		}
		return m, msg.view.Init()

	case signedOutMsg:
		m.notice, m.noticeErr = "Signed out.", false
		v := newLoginView(m.state)
		m.viewStack = []View{v}
		return m, v.Init()

	case refreshViewMsg:
		var cmds []tea.Cmd
		for i, v := range m.viewStack {
			updated, cmd := v.Update(msg)
			m.viewStack[i] = updated.(View)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case noticeMsg:
		m.notice = msg.text
		m.noticeErr = msg.isErr
		return m, nil

	case sessionExpiredMsg:
		m.notice = "Your session has expired. Please sign in again."
		m.noticeErr = true
		v := newLoginView(m.state)
		m.viewStack = []View{v}
		return m, v.Init()

	case signedInMsg:
		v := newBoardView(m.state)
		m.viewStack = []View{v}
		return m, v.Init()

	case formCompleteMsg:
		if len(m.viewStack) > 1 {
			m.viewStack = m.viewStack[:len(m.viewStack)-1]
		}
		return m, tea.Batch(msg.nextCmd, func() tea.Msg { return refreshViewMsg{} })

	case targetedMsg:
		for i := len(m.viewStack) - 1; i >= 0; i-- {
			if m.viewStack[i].ID() == msg.targetView() {
				updated, cmd := m.viewStack[i].Update(msg)
				m.viewStack[i] = updated.(View)
				return m, cmd
			}
		}
		return m, nil
	}

	return m.forward(msg)
}

// forward hands msg to the active view.
func (m appModel) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	if v := m.activeView(); v != nil {
		updated, cmd := v.Update(msg)
		m.setActiveView(updated.(View))
		return m, cmd
	}
	return m, nil
}

func (m appModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	// Any key dismisses the previous notice.
	m.notice = ""
	m.noticeErr = false

	if viewCapturesInput(m.activeView()) {
		return m.forward(msg)
	}

	switch {
	case msg.String() == "q":
		m.quitting = true
		return m, tea.Quit

	case msg.Type == tea.KeyEsc && len(m.viewStack) > 1:
		m.viewStack = m.viewStack[:len(m.viewStack)-1]
		return m, nil
	}

	return m.forward(msg)
}

func (m appModel) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{m.renderHeader(), m.renderNotice()}
	if v := m.activeView(); v != nil {
		sections = append(sections, v.View())
	}
	sections = append(sections, m.renderStatusBar())

	result := strings.Join(sections, "\n")

	// Pad to terminal height to prevent stale line artifacts from
	// bubbletea's line-diff renderer in alt-screen mode.
	if m.state.Height > 0 {
		lines := strings.Count(result, "\n") + 1
		if lines < m.state.Height {
			result += strings.Repeat("\n", m.state.Height-lines)
		}
	}

	return result
}

// ── rendering helpers ────────────────────────────────────────────────────────

func (m *appModel) renderHeader() string {
	title := formatter.StylePurple.Bold(true).Render("dealflow")

	var crumbs []string
	for _, v := range m.viewStack {
		if t := v.Title(); t != "" {
			crumbs = append(crumbs, t)
		}
	}
	left := title
	if len(crumbs) > 0 {
		left += " " + formatter.Dim("›") + " " + formatter.Dim(strings.Join(crumbs, " › "))
	}

	header := left
	if u := m.state.App.Session.CurrentUser(); u != nil {
		badge := formatter.UserBadge(u)
		gap := m.state.Width - lipgloss.Width(left) - lipgloss.Width(badge)
		header += strings.Repeat(" ", max(gap, 2)) + badge
	}

	sep := formatter.Dim(strings.Repeat("─", max(m.state.Width, 20)))
	return header + "\n" + sep
}

func (m *appModel) renderNotice() string {
	switch {
	case m.notice == "":
		return ""
	case m.noticeErr:
		return formatter.StyleRed.Render("✖ " + m.notice)
	default:
		return formatter.StyleYellow.Render("● " + m.notice)
	}
}

func (m *appModel) renderStatusBar() string {
	var hints []string
	if v := m.activeView(); v != nil {
		for _, b := range v.ShortHelp() {
			hints = append(hints, formatter.Dim(b.Help().Key+": "+b.Help().Desc))
		}
	}
	if !viewCapturesInput(m.activeView()) {
		if len(m.viewStack) > 1 {
			hints = append(hints, formatter.Dim("esc: back"))
		}
		hints = append(hints, formatter.Dim("q: quit"))
	}

	sep := formatter.Dim(strings.Repeat("─", max(m.state.Width, 20)))
	return sep + "\n" + strings.Join(hints, "  ")
}
