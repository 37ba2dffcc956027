package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/dealflow/internal/api"
	"github.com/alexanderramin/dealflow/internal/cli/formatter"
	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/alexanderramin/dealflow/internal/service"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// boardLoadedMsg signals that the deal list has been fetched.
type boardLoadedMsg struct {
	err error
}

func (boardLoadedMsg) targetView() ViewID { return ViewBoard }

// moveSentMsg carries the server's answer to an optimistic stage move.
type moveSentMsg struct {
	pm  *service.PendingMove
	err error
}

func (moveSentMsg) targetView() ViewID { return ViewBoard }

const minColumnWidth = 16

// boardView is the kanban board: one column per stage, a card cursor and
// keyboard drag and drop.
type boardView struct {
	state   *SharedState
	loading bool
	err     error

	col int
	row int

	// inFlight is the move awaiting the server, if any.
	inFlight *service.PendingMove
}

func newBoardView(state *SharedState) *boardView {
	return &boardView{state: state, loading: true}
}

func (v *boardView) ID() ViewID    { return ViewBoard }
func (v *boardView) Title() string { return "Pipeline" }

func (v *boardView) ShortHelp() []key.Binding {
	if v.dragging() {
		return []key.Binding{
			key.NewBinding(key.WithKeys("left", "right"), key.WithHelp("←/→", "choose stage")),
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "drop")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		}
	}
	hints := []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pick up")),
	}
	if v.state.App.Board.CanEdit() {
		hints = append(hints,
			key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
			key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
			key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
		)
	}
	if v.state.App.Users.Allowed() {
		hints = append(hints, key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "users")))
	}
	return append(hints,
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "sign out")),
	)
}

func (v *boardView) Init() tea.Cmd {
	return v.load()
}

func (v *boardView) load() tea.Cmd {
	board := v.state.App.Board
	return func() tea.Msg {
		return boardLoadedMsg{err: board.Load(context.Background())}
	}
}

func (v *boardView) dragging() bool {
	return v.state.App.Board.DraggedDealID() != 0
}

func (v *boardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case boardLoadedMsg:
		v.loading = false
		v.err = nil
		if msg.err != nil {
			v.err = msg.err
			return v, errorCmd(msg.err)
		}
		v.clamp()
		return v, nil

	case refreshViewMsg:
		if v.inFlight != nil {
			return v, nil
		}
		return v, v.load()

	case moveSentMsg:
		return v, v.settle(msg)

	case tea.KeyMsg:
		if v.dragging() {
			return v, v.updateDragging(msg)
		}
		return v, v.updateNormal(msg)
	}
	return v, nil
}

func (v *boardView) updateNormal(msg tea.KeyMsg) tea.Cmd {
	app := v.state.App
	switch msg.String() {
	case "left", "h":
		v.moveColumn(-1)
	case "right", "l":
		v.moveColumn(1)
	case "up", "k":
		if v.row > 0 {
			v.row--
		}
	case "down", "j":
		v.row++
		v.clamp()

	case " ":
		d, ok := v.selected()
		if !ok {
			return nil
		}
		if v.inFlight != nil {
			return noticeMoveInFlight()
		}
		app.Board.BeginDrag(d.ID)
		return notice(fmt.Sprintf("Moving %s: choose a stage and press enter.", d.Name))

	case "enter":
		if d, ok := v.selected(); ok {
			return pushView(newDealView(v.state, d.ID))
		}

	case "n":
		if !app.Board.CanEdit() {
			return errorCmd(service.ErrPermissionDenied)
		}
		if v.inFlight != nil {
			return noticeMoveInFlight()
		}
		return pushView(newDealFormView(v.state, nil))

	case "e":
		d, ok := v.selected()
		if !ok {
			return nil
		}
		if !app.Board.CanEdit() {
			return errorCmd(service.ErrPermissionDenied)
		}
		if v.inFlight != nil {
			return noticeMoveInFlight()
		}
		return pushView(newDealFormView(v.state, &d))

	case "x":
		d, ok := v.selected()
		if !ok {
			return nil
		}
		if !app.Board.CanEdit() {
			return errorCmd(service.ErrPermissionDenied)
		}
		if v.inFlight != nil {
			return noticeMoveInFlight()
		}
		return pushView(newDeleteDealView(v.state, d))

	case "u":
		if !app.Users.Allowed() {
			return errorCmd(service.ErrPermissionDenied)
		}
		return pushView(newUsersView(v.state))

	case "r":
		if v.inFlight != nil {
			return noticeMoveInFlight()
		}
		return v.load()

	case "L":
		return signOut(app)
	}
	return nil
}

func (v *boardView) updateDragging(msg tea.KeyMsg) tea.Cmd {
	board := v.state.App.Board
	switch msg.String() {
	case "left", "h":
		v.col = max(v.col-1, 0)
	case "right", "l":
		v.col = min(v.col+1, len(domain.Stages())-1)

	case "esc", " ":
		board.CancelDrag()
		v.clamp()
		return notice("Move cancelled.")

	case "enter":
		pm, out := board.BeginDrop(domain.Stages()[v.col])
		v.focus(out.DealID)
		switch {
		case pm == nil:
			return nil
		case out.Result == service.MoveRolledBack:
			return func() tea.Msg { return noticeMsg{text: out.Notice, isErr: true} }
		}
		v.inFlight = pm
		return func() tea.Msg {
			return moveSentMsg{pm: pm, err: pm.Send(context.Background())}
		}
	}
	return nil
}

// settle commits or rolls back the move the server just answered.
func (v *boardView) settle(msg moveSentMsg) tea.Cmd {
	out := v.state.App.Board.Settle(context.Background(), msg.pm, msg.err)
	if v.inFlight == msg.pm {
		v.inFlight = nil
	}
	v.focus(out.DealID)

	switch out.Result {
	case service.MoveCommitted:
		d, _ := v.state.App.Board.Deal(out.DealID)
		return notice(fmt.Sprintf("Moved %s to %s.", d.Name, out.To.Label()))
	case service.MoveRolledBack:
		if errors.Is(msg.err, api.ErrUnauthorized) {
			return func() tea.Msg { return sessionExpiredMsg{} }
		}
		return func() tea.Msg { return noticeMsg{text: out.Notice, isErr: true} }
	}
	return nil
}

// noticeMoveInFlight holds off anything that refetches the board until the
// pending move settles.
func noticeMoveInFlight() tea.Cmd {
	return notice("Still saving the previous move.")
}

// signOut forgets the session and returns to the login view.
func signOut(app *App) tea.Cmd {
	return func() tea.Msg {
		if err := app.Session.Logout(context.Background()); err != nil {
			return errorMsg(err)
		}
		return signedOutMsg{}
	}
}

// ── cursor ───────────────────────────────────────────────────────────────────

func (v *boardView) columns() []service.Column {
	return v.state.App.Board.Columns()
}

func (v *boardView) moveColumn(delta int) {
	v.col = min(max(v.col+delta, 0), len(domain.Stages())-1)
	v.clamp()
}

func (v *boardView) clamp() {
	cols := v.columns()
	if len(cols) == 0 {
		v.col, v.row = 0, 0
		return
	}
	v.col = min(max(v.col, 0), len(cols)-1)
	v.row = min(max(v.row, 0), max(len(cols[v.col].Deals)-1, 0))
}

func (v *boardView) selected() (domain.Deal, bool) {
	cols := v.columns()
	if v.col >= len(cols) || v.row >= len(cols[v.col].Deals) {
		return domain.Deal{}, false
	}
	return cols[v.col].Deals[v.row], true
}

// focus moves the cursor onto the card for dealID wherever it now sits.
func (v *boardView) focus(dealID int64) {
	for c, col := range v.columns() {
		for r, d := range col.Deals {
			if d.ID == dealID {
				v.col, v.row = c, r
				return
			}
		}
	}
	v.clamp()
}

// ── rendering ────────────────────────────────────────────────────────────────

func (v *boardView) View() string {
	if v.loading {
		return "\n  " + formatter.Dim("Loading deals...")
	}
	if v.err != nil && len(v.state.App.Board.Deals()) == 0 {
		return "\n  " + formatter.StyleRed.Render("Could not load deals: "+noticeFor(v.err)) +
			"\n  " + formatter.Dim("Press r to retry.")
	}

	cols := v.columns()
	width := max((v.state.Width-len(cols))/max(len(cols), 1), minColumnWidth)
	dragged := v.state.App.Board.DraggedDealID()

	blocks := make([]string, 0, len(cols))
	for c, col := range cols {
		blocks = append(blocks, v.renderColumn(c, col, width, dragged))
	}
	return "\n" + lipgloss.JoinHorizontal(lipgloss.Top, blocks...)
}

func (v *boardView) renderColumn(c int, col service.Column, width int, dragged int64) string {
	style := formatter.StageStyle(col.Stage)
	var b strings.Builder

	head := fmt.Sprintf("%s (%d)", col.Stage.Label(), len(col.Deals))
	if dragged != 0 && c == v.col {
		head = "▼ " + head
	}
	b.WriteString(style.Bold(true).Render(formatter.Truncate(head, width-1)) + "\n")
	b.WriteString(style.Render(strings.Repeat("─", width-1)) + "\n")

	if len(col.Deals) == 0 {
		b.WriteString(formatter.Dim("(empty)") + "\n")
	}
	for r, d := range col.Deals {
		card := formatter.DealCard(d, width-3)
		marker := "  "
		switch {
		case d.ID == dragged:
			marker = formatter.StyleYellow.Render("✥ ")
		case dragged == 0 && c == v.col && r == v.row:
			marker = formatter.StyleGreen.Render("▸ ")
		}
		lines := strings.Split(card, "\n")
		for i, line := range lines {
			if i == 0 {
				b.WriteString(marker + line + "\n")
				continue
			}
			b.WriteString("  " + line + "\n")
		}
	}
	return lipgloss.NewStyle().Width(width).PaddingRight(1).Render(b.String())
}
