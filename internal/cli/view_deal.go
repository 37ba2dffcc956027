package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/dealflow/internal/cli/formatter"
	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/alexanderramin/dealflow/internal/service"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// dealMemoLoadedMsg signals that the memo and its history were fetched.
type dealMemoLoadedMsg struct {
	dealID int64
	err    error
}

func (dealMemoLoadedMsg) targetView() ViewID { return ViewDeal }

// dealActivityLoadedMsg signals that the deal, its log and the caller's
// vote were fetched.
type dealActivityLoadedMsg struct {
	dealID int64
	err    error
}

func (dealActivityLoadedMsg) targetView() ViewID { return ViewDeal }

// memoSavedMsg carries the result of saving the draft.
type memoSavedMsg struct {
	dealID int64
	err    error
}

func (memoSavedMsg) targetView() ViewID { return ViewDeal }

// activityActionMsg carries the result of a comment or partner action.
type activityActionMsg struct {
	dealID  int64
	done    string
	decided bool
	err     error
}

func (activityActionMsg) targetView() ViewID { return ViewDeal }

const (
	activityLimit = 8
	// dealHeaderLines is the deal summary, banner and version strip above
	// the scrolling body.
	dealHeaderLines = 5
)

// dealView shows one deal: its memo with version history, the activity
// log and the partner action bar.
type dealView struct {
	state  *SharedState
	dealID int64

	memoLoading     bool
	activityLoading bool

	editors []textarea.Model
	focus   int
	saving  bool

	commenting bool
	comment    textinput.Model

	body viewport.Model
}

func newDealView(state *SharedState, dealID int64) *dealView {
	ti := textinput.New()
	ti.Placeholder = "Write a comment"
	ti.CharLimit = 2000
	ti.Prompt = "› "
	ti.Cursor.SetMode(cursor.CursorStatic)

	return &dealView{
		state:           state,
		dealID:          dealID,
		memoLoading:     true,
		activityLoading: true,
		comment:         ti,
		body:            viewport.New(state.Width, state.ContentHeight()-dealHeaderLines),
	}
}

func (v *dealView) ID() ViewID { return ViewDeal }

func (v *dealView) Title() string {
	if d := v.deal(); d != nil {
		return d.Name
	}
	return fmt.Sprintf("Deal #%d", v.dealID)
}

// CapturesInput is true while a memo section or comment is being typed.
func (v *dealView) CapturesInput() bool {
	return v.editing() || v.commenting
}

func (v *dealView) ShortHelp() []key.Binding {
	switch {
	case v.editing():
		return []key.Binding{
			key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next section")),
			key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "discard")),
		}
	case v.commenting:
		return []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "post")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		}
	}

	app := v.state.App
	hints := []key.Binding{
		key.NewBinding(key.WithKeys("[", "]"), key.WithHelp("[/]", "older/newer")),
	}
	if app.Memo.Mode() == service.ViewingHistorical {
		hints = append(hints, key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "current")))
	} else if app.Memo.CanEdit() {
		hints = append(hints, key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit memo")))
	}
	hints = append(hints, key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "comment")))
	if app.Activity.CanVote() {
		hints = append(hints, key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "vote")))
	}
	if app.Activity.CanDecide() {
		hints = append(hints,
			key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "approve")),
			key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "decline")),
		)
	}
	return append(hints, key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")))
}

func (v *dealView) Init() tea.Cmd {
	v.resize()
	return tea.Batch(v.loadMemo(), v.loadActivity())
}

func (v *dealView) loadMemo() tea.Cmd {
	memo, id := v.state.App.Memo, v.dealID
	v.memoLoading = true
	return func() tea.Msg {
		return dealMemoLoadedMsg{dealID: id, err: memo.Load(context.Background(), id)}
	}
}

func (v *dealView) loadActivity() tea.Cmd {
	panel, id := v.state.App.Activity, v.dealID
	v.activityLoading = true
	return func() tea.Msg {
		return dealActivityLoadedMsg{dealID: id, err: panel.Load(context.Background(), id)}
	}
}

// deal is the loaded deal, or nil while the panel holds another deal.
func (v *dealView) deal() *domain.Deal {
	if v.state.App.Activity.DealID() != v.dealID {
		return nil
	}
	return v.state.App.Activity.Deal()
}

func (v *dealView) editing() bool {
	return v.editors != nil
}

func (v *dealView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.resize()

	case dealMemoLoadedMsg:
		if msg.dealID != v.dealID {
			return v, nil
		}
		v.memoLoading = false
		if msg.err != nil {
			cmd = errorCmd(msg.err)
		}

	case dealActivityLoadedMsg:
		if msg.dealID != v.dealID {
			return v, nil
		}
		v.activityLoading = false
		if msg.err != nil {
			cmd = errorCmd(msg.err)
		}

	case memoSavedMsg:
		if msg.dealID != v.dealID {
			return v, nil
		}
		cmd = v.saved(msg.err)

	case activityActionMsg:
		if msg.dealID != v.dealID {
			return v, nil
		}
		cmd = v.acted(msg)

	case refreshViewMsg:
		if v.editing() || v.commenting {
			return v, nil
		}
		cmd = tea.Batch(v.loadMemo(), v.loadActivity())

	case tea.KeyMsg:
		switch {
		case v.editing():
			cmd = v.updateEditing(msg)
		case v.commenting:
			cmd = v.updateCommenting(msg)
		default:
			cmd = v.updateNormal(msg)
		}
	}

	v.syncBody()
	return v, cmd
}

func (v *dealView) updateNormal(msg tea.KeyMsg) tea.Cmd {
	app := v.state.App
	switch msg.String() {
	case "[":
		return v.stepVersion(1)
	case "]":
		return v.stepVersion(-1)
	case "c":
		app.Memo.SelectCurrent()
		v.body.GotoTop()

	case "e":
		if v.memoLoading {
			return nil
		}
		return v.beginEdit()

	case "m":
		v.commenting = true
		v.comment.SetValue("")
		return v.comment.Focus()

	case "v":
		if cmd, ok := v.partnerGate(app.Activity.CanVote(), "You have already voted on this deal."); !ok {
			return cmd
		}
		return v.act("Vote recorded.", false, app.Activity.Vote)
	case "a":
		if cmd, ok := v.partnerGate(app.Activity.CanDecide(), "This deal has already been decided."); !ok {
			return cmd
		}
		return v.act("Deal approved.", true, app.Activity.Approve)
	case "d":
		if cmd, ok := v.partnerGate(app.Activity.CanDecide(), "This deal has already been decided."); !ok {
			return cmd
		}
		return v.act("Deal declined.", true, app.Activity.Decline)

	case "r":
		return tea.Batch(v.loadMemo(), v.loadActivity())

	default:
		var cmd tea.Cmd
		v.body, cmd = v.body.Update(msg)
		return cmd
	}
	return nil
}

// partnerGate reports whether a partner action may proceed, with the
// notice to show when it may not.
func (v *dealView) partnerGate(allowed bool, unavailable string) (tea.Cmd, bool) {
	switch {
	case !v.state.App.Activity.ShowPartnerActions():
		return errorCmd(service.ErrPermissionDenied), false
	case v.activityLoading:
		return nil, false
	case !allowed:
		return func() tea.Msg { return noticeMsg{text: unavailable, isErr: true} }, false
	}
	return nil, true
}

// stepVersion walks the history: positive steps go older, negative newer.
// Stepping newer from the latest version returns to the current memo.
func (v *dealView) stepVersion(step int) tea.Cmd {
	memo := v.state.App.Memo
	versions := memo.Versions()
	if len(versions) == 0 {
		return notice("This memo has no saved versions.")
	}

	idx := -1
	if d := memo.Display(); d.Mode == service.ViewingHistorical {
		for i, ver := range versions {
			if ver.ID == d.VersionID {
				idx = i
			}
		}
	}

	next := idx + step
	switch {
	case next >= len(versions):
		return notice("This is the oldest version.")
	case next < -1:
		return nil
	case next == -1:
		memo.SelectCurrent()
	default:
		if err := memo.SelectVersion(versions[next].ID); err != nil {
			return errorCmd(err)
		}
	}
	v.body.GotoTop()
	return nil
}

// ── memo editing ─────────────────────────────────────────────────────────────

func (v *dealView) beginEdit() tea.Cmd {
	memo := v.state.App.Memo
	if err := memo.BeginEdit(); err != nil {
		if errors.Is(err, service.ErrReadOnly) {
			return func() tea.Msg {
				return noticeMsg{text: "Switch to the current memo to edit.", isErr: true}
			}
		}
		return errorCmd(err)
	}

	draft := memo.Draft()
	keys := domain.SectionKeys()
	v.editors = make([]textarea.Model, len(keys))
	for i, k := range keys {
		ta := textarea.New()
		ta.ShowLineNumbers = false
		ta.CharLimit = 0
		ta.Placeholder = k.Label()
		ta.Cursor.SetMode(cursor.CursorStatic)
		ta.SetValue(draft.Get(k))
		v.editors[i] = ta
	}
	v.focus = 0
	v.resize()
	return v.editors[0].Focus()
}

func (v *dealView) updateEditing(msg tea.KeyMsg) tea.Cmd {
	if v.saving {
		return nil
	}
	switch msg.String() {
	case "tab":
		return v.focusSection(v.focus + 1)
	case "shift+tab":
		return v.focusSection(v.focus - 1)
	case "esc":
		v.state.App.Memo.Cancel()
		v.editors = nil
		return notice("Changes discarded.")
	case "ctrl+s":
		return v.save()
	}
	var cmd tea.Cmd
	v.editors[v.focus], cmd = v.editors[v.focus].Update(msg)
	return cmd
}

func (v *dealView) focusSection(i int) tea.Cmd {
	n := len(v.editors)
	v.editors[v.focus].Blur()
	v.focus = (i%n + n) % n
	return v.editors[v.focus].Focus()
}

// save copies every editor into the draft and writes it.
func (v *dealView) save() tea.Cmd {
	memo := v.state.App.Memo
	for i, k := range domain.SectionKeys() {
		if err := memo.SetSection(k, v.editors[i].Value()); err != nil {
			return errorCmd(err)
		}
	}
	v.saving = true
	id := v.dealID
	return func() tea.Msg {
		return memoSavedMsg{dealID: id, err: memo.Save(context.Background())}
	}
}

// saved leaves edit mode on success. On failure the editors stay open with
// the text the user typed.
func (v *dealView) saved(err error) tea.Cmd {
	v.saving = false
	if err != nil {
		return errorCmd(err)
	}
	v.editors = nil
	text := "Memo saved."
	if versions := v.state.App.Memo.Versions(); len(versions) > 0 {
		text = fmt.Sprintf("Memo saved (version %d).", versions[0].VersionNumber)
	}
	return tea.Batch(notice(text), v.loadActivity())
}

// ── comments and partner actions ─────────────────────────────────────────────

func (v *dealView) updateCommenting(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		v.commenting = false
		v.comment.Blur()
		return nil
	case tea.KeyEnter:
		text := v.comment.Value()
		if strings.TrimSpace(text) == "" {
			return errorCmd(service.ErrEmptyComment)
		}
		v.commenting = false
		v.comment.Blur()
		panel := v.state.App.Activity
		return v.act("Comment added.", false, func(ctx context.Context) error {
			return panel.Comment(ctx, text)
		})
	}
	var cmd tea.Cmd
	v.comment, cmd = v.comment.Update(msg)
	return cmd
}

// act runs an activity-panel action in the background.
func (v *dealView) act(done string, decided bool, fn func(context.Context) error) tea.Cmd {
	id := v.dealID
	return func() tea.Msg {
		return activityActionMsg{dealID: id, done: done, decided: decided, err: fn(context.Background())}
	}
}

func (v *dealView) acted(msg activityActionMsg) tea.Cmd {
	if msg.err != nil {
		return errorCmd(msg.err)
	}
	if msg.decided {
		// The board shows the new status once it reloads.
		return tea.Batch(notice(msg.done), func() tea.Msg { return refreshViewMsg{} })
	}
	return notice(msg.done)
}

// ── rendering ────────────────────────────────────────────────────────────────

func (v *dealView) resize() {
	w := max(v.state.Width-4, 20)
	h := max(v.state.ContentHeight()-dealHeaderLines, 3)
	v.body.Width = w
	v.body.Height = h
	for i := range v.editors {
		v.editors[i].SetWidth(w)
		v.editors[i].SetHeight(max(h-2, 3))
	}
	v.comment.Width = w - 2
}

func (v *dealView) syncBody() {
	v.resize()
	if v.editing() {
		return
	}
	v.body.SetContent(v.renderBody())
}

func (v *dealView) View() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(v.renderSummary() + "\n")
	b.WriteString(v.renderBanner() + "\n\n")

	if v.editing() {
		b.WriteString(v.renderEditors())
	} else {
		b.WriteString(v.body.View())
	}

	if v.commenting {
		b.WriteString("\n" + v.comment.View())
	}
	return formatter.Indent(b.String(), "  ")
}

func (v *dealView) renderSummary() string {
	d := v.deal()
	if d == nil {
		if v.activityLoading {
			return formatter.Dim("Loading deal...")
		}
		return formatter.Bold(fmt.Sprintf("Deal #%d", v.dealID))
	}
	parts := []string{
		formatter.Bold(d.Name),
		formatter.StageBadge(d.Stage),
		formatter.StatusPill(d.Status),
	}
	if d.Round != "" {
		parts = append(parts, formatter.Dim(d.Round))
	}
	if d.CheckSize.Valid {
		parts = append(parts, formatter.Money(d.CheckSize))
	}
	return strings.Join(parts, "  ")
}

func (v *dealView) renderBanner() string {
	memo := v.state.App.Memo
	if v.memoLoading {
		return formatter.Dim("Loading memo...")
	}
	d := memo.Display()
	banner := formatter.MemoBanner(d.VersionNumber, d.Mode == service.EditingCurrent)

	versions := memo.Versions()
	if len(versions) == 0 {
		return banner
	}
	tags := make([]string, 0, len(versions))
	for _, ver := range versions {
		tag := fmt.Sprintf("v%d", ver.VersionNumber)
		if ver.ID == d.VersionID {
			tag = formatter.StylePurple.Bold(true).Render("[" + tag + "]")
		} else {
			tag = formatter.Dim(tag)
		}
		tags = append(tags, tag)
	}
	return banner + "  " + formatter.Dim("history:") + " " + strings.Join(tags, " ")
}

func (v *dealView) renderEditors() string {
	var tabs []string
	for i, k := range domain.SectionKeys() {
		if i == v.focus {
			tabs = append(tabs, formatter.StyleHeader.Render(k.Label()))
			continue
		}
		tabs = append(tabs, formatter.Dim(k.Label()))
	}
	out := strings.Join(tabs, formatter.Dim(" · ")) + "\n" + v.editors[v.focus].View()
	if v.saving {
		out += "\n" + formatter.Dim("Saving...")
	}
	return out
}

func (v *dealView) renderBody() string {
	app := v.state.App
	var b strings.Builder

	d := app.Memo.Display()
	if !d.HasMemo && d.Mode == service.ViewingCurrent && !v.memoLoading {
		hint := "No memo yet."
		if app.Memo.CanEdit() {
			hint += " Press e to write one."
		}
		b.WriteString(formatter.Dim(hint) + "\n")
	} else if !v.memoLoading {
		b.WriteString(formatter.FormatMemo(d.Sections))
	}

	b.WriteString("\n" + formatter.Header("Activity") + "\n")
	if v.activityLoading && len(app.Activity.Activities()) == 0 {
		b.WriteString(formatter.Dim("Loading activity...") + "\n")
	} else if app.Activity.DealID() == v.dealID {
		b.WriteString(formatter.FormatActivities(app.Activity.Activities(), activityLimit))
	}

	if app.Activity.ShowPartnerActions() && app.Activity.DealID() == v.dealID {
		b.WriteString("\n" + v.renderPartnerBar() + "\n")
	}
	return b.String()
}

func (v *dealView) renderPartnerBar() string {
	panel := v.state.App.Activity
	vote := formatter.StyleGreen.Render("[v] vote")
	if panel.HasVoted() {
		vote = formatter.Dim("✔ voted")
	}
	if !panel.CanDecide() {
		return vote + "  " + formatter.Dim("decision recorded")
	}
	return vote + "  " + formatter.StyleGreen.Render("[a] approve") + "  " + formatter.StyleRed.Render("[d] decline")
}
