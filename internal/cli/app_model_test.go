package cli

import (
	"strings"
	"testing"

	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubView struct {
	id         ViewID
	title      string
	viewText   string
	capturing  bool
	initCmd    tea.Cmd
	updateSeen []tea.Msg
}

func (v *stubView) Init() tea.Cmd { return v.initCmd }

func (v *stubView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	v.updateSeen = append(v.updateSeen, msg)
	return v, nil
}

func (v *stubView) View() string             { return v.viewText }
func (v *stubView) ID() ViewID               { return v.id }
func (v *stubView) ShortHelp() []key.Binding { return nil }
func (v *stubView) Title() string            { return v.title }
func (v *stubView) CapturesInput() bool      { return v.capturing }

func newStubView(id ViewID, title, text string) *stubView {
	return &stubView{id: id, title: title, viewText: text}
}

// targetedStub is an async result addressed to the deal view.
type targetedStub struct{}

func (targetedStub) targetView() ViewID { return ViewDeal }

func update(t *testing.T, m appModel, msg tea.Msg) (appModel, tea.Cmd) {
	t.Helper()
	model, cmd := m.Update(msg)
	return model.(appModel), cmd
}

func TestNewAppModel_HomeViewFollowsSession(t *testing.T) {
	signedOut := newAppModel(newTestEnv(t).App)
	require.Len(t, signedOut.viewStack, 1)
	assert.Equal(t, ViewLogin, signedOut.activeView().ID())

	e, _ := testApp(t, domain.RoleAnalyst)
	signedIn := newAppModel(e.App)
	assert.Equal(t, ViewBoard, signedIn.activeView().ID())
}

func TestAppModel_NavigationMessages(t *testing.T) {
	e, _ := testApp(t, domain.RoleAnalyst)
	m := newAppModel(e.App)
	deal := newStubView(ViewDeal, "Acme", "deal view")
	users := newStubView(ViewUsers, "Users", "users view")

	m, cmd := update(t, m, pushViewMsg{view: deal})
	assert.Nil(t, cmd)
	require.Len(t, m.viewStack, 2)
	assert.Equal(t, deal, m.activeView())

	m, _ = update(t, m, replaceViewMsg{view: users})
	require.Len(t, m.viewStack, 2)
	assert.Equal(t, users, m.activeView())

	m, _ = update(t, m, popViewMsg{})
	require.Len(t, m.viewStack, 1)
	assert.Equal(t, ViewBoard, m.activeView().ID())

	m, _ = update(t, m, popViewMsg{})
	assert.Len(t, m.viewStack, 1, "the root view is never popped")
}

func TestAppModel_TargetedMsgReachesCoveredView(t *testing.T) {
	e, _ := testApp(t, domain.RoleAnalyst)
	m := newAppModel(e.App)
	deal := newStubView(ViewDeal, "Acme", "deal view")
	form := newStubView(ViewForm, "Edit", "form view")

	m, _ = update(t, m, pushViewMsg{view: deal})
	m, _ = update(t, m, pushViewMsg{view: form})
	m, _ = update(t, m, targetedStub{})

	assert.Equal(t, []tea.Msg{targetedStub{}}, deal.updateSeen)
	assert.Empty(t, form.updateSeen)
}

func TestAppModel_KeysClearNoticeAndPop(t *testing.T) {
	e, _ := testApp(t, domain.RoleAnalyst)
	m := newAppModel(e.App)
	deal := newStubView(ViewDeal, "Acme", "deal view")
	m, _ = update(t, m, pushViewMsg{view: deal})
	m, _ = update(t, m, noticeMsg{text: "Saved.", isErr: false})
	assert.Contains(t, stripANSI(m.View()), "● Saved.")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.Empty(t, m.notice)
	assert.Len(t, m.viewStack, 1)
}

func TestAppModel_CapturingViewReceivesQAndEsc(t *testing.T) {
	e, _ := testApp(t, domain.RoleAnalyst)
	m := newAppModel(e.App)
	deal := newStubView(ViewDeal, "Acme", "deal view")
	deal.capturing = true
	m, _ = update(t, m, pushViewMsg{view: deal})

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	assert.Nil(t, cmd)
	assert.False(t, m.quitting)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Len(t, m.viewStack, 2)
	assert.Len(t, deal.updateSeen, 2)
	assert.NotContains(t, stripANSI(m.View()), "q: quit")
}

func TestAppModel_FormCompletePopsAndRefreshes(t *testing.T) {
	e, _ := testApp(t, domain.RoleAnalyst)
	m := newAppModel(e.App)
	deal := newStubView(ViewDeal, "Acme", "deal view")
	form := newStubView(ViewForm, "Edit", "form view")
	m, _ = update(t, m, pushViewMsg{view: deal})
	m, _ = update(t, m, pushViewMsg{view: form})

	m, cmd := update(t, m, formCompleteMsg{nextCmd: notice("Updated Acme.")})

	assert.Equal(t, deal, m.activeView())
	require.NotNil(t, cmd)
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	var msgs []tea.Msg
	for _, c := range batch {
		if c != nil {
			msgs = append(msgs, c())
		}
	}
	assert.Contains(t, msgs, noticeMsg{text: "Updated Acme."})
	assert.Contains(t, msgs, refreshViewMsg{})
}

func TestAppModel_RefreshIsBroadcast(t *testing.T) {
	e, _ := testApp(t, domain.RoleAnalyst)
	m := newAppModel(e.App)
	first := newStubView(ViewDeal, "Acme", "")
	second := newStubView(ViewUsers, "Users", "")
	m, _ = update(t, m, pushViewMsg{view: first})
	m, _ = update(t, m, pushViewMsg{view: second})

	m, _ = update(t, m, refreshViewMsg{})

	assert.Equal(t, []tea.Msg{refreshViewMsg{}}, first.updateSeen)
	assert.Equal(t, []tea.Msg{refreshViewMsg{}}, second.updateSeen)
}

func TestAppModel_SessionExpiredResetsToLogin(t *testing.T) {
	e, _ := testApp(t, domain.RoleAnalyst)
	m := newAppModel(e.App)
	m, _ = update(t, m, pushViewMsg{view: newStubView(ViewDeal, "Acme", "")})

	m, _ = update(t, m, sessionExpiredMsg{})

	require.Len(t, m.viewStack, 1)
	assert.Equal(t, ViewLogin, m.activeView().ID())
	assert.True(t, m.noticeErr)
}

func TestAppModel_ViewShowsBreadcrumbAndUser(t *testing.T) {
	e, u := testApp(t, domain.RolePartner)
	m := newAppModel(e.App)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 20})
	m, _ = update(t, m, pushViewMsg{view: newStubView(ViewDeal, "Acme", "deal body")})

	view := stripANSI(m.View())
	assert.Contains(t, view, "dealflow › Pipeline › Acme")
	assert.Contains(t, view, u.FullName+" [partner]")
	assert.Contains(t, view, "deal body")
	assert.Contains(t, view, "esc: back")
	assert.Equal(t, 20, len(strings.Split(view, "\n")))
}
