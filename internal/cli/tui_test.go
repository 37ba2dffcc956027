package cli

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/alexanderramin/dealflow/internal/api"
	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/alexanderramin/dealflow/internal/repository"
	"github.com/alexanderramin/dealflow/internal/service"
	"github.com/alexanderramin/dealflow/internal/testutil"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTUI_StartsAtLoginWithoutSession(t *testing.T) {
	e := newTestEnv(t)
	d := NewTestDriver(t, e.App)

	assert.Equal(t, ViewLogin, d.ActiveViewID())
	assert.Contains(t, stripANSI(d.View()), "Sign in to dealflow")
}

func TestTUI_StartsAtBoardWhenSignedIn(t *testing.T) {
	e, u := testApp(t, domain.RoleAnalyst)
	e.seedDeal("Acme Robotics")
	e.seedDeal("Borealis Bio", testutil.WithStage(domain.StageIC))

	d := NewTestDriver(t, e.App)

	assert.Equal(t, ViewBoard, d.ActiveViewID())
	view := stripANSI(d.View())
	assert.Contains(t, view, "Acme Robotics")
	assert.Contains(t, view, "Borealis Bio")
	assert.Contains(t, view, "Sourced (1)")
	assert.Contains(t, view, "IC Review (1)")
	assert.Contains(t, view, "Passed (0)")
	assert.Contains(t, view, u.FullName)
}

func TestTUI_QuitWithQ(t *testing.T) {
	e, _ := testApp(t, domain.RoleAnalyst)
	d := NewTestDriver(t, e.App)

	d.PressKey('q')

	assert.True(t, d.IsQuitting())
}

func TestTUI_QuitWithCtrlC(t *testing.T) {
	e := newTestEnv(t)
	d := NewTestDriver(t, e.App)

	d.PressCtrlC()

	assert.True(t, d.IsQuitting())
}

func TestTUI_LoginResultSwitchesToBoard(t *testing.T) {
	e := newTestEnv(t)
	u := e.API.SeedUser(t, domain.RolePartner)
	d := NewTestDriver(t, e.App)
	require.Equal(t, ViewLogin, d.ActiveViewID())

	d.Send(applyLogin(context.Background(), e.App, u.Email, "wrong-password"))
	assert.Equal(t, ViewLogin, d.ActiveViewID())
	text, isErr := d.Notice()
	assert.Equal(t, "Incorrect email or password.", text)
	assert.True(t, isErr)

	d.Send(applyLogin(context.Background(), e.App, u.Email, testutil.TestPassword))
	assert.Equal(t, ViewBoard, d.ActiveViewID())
	assert.Equal(t, u.ID, e.App.Session.CurrentUser().ID)
}

func TestTUI_SignOutReturnsToLogin(t *testing.T) {
	e, _ := testApp(t, domain.RoleAnalyst)
	d := NewTestDriver(t, e.App)

	d.PressKey('L')

	assert.Equal(t, ViewLogin, d.ActiveViewID())
	assert.Equal(t, 1, d.ViewStackLen())
	text, _ := d.Notice()
	assert.Equal(t, "Signed out.", text)

	_, err := e.App.Tokens.Get(context.Background(), e.API.URL)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTUI_ExpiredSessionReturnsToLogin(t *testing.T) {
	e, _ := testApp(t, domain.RoleAnalyst)
	e.seedDeal("Acme Robotics")
	d := NewTestDriver(t, e.App)
	require.Equal(t, ViewBoard, d.ActiveViewID())

	e.API.Server.FailNext(http.MethodGet, "/deals", http.StatusUnauthorized)
	d.PressKey('r')

	assert.Equal(t, ViewLogin, d.ActiveViewID())
	text, isErr := d.Notice()
	assert.Equal(t, "Your session has expired. Please sign in again.", text)
	assert.True(t, isErr)
	assert.False(t, e.App.Session.IsAuthenticated())
}

// ── drag and drop ────────────────────────────────────────────────────────────

func TestTUI_AnalystDragAndDropCommits(t *testing.T) {
	e, _ := testApp(t, domain.RoleAnalyst)
	deal := e.seedDeal("Acme Robotics")
	d := NewTestDriver(t, e.App)

	d.PressSpace()
	assert.Equal(t, deal.ID, e.App.Board.DraggedDealID())
	text, _ := d.Notice()
	assert.Equal(t, "Moving Acme Robotics: choose a stage and press enter.", text)
	assert.Contains(t, stripANSI(d.View()), "✥ Acme Robotics")

	d.PressType(tea.KeyRight)
	assert.Contains(t, stripANSI(d.View()), "▼ Screen (0)")

	d.PressEnter()

	text, isErr := d.Notice()
	assert.Equal(t, "Moved Acme Robotics to Screen.", text)
	assert.False(t, isErr)
	assert.Zero(t, e.App.Board.DraggedDealID())
	assert.Nil(t, d.Board().inFlight)

	got, _ := e.API.Server.Deal(deal.ID)
	assert.Equal(t, domain.StageScreen, got.Stage)
	assert.Contains(t, stripANSI(d.View()), "Screen (1)")
}

func TestTUI_DragCancelLeavesDealInPlace(t *testing.T) {
	e, _ := testApp(t, domain.RoleAnalyst)
	deal := e.seedDeal("Acme Robotics")
	d := NewTestDriver(t, e.App)

	d.PressSpace()
	d.PressType(tea.KeyRight)
	d.PressEsc()

	assert.Equal(t, ViewBoard, d.ActiveViewID())
	assert.Zero(t, e.App.Board.DraggedDealID())
	text, _ := d.Notice()
	assert.Equal(t, "Move cancelled.", text)
	assert.Zero(t, e.API.Server.Requests(http.MethodPut, fmt.Sprintf("/deals/%d", deal.ID)))
}

func TestTUI_ServerFailureRollsBackMove(t *testing.T) {
	e, _ := testApp(t, domain.RoleAnalyst)
	deal := e.seedDeal("Acme Robotics")
	e.API.Server.FailNext(http.MethodPut, fmt.Sprintf("/deals/%d", deal.ID), http.StatusInternalServerError)
	d := NewTestDriver(t, e.App)

	d.PressSpace()
	d.PressType(tea.KeyRight)
	d.PressType(tea.KeyRight)
	d.PressEnter()

	text, isErr := d.Notice()
	assert.Equal(t, "Failed to update deal stage.", text)
	assert.True(t, isErr)

	local, ok := e.App.Board.Deal(deal.ID)
	require.True(t, ok)
	assert.Equal(t, domain.StageSourced, local.Stage)
	assert.Contains(t, stripANSI(d.View()), "Sourced (1)")
	assert.Equal(t, 1, e.API.Server.Requests(http.MethodPut, fmt.Sprintf("/deals/%d", deal.ID)))
}

func TestTUI_PartnerDropRollsBackWithoutRequest(t *testing.T) {
	e, _ := testApp(t, domain.RolePartner)
	deal := e.seedDeal("Acme Robotics")
	d := NewTestDriver(t, e.App)

	d.PressSpace()
	d.PressType(tea.KeyRight)
	d.PressEnter()

	text, isErr := d.Notice()
	assert.Equal(t, "Only analysts and admins can move deals.", text)
	assert.True(t, isErr)

	local, _ := e.App.Board.Deal(deal.ID)
	assert.Equal(t, domain.StageSourced, local.Stage)
	assert.Zero(t, e.API.Server.Requests(http.MethodPut, fmt.Sprintf("/deals/%d", deal.ID)))
}

func TestTUI_PartnerCannotOpenDealForm(t *testing.T) {
	e, _ := testApp(t, domain.RolePartner)
	e.seedDeal("Acme Robotics")
	d := NewTestDriver(t, e.App)

	d.PressKey('n')

	assert.Equal(t, ViewBoard, d.ActiveViewID())
	text, isErr := d.Notice()
	assert.Equal(t, "You do not have permission to do that.", text)
	assert.True(t, isErr)
}

func TestTUI_DealFormsWaitForPendingMove(t *testing.T) {
	e, _ := testApp(t, domain.RoleAnalyst)
	deal := e.seedDeal("Acme Robotics")
	d := NewTestDriver(t, e.App)

	pm, out := e.App.Board.BeginMove(deal.ID, domain.StageScreen)
	require.Equal(t, service.MovePending, out.Result)
	d.Board().inFlight = pm

	for _, k := range []rune{'n', 'e', 'x'} {
		d.PressKey(k)
		assert.Equal(t, ViewBoard, d.ActiveViewID(), "key %q", k)
		text, isErr := d.Notice()
		assert.Equal(t, "Still saving the previous move.", text)
		assert.False(t, isErr)
	}

	d.Send(moveSentMsg{pm: pm, err: pm.Send(context.Background())})
	assert.Nil(t, d.Board().inFlight)

	d.PressKey('n')
	assert.Equal(t, ViewForm, d.ActiveViewID(), "form opens once the move settles")
}

func TestTUI_DealFormCancelReturnsToBoard(t *testing.T) {
	e, _ := testApp(t, domain.RoleAnalyst)
	d := NewTestDriver(t, e.App)

	d.PressKey('n')
	assert.Equal(t, ViewForm, d.ActiveViewID())
	assert.Contains(t, stripANSI(d.View()), "New Deal")

	d.PressEsc()

	assert.Equal(t, ViewBoard, d.ActiveViewID())
	text, _ := d.Notice()
	assert.Equal(t, "Cancelled.", text)
}

// ── deal view ────────────────────────────────────────────────────────────────

func openDeal(t *testing.T, d *TestDriver, dealID int64) *dealView {
	t.Helper()
	d.PressEnter()
	require.Equal(t, ViewDeal, d.ActiveViewID())
	v, ok := d.ActiveView().(*dealView)
	require.True(t, ok)
	require.Equal(t, dealID, v.dealID)
	return v
}

func TestTUI_OpenDealAndBack(t *testing.T) {
	e, _ := testApp(t, domain.RoleAnalyst)
	deal := e.seedDeal("Acme Robotics", testutil.WithRound("Series A"))
	d := NewTestDriver(t, e.App)

	openDeal(t, d, deal.ID)
	assert.Equal(t, []ViewID{ViewBoard, ViewDeal}, d.ViewStackIDs())

	view := stripANSI(d.View())
	assert.Contains(t, view, "Pipeline › Acme Robotics")
	assert.Contains(t, view, "No memo yet. Press e to write one.")
	assert.Contains(t, view, "Activity")

	d.PressEsc()
	assert.Equal(t, ViewBoard, d.ActiveViewID())
}

func TestTUI_MemoEditSaveAndBrowseVersions(t *testing.T) {
	e, _ := testApp(t, domain.RoleAnalyst)
	deal := e.seedDeal("Acme Robotics")
	d := NewTestDriver(t, e.App)
	v := openDeal(t, d, deal.ID)

	d.PressKey('e')
	require.True(t, v.CapturesInput())
	d.Type("Warehouse robots")
	d.PressType(tea.KeyCtrlS)

	assert.False(t, v.CapturesInput())
	text, _ := d.Notice()
	assert.Equal(t, "Memo saved (version 1).", text)
	assert.Contains(t, stripANSI(d.View()), "Warehouse robots")

	d.PressKey('e')
	d.PressType(tea.KeyTab)
	d.Type("quit margins")
	d.PressType(tea.KeyCtrlS)

	text, _ = d.Notice()
	assert.Equal(t, "Memo saved (version 2).", text)
	assert.False(t, d.IsQuitting())
	view := stripANSI(d.View())
	assert.Contains(t, view, "quit margins")
	assert.Contains(t, view, "Memo updated (version 2)")

	d.PressKey('[')
	d.PressKey('[')
	view = stripANSI(d.View())
	assert.Contains(t, view, "Version 1 (read-only)")
	assert.Contains(t, view, "Warehouse robots")
	assert.NotContains(t, view, "quit margins")

	d.PressKey('[')
	text, _ = d.Notice()
	assert.Equal(t, "This is the oldest version.", text)

	d.PressKey('e')
	text, isErr := d.Notice()
	assert.Equal(t, "Switch to the current memo to edit.", text)
	assert.True(t, isErr)
	assert.False(t, v.CapturesInput())

	d.PressKey(']')
	assert.Contains(t, stripANSI(d.View()), "Version 2 (read-only)")
	d.PressKey(']')
	assert.Equal(t, service.ViewingCurrent, e.App.Memo.Mode())
	assert.Contains(t, stripANSI(d.View()), "Current memo")
}

func TestTUI_MemoEditEscDiscards(t *testing.T) {
	e, _ := testApp(t, domain.RoleAnalyst)
	deal := e.seedDeal("Acme Robotics")
	d := NewTestDriver(t, e.App)
	v := openDeal(t, d, deal.ID)

	d.PressKey('e')
	d.Type("draft text")
	d.PressEsc()

	assert.False(t, v.CapturesInput())
	assert.Equal(t, ViewDeal, d.ActiveViewID())
	assert.NotContains(t, stripANSI(d.View()), "draft text")
	assert.Zero(t, e.API.Server.Requests(http.MethodPost, "/memos"))
}

func TestTUI_MemoSaveFailureKeepsDraft(t *testing.T) {
	e, _ := testApp(t, domain.RoleAnalyst)
	deal := e.seedDeal("Acme Robotics")
	d := NewTestDriver(t, e.App)
	v := openDeal(t, d, deal.ID)
	e.API.Server.FailNext(http.MethodPost, "/memos", http.StatusInternalServerError)

	d.PressKey('e')
	d.Type("keep me")
	d.PressType(tea.KeyCtrlS)

	assert.True(t, v.CapturesInput())
	_, isErr := d.Notice()
	assert.True(t, isErr)
	assert.Equal(t, "keep me", e.App.Memo.Draft().Summary)
	assert.Equal(t, service.EditingCurrent, e.App.Memo.Mode())
}

func TestTUI_PartnerCannotEditMemo(t *testing.T) {
	e, _ := testApp(t, domain.RolePartner)
	deal := e.seedDeal("Acme Robotics")
	d := NewTestDriver(t, e.App)
	v := openDeal(t, d, deal.ID)

	d.PressKey('e')

	assert.False(t, v.CapturesInput())
	text, _ := d.Notice()
	assert.Equal(t, "You do not have permission to do that.", text)
}

func TestTUI_PartnerVotesOnce(t *testing.T) {
	e, _ := testApp(t, domain.RolePartner)
	deal := e.seedDeal("Acme Robotics")
	d := NewTestDriver(t, e.App)
	openDeal(t, d, deal.ID)
	assert.Contains(t, stripANSI(d.View()), "[v] vote")

	d.PressKey('v')

	text, _ := d.Notice()
	assert.Equal(t, "Vote recorded.", text)
	view := stripANSI(d.View())
	assert.Contains(t, view, "✔ voted")
	assert.Contains(t, view, "Voted on this deal")

	d.PressKey('v')
	text, isErr := d.Notice()
	assert.Equal(t, "You have already voted on this deal.", text)
	assert.True(t, isErr)
	assert.Equal(t, 1, e.API.Server.Requests(http.MethodPost, fmt.Sprintf("/activities/deal/%d/vote", deal.ID)))
}

func TestTUI_PartnerApproveRefreshesBoard(t *testing.T) {
	e, _ := testApp(t, domain.RolePartner)
	deal := e.seedDeal("Acme Robotics")
	d := NewTestDriver(t, e.App)
	openDeal(t, d, deal.ID)

	d.PressKey('a')

	text, _ := d.Notice()
	assert.Equal(t, "Deal approved.", text)
	assert.Contains(t, stripANSI(d.View()), "decision recorded")

	local, _ := e.App.Board.Deal(deal.ID)
	assert.Equal(t, domain.DealApproved, local.Status)

	d.PressKey('d')
	text, _ = d.Notice()
	assert.Equal(t, "This deal has already been decided.", text)
}

func TestTUI_AnalystHasNoPartnerActions(t *testing.T) {
	e, _ := testApp(t, domain.RoleAnalyst)
	deal := e.seedDeal("Acme Robotics")
	d := NewTestDriver(t, e.App)
	openDeal(t, d, deal.ID)
	assert.NotContains(t, stripANSI(d.View()), "[v] vote")

	d.PressKey('v')

	text, isErr := d.Notice()
	assert.Equal(t, "You do not have permission to do that.", text)
	assert.True(t, isErr)
}

func TestTUI_CommentFromDealView(t *testing.T) {
	e, _ := testApp(t, domain.RoleAnalyst)
	deal := e.seedDeal("Acme Robotics")
	d := NewTestDriver(t, e.App)
	v := openDeal(t, d, deal.ID)

	d.PressKey('m')
	require.True(t, v.CapturesInput())
	d.Type("Great team, quick follow-up")
	d.PressEnter()

	assert.False(t, v.CapturesInput())
	text, _ := d.Notice()
	assert.Equal(t, "Comment added.", text)
	assert.Contains(t, stripANSI(d.View()), "Great team, quick follow-up")
}

func TestTUI_BlankCommentNeverSent(t *testing.T) {
	e, _ := testApp(t, domain.RoleAnalyst)
	deal := e.seedDeal("Acme Robotics")
	d := NewTestDriver(t, e.App)
	openDeal(t, d, deal.ID)

	d.PressKey('m')
	d.Type("   ")
	d.PressEnter()

	_, isErr := d.Notice()
	assert.True(t, isErr)
	assert.Zero(t, e.API.Server.Requests(http.MethodPost, "/activities/comment"))
}

// ── users ────────────────────────────────────────────────────────────────────

func TestTUI_UsersViewAdminOnly(t *testing.T) {
	e, _ := testApp(t, domain.RoleAnalyst)
	d := NewTestDriver(t, e.App)

	d.PressKey('u')
	assert.Equal(t, ViewBoard, d.ActiveViewID())

	admin, u := testApp(t, domain.RoleAdmin)
	d = NewTestDriver(t, admin.App)

	d.PressKey('u')
	assert.Equal(t, ViewUsers, d.ActiveViewID())
	assert.Contains(t, stripANSI(d.View()), u.Email)

	d.PressKey('n')
	assert.Equal(t, ViewForm, d.ActiveViewID())
	assert.Contains(t, stripANSI(d.View()), "New User")
}

// ── form actions ─────────────────────────────────────────────────────────────

func TestApplyDealForm_CreatesThenUpdates(t *testing.T) {
	e, _ := testApp(t, domain.RoleAnalyst)
	ctx := context.Background()

	f := newDealFormFields(nil)
	f.name = "Orbit Labs"
	f.round = "Seed"
	f.checkSize = "1,250,000"
	f.stage = domain.StageScreen

	msg := applyDealForm(ctx, e.App, 0, f)
	require.Equal(t, noticeMsg{text: "Created Orbit Labs."}, msg)

	deals := e.App.Board.Deals()
	require.Len(t, deals, 1)
	created := deals[0]
	assert.Equal(t, "1250000", created.CheckSize.Decimal.String())

	f = newDealFormFields(&created)
	assert.Equal(t, "1250000", f.checkSize)
	f.name = "Orbit Robotics"
	msg = applyDealForm(ctx, e.App, created.ID, f)
	require.Equal(t, noticeMsg{text: "Updated Orbit Robotics."}, msg)

	got, _ := e.API.Server.Deal(created.ID)
	assert.Equal(t, "Orbit Robotics", got.Name)
	assert.Equal(t, domain.StageScreen, got.Stage)
}

func TestApplyDealForm_InvalidCheckSize(t *testing.T) {
	e, _ := testApp(t, domain.RoleAnalyst)

	f := newDealFormFields(nil)
	f.name = "Orbit Labs"
	f.checkSize = "-5"

	msg, ok := applyDealForm(context.Background(), e.App, 0, f).(noticeMsg)
	require.True(t, ok)
	assert.True(t, msg.isErr)
	assert.Zero(t, e.API.Server.Requests(http.MethodPost, "/deals"))
}

func TestApplyDeleteDeal(t *testing.T) {
	e, _ := testApp(t, domain.RoleAdmin)
	deal := e.seedDeal("Acme Robotics")

	msg := applyDeleteDeal(context.Background(), e.App, deal)

	assert.Equal(t, noticeMsg{text: "Deleted Acme Robotics."}, msg)
	_, ok := e.API.Server.Deal(deal.ID)
	assert.False(t, ok)
}

func TestApplyUserForm(t *testing.T) {
	e, _ := testApp(t, domain.RoleAdmin)

	msg := applyUserForm(context.Background(), e.App, &userFormFields{
		email:    "pat@fund.test",
		fullName: "Pat Partner",
		password: "secret1",
		role:     domain.RolePartner,
	})

	assert.Equal(t, noticeMsg{text: "Created pat@fund.test (partner)."}, msg)
	assert.Contains(t, stripANSI(fmt.Sprint(e.App.Users.Users())), "pat@fund.test")
}

func TestErrorMsg_UnauthorizedExpiresSession(t *testing.T) {
	assert.Equal(t, sessionExpiredMsg{}, errorMsg(fmt.Errorf("loading deals: %w", api.ErrUnauthorized)))
	assert.Equal(t,
		noticeMsg{text: "Cannot reach the API.", isErr: true},
		errorMsg(fmt.Errorf("loading deals: %w", api.ErrUnavailable)))
}
