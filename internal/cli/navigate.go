package cli

import (
	"errors"

	"github.com/alexanderramin/dealflow/internal/api"
	tea "github.com/charmbracelet/bubbletea"
)

// Navigation messages used by views to request view transitions.
// The appModel handles these in its Update method.

type pushViewMsg struct {
	view View
}

type popViewMsg struct{}

type replaceViewMsg struct {
	view View
}

// signedOutMsg returns to the login view after an explicit sign-out.
type signedOutMsg struct{}

// refreshViewMsg is broadcast to every view on the stack so views below a
// form reload after it saves.
type refreshViewMsg struct{}

// noticeMsg sets the transient status line.
type noticeMsg struct {
	text  string
	isErr bool
}

// sessionExpiredMsg sends the user back to the login view after the API
// rejected the token.
type sessionExpiredMsg struct{}

// signedInMsg is sent once the login view has a session.
type signedInMsg struct{}

// formCompleteMsg is sent when a form view completes or is cancelled.
// The appModel pops the form, then runs nextCmd and a refresh.
type formCompleteMsg struct {
	nextCmd tea.Cmd
}

func pushView(v View) tea.Cmd {
	return func() tea.Msg { return pushViewMsg{view: v} }
}

func notice(text string) tea.Cmd {
	return func() tea.Msg { return noticeMsg{text: text} }
}

// errorMsg turns a failed action into a notice, or into a return to the
// login view when the session is gone.
func errorMsg(err error) tea.Msg {
	if errors.Is(err, api.ErrUnauthorized) {
		return sessionExpiredMsg{}
	}
	return noticeMsg{text: noticeFor(err), isErr: true}
}

func errorCmd(err error) tea.Cmd {
	return func() tea.Msg { return errorMsg(err) }
}
