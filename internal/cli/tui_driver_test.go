package cli

import (
	"testing"
	"time"

	"github.com/alexanderramin/dealflow/internal/teatest"
)

// tuiCmdTimeout covers Cmds that round-trip to the loopback stand-in API.
const tuiCmdTimeout = 300 * time.Millisecond

// TestDriver wraps teatest.Driver with inspection of appModel internals
// (view stack, notice line, shared state) that the generic driver can't see.
type TestDriver struct {
	*teatest.Driver
}

// NewTestDriver builds the appModel for app, sets the terminal size and
// drains Init, which loads the home view against the stand-in API.
func NewTestDriver(t *testing.T, app *App) *TestDriver {
	t.Helper()

	m := newAppModel(app)
	d := teatest.New(t, m, teatest.WithSize(140, 40), teatest.WithCmdTimeout(tuiCmdTimeout))
	d.DrainInit()

	return &TestDriver{Driver: d}
}

func (d *TestDriver) appModel() appModel {
	return d.Model.(appModel)
}

// ActiveViewID returns the ViewID of the top view on the stack.
func (d *TestDriver) ActiveViewID() ViewID {
	v := d.appModel().activeView()
	if v == nil {
		return ViewID(-1)
	}
	return v.ID()
}

// ActiveView returns the top view on the stack.
func (d *TestDriver) ActiveView() View {
	return d.appModel().activeView()
}

// ViewStackLen returns the number of views on the stack.
func (d *TestDriver) ViewStackLen() int {
	return len(d.appModel().viewStack)
}

// ViewStackIDs returns the ViewIDs of all views on the stack, bottom to top.
func (d *TestDriver) ViewStackIDs() []ViewID {
	m := d.appModel()
	ids := make([]ViewID, len(m.viewStack))
	for i, v := range m.viewStack {
		ids[i] = v.ID()
	}
	return ids
}

// Notice returns the status line text and whether it is an error.
func (d *TestDriver) Notice() (string, bool) {
	m := d.appModel()
	return m.notice, m.noticeErr
}

// State returns the shared state for inspection.
func (d *TestDriver) State() *SharedState {
	return d.appModel().state
}

// IsQuitting reports whether the app has signaled a quit.
func (d *TestDriver) IsQuitting() bool {
	return d.appModel().quitting || d.Quitting
}

// Board returns the board view at the bottom of the stack.
func (d *TestDriver) Board() *boardView {
	d.T.Helper()
	m := d.appModel()
	for _, v := range m.viewStack {
		if b, ok := v.(*boardView); ok {
			return b
		}
	}
	d.T.Fatalf("no board view on the stack: %v", d.ViewStackIDs())
	return nil
}
