package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/alexanderramin/dealflow/internal/api"
	"github.com/alexanderramin/dealflow/internal/domain"
)

// EditorMode is the memo editor's view state.
type EditorMode int

const (
	ViewingCurrent EditorMode = iota
	EditingCurrent
	ViewingHistorical
)

func (m EditorMode) String() string {
	switch m {
	case EditingCurrent:
		return "editing"
	case ViewingHistorical:
		return "historical"
	default:
		return "current"
	}
}

// MemoDisplay is what the editor shows: the draft while editing, a
// historical snapshot, or the last-fetched memo.
type MemoDisplay struct {
	Mode          EditorMode
	Sections      domain.MemoSections
	ReadOnly      bool
	HasMemo       bool
	VersionID     int64 // zero unless historical
	VersionNumber int   // zero unless historical
}

// MemoEditor manages one deal's memo and its version history.
type MemoEditor struct {
	memos    api.MemoAPI
	session  Session
	observer UseCaseObserver

	mu       sync.Mutex
	dealID   int64
	memo     *domain.Memo
	versions []domain.MemoVersion
	mode     EditorMode
	selected int64
	draft    domain.MemoSections
}

func NewMemoEditor(memos api.MemoAPI, session Session, observers ...UseCaseObserver) *MemoEditor {
	return &MemoEditor{
		memos:    memos,
		session:  session,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Load fetches the deal's memo and version history and returns to
// viewing-current. A deal without a memo loads as empty.
func (e *MemoEditor) Load(ctx context.Context, dealID int64) error {
	memo, err := e.memos.GetMemoByDeal(ctx, dealID)
	if errors.Is(err, api.ErrNotFound) {
		memo, err = nil, nil
	}
	if err != nil {
		return fmt.Errorf("loading memo: %w", err)
	}

	var versions []domain.MemoVersion
	if memo != nil {
		versions, err = e.memos.ListMemoVersions(ctx, memo.ID)
		if err != nil {
			return fmt.Errorf("loading memo versions: %w", err)
		}
		slices.SortFunc(versions, func(a, b domain.MemoVersion) int {
			return b.VersionNumber - a.VersionNumber
		})
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.dealID = dealID
	e.memo = memo
	e.versions = versions
	e.toCurrent()
	return nil
}

// SelectVersion shows a historical snapshot. Any edit in progress is
// discarded.
func (e *MemoEditor) SelectVersion(versionID int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.versionIndex(versionID) < 0 {
		return fmt.Errorf("version %d: %w", versionID, ErrUnknownVersion)
	}
	e.draft = e.memo.Sections()
	e.mode = ViewingHistorical
	e.selected = versionID
	return nil
}

// SelectCurrent shows exactly the last-fetched memo.
func (e *MemoEditor) SelectCurrent() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.toCurrent()
}

// BeginEdit enters edit mode from viewing-current.
func (e *MemoEditor) BeginEdit() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode == EditingCurrent {
		return nil
	}
	if e.mode != ViewingCurrent {
		return ErrReadOnly
	}
	if !roleOf(e.session).CanEditPipeline() {
		return ErrPermissionDenied
	}
	if e.dealID == 0 {
		return ErrDealNotLoaded
	}
	e.draft = e.memo.Sections()
	e.mode = EditingCurrent
	return nil
}

// SetSection replaces one section of the draft.
func (e *MemoEditor) SetSection(key domain.SectionKey, text string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode != EditingCurrent {
		return ErrNotEditing
	}
	e.draft.Set(key, text)
	return nil
}

// Draft returns the edit buffer.
func (e *MemoEditor) Draft() domain.MemoSections {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft
}

// Cancel discards the draft and returns to viewing-current.
func (e *MemoEditor) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode == EditingCurrent {
		e.toCurrent()
	}
}

// Save creates the memo if the deal has none and updates it otherwise, then
// refetches memo and history. On failure the editor stays in edit mode with
// the draft intact.
func (e *MemoEditor) Save(ctx context.Context) (err error) {
	startedAt := time.Now()
	fields := map[string]any{}
	defer observe(ctx, e.observer, "save-memo", startedAt, fields, &err)

	e.mu.Lock()
	if e.mode != EditingCurrent {
		e.mu.Unlock()
		return ErrNotEditing
	}
	dealID, memo, draft := e.dealID, e.memo, e.draft
	e.mu.Unlock()
	fields["deal_id"] = dealID

	var saved *domain.Memo
	if memo == nil {
		saved, err = e.memos.CreateMemo(ctx, domain.MemoCreate{DealID: dealID, MemoSections: draft})
	} else {
		saved, err = e.memos.UpdateMemo(ctx, memo.ID, draft)
	}
	if err != nil {
		return fmt.Errorf("saving memo: %w", err)
	}
	fields["memo_id"] = saved.ID

	if err = e.Load(ctx, dealID); err != nil {
		e.mu.Lock()
		e.memo = saved
		e.toCurrent()
		e.mu.Unlock()
		return err
	}
	return nil
}

// Display returns the content the editor currently shows.
func (e *MemoEditor) Display() MemoDisplay {
	e.mu.Lock()
	defer e.mu.Unlock()
	d := MemoDisplay{Mode: e.mode, HasMemo: e.memo != nil}
	switch e.mode {
	case EditingCurrent:
		d.Sections = e.draft
	case ViewingHistorical:
		v := e.versions[e.versionIndex(e.selected)]
		d.Sections = v.MemoSections
		d.VersionID = v.ID
		d.VersionNumber = v.VersionNumber
		d.ReadOnly = true
	default:
		d.Sections = e.memo.Sections()
		d.ReadOnly = !roleOf(e.session).CanEditPipeline()
	}
	return d
}

// Versions returns the history newest first.
func (e *MemoEditor) Versions() []domain.MemoVersion {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.versions)
}

// Memo returns the last-fetched memo, or nil when the deal has none.
func (e *MemoEditor) Memo() *domain.Memo {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.memo == nil {
		return nil
	}
	m := *e.memo
	return &m
}

func (e *MemoEditor) Mode() EditorMode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}

// CanEdit reports whether the signed-in role may write memos.
func (e *MemoEditor) CanEdit() bool {
	return roleOf(e.session).CanEditPipeline()
}

// toCurrent resets to viewing-current with the draft mirroring the fetched
// memo. Callers hold e.mu.
func (e *MemoEditor) toCurrent() {
	e.mode = ViewingCurrent
	e.selected = 0
	e.draft = e.memo.Sections()
}

func (e *MemoEditor) versionIndex(id int64) int {
	for i, v := range e.versions {
		if v.ID == id {
			return i
		}
	}
	return -1
}
