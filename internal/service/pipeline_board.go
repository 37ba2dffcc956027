package service

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/alexanderramin/dealflow/internal/api"
	"github.com/alexanderramin/dealflow/internal/domain"
)

// MoveResult is the state of a stage move.
type MoveResult int

const (
	MoveNoop MoveResult = iota
	MovePending
	MoveCommitted
	MoveRolledBack
)

func (r MoveResult) String() string {
	switch r {
	case MovePending:
		return "pending"
	case MoveCommitted:
		return "committed"
	case MoveRolledBack:
		return "rolled-back"
	default:
		return "noop"
	}
}

const (
	noticeMoveDenied = "Only analysts and admins can move deals."
	noticeMoveFailed = "Failed to update deal stage."
)

// Outcome describes how a move settled.
type Outcome struct {
	Result MoveResult
	DealID int64
	From   domain.Stage
	To     domain.Stage
	Notice string
	Err    error
}

// PendingMove is an optimistic stage change awaiting the server. It holds
// the pre-move snapshot until it is settled.
type PendingMove struct {
	DealID int64
	From   domain.Stage
	To     domain.Stage

	state     MoveResult
	snapshot  []domain.Deal
	loadSeq   uint64 // board load the snapshot was taken from
	record    domain.DealInput
	deals     api.DealAPI
	startedAt time.Time
}

// State reports pending, committed or rolled-back.
func (pm *PendingMove) State() MoveResult {
	return pm.state
}

// Send issues the full-record update. It touches no board state and may run
// off the UI goroutine.
func (pm *PendingMove) Send(ctx context.Context) error {
	if pm.state != MovePending {
		return fmt.Errorf("move of deal %d is %s", pm.DealID, pm.state)
	}
	_, err := pm.deals.UpdateDeal(ctx, pm.DealID, pm.record)
	return err
}

// Column is one board column.
type Column struct {
	Stage domain.Stage
	Deals []domain.Deal
}

// PipelineBoard holds the fetched deal list and at most one dragged deal.
type PipelineBoard struct {
	deals    api.DealAPI
	session  Session
	observer UseCaseObserver

	mu      sync.Mutex
	items   []domain.Deal
	loads   uint64
	dragged int64
}

func NewPipelineBoard(deals api.DealAPI, session Session, observers ...UseCaseObserver) *PipelineBoard {
	return &PipelineBoard{
		deals:    deals,
		session:  session,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Load fetches the deal list and replaces local state wholesale.
func (b *PipelineBoard) Load(ctx context.Context) error {
	deals, err := b.deals.ListDeals(ctx)
	if err != nil {
		return fmt.Errorf("loading deals: %w", err)
	}
	b.mu.Lock()
	b.items = deals
	b.loads++
	b.mu.Unlock()
	return nil
}

// Deals returns a copy of the deal list in fetch order.
func (b *PipelineBoard) Deals() []domain.Deal {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.items)
}

func (b *PipelineBoard) Deal(id int64) (domain.Deal, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i := b.indexOf(id); i >= 0 {
		return b.items[i], true
	}
	return domain.Deal{}, false
}

// Columns groups deals by stage in pipeline order. Every stage has a column.
func (b *PipelineBoard) Columns() []Column {
	b.mu.Lock()
	defer b.mu.Unlock()
	stages := domain.Stages()
	cols := make([]Column, len(stages))
	for i, s := range stages {
		cols[i].Stage = s
	}
	for _, d := range b.items {
		if i := d.Stage.Index(); i >= 0 {
			cols[i].Deals = append(cols[i].Deals, d)
		}
	}
	return cols
}

// CanEdit reports whether the signed-in role may create, edit or move deals.
func (b *PipelineBoard) CanEdit() bool {
	return roleOf(b.session).CanEditPipeline()
}

func (b *PipelineBoard) BeginDrag(dealID int64) {
	b.mu.Lock()
	b.dragged = dealID
	b.mu.Unlock()
}

func (b *PipelineBoard) CancelDrag() {
	b.mu.Lock()
	b.dragged = 0
	b.mu.Unlock()
}

// DraggedDealID returns the deal being dragged, or 0.
func (b *PipelineBoard) DraggedDealID() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dragged
}

// BeginMove applies a stage change optimistically. The permission check runs
// after the optimistic apply: an unauthorized move is rolled back before
// BeginMove returns and never reaches the network. A nil move means there
// was nothing to do.
func (b *PipelineBoard) BeginMove(dealID int64, target domain.Stage) (*PendingMove, Outcome) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dragged = 0

	out := Outcome{Result: MoveNoop, DealID: dealID, To: target}
	i := b.indexOf(dealID)
	if i < 0 || !target.Valid() {
		return nil, out
	}
	current := b.items[i]
	out.From = current.Stage
	if current.Stage == target {
		return nil, out
	}

	pm := &PendingMove{
		DealID:   dealID,
		From:     current.Stage,
		To:       target,
		state:     MovePending,
		snapshot:  slices.Clone(b.items),
		loadSeq:   b.loads,
		deals:     b.deals,
		startedAt: time.Now(),
	}
	moved := current.WithStage(target)
	b.items[i] = moved

	if !roleOf(b.session).CanEditPipeline() {
		b.rollback(pm)
		out.Result = MoveRolledBack
		out.Notice = noticeMoveDenied
		out.Err = ErrPermissionDenied
		return pm, out
	}

	pm.record = moved.Input()
	out.Result = MovePending
	return pm, out
}

// BeginDrop moves the dragged deal to target.
func (b *PipelineBoard) BeginDrop(target domain.Stage) (*PendingMove, Outcome) {
	return b.BeginMove(b.DraggedDealID(), target)
}

// Settle commits pm when sendErr is nil and restores the pre-move snapshot
// otherwise. Settling a move twice is a no-op.
func (b *PipelineBoard) Settle(ctx context.Context, pm *PendingMove, sendErr error) Outcome {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dragged = 0

	if pm == nil {
		return Outcome{Result: MoveNoop}
	}
	out := Outcome{Result: pm.state, DealID: pm.DealID, From: pm.From, To: pm.To}
	if pm.state != MovePending {
		return out
	}

	if sendErr != nil {
		b.rollback(pm)
		out.Result = MoveRolledBack
		out.Notice = noticeMoveFailed
		out.Err = sendErr
	} else {
		pm.state = MoveCommitted
		pm.snapshot = nil
		out.Result = MoveCommitted
	}

	observe(ctx, b.observer, "move-deal", pm.startedAt, map[string]any{
		"deal_id": pm.DealID,
		"from":    string(pm.From),
		"to":      string(pm.To),
		"result":  out.Result.String(),
	}, &sendErr)
	return out
}

// MoveDeal runs a complete move: optimistic apply, permission check, network
// update and commit or rollback.
func (b *PipelineBoard) MoveDeal(ctx context.Context, dealID int64, target domain.Stage) Outcome {
	pm, out := b.BeginMove(dealID, target)
	if pm == nil || pm.State() != MovePending {
		return out
	}
	return b.Settle(ctx, pm, pm.Send(ctx))
}

// Drop moves the dragged deal to target.
func (b *PipelineBoard) Drop(ctx context.Context, target domain.Stage) Outcome {
	return b.MoveDeal(ctx, b.DraggedDealID(), target)
}

// SaveDeal creates a deal when editingID is 0 and otherwise updates it, then
// refetches the board.
func (b *PipelineBoard) SaveDeal(ctx context.Context, editingID int64, in domain.DealInput) (saved *domain.Deal, err error) {
	startedAt := time.Now()
	fields := map[string]any{"deal_id": editingID}
	defer observe(ctx, b.observer, "save-deal", startedAt, fields, &err)

	if !b.CanEdit() {
		return nil, ErrPermissionDenied
	}
	if err = in.Validate(); err != nil {
		return nil, err
	}
	if editingID == 0 {
		saved, err = b.deals.CreateDeal(ctx, in)
	} else {
		saved, err = b.deals.UpdateDeal(ctx, editingID, in)
	}
	if err != nil {
		return nil, err
	}
	fields["deal_id"] = saved.ID
	if err = b.Load(ctx); err != nil {
		return saved, err
	}
	return saved, nil
}

// DeleteDeal removes a deal and refetches the board.
func (b *PipelineBoard) DeleteDeal(ctx context.Context, id int64) (err error) {
	startedAt := time.Now()
	defer observe(ctx, b.observer, "delete-deal", startedAt, map[string]any{"deal_id": id}, &err)

	if !b.CanEdit() {
		return ErrPermissionDenied
	}
	if err = b.deals.DeleteDeal(ctx, id); err != nil {
		return err
	}
	return b.Load(ctx)
}

// rollback restores the snapshot held by pm. A board refetched since the
// snapshot already holds the server's copy, which never saw the move, so it
// is left alone. Callers hold b.mu.
func (b *PipelineBoard) rollback(pm *PendingMove) {
	if b.loads == pm.loadSeq {
		b.items = pm.snapshot
	}
	pm.snapshot = nil
	pm.state = MoveRolledBack
}

func (b *PipelineBoard) indexOf(id int64) int {
	for i, d := range b.items {
		if d.ID == id {
			return i
		}
	}
	return -1
}
