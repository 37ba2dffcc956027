package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/alexanderramin/dealflow/internal/api"
	"github.com/alexanderramin/dealflow/internal/domain"
)

// ActivityPanel shows a deal's activity log and carries partner actions.
// Nothing here is optimistic: every action waits for the server and then
// refetches.
type ActivityPanel struct {
	api      api.ActivityAPI
	session  Session
	observer UseCaseObserver

	mu         sync.Mutex
	dealID     int64
	deal       *domain.Deal
	activities []domain.Activity
	vote       *domain.Vote
}

func NewActivityPanel(activities api.ActivityAPI, session Session, observers ...UseCaseObserver) *ActivityPanel {
	return &ActivityPanel{
		api:      activities,
		session:  session,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Load fetches the deal, its activity log and the caller's vote.
func (p *ActivityPanel) Load(ctx context.Context, dealID int64) error {
	deal, err := p.api.GetDeal(ctx, dealID)
	if err != nil {
		return fmt.Errorf("loading deal: %w", err)
	}
	acts, err := p.api.ListActivities(ctx, dealID)
	if err != nil {
		return fmt.Errorf("loading activity: %w", err)
	}
	vote, err := p.api.GetUserVote(ctx, dealID)
	if err != nil {
		return fmt.Errorf("loading vote: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.dealID = dealID
	p.deal = deal
	p.activities = acts
	p.vote = vote
	return nil
}

// Comment posts text to the log. Blank comments never reach the server.
func (p *ActivityPanel) Comment(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyComment
	}
	return p.act(ctx, "comment", func(dealID int64) error {
		_, err := p.api.AddComment(ctx, dealID, text)
		return err
	})
}

// Vote backs the deal. A repeat vote from a stale view is left for the
// server to reject.
func (p *ActivityPanel) Vote(ctx context.Context) error {
	return p.act(ctx, "vote", func(dealID int64) error {
		_, err := p.api.Vote(ctx, dealID)
		return err
	})
}

func (p *ActivityPanel) Approve(ctx context.Context) error {
	return p.act(ctx, "approve", func(dealID int64) error {
		_, err := p.api.ApproveDeal(ctx, dealID)
		return err
	})
}

func (p *ActivityPanel) Decline(ctx context.Context) error {
	return p.act(ctx, "decline", func(dealID int64) error {
		_, err := p.api.DeclineDeal(ctx, dealID)
		return err
	})
}

func (p *ActivityPanel) act(ctx context.Context, name string, send func(dealID int64) error) (err error) {
	startedAt := time.Now()
	dealID := p.DealID()
	defer observe(ctx, p.observer, name, startedAt, map[string]any{"deal_id": dealID}, &err)

	if dealID == 0 {
		return ErrDealNotLoaded
	}
	if err = send(dealID); err != nil {
		return err
	}
	return p.Load(ctx, dealID)
}

func (p *ActivityPanel) DealID() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dealID
}

// Deal returns the loaded deal, or nil.
func (p *ActivityPanel) Deal() *domain.Deal {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.deal == nil {
		return nil
	}
	d := *p.deal
	return &d
}

// Activities returns the log in server order (newest first).
func (p *ActivityPanel) Activities() []domain.Activity {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.activities)
}

// HasVoted reports whether the caller's vote was found on the last load.
func (p *ActivityPanel) HasVoted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.vote != nil
}

// ShowPartnerActions reports whether the partner action bar is shown.
func (p *ActivityPanel) ShowPartnerActions() bool {
	return roleOf(p.session).IsPartner()
}

// CanVote is true for a partner who has not voted on the loaded deal.
func (p *ActivityPanel) CanVote() bool {
	return p.ShowPartnerActions() && p.DealID() != 0 && !p.HasVoted()
}

// CanDecide is true for a partner while the loaded deal is still active.
func (p *ActivityPanel) CanDecide() bool {
	if !p.ShowPartnerActions() {
		return false
	}
	d := p.Deal()
	return d != nil && d.Status == domain.DealActive
}
