package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexanderramin/dealflow/internal/domain"
)

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (*domain.AccessToken, error) {
	var tok domain.AccessToken
	if err := c.post(ctx, "/users/login", creds, &tok); err != nil {
		return nil, err
	}
	return &tok, nil
}

// Me resolves the profile of the token holder.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := c.get(ctx, "/users/me", &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := c.get(ctx, "/users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) CreateUser(ctx context.Context, in domain.UserCreate) (*domain.User, error) {
	var u domain.User
	if err := c.post(ctx, "/users", in, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) ListDeals(ctx context.Context) ([]domain.Deal, error) {
	var deals []domain.Deal
	if err := c.get(ctx, "/deals", &deals); err != nil {
		return nil, err
	}
	return deals, nil
}

func (c *Client) GetDeal(ctx context.Context, id int64) (*domain.Deal, error) {
	var d domain.Deal
	if err := c.get(ctx, dealPath(id), &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *Client) CreateDeal(ctx context.Context, in domain.DealInput) (*domain.Deal, error) {
	var d domain.Deal
	if err := c.post(ctx, "/deals", in, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// UpdateDeal sends the full record. Stage moves go through here too.
func (c *Client) UpdateDeal(ctx context.Context, id int64, in domain.DealInput) (*domain.Deal, error) {
	var d domain.Deal
	if err := c.put(ctx, dealPath(id), in, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *Client) DeleteDeal(ctx context.Context, id int64) error {
	return c.delete(ctx, dealPath(id))
}

func (c *Client) ListActivities(ctx context.Context, dealID int64) ([]domain.Activity, error) {
	var acts []domain.Activity
	if err := c.get(ctx, fmt.Sprintf("/activities/deal/%d", dealID), &acts); err != nil {
		return nil, err
	}
	return acts, nil
}

func (c *Client) AddComment(ctx context.Context, dealID int64, text string) (*domain.Activity, error) {
	var a domain.Activity
	in := domain.CommentCreate{DealID: dealID, Comment: text}
	if err := c.post(ctx, "/activities/comment", in, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (c *Client) Vote(ctx context.Context, dealID int64) (*domain.Vote, error) {
	var v domain.Vote
	if err := c.post(ctx, fmt.Sprintf("/activities/deal/%d/vote", dealID), nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// GetUserVote returns the caller's vote on a deal, or nil when none was cast.
// Both a 404 and a null body mean "no vote".
func (c *Client) GetUserVote(ctx context.Context, dealID int64) (*domain.Vote, error) {
	var v *domain.Vote
	err := c.get(ctx, fmt.Sprintf("/activities/deal/%d/vote", dealID), &v)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (c *Client) ApproveDeal(ctx context.Context, dealID int64) (*domain.Deal, error) {
	var d domain.Deal
	if err := c.post(ctx, fmt.Sprintf("/activities/deal/%d/approve", dealID), nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *Client) DeclineDeal(ctx context.Context, dealID int64) (*domain.Deal, error) {
	var d domain.Deal
	if err := c.post(ctx, fmt.Sprintf("/activities/deal/%d/decline", dealID), nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// GetMemoByDeal returns the deal's memo. A 404 surfaces as ErrNotFound,
// meaning no memo has been written yet.
func (c *Client) GetMemoByDeal(ctx context.Context, dealID int64) (*domain.Memo, error) {
	var m domain.Memo
	if err := c.get(ctx, fmt.Sprintf("/memos/deal/%d", dealID), &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) CreateMemo(ctx context.Context, in domain.MemoCreate) (*domain.Memo, error) {
	var m domain.Memo
	if err := c.post(ctx, "/memos", in, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) UpdateMemo(ctx context.Context, memoID int64, sections domain.MemoSections) (*domain.Memo, error) {
	var m domain.Memo
	if err := c.put(ctx, fmt.Sprintf("/memos/%d", memoID), sections, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) ListMemoVersions(ctx context.Context, memoID int64) ([]domain.MemoVersion, error) {
	var versions []domain.MemoVersion
	if err := c.get(ctx, fmt.Sprintf("/memos/%d/versions", memoID), &versions); err != nil {
		return nil, err
	}
	return versions, nil
}

func dealPath(id int64) string {
	return fmt.Sprintf("/deals/%d", id)
}
