package api

import (
	"context"

	"github.com/alexanderramin/dealflow/internal/domain"
)

// AuthAPI is the slice of the API the session store needs.
type AuthAPI interface {
	Login(ctx context.Context, creds domain.Credentials) (*domain.AccessToken, error)
	Me(ctx context.Context) (*domain.User, error)
}

// DealAPI covers deal CRUD, including stage moves.
type DealAPI interface {
	ListDeals(ctx context.Context) ([]domain.Deal, error)
	GetDeal(ctx context.Context, id int64) (*domain.Deal, error)
	CreateDeal(ctx context.Context, in domain.DealInput) (*domain.Deal, error)
	UpdateDeal(ctx context.Context, id int64, in domain.DealInput) (*domain.Deal, error)
	DeleteDeal(ctx context.Context, id int64) error
}

// MemoAPI covers the investment memo and its version history.
type MemoAPI interface {
	GetMemoByDeal(ctx context.Context, dealID int64) (*domain.Memo, error)
	CreateMemo(ctx context.Context, in domain.MemoCreate) (*domain.Memo, error)
	UpdateMemo(ctx context.Context, memoID int64, sections domain.MemoSections) (*domain.Memo, error)
	ListMemoVersions(ctx context.Context, memoID int64) ([]domain.MemoVersion, error)
}

// ActivityAPI covers the activity log and partner decisions.
type ActivityAPI interface {
	GetDeal(ctx context.Context, id int64) (*domain.Deal, error)
	ListActivities(ctx context.Context, dealID int64) ([]domain.Activity, error)
	AddComment(ctx context.Context, dealID int64, text string) (*domain.Activity, error)
	Vote(ctx context.Context, dealID int64) (*domain.Vote, error)
	GetUserVote(ctx context.Context, dealID int64) (*domain.Vote, error)
	ApproveDeal(ctx context.Context, dealID int64) (*domain.Deal, error)
	DeclineDeal(ctx context.Context, dealID int64) (*domain.Deal, error)
}

// UserAPI covers admin user management.
type UserAPI interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	CreateUser(ctx context.Context, in domain.UserCreate) (*domain.User, error)
}

var (
	_ AuthAPI     = (*Client)(nil)
	_ DealAPI     = (*Client)(nil)
	_ MemoAPI     = (*Client)(nil)
	_ ActivityAPI = (*Client)(nil)
	_ UserAPI     = (*Client)(nil)
)
