package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/shopspring/decimal"
)

// TestPassword is the password of every fixture account.
const TestPassword = "secret1"

var testEmailCounter atomic.Int64

// Deal options
type DealOption func(*domain.Deal)

func WithDealID(id int64) DealOption {
	return func(d *domain.Deal) {
		d.ID = id
	}
}

func WithStage(s domain.Stage) DealOption {
	return func(d *domain.Deal) {
		d.Stage = s
	}
}

func WithDealStatus(s domain.DealStatus) DealOption {
	return func(d *domain.Deal) {
		d.Status = s
	}
}

func WithOwner(id int64) DealOption {
	return func(d *domain.Deal) {
		d.OwnerID = id
	}
}

func WithRound(r string) DealOption {
	return func(d *domain.Deal) {
		d.Round = r
	}
}

func WithCheckSize(amount int64) DealOption {
	return func(d *domain.Deal) {
		d.CheckSize = decimal.NewNullDecimal(decimal.NewFromInt(amount))
	}
}

func NewTestDeal(name string, opts ...DealOption) domain.Deal {
	d := domain.Deal{
		Name:       name,
		CompanyURL: "https://example.com",
		Stage:      domain.StageSourced,
		Round:      "Seed",
		Status:     domain.DealActive,
		CreatedAt:  time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// NewTestUserCreate returns a valid account form for role with a unique email.
func NewTestUserCreate(role domain.Role) domain.UserCreate {
	n := testEmailCounter.Add(1)
	return domain.UserCreate{
		Email:    fmt.Sprintf("%s%d@fund.test", role, n),
		Password: TestPassword,
		Role:     role,
		FullName: fmt.Sprintf("Test %s %d", role, n),
	}
}
