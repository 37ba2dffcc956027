package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Deal struct {
	ID         int64               `json:"id" yaml:"id"`
	Name       string              `json:"name" yaml:"name"`
	CompanyURL string              `json:"company_url,omitempty" yaml:"company_url,omitempty"`
	OwnerID    int64               `json:"owner_id" yaml:"owner_id"`
	Stage      Stage               `json:"stage" yaml:"stage"`
	Round      string              `json:"round,omitempty" yaml:"round,omitempty"`
	CheckSize  decimal.NullDecimal `json:"check_size" yaml:"-"`
	Status     DealStatus          `json:"status" yaml:"status"`
	CreatedAt  time.Time           `json:"created_at" yaml:"created_at"`
	UpdatedAt  *time.Time          `json:"updated_at" yaml:"updated_at,omitempty"`
}

// WithStage returns a copy of d moved to stage s. The receiver is untouched.
func (d Deal) WithStage(s Stage) Deal {
	d.Stage = s
	return d
}

// LastTouched returns UpdatedAt when set, otherwise CreatedAt.
func (d Deal) LastTouched() time.Time {
	if d.UpdatedAt != nil {
		return *d.UpdatedAt
	}
	return d.CreatedAt
}

// Input converts the deal back into the full-record payload accepted by
// create and update.
func (d Deal) Input() DealInput {
	return DealInput{
		Name:       d.Name,
		CompanyURL: d.CompanyURL,
		Stage:      d.Stage,
		Round:      d.Round,
		CheckSize:  d.CheckSize,
		Status:     d.Status,
	}
}

// DealInput is the create/update payload.
type DealInput struct {
	Name       string              `json:"name" validate:"required,max=200"`
	CompanyURL string              `json:"company_url,omitempty" validate:"omitempty,url"`
	Stage      Stage               `json:"stage" validate:"required,oneof=sourced screen diligence ic invested passed"`
	Round      string              `json:"round,omitempty" validate:"max=50"`
	CheckSize  decimal.NullDecimal `json:"check_size"`
	Status     DealStatus          `json:"status" validate:"required,oneof=active archived approved declined"`
}

// NewDealInput returns the defaults the deal form opens with.
func NewDealInput() DealInput {
	return DealInput{Stage: StageSourced, Status: DealActive}
}
