package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDealInput_Validate(t *testing.T) {
	valid := NewDealInput()
	valid.Name = "Acme Robotics"
	valid.CompanyURL = "https://acme.example"
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*DealInput)
		want   string
	}{
		{"missing name", func(d *DealInput) { d.Name = "" }, "name is required"},
		{"bad url", func(d *DealInput) { d.CompanyURL = "not a url" }, "company_url must be a valid URL"},
		{"bad stage", func(d *DealInput) { d.Stage = "won" }, "stage must be one of"},
		{"bad status", func(d *DealInput) { d.Status = "open" }, "status must be one of"},
		{"negative check", func(d *DealInput) {
			d.CheckSize = decimal.NewNullDecimal(decimal.NewFromInt(-1))
		}, "check_size must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			err := in.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestUserCreate_Validate(t *testing.T) {
	in := UserCreate{Email: "pat@fund.vc", Password: "secret1", Role: RolePartner, FullName: "Pat Partner"}
	require.NoError(t, in.Validate())

	in.Email = "pat"
	in.FullName = ""
	err := in.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email must be a valid email")
	assert.Contains(t, err.Error(), "full_name is required")
}
