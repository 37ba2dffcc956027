package formatter

import (
	"testing"
	"time"

	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func sampleDeal() domain.Deal {
	return domain.Deal{
		ID:         7,
		Name:       "Acme Robotics",
		CompanyURL: "https://acme.example",
		OwnerID:    2,
		Stage:      domain.StageIC,
		Round:      "Series A",
		CheckSize:  decimal.NewNullDecimal(decimal.NewFromInt(1_500_000)),
		Status:     domain.DealActive,
		CreatedAt:  time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC),
	}
}

func TestFormatDealList(t *testing.T) {
	out := stripANSI(FormatDealList([]domain.Deal{sampleDeal()}))
	assert.Contains(t, out, "STAGE")
	assert.Contains(t, out, "#7")
	assert.Contains(t, out, "Acme Robotics")
	assert.Contains(t, out, "IC Review")
	assert.Contains(t, out, "$1.5M")

	assert.Contains(t, stripANSI(FormatDealList(nil)), "No deals yet.")
}

func TestFormatDeal(t *testing.T) {
	out := stripANSI(FormatDeal(sampleDeal()))
	assert.Contains(t, out, "#7 ACME ROBOTICS")
	assert.Contains(t, out, "https://acme.example")
	assert.Contains(t, out, "user #2")
	assert.Contains(t, out, "Jan 5, 2026")
	assert.NotContains(t, out, "Updated")
}

func TestDealCard_ShowsTerminalStatus(t *testing.T) {
	d := sampleDeal()
	assert.Equal(t, "Acme Robotics\nSeries A $1.5M", stripANSI(DealCard(d, 30)))

	d.Status = domain.DealApproved
	d.CheckSize = decimal.NullDecimal{}
	assert.Equal(t, "Acme Robo…\nSeries A …", stripANSI(DealCard(d, 10)))
}

func TestFormatMemo_PlaceholdersForBlankSections(t *testing.T) {
	out := stripANSI(FormatMemo(domain.MemoSections{Summary: "Strong team.\nGood market."}))
	assert.Contains(t, out, "Executive Summary\n  Strong team.\n  Good market.")
	assert.Contains(t, out, "Open Questions\n  (empty)")
}

func TestMemoBanner(t *testing.T) {
	assert.Equal(t, "● Current memo", stripANSI(MemoBanner(0, false)))
	assert.Equal(t, "◷ Version 3 (read-only)", stripANSI(MemoBanner(3, false)))
	assert.Equal(t, "✎ Editing current memo", stripANSI(MemoBanner(0, true)))
}

func TestFormatActivitiesAt_Limit(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	items := []domain.Activity{
		{ID: 3, ActivityType: domain.ActivityVote, Description: "Voted", UserID: 4, CreatedAt: now.Add(-time.Minute * 2)},
		{ID: 2, ActivityType: domain.ActivityComment, Description: "Looks good", UserID: 4, CreatedAt: now.Add(-time.Hour)},
		{ID: 1, ActivityType: domain.ActivityStageChange, Description: "Moved from sourced to screen", UserID: 2, CreatedAt: now.Add(-48 * time.Hour)},
	}
	out := stripANSI(FormatActivitiesAt(items, 2, now))
	assert.Contains(t, out, "▲ Voted · user #4 · 2m ago")
	assert.Contains(t, out, "✎ Looks good · user #4 · 1h ago")
	assert.NotContains(t, out, "Moved from")
	assert.Contains(t, out, "… 1 older")
}

func TestFormatUserList(t *testing.T) {
	out := stripANSI(FormatUserList([]domain.User{
		{ID: 1, Email: "ada@fund.test", FullName: "Ada", Role: domain.RoleAdmin, IsActive: true},
		{ID: 2, Email: "bo@fund.test", Role: domain.RolePartner},
	}))
	assert.Contains(t, out, "Ada")
	assert.Contains(t, out, "[admin]")
	assert.Contains(t, out, "bo@fund.test  bo@fund.test")
	assert.Contains(t, out, "no")
}
