package formatter

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func TestMoney(t *testing.T) {
	tests := []struct {
		name  string
		input decimal.NullDecimal
		want  string
	}{
		{"absent", decimal.NullDecimal{}, "—"},
		{"millions", decimal.NewNullDecimal(decimal.NewFromInt(1_500_000)), "$1.5M"},
		{"round millions", decimal.NewNullDecimal(decimal.NewFromInt(2_000_000)), "$2M"},
		{"thousands", decimal.NewNullDecimal(decimal.NewFromInt(250_000)), "$250K"},
		{"small", decimal.NewNullDecimal(decimal.RequireFromString("900.50")), "$900.5"},
		{"negative", decimal.NewNullDecimal(decimal.NewFromInt(-3_000)), "-$3K"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripANSI(Money(tt.input)))
		})
	}
}

func TestHumanTimestampFrom(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input time.Time
		want  string
	}{
		{"just now", now.Add(-10 * time.Second), "Just now"},
		{"minutes", now.Add(-5 * time.Minute), "5m ago"},
		{"hours", now.Add(-3 * time.Hour), "3h ago"},
		{"days", now.Add(-4 * 24 * time.Hour), "4d ago"},
		{"old", time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC), "Sep 30, 2025"},
		{"future", now.Add(48 * time.Hour), "Mar 12, 2026"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HumanTimestampFrom(tt.input, now))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Acme", Truncate("Acme", 10))
	assert.Equal(t, "Acme Rob…", Truncate("Acme Robotics", 9))
	assert.Equal(t, "…", Truncate("Acme", 1))
	assert.Equal(t, "", Truncate("Acme", 0))
}

func TestRenderTable_AlignsStyledCells(t *testing.T) {
	out := stripANSI(RenderTable(
		[]string{"ID", "NAME"},
		[][]string{
			{StyleGreen.Render("#1"), "Acme"},
			{"#22", "Borealis Bio"},
			{"#3"},
		},
	))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 5)
	assert.Equal(t, "ID   NAME", lines[0])
	assert.Equal(t, "#1   Acme", lines[2])
	assert.Equal(t, "#22  Borealis Bio", lines[3])
	assert.Equal(t, "#3   ", lines[4])
}

func TestRenderTable_NoHeaders(t *testing.T) {
	assert.Empty(t, RenderTable(nil, [][]string{{"x"}}))
}

func TestStatusPillAndRoleBadge(t *testing.T) {
	assert.Equal(t, "✔ Approved", stripANSI(StatusPill(domain.DealApproved)))
	assert.Equal(t, "✖ Declined", stripANSI(StatusPill(domain.DealDeclined)))
	assert.Equal(t, "[partner]", stripANSI(RoleBadge(domain.RolePartner)))
}
