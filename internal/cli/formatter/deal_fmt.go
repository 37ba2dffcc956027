package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/dealflow/internal/domain"
)

// FormatDealList renders deals as a table in the order given.
func FormatDealList(deals []domain.Deal) string {
	if len(deals) == 0 {
		return Dim("No deals yet.") + "\n"
	}
	rows := make([][]string, 0, len(deals))
	for _, d := range deals {
		rows = append(rows, []string{
			StyleGreen.Render("#" + strconv.FormatInt(d.ID, 10)),
			Bold(Truncate(d.Name, 32)),
			StageBadge(d.Stage),
			StatusPill(d.Status),
			orDash(d.Round),
			Money(d.CheckSize),
			Dim(HumanTimestamp(d.LastTouched())),
		})
	}
	return RenderTable([]string{"ID", "NAME", "STAGE", "STATUS", "ROUND", "CHECK", "UPDATED"}, rows)
}

// FormatDeal renders the detail box for one deal.
func FormatDeal(d domain.Deal) string {
	var b strings.Builder
	field := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", Dim(PadRight(label, 9)), value)
	}
	field("Stage", StageBadge(d.Stage))
	field("Status", StatusPill(d.Status))
	field("Round", orDash(d.Round))
	field("Check", Money(d.CheckSize))
	field("Company", orDash(d.CompanyURL))
	field("Owner", fmt.Sprintf("user #%d", d.OwnerID))
	field("Created", d.CreatedAt.Format("Jan 2, 2006"))
	if d.UpdatedAt != nil {
		field("Updated", HumanTimestamp(*d.UpdatedAt))
	}
	return RenderBox(fmt.Sprintf("#%d %s", d.ID, d.Name), strings.TrimRight(b.String(), "\n"))
}

// DealCard is the two-line card drawn inside a board column.
func DealCard(d domain.Deal, width int) string {
	name := Truncate(d.Name, width)
	meta := strings.TrimSpace(strings.Join([]string{d.Round, MoneyPlainOrEmpty(d)}, " "))
	if d.Status.IsTerminal() {
		meta = strings.TrimSpace(meta + " " + string(d.Status))
	}
	return name + "\n" + Dim(Truncate(meta, width))
}

// MoneyPlainOrEmpty is the unstyled check size, or "" when absent.
func MoneyPlainOrEmpty(d domain.Deal) string {
	if !d.CheckSize.Valid {
		return ""
	}
	return MoneyPlain(d.CheckSize.Decimal)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return Dim("—")
	}
	return s
}
