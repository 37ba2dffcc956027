package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/dealflow/internal/domain"
)

// ActivityIcon returns the glyph shown in front of an activity entry.
func ActivityIcon(t domain.ActivityType) string {
	switch t {
	case domain.ActivityStageChange:
		return StyleBlue.Render("→")
	case domain.ActivityComment:
		return StyleFg.Render("✎")
	case domain.ActivityVote:
		return StylePurple.Render("▲")
	case domain.ActivityApproval:
		return StyleGreen.Render("✔")
	case domain.ActivityDecline:
		return StyleRed.Render("✖")
	case domain.ActivityMemoUpdated:
		return StyleYellow.Render("◆")
	default:
		return Dim("•")
	}
}

// FormatActivities renders the log newest first, at most limit entries
// (zero means all).
func FormatActivities(items []domain.Activity, limit int) string {
	return FormatActivitiesAt(items, limit, time.Now())
}

// FormatActivitiesAt is FormatActivities against a fixed reference time.
func FormatActivitiesAt(items []domain.Activity, limit int, now time.Time) string {
	if len(items) == 0 {
		return Dim("No activity yet.") + "\n"
	}
	shown := items
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}
	var b strings.Builder
	for _, a := range shown {
		fmt.Fprintf(&b, "%s %s %s\n",
			ActivityIcon(a.ActivityType),
			a.Description,
			Dim(fmt.Sprintf("· user #%d · %s", a.UserID, HumanTimestampFrom(a.CreatedAt, now))),
		)
	}
	if hidden := len(items) - len(shown); hidden > 0 {
		b.WriteString(Dim(fmt.Sprintf("… %d older", hidden)) + "\n")
	}
	return b.String()
}
