package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/dealflow/internal/domain"
)

// FormatMemo renders the six memo sections in display order. Blank sections
// show a dim placeholder so the layout stays stable.
func FormatMemo(s domain.MemoSections) string {
	var b strings.Builder
	for i, k := range domain.SectionKeys() {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(StyleHeader.Render(k.Label()) + "\n")
		body := strings.TrimSpace(s.Get(k))
		if body == "" {
			body = Dim("(empty)")
		}
		b.WriteString(Indent(body, "  ") + "\n")
	}
	return b.String()
}

// MemoBanner describes which memo state is on screen.
func MemoBanner(versionNumber int, editing bool) string {
	switch {
	case editing:
		return StyleYellow.Render("✎ Editing current memo")
	case versionNumber > 0:
		return StylePurple.Render(fmt.Sprintf("◷ Version %d (read-only)", versionNumber))
	default:
		return StyleGreen.Render("● Current memo")
	}
}

// FormatVersionList renders the memo history table, newest first.
func FormatVersionList(versions []domain.MemoVersion) string {
	if len(versions) == 0 {
		return Dim("No versions yet.") + "\n"
	}
	rows := make([][]string, 0, len(versions))
	for _, v := range versions {
		rows = append(rows, []string{
			StyleGreen.Render(fmt.Sprintf("v%d", v.VersionNumber)),
			fmt.Sprintf("user #%d", v.CreatedByID),
			v.CreatedAt.Format("Jan 2, 2006 15:04"),
			Dim(Truncate(firstLine(v.Summary), 40)),
		})
	}
	return RenderTable([]string{"VERSION", "AUTHOR", "SAVED", "SUMMARY"}, rows)
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
