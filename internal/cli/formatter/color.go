package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorAqua   = lipgloss.Color("#689d6a")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleAqua   = lipgloss.NewStyle().Foreground(ColorAqua)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// StageStyle returns the accent used for a pipeline stage's column and badge.
func StageStyle(s domain.Stage) lipgloss.Style {
	switch s {
	case domain.StageSourced:
		return StyleBlue
	case domain.StageScreen:
		return StyleAqua
	case domain.StageDiligence:
		return StyleYellow
	case domain.StageIC:
		return StylePurple
	case domain.StageInvested:
		return StyleGreen
	case domain.StagePassed:
		return StyleDim
	default:
		return StyleFg
	}
}

// StageBadge renders the stage label in its accent color.
func StageBadge(s domain.Stage) string {
	return StageStyle(s).Render(s.Label())
}

// StatusPill returns a colored indicator such as "● Active".
func StatusPill(status domain.DealStatus) string {
	switch status {
	case domain.DealActive:
		return StyleGreen.Render("● Active")
	case domain.DealApproved:
		return StyleGreen.Render("✔ Approved")
	case domain.DealDeclined:
		return StyleRed.Render("✖ Declined")
	case domain.DealArchived:
		return StyleDim.Render("○ Archived")
	default:
		return StyleDim.Render(string(status))
	}
}

// RoleBadge renders a role in brackets, e.g. "[partner]".
func RoleBadge(r domain.Role) string {
	var style lipgloss.Style
	switch r {
	case domain.RoleAdmin:
		style = StyleRed
	case domain.RoleAnalyst:
		style = StyleBlue
	case domain.RolePartner:
		style = StylePurple
	default:
		style = StyleDim
	}
	return StyleDim.Render("[") + style.Render(string(r)) + StyleDim.Render("]")
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}

// Success prefixes text with a green check mark.
func Success(text string) string {
	return StyleGreen.Render("✔") + " " + text
}

// Failure renders an "Error: ..." line in red.
func Failure(err error) string {
	return StyleRed.Render("Error: " + err.Error())
}
