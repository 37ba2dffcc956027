package cli

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/alexanderramin/dealflow/internal/cli/formatter"
	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// dealflowHuhTheme returns a huh theme matching the gruvbox palette.
func dealflowHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func validateOptionalURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	u, err := url.ParseRequestURI(s)
	if err != nil || u.Host == "" {
		return fmt.Errorf("enter a full URL such as https://example.com")
	}
	return nil
}

func validateCheckSize(s string) error {
	_, err := parseCheckSize(s)
	return err
}

// parseCheckSize reads an optional non-negative amount. Blank or "none"
// clears it; thousands separators and a leading "$" are accepted.
func parseCheckSize(s string) (decimal.NullDecimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	s = strings.TrimPrefix(s, "$")
	if s == "" || strings.EqualFold(s, "none") {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("check size %q is not a number", s)
	}
	if d.IsNegative() {
		return decimal.NullDecimal{}, fmt.Errorf("check size must not be negative")
	}
	return decimal.NewNullDecimal(d.Round(2)), nil
}

func stageOptions() []huh.Option[domain.Stage] {
	opts := make([]huh.Option[domain.Stage], 0, len(domain.Stages()))
	for _, s := range domain.Stages() {
		opts = append(opts, huh.NewOption(s.Label(), s))
	}
	return opts
}

func statusOptions() []huh.Option[domain.DealStatus] {
	statuses := []domain.DealStatus{domain.DealActive, domain.DealArchived, domain.DealApproved, domain.DealDeclined}
	opts := make([]huh.Option[domain.DealStatus], 0, len(statuses))
	for _, s := range statuses {
		opts = append(opts, huh.NewOption(string(s), s))
	}
	return opts
}

func roleOptions() []huh.Option[domain.Role] {
	opts := make([]huh.Option[domain.Role], 0, len(domain.Roles()))
	for _, r := range domain.Roles() {
		opts = append(opts, huh.NewOption(string(r), r))
	}
	return opts
}
