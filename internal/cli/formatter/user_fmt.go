package formatter

import (
	"strconv"

	"github.com/alexanderramin/dealflow/internal/domain"
)

// FormatUserList renders the admin user table.
func FormatUserList(users []domain.User) string {
	if len(users) == 0 {
		return Dim("No users.") + "\n"
	}
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		active := StyleGreen.Render("yes")
		if !u.IsActive {
			active = StyleRed.Render("no")
		}
		rows = append(rows, []string{
			StyleGreen.Render("#" + strconv.FormatInt(u.ID, 10)),
			Bold(u.DisplayName()),
			u.Email,
			RoleBadge(u.Role),
			active,
		})
	}
	return RenderTable([]string{"ID", "NAME", "EMAIL", "ROLE", "ACTIVE"}, rows)
}

// UserBadge is the signed-in user shown in the TUI header, e.g. "(A) Ada [admin]".
func UserBadge(u *domain.User) string {
	if u == nil {
		return Dim("signed out")
	}
	return StylePurple.Render("("+u.Initial()+")") + " " + u.DisplayName() + " " + RoleBadge(u.Role)
}
