package service

import "github.com/alexanderramin/dealflow/internal/domain"

// Session exposes the signed-in user to the components it gates.
type Session interface {
	CurrentUser() *domain.User
}

func roleOf(s Session) domain.Role {
	if s == nil {
		return ""
	}
	if u := s.CurrentUser(); u != nil {
		return u.Role
	}
	return ""
}
