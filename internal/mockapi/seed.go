package mockapi

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/dealflow/internal/domain"
)

// SeedUser registers an active account. Emails are unique.
func (s *Server) SeedUser(in domain.UserCreate) (domain.User, error) {
	hash, err := hashPassword(in.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("hashing password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.st.userByEmail(in.Email) != nil {
		return domain.User{}, errors.New("email already registered")
	}
	rec := &userRecord{
		User: domain.User{
			ID:        s.st.id(),
			Email:     in.Email,
			FullName:  in.FullName,
			Role:      in.Role,
			IsActive:  true,
			CreatedAt: s.now(),
		},
		passwordHash: hash,
	}
	s.st.users[rec.ID] = rec
	return rec.User, nil
}

// SeedDeal stores d as-is, assigning an ID and creation time when unset.
func (s *Server) SeedDeal(d domain.Deal) domain.Deal {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d.ID == 0 {
		d.ID = s.st.id()
	} else if d.ID > s.st.nextID {
		s.st.nextID = d.ID
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = s.now()
	}
	if d.Status == "" {
		d.Status = domain.DealActive
	}
	stored := d
	s.st.deals[d.ID] = &stored
	return d
}

// TokenFor mints a bearer token for an existing user.
func (s *Server) TokenFor(userID int64) (string, error) {
	return s.issueToken(userID)
}

// Deal returns the server's copy of a deal.
func (s *Server) Deal(id int64) (domain.Deal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.st.deals[id]
	if !ok {
		return domain.Deal{}, false
	}
	return *d, true
}

// SeedDemo loads one account per role and a handful of deals so a fresh
// stand-in is immediately usable. All demo passwords are "password".
func (s *Server) SeedDemo() error {
	accounts := []domain.UserCreate{
		{Email: "admin@dealflow.dev", Password: "password", Role: domain.RoleAdmin, FullName: "Ada Admin"},
		{Email: "analyst@dealflow.dev", Password: "password", Role: domain.RoleAnalyst, FullName: "Andy Analyst"},
		{Email: "partner@dealflow.dev", Password: "password", Role: domain.RolePartner, FullName: "Pat Partner"},
	}
	var owner int64
	for _, a := range accounts {
		u, err := s.SeedUser(a)
		if err != nil {
			return fmt.Errorf("seeding %s: %w", a.Email, err)
		}
		if a.Role == domain.RoleAnalyst {
			owner = u.ID
		}
	}

	deals := []domain.Deal{
		{Name: "Acme Robotics", CompanyURL: "https://acme.example", Stage: domain.StageSourced, Round: "Seed"},
		{Name: "Northwind Data", CompanyURL: "https://northwind.example", Stage: domain.StageScreen, Round: "Series A"},
		{Name: "Blue Harbor Bio", Stage: domain.StageDiligence, Round: "Series B"},
		{Name: "Quill Payments", Stage: domain.StageIC, Round: "Seed"},
		{Name: "Lumen Grid", Stage: domain.StageInvested, Round: "Series A"},
	}
	for _, d := range deals {
		d.OwnerID = owner
		s.SeedDeal(d)
	}
	return nil
}
