package domain

import "time"

type User struct {
	ID        int64      `json:"id" yaml:"id"`
	Email     string     `json:"email" yaml:"email"`
	FullName  string     `json:"full_name" yaml:"full_name,omitempty"`
	Role      Role       `json:"role" yaml:"role"`
	IsActive  bool       `json:"is_active" yaml:"is_active"`
	CreatedAt time.Time  `json:"created_at" yaml:"created_at"`
	UpdatedAt *time.Time `json:"updated_at" yaml:"updated_at,omitempty"`
}

// DisplayName prefers the full name and falls back to the email address.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	switch {
	case u.FullName != "":
		return u.FullName
	case u.Email != "":
		return u.Email
	}
	return "unknown user"
}

// Initial returns the avatar letter shown next to the signed-in user.
func (u *User) Initial() string {
	name := u.DisplayName()
	if name == "" {
		return "U"
	}
	return string([]rune(name)[:1])
}

// UserCreate is the admin form payload for POST /users.
type UserCreate struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     Role   `json:"role" validate:"required,oneof=admin analyst partner"`
	FullName string `json:"full_name" validate:"required"`
}

// Credentials is the POST /users/login payload.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AccessToken is the login response.
type AccessToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// StoredToken is the only client state that survives a restart: the bearer
// token last issued by the API at BaseURL.
type StoredToken struct {
	BaseURL string
	Token   string
	SavedAt time.Time
}
