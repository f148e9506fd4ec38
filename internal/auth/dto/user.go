package dto

import (
	"time"

	"github.com/Mollylil16/developpement-farm-sub012/internal/auth/domain"
)

// UserOutput is the sanitized profile shape. It never carries the password
// hash.
type UserOutput struct {
	ID             string     `json:"id"`
	Email          string     `json:"email,omitempty"`
	Telephone      string     `json:"telephone,omitempty"`
	FirstName      string     `json:"prenom,omitempty"`
	LastName       string     `json:"nom,omitempty"`
	Provider       string     `json:"provider,omitempty"`
	Roles          []string   `json:"roles"`
	LastConnection *time.Time `json:"last_connection,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type TokenResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token,omitempty"`
	ExpiresIn    int64       `json:"expires_in"`
	User         *UserOutput `json:"user,omitempty"`
}

func NewUserOutput(u *domain.User) *UserOutput {
	if u == nil {
		return nil
	}

	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}

	return &UserOutput{
		ID:             u.ID,
		Email:          u.Email,
		Telephone:      u.Telephone,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Provider:       u.Provider,
		Roles:          roles,
		LastConnection: u.LastConnection,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}
