package model

import (
	"time"

	"github.com/google/uuid"
)

// =====================================================
// ENTITY: User
// =====================================================

// User is a registered account. The role decides which parts of the
// editorial workflow the account may touch.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`

	GivenName  string  `json:"given_name"`
	FamilyName string  `json:"family_name"`
	OrcidID    *string `json:"orcid_id,omitempty"`

	Institution *string `json:"institution,omitempty"`
	Department  *string `json:"department,omitempty"`
	Country     *string `json:"country,omitempty"`

	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullName joins the name parts.
func (u *User) FullName() string {
	if u.GivenName == "" {
		return u.FamilyName
	}
	if u.FamilyName == "" {
		return u.GivenName
	}
	return u.GivenName + " " + u.FamilyName
}
