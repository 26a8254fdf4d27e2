package model

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

var orcidPattern = regexp.MustCompile(`^\d{4}-\d{4}-\d{4}-\d{3}[\dX]$`)

// =====================================================
// REQUEST DTOs
// =====================================================

type RegisterRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
}

func (r *RegisterRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 72)),
		validation.Field(&r.GivenName, validation.Required, validation.Length(1, 150)),
		validation.Field(&r.FamilyName, validation.Required, validation.Length(1, 150)),
	)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r *RefreshRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.RefreshToken, validation.Required),
	)
}

type UpdateProfileRequest struct {
	GivenName   *string `json:"given_name"`
	FamilyName  *string `json:"family_name"`
	OrcidID     *string `json:"orcid_id"`
	Institution *string `json:"institution"`
	Department  *string `json:"department"`
	Country     *string `json:"country"`
}

func (r *UpdateProfileRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.GivenName, validation.Length(1, 150)),
		validation.Field(&r.FamilyName, validation.Length(1, 150)),
		validation.Field(&r.OrcidID, validation.Match(orcidPattern).Error("must be a valid ORCID iD")),
		validation.Field(&r.Institution, validation.Length(1, 300)),
	)
}

// =====================================================
// RESPONSE DTOs
// =====================================================

type AuthResponse struct {
	User         *User  `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
