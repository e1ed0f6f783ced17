package server

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

type RegisterInput struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

func (i RegisterInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Email, validation.Required, is.Email),
		validation.Field(&i.Username, validation.Required, validation.Length(2, 64)),
		validation.Field(&i.Password, validation.Required, validation.Length(8, 128)),
	)
}

type LoginInput struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

func (i LoginInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Identifier, validation.Required),
		validation.Field(&i.Password, validation.Required),
	)
}

type RefreshInput struct {
	RefreshToken string `json:"refresh_token"`
}

func (i RefreshInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.RefreshToken, validation.Required),
	)
}

type EmailInput struct {
	Email string `json:"email"`
}

func (i EmailInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Email, validation.Required, is.Email),
	)
}

type ResetPasswordInput struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

func (i ResetPasswordInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Token, validation.Required),
		validation.Field(&i.NewPassword, validation.Required, validation.Length(8, 128)),
	)
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (i ChangePasswordInput) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.CurrentPassword, validation.Required),
		validation.Field(&i.NewPassword, validation.Required, validation.Length(8, 128)),
	)
}
