package server_test

import (
	"testing"

	"github.com/lockplane/authfile/server"
	"github.com/stretchr/testify/assert"
)

func TestRegisterInputValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   server.RegisterInput
		wantErr bool
	}{
		{
			name: "valid",
			input: server.RegisterInput{
				Email:    "user@example.com",
				Username: "user",
				Password: "long-enough-password",
			},
			wantErr: false,
		},
		{
			name: "bad email",
			input: server.RegisterInput{
				Email:    "not-an-email",
				Username: "user",
				Password: "long-enough-password",
			},
			wantErr: true,
		},
		{
			name: "short password",
			input: server.RegisterInput{
				Email:    "user@example.com",
				Username: "user",
				Password: "short",
			},
			wantErr: true,
		},
		{
			name:    "all empty",
			input:   server.RegisterInput{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestPasswordInputsRequireMinimumLength(t *testing.T) {
	assert.Error(t, server.ResetPasswordInput{Token: "tok", NewPassword: "short"}.Validate())
	assert.NoError(t, server.ResetPasswordInput{Token: "tok", NewPassword: "long-enough-password"}.Validate())

	assert.Error(t, server.ChangePasswordInput{CurrentPassword: "old", NewPassword: "short"}.Validate())
	assert.NoError(t, server.ChangePasswordInput{CurrentPassword: "old", NewPassword: "long-enough-password"}.Validate())
}
