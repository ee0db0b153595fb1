package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePasswordPolicy(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{
			name:     "valid password",
			password: "correct horse battery",
			wantErr:  nil,
		},
		{
			name:     "minimum length boundary",
			password: "abcdefghijk1",
			wantErr:  nil,
		},
		{
			name:     "too short",
			password: "short1",
			wantErr:  ErrPasswordTooShort,
		},
		{
			name:     "empty",
			password: "",
			wantErr:  ErrPasswordTooShort,
		},
		{
			name:     "too long for bcrypt",
			password: string(make([]byte, 73)),
			wantErr:  ErrPasswordTooLong,
		},
		{
			name:     "entirely numeric",
			password: "123456789012345",
			wantErr:  ErrPasswordAllNumeric,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePasswordPolicy(tt.password)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	password := "my secure password 42"

	hash, err := HashPassword(password, 4)
	require.NoError(t, err)
	assert.NotEqual(t, password, hash)

	assert.NoError(t, CheckPassword(password, hash))
	assert.ErrorIs(t, CheckPassword("wrong password here", hash), ErrInvalidPassword)
}

func TestHashPassword_RejectsPolicyViolations(t *testing.T) {
	_, err := HashPassword("short", 4)
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestGenerateVerificationToken(t *testing.T) {
	plaintext, hash, err := GenerateVerificationToken()
	require.NoError(t, err)

	// 32 random bytes, hex-encoded
	assert.Len(t, plaintext, 64)
	assert.Equal(t, HashToken(plaintext), hash)
	assert.NotEqual(t, plaintext, hash)

	// Tokens must not repeat
	second, _, err := GenerateVerificationToken()
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, second)
}
