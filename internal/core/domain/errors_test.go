package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnknownPlatform", ErrUnknownPlatform},
		{"ErrAuthInProgress", ErrAuthInProgress},
		{"ErrNoPortAvailable", ErrNoPortAvailable},
		{"ErrNotBound", ErrNotBound},
		{"ErrNotLoggedIn", ErrNotLoggedIn},
		{"ErrRefreshFailed", ErrRefreshFailed},
		{"ErrStateMismatch", ErrStateMismatch},
		{"ErrAccessDenied", ErrAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestConfigError_MultiLine(t *testing.T) {
	err := &ConfigError{
		Path: "config.json",
		Problems: []FieldProblem{
			{Platform: PlatformSpotify, Field: "client_id", Message: "must be 32 lowercase hex characters"},
			{Platform: PlatformOsu, Field: "client_secret", Message: "must be at least 40 characters"},
		},
	}

	msg := err.Error()
	assert.Contains(t, msg, "\n  - spotify.client_id: must be 32 lowercase hex characters")
	assert.Contains(t, msg, "\n  - osu.client_secret: must be at least 40 characters")
	assert.True(t, err.HasProblem(PlatformSpotify, "client_id"))
	assert.False(t, err.HasProblem(PlatformSpotify, "client_secret"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestConfigError_WrapsReadFailure(t *testing.T) {
	cause := errors.New("permission denied")
	err := &ConfigError{Path: "config.json", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "config config.json: permission denied", err.Error())
}

func TestBindError_Unwrap(t *testing.T) {
	err := fmt.Errorf("start: %w", &BindError{Ports: []int{8888, 8889}, Err: ErrNoPortAvailable})

	var bindErr *BindError
	assert.ErrorAs(t, err, &bindErr)
	assert.Equal(t, []int{8888, 8889}, bindErr.Ports)
	assert.ErrorIs(t, err, ErrNoPortAvailable)
}

func TestCallbackError_Messages(t *testing.T) {
	assert.Contains(t, (&CallbackError{Kind: CallbackTimedOut}).Error(), "timeout")
	assert.Contains(t, (&CallbackError{Kind: CallbackCancelled}).Error(), "cancelled")
	assert.Contains(t, (&CallbackError{Kind: CallbackMalformed, Err: errors.New("empty request line")}).Error(),
		"empty request line")
}

func TestExchangeError_RejectedCarriesBody(t *testing.T) {
	err := &ExchangeError{Kind: ExchangeRejected, Status: 400, Body: `{"error":"invalid_grant"}`}

	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "invalid_grant")
}

func TestAuthError_Is(t *testing.T) {
	err := &AuthError{Platform: PlatformOsu, Err: ErrRefreshFailed, Reason: "status 401"}

	assert.ErrorIs(t, err, ErrRefreshFailed)
	assert.False(t, errors.Is(err, ErrNotLoggedIn))
	assert.Equal(t, "osu: token refresh failed: status 401", err.Error())
}

func TestStorageError_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := &StorageError{Op: "write", Path: "/tmp/login_info.json", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "write")
}
