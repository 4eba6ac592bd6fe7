package cmd

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"basecamp-mcp/internal/auth"
)

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "general error",
			err:  errors.New("boom"),
			want: ExitCodeError,
		},
		{
			name: "authentication required",
			err:  fmt.Errorf("wrapped: %w", auth.ErrAuthenticationRequired),
			want: ExitCodeAuthRequired,
		},
		{
			name: "oauth flow failure",
			err:  &authFlowError{errors.New("state mismatch")},
			want: ExitCodeAuthFailed,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, getExitCode(tc.err))
		})
	}
}

func TestAuthFlowError_Unwrap(t *testing.T) {
	inner := errors.New("denied")
	err := &authFlowError{inner}
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "denied", err.Error())
}
