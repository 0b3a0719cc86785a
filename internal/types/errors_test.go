package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoaderError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *LoaderError
		want string
	}{
		{
			name: "without cause",
			err:  NewError(CONFIG_MISSING_KEY, "neo4j password not set"),
			want: "[CONFIG_MISSING_KEY] neo4j password not set",
		},
		{
			name: "with cause",
			err:  WrapError(SOURCE_READ_FAILED, "cannot read auth log", errors.New("permission denied")),
			want: "[SOURCE_READ_FAILED] cannot read auth log: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestLoaderError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapError(EXTRACT_CALL_FAILED, "extraction failed", cause)

	require.ErrorIs(t, err, cause)
	assert.Equal(t, cause, err.Unwrap())
}

func TestLoaderError_Is_MatchesByCode(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewError(CONFIG_VALIDATION_FAILED, "bad chunk size"))

	assert.True(t, errors.Is(err, NewError(CONFIG_VALIDATION_FAILED, "different message")))
	assert.False(t, errors.Is(err, NewError(CONFIG_LOAD_FAILED, "different code")))
}

func TestNewRetryableError(t *testing.T) {
	err := NewRetryableError(EXTRACT_CALL_FAILED, "llm timeout")

	assert.True(t, err.Retryable)
	assert.Equal(t, EXTRACT_CALL_FAILED, err.Code)
}
