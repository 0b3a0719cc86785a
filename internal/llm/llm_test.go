package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rrbanda/dataloader/internal/types"
)

func TestExtractJSON_FromCodeBlock(t *testing.T) {
	response := "Here is the graph:\n```json\n{\"nodes\": [{\"id\": \"web-01\"}]}\n```\nDone."

	jsonStr, err := ExtractJSON(response)
	require.NoError(t, err)
	assert.JSONEq(t, `{"nodes": [{"id": "web-01"}]}`, jsonStr)
}

func TestExtractJSON_FromUntaggedCodeBlock(t *testing.T) {
	response := "```\n{\"ok\": true}\n```"

	jsonStr, err := ExtractJSON(response)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok": true}`, jsonStr)
}

func TestExtractJSON_SkipsNonJSONCodeBlocks(t *testing.T) {
	response := "```python\nprint('hi')\n```\nThe result: {\"nodes\": []}"

	jsonStr, err := ExtractJSON(response)
	require.NoError(t, err)
	assert.JSONEq(t, `{"nodes": []}`, jsonStr)
}

func TestExtractJSON_RawWithNesting(t *testing.T) {
	response := `The extraction found {"a": {"b": "}"}, "c": [1, 2]} among other things`

	jsonStr, err := ExtractJSON(response)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a": {"b": "}"}, "c": [1, 2]}`, jsonStr)
}

func TestExtractJSON_NoJSON(t *testing.T) {
	_, err := ExtractJSON("no structured content here")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.NewError(types.EXTRACT_PARSE_FAILED, ""))
}

func TestExtractJSONAs(t *testing.T) {
	type doc struct {
		Nodes []struct {
			ID string `json:"id"`
		} `json:"nodes"`
	}

	result, err := ExtractJSONAs[doc]("```json\n{\"nodes\": [{\"id\": \"web-01\"}]}\n```")
	require.NoError(t, err)
	require.Len(t, result.Nodes, 1)
	assert.Equal(t, "web-01", result.Nodes[0].ID)
}

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCode  types.ErrorCode
		retryable bool
	}{
		{"auth", errors.New("401 unauthorized: invalid api key"), ErrProviderUnauthorized, false},
		{"rate limit", errors.New("429 too many requests"), ErrProviderRateLimited, true},
		{"timeout", errors.New("context deadline exceeded"), ErrTimeoutExceeded, true},
		{"network", errors.New("connection refused"), ErrNetworkFailed, true},
		{"other", errors.New("model exploded"), ErrCompletionFailed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := TranslateError("openai", tt.err)
			require.Error(t, err)

			var loaderErr *types.LoaderError
			require.ErrorAs(t, err, &loaderErr)
			assert.Equal(t, tt.wantCode, loaderErr.Code)
			assert.Equal(t, tt.retryable, loaderErr.Retryable)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestTranslateError_PassesThroughLoaderErrors(t *testing.T) {
	original := types.NewError(types.EXTRACT_CALL_FAILED, "already translated")
	assert.Same(t, error(original), TranslateError("openai", original))
}

func TestTranslateError_NilIsNil(t *testing.T) {
	assert.NoError(t, TranslateError("openai", nil))
}

func TestMockProvider_ReturnsResponsesInOrder(t *testing.T) {
	mock := NewMockProvider("first", "second")

	resp, err := mock.Complete(context.Background(), CompletionRequest{})
	require.NoError(t, err)
	assert.Equal(t, "first", resp.Content)

	resp, err = mock.Complete(context.Background(), CompletionRequest{})
	require.NoError(t, err)
	assert.Equal(t, "second", resp.Content)

	// Last response repeats.
	resp, err = mock.Complete(context.Background(), CompletionRequest{})
	require.NoError(t, err)
	assert.Equal(t, "second", resp.Content)

	assert.Len(t, mock.Calls(), 3)
}

func TestMockProvider_Failing(t *testing.T) {
	boom := errors.New("boom")
	mock := NewFailingMockProvider(boom)

	_, err := mock.Complete(context.Background(), CompletionRequest{})
	assert.ErrorIs(t, err, boom)
	assert.True(t, mock.Health(context.Background()).IsUnhealthy())
}

func TestNewOpenAIProvider_RequiresAPIKey(t *testing.T) {
	_, err := NewOpenAIProvider(ProviderConfig{Model: "gpt-4"})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.NewError(ErrProviderUnauthorized, ""))
}
