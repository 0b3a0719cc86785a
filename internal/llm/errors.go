package llm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rrbanda/dataloader/internal/types"
)

const (
	ErrProviderInitFailed   types.ErrorCode = "LLM_PROVIDER_INIT_FAILED"
	ErrProviderUnavailable  types.ErrorCode = "LLM_PROVIDER_UNAVAILABLE"
	ErrProviderUnauthorized types.ErrorCode = "LLM_PROVIDER_UNAUTHORIZED"
	ErrProviderRateLimited  types.ErrorCode = "LLM_PROVIDER_RATE_LIMITED"
	ErrCompletionFailed     types.ErrorCode = "LLM_COMPLETION_FAILED"
	ErrTimeoutExceeded      types.ErrorCode = "LLM_TIMEOUT_EXCEEDED"
	ErrNetworkFailed        types.ErrorCode = "LLM_NETWORK_FAILED"
)

// TranslateError maps generic client errors onto the loader error taxonomy
// based on message content, so callers can branch on code instead of
// scraping strings themselves.
func TranslateError(provider string, err error) error {
	if err == nil {
		return nil
	}

	var loaderErr *types.LoaderError
	if errors.As(err, &loaderErr) {
		return err
	}

	lowerMsg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(lowerMsg, "unauthorized") || strings.Contains(lowerMsg, "authentication") || strings.Contains(lowerMsg, "api key"):
		return types.WrapError(ErrProviderUnauthorized,
			fmt.Sprintf("provider %q authentication failed", provider), err)
	case strings.Contains(lowerMsg, "rate limit") || strings.Contains(lowerMsg, "too many requests"):
		return types.WrapRetryableError(ErrProviderRateLimited,
			fmt.Sprintf("provider %q rate limited", provider), err)
	case strings.Contains(lowerMsg, "timeout") || strings.Contains(lowerMsg, "deadline"):
		return types.WrapRetryableError(ErrTimeoutExceeded,
			fmt.Sprintf("provider %q request timed out", provider), err)
	case strings.Contains(lowerMsg, "network") || strings.Contains(lowerMsg, "connection"):
		return types.WrapRetryableError(ErrNetworkFailed,
			fmt.Sprintf("provider %q network failure", provider), err)
	default:
		return types.WrapError(ErrCompletionFailed,
			fmt.Sprintf("provider %q completion failed", provider), err)
	}
}
