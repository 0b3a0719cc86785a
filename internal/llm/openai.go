package llm

import (
	"context"
	"net/http"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/rrbanda/dataloader/internal/types"
)

// OpenAIProvider implements Provider against any OpenAI-compatible
// completion endpoint, which covers hosted OpenAI, vLLM, and Ollama's
// compatibility layer.
type OpenAIProvider struct {
	client *openai.LLM
	config ProviderConfig
}

// NewOpenAIProvider creates a provider from resolved configuration.
func NewOpenAIProvider(cfg ProviderConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, types.NewError(ErrProviderUnauthorized, "openai api key is empty")
	}

	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
	}
	if cfg.Model != "" {
		opts = append(opts, openai.WithModel(cfg.Model))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, openai.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, types.WrapError(ErrProviderInitFailed, "failed to initialize openai client", err)
	}

	return &OpenAIProvider{client: client, config: cfg}, nil
}

func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Complete sends a blocking completion request.
func (p *OpenAIProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	messages := toLangchainMessages(req.Messages)

	callOpts := []llms.CallOption{
		llms.WithTemperature(req.Temperature),
	}
	if req.MaxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(req.MaxTokens))
	}
	if req.Model != "" {
		callOpts = append(callOpts, llms.WithModel(req.Model))
	}

	resp, err := p.client.GenerateContent(ctx, messages, callOpts...)
	if err != nil {
		return nil, TranslateError(p.Name(), err)
	}
	return fromLangchainResponse(resp, p.config.Model), nil
}

// Health probes the endpoint with a minimal completion.
func (p *OpenAIProvider) Health(ctx context.Context) types.HealthStatus {
	_, err := p.client.GenerateContent(ctx,
		toLangchainMessages([]Message{{Role: RoleUser, Content: "ping"}}),
		llms.WithMaxTokens(1))
	if err != nil {
		return types.Unhealthy("openai completion endpoint unreachable: " + err.Error())
	}
	return types.Healthy("openai completion endpoint responding")
}

// toLangchainMessages converts pipeline messages to langchaingo content.
func toLangchainMessages(messages []Message) []llms.MessageContent {
	result := make([]llms.MessageContent, 0, len(messages))
	for _, msg := range messages {
		role := llms.ChatMessageTypeHuman
		switch msg.Role {
		case RoleSystem:
			role = llms.ChatMessageTypeSystem
		case RoleAssistant:
			role = llms.ChatMessageTypeAI
		}
		result = append(result, llms.MessageContent{
			Role:  role,
			Parts: []llms.ContentPart{llms.TextPart(msg.Content)},
		})
	}
	return result
}

// fromLangchainResponse flattens a langchaingo response into a
// CompletionResponse.
func fromLangchainResponse(resp *llms.ContentResponse, model string) *CompletionResponse {
	out := &CompletionResponse{Model: model}
	if len(resp.Choices) == 0 {
		return out
	}

	choice := resp.Choices[0]
	out.Content = choice.Content
	out.StopReason = choice.StopReason

	if in, ok := choice.GenerationInfo["PromptTokens"].(int); ok {
		out.InputTokens = in
	}
	if o, ok := choice.GenerationInfo["CompletionTokens"].(int); ok {
		out.OutputTokens = o
	}
	return out
}
