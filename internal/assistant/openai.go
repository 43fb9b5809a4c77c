package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"go.uber.org/zap"

	"github.com/noah-isme/program-workboard-api/pkg/config"
)

const defaultModel = "gpt-4o-mini"

// OpenAIProvider talks to the chat completions API.
type OpenAIProvider struct {
	client openai.Client
	model  string
	logger *zap.Logger
}

// NewOpenAIProvider builds a provider from configuration. Extra request options are appended
// after the configured ones.
func NewOpenAIProvider(cfg config.AssistantConfig, logger *zap.Logger, extra ...option.RequestOption) *OpenAIProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := []option.RequestOption{option.WithAPIKey(strings.TrimSpace(cfg.APIKey))}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	opts = append(opts, extra...)

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	return &OpenAIProvider{
		client: openai.NewClient(opts...),
		model:  model,
		logger: logger,
	}
}

// Complete sends the conversation and returns the first choice.
func (p *OpenAIProvider) Complete(ctx context.Context, messages []Message) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(p.model),
		Messages: make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)),
	}
	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			params.Messages = append(params.Messages, openai.SystemMessage(msg.Content))
		case RoleAssistant:
			params.Messages = append(params.Messages, openai.AssistantMessage(msg.Content))
		default:
			params.Messages = append(params.Messages, openai.UserMessage(msg.Content))
		}
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		p.logger.Warn("assistant completion failed", zap.String("model", p.model), zap.Error(err))
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyReply
	}
	p.logger.Debug("assistant completion succeeded", zap.String("model", p.model), zap.Int("messages", len(messages)))
	return resp.Choices[0].Message.Content, nil
}
