package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/Tech-Applywizz-git-account/only-ai-service-folder-autofill-extesnion/config"
)

// OpenAIModel talks to any OpenAI-compatible chat completion endpoint.
type OpenAIModel struct {
	client    openai.Client
	model     string
	maxTokens int64
}

// NewOpenAIModel 创建 OpenAI 兼容客户端
func NewOpenAIModel(cfg *config.Config) *OpenAIModel {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.AIAPIKey),
		// one attempt per question; the caller repairs instead of waiting on retries
		option.WithMaxRetries(0),
	}
	if cfg.AIEndpoint != "" {
		opts = append(opts, option.WithBaseURL(cfg.AIEndpoint))
	}

	return &OpenAIModel{
		client:    openai.NewClient(opts...),
		model:     cfg.AIModel,
		maxTokens: int64(cfg.MaxNewTokens),
	}
}

// Complete sends prompt as a single user message.
func (m *OpenAIModel) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := m.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(m.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxTokens:   openai.Int(m.maxTokens),
		Temperature: openai.Float(0.7),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (m *OpenAIModel) Name() string { return "openai:" + m.model }
