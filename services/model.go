package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Tech-Applywizz-git-account/only-ai-service-folder-autofill-extesnion/config"
	"github.com/Tech-Applywizz-git-account/only-ai-service-folder-autofill-extesnion/utils"
)

// ErrModelUnavailable means no model can be asked at all, usually missing credentials.
var ErrModelUnavailable = errors.New("AI credentials missing")

// AnswerModel is the hosted language model asked when pattern memory has no answer.
// Complete returns the model's raw text.
type AnswerModel interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Name() string
}

// NewAnswerModel 根据配置创建模型客户端. Without an API key the returned model
// always fails with ErrModelUnavailable, so the service still starts and answers
// from memory and repair text.
func NewAnswerModel(ctx context.Context, cfg *config.Config, log *utils.Logger) (AnswerModel, error) {
	log.Info("answer model config",
		"provider", cfg.AIProvider,
		"model", cfg.AIModel,
		"endpoint", cfg.AIEndpoint,
		"api_key", cfg.AIAPIKey,
		"timeout", cfg.AITimeout,
	)

	if cfg.AIAPIKey == "" {
		log.Warn("AI_API_KEY not set, predictions will use fallback answers")
		return unavailableModel{}, nil
	}

	switch cfg.AIProvider {
	case config.ProviderOpenAI:
		return NewOpenAIModel(cfg), nil
	case config.ProviderGemini:
		m, err := NewGeminiModel(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("create gemini client: %w", err)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.AIProvider)
	}
}

type unavailableModel struct{}

func (unavailableModel) Complete(context.Context, string) (string, error) {
	return "", ErrModelUnavailable
}

func (unavailableModel) Name() string { return "unavailable" }
