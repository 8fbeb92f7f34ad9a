package services

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/Tech-Applywizz-git-account/only-ai-service-folder-autofill-extesnion/config"
)

// GeminiModel asks a Gemini model through the Gemini API backend.
type GeminiModel struct {
	client    *genai.Client
	model     string
	maxTokens int32
}

// NewGeminiModel 创建 Gemini 客户端
func NewGeminiModel(ctx context.Context, cfg *config.Config) (*GeminiModel, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.AIAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiModel{
		client:    client,
		model:     cfg.AIModel,
		maxTokens: int32(cfg.MaxNewTokens),
	}, nil
}

// Complete sends prompt as a single user turn and returns the concatenated text parts.
func (m *GeminiModel) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := m.client.Models.GenerateContent(ctx, m.model, genai.Text(prompt), &genai.GenerateContentConfig{
		MaxOutputTokens: m.maxTokens,
		Temperature:     genai.Ptr[float32](0.7),
	})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return strings.TrimSpace(resp.Text()), nil
}

func (m *GeminiModel) Name() string { return "gemini:" + m.model }
