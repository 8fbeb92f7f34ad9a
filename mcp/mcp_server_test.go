package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tech-Applywizz-git-account/only-ai-service-folder-autofill-extesnion/db"
	"github.com/Tech-Applywizz-git-account/only-ai-service-folder-autofill-extesnion/models"
	"github.com/Tech-Applywizz-git-account/only-ai-service-folder-autofill-extesnion/services"
)

type cannedModel struct{ reply string }

func (m cannedModel) Complete(context.Context, string) (string, error) { return m.reply, nil }
func (m cannedModel) Name() string { return "canned" }

type allowAll struct{}

func (allowAll) IsShareable(string) bool { return true }
func (allowAll) Redact(*models.Pattern) {}

func newTestServer(t *testing.T, seed ...models.Pattern) *MCPServer {
	t.Helper()
	store := db.NewPatternStore(db.NewMemoryBackend(seed...), allowAll{}, 0.7, nil)
	model := cannedModel{reply: `{"answer":"Yes","confidence":0.9,"reasoning":"profile says so","intent":"workAuthorization.authorizedUS"}`}
	answers := services.NewAnswerService(store, services.NewPredictor(model, 0, nil), 0.95, 0.70, nil)
	return NewMCPServer(answers, store, "test")
}

func callRequest(t *testing.T, name string, args map[string]any) mcp.CallToolRequest {
	t.Helper()
	raw, err := json.Marshal(map[string]any{
		"method": "tools/call",
		"params": map[string]any{"name": name, "arguments": args},
	})
	require.NoError(t, err)

	var req mcp.CallToolRequest
	require.NoError(t, json.Unmarshal(raw, &req))
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text
}

func TestFormatPatterns(t *testing.T) {
	tests := []struct {
		name     string
		patterns []models.Pattern
		title    string
		contains []string
	}{
		{
			name:     "Empty patterns",
			patterns: nil,
			title:    "Nothing",
			contains: []string{"# Nothing", "No patterns found"},
		},
		{
			name: "Single pattern",
			patterns: []models.Pattern{{
				QuestionPattern: "what is your gender?",
				Intent:          "eeo.gender",
				UsageCount:      3,
				AnswerMappings:  []models.AnswerMapping{{CanonicalValue: "Female", Variants: []string{"Female"}}},
			}},
			title: "One",
			contains: []string{
				"# One",
				"1 patterns",
				"## what is your gender?",
				"**Intent**: eeo.gender",
				"**Answer**: Female",
				"**Used**: 3",
			},
		},
		{
			name: "Pattern without answer",
			patterns: []models.Pattern{
				{QuestionPattern: "first name", Intent: "personal.firstName", UsageCount: 1},
				{QuestionPattern: "last name", Intent: "personal.lastName", UsageCount: 1},
			},
			title:    "Two",
			contains: []string{"2 patterns", "## first name", "## last name"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := formatPatterns(tt.patterns, tt.title)
			for _, expected := range tt.contains {
				assert.Contains(t, result, expected)
			}
		})
	}

	assert.NotContains(t, formatPatterns([]models.Pattern{{QuestionPattern: "first name", Intent: "personal.firstName"}}, "x"), "**Answer**")
}

func TestFormatStats(t *testing.T) {
	stats := models.PatternStats{
		TotalPatterns:   3,
		IntentBreakdown: map[string]int{"eeo.race": 1, "eeo.gender": 2},
		TopPatterns: []models.Pattern{
			{QuestionPattern: "gender", Intent: "eeo.gender", UsageCount: 7},
		},
	}

	result := formatStats(stats)
	assert.Contains(t, result, "Total patterns: 3")
	assert.Contains(t, result, "- eeo.gender: 2\n- eeo.race: 1")
	assert.Contains(t, result, "1. gender (eeo.gender, 7 uses)")

	empty := formatStats(models.PatternStats{})
	assert.Contains(t, empty, "Total patterns: 0")
	assert.NotContains(t, empty, "By intent")
}

func TestPredictAnswerTool(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handlePredictAnswer(context.Background(), callRequest(t, "predict_answer", map[string]any{
		"question": "Are you legally authorized to work in the US?",
		"options":  []string{"Yes", "No"},
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	text := resultText(t, res)
	assert.Contains(t, text, "**Answer**: Yes")
	assert.Contains(t, text, "workAuthorization.authorizedUS")
}

func TestPredictAnswerToolRequiresQuestion(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handlePredictAnswer(context.Background(), callRequest(t, "predict_answer", map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestSearchPatternsTool(t *testing.T) {
	s := newTestServer(t, models.Pattern{
		ID:              "pattern_1",
		QuestionPattern: "what is your email",
		Intent:          "personal.email",
		UsageCount:      1,
	})

	res, err := s.handleSearchPatterns(context.Background(), callRequest(t, "search_patterns", map[string]any{
		"query": "What's your email?",
	}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), "## what is your email")

	res, err = s.handleSearchPatterns(context.Background(), callRequest(t, "search_patterns", map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestListIntentsTool(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleListIntents(context.Background(), callRequest(t, "list_intents", nil))
	require.NoError(t, err)
	text := resultText(t, res)
	assert.Contains(t, text, "experience.whyFit")
	assert.Contains(t, text, "unknown")
}
