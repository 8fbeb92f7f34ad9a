package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Tech-Applywizz-git-account/only-ai-service-folder-autofill-extesnion/models"
	"github.com/Tech-Applywizz-git-account/only-ai-service-folder-autofill-extesnion/services"
	"github.com/Tech-Applywizz-git-account/only-ai-service-folder-autofill-extesnion/utils"
)

func (s *MCPServer) registerTools() {
	predictTool := mcp.NewTool("predict_answer",
		mcp.WithDescription("Answer a job application form question, from pattern memory when possible"),
		mcp.WithString("question",
			mcp.Required(),
			mcp.Description("The question or field label as shown on the form"),
		),
		mcp.WithArray("options",
			mcp.Description("Choices offered by the field; the answer will be one of them"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithString("field_type",
			mcp.Description("Field kind, e.g. text, radio, dropdown"),
		),
	)
	s.mcpServer.AddTool(predictTool, s.handlePredictAnswer)

	searchTool := mcp.NewTool("search_patterns",
		mcp.WithDescription("Look up the learned pattern for a question"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Question text"),
		),
	)
	s.mcpServer.AddTool(searchTool, s.handleSearchPatterns)

	statsTool := mcp.NewTool("pattern_stats",
		mcp.WithDescription("Pattern memory size, per-intent counts and most used patterns"),
	)
	s.mcpServer.AddTool(statsTool, s.handlePatternStats)

	intentsTool := mcp.NewTool("list_intents",
		mcp.WithDescription("The intents a question can be classified as"),
	)
	s.mcpServer.AddTool(intentsTool, s.handleListIntents)
}

func (s *MCPServer) handlePredictAnswer(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req := models.PredictionRequest{
		Question:  request.GetString("question", ""),
		Options:   request.GetStringSlice("options", nil),
		FieldType: request.GetString("field_type", ""),
	}
	if err := utils.ValidatePredictionRequest(&req); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resp := s.answers.Answer(ctx, &req)
	return mcp.NewToolResultText(formatPrediction(req.Question, resp)), nil
}

func (s *MCPServer) handleSearchPatterns(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := request.GetString("query", "")
	if strings.TrimSpace(query) == "" {
		return mcp.NewToolResultError("query parameter required"), nil
	}

	var matches []models.Pattern
	if hit, ok := s.store.Search(ctx, query); ok {
		matches = append(matches, *hit)
	}
	return mcp.NewToolResultText(formatPatterns(matches, fmt.Sprintf("Search: '%s'", query))), nil
}

func (s *MCPServer) handlePatternStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(formatStats(s.store.Stats(ctx))), nil
}

func (s *MCPServer) handleListIntents(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(strings.Join(services.AllowedIntents(), "\n")), nil
}
