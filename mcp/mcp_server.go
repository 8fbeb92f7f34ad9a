package mcp

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/server"

	"github.com/Tech-Applywizz-git-account/only-ai-service-folder-autofill-extesnion/db"
	"github.com/Tech-Applywizz-git-account/only-ai-service-folder-autofill-extesnion/models"
	"github.com/Tech-Applywizz-git-account/only-ai-service-folder-autofill-extesnion/services"
)

// MCPServer exposes answer prediction and pattern memory to MCP clients.
type MCPServer struct {
	answers   *services.AnswerService
	store     db.PatternRepository
	mcpServer *server.MCPServer
}

// NewMCPServer creates a new MCP server instance
func NewMCPServer(answers *services.AnswerService, store db.PatternRepository, version string) *MCPServer {
	s := &MCPServer{
		answers: answers,
		store:   store,
	}

	s.mcpServer = server.NewMCPServer(
		"ai-service",
		version,
		server.WithResourceCapabilities(true, false),
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s.registerTools()
	s.registerResources()

	return s
}

// Server returns the underlying MCP server
func (s *MCPServer) Server() *server.MCPServer {
	return s.mcpServer
}

// HTTPHandler serves streamable HTTP for a mount under /mcp/.
func (s *MCPServer) HTTPHandler() http.Handler {
	return http.StripPrefix("/mcp", server.NewStreamableHTTPServer(s.mcpServer))
}

// formatPatterns formats patterns as markdown
func formatPatterns(patterns []models.Pattern, title string) string {
	if len(patterns) == 0 {
		return fmt.Sprintf("# %s\n\nNo patterns found.", title)
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("# %s\n\n", title))
	result.WriteString(fmt.Sprintf("%d patterns\n", len(patterns)))

	for _, p := range patterns {
		result.WriteString(fmt.Sprintf("\n## %s\n", p.QuestionPattern))
		result.WriteString(fmt.Sprintf("- **Intent**: %s\n", p.Intent))
		if answer := p.Answer(); answer != "" {
			result.WriteString(fmt.Sprintf("- **Answer**: %s\n", answer))
		}
		result.WriteString(fmt.Sprintf("- **Used**: %d\n", p.UsageCount))
	}

	return result.String()
}

// formatStats formats pattern statistics as markdown
func formatStats(stats models.PatternStats) string {
	var result strings.Builder
	result.WriteString("# Pattern memory\n\n")
	result.WriteString(fmt.Sprintf("Total patterns: %d\n", stats.TotalPatterns))

	if len(stats.IntentBreakdown) > 0 {
		intents := make([]string, 0, len(stats.IntentBreakdown))
		for intent := range stats.IntentBreakdown {
			intents = append(intents, intent)
		}
		sort.Strings(intents)

		result.WriteString("\n## By intent\n")
		for _, intent := range intents {
			result.WriteString(fmt.Sprintf("- %s: %d\n", intent, stats.IntentBreakdown[intent]))
		}
	}

	if len(stats.TopPatterns) > 0 {
		result.WriteString("\n## Most used\n")
		for i, p := range stats.TopPatterns {
			result.WriteString(fmt.Sprintf("%d. %s (%s, %d uses)\n", i+1, p.QuestionPattern, p.Intent, p.UsageCount))
		}
	}

	return result.String()
}

// formatPrediction formats one answer as markdown
func formatPrediction(question string, resp models.PredictionResponse) string {
	var result strings.Builder
	result.WriteString(fmt.Sprintf("# %s\n\n", question))
	result.WriteString(fmt.Sprintf("**Answer**: %s\n\n", resp.Answer))
	result.WriteString(fmt.Sprintf("- **Intent**: %s\n", resp.Intent))
	result.WriteString(fmt.Sprintf("- **Confidence**: %.2f\n", resp.Confidence))
	result.WriteString(fmt.Sprintf("- **Reasoning**: %s\n", resp.Reasoning))
	return result.String()
}
