package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

const (
	allPatternsURI  = "patterns://all"
	patternStatsURI = "patterns://stats"
)

func (s *MCPServer) registerResources() {
	allResource := mcp.NewResource(allPatternsURI,
		"All patterns",
		mcp.WithMIMEType("text/markdown"),
		mcp.WithResourceDescription("Every learned question pattern"),
	)
	s.mcpServer.AddResource(allResource, s.handleAllPatterns)

	statsResource := mcp.NewResource(patternStatsURI,
		"Pattern statistics",
		mcp.WithMIMEType("text/markdown"),
		mcp.WithResourceDescription("Pattern memory statistics"),
	)
	s.mcpServer.AddResource(statsResource, s.handleStatsResource)
}

func (s *MCPServer) handleAllPatterns(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      allPatternsURI,
			MIMEType: "text/markdown",
			Text:     formatPatterns(s.store.ReadAll(ctx), "All patterns"),
		},
	}, nil
}

func (s *MCPServer) handleStatsResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      patternStatsURI,
			MIMEType: "text/markdown",
			Text:     formatStats(s.store.Stats(ctx)),
		},
	}, nil
}
