// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/gitpet/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// NewMCPServer initializes and configures the gitpet MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, svc contract.PetService, version string, logger *zap.Logger) *server.MCPServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := server.NewMCPServer(
		"gitpet",
		version,
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		svc:     svc,
		logger:  logger,
	}

	// --- 1. Tool: analyze_repository ---
	s.AddTool(mcp.NewTool("analyze_repository",
		mcp.WithDescription("Read the recent commit history of a repository and return the pet's feedback, mood and the metrics behind it."),
		mcp.WithString("scope", mcp.Description("owner/repo for the github source or a checkout path for the local source. Defaults to the configured scope.")),
	), h.handleAnalyzeRepository)

	// --- 2. Tool: record_reaction ---
	s.AddTool(mcp.NewTool("record_reaction",
		mcp.WithDescription("Record how the user received a message shown in a given mood, so the pet learns which tone works."),
		mcp.WithString("mood", mcp.Description("Mood of the message that was shown."), mcp.Required(),
			mcp.Enum("encouraging", "celebrating", "excited", "thinking", "nudging")),
		mcp.WithString("reaction", mcp.Description("How the message was received."), mcp.Required(),
			mcp.Enum("positive", "negative", "neutral")),
	), h.handleRecordReaction)

	// --- 3. Tool: record_sprint ---
	s.AddTool(mcp.NewTool("record_sprint",
		mcp.WithDescription("Record the outcome of a focused work sprint."),
		mcp.WithNumber("duration_minutes", mcp.Description("Planned sprint length in minutes."), mcp.Required()),
		mcp.WithBoolean("success", mcp.Description("Whether the sprint was completed."), mcp.Required()),
	), h.handleRecordSprint)

	// --- 4. Tool: get_predictions ---
	s.AddTool(mcp.NewTool("get_predictions",
		mcp.WithDescription("Return the learned, confidence-gated predictions: productive hours, sprint length, preferred mood and trend."),
	), h.handleGetPredictions)

	return s
}

// StartMCPServer starts the gitpet MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, svc contract.PetService, version string, logger *zap.Logger) error {
	s := NewMCPServer(baseCfg, svc, version, logger)
	return server.ServeStdio(s)
}
