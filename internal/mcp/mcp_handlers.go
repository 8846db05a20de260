package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/gitpet/internal/contract"
	"github.com/huangsam/gitpet/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	svc     contract.PetService
	logger  *zap.Logger
}

func (h *toolHandler) handleAnalyzeRepository(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	scope := request.GetString("scope", h.baseCfg.Scope)
	if scope == "" {
		return mcp.NewToolResultError("scope is required when no default scope is configured"), nil
	}
	if h.baseCfg.Source == schema.GitHubSource && !contract.IsRepoSlug(scope) {
		return mcp.NewToolResultError(fmt.Sprintf("scope must be owner/repo for the github source (received %q)", scope)), nil
	}

	d := h.svc.Analyze(ctx, scope)
	return jsonResult(d)
}

func (h *toolHandler) handleRecordReaction(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mood, err := schema.ParseMood(request.GetString("mood", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	reaction, err := schema.ParseReaction(request.GetString("reaction", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := h.svc.RecordReaction(ctx, mood, reaction); err != nil {
		h.logger.Warn("reaction not recorded", zap.Error(err))
		return mcp.NewToolResultError(fmt.Sprintf("recording failed: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Recorded %s reaction to a %s message.", reaction, mood)), nil
}

func (h *toolHandler) handleRecordSprint(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	minutes := request.GetInt("duration_minutes", 0)
	if minutes <= 0 {
		return mcp.NewToolResultError("duration_minutes must be a positive number of minutes"), nil
	}
	success := request.GetBool("success", false)

	if err := h.svc.RecordSprint(ctx, minutes, success); err != nil {
		h.logger.Warn("sprint not recorded", zap.Error(err))
		return mcp.NewToolResultError(fmt.Sprintf("recording failed: %v", err)), nil
	}
	outcome := "failed"
	if success {
		outcome = "completed"
	}
	return mcp.NewToolResultText(fmt.Sprintf("Recorded %s %d-minute sprint.", outcome, minutes)), nil
}

func (h *toolHandler) handleGetPredictions(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(h.svc.Predictions(ctx))
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
