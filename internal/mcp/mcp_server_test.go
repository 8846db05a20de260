package mcp_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/huangsam/gitpet/internal/contract"
	mcp_internal "github.com/huangsam/gitpet/internal/mcp"
	"github.com/huangsam/gitpet/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, source schema.CommitSource) (*server.MCPServer, *contract.MockPetService) {
	t.Helper()
	svc := &contract.MockPetService{}
	t.Cleanup(func() { svc.AssertExpectations(t) })
	cfg := &contract.Config{Source: source, Scope: "huangsam/gitpet"}
	return mcp_internal.NewMCPServer(cfg, svc, "test", nil), svc
}

func call(t *testing.T, s *server.MCPServer, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	tool := s.GetTool(name)
	require.NotNil(t, tool, "tool %s should exist", name)
	res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err, "tool failures are reported in the result, not as raw errors")
	require.NotNil(t, res)
	return res
}

func text(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

func TestAnalyzeRepository(t *testing.T) {
	t.Run("defaults to the configured scope", func(t *testing.T) {
		s, svc := newServer(t, schema.GitHubSource)
		svc.On("Analyze", mock.Anything, "huangsam/gitpet").Return(schema.Decision{
			Scope:    "huangsam/gitpet",
			State:    schema.DoneState,
			Mood:     schema.CelebratingMood,
			Category: schema.StreakShortMessageCategory,
		}).Once()

		res := call(t, s, "analyze_repository", map[string]any{})
		assert.False(t, res.IsError)

		var d schema.Decision
		require.NoError(t, json.Unmarshal([]byte(text(res)), &d))
		assert.Equal(t, schema.CelebratingMood, d.Mood)
		assert.Equal(t, schema.StreakShortMessageCategory, d.Category)
	})

	t.Run("explicit scope", func(t *testing.T) {
		s, svc := newServer(t, schema.GitHubSource)
		svc.On("Analyze", mock.Anything, "golang/go").Return(schema.Decision{Scope: "golang/go"}).Once()

		res := call(t, s, "analyze_repository", map[string]any{"scope": "golang/go"})
		assert.False(t, res.IsError)
	})

	t.Run("github scope must be a slug", func(t *testing.T) {
		s, _ := newServer(t, schema.GitHubSource)
		res := call(t, s, "analyze_repository", map[string]any{"scope": "/tmp/checkout"})
		assert.True(t, res.IsError)
		assert.Contains(t, text(res), "scope must be owner/repo")
	})

	t.Run("local scope may be a path", func(t *testing.T) {
		s, svc := newServer(t, schema.LocalSource)
		svc.On("Analyze", mock.Anything, "/tmp/checkout").Return(schema.Decision{}).Once()
		res := call(t, s, "analyze_repository", map[string]any{"scope": "/tmp/checkout"})
		assert.False(t, res.IsError)
	})

	t.Run("fetch failures still produce a decision", func(t *testing.T) {
		s, svc := newServer(t, schema.GitHubSource)
		svc.On("Analyze", mock.Anything, "huangsam/gitpet").Return(schema.Decision{
			State:    schema.ErrorState,
			Category: schema.ErrorCategory,
			Mood:     schema.ThinkingMood,
		}).Once()

		res := call(t, s, "analyze_repository", nil)
		assert.False(t, res.IsError)
		assert.Contains(t, text(res), `"state": "ERROR"`)
	})
}

func TestRecordReaction(t *testing.T) {
	t.Run("records", func(t *testing.T) {
		s, svc := newServer(t, schema.GitHubSource)
		svc.On("RecordReaction", mock.Anything, schema.NudgingMood, schema.NegativeReaction).Return(nil).Once()

		res := call(t, s, "record_reaction", map[string]any{"mood": "nudging", "reaction": "negative"})
		assert.False(t, res.IsError)
		assert.Equal(t, "Recorded negative reaction to a nudging message.", text(res))
	})

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"unknown mood", map[string]any{"mood": "grumpy", "reaction": "positive"}, "invalid mood"},
		{"missing mood", map[string]any{"reaction": "positive"}, "invalid mood"},
		{"unknown reaction", map[string]any{"mood": "excited", "reaction": "meh"}, "invalid reaction"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newServer(t, schema.GitHubSource)
			res := call(t, s, "record_reaction", tt.args)
			assert.True(t, res.IsError)
			assert.Contains(t, text(res), tt.want)
		})
	}

	t.Run("store rejection", func(t *testing.T) {
		s, svc := newServer(t, schema.GitHubSource)
		svc.On("RecordReaction", mock.Anything, schema.ExcitedMood, schema.PositiveReaction).Return(errors.New("invalid record")).Once()

		res := call(t, s, "record_reaction", map[string]any{"mood": "excited", "reaction": "positive"})
		assert.True(t, res.IsError)
		assert.Contains(t, text(res), "recording failed: invalid record")
	})
}

func TestRecordSprint(t *testing.T) {
	t.Run("completed", func(t *testing.T) {
		s, svc := newServer(t, schema.GitHubSource)
		svc.On("RecordSprint", mock.Anything, 25, true).Return(nil).Once()

		res := call(t, s, "record_sprint", map[string]any{"duration_minutes": 25.0, "success": true})
		assert.False(t, res.IsError)
		assert.Equal(t, "Recorded completed 25-minute sprint.", text(res))
	})

	t.Run("failed", func(t *testing.T) {
		s, svc := newServer(t, schema.GitHubSource)
		svc.On("RecordSprint", mock.Anything, 10, false).Return(nil).Once()

		res := call(t, s, "record_sprint", map[string]any{"duration_minutes": 10.0, "success": false})
		assert.Equal(t, "Recorded failed 10-minute sprint.", text(res))
	})

	t.Run("duration must be positive", func(t *testing.T) {
		s, _ := newServer(t, schema.GitHubSource)
		res := call(t, s, "record_sprint", map[string]any{"duration_minutes": 0.0, "success": true})
		assert.True(t, res.IsError)
		assert.Contains(t, text(res), "duration_minutes must be a positive")
	})
}

func TestGetPredictions(t *testing.T) {
	s, svc := newServer(t, schema.GitHubSource)
	hour := 15
	svc.On("Predictions", mock.Anything).Return(schema.Predictions{
		BestUpcomingHour:  &hour,
		ProductivityTrend: schema.StableTrend,
		Confidence:        schema.Confidence{Productivity: 0.4, Overall: 0.1333},
	}).Once()

	res := call(t, s, "get_predictions", nil)
	assert.False(t, res.IsError)

	var p schema.Predictions
	require.NoError(t, json.Unmarshal([]byte(text(res)), &p))
	require.NotNil(t, p.BestUpcomingHour)
	assert.Equal(t, 15, *p.BestUpcomingHour)
	assert.Nil(t, p.CurrentProductivity, "gated predictions stay absent")
	assert.Equal(t, schema.StableTrend, p.ProductivityTrend)
}
