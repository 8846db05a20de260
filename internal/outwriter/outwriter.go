// Package outwriter has output and writer logic.
package outwriter

import (
	"github.com/huangsam/gitpet/internal/contract"
	"github.com/huangsam/gitpet/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the output formats and provides a clean API for the command layer.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteDecision prints a pet decision using the configured output format.
func (ow *OutWriter) WriteDecision(d schema.Decision, cfg *contract.Config) error {
	return PrintDecision(d, cfg)
}

// WriteInsights prints the learned insights and predictions using the configured output format.
func (ow *OutWriter) WriteInsights(report schema.InsightsReport, cfg *contract.Config) error {
	return PrintInsights(report, cfg)
}
