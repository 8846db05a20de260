package cmd

import (
	"context"

	"github.com/huangsam/gitpet/internal/mcp"
	"github.com/huangsam/gitpet/internal/telemetry"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp [scope]",
	Short: "Start the gitpet MCP server",
	Long: `Launch an MCP server over stdio that lets AI agents ask the pet for feedback,
record reactions and sprints, and read the learned predictions.

The optional scope becomes the default for analyze_repository calls.
Logs go to stderr so stdout stays reserved for the protocol.`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, cancel := context.WithCancel(rootCtx)
		defer cancel()

		if addr := viper.GetString("metrics-addr"); addr != "" {
			cfg.MetricsAddr = addr
		}
		if cfg.MetricsAddr != "" {
			go func() {
				if err := telemetry.Serve(ctx, cfg.MetricsAddr, registry, logger); err != nil {
					logger.Error("metrics server stopped", zap.Error(err))
				}
			}()
		}

		svc := newOrchestrator(ctx, newEngine(ctx))
		return mcp.StartMCPServer(ctx, cfg, svc, version, logger)
	},
}
