package cli

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	mcpadapter "github.com/openkraft/svcaudit/internal/adapters/inbound/mcp"
	"github.com/openkraft/svcaudit/internal/adapters/outbound/config"
)

func newMCPCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the svcaudit MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd(opts))
	return cmd
}

func newMCPServeCmd(opts *globalOptions) *cobra.Command {
	var (
		basePath      string
		templatePath  string
		watchTemplate bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start svcaudit MCP server (stdio)",
		Long: "Start the svcaudit MCP server using stdio transport. This exposes inspect_one, " +
			"audit_repository, get_template_info, health_check and reload_template to AI coding assistants.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, opts, func(s *config.Settings) {
				if templatePath != "" {
					s.Template = templatePath
				}
			})
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			if watchTemplate {
				if a.settings.Template == "" {
					return fmt.Errorf("--watch-template needs a template file (--template or settings)")
				}
				watcher := config.NewTemplateWatcher(a.loader, a.logger, 0)
				go func() {
					if err := watcher.Watch(ctx, a.settings.Template); err != nil {
						a.logger.Error("template watcher stopped", zap.Error(err))
					}
				}()
			}

			s := mcpadapter.NewAuditMCPServer(basePath, mcpadapter.Services{
				Audit:     a.audit,
				Templates: a.templates,
				Health:    a.health,
				Logger:    a.logger,
			}, version)
			return server.ServeStdio(s)
		},
	}

	cmd.Flags().StringVar(&basePath, "path", "", "Repository root (defaults to current working directory)")
	cmd.Flags().StringVar(&templatePath, "template", "", "Default template YAML file for tool calls")
	cmd.Flags().BoolVar(&watchTemplate, "watch-template", false, "Reload the template when the file changes")

	return cmd
}
