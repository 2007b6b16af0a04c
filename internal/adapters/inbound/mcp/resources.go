package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/openkraft/svcaudit/internal/application"
)

// Resource URIs.
const (
	ResourceTemplate = "svcaudit://template"
	ResourceAudit    = "svcaudit://audit"
)

// registerResources registers all svcaudit MCP resources on the given server.
func registerResources(s *server.MCPServer, basePath string, svc Services) {
	s.AddResource(
		mcplib.NewResource(
			ResourceTemplate,
			"Structure Template",
			mcplib.WithResourceDescription("The template audits are scored against"),
			mcplib.WithMIMEType("application/json"),
		),
		handleTemplateResource(svc),
	)

	s.AddResource(
		mcplib.NewResource(
			ResourceAudit,
			"Repository Audit",
			mcplib.WithResourceDescription("Audit of every discovered service under the server's path"),
			mcplib.WithMIMEType("application/json"),
		),
		handleAuditResource(basePath, svc),
	)
}

func handleTemplateResource(svc Services) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		info, err := svc.Templates.Info("")
		if err != nil {
			return nil, fmt.Errorf("loading template: %w", err)
		}
		return jsonResource(ResourceTemplate, info)
	}
}

func handleAuditResource(basePath string, svc Services) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		audit, err := svc.Audit.Audit(application.AuditRequest{BasePath: basePath})
		if err != nil {
			return nil, fmt.Errorf("audit failed: %w", err)
		}
		return jsonResource(ResourceAudit, audit)
	}
}

func jsonResource(uri string, v any) ([]mcplib.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
