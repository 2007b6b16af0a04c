package mcp

import (
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/openkraft/svcaudit/internal/application"
)

// Services are the application services exposed over MCP.
type Services struct {
	Audit     *application.AuditService
	Templates *application.TemplateService
	Health    *application.HealthService
	Logger    *zap.Logger
}

// NewAuditMCPServer creates an MCP server with all svcaudit tools and
// resources registered. basePath is the repository root used when a tool call
// does not name one.
func NewAuditMCPServer(basePath string, svc Services, version string) *server.MCPServer {
	if basePath == "" {
		basePath = "."
	}
	if svc.Logger == nil {
		svc.Logger = zap.NewNop()
	}

	s := server.NewMCPServer(
		"svcaudit",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, basePath, svc)
	registerResources(s, basePath, svc)

	return s
}
