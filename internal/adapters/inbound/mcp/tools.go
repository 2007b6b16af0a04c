package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/openkraft/svcaudit/internal/application"
	"github.com/openkraft/svcaudit/internal/domain"
)

// Tool names.
const (
	ToolInspectOne      = "inspect_one"
	ToolAuditRepository = "audit_repository"
	ToolGetTemplateInfo = "get_template_info"
	ToolHealthCheck     = "health_check"
	ToolReloadTemplate  = "reload_template"
)

// envelope is the shape of every tool result.
type envelope struct {
	OK    bool           `json:"ok"`
	Data  any            `json:"data,omitempty"`
	Error *envelopeError `json:"error,omitempty"`
}

type envelopeError struct {
	Code    domain.ErrorCode `json:"code"`
	Message string           `json:"message"`
}

// registerTools registers all svcaudit MCP tools on the given server.
func registerTools(s *server.MCPServer, basePath string, svc Services) {
	s.AddTool(
		mcplib.NewTool(ToolInspectOne,
			mcplib.WithDescription("Inspect one service directory against the structure template and return its report"),
			mcplib.WithString("service_path",
				mcplib.Required(),
				mcplib.Description("Service directory, relative to base_path unless absolute"),
			),
			mcplib.WithString("base_path",
				mcplib.Description("Repository root (defaults to the server's path)"),
			),
			mcplib.WithString("template_path",
				mcplib.Description("Template YAML file (defaults to the configured or built-in template)"),
			),
		),
		handleInspectOne(basePath, svc),
	)

	s.AddTool(
		mcplib.NewTool(ToolAuditRepository,
			mcplib.WithDescription("Audit every service under base_path, or only the listed service_paths"),
			mcplib.WithString("base_path",
				mcplib.Description("Repository root (defaults to the server's path)"),
			),
			mcplib.WithArray("service_paths",
				mcplib.Description("Explicit service directories; a comma-separated string is also accepted"),
				mcplib.WithStringItems(),
			),
			mcplib.WithString("template_path",
				mcplib.Description("Template YAML file (defaults to the configured or built-in template)"),
			),
		),
		handleAuditRepository(basePath, svc),
	)

	s.AddTool(
		mcplib.NewTool(ToolGetTemplateInfo,
			mcplib.WithDescription("Describe the structure template that audits are scored against"),
			mcplib.WithString("template_path",
				mcplib.Description("Template YAML file (defaults to the configured or built-in template)"),
			),
		),
		handleGetTemplateInfo(svc),
	)

	s.AddTool(
		mcplib.NewTool(ToolHealthCheck,
			mcplib.WithDescription("Probe a running service's readiness and liveness endpoints"),
			mcplib.WithString("base_url",
				mcplib.Required(),
				mcplib.Description("Service base URL, e.g. http://localhost:8000"),
			),
			mcplib.WithString("readiness_path",
				mcplib.Description("Readiness endpoint (default /health/ready)"),
			),
			mcplib.WithString("liveness_path",
				mcplib.Description("Liveness endpoint (default /health/live)"),
			),
			mcplib.WithNumber("max_latency_ms",
				mcplib.Description("Latency above which a response counts as slow (default health.max_latency, 300)"),
			),
		),
		handleHealthCheck(svc),
	)

	s.AddTool(
		mcplib.NewTool(ToolReloadTemplate,
			mcplib.WithDescription("Drop cached templates so the next call reads them from disk again"),
		),
		handleReloadTemplate(svc),
	)
}

func handleInspectOne(basePath string, svc Services) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		servicePath, err := request.RequireString("service_path")
		if err != nil {
			return invalidArgument(err), nil
		}
		base := request.GetString("base_path", basePath)

		res, err := svc.Audit.InspectOne(servicePath, base, request.GetString("template_path", ""))
		if err != nil {
			return failure(svc.Logger, ToolInspectOne, err), nil
		}
		return jsonResult(res)
	}
}

func handleAuditRepository(basePath string, svc Services) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		paths, err := servicePaths(request.GetArguments()["service_paths"])
		if err != nil {
			return invalidArgument(err), nil
		}

		audit, err := svc.Audit.Audit(application.AuditRequest{
			BasePath:     request.GetString("base_path", basePath),
			ServicePaths: paths,
			TemplatePath: request.GetString("template_path", ""),
		})
		if err != nil {
			return failure(svc.Logger, ToolAuditRepository, err), nil
		}
		return jsonResult(audit)
	}
}

func handleGetTemplateInfo(svc Services) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		info, err := svc.Templates.Info(request.GetString("template_path", ""))
		if err != nil {
			return failure(svc.Logger, ToolGetTemplateInfo, err), nil
		}
		return jsonResult(info)
	}
}

func handleHealthCheck(svc Services) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		baseURL, err := request.RequireString("base_url")
		if err != nil {
			return invalidArgument(err), nil
		}
		maxLatencyMS := request.GetFloat("max_latency_ms", 0)
		if maxLatencyMS < 0 {
			return invalidArgument(fmt.Errorf("max_latency_ms must be >= 0")), nil
		}

		report := svc.Health.Check(ctx, application.HealthRequest{
			BaseURL:       baseURL,
			ReadinessPath: request.GetString("readiness_path", ""),
			LivenessPath:  request.GetString("liveness_path", ""),
			MaxLatency:    time.Duration(maxLatencyMS * float64(time.Millisecond)),
		})
		return jsonResult(report)
	}
}

func handleReloadTemplate(svc Services) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		svc.Templates.Reload()
		svc.Logger.Info("template cache cleared")
		return jsonResult(map[string]bool{"reloaded": true})
	}
}

// servicePaths accepts a JSON array of strings or a comma-separated string.
func servicePaths(raw any) ([]string, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		var out []string
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("service_paths must contain strings, got %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	case []string:
		return v, nil
	default:
		return nil, fmt.Errorf("service_paths must be an array or a comma-separated string, got %T", raw)
	}
}

// jsonResult wraps v in a success envelope.
func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(envelope{OK: true, Data: v}, "", "  ")
	if err != nil {
		return errorResult(domain.CodeInspectionError, fmt.Sprintf("marshaling result: %v", err)), nil
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns a failure envelope flagged as a tool error.
func errorResult(code domain.ErrorCode, msg string) *mcplib.CallToolResult {
	data, err := json.MarshalIndent(envelope{Error: &envelopeError{Code: code, Message: msg}}, "", "  ")
	if err != nil {
		data = []byte(msg)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
		IsError: true,
	}
}

func invalidArgument(err error) *mcplib.CallToolResult {
	return errorResult(domain.CodeInvalidArgument, err.Error())
}

func failure(logger *zap.Logger, tool string, err error) *mcplib.CallToolResult {
	code := domain.CodeOf(err)
	msg := err.Error()
	var ae *domain.AuditError
	if errors.As(err, &ae) {
		msg = ae.Message
		if ae.Service != "" {
			msg = ae.Service + ": " + ae.Message
		}
	}
	logger.Warn("tool call failed", zap.String("tool", tool), zap.String("code", string(code)), zap.Error(err))
	return errorResult(code, msg)
}
