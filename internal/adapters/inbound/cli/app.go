package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/openkraft/svcaudit/internal/adapters/outbound/config"
	"github.com/openkraft/svcaudit/internal/adapters/outbound/discovery"
	"github.com/openkraft/svcaudit/internal/adapters/outbound/gitinfo"
	"github.com/openkraft/svcaudit/internal/adapters/outbound/health"
	"github.com/openkraft/svcaudit/internal/adapters/outbound/history"
	"github.com/openkraft/svcaudit/internal/adapters/outbound/logging"
	"github.com/openkraft/svcaudit/internal/adapters/outbound/scanner"
	"github.com/openkraft/svcaudit/internal/application"
)

// Output formats.
const (
	formatAuto = "auto"
	formatTUI  = "tui"
	formatJSON = "json"
)

// app holds the services one command invocation works with.
type app struct {
	settings  config.Settings
	logger    *zap.Logger
	loader    *config.TemplateLoader
	audit     *application.AuditService
	templates *application.TemplateService
	health    *application.HealthService
	history   *history.FileHistory
}

// newApp resolves settings, applies flag overrides and wires the adapters.
// Command-specific overrides run last.
func newApp(cmd *cobra.Command, opts *globalOptions, overrides ...func(*config.Settings)) (*app, error) {
	home, _ := os.UserHomeDir()
	searchPaths := []string{"."}
	if home != "" {
		searchPaths = append(searchPaths, home)
	}

	settings, used, err := config.NewSettingsLoader(searchPaths...).Load(opts.configFile)
	if err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		settings.Log.Level = opts.logLevel
	}
	if opts.logFormat != "" {
		settings.Log.Format = opts.logFormat
	}
	if cmd.Flags().Changed("strict-templates") {
		settings.StrictTemplates = opts.strictTemplates
	}
	for _, override := range overrides {
		override(&settings)
	}

	logger, err := logging.NewFactory().New(settings.Log.Level, settings.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("configuring logging: %w", err)
	}
	if used != "" {
		logger.Debug("settings loaded", zap.String("config_file", used))
	}

	loader := config.NewTemplateLoader(
		config.WithDefaultPath(settings.Template),
		config.WithStrict(settings.StrictTemplates),
		config.WithLogger(logger),
	)
	audit := application.NewAuditService(
		loader,
		discovery.New(),
		application.NewInspectService(scanner.New()),
		application.WithAuditLogger(logger),
		application.WithGitInfo(gitinfo.New()),
	)
	prober := health.New(&http.Client{Timeout: settings.Health.Timeout}, logger)

	return &app{
		settings:  settings,
		logger:    logger,
		loader:    loader,
		audit:     audit,
		templates: application.NewTemplateService(loader),
		health:    application.NewHealthService(prober, application.WithDefaultMaxLatency(settings.Health.MaxLatency)),
		history:   history.New(settings.History.Dir),
	}, nil
}

func addFormatFlags(cmd *cobra.Command, format *string, jsonOutput *bool) {
	cmd.Flags().StringVar(format, "format", formatAuto, "Output format: auto, tui or json")
	cmd.Flags().BoolVar(jsonOutput, "json", false, "Shorthand for --format json")
}

// resolveFormat picks tui or json. auto means tui on a terminal and json
// everywhere else, including pipes and tests.
func resolveFormat(cmd *cobra.Command, format string, jsonOutput bool) (string, error) {
	if jsonOutput {
		return formatJSON, nil
	}
	switch format {
	case formatTUI, formatJSON:
		return format, nil
	case formatAuto, "":
		if f, ok := cmd.OutOrStdout().(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
			return formatTUI, nil
		}
		return formatJSON, nil
	default:
		return "", fmt.Errorf("unsupported format %q (want auto, tui or json)", format)
	}
}

func renderJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
