package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/openkraft/svcaudit/internal/adapters/outbound/tui"
	"github.com/openkraft/svcaudit/internal/application"
	"github.com/openkraft/svcaudit/internal/domain"
)

func newAuditCmd(opts *globalOptions) *cobra.Command {
	var (
		services     []string
		templatePath string
		format       string
		jsonOutput   bool
		save         bool
		showHistory  bool
		ciMode       bool
		minScore     float64
	)

	cmd := &cobra.Command{
		Use:   "audit [path]",
		Short: "Audit every service in a repository",
		Long: "Discover service directories under path (or take them from --service), inspect each one " +
			"against the structure template and print a repository summary.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}
			absPath, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			out, err := resolveFormat(cmd, format, jsonOutput)
			if err != nil {
				return err
			}
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}

			if showHistory {
				entries, err := a.history.Load(absPath)
				if err != nil {
					return fmt.Errorf("loading history: %w", err)
				}
				if out == formatJSON {
					if entries == nil {
						entries = []domain.AuditEntry{}
					}
					return renderJSON(cmd, entries)
				}
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderHistory(entries))
				return nil
			}

			audit, err := a.audit.Audit(application.AuditRequest{
				BasePath:     absPath,
				ServicePaths: services,
				TemplatePath: templatePath,
			})
			if err != nil {
				return fmt.Errorf("audit failed: %w", err)
			}

			if save {
				if err := a.history.Save(absPath, domain.NewAuditEntry(audit)); err != nil {
					a.logger.Warn("saving audit history failed", zap.String("base_path", absPath), zap.Error(err))
				}
			}

			if out == formatJSON {
				if err := renderJSON(cmd, audit); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderAudit(audit))
			}

			if ciMode {
				return checkCI(audit, minScore)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&services, "service", nil, "Service directory to audit instead of discovering (repeatable)")
	cmd.Flags().StringVar(&templatePath, "template", "", "Template YAML file (default: settings or built-in)")
	addFormatFlags(cmd, &format, &jsonOutput)
	cmd.Flags().BoolVar(&save, "save", false, "Append this audit to the history")
	cmd.Flags().BoolVar(&showHistory, "history", false, "Show audit history instead of auditing")
	cmd.Flags().BoolVar(&ciMode, "ci", false, "CI mode: exit 1 if the average is below --min or any service failed")
	cmd.Flags().Float64Var(&minScore, "min", 0, "Minimum average score for CI mode")

	return cmd
}

func checkCI(audit *domain.RepositoryAudit, minScore float64) error {
	s := audit.Summary
	if s.Failed > 0 {
		return fmt.Errorf("%d services failed inspection", s.Failed)
	}
	if s.AverageScore < minScore {
		return fmt.Errorf("average score %.2f is below minimum %.2f", s.AverageScore, minScore)
	}
	return nil
}
