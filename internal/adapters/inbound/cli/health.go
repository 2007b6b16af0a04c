package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/openkraft/svcaudit/internal/adapters/outbound/tui"
	"github.com/openkraft/svcaudit/internal/application"
	"github.com/openkraft/svcaudit/internal/domain"
)

func newHealthCmd(opts *globalOptions) *cobra.Command {
	var (
		readinessPath string
		livenessPath  string
		maxLatency    time.Duration
		format        string
		jsonOutput    bool
	)

	cmd := &cobra.Command{
		Use:   "health <url>",
		Short: "Probe a running service's health endpoints",
		Long: "Call the readiness and liveness endpoints of a running service. Slow readiness responses " +
			"count as degraded, slow liveness responses as unhealthy. Exits non-zero unless both are healthy.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := resolveFormat(cmd, format, jsonOutput)
			if err != nil {
				return err
			}
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}

			report := a.health.Check(cmd.Context(), application.HealthRequest{
				BaseURL:       args[0],
				ReadinessPath: readinessPath,
				LivenessPath:  livenessPath,
				MaxLatency:    maxLatency,
			})

			if out == formatJSON {
				if err := renderJSON(cmd, report); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), tui.RenderHealth(report))
			}

			if report.OverallStatus != domain.HealthHealthy {
				return fmt.Errorf("service is %s", report.OverallStatus)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&readinessPath, "readiness", application.DefaultReadinessPath, "Readiness endpoint path")
	cmd.Flags().StringVar(&livenessPath, "liveness", application.DefaultLivenessPath, "Liveness endpoint path")
	cmd.Flags().DurationVar(&maxLatency, "max-latency", 0, "Latency above which a response is slow (0 uses health.max_latency)")
	addFormatFlags(cmd, &format, &jsonOutput)

	return cmd
}
