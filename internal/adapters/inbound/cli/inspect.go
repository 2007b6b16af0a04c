package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openkraft/svcaudit/internal/adapters/outbound/tui"
)

func newInspectCmd(opts *globalOptions) *cobra.Command {
	var (
		basePath     string
		templatePath string
		format       string
		jsonOutput   bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <service>",
		Short: "Inspect a single service directory",
		Long:  "Check one service against the structure template and print its score, missing items, warnings and recommendations.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := resolveFormat(cmd, format, jsonOutput)
			if err != nil {
				return err
			}
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}

			res, err := a.audit.InspectOne(args[0], basePath, templatePath)
			if err != nil {
				return fmt.Errorf("inspection failed: %w", err)
			}

			if out == formatJSON {
				return renderJSON(cmd, res)
			}
			if res.TemplateWarning != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), res.TemplateWarning)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderServiceReport(res.ServiceReport))
			return nil
		},
	}

	cmd.Flags().StringVar(&basePath, "base", ".", "Repository root the service path is relative to")
	cmd.Flags().StringVar(&templatePath, "template", "", "Template YAML file (default: settings or built-in)")
	addFormatFlags(cmd, &format, &jsonOutput)

	return cmd
}
