package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openkraft/svcaudit/internal/adapters/outbound/tui"
	"github.com/openkraft/svcaudit/internal/domain"
)

func newTemplateCmd(opts *globalOptions) *cobra.Command {
	var (
		format     string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "template [path]",
		Short: "Show the structure template",
		Long:  "Resolve a template file (or the configured or built-in default) and describe its items, quality profiles and scoring.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			templatePath := ""
			if len(args) > 0 {
				templatePath = args[0]
			}

			out, err := resolveFormat(cmd, format, jsonOutput)
			if err != nil {
				return err
			}
			a, err := newApp(cmd, opts)
			if err != nil {
				return err
			}

			info, err := a.templates.Info(templatePath)
			if err != nil {
				return fmt.Errorf("loading template: %w", err)
			}

			if out == formatJSON {
				return renderJSON(cmd, info)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderTemplate(domain.LoadResult{
				Template: info.Template,
				Source:   info.Source,
				Fallback: info.Fallback,
				Warning:  info.Warning,
			}))
			return nil
		},
	}

	addFormatFlags(cmd, &format, &jsonOutput)

	return cmd
}
