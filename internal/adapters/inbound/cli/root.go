package cli

import "github.com/spf13/cobra"

var (
	version = "dev"
	commit  = "none"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configFile      string
	logLevel        string
	logFormat       string
	strictTemplates bool
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "svcaudit",
		Short: "Audit microservice directories against a structure template",
		Long: "svcaudit checks that every service in a repository ships the files a template requires " +
			"(Dockerfile, compose file, tests, ...) and scores the quality of their content.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "Settings file (default .svcaudit.yaml in the working or home directory)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	flags.StringVar(&opts.logFormat, "log-format", "", "Log format: console or structured")
	flags.BoolVar(&opts.strictTemplates, "strict-templates", false, "Fail instead of falling back to the built-in template")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newInspectCmd(opts))
	cmd.AddCommand(newAuditCmd(opts))
	cmd.AddCommand(newTemplateCmd(opts))
	cmd.AddCommand(newHealthCmd(opts))
	cmd.AddCommand(newMCPCmd(opts))
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	return newRootCmd().Execute()
}
