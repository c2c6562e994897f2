package cli

import "github.com/spf13/cobra"

// NewRootCommand runs serve when no subcommand is given.
func NewRootCommand() *cobra.Command {
	serve := NewServeCommand()

	root := &cobra.Command{
		Use:          "defi-academy",
		Short:        "DeFi academy API",
		Long:         `API for the DeFi academy: tiered course access with early-access windows, weighted roadmap voting and referral commissions.`,
		SilenceUsage: true,
		RunE:         serve.RunE,
	}

	root.AddCommand(
		serve,
		NewMigrateCommand(),
		NewFoundingCommand(),
	)
	return root
}
