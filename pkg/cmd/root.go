package cmd

import (
	"github.com/spf13/cobra"
)

// AppName is the name of the application and of its root command.
const AppName = "evmopts"

// NewRootCmd returns the root command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           AppName,
		Short:         "Resolve EVM options from flags, environment and evm.toml profiles.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	AddGlobalFlags(rootCmd)

	rootCmd.AddCommand(
		InitCmd(),
		ConfigCmd(),
		ForkURLCmd(),
		DocsGenCmd(),
		VersionCmd(),
	)
	return rootCmd
}
