package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rollkit/evmopts/pkg/evmargs"
)

// ForkURLCmd returns the command printing the fork endpoint. The flag wins;
// without it the eth_rpc_url of the resolved configuration is used.
func ForkURLCmd() *cobra.Command {
	var args evmargs.EvmArgs

	cmd := &cobra.Command{
		Use:   "fork-url",
		Short: "Print the fork endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			url, err := args.EnsureForkURL()
			if err == nil {
				fmt.Fprintln(cmd.OutOrStdout(), url)
				return nil
			}
			if !errors.Is(err, evmargs.ErrMissingField) {
				return err
			}

			cfg, loadErr := ParseConfig(cmd, &args)
			if loadErr != nil {
				return loadErr
			}
			if !cfg.IsFork() {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), *cfg.EthRPCURL)
			return nil
		},
	}

	evmargs.AddCommandFlags(cmd, &args)
	return cmd
}
