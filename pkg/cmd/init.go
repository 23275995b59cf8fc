package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rollkit/evmopts/pkg/config"
)

// InitCmd returns the command initializing a new evm.toml file in the root directory.
func InitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: fmt.Sprintf("Initialize a new %s file", config.ConfigToml),
		Long:  fmt.Sprintf("This command initializes a new %s file holding the default configuration in the root directory (or current directory if not specified).", config.ConfigToml),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			homePath, err := cmd.Flags().GetString(FlagRootDir)
			if err != nil {
				return fmt.Errorf("error reading %s flag: %w", FlagRootDir, err)
			}
			if homePath == "" {
				return fmt.Errorf("root path is required")
			}

			for _, name := range config.ConfigFileNames {
				if _, err := os.Stat(filepath.Join(homePath, name)); err == nil {
					return fmt.Errorf("%s file already exists in the specified directory", name)
				}
			}

			cfg := config.DefaultConfig()
			cfg.Profile = config.SelectedProfile()

			path, err := config.WriteTomlConfig(homePath, cfg)
			if err != nil {
				return fmt.Errorf("error writing %s file: %w", config.ConfigToml, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Initialized %s\n", path)
			return nil
		},
	}
}
