package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rollkit/evmopts/pkg/config"
	"github.com/rollkit/evmopts/pkg/evmargs"
)

// Output formats of the config command.
const (
	FormatYAML = "yaml"
	FormatTOML = "toml"
	FormatJSON = "json"
)

// ParseConfig loads the configuration layers selected by the global flags,
// merges args on top and validates the result.
func ParseConfig(cmd *cobra.Command, args *evmargs.EvmArgs) (config.Config, error) {
	logCfg, err := ParseLogConfig(cmd)
	if err != nil {
		return config.Config{}, err
	}
	logger := SetupLogger(logCfg)

	loader, err := NewLoader(cmd, logger)
	if err != nil {
		return config.Config{}, err
	}

	cfg, err := loader.Merge(args).Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("failed to validate config: %w", err)
	}
	if cfg.Verbosity > config.MaxVerbosity {
		logger.Warn("verbosity above the highest level", "verbosity", cfg.Verbosity, "max", config.MaxVerbosity)
	}

	return cfg, nil
}

// ConfigCmd returns the command printing the resolved configuration.
func ConfigCmd() *cobra.Command {
	var args evmargs.EvmArgs

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration",
		Long: `Resolve the configuration of the selected profile and print it.
Values are merged in the following order, the last one winning:
defaults, the default profile of the config file, the selected profile,
EVM_* environment variables and finally the flags of this command.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := cmd.Flags().GetString(FlagFormat)
			if err != nil {
				return fmt.Errorf("error reading %s flag: %w", FlagFormat, err)
			}

			cfg, err := ParseConfig(cmd, &args)
			if err != nil {
				return err
			}

			out, err := marshalConfig(cfg, format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	cmd.Flags().String(FlagFormat, FormatTOML, fmt.Sprintf("Output format (%s, %s, %s)", FormatTOML, FormatYAML, FormatJSON))
	evmargs.AddCommandFlags(cmd, &args)
	return cmd
}

func marshalConfig(cfg config.Config, format string) ([]byte, error) {
	switch format {
	case FormatTOML:
		return config.MarshalTOML(cfg)
	case FormatYAML:
		return config.MarshalYAML(cfg)
	case FormatJSON:
		doc := map[string]any{
			"profile": map[string]any{cfg.Profile.String(): cfg.AsMap()},
		}
		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("error marshaling JSON data: %w", err)
		}
		return append(out, '\n'), nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}
