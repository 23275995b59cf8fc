package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rollkit/evmopts/pkg/config"
	"github.com/rollkit/evmopts/pkg/log"
)

const (
	// FlagRootDir is a flag for specifying the directory the config file search starts from
	FlagRootDir = "root"
	// FlagConfigFile is a flag for specifying an explicit config file
	FlagConfigFile = "config-file"

	// FlagLogLevel is a flag for specifying the log level
	FlagLogLevel = "log.level"
	// FlagLogFormat is a flag for specifying the log format
	FlagLogFormat = "log.format"
	// FlagLogTrace is a flag for enabling stack traces in error logs
	FlagLogTrace = "log.trace"

	// FlagFormat is a flag for specifying the output format of the config command
	FlagFormat = "format"
)

// AddGlobalFlags registers the flags shared by every subcommand. The profile
// is selected through EVM_PROFILE.
func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String(FlagRootDir, config.DefaultRootDir(), "Directory the config file search starts from")
	cmd.PersistentFlags().String(FlagConfigFile, "", "Path to a config file, disables the search")
	cmd.PersistentFlags().String(FlagLogLevel, config.DefaultLogLevel, "Set the log level (debug, info, warn, error)")
	cmd.PersistentFlags().String(FlagLogFormat, "text", "Set the log format (text, json)")
	cmd.PersistentFlags().Bool(FlagLogTrace, false, "Enable stack traces in error logs")
}

// NewLoader returns a config loader set up from the global flags of cmd.
func NewLoader(cmd *cobra.Command, logger log.Logger) (*config.Loader, error) {
	root, err := cmd.Flags().GetString(FlagRootDir)
	if err != nil {
		return nil, fmt.Errorf("error reading %s flag: %w", FlagRootDir, err)
	}
	configFile, err := cmd.Flags().GetString(FlagConfigFile)
	if err != nil {
		return nil, fmt.Errorf("error reading %s flag: %w", FlagConfigFile, err)
	}

	opts := []config.LoaderOption{config.WithRoot(root), config.WithLogger(logger)}
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}
	return config.NewLoader(opts...), nil
}
