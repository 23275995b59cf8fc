package cmd

import (
	"fmt"

	logging "github.com/ipfs/go-log/v2"
	"github.com/spf13/cobra"

	"github.com/rollkit/evmopts/pkg/log"
)

// LogConfig contains all logging configuration parameters
type LogConfig struct {
	Level  string
	Format string
	Trace  bool
}

// ParseLogConfig reads the logging flags of cmd.
func ParseLogConfig(cmd *cobra.Command) (LogConfig, error) {
	var (
		cfg LogConfig
		err error
	)
	if cfg.Level, err = cmd.Flags().GetString(FlagLogLevel); err != nil {
		return LogConfig{}, fmt.Errorf("error reading %s flag: %w", FlagLogLevel, err)
	}
	if cfg.Format, err = cmd.Flags().GetString(FlagLogFormat); err != nil {
		return LogConfig{}, fmt.Errorf("error reading %s flag: %w", FlagLogFormat, err)
	}
	if cfg.Trace, err = cmd.Flags().GetBool(FlagLogTrace); err != nil {
		return LogConfig{}, fmt.Errorf("error reading %s flag: %w", FlagLogTrace, err)
	}
	return cfg, nil
}

// SetupLogger configures and returns a logger based on the provided configuration.
// It applies the following settings from the config:
//   - Log format (text or JSON)
//   - Log level (debug, info, warn, error)
//   - Stack traces for error logs
//
// Output goes to stderr so that it never mixes with command output.
func SetupLogger(config LogConfig) log.Logger {
	logCfg := logging.Config{
		Stderr: true,
	}

	if config.Format == "json" {
		logCfg.Format = logging.JSONOutput
	}

	level, err := logging.LevelFromString(config.Level)
	if err == nil {
		logCfg.Level = level
	} else {
		// Default to info if parsing fails
		logCfg.Level = logging.LevelInfo
	}

	logging.SetupLogging(logCfg)

	opts := []log.Option{log.TraceOption(config.Trace)}
	if zl, err := log.ParseLevel(config.Level); err == nil {
		opts = append(opts, log.LevelOption(zl))
	}
	return log.NewLogger(nil, opts...)
}
