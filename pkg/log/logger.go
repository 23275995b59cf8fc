package log

import (
	"io"
	"os"

	ipfslog "github.com/ipfs/go-log/v2"
	"github.com/rs/zerolog"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Subsystem is the go-log subsystem name used by the default logger.
const Subsystem = "evmopts"

// Logger defines the structured logging interface used across the module.
type Logger interface {
	// Info takes a message and a set of key/value pairs and logs with level INFO.
	// The key of the tuple must be a string.
	Info(msg string, keyVals ...any)

	// Warn takes a message and a set of key/value pairs and logs with level WARN.
	Warn(msg string, keyVals ...any)

	// Error takes a message and a set of key/value pairs and logs with level ERR.
	Error(msg string, keyVals ...any)

	// Debug takes a message and a set of key/value pairs and logs with level DEBUG.
	Debug(msg string, keyVals ...any)

	// With returns a new wrapped logger with additional context provided by a set.
	With(keyVals ...any) Logger

	// Impl returns the underlying logger implementation.
	Impl() any
}

type zapLogger struct {
	logger *zap.SugaredLogger
}

// NewLogger creates a logger writing to dst. A nil dst or os.Stderr hands the
// output over to the process-wide go-log configuration.
func NewLogger(dst io.Writer, options ...Option) Logger {
	config := &Config{
		Level:      zapcore.InfoLevel,
		EnableJSON: false,
	}
	for _, opt := range options {
		opt(config)
	}

	if dst == nil || dst == os.Stderr {
		_ = ipfslog.SetLogLevel(Subsystem, config.Level.String())
		return &zapLogger{logger: &ipfslog.Logger(Subsystem).SugaredLogger}
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if config.EnableJSON {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	var zapOpts []zap.Option
	if config.Trace {
		zapOpts = append(zapOpts, zap.AddStacktrace(zapcore.ErrorLevel))
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(dst), config.Level)
	return &zapLogger{logger: zap.New(core, zapOpts...).Sugar()}
}

// NewNopLogger creates a no-op logger.
func NewNopLogger() Logger {
	return &zapLogger{logger: zap.NewNop().Sugar()}
}

// NewTestLogger creates a logger that writes through t.Log.
func NewTestLogger(t TestingT) Logger {
	return NewLogger(testWriter{t}, LevelOption(zerolog.DebugLevel))
}

func (z *zapLogger) Info(msg string, keyVals ...any) {
	z.logger.Infow(msg, keyVals...)
}

func (z *zapLogger) Warn(msg string, keyVals ...any) {
	z.logger.Warnw(msg, keyVals...)
}

func (z *zapLogger) Error(msg string, keyVals ...any) {
	z.logger.Errorw(msg, keyVals...)
}

func (z *zapLogger) Debug(msg string, keyVals ...any) {
	z.logger.Debugw(msg, keyVals...)
}

func (z *zapLogger) With(keyVals ...any) Logger {
	return &zapLogger{logger: z.logger.With(keyVals...)}
}

func (z *zapLogger) Impl() any {
	return z.logger
}

// Option defines configuration options for the logger
type Option func(*Config)

// Config holds logger configuration
type Config struct {
	Level      zapcore.Level
	EnableJSON bool
	Trace      bool
}

// OutputJSONOption enables JSON output format
func OutputJSONOption() Option {
	return func(c *Config) {
		c.EnableJSON = true
	}
}

// LevelOption sets the log level
func LevelOption(level zerolog.Level) Option {
	return func(c *Config) {
		switch level {
		case zerolog.TraceLevel, zerolog.DebugLevel:
			c.Level = zapcore.DebugLevel
		case zerolog.WarnLevel:
			c.Level = zapcore.WarnLevel
		case zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.PanicLevel:
			c.Level = zapcore.ErrorLevel
		default:
			c.Level = zapcore.InfoLevel
		}
	}
}

// TraceOption enables or disables stack traces on error logs
func TraceOption(enabled bool) Option {
	return func(c *Config) {
		c.Trace = enabled
	}
}

// ParseLevel parses a textual level (debug, info, warn, error).
func ParseLevel(level string) (zerolog.Level, error) {
	return zerolog.ParseLevel(level)
}

// TestingT is an interface for testing.T
type TestingT interface {
	Helper()
	Log(args ...any)
}

type testWriter struct {
	t TestingT
}

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}
