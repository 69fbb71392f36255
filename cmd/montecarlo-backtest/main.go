package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/iwvelando/montecarlo-backtest/internal/config"
	"github.com/iwvelando/montecarlo-backtest/internal/simulation"
	"github.com/iwvelando/montecarlo-backtest/internal/trades"
	"github.com/iwvelando/montecarlo-backtest/pkg/output"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// initializeLogger creates a zap logger based on configuration. The CLI
// --log-level flag has already been folded into loggingConfig.
func initializeLogger(loggingConfig config.LoggingConfig) (*zap.Logger, error) {
	level := loggingConfig.Level
	if level == "" {
		level = "info" // Default to info level
	}

	// Parse log level
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	// Determine output format
	format := loggingConfig.Format
	if format == "" {
		format = "json" // Default to JSON for production
	}

	// Configure encoder
	var config zap.Config
	switch format {
	case "console":
		config = zap.NewDevelopmentConfig()
	case "json":
		config = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
	config.Level = zap.NewAtomicLevelAt(zapLevel)

	if loggingConfig.OutputFile == "" {
		return config.Build()
	}

	// Ensure the log directory exists
	if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
		}
	}

	// Rotated file output replaces the configured sinks.
	var encoder zapcore.Encoder
	if format == "console" {
		encoder = zapcore.NewConsoleEncoder(config.EncoderConfig)
	} else {
		encoder = zapcore.NewJSONEncoder(config.EncoderConfig)
	}
	// lumberjack rotates the file once it reaches MaxSizeMB
	sink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   loggingConfig.OutputFile,
		MaxSize:    loggingConfig.MaxSizeMB,
		MaxBackups: loggingConfig.MaxBackups,
	})
	core := zapcore.NewCore(encoder, sink, config.Level)
	return zap.New(core, zap.AddCaller(), zap.ErrorOutput(sink)), nil
}

// run loads the trades at path, simulates them and writes the summary to
// stdout.
func run(logger *zap.Logger, conf *config.Configuration, path string, stdout io.Writer) error {
	values, err := trades.Load(path,
		trades.WithField(conf.Simulation.Field),
		trades.WithDelimiter(conf.DelimiterRune()),
		trades.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	logger.Debug("loaded trades",
		zap.String("op", "main.run"),
		zap.String("file", path),
		zap.Int("trades", len(values)),
	)

	// Seed only when asked so default runs stay non-deterministic
	opts := []simulation.Option{simulation.WithLogger(logger)}
	if conf.Simulation.Seed != nil {
		opts = append(opts, simulation.WithSeed(*conf.Simulation.Seed))
	}
	result := simulation.New(opts...).Run(values, conf.Simulation.Trials)

	return output.Write(stdout, conf.Output.Format, result)
}

func main() {
	// Process command line flags first to get config location
	flags := pflag.NewFlagSet(filepath.Base(os.Args[0]), pflag.ExitOnError)
	config.RegisterFlags(flags)
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Monte Carlo back-test for trade results\n\nUsage: %s [flags] <trades.csv>\n\n", flags.Name())
		flags.PrintDefaults()
	}
	_ = flags.Parse(os.Args[1:])

	if flags.NArg() != 1 {
		flags.Usage()
		os.Exit(2)
	}
	path := flags.Arg(0)
	configLocation, _ := flags.GetString("config")

	// Load the config file, with any flags the user set taking precedence
	conf, err := config.LoadConfiguration(configLocation, flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", configLocation, err)
		os.Exit(1)
	}

	// Initialize logging based on config and CLI override
	logger, err := initializeLogger(conf.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	logger = logger.With(zap.String("run", uuid.NewString()))
	defer func() {
		_ = logger.Sync()
	}()

	// Reject negative trial counts and unknown enum values
	if err := conf.Validate(); err != nil {
		logger.Fatal("invalid configuration",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	// Load, simulate and print the summary.
	if err := run(logger, conf, path, os.Stdout); err != nil {
		logger.Fatal("failed to run simulation",
			zap.String("op", "main"),
			zap.String("file", path),
			zap.Error(err),
		)
	}
}
