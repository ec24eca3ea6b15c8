package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/cosmobobak/cbnf/internal/logger"
)

var (
	configFile string
	logLevel   string
	logFormat  string
	debug      bool

	// cfg holds the loaded config file; commands consult it for flags the
	// user did not set.
	cfg Config
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "path to config.yaml (default ~/.config/cbnf/config.yaml)",
			Sources:     cli.EnvVars(envConfigPath),
			Destination: &configFile,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}

func validationFlag(dest *bool) cli.Flag {
	return &cli.BoolFlag{
		Name:        "no-validate",
		Usage:       "only check length, magic and version",
		Destination: dest,
	}
}

// setup loads the config file and installs the logger in the context.
func setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	loaded, err := LoadConfig(configFile)
	if err != nil {
		return ctx, cli.Exit("error: "+err.Error(), 1)
	}
	cfg = loaded
	applyLoggingConfig(cmd, cfg)

	level := logger.ParseLevel(logLevel)
	if debug {
		level = slog.LevelDebug
	}
	log, err := logger.Build(stderr(cmd), logFormat, level)
	if err != nil {
		return ctx, cli.Exit("error: "+err.Error(), 1)
	}
	return logger.WithContext(ctx, log), nil
}

func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func stderr(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}
