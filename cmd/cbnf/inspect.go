package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/cosmobobak/cbnf/internal/logger"
	"github.com/cosmobobak/cbnf/internal/report"
	"github.com/cosmobobak/cbnf/pkg/cbnf"
)

func inspectCmd() *cli.Command {
	var (
		netPath     string
		format      string
		kingBuckets bool
		noValidate  bool
	)

	return &cli.Command{
		Name:      "inspect",
		Usage:     "Print the header of a CBNF network file",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "net",
				Aliases:     []string{"n"},
				Usage:       "path to network file",
				Destination: &netPath,
			},
			&cli.StringFlag{
				Name:        "format",
				Aliases:     []string{"f"},
				Usage:       "output format (text, json, yaml)",
				Value:       "text",
				Destination: &format,
			},
			&cli.BoolFlag{
				Name:        "king-buckets",
				Usage:       "print the input king bucketing table (text output)",
				Destination: &kingBuckets,
			},
			validationFlag(&noValidate),
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			applyInspectConfig(c, cfg, &noValidate, &format)

			if netPath == "" {
				netPath = c.Args().First()
			}
			if netPath == "" {
				return cli.Exit("error: a network path is required (--net or argument)", 1)
			}
			outFormat, err := report.ParseFormat(format)
			if err != nil {
				return cli.Exit("error: "+err.Error(), 1)
			}

			log := logger.FromContext(ctx)
			log.Debug("opening network", "path", netPath, "validate", !noValidate)

			f, err := cbnf.OpenWith(netPath, cbnf.Options{SkipValidation: noValidate})
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %s: %v", netPath, err), 1)
			}
			defer func() { _ = f.Close() }()

			return printInspect(stdout(c), netPath, f, outFormat, report.Options{KingBuckets: kingBuckets})
		},
	}
}

func printInspect(w io.Writer, path string, f *cbnf.File, format report.Format, opts report.Options) error {
	summary := report.Summarize(f.Header)
	if format != report.FormatText {
		return report.Write(w, summary, format, opts)
	}

	compression := "none"
	if f.Compressed() {
		compression = "zstd"
	}
	fmt.Fprintf(w, "CBNF Inspect: %s\n", filepath.Base(path))
	fmt.Fprintf(w, "File size:      %s\n", formatBytes(uint64(f.Size())))
	fmt.Fprintf(w, "Payload:        %s (%s)\n", formatBytes(uint64(len(f.Payload()))), compression)
	return report.Write(w, summary, format, opts)
}

func formatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
