package main

import (
	"context"
	"fmt"
	"io"
	"runtime"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/cosmobobak/cbnf/internal/logger"
	"github.com/cosmobobak/cbnf/pkg/cbnf"
)

type checkResult struct {
	Path   string
	Name   string
	Layers uint8
	Err    error
}

func checkCmd() *cli.Command {
	var (
		jobs       int
		noValidate bool
	)

	return &cli.Command{
		Name:      "check",
		Usage:     "Validate the headers of one or more CBNF network files",
		ArgsUsage: "path [path...]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:        "jobs",
				Aliases:     []string{"j"},
				Usage:       "files to check concurrently (0 = number of CPUs)",
				Destination: &jobs,
			},
			validationFlag(&noValidate),
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			applyCheckConfig(c, cfg, &noValidate, &jobs)

			paths := c.Args().Slice()
			if len(paths) == 0 {
				return cli.Exit("error: at least one network path is required", 1)
			}

			log := logger.FromContext(ctx).With("command", "check")
			results, err := checkFiles(ctx, paths, jobs, cbnf.Options{SkipValidation: noValidate})
			if err != nil {
				return err
			}

			failed := printCheckResults(stdout(c), results)
			log.Debug("check finished", "files", len(results), "failed", failed)
			if failed > 0 {
				return cli.Exit(fmt.Sprintf("%d of %d files failed", failed, len(results)), 1)
			}
			return nil
		},
	}
}

// checkFiles opens every path with at most jobs files in flight. Results are
// returned in input order; per-file failures are recorded, not returned.
func checkFiles(ctx context.Context, paths []string, jobs int, opts cbnf.Options) ([]checkResult, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]checkResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = checkFile(path, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func checkFile(path string, opts cbnf.Options) checkResult {
	res := checkResult{Path: path}
	f, err := cbnf.OpenWith(path, opts)
	if err != nil {
		res.Err = err
		return res
	}
	defer func() { _ = f.Close() }()

	res.Name = f.Header.Name()
	res.Layers = f.Header.LayerCount()
	return res
}

func printCheckResults(w io.Writer, results []checkResult) int {
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(w, "%s: FAIL %v\n", r.Path, r.Err)
			continue
		}
		name := r.Name
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Fprintf(w, "%s: ok %s, %d hidden layers\n", r.Path, name, r.Layers)
	}
	return failed
}
