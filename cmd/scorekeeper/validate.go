package main

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"runtime"

	"github.com/satrf/scorekeeper/app/modules/score/application/parsers"
	scoredomain "github.com/satrf/scorekeeper/app/modules/score/domain"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

// fileReport is the outcome of reading one score sheet.
type fileReport struct {
	Path    string
	Records []scoredomain.ScoreRecord
	Summary scoredomain.Summary
	Errors  []string
}

// readSheets parses, validates and places every file concurrently. The
// reports keep the order of paths.
func readSheets(ctx context.Context, paths []string) ([]fileReport, error) {
	factory := parsers.NewFactory()
	reports := make([]fileReport, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			batch, err := parsers.ReadFile(factory, path, mime.TypeByExtension(filepath.Ext(path)), data)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			reports[i] = fileReport{
				Path:    path,
				Records: batch.Records(),
				Summary: batch.Summary(),
				Errors:  batch.ErrorMessages(),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func printReport(w io.Writer, r fileReport) {
	fmt.Fprintf(w, "%s: %d records, %d valid, %d invalid\n", r.Path, r.Summary.Total, r.Summary.Valid, r.Summary.Invalid)
	for _, msg := range r.Errors {
		fmt.Fprintf(w, "  %s\n", msg)
	}
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "check score sheets without importing them",
		ArgsUsage: "<file.csv|file.xlsx>...",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return cli.Exit("at least one file is required", 2)
			}
			reports, err := readSheets(c.Context, c.Args().Slice())
			if err != nil {
				return err
			}
			invalid := 0
			for _, r := range reports {
				printReport(c.App.Writer, r)
				invalid += r.Summary.Invalid
			}
			if invalid > 0 {
				return cli.Exit(fmt.Sprintf("%d invalid records", invalid), 1)
			}
			return nil
		},
	}
}
