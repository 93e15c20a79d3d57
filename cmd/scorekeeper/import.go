package main

import (
	"errors"
	"fmt"
	"strings"

	scoredomain "github.com/satrf/scorekeeper/app/modules/score/domain"
	"github.com/satrf/scorekeeper/app/modules/score/infrastructure/submitter"
	"github.com/urfave/cli/v2"
)

func importCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "submit the valid records of score sheets to the server",
		ArgsUsage: "<file.csv|file.xlsx>...",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "token", EnvVars: []string{"SCOREKEEPER_TOKEN"}, Usage: "bearer token of an admin or editor"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return cli.Exit("at least one file is required", 2)
			}
			reports, err := readSheets(c.Context, c.Args().Slice())
			if err != nil {
				return err
			}

			for _, r := range reports {
				printReport(c.App.Writer, r)
			}
			records := combineReports(reports)

			s := submitter.New(c.String("server"), nil, loggerFrom(c))
			report, err := s.Submit(c.Context, records, c.String("token"))
			switch {
			case errors.Is(err, submitter.ErrNoValidScores):
				return cli.Exit("No valid scores to import", 1)
			case errors.Is(err, submitter.ErrMissingCredential):
				return cli.Exit("A token is required (--token or SCOREKEEPER_TOKEN)", 2)
			case err != nil:
				return err
			}

			fmt.Fprintln(c.App.Writer, report.Message)
			if report.BatchID != "" {
				fmt.Fprintf(c.App.Writer, "Batch: %s\n", report.BatchID)
			}
			if len(report.ErrorDetails) > 0 {
				fmt.Fprintf(c.App.Writer, "Skipped:\n  %s\n", strings.Join(report.ErrorDetails, "\n  "))
			}
			return nil
		},
	}
}

// combineReports merges the records of every file into one batch and places
// it as a whole. Error messages are prefixed with the file they came from.
func combineReports(reports []fileReport) []scoredomain.ScoreRecord {
	var records []scoredomain.ScoreRecord
	for _, r := range reports {
		for _, rec := range r.Records {
			if len(rec.Errors) > 0 {
				errs := make([]string, len(rec.Errors))
				for i, msg := range rec.Errors {
					errs[i] = r.Path + ": " + msg
				}
				rec.Errors = errs
			}
			records = append(records, rec)
		}
	}
	return scoredomain.AssignPlaces(records)
}
