package main

import (
	"fmt"
	"os"

	"github.com/satrf/scorekeeper/app/modules/score/application/parsers"
	"github.com/urfave/cli/v2"
)

func templateCommand() *cli.Command {
	return &cli.Command{
		Name:  "template",
		Usage: "write the score sheet template",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "satrf-score-template.xlsx", Usage: "output path"},
		},
		Action: func(c *cli.Context) error {
			path := c.String("out")
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", path, err)
			}
			if err := parsers.WriteTemplate(f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "Wrote %s\n", path)
			return nil
		},
	}
}
