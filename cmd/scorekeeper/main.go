package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/satrf/scorekeeper/config"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "scorekeeper",
		Usage: "validate, import and inspect SATRF match scores",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "config.yaml", Usage: "path to the configuration file"},
			&cli.StringFlag{Name: "server", Value: "http://localhost:8080", EnvVars: []string{"SCOREKEEPER_SERVER"}, Usage: "score server base URL"},
			&cli.BoolFlag{Name: "verbose", Usage: "debug logging"},
		},
		Commands: []*cli.Command{
			validateCommand(),
			importCommand(),
			templateCommand(),
			leaderboardCommand(),
			tokenCommand(),
		},
	}
}

func loggerFrom(c *cli.Context) *slog.Logger {
	level := slog.LevelInfo
	if c.Bool("verbose") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{Level: level}))
}

func configFrom(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}
