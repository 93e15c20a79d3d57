package main

import (
	"fmt"
	"io"
	"net/url"
	"strconv"
	"text/tabwriter"

	leaderboarddomain "github.com/satrf/scorekeeper/app/modules/leaderboard/domain"
	leaderboardclient "github.com/satrf/scorekeeper/app/modules/leaderboard/infrastructure/client"
	"github.com/urfave/cli/v2"
)

var boardFilters = []string{"discipline", "category", "time_period", "since", "eventName", "matchNumber", "class"}

func leaderboardCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{Name: "board", Value: leaderboardclient.BoardOverall, Usage: "overall, club or event"},
		&cli.IntFlag{Name: "page", Value: 1},
		&cli.IntFlag{Name: "limit", Value: 20},
		&cli.StringFlag{Name: "shooter", Usage: "show one shooter's statistics instead of a board"},
	}
	for _, name := range boardFilters {
		flags = append(flags, &cli.StringFlag{Name: name})
	}

	return &cli.Command{
		Name:  "leaderboard",
		Usage: "print a leaderboard",
		Flags: flags,
		Action: func(c *cli.Context) error {
			client := leaderboardclient.New(c.String("server"))

			if name := c.String("shooter"); name != "" {
				stats, err := client.ShooterStatistics(c.Context, name)
				if err != nil {
					return err
				}
				printStatistics(c.App.Writer, stats)
				return nil
			}

			params := url.Values{}
			params.Set("page", strconv.Itoa(c.Int("page")))
			params.Set("limit", strconv.Itoa(c.Int("limit")))
			for _, name := range boardFilters {
				if v := c.String(name); v != "" {
					params.Set(name, v)
				}
			}

			res, err := client.Board(c.Context, c.String("board"), params)
			if err != nil {
				return err
			}
			printBoard(c.App.Writer, res.Board)
			return nil
		},
	}
}

func printBoard(w io.Writer, b leaderboarddomain.Board) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tNAME\tCLUB\tCATEGORY\tBEST\tAVG\tX\tEVENTS")
	for _, e := range b.Data {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%.1f\t%.1f\t%d\t%d\n",
			e.Rank, e.UserName, e.Club, e.Category, e.BestScore, e.AverageScore, e.TotalXCount, e.EventCount)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "page %d of %d (%d entries)\n", b.Page, b.TotalPages, b.Total)
}

func printStatistics(w io.Writer, s *leaderboarddomain.Statistics) {
	rank := func(r *int) string {
		if r == nil {
			return "-"
		}
		return strconv.Itoa(*r)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Shooter\t%s\n", s.ShooterName)
	fmt.Fprintf(tw, "Club\t%s\n", s.Club)
	fmt.Fprintf(tw, "Category\t%s\n", s.Category)
	fmt.Fprintf(tw, "Scores\t%d\n", s.TotalScores)
	fmt.Fprintf(tw, "Best\t%.1f\n", s.BestScore)
	fmt.Fprintf(tw, "Average\t%.1f\n", s.AverageScore)
	fmt.Fprintf(tw, "X count\t%d\n", s.TotalXCount)
	fmt.Fprintf(tw, "Rank\t%s (club %s, category %s)\n", rank(s.CurrentRank), rank(s.ClubRank), rank(s.CategoryRank))
	_ = tw.Flush()
}
