package leaderboardservice

import (
	"bytes"
	"time"

	leaderboarddomain "github.com/satrf/scorekeeper/app/modules/leaderboard/domain"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ChartPalette holds the colours used for score history charts.
type ChartPalette struct {
	Background  drawing.Color
	PrimaryLine drawing.Color
	AccentLine  drawing.Color
	TextColor   drawing.Color
}

// DefaultPalette is the SATRF green and gold.
var DefaultPalette = ChartPalette{
	Background:  drawing.ColorFromHex("ffffff"),
	PrimaryLine: drawing.ColorFromHex("1b5e20"),
	AccentLine:  drawing.ColorFromHex("f9a825"),
	TextColor:   drawing.ColorFromHex("212121"),
}

// GenerateScoreHistoryChart produces a PNG line chart of a shooter's totals.
// history must hold at least one point.
func GenerateScoreHistoryChart(history []leaderboarddomain.HistoryPoint, palette ChartPalette) ([]byte, error) {
	if len(history) == 0 {
		return nil, ErrShooterNotFound
	}

	xValues := make([]time.Time, len(history))
	yValues := make([]float64, len(history))
	minY, maxY := history[0].Total, history[0].Total
	for i, p := range history {
		xValues[i] = p.At
		yValues[i] = p.Total
		minY = min(minY, p.Total)
		maxY = max(maxY, p.Total)
	}

	mainSeries := chart.TimeSeries{
		Name:    "Total",
		XValues: xValues,
		YValues: yValues,
		Style: chart.Style{
			StrokeColor: palette.PrimaryLine,
			StrokeWidth: 2,
			DotWidth:    4,
			DotColor:    palette.AccentLine,
		},
	}

	xAxis := chart.XAxis{
		Name:           "Date",
		ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01-02"),
		Style: chart.Style{
			FontColor: palette.TextColor,
		},
	}
	yAxis := chart.YAxis{
		Name: "Total",
		Style: chart.Style{
			FontColor: palette.TextColor,
		},
	}

	// go-chart rejects zero-width ranges, so pad them.
	if minY == maxY {
		yAxis.Range = &chart.ContinuousRange{Min: minY - 5, Max: maxY + 5}
	}
	first, last := xValues[0], xValues[0]
	for _, t := range xValues {
		if t.Before(first) {
			first = t
		}
		if t.After(last) {
			last = t
		}
	}
	if first.Equal(last) {
		xAxis.Range = &chart.ContinuousRange{
			Min: chart.TimeToFloat64(first.Add(-24 * time.Hour)),
			Max: chart.TimeToFloat64(last.Add(24 * time.Hour)),
		}
	}

	graph := chart.Chart{
		Width:  800,
		Height: 400,
		Background: chart.Style{
			FillColor: palette.Background,
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		XAxis:  xAxis,
		YAxis:  yAxis,
		Series: []chart.Series{mainSeries},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
