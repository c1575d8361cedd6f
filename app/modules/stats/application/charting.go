package statsservice

import (
	"bytes"
	"fmt"

	clubdb "github.com/Black-And-White-Club/league-bot/app/modules/club/infrastructure/repositories"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Palette holds the colors of a rendered chart.
type Palette struct {
	Background drawing.Color
	Bar        drawing.Color
	Text       drawing.Color
}

// DefaultPalette renders light text on a dark background.
var DefaultPalette = Palette{
	Background: drawing.ColorFromHex("1e2124"),
	Bar:        drawing.ColorFromHex("3ba55c"),
	Text:       drawing.ColorFromHex("dcddde"),
}

const (
	chartHeight   = 400
	barWidth      = 60
	barSpacing    = 30
	chartMinWidth = 400
	chartPadding  = 160
)

// GenerateBudgetChart produces a PNG bar chart of club budgets in the order given.
func GenerateBudgetChart(clubs []clubdb.Club, palette Palette) ([]byte, error) {
	if len(clubs) == 0 {
		return renderNoDataPlaceholder(palette, "No clubs yet")
	}

	bars := make([]chart.Value, len(clubs))
	maxBudget := 0.0
	for i, c := range clubs {
		v := c.Budget.InexactFloat64()
		bars[i] = chart.Value{
			Label: c.Name,
			Value: v,
			Style: chart.Style{
				FillColor:   palette.Bar,
				StrokeColor: palette.Bar,
			},
		}
		maxBudget = max(maxBudget, v)
	}
	// A flat range fails to render.
	if maxBudget == 0 {
		maxBudget = 1
	}

	text := chart.Style{FontColor: palette.Text}
	graph := chart.BarChart{
		Title:      "Club budgets",
		TitleStyle: text,
		Width:      max(chartMinWidth, len(bars)*(barWidth+barSpacing)+chartPadding),
		Height:     chartHeight,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Background: chart.Style{
			FillColor: palette.Background,
			Padding:   chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		Canvas: chart.Style{FillColor: palette.Background},
		XAxis:  text,
		YAxis: chart.YAxis{
			Style: text,
			Range: &chart.ContinuousRange{Min: 0, Max: maxBudget * 1.1},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render budget chart: %w", err)
	}
	return buf.Bytes(), nil
}

// renderNoDataPlaceholder draws an empty axis titled with msg.
func renderNoDataPlaceholder(palette Palette, msg string) ([]byte, error) {
	text := chart.Style{FontColor: palette.Text}
	graph := chart.BarChart{
		Title:      msg,
		TitleStyle: text,
		Width:      chartMinWidth,
		Height:     200,
		BarWidth:   barWidth,
		Background: chart.Style{FillColor: palette.Background, Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		Canvas:     chart.Style{FillColor: palette.Background},
		XAxis:      text,
		YAxis:      chart.YAxis{Style: text, Range: &chart.ContinuousRange{Min: 0, Max: 1}},
		Bars:       []chart.Value{{Label: "-", Value: 0}},
	}
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render placeholder chart: %w", err)
	}
	return buf.Bytes(), nil
}
