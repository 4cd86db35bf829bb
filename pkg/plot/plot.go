// Package plot renders the per-day activity series as a chart image.
package plot

import (
	"fmt"
	"os"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"twitterhistory/pkg/aggregate"
	"twitterhistory/pkg/models"
)

// WriteActivityChart renders the run's daily tweet counts as a dotted time
// series and writes it as a PNG at path. Interior dates with no tweets are
// zero-filled so the time axis is continuous.
func WriteActivityChart(path string, run *models.CollectionRun) error {
	buckets := aggregate.FillGaps(aggregate.PerDay(run.Records))
	if len(buckets) < 2 {
		return fmt.Errorf("need records on at least two days to plot, have %d", len(buckets))
	}

	xs := make([]float64, len(buckets))
	ys := make([]float64, len(buckets))
	for i, b := range buckets {
		xs[i] = float64(b.Date.UnixNano())
		ys[i] = float64(b.Count)
	}

	graph := chart.Chart{
		Title: fmt.Sprintf("Tweet activity %s (total = %d)", run.Subject, len(run.Records)),
		XAxis: chart.XAxis{
			Name:           "Time",
			ValueFormatter: chart.TimeDateValueFormatter,
		},
		YAxis: chart.YAxis{
			Name: "Number of tweets",
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeWidth: chart.Disabled,
					DotWidth:    3,
					DotColor:    drawing.ColorBlack,
				},
			},
		},
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err := graph.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}

	return nil
}
