package charts

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/dkozlov/finance_assistant/internal/ledger"
)

// ChartGenerator renders report charts as PNG bytes.
type ChartGenerator struct{}

func NewChartGenerator() *ChartGenerator {
	return &ChartGenerator{}
}

// calculateMovingAverage computes a trailing window average.
func calculateMovingAverage(values []float64, window int) []float64 {
	result := make([]float64, len(values))
	for i := range values {
		count := 0
		sum := 0.0
		for j := max(0, i-window+1); j <= i; j++ {
			sum += values[j]
			count++
		}
		result[i] = sum / float64(count)
	}
	return result
}

// GenerateCategoryPieChart renders the month's spending split by
// category. Returns nil bytes when there is nothing to draw.
func (g *ChartGenerator) GenerateCategoryPieChart(summary *ledger.SpendingSummary) ([]byte, error) {
	if summary.TotalSpent <= 0 {
		return nil, nil
	}

	values := make([]chart.Value, 0, len(summary.CategoryOrder))
	// Slivers under 1% clutter the legend more than they inform.
	for _, category := range summary.CategoryOrder {
		amount := summary.CategoryBreakdown[category]
		percentage := amount / summary.TotalSpent * 100
		if percentage > 1.0 {
			values = append(values, chart.Value{
				Label: fmt.Sprintf("%s: $%.0f (%.1f%%)", category, amount, percentage),
				Value: amount,
				Style: chart.Style{
					FontSize:  12,
					FontColor: chart.ColorBlack,
				},
			})
		}
	}
	if len(values) == 0 {
		return nil, nil
	}

	pie := chart.PieChart{
		Title:  fmt.Sprintf("Spending by Category - %s %d", summary.Month, summary.Year),
		Width:  800,
		Height: 800,
		Values: values,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   50,
				Right:  50,
				Bottom: 50,
			},
			FillColor: chart.ColorWhite,
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := pie.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render category pie chart: %w", err)
	}
	return buffer.Bytes(), nil
}

// GenerateSpendingTrendChart renders daily spend for the month with a
// 7-day moving average. The daily map is keyed "2006-01-02".
func (g *ChartGenerator) GenerateSpendingTrendChart(daily map[string]float64) ([]byte, error) {
	if len(daily) < 2 {
		return nil, nil
	}

	days := make([]string, 0, len(daily))
	for day := range daily {
		days = append(days, day)
	}
	sort.Strings(days)

	xValues := make([]time.Time, len(days))
	yValues := make([]float64, len(days))
	for i, day := range days {
		t, err := time.Parse("2006-01-02", day)
		if err != nil {
			return nil, fmt.Errorf("bad day key %q: %w", day, err)
		}
		xValues[i] = t
		yValues[i] = daily[day]
	}
	maValues := calculateMovingAverage(yValues, 7)

	graph := chart.Chart{
		Width:  1200,
		Height: 600,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   50,
				Right:  50,
				Bottom: 50,
			},
			FillColor: chart.ColorWhite,
		},
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("01/02"),
			Style: chart.Style{
				FontSize:  12,
				FontColor: chart.ColorBlack,
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("$%.0f", v.(float64))
			},
			Style: chart.Style{
				FontSize:  12,
				FontColor: chart.ColorBlack,
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Daily spending",
				XValues: xValues,
				YValues: yValues,
				Style: chart.Style{
					StrokeColor: chart.ColorRed,
					StrokeWidth: 2,
				},
			},
			chart.TimeSeries{
				Name:    "7-day average",
				XValues: xValues,
				YValues: maValues,
				Style: chart.Style{
					StrokeColor:     chart.ColorRed.WithAlpha(100),
					StrokeWidth:     2,
					StrokeDashArray: []float64{5.0, 5.0},
				},
			},
		},
	}

	graph.Elements = []chart.Renderable{
		chart.Legend(&graph, chart.Style{
			FontSize:  12,
			FontColor: chart.ColorBlack,
		}),
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render spending trend chart: %w", err)
	}
	return buffer.Bytes(), nil
}
