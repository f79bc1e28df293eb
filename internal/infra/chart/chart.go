package chart

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/IT-Nick/assessment-bot/internal/domain/report"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	primaryColor    = drawing.ColorFromHex("2b6cb0")
	comparisonColor = drawing.ColorFromHex("ed8936")
)

// Renderer рисует столбчатую диаграмму по категориям в PNG
type Renderer struct {
	Width  int
	Height int
}

// NewRenderer создает Renderer с размерами по умолчанию
func NewRenderer() *Renderer {
	return &Renderer{Width: 1024, Height: 512}
}

// Render рисует график. Ряд сравнения выводится столбцами рядом с основными значениями.
func (r *Renderer) Render(c report.Chart) ([]byte, error) {
	if len(c.Values) == 0 {
		return nil, errors.New("chart has no values")
	}

	var bars []gochart.Value
	for i, v := range c.Values {
		label := c.Labels[i]
		if c.Comparison != nil {
			label = fmt.Sprintf("%s (%s)", label, c.Name)
		}
		bars = append(bars, gochart.Value{Value: v, Label: label, Style: barStyle(primaryColor)})
		if c.Comparison != nil && i < len(c.Comparison.Values) {
			bars = append(bars, gochart.Value{
				Value: c.Comparison.Values[i],
				Label: fmt.Sprintf("%s (%s)", c.Labels[i], c.Comparison.Name),
				Style: barStyle(comparisonColor),
			})
		}
	}

	graph := gochart.BarChart{
		Title:  c.Title,
		Width:  r.Width,
		Height: r.Height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10},
		},
		BarWidth: 40,
		XAxis:    gochart.Style{TextRotationDegrees: 30},
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: 10},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return buf.Bytes(), nil
}

func barStyle(color drawing.Color) gochart.Style {
	return gochart.Style{FillColor: color, StrokeColor: color, StrokeWidth: 1}
}
