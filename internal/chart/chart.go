// Package chart renders cost composition pie charts.
package chart

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/Simplici0/amelie/internal/costmodel"
	"github.com/Simplici0/amelie/internal/report"
)

// Format selects the image encoding.
type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

const (
	defaultWidth  = 800
	defaultHeight = 800
)

// Highlighted categories are drawn with a heavier outline. They are the
// main cost drivers of a batch.
var Highlighted = []string{"Reagents", "Energy", "Labor"}

var highlightStyle = chart.Style{
	StrokeColor: drawing.ColorBlack,
	StrokeWidth: 8,
}

var (
	// ErrNoData is returned for mappings that have nothing to draw.
	ErrNoData = errors.New("chart: no positive amounts to draw")

	ErrNegativeAmount = errors.New("chart: negative amount")
)

// ParseFormat accepts "png" or "svg".
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case PNG, SVG:
		return Format(s), nil
	default:
		return "", fmt.Errorf("chart: unsupported format %q", s)
	}
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	if f == SVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// Pie writes a pie chart of m to w. Zero amounts are left out of the chart.
func Pie(w io.Writer, title string, m costmodel.CostMapping, format Format) error {
	values, err := Values(m)
	if err != nil {
		return err
	}

	pie := chart.PieChart{
		Title:  title,
		Width:  defaultWidth,
		Height: defaultHeight,
		Values: values,
	}

	provider := chart.PNG
	if format == SVG {
		provider = chart.SVG
	}
	if err := pie.Render(provider, w); err != nil {
		return fmt.Errorf("render %s pie: %w", format, err)
	}
	return nil
}

// Values converts a mapping into labelled chart values, "Category (amount EUR)".
func Values(m costmodel.CostMapping) ([]chart.Value, error) {
	values := make([]chart.Value, 0, m.Len())
	for _, it := range m.Items() {
		if it.Amount.IsNegative() {
			return nil, fmt.Errorf("%w: %q", ErrNegativeAmount, it.Category)
		}
		if it.Amount.IsZero() {
			continue
		}
		v := chart.Value{
			Label: fmt.Sprintf("%s (%s)", it.Category, report.FormatEUR(it.Amount)),
			Value: it.Amount.InexactFloat64(),
		}
		if slices.Contains(Highlighted, it.Category) {
			v.Style = highlightStyle
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return nil, ErrNoData
	}
	return values, nil
}
