// Package chart renders the dashboard series as inline SVG.
package chart

import (
	"fmt"
	"html/template"
	"math"
	"strings"
)

// Defaults for dashboard charts.
const (
	DefaultWidth   = 640
	DefaultHeight  = 220
	DefaultPadding = 28.0
	DefaultTicks   = 5
)

// Series is one named set of values.
type Series struct {
	Label  string
	Values []float64
	Color  string
}

// Options customises a chart.
type Options struct {
	Title       string
	Description string
	AxisColor   string
	GridColor   string
	Padding     float64
	TickCount   int
}

var palette = []string{"#465fff", "#f59e0b", "#10b981", "#ef4444"}

type frame struct {
	width, height int
	padding       float64
	innerW        float64
	innerH        float64
	min, max      float64
	axis, grid    string
	ticks         int
}

func newFrame(width, height int, series []Series, labels []string, opts Options) (frame, error) {
	if len(labels) == 0 {
		return frame{}, fmt.Errorf("chart: labels required")
	}
	if len(series) == 0 {
		return frame{}, fmt.Errorf("chart: series required")
	}
	for _, s := range series {
		if len(s.Values) != len(labels) {
			return frame{}, fmt.Errorf("chart: series %q has %d values for %d labels", s.Label, len(s.Values), len(labels))
		}
	}
	f := frame{
		width:   width,
		height:  height,
		padding: opts.Padding,
		ticks:   opts.TickCount,
		axis:    fallback(opts.AxisColor, "#667085"),
		grid:    fallback(opts.GridColor, "#e4e7ec"),
	}
	if f.width <= 0 {
		f.width = DefaultWidth
	}
	if f.height <= 0 {
		f.height = DefaultHeight
	}
	if f.padding <= 0 {
		f.padding = DefaultPadding
	}
	if f.ticks <= 0 {
		f.ticks = DefaultTicks
	}
	f.innerW = float64(f.width) - 2*f.padding
	f.innerH = float64(f.height) - 2*f.padding
	if f.innerW <= 0 || f.innerH <= 0 {
		return frame{}, fmt.Errorf("chart: viewport too small")
	}
	f.min, f.max = 0, 0
	for _, s := range series {
		for _, v := range s.Values {
			f.min = math.Min(f.min, v)
			f.max = math.Max(f.max, v)
		}
	}
	if f.max-f.min < 1e-9 {
		f.max = f.min + 1
	}
	return f, nil
}

func (f frame) y(v float64) float64 {
	return f.padding + f.innerH - (v-f.min)*f.innerH/(f.max-f.min)
}

func (f frame) open(b *strings.Builder, opts Options, kind string) {
	titleID := makeID(opts.Title, kind+"-title")
	descID := makeID(opts.Title, kind+"-desc")
	fmt.Fprintf(b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" role="img" aria-labelledby="%s %s">`, f.width, f.height, titleID, descID)
	fmt.Fprintf(b, `<title id="%s">%s</title>`, titleID, template.HTMLEscapeString(fallback(opts.Title, "Chart")))
	fmt.Fprintf(b, `<desc id="%s">%s</desc>`, descID, template.HTMLEscapeString(fallback(opts.Description, "Monthly figures")))
	for i := 0; i <= f.ticks; i++ {
		ratio := float64(i) / float64(f.ticks)
		value := f.min + (f.max-f.min)*ratio
		y := f.y(value)
		fmt.Fprintf(b, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="0.5" aria-hidden="true"></line>`, f.padding, y, f.padding+f.innerW, y, f.grid)
		fmt.Fprintf(b, `<text x="%.2f" y="%.2f" fill="%s" font-size="10" text-anchor="end">%s</text>`, f.padding-6, y+4, f.axis, formatTick(value))
	}
	fmt.Fprintf(b, `<g stroke="%s" aria-label="Axes">`, f.axis)
	fmt.Fprintf(b, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke-width="1"></line>`, f.padding, f.padding, f.padding, f.padding+f.innerH)
	fmt.Fprintf(b, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke-width="1"></line>`, f.padding, f.y(0), f.padding+f.innerW, f.y(0))
	b.WriteString("</g>")
}

func (f frame) legend(b *strings.Builder, series []Series) {
	x := f.padding
	y := math.Max(f.padding-12, 12)
	for i, s := range series {
		fmt.Fprintf(b, `<rect x="%.2f" y="%.2f" width="10" height="10" fill="%s"></rect>`, x, y-8, colorOf(s, i))
		fmt.Fprintf(b, `<text x="%.2f" y="%.2f" fill="%s" font-size="10">%s</text>`, x+14, y, f.axis, template.HTMLEscapeString(s.Label))
		x += 90
	}
}

func (f frame) label(b *strings.Builder, x float64, text string) {
	fmt.Fprintf(b, `<text x="%.2f" y="%.2f" fill="%s" font-size="10" text-anchor="middle">%s</text>`, x, f.padding+f.innerH+14, f.axis, template.HTMLEscapeString(text))
}

func colorOf(s Series, i int) string {
	if s.Color != "" {
		return s.Color
	}
	return palette[i%len(palette)]
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}

func makeID(base, suffix string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '-'
	}, strings.ToLower(strings.TrimSpace(base)))
	cleaned = strings.Trim(cleaned, "-")
	if cleaned == "" {
		cleaned = "chart"
	}
	return cleaned + "-" + suffix
}

func formatTick(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("%.1fk", v/1_000)
	case math.Abs(v-math.Round(v)) < 1e-9:
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
