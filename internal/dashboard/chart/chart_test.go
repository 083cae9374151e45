package chart

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBarsRendersOneRectPerValue(t *testing.T) {
	out, err := Bars(0, 0, []Series{
		{Label: "Sales", Values: []float64{1200, 900, 1500}},
		{Label: "Purchases", Values: []float64{800, 1100, 700}},
	}, []string{"Jan", "Feb", "Mar"}, Options{Title: "Sales vs purchases"})
	require.NoError(t, err)
	html := string(out)
	assert.True(t, strings.HasPrefix(html, "<svg"))
	assert.Equal(t, 6+2, strings.Count(html, "<rect"), "six bars plus two legend swatches")
	assert.Contains(t, html, `aria-labelledby="sales-vs-purchases-bar-title sales-vs-purchases-bar-desc"`)
	assert.Contains(t, html, "1.5k")
}

func TestLinesEscapesLabels(t *testing.T) {
	out, err := Lines(400, 200, []Series{
		{Label: "Ordered", Values: []float64{3, 5}},
		{Label: "Delivered", Values: []float64{2, 5}},
	}, []string{"<Jan>", "Feb"}, Options{})
	require.NoError(t, err)
	html := string(out)
	assert.Equal(t, 2, strings.Count(html, "<path"))
	assert.Equal(t, 4, strings.Count(html, "<circle"))
	assert.Contains(t, html, "&lt;Jan&gt;")
	assert.NotContains(t, html, "<Jan>")
}

func TestChartRejectsMismatchedSeries(t *testing.T) {
	_, err := Lines(0, 0, []Series{{Label: "a", Values: []float64{1}}}, []string{"x", "y"}, Options{})
	assert.Error(t, err)
	_, err = Bars(0, 0, nil, []string{"x"}, Options{})
	assert.Error(t, err)
	_, err = Bars(10, 10, []Series{{Values: []float64{1}}}, []string{"x"}, Options{})
	assert.Error(t, err)
}

func TestFlatSeriesStillRenders(t *testing.T) {
	out, err := Lines(0, 0, []Series{{Label: "Zero", Values: []float64{0, 0, 0}}}, []string{"a", "b", "c"}, Options{})
	require.NoError(t, err)
	assert.NotContains(t, string(out), "NaN")
}
