package chart

import (
	"fmt"
	"html/template"
	"strings"
)

// Bars renders grouped bars, one group per label.
func Bars(width, height int, series []Series, labels []string, opts Options) (template.HTML, error) {
	f, err := newFrame(width, height, series, labels, opts)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	f.open(&b, opts, "bar")

	group := f.innerW / float64(len(labels))
	bar := group * 0.8 / float64(len(series))
	zero := f.y(0)
	for i, label := range labels {
		left := f.padding + float64(i)*group + group*0.1
		for j, s := range series {
			top := f.y(s.Values[i])
			y, h := top, zero-top
			if h < 0 {
				y, h = zero, -h
			}
			fmt.Fprintf(&b, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" aria-label="%s %s"></rect>`,
				left+float64(j)*bar, y, bar, h, colorOf(s, j), template.HTMLEscapeString(s.Label), template.HTMLEscapeString(label))
		}
		f.label(&b, f.padding+float64(i)*group+group/2, label)
	}
	f.legend(&b, series)
	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}
