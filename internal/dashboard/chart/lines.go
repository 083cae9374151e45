package chart

import (
	"fmt"
	"html/template"
	"strings"
)

// Lines renders one polyline per series with a dot on every point.
func Lines(width, height int, series []Series, labels []string, opts Options) (template.HTML, error) {
	f, err := newFrame(width, height, series, labels, opts)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	f.open(&b, opts, "line")

	x := func(i int) float64 {
		if len(labels) == 1 {
			return f.padding + f.innerW/2
		}
		return f.padding + float64(i)*f.innerW/float64(len(labels)-1)
	}
	for j, s := range series {
		color := colorOf(s, j)
		var path strings.Builder
		for i, v := range s.Values {
			cmd := " L"
			if i == 0 {
				cmd = "M"
			}
			fmt.Fprintf(&path, "%s%.2f %.2f", cmd, x(i), f.y(v))
		}
		fmt.Fprintf(&b, `<path d="%s" fill="none" stroke="%s" stroke-width="2" stroke-linejoin="round" stroke-linecap="round"></path>`, path.String(), color)
		for i, v := range s.Values {
			fmt.Fprintf(&b, `<circle cx="%.2f" cy="%.2f" r="3" fill="%s"></circle>`, x(i), f.y(v), color)
		}
	}
	for i, label := range labels {
		f.label(&b, x(i), label)
	}
	f.legend(&b, series)
	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}
