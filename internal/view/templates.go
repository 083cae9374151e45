package view

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/stockdesk/stockdesk/internal/shared"
	"github.com/stockdesk/stockdesk/web"
)

// Engine renders HTML templates.
type Engine struct {
	templates *template.Template
}

// Options tune how values are formatted in templates.
type Options struct {
	// CurrencyLabel prefixes money amounts. Empty means "$".
	CurrencyLabel string
}

// TemplateData contains values shared across templates.
type TemplateData struct {
	Title       string
	CSRFToken   string
	Flash       *shared.FlashMessage
	CurrentPath string
	User        *shared.Principal
	Data        any
}

// NewEngine parses the embedded templates.
func NewEngine(opts Options) (*Engine, error) {
	tpl, err := template.New("root").Funcs(Funcs(opts)).ParseFS(web.Templates, "templates/layouts/*.html", "templates/partials/*.html", "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	return &Engine{templates: tpl}, nil
}

// Funcs returns the template helpers.
func Funcs(opts Options) template.FuncMap {
	label := opts.CurrencyLabel
	if label == "" {
		label = "$"
	}
	printer := message.NewPrinter(language.English)
	return template.FuncMap{
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("02 Jan 2006 15:04")
		},
		"money": func(v any) string {
			return label + printer.Sprintf("%.2f", toFloat(v))
		},
		"number": func(v any) string {
			return printer.Sprintf("%d", int64(toFloat(v)))
		},
		"statusClass": statusClass,
		"active": func(current, prefix string) bool {
			if prefix == "/" {
				return current == "/"
			}
			return strings.HasPrefix(current, prefix)
		},
		"dict": func(pairs ...any) (map[string]any, error) {
			if len(pairs)%2 != 0 {
				return nil, fmt.Errorf("dict: odd number of arguments")
			}
			out := make(map[string]any, len(pairs)/2)
			for i := 0; i < len(pairs); i += 2 {
				key, ok := pairs[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
				}
				out[key] = pairs[i+1]
			}
			return out, nil
		},
		"add": func(a, b int) int { return a + b },
		"selected": func(a, b int64) template.HTMLAttr {
			if a == b {
				return "selected"
			}
			return ""
		},
		"title": func(s string) string {
			s = strings.ReplaceAll(s, "-", " ")
			if s == "" {
				return s
			}
			return strings.ToUpper(s[:1]) + s[1:]
		},
	}
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case decimal.Decimal:
		f, _ := n.Float64()
		return f
	case *int64:
		if n == nil {
			return 0
		}
		return float64(*n)
	}
	return 0
}

// statusClass maps stock and order statuses to badge classes.
func statusClass(status any) string {
	switch fmt.Sprint(status) {
	case "in_stock", "confirmed":
		return "badge-ok"
	case "low_stock", "pending", "out-for-delivery":
		return "badge-warn"
	case "out_of_stock", "delayed", "returned":
		return "badge-bad"
	}
	return "badge-muted"
}

// Render executes a named template with TemplateData.
func (e *Engine) Render(w http.ResponseWriter, name string, data TemplateData) error {
	if e == nil {
		return fmt.Errorf("template engine not initialised")
	}
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	}
	return e.templates.ExecuteTemplate(w, name, data)
}
