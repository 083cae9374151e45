package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/stockdesk/stockdesk/internal/dashboard/chart"
	"github.com/stockdesk/stockdesk/internal/platform/httpx"
	"github.com/stockdesk/stockdesk/internal/view"
)

const panelTimeout = 5 * time.Second

// Handler serves the dashboard page and its panel fragments.
type Handler struct {
	logger  *slog.Logger
	service *Service
	view.Responder
}

// NewHandler constructs the handler.
func NewHandler(logger *slog.Logger, service *Service, responder view.Responder) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, Responder: responder}
}

// MountRoutes registers the dashboard routes on the root router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.Index)
	r.Get("/dashboard/panels/{panel}", h.Panel)
}

// Index renders the page once the KPI block is available. Series panels are
// fetched by the browser separately.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	kpi, err := h.service.Summary(r.Context())
	data := map[string]any{
		"Panels": []string{SeriesSalesVsPurchases, SeriesOrderSummary, SeriesTopProducts, SeriesLowStock},
	}
	if err != nil {
		h.logger.Error("load dashboard summary failed", "error", err)
		data["KPIErr"] = "Dashboard figures are unavailable right now."
	} else {
		data["KPI"] = kpi
	}
	h.Render(w, r, "pages/dashboard.html", "Dashboard", data, http.StatusOK)
}

// Panel renders one series as an HTML fragment, or as JSON when the client
// asks for it.
func (h *Handler) Panel(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "panel")
	ctx, cancel := context.WithTimeout(r.Context(), panelTimeout)
	defer cancel()

	data, err := h.loadPanel(ctx, name)
	if errors.Is(err, errUnknownPanel) {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "unknown panel "+name)
		return
	}
	if wantsJSON(r) {
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, data["Rows"])
		return
	}
	status := http.StatusOK
	if err != nil {
		h.logger.Warn("load dashboard panel failed", "error", err, "panel", name)
		data = map[string]any{"Panel": name, "Err": "Could not load this panel."}
	}
	h.Render(w, r, "partials/dashboard_panel.html", "", data, status)
}

var errUnknownPanel = errors.New("unknown panel")

func (h *Handler) loadPanel(ctx context.Context, name string) (map[string]any, error) {
	data := map[string]any{"Panel": name}
	switch name {
	case SeriesSalesVsPurchases:
		points, err := h.service.SalesVsPurchases(ctx)
		if err != nil {
			return data, err
		}
		data["Rows"] = points
		data["Chart"] = salesChart(points, h.logger)
	case SeriesOrderSummary:
		points, err := h.service.OrderSummary(ctx)
		if err != nil {
			return data, err
		}
		data["Rows"] = points
		data["Chart"] = orderChart(points, h.logger)
	case SeriesTopProducts:
		rows, err := h.service.TopProducts(ctx)
		if err != nil {
			return data, err
		}
		data["Rows"] = rows
	case SeriesLowStock:
		rows, err := h.service.LowStock(ctx)
		if err != nil {
			return data, err
		}
		data["Rows"] = rows
	default:
		return data, errUnknownPanel
	}
	return data, nil
}

func salesChart(points []SalesPurchasePoint, logger *slog.Logger) any {
	if len(points) == 0 {
		return nil
	}
	labels := make([]string, len(points))
	sales := make([]float64, len(points))
	purchases := make([]float64, len(points))
	for i, p := range points {
		labels[i], sales[i], purchases[i] = p.Month, p.Sales, p.Purchases
	}
	out, err := chart.Bars(0, 0, []chart.Series{
		{Label: "Sales", Values: sales},
		{Label: "Purchases", Values: purchases},
	}, labels, chart.Options{Title: "Sales vs purchases", Description: "Monthly sales and purchase totals"})
	if err != nil {
		logger.Warn("render sales chart failed", "error", err)
		return nil
	}
	return out
}

func orderChart(points []OrderSummaryPoint, logger *slog.Logger) any {
	if len(points) == 0 {
		return nil
	}
	labels := make([]string, len(points))
	ordered := make([]float64, len(points))
	delivered := make([]float64, len(points))
	for i, p := range points {
		labels[i], ordered[i], delivered[i] = p.Month, float64(p.Ordered), float64(p.Delivered)
	}
	out, err := chart.Lines(0, 0, []chart.Series{
		{Label: "Ordered", Values: ordered},
		{Label: "Delivered", Values: delivered},
	}, labels, chart.Options{Title: "Order summary", Description: "Orders placed and delivered per month"})
	if err != nil {
		logger.Warn("render order chart failed", "error", err)
		return nil
	}
	return out
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
