// Command fakeapi serves an in-memory inventory backend for local development.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/kelseyhightower/envconfig"

	"github.com/stockdesk/stockdesk/internal/app"
	"github.com/stockdesk/stockdesk/internal/testing/fakeapi"
)

type config struct {
	Addr     string `envconfig:"FAKEAPI_ADDR" default:":8000"`
	Prefix   string `envconfig:"FAKEAPI_PREFIX" default:"/api"`
	Email    string `envconfig:"FAKEAPI_EMAIL" default:"demo@stockdesk.local"`
	Password string `envconfig:"FAKEAPI_PASSWORD" default:"demo-password"`
}

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping fake backend startup")
		return
	}

	var cfg config
	if err := envconfig.Process("", &cfg); err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := app.NewLogger(nil)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend := fakeapi.New()
	seed(backend, cfg)

	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Mount(cfg.Prefix, backend.Handler())

	server := &http.Server{Addr: cfg.Addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		logger.Info("starting fake backend", slog.String("addr", cfg.Addr), slog.String("user", cfg.Email))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("fake backend", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}

func seed(b *fakeapi.Server, cfg config) {
	b.AddUser("Demo", cfg.Email, cfg.Password)

	cats := b.Seed("categories",
		fakeapi.Record{"name": "Groceries"},
		fakeapi.Record{"name": "Beverages"},
		fakeapi.Record{"name": "Household"},
	)
	sups := b.Seed("suppliers",
		fakeapi.Record{"name": "Fresh Farms", "phone": "+1 555 0100", "email": "orders@freshfarms.test", "takes_back_returns": true},
		fakeapi.Record{"name": "Northwind Drinks", "phone": "+1 555 0101", "takes_back_returns": false},
	)
	prods := b.Seed("products",
		fakeapi.Record{"name": "Rice 5kg", "category_id": cats[0], "supplier_id": sups[0], "buying_price": 6.5, "selling_price": 9, "quantity": 40, "threshold": 10, "expiry_date": "2027-06-30"},
		fakeapi.Record{"name": "Flour 1kg", "category_id": cats[0], "supplier_id": sups[0], "buying_price": 1.2, "selling_price": 2, "quantity": 4, "threshold": 10, "expiry_date": "2027-01-31"},
		fakeapi.Record{"name": "Orange juice", "category_id": cats[1], "supplier_id": sups[1], "buying_price": 1.8, "selling_price": 3.2, "quantity": 0, "threshold": 12, "expiry_date": "2026-12-15"},
		fakeapi.Record{"name": "Dish soap", "category_id": cats[2], "supplier_id": sups[0], "buying_price": 2.1, "selling_price": 3.5, "quantity": 25, "threshold": 5, "expiry_date": "2028-03-01"},
	)
	b.Seed("orders",
		fakeapi.Record{"product_id": prods[1], "supplier_id": sups[0], "category_id": cats[0], "quantity": 50, "order_value": 60, "order_date": "2026-10-10", "expected_date": "2026-10-20", "status": "confirmed",
			"product": fakeapi.Record{"id": prods[1], "name": "Flour 1kg"}},
		fakeapi.Record{"product_id": prods[2], "supplier_id": sups[1], "category_id": cats[1], "quantity": 24, "order_value": 43.2, "order_date": "2026-10-01", "expected_date": "2026-10-08", "status": "delayed",
			"product": fakeapi.Record{"id": prods[2], "name": "Orange juice"}},
	)

	b.SetStat("dashboard", map[string]any{
		"total_categories": 3, "total_products": 4, "total_suppliers": 2, "total_orders": 2,
		"quantity_in_hand": 69, "to_be_received": 74,
		"sales_last7":     map[string]any{"units": 38, "revenue": 212.4, "profit": 71.9, "cost": 140.5},
		"purchase_last7":  map[string]any{"orders": 1, "cost": 60, "returned": 0, "returned_cost": 0, "on_the_way": 1, "on_the_way_cost": 60},
		"low_stock_count": 1, "out_of_stock_count": 1, "delayed_orders": 1,
	})
	b.SetStat("stats/sales_vs_purchases", []map[string]any{
		{"month": "Jul", "sales": 1800, "purchases": 1200},
		{"month": "Aug", "sales": 2100, "purchases": 1500},
		{"month": "Sep", "sales": 1950, "purchases": 1650},
		{"month": "Oct", "sales": 900, "purchases": 700},
	})
	b.SetStat("stats/order_summary", map[string]any{"data": []map[string]any{
		{"month": "Jul", "ordered": 12, "delivered": 11},
		{"month": "Aug", "ordered": 15, "delivered": 13},
		{"month": "Sep", "ordered": 10, "delivered": 10},
		{"month": "Oct", "ordered": 2, "delivered": 0},
	}})
	b.SetStat("stats/top-products", []map[string]any{
		{"product": "Rice 5kg", "sold": 30, "remaining": 40, "price": 9},
		{"product": "Dish soap", "sold": 8, "remaining": 25, "price": 3.5},
	})
	b.SetStat("stats/low-stock", []map[string]any{
		{"id": prods[1], "name": "Flour 1kg", "quantity": 4, "threshold": 10},
		{"id": prods[2], "name": "Orange juice", "quantity": 0, "threshold": 12},
	})
}
