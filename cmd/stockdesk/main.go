package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/stockdesk/stockdesk/internal/app"
	"github.com/stockdesk/stockdesk/internal/auth"
	"github.com/stockdesk/stockdesk/internal/dashboard"
	jobmetrics "github.com/stockdesk/stockdesk/internal/jobs"
	"github.com/stockdesk/stockdesk/internal/masterdata/categories"
	"github.com/stockdesk/stockdesk/internal/masterdata/products"
	"github.com/stockdesk/stockdesk/internal/masterdata/suppliers"
	"github.com/stockdesk/stockdesk/internal/observability"
	"github.com/stockdesk/stockdesk/internal/platform/apiclient"
	"github.com/stockdesk/stockdesk/internal/platform/cache"
	"github.com/stockdesk/stockdesk/internal/procurement"
	"github.com/stockdesk/stockdesk/internal/shared"
	"github.com/stockdesk/stockdesk/internal/view"
	"github.com/stockdesk/stockdesk/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	redisClient, err := cache.New(ctx, cfg.Redis())
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "stockdesk_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)
	submissions := shared.NewIdempotencyStore(redisClient, cfg.SubmissionTTL)
	pages := cache.NewStore(redisClient, "stockdesk:pages", cfg.PageMemoTTL)
	dashboardCache := cache.NewStore(redisClient, "stockdesk", cfg.DashboardCacheTTL)

	templates, err := view.NewEngine(view.Options{CurrencyLabel: cfg.CurrencyLabel})
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}
	responder := view.Responder{Templates: templates, CSRF: csrfManager, Logger: logger}

	metrics := observability.NewMetrics()
	jobMetrics := jobmetrics.NewMetrics(metrics.Registerer())

	api := apiclient.New(apiclient.Config{
		BaseURL:  cfg.APIBaseURL,
		Timeout:  cfg.APITimeout,
		Logger:   logger,
		Observer: metrics,
	})

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB}
	jobClient := jobs.NewClient(redisOpts, jobMetrics, logger)
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	authService := auth.NewService(auth.NewClient(api), logger)
	categoryService := categories.NewService(categories.NewRepository(api), cfg.FormCloseDelay)
	supplierService := suppliers.NewService(suppliers.NewRepository(api), cfg.APIPerPage, cfg.FormCloseDelay)
	productService := products.NewService(products.NewRepository(api), cfg.APIPerPage, cfg.FormCloseDelay)
	orderService := procurement.NewService(procurement.NewRepository(api), cfg.APIPerPage, cfg.FormCloseDelay,
		procurement.WithReminders(jobClient, cfg.ReminderHour, logger),
	)
	dashboardService := dashboard.NewService(dashboard.NewRepository(api), dashboardCache, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		SessionManager:    sessionManager,
		CSRFManager:       csrfManager,
		AuthHandler:       auth.NewHandler(logger, authService, responder),
		DashboardHandler:  dashboard.NewHandler(logger, dashboardService, responder),
		ProductsHandler:   products.NewHandler(logger, productService, categoryService, supplierService, pages, submissions, responder, dashboardService.ProductSidecars()...),
		SuppliersHandler:  suppliers.NewHandler(logger, supplierService, pages, submissions, responder),
		CategoriesHandler: categories.NewHandler(logger, categoryService, responder),
		OrdersHandler: procurement.NewHandler(logger, orderService, procurement.References{
			Products:   productService,
			Suppliers:  supplierService,
			Categories: categoryService,
		}, pages, submissions, responder, dashboardService.OrderSidecars()...),
		JobHandler: jobs.NewHandler(inspector, logger),
		Metrics:    metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("api", cfg.APIBaseURL))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
