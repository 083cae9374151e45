package dashboard

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/stockdesk/stockdesk/internal/console"
	"github.com/stockdesk/stockdesk/internal/platform/apiclient"
)

// Service loads the dashboard aggregates, optionally through a short lived
// cache. Entries are scoped to the backend token that loaded them.
type Service struct {
	repo   Repository
	cache  console.PageStore
	logger *slog.Logger
}

// NewService wires the repository with an optional cache.
func NewService(repo Repository, cache console.PageStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, cache: cache, logger: logger}
}

// Summary returns the KPI block.
func (s *Service) Summary(ctx context.Context) (KPI, error) {
	return cached(ctx, s, "kpi", s.repo.KPI)
}

// SalesVsPurchases returns the monthly sales and purchase totals.
func (s *Service) SalesVsPurchases(ctx context.Context) ([]SalesPurchasePoint, error) {
	return cached(ctx, s, SeriesSalesVsPurchases, s.repo.SalesVsPurchases)
}

// OrderSummary returns the monthly ordered and delivered counts.
func (s *Service) OrderSummary(ctx context.Context) ([]OrderSummaryPoint, error) {
	return cached(ctx, s, SeriesOrderSummary, s.repo.OrderSummary)
}

// TopProducts returns the best sellers.
func (s *Service) TopProducts(ctx context.Context) ([]TopProduct, error) {
	return cached(ctx, s, SeriesTopProducts, s.repo.TopProducts)
}

// LowStock returns products at or under their threshold.
func (s *Service) LowStock(ctx context.Context) ([]LowStockItem, error) {
	return cached(ctx, s, SeriesLowStock, s.repo.LowStock)
}

// Load fetches the KPI and every series concurrently. A failure is recorded
// against its own series and never cancels the others.
func (s *Service) Load(ctx context.Context) Snapshot {
	var (
		snap Snapshot
		mu   sync.Mutex
		g    errgroup.Group
	)
	snap.Errs = make(map[string]error)
	record := func(name string, err error) {
		if err == nil {
			return
		}
		mu.Lock()
		snap.Errs[name] = err
		mu.Unlock()
	}

	g.Go(func() error {
		kpi, err := s.Summary(ctx)
		if err != nil {
			snap.KPIErr = err
			return nil
		}
		snap.KPI = &kpi
		return nil
	})
	g.Go(func() error {
		points, err := s.SalesVsPurchases(ctx)
		snap.SalesVsPurchases = points
		record(SeriesSalesVsPurchases, err)
		return nil
	})
	g.Go(func() error {
		points, err := s.OrderSummary(ctx)
		snap.OrderSummary = points
		record(SeriesOrderSummary, err)
		return nil
	})
	g.Go(func() error {
		rows, err := s.TopProducts(ctx)
		snap.TopProducts = rows
		record(SeriesTopProducts, err)
		return nil
	})
	g.Go(func() error {
		rows, err := s.LowStock(ctx)
		snap.LowStock = rows
		record(SeriesLowStock, err)
		return nil
	})
	_ = g.Wait()
	return snap
}

func cached[T any](ctx context.Context, s *Service, name string, load func(context.Context) (T, error)) (T, error) {
	key := cacheKey(ctx, name)
	if s.cache != nil {
		var hit T
		ok, err := s.cache.GetJSON(ctx, key, &hit)
		if err != nil {
			s.logger.Warn("dashboard cache read failed", "error", err, "series", name)
		} else if ok {
			return hit, nil
		}
	}
	value, err := load(ctx)
	if err != nil {
		return value, err
	}
	if s.cache != nil {
		if err := s.cache.PutJSON(ctx, key, value); err != nil {
			s.logger.Warn("dashboard cache write failed", "error", err, "series", name)
		}
	}
	return value, nil
}

// cacheKey scopes an entry by a digest of the caller's backend token, so one
// user never reads aggregates loaded with another user's credentials.
func cacheKey(ctx context.Context, name string) string {
	scope := "anonymous"
	if token := apiclient.TokenFromContext(ctx); token != "" {
		sum := sha256.Sum256([]byte(token))
		scope = hex.EncodeToString(sum[:8])
	}
	return "dashboard:" + scope + ":" + name
}
