package dashboard

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockdesk/stockdesk/internal/platform/apiclient"
	"github.com/stockdesk/stockdesk/internal/platform/cache"
	"github.com/stockdesk/stockdesk/internal/testing/fakeapi"
	"github.com/stockdesk/stockdesk/internal/view"
)

func newBackend(t *testing.T) (*fakeapi.Server, *apiclient.Client) {
	t.Helper()
	backend := fakeapi.New()
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)
	return backend, apiclient.New(apiclient.Config{BaseURL: srv.URL, Timeout: 2 * time.Second})
}

func seedStats(backend *fakeapi.Server) {
	backend.SetStat("dashboard", map[string]any{
		"total_products":     12,
		"total_orders":       4,
		"low_stock_count":    2,
		"out_of_stock_count": 1,
		"sales_last7":        map[string]any{"units": 30, "revenue": 450.5},
	})
	backend.SetStat("stats/sales_vs_purchases", []map[string]any{
		{"month": "Jan", "sales": 1200, "purchases": 800},
		{"month": "Feb", "sales": 900, "purchases": 1100},
	})
	backend.SetStat("stats/order_summary", map[string]any{"data": []map[string]any{
		{"month": "Jan", "ordered": 5, "delivered": 3},
	}})
	backend.SetStat("stats/top-products", []map[string]any{
		{"product": "Rice 5kg", "sold": 40, "remaining": 12, "price": 9.5},
	})
	backend.SetStat("stats/low-stock", []map[string]any{
		{"id": 3, "name": "Salt", "quantity": 1, "threshold": 5},
	})
}

func TestLoadCollectsEverySeries(t *testing.T) {
	backend, client := newBackend(t)
	seedStats(backend)
	svc := NewService(NewRepository(client), nil, nil)

	snap := svc.Load(context.Background())
	require.NoError(t, snap.KPIErr)
	require.NotNil(t, snap.KPI)
	assert.Equal(t, int64(12), snap.KPI.TotalProducts)
	assert.Equal(t, 450.5, snap.KPI.SalesLast7.Revenue)
	assert.Len(t, snap.SalesVsPurchases, 2)
	assert.Equal(t, []OrderSummaryPoint{{Month: "Jan", Ordered: 5, Delivered: 3}}, snap.OrderSummary)
	assert.Equal(t, "Rice 5kg", snap.TopProducts[0].Product)
	assert.Equal(t, int64(5), snap.LowStock[0].Threshold)
	assert.Empty(t, snap.Errs)
}

func TestSeriesFailuresAreIndependent(t *testing.T) {
	backend, client := newBackend(t)
	seedStats(backend)
	backend.Fail(http.MethodGet, "/stats/top-products", http.StatusInternalServerError, 1)
	svc := NewService(NewRepository(client), nil, nil)

	snap := svc.Load(context.Background())
	require.NotNil(t, snap.KPI)
	assert.ErrorIs(t, snap.Errs[SeriesTopProducts], apiclient.ErrServer)
	assert.Len(t, snap.Errs, 1)
	assert.Len(t, snap.SalesVsPurchases, 2)
	assert.Len(t, snap.LowStock, 1)
}

func TestMissingKPIDoesNotHideSeries(t *testing.T) {
	backend, client := newBackend(t)
	backend.SetStat("stats/low-stock", []map[string]any{{"id": 1, "name": "Flour", "quantity": 0, "threshold": 3}})
	svc := NewService(NewRepository(client), nil, nil)

	snap := svc.Load(context.Background())
	assert.Nil(t, snap.KPI)
	assert.Error(t, snap.KPIErr)
	assert.Len(t, snap.LowStock, 1)
	assert.Contains(t, snap.Errs, SeriesSalesVsPurchases)
}

func TestCachedSeriesSkipBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	store := cache.NewStore(rdb, "stockdesk", time.Minute)

	backend, client := newBackend(t)
	seedStats(backend)
	svc := NewService(NewRepository(client), store, nil)

	first, err := svc.LowStock(context.Background())
	require.NoError(t, err)
	before := backend.Requests()
	second, err := svc.LowStock(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, before, backend.Requests())

	mr.FastForward(2 * time.Minute)
	_, err = svc.LowStock(context.Background())
	require.NoError(t, err)
	assert.Equal(t, before+1, backend.Requests())
}

func TestCacheIsScopedByToken(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	store := cache.NewStore(rdb, "stockdesk", time.Minute)

	backend, client := newBackend(t)
	seedStats(backend)
	svc := NewService(NewRepository(client), store, nil)

	ada := apiclient.WithToken(context.Background(), "token-ada")
	bob := apiclient.WithToken(context.Background(), "token-bob")
	_, err := svc.LowStock(ada)
	require.NoError(t, err)
	before := backend.Requests()

	_, err = svc.LowStock(bob)
	require.NoError(t, err)
	assert.Equal(t, before+1, backend.Requests())
	_, err = svc.LowStock(ada)
	require.NoError(t, err)
	assert.Equal(t, before+1, backend.Requests())

	assert.NotEqual(t, cacheKey(ada, SeriesLowStock), cacheKey(bob, SeriesLowStock))
	assert.NotContains(t, cacheKey(ada, SeriesLowStock), "token-ada")
}

func TestSidecarsExposeSummaryAndSeries(t *testing.T) {
	backend, client := newBackend(t)
	seedStats(backend)
	svc := NewService(NewRepository(client), nil, nil)

	sidecars := svc.ProductSidecars()
	require.Len(t, sidecars, 3)
	value, err := sidecars[0].Load(context.Background())
	require.NoError(t, err)
	kpi, ok := value.(KPI)
	require.True(t, ok)
	assert.Equal(t, int64(2), kpi.LowStockCount)
	require.Len(t, svc.OrderSidecars(), 1)
}

func TestPanelJSON(t *testing.T) {
	backend, client := newBackend(t)
	seedStats(backend)
	h := NewHandler(nil, NewService(NewRepository(client), nil, nil), responderStub())
	r := newRouter(h)

	req := httptest.NewRequest(http.MethodGet, "/dashboard/panels/low-stock", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var rows []LowStockItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	assert.Equal(t, "Salt", rows[0].Name)

	backend.Fail(http.MethodGet, "/stats/order_summary", http.StatusServiceUnavailable, 1)
	req = httptest.NewRequest(http.MethodGet, "/dashboard/panels/order-summary", nil)
	req.Header.Set("Accept", "application/json")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/dashboard/panels/weather", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func responderStub() view.Responder {
	return view.Responder{Logger: slog.Default()}
}

func newRouter(h *Handler) chi.Router {
	r := chi.NewRouter()
	h.MountRoutes(r)
	return r
}
