package dashboard

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/stockdesk/stockdesk/internal/platform/apiclient"
	"github.com/stockdesk/stockdesk/internal/platform/pagination"
)

// Repository reads the aggregate endpoints of the backend.
type Repository interface {
	KPI(ctx context.Context) (KPI, error)
	SalesVsPurchases(ctx context.Context) ([]SalesPurchasePoint, error)
	OrderSummary(ctx context.Context) ([]OrderSummaryPoint, error)
	TopProducts(ctx context.Context) ([]TopProduct, error)
	LowStock(ctx context.Context) ([]LowStockItem, error)
}

type repository struct {
	client *apiclient.Client
}

// NewRepository builds the backend repository.
func NewRepository(client *apiclient.Client) Repository {
	return &repository{client: client}
}

func (r *repository) KPI(ctx context.Context) (KPI, error) {
	body, err := r.client.Get(ctx, "/dashboard", nil)
	if err != nil {
		return KPI{}, err
	}
	var wrapped struct {
		Data *KPI `json:"data"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil && wrapped.Data != nil {
		return *wrapped.Data, nil
	}
	var kpi KPI
	if err := json.Unmarshal(body, &kpi); err != nil {
		return KPI{}, fmt.Errorf("decode dashboard: %w", err)
	}
	return kpi, nil
}

func (r *repository) SalesVsPurchases(ctx context.Context) ([]SalesPurchasePoint, error) {
	return series[SalesPurchasePoint](ctx, r.client, "/stats/sales_vs_purchases")
}

func (r *repository) OrderSummary(ctx context.Context) ([]OrderSummaryPoint, error) {
	return series[OrderSummaryPoint](ctx, r.client, "/stats/order_summary")
}

func (r *repository) TopProducts(ctx context.Context) ([]TopProduct, error) {
	return series[TopProduct](ctx, r.client, "/stats/top-products")
}

func (r *repository) LowStock(ctx context.Context) ([]LowStockItem, error) {
	return series[LowStockItem](ctx, r.client, "/stats/low-stock")
}

// series accepts the same envelope shapes as the collection endpoints.
func series[T any](ctx context.Context, client *apiclient.Client, path string) ([]T, error) {
	body, err := client.Get(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	page, err := pagination.Normalize[T](body)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return page.Items, nil
}
