package dashboard

import (
	"context"

	"github.com/stockdesk/stockdesk/internal/console"
)

// Sidecar names used by the list screens.
const (
	SidecarSummary     = "summary"
	SidecarTopProducts = "top_products"
	SidecarLowStock    = "low_stock"
)

// ProductSidecars are the side panels of the inventory table.
func (s *Service) ProductSidecars() []console.Sidecar {
	return []console.Sidecar{
		{Name: SidecarSummary, Load: func(ctx context.Context) (any, error) { return s.Summary(ctx) }},
		{Name: SidecarTopProducts, Load: func(ctx context.Context) (any, error) { return s.TopProducts(ctx) }},
		{Name: SidecarLowStock, Load: func(ctx context.Context) (any, error) { return s.LowStock(ctx) }},
	}
}

// OrderSidecars are the side panels of the order table.
func (s *Service) OrderSidecars() []console.Sidecar {
	return []console.Sidecar{
		{Name: SidecarSummary, Load: func(ctx context.Context) (any, error) { return s.Summary(ctx) }},
	}
}
