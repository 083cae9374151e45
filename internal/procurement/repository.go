package procurement

import (
	"context"

	"github.com/stockdesk/stockdesk/internal/platform/apiclient"
	"github.com/stockdesk/stockdesk/internal/platform/pagination"
)

// Repository is the backend contract for purchase orders.
type Repository interface {
	List(ctx context.Context, page, perPage int) (pagination.Page[PurchaseOrder], error)
	Get(ctx context.Context, id int64) (PurchaseOrder, error)
	Create(ctx context.Context, draft PurchaseOrder) (PurchaseOrder, error)
	Update(ctx context.Context, id int64, draft PurchaseOrder) (PurchaseOrder, error)
	Remove(ctx context.Context, id int64) error
}

type repository struct {
	res *apiclient.Resource[PurchaseOrder]
}

// NewRepository binds the repository to the /orders collection.
func NewRepository(client *apiclient.Client) Repository {
	return &repository{res: apiclient.NewResource[PurchaseOrder](client, "/orders")}
}

func (r *repository) List(ctx context.Context, page, perPage int) (pagination.Page[PurchaseOrder], error) {
	return r.res.List(ctx, page, perPage)
}

func (r *repository) Get(ctx context.Context, id int64) (PurchaseOrder, error) {
	return r.res.Get(ctx, id)
}

func (r *repository) Create(ctx context.Context, draft PurchaseOrder) (PurchaseOrder, error) {
	return r.res.Create(ctx, draft)
}

func (r *repository) Update(ctx context.Context, id int64, draft PurchaseOrder) (PurchaseOrder, error) {
	return r.res.Update(ctx, id, draft)
}

func (r *repository) Remove(ctx context.Context, id int64) error {
	return r.res.Remove(ctx, id)
}
