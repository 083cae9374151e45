package products

import (
	"context"

	"github.com/stockdesk/stockdesk/internal/platform/apiclient"
	"github.com/stockdesk/stockdesk/internal/platform/pagination"
)

// Repository is the backend contract for products.
type Repository interface {
	List(ctx context.Context, page, perPage int) (pagination.Page[Product], error)
	Get(ctx context.Context, id int64) (Product, error)
	Create(ctx context.Context, draft Product) (Product, error)
	Update(ctx context.Context, id int64, draft Product) (Product, error)
	Remove(ctx context.Context, id int64) error
}

type repository struct {
	res *apiclient.Resource[Product]
}

// NewRepository binds the repository to the /products collection.
func NewRepository(client *apiclient.Client) Repository {
	return &repository{res: apiclient.NewResource[Product](client, "/products")}
}

func (r *repository) List(ctx context.Context, page, perPage int) (pagination.Page[Product], error) {
	return r.res.List(ctx, page, perPage)
}

func (r *repository) Get(ctx context.Context, id int64) (Product, error) {
	return r.res.Get(ctx, id)
}

func (r *repository) Create(ctx context.Context, draft Product) (Product, error) {
	return r.res.Create(ctx, draft)
}

func (r *repository) Update(ctx context.Context, id int64, draft Product) (Product, error) {
	return r.res.Update(ctx, id, draft)
}

func (r *repository) Remove(ctx context.Context, id int64) error {
	return r.res.Remove(ctx, id)
}
