package suppliers

import (
	"context"

	"github.com/stockdesk/stockdesk/internal/platform/apiclient"
	"github.com/stockdesk/stockdesk/internal/platform/pagination"
)

// Repository is the backend contract for suppliers. The list endpoint answers
// either with a paginated envelope or with a bare array.
type Repository interface {
	List(ctx context.Context, page, perPage int) (pagination.Page[Supplier], error)
	ListAll(ctx context.Context) ([]Supplier, error)
	Get(ctx context.Context, id int64) (Supplier, error)
	Create(ctx context.Context, draft Supplier) (Supplier, error)
	Update(ctx context.Context, id int64, draft Supplier) (Supplier, error)
	Remove(ctx context.Context, id int64) error
}

type repository struct {
	res *apiclient.Resource[Supplier]
}

// NewRepository binds the repository to the /suppliers collection.
func NewRepository(client *apiclient.Client) Repository {
	return &repository{res: apiclient.NewResource[Supplier](client, "/suppliers")}
}

func (r *repository) List(ctx context.Context, page, perPage int) (pagination.Page[Supplier], error) {
	return r.res.List(ctx, page, perPage)
}

func (r *repository) ListAll(ctx context.Context) ([]Supplier, error) {
	page, err := r.res.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (r *repository) Get(ctx context.Context, id int64) (Supplier, error) {
	return r.res.Get(ctx, id)
}

func (r *repository) Create(ctx context.Context, draft Supplier) (Supplier, error) {
	return r.res.Create(ctx, draft)
}

func (r *repository) Update(ctx context.Context, id int64, draft Supplier) (Supplier, error) {
	return r.res.Update(ctx, id, draft)
}

func (r *repository) Remove(ctx context.Context, id int64) error {
	return r.res.Remove(ctx, id)
}
