package categories

import (
	"context"

	"github.com/stockdesk/stockdesk/internal/platform/apiclient"
)

// Repository is the backend contract for categories. The collection is not
// paginated.
type Repository interface {
	List(ctx context.Context) ([]Category, error)
	Get(ctx context.Context, id int64) (Category, error)
	Create(ctx context.Context, draft Category) (Category, error)
	Update(ctx context.Context, id int64, draft Category) (Category, error)
	Remove(ctx context.Context, id int64) error
}

type repository struct {
	res *apiclient.Resource[Category]
}

// NewRepository binds the repository to the /categories collection.
func NewRepository(client *apiclient.Client) Repository {
	return &repository{res: apiclient.NewResource[Category](client, "/categories")}
}

func (r *repository) List(ctx context.Context) ([]Category, error) {
	page, err := r.res.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (r *repository) Get(ctx context.Context, id int64) (Category, error) {
	return r.res.Get(ctx, id)
}

func (r *repository) Create(ctx context.Context, draft Category) (Category, error) {
	return r.res.Create(ctx, draft)
}

func (r *repository) Update(ctx context.Context, id int64, draft Category) (Category, error) {
	return r.res.Update(ctx, id, draft)
}

func (r *repository) Remove(ctx context.Context, id int64) error {
	return r.res.Remove(ctx, id)
}
