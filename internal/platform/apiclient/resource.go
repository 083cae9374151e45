package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/stockdesk/stockdesk/internal/platform/pagination"
)

// Resource is the REST contract shared by every backend entity collection.
type Resource[T any] struct {
	client *Client
	path   string
}

// NewResource binds a collection path such as "/products".
func NewResource[T any](client *Client, path string) *Resource[T] {
	return &Resource[T]{client: client, path: path}
}

// List fetches one page of the collection.
func (r *Resource[T]) List(ctx context.Context, page, perPage int) (pagination.Page[T], error) {
	if page < 1 {
		page = pagination.DefaultPage
	}
	if perPage < 1 {
		perPage = pagination.DefaultPerPage
	}
	return r.list(ctx, map[string]string{
		"page":     strconv.Itoa(page),
		"per_page": strconv.Itoa(perPage),
	})
}

// ListAll fetches the collection without pagination parameters.
func (r *Resource[T]) ListAll(ctx context.Context) (pagination.Page[T], error) {
	return r.list(ctx, nil)
}

func (r *Resource[T]) list(ctx context.Context, query map[string]string) (pagination.Page[T], error) {
	body, err := r.client.Get(ctx, r.path, query)
	if err != nil {
		// A missing collection is a server fault, not a missing entity.
		var nf *NotFoundError
		if errors.As(err, &nf) {
			return pagination.Page[T]{}, &ServerError{Status: http.StatusNotFound, Message: nf.Error()}
		}
		return pagination.Page[T]{}, err
	}
	page, err := pagination.Normalize[T](body)
	if err != nil {
		return pagination.Page[T]{}, fmt.Errorf("list %s: %w", r.path, err)
	}
	return page, nil
}

// Get fetches one entity.
func (r *Resource[T]) Get(ctx context.Context, id int64) (T, error) {
	var zero T
	body, err := r.client.Get(ctx, r.itemPath(id), nil)
	if err != nil {
		return zero, err
	}
	return decodeItem[T](body, zero)
}

// Create posts a draft and returns the entity with its server-assigned fields.
func (r *Resource[T]) Create(ctx context.Context, draft T) (T, error) {
	var zero T
	body, err := r.client.Post(ctx, r.path, draft)
	if err != nil {
		return zero, err
	}
	return decodeItem[T](body, draft)
}

// Update replaces the entity stored under id.
func (r *Resource[T]) Update(ctx context.Context, id int64, draft T) (T, error) {
	var zero T
	body, err := r.client.Put(ctx, r.itemPath(id), draft)
	if err != nil {
		return zero, err
	}
	return decodeItem[T](body, draft)
}

// Remove deletes the entity. An entity that is already gone counts as removed.
func (r *Resource[T]) Remove(ctx context.Context, id int64) error {
	err := r.client.Delete(ctx, r.itemPath(id))
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

func (r *Resource[T]) itemPath(id int64) string {
	return r.path + "/" + strconv.FormatInt(id, 10)
}

// decodeItem accepts either the entity object or a `{data: {...}}` wrapper.
// An empty body yields fallback.
func decodeItem[T any](body []byte, fallback T) (T, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return fallback, nil
	}
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &wrapper); err == nil {
		data := bytes.TrimSpace(wrapper.Data)
		if len(data) > 0 && data[0] == '{' {
			trimmed = data
		}
	}
	var out T
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return out, fmt.Errorf("decode entity: %w", err)
	}
	return out, nil
}
