package categories

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockdesk/stockdesk/internal/console"
	"github.com/stockdesk/stockdesk/internal/platform/apiclient"
	"github.com/stockdesk/stockdesk/internal/testing/fakeapi"
)

func newTestService(t *testing.T) (*Service, *fakeapi.Server) {
	t.Helper()
	backend := fakeapi.New()
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)
	client := apiclient.New(apiclient.Config{BaseURL: srv.URL, Timeout: 2 * time.Second})
	return NewService(NewRepository(client), time.Millisecond), backend
}

func TestListAcceptsDataOnlyEnvelope(t *testing.T) {
	svc, backend := newTestService(t)
	backend.Seed("categories", fakeapi.Record{"name": "Beverages"}, fakeapi.Record{"name": "Snacks"})

	cats, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Category{{ID: 1, Name: "Beverages"}, {ID: 2, Name: "Snacks"}}, cats)

	names, err := svc.Names(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Snacks", names[2])
}

func TestListAcceptsBareArray(t *testing.T) {
	svc, backend := newTestService(t)
	backend.SetShape("categories", fakeapi.ShapeBare)
	backend.Seed("categories", fakeapi.Record{"name": "Dairy"})

	cats, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Category{{ID: 1, Name: "Dairy"}}, cats)
}

func TestFormCreatesCategory(t *testing.T) {
	svc, backend := newTestService(t)
	var saved []Category
	form := svc.NewForm(nil, func(c Category) { saved = append(saved, c) })

	_, err := form.Submit(context.Background())
	require.ErrorIs(t, err, console.ErrInvalid)
	assert.Equal(t, "The category name is required.", form.Errors()["name"])
	assert.Zero(t, backend.Requests())

	require.NoError(t, form.Set("name", "Frozen"))
	created, err := form.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, []Category{created}, saved)

	rec, ok := backend.Record("categories", 1)
	require.True(t, ok)
	assert.Equal(t, "Frozen", rec["name"])
}
