package suppliers

import (
	"context"
	"net/http/httptest"
	"net/url"
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
	return NewService(NewRepository(client), 10, time.Millisecond), backend
}

func TestBareArrayListHasNoMeta(t *testing.T) {
	svc, backend := newTestService(t)
	backend.SetShape("suppliers", fakeapi.ShapeBare)
	backend.Seed("suppliers", fakeapi.Record{"name": "Acme", "phone": "555-0100"})

	page, err := svc.List(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Nil(t, page.Meta)
	assert.Equal(t, []Supplier{{ID: 1, Name: "Acme", Phone: "555-0100"}}, page.Items)

	list := svc.NewList()
	require.NoError(t, list.Load(context.Background(), 1))
	view := list.Snapshot()
	assert.False(t, view.Paginated)
	assert.Len(t, view.Items, 1)
	assert.False(t, view.HasNext())
}

func TestPaginatedListAndOptions(t *testing.T) {
	svc, backend := newTestService(t)
	for i := 0; i < 12; i++ {
		backend.Seed("suppliers", fakeapi.Record{"name": "Supplier", "phone": "1", "takes_back_returns": i%2 == 0})
	}

	page, err := svc.List(context.Background(), 2, 10)
	require.NoError(t, err)
	require.NotNil(t, page.Meta)
	assert.Equal(t, 2, page.Meta.CurrentPage)
	assert.Len(t, page.Items, 2)

	sum := Summarize(page.Items)
	assert.Equal(t, PageSummary{Count: 2, TakeReturns: 1}, sum)

	backend.SetShape("suppliers", fakeapi.ShapeDataOnly)
	all, err := svc.Options(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 12)
}

func TestValidationRequiresPhoneAndChecksEmail(t *testing.T) {
	svc, backend := newTestService(t)
	form := svc.NewForm(nil, nil)
	require.NoError(t, form.Set("name", "Globex"))
	require.NoError(t, form.Set("email", "not-an-email"))

	_, err := form.Submit(context.Background())
	require.ErrorIs(t, err, console.ErrInvalid)
	assert.Equal(t, map[string]string{
		"phone": "A contact phone number is required.",
		"email": "Enter a valid email address.",
	}, form.Errors())
	assert.Zero(t, backend.Requests())

	require.NoError(t, form.Set("phone", "555-0199"))
	require.NoError(t, form.Set("email", ""))
	require.NoError(t, form.Set("takes_back_returns", "on"))
	created, err := form.Submit(context.Background())
	require.NoError(t, err)
	assert.True(t, created.TakesBackReturns)
	assert.Equal(t, "n/a", created.OnTheWayLabel())
}

func TestOnTheWayIsIndependentOfReturns(t *testing.T) {
	svc, backend := newTestService(t)
	id := backend.Seed("suppliers", fakeapi.Record{"name": "Initech", "phone": "1", "takes_back_returns": true, "on_the_way": 12})[0]

	got, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, got.TakesBackReturns)
	assert.Equal(t, "12", got.OnTheWayLabel())
}

func TestRemoveTwice(t *testing.T) {
	svc, backend := newTestService(t)
	id := backend.Seed("suppliers", fakeapi.Record{"name": "Hooli", "phone": "1"})[0]
	require.NoError(t, svc.Remove(context.Background(), id))
	require.NoError(t, svc.Remove(context.Background(), id))
	_, err := svc.Get(context.Background(), id)
	assert.ErrorIs(t, err, apiclient.ErrNotFound)
}

func TestProductsInputKeepsKnownIDs(t *testing.T) {
	svc, backend := newTestService(t)
	id := backend.Seed("suppliers", fakeapi.Record{
		"name": "Acme", "phone": "1",
		"product": []map[string]any{{"id": 4, "name": "Basmati rice 5kg"}},
	})[0]
	existing, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Basmati rice 5kg", existing.ProductNames())

	form := svc.NewForm(&existing, nil)
	require.NoError(t, form.Set("products", " basmati rice 5kg, Olive oil 1l,, Olive oil 1l "))
	assert.Equal(t, []ProductRef{{ID: 4, Name: "basmati rice 5kg"}, {Name: "Olive oil 1l"}}, form.Draft().Products)
	assert.Equal(t, []ProductRef{{ID: 4, Name: "Basmati rice 5kg"}}, existing.Products)

	saved, err := form.Submit(context.Background())
	require.NoError(t, err)
	assert.Len(t, saved.Products, 2)
}

func TestProductsInputCanBeEnteredOnCreate(t *testing.T) {
	svc, _ := newTestService(t)
	form := svc.NewForm(nil, nil)
	require.NoError(t, form.Bind(url.Values{"name": {"Globex"}, "phone": {"555"}, "products": {"Flour 1kg"}}))
	assert.Equal(t, []ProductRef{{Name: "Flour 1kg"}}, form.Draft().Products)
}
