package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func TestDecodePaginatedEnvelope(t *testing.T) {
	raw := []byte(`{"success":true,"message":"ok","data":[{"id":1,"name":"A"},{"id":2,"name":"B"}],"meta":{"current_page":2,"last_page":3,"per_page":2,"total":6}}`)

	env, err := Decode[item](raw)
	require.NoError(t, err)
	paginated, ok := env.(Paginated[item])
	require.True(t, ok, "expected paginated envelope, got %T", env)
	assert.True(t, paginated.Success)

	page := env.Page()
	require.NotNil(t, page.Meta)
	assert.Equal(t, 2, page.Meta.CurrentPage)
	assert.Equal(t, 3, page.Meta.LastPage)
	assert.Len(t, page.Items, 2)
	assert.True(t, page.Paginated())
}

func TestDecodeBareArray(t *testing.T) {
	page, err := Normalize[item]([]byte(` [{"id":1,"name":"Acme"}] `))
	require.NoError(t, err)
	assert.Nil(t, page.Meta)
	assert.False(t, page.Paginated())
	assert.Equal(t, []item{{ID: 1, Name: "Acme"}}, page.Items)
}

func TestDecodeDataOnlyObject(t *testing.T) {
	env, err := Decode[item]([]byte(`{"data":[{"id":7,"name":"Tools"}]}`))
	require.NoError(t, err)
	_, ok := env.(Bare[item])
	require.True(t, ok)
	page := env.Page()
	assert.Nil(t, page.Meta)
	assert.Len(t, page.Items, 1)
}

func TestDecodeNullDataYieldsEmptyItems(t *testing.T) {
	page, err := Normalize[item]([]byte(`{"data":null,"meta":{"current_page":1,"last_page":1,"per_page":10,"total":0}}`))
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	require.NotNil(t, page.Meta)
}

func TestDecodeRejectsUnknownShapes(t *testing.T) {
	cases := map[string]string{
		"empty":          ``,
		"scalar":         `42`,
		"object no data": `{"success":true}`,
		"data object":    `{"data":{"id":1}}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode[item]([]byte(body))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnexpectedShape)
		})
	}
}

func TestNewMeta(t *testing.T) {
	meta := NewMeta(1, 10, 25)
	assert.Equal(t, 3, meta.LastPage)
	assert.False(t, meta.HasPrev())
	assert.True(t, meta.HasNext())

	empty := NewMeta(0, 0, 0)
	assert.Equal(t, Meta{CurrentPage: 1, LastPage: 1, PerPage: DefaultPerPage, Total: 0}, empty)
	assert.False(t, empty.HasNext())
}
