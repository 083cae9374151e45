package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type teapot struct{}

func (teapot) Error() string   { return "short and stout" }
func (teapot) HTTPStatus() int { return http.StatusTeapot }

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) ProblemDetail {
	t.Helper()
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	var p ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	return p
}

func TestRespondErrorUsesStatusCoder(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, fmt.Errorf("load panel: %w", teapot{}))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	p := decodeProblem(t, rec)
	assert.Equal(t, http.StatusTeapot, p.Status)
	assert.Contains(t, p.Detail, "short and stout")
}

func TestRespondErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, errors.New("dial tcp 10.0.0.7:6379: refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, decodeProblem(t, rec).Detail)

	rec = httptest.NewRecorder()
	RespondError(rec, ErrNotFound)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDecodeJSON(t *testing.T) {
	var out map[string]any
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Pantry"}`))
	require.NoError(t, DecodeJSON(req, &out))
	assert.Equal(t, "Pantry", out["name"])

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":1}{"b":2}`))
	assert.Error(t, DecodeJSON(req, &out))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	assert.Error(t, DecodeJSON(req, &out))
}
