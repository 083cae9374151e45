package httpx

import (
	"context"
	"errors"
	"net/http"
)

// ErrNotFound marks a missing resource.
var ErrNotFound = errors.New("resource not found")

// StatusCoder is implemented by errors that carry the HTTP status to answer
// with, such as the backend client's typed errors.
type StatusCoder interface {
	HTTPStatus() int
}

// RespondError maps err to a problem response. Errors from the backend keep
// their status; a cancelled or timed out request maps to 504.
func RespondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var coded StatusCoder
	switch {
	case errors.As(err, &coded):
		status = coded.HTTPStatus()
	case errors.Is(err, ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		status = http.StatusGatewayTimeout
	}
	detail := ""
	if status < http.StatusInternalServerError || coded != nil {
		detail = err.Error()
	}
	Problem(w, status, http.StatusText(status), detail)
}
