package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Sentinel errors for the backend failure taxonomy.
var (
	ErrNetwork    = errors.New("backend unreachable")
	ErrServer     = errors.New("backend error")
	ErrValidation = errors.New("backend rejected payload")
	ErrNotFound   = errors.New("resource not found")
	ErrEncode     = errors.New("request body not encodable")
)

// NetworkError means the request never reached the backend or no response came back.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Is matches ErrNetwork.
func (e *NetworkError) Is(target error) bool { return target == ErrNetwork }

// HTTPStatus is the status Stockdesk answers with when the backend is unreachable.
func (e *NetworkError) HTTPStatus() int { return http.StatusBadGateway }

// EncodeError means the request body could not be marshalled, so nothing was
// sent.
type EncodeError struct {
	Method string
	Path   string
	Err    error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("%s %s: encode body: %v", e.Method, e.Path, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

// Is matches ErrEncode.
func (e *EncodeError) Is(target error) bool { return target == ErrEncode }

func (e *EncodeError) HTTPStatus() int { return http.StatusUnprocessableEntity }

// ServerError is any non-2xx answer that is neither 404 nor 422.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Message)
}

// Is matches ErrServer.
func (e *ServerError) Is(target error) bool { return target == ErrServer }

// HTTPStatus passes 401 through so the browser re-authenticates; everything
// else is a bad gateway.
func (e *ServerError) HTTPStatus() int {
	if e.Status == http.StatusUnauthorized {
		return http.StatusUnauthorized
	}
	return http.StatusBadGateway
}

// ValidationError carries the field messages of a 422 answer.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed: " + e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "validation failed: " + strings.Join(keys, ", ")
}

// Is matches ErrValidation.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func (e *ValidationError) HTTPStatus() int { return http.StatusUnprocessableEntity }

// NotFoundError is a 404 on a by-id operation.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string { return e.Path + ": not found" }

// Is matches ErrNotFound.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

func (e *NotFoundError) HTTPStatus() int { return http.StatusNotFound }

// IsUnauthorized reports whether err is a 401 from the backend.
func IsUnauthorized(err error) bool {
	var srvErr *ServerError
	return errors.As(err, &srvErr) && srvErr.Status == http.StatusUnauthorized
}

// FieldErrors extracts backend field messages from err, if any.
func FieldErrors(err error) map[string]string {
	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return valErr.Fields
	}
	return nil
}

type errorBody struct {
	Message string                     `json:"message"`
	Errors  map[string]json.RawMessage `json:"errors"`
}

func classify(method, path string, status int, body []byte) error {
	var parsed errorBody
	_ = json.Unmarshal(body, &parsed)

	switch {
	case status == http.StatusNotFound:
		return &NotFoundError{Path: path}
	case status == http.StatusUnprocessableEntity:
		return &ValidationError{Message: parsed.Message, Fields: fieldMessages(parsed.Errors)}
	default:
		return &ServerError{Status: status, Message: parsed.Message}
	}
}

// fieldMessages keeps the first message per field; the backend sends
// either a string or a list of strings.
func fieldMessages(raw map[string]json.RawMessage) map[string]string {
	if len(raw) == 0 {
		return map[string]string{}
	}
	out := make(map[string]string, len(raw))
	for field, value := range raw {
		var list []string
		if err := json.Unmarshal(value, &list); err == nil {
			if len(list) > 0 {
				out[field] = list[0]
			}
			continue
		}
		var single string
		if err := json.Unmarshal(value, &single); err == nil {
			out[field] = single
		}
	}
	return out
}
