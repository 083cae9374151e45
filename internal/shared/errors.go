package shared

import "errors"

// ErrInvalidCredentials is returned when the backend rejects a sign-in.
var ErrInvalidCredentials = errors.New("invalid credentials")

// CSRF verification failures. Both are answered with 403.
var (
	ErrCSRFTokenMissing  = errors.New("csrf token missing")
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)
