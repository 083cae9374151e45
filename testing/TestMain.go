// Package testing is imported for its side effect by test packages that
// build binaries' dependencies: it switches on test mode and points the
// backend client at an unroutable address so nothing reaches a real API.
package testing

import (
	"os"
	stdtesting "testing"

	"github.com/stockdesk/stockdesk/internal/testing/guard"
)

// UnroutableAPI is the API_BASE_URL used when a test does not set one.
const UnroutableAPI = "http://127.0.0.1:0"

func init() {
	guard.Enable()
	if os.Getenv("API_BASE_URL") == "" {
		_ = os.Setenv("API_BASE_URL", UnroutableAPI)
	}
}

// Main runs m. Packages that need the environment above before any test
// starts call it from their TestMain.
func Main(m *stdtesting.M) {
	os.Exit(m.Run())
}
