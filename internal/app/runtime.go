package app

import (
	"os"
	"sync/atomic"
)

const testModeEnv = "STOCKDESK_TEST_MODE"

// testMode caches STOCKDESK_TEST_MODE: 0 unread, 1 off, 2 on.
var testMode atomic.Int32

// InTestMode reports whether binaries should return before touching Redis,
// the backend or a listener.
func InTestMode() bool {
	if v := testMode.Load(); v != 0 {
		return v == 2
	}
	RefreshTestMode()
	return testMode.Load() == 2
}

// RefreshTestMode re-reads the environment flag.
func RefreshTestMode() {
	if os.Getenv(testModeEnv) == "1" {
		testMode.Store(2)
		return
	}
	testMode.Store(1)
}
