package conformance

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/wenju-he/level-zero-tests/internal/config"
	"github.com/wenju-he/level-zero-tests/internal/harness"
)

func newSuite(t *testing.T) *harness.Suite {
	t.Helper()
	s, err := harness.NewSuite(config.Default(), zaptest.NewLogger(t))
	require.NoError(t, err, "suite setup failed, aborting scenario")
	t.Cleanup(func() { s.Close() })
	return s
}

// testPrefix namespaces the shared memory and semaphore names so parallel
// test runs on one machine cannot collide.
func testPrefix() string {
	return fmt.Sprintf("zelzconf_%d_%d", os.Getpid(), time.Now().UnixNano())
}
