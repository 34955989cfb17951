// Package conformance runs the driver conformance scenarios end to end.
// Multi-process scenarios re-exec this test binary as the child: TestMain
// dispatches on ZELZ_HELPER before the test framework parses flags, so the
// child runs the same helper bodies as the standalone cmd binaries.
package conformance

import (
	"os"
	"strconv"
	"testing"

	"github.com/wenju-he/level-zero-tests/internal/helper"
	"github.com/wenju-he/level-zero-tests/internal/levelzero"
	"github.com/wenju-he/level-zero-tests/internal/logger"
)

const (
	helperEnv  = "ZELZ_HELPER"
	prefixEnv  = "ZELZ_SEGMENT_PREFIX"
	ordinalEnv = "ZELZ_DEVICE_ORDINAL"
	indexEnv   = "ZELZ_INDEX"
)

func TestMain(m *testing.M) {
	switch os.Getenv(helperEnv) {
	case "":
	case "ipc_event":
		log, _ := logger.NewHelper("ipc_event_helper", "debug")
		os.Exit(helper.RunIpcEventChild(os.Getenv(prefixEnv), log))
	case "debuggee":
		log, _ := logger.NewHelper("debug_helper", "debug")
		ordinal, _ := strconv.Atoi(os.Getenv(ordinalEnv))
		index, _ := strconv.ParseUint(os.Getenv(indexEnv), 10, 64)
		os.Exit(helper.RunDebuggee(helper.DebuggeeOptions{
			DeviceOrdinal: ordinal,
			Index:         index,
			SegmentPrefix: os.Getenv(prefixEnv),
		}, log))
	default:
		os.Exit(2)
	}

	// The suite runs against real hardware when ZELZ_BACKEND=native is
	// exported; everything else lands on the simulator.
	if os.Getenv(levelzero.BackendEnv) == "" {
		os.Setenv(levelzero.BackendEnv, "sim")
	}
	os.Exit(m.Run())
}
