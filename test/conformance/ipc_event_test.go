package conformance

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/wenju-he/level-zero-tests/internal/helper"
	"github.com/wenju-he/level-zero-tests/internal/ipc"
	"github.com/wenju-he/level-zero-tests/internal/launcher"
)

// launchIpcChild re-execs this test binary as the IPC event child. The
// child inherits ZELZ_BACKEND, so parent and child open the same driver.
func launchIpcChild(t *testing.T, prefix string) helper.LaunchChild {
	t.Helper()
	return func() (func() (int, error), error) {
		h, err := launcher.Launch(os.Args[0], launcher.Options{
			Env: []string{
				helperEnv + "=ipc_event",
				prefixEnv + "=" + prefix,
			},
		}, 2*time.Minute, zaptest.NewLogger(t))
		if err != nil {
			return nil, err
		}
		return h.Wait, nil
	}
}

func TestIpcEventHandshake(t *testing.T) {
	scenarios := []struct {
		name  string
		child ipc.ChildType
	}{
		{"host reads", ipc.ChildHostReads},
		{"device reads", ipc.ChildDeviceReads},
		{"second device reads", ipc.ChildDevice2Reads},
		{"multiple devices read", ipc.ChildMultiDeviceReads},
	}

	for _, tc := range scenarios {
		t.Run(tc.name, func(t *testing.T) {
			s := newSuite(t)
			needsTwo := tc.child == ipc.ChildDevice2Reads || tc.child == ipc.ChildMultiDeviceReads
			if needsTwo && len(s.Devices) < 2 {
				t.Skip("scenario needs two devices")
			}
			prefix := testPrefix()
			err := helper.RunIpcEventScenario(s.Driver, prefix, tc.child,
				launchIpcChild(t, prefix), s.Log)
			require.NoError(t, err)
		})
	}
}

// The child exits non-zero when the transferred handle cannot be opened;
// the parent surfaces that as a scenario failure rather than hanging.
func TestIpcEventChildRejectsCorruptHandle(t *testing.T) {
	prefix := testPrefix()

	seg, err := ipc.CreateSegment(prefix, ipc.SegmentName, ipc.SharedDataSize)
	require.NoError(t, err)
	defer seg.Close()

	shared := ipc.SharedData{Child: ipc.ChildHostReads}
	copy(shared.IpcHandle[:], "not a real ipc handle")
	require.NoError(t, shared.Encode(seg.Bytes()))

	wait, err := launchIpcChild(t, prefix)()
	require.NoError(t, err)
	code, err := wait()
	require.NoError(t, err)
	require.NotZero(t, code, "child must fail setup on a corrupt handle")
}
