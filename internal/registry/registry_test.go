package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/wenju-he/level-zero-tests/internal/levelzero"
)

func newRegistryDriver(t *testing.T) levelzero.Driver {
	drv := levelzero.NewSim(zaptest.NewLogger(t))
	require.NoError(t, drv.Init())
	t.Cleanup(func() { drv.Close() })
	return drv
}

func TestDeviceRegistry(t *testing.T) {
	t.Run("populated synchronously", func(t *testing.T) {
		r := NewDeviceRegistry(newRegistryDriver(t), 0, zaptest.NewLogger(t))
		defer r.Stop()

		snaps := r.Snapshots()
		require.Len(t, snaps, 2)
		for _, snap := range snaps {
			assert.NotEmpty(t, snap.Name)
			assert.NotZero(t, snap.UUID)
			assert.NotEmpty(t, snap.Modules)
			for _, m := range snap.Modules {
				assert.LessOrEqual(t, m.Free, m.Size)
			}
		}
	})

	t.Run("periodic refresh observes allocations", func(t *testing.T) {
		drv := newRegistryDriver(t)
		r := NewDeviceRegistry(drv, 10*time.Millisecond, zaptest.NewLogger(t))
		defer r.Stop()

		before := r.Snapshots()
		require.NotEmpty(t, before)

		ctx, err := drv.CreateContext()
		require.NoError(t, err)
		defer drv.DestroyContext(ctx)
		ptr, err := drv.AllocDeviceMemory(ctx, before[0].Handle, 32<<20)
		require.NoError(t, err)
		defer drv.FreeMemory(ctx, ptr)

		assert.Eventually(t, func() bool {
			after := r.Snapshots()
			return len(after) > 0 && moduleFree(after[0]) < moduleFree(before[0])
		}, 2*time.Second, 10*time.Millisecond, "cache never reflected the allocation")
	})

	t.Run("snapshots are copies", func(t *testing.T) {
		r := NewDeviceRegistry(newRegistryDriver(t), 0, zaptest.NewLogger(t))
		defer r.Stop()

		a := r.Snapshots()
		a[0].Name = "clobbered"
		b := r.Snapshots()
		assert.NotEqual(t, "clobbered", b[0].Name)
	})

	t.Run("stop is idempotent", func(t *testing.T) {
		r := NewDeviceRegistry(newRegistryDriver(t), time.Millisecond, zaptest.NewLogger(t))
		r.Stop()
		r.Stop()
	})
}

func moduleFree(snap DeviceSnapshot) uint64 {
	var free uint64
	for _, m := range snap.Modules {
		free += m.Free
	}
	return free
}
