package levelzero

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/wenju-he/level-zero-tests/internal/metrics"
)

func driverCallCount(function, result string) float64 {
	return testutil.ToFloat64(metrics.DriverCalls.WithLabelValues(function, result))
}

func TestInstrumentedCountsDriverCalls(t *testing.T) {
	d := NewInstrumented(NewSim(zaptest.NewLogger(t)))
	require.NoError(t, d.Init())
	t.Cleanup(func() { d.Close() })

	t.Run("query surface", func(t *testing.T) {
		before := driverCallCount("zeDeviceGet", "ZE_RESULT_SUCCESS")
		devices, err := d.Devices()
		require.NoError(t, err)
		require.NotEmpty(t, devices)
		assert.Equal(t, before+1, driverCallCount("zeDeviceGet", "ZE_RESULT_SUCCESS"))
	})

	t.Run("context and allocation surface", func(t *testing.T) {
		created := driverCallCount("zeContextCreate", "ZE_RESULT_SUCCESS")
		allocated := driverCallCount("zeMemAllocHost", "ZE_RESULT_SUCCESS")
		freed := driverCallCount("zeMemFree", "ZE_RESULT_SUCCESS")

		ctx, err := d.CreateContext()
		require.NoError(t, err)
		ptr, err := d.AllocHostMemory(ctx, 4096)
		require.NoError(t, err)
		require.NoError(t, d.FreeMemory(ctx, ptr))
		require.NoError(t, d.DestroyContext(ctx))

		assert.Equal(t, created+1, driverCallCount("zeContextCreate", "ZE_RESULT_SUCCESS"))
		assert.Equal(t, allocated+1, driverCallCount("zeMemAllocHost", "ZE_RESULT_SUCCESS"))
		assert.Equal(t, freed+1, driverCallCount("zeMemFree", "ZE_RESULT_SUCCESS"))
	})

	t.Run("event and queue surface", func(t *testing.T) {
		signalled := driverCallCount("zeEventHostSignal", "ZE_RESULT_SUCCESS")
		executed := driverCallCount("zeCommandQueueExecuteCommandLists", "ZE_RESULT_SUCCESS")

		ctx, err := d.CreateContext()
		require.NoError(t, err)
		defer d.DestroyContext(ctx)
		devices, err := d.Devices()
		require.NoError(t, err)

		pool, err := d.CreateEventPool(ctx, EventPoolFlagHostVisible, 1)
		require.NoError(t, err)
		defer d.DestroyEventPool(pool)
		ev, err := d.CreateEvent(pool, EventDesc{Index: 0})
		require.NoError(t, err)
		defer d.DestroyEvent(ev)

		list, err := d.CreateCommandList(ctx, devices[0])
		require.NoError(t, err)
		defer d.DestroyCommandList(list)
		require.NoError(t, d.AppendWaitOnEvents(list, []EventHandle{ev}))
		require.NoError(t, d.CloseCommandList(list))

		queue, err := d.CreateCommandQueue(ctx, devices[0])
		require.NoError(t, err)
		defer d.DestroyCommandQueue(queue)
		require.NoError(t, d.ExecuteCommandLists(queue, []CommandListHandle{list}))
		require.NoError(t, d.SignalEvent(ev))
		require.NoError(t, d.SynchronizeCommandQueue(queue, uint64(5*1e9)))

		assert.Equal(t, signalled+1, driverCallCount("zeEventHostSignal", "ZE_RESULT_SUCCESS"))
		assert.Equal(t, executed+1, driverCallCount("zeCommandQueueExecuteCommandLists", "ZE_RESULT_SUCCESS"))
	})

	t.Run("failures labelled by result code", func(t *testing.T) {
		before := driverCallCount("zeEventPoolCreate", ResultErrorInvalidArgument.String())
		ctx, err := d.CreateContext()
		require.NoError(t, err)
		defer d.DestroyContext(ctx)

		_, err = d.CreateEventPool(ctx, EventPoolFlagHostVisible, 0)
		require.Error(t, err)
		assert.Equal(t, before+1, driverCallCount("zeEventPoolCreate", ResultErrorInvalidArgument.String()))
	})
}
