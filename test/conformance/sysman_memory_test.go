package conformance

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wenju-he/level-zero-tests/internal/harness"
	"github.com/wenju-he/level-zero-tests/internal/levelzero"
)

func TestMemoryModuleEnumeration(t *testing.T) {
	s := newSuite(t)

	for _, dev := range s.Devices {
		var count uint32
		handles, err := s.Driver.EnumMemoryModules(dev, &count)
		require.NoError(t, err)
		assert.NotEmpty(t, handles, "every device reports at least one memory module")
		assert.Equal(t, int(count), len(handles))
		for _, h := range handles {
			assert.NotZero(t, h)
		}

		again, err := s.Driver.EnumMemoryModules(dev, &count)
		require.NoError(t, err)
		assert.Equal(t, handles, again, "repeated enumeration returns the same handles")
	}
}

func TestMemoryModuleCountCorrection(t *testing.T) {
	s := newSuite(t)
	dev := s.Devices[0]

	var actual uint32
	_, err := s.Driver.EnumMemoryModules(dev, &actual)
	require.NoError(t, err)

	t.Run("inflated count is corrected down", func(t *testing.T) {
		count := actual + 100
		handles, err := s.Driver.EnumMemoryModules(dev, &count)
		require.NoError(t, err)
		assert.Equal(t, actual, count)
		assert.Len(t, handles, int(actual))
	})

	t.Run("smaller count is honored", func(t *testing.T) {
		if actual < 2 {
			t.Skip("device has a single memory module")
		}
		count := actual - 1
		handles, err := s.Driver.EnumMemoryModules(dev, &count)
		require.NoError(t, err)
		assert.Len(t, handles, int(actual-1))
	})
}

func TestMemoryModuleProperties(t *testing.T) {
	s := newSuite(t)

	for _, dev := range s.Devices {
		props, err := s.Driver.DeviceProperties(dev)
		require.NoError(t, err)

		var count uint32
		handles, err := s.Driver.EnumMemoryModules(dev, &count)
		require.NoError(t, err)

		for _, h := range handles {
			mp, err := s.Driver.MemoryProperties(h)
			require.NoError(t, err)

			assert.NotZero(t, mp.PhysicalSize)
			assert.Contains(t,
				[]levelzero.MemLocation{levelzero.MemLocationSystem, levelzero.MemLocationDevice},
				mp.Location)
			assert.NotZero(t, mp.BusWidth, "bus width is -1 when unknown, never 0")
			assert.NotZero(t, mp.NumChannels, "channel count is -1 when unknown, never 0")
			if mp.OnSubdevice {
				assert.Less(t, mp.SubdeviceID, props.NumSubdevices)
			}
		}
	}
}

func TestMemoryModulePropertiesAreImmutable(t *testing.T) {
	s := newSuite(t)
	dev := s.Devices[0]

	var count uint32
	handles, err := s.Driver.EnumMemoryModules(dev, &count)
	require.NoError(t, err)

	for _, h := range handles {
		first, err := s.Driver.MemoryProperties(h)
		require.NoError(t, err)
		for i := 0; i < 3; i++ {
			again, err := s.Driver.MemoryProperties(h)
			require.NoError(t, err)
			assert.Equal(t, first, again)
		}
	}
}

func TestMemoryModuleState(t *testing.T) {
	s := newSuite(t)

	for _, dev := range s.Devices {
		var count uint32
		handles, err := s.Driver.EnumMemoryModules(dev, &count)
		require.NoError(t, err)

		for _, h := range handles {
			props, err := s.Driver.MemoryProperties(h)
			require.NoError(t, err)
			state, err := s.Driver.MemoryState(h)
			require.NoError(t, err)

			assert.LessOrEqual(t, state.Free, state.Size)
			assert.LessOrEqual(t, state.Size, props.PhysicalSize)
			assert.GreaterOrEqual(t, state.Health, levelzero.MemHealthUnknown)
			assert.LessOrEqual(t, state.Health, levelzero.MemHealthReplace)
		}
	}
}

func TestMemoryModuleBandwidth(t *testing.T) {
	s := newSuite(t)

	for _, dev := range s.Devices {
		var count uint32
		handles, err := s.Driver.EnumMemoryModules(dev, &count)
		require.NoError(t, err)

		for _, h := range handles {
			sample, err := harness.SampleBandwidth(s.Driver, h, 4, time.Millisecond)
			require.NoError(t, err)
			assert.True(t, sample.Monotonic, "bandwidth counters moved backwards")
		}
	}
}

// Two workers hammer the sysman query surface at the same time, released
// together so the calls genuinely overlap. One reads memory state, the
// other RAS state; neither side may perturb the other.
func TestConcurrentStateQueries(t *testing.T) {
	s := newSuite(t)
	dev := s.Devices[0]

	var count uint32
	mems, err := s.Driver.EnumMemoryModules(dev, &count)
	require.NoError(t, err)
	rass, err := s.Driver.EnumRasErrorSets(dev, &count)
	require.NoError(t, err)

	const rounds = 50
	barrier := harness.NewBarrier(2)
	var wg sync.WaitGroup
	errs := make(chan error, 2*rounds*(len(mems)+len(rass)))

	wg.Add(2)
	go func() {
		defer wg.Done()
		barrier.Await()
		for i := 0; i < rounds; i++ {
			for _, h := range mems {
				if _, err := s.Driver.MemoryState(h); err != nil {
					errs <- err
				}
			}
		}
	}()
	go func() {
		defer wg.Done()
		barrier.Await()
		for i := 0; i < rounds; i++ {
			for _, h := range rass {
				if _, err := s.Driver.RasState(h, false); err != nil {
					errs <- err
				}
			}
		}
	}()
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent query failed: %v", err)
	}
}

func TestMemoryExhaustion(t *testing.T) {
	s := newSuite(t)
	dev := s.Devices[0]
	props, err := s.Driver.DeviceProperties(dev)
	require.NoError(t, err)

	ctx, err := s.Driver.CreateContext()
	require.NoError(t, err)
	defer s.Driver.DestroyContext(ctx)

	initialFree, err := s.TotalFreeMemory(dev)
	require.NoError(t, err)
	require.NotZero(t, initialFree)

	var ptrs []uintptr
	defer func() {
		for _, ptr := range ptrs {
			s.Driver.FreeMemory(ctx, ptr)
		}
	}()

	var allocErr error
	for {
		free, err := s.TotalFreeMemory(dev)
		require.NoError(t, err)
		if free == 0 {
			// Some drivers report zero free before the allocator gives
			// up; the loop must still end in an allocation failure.
			s.Log.Warn("reported free memory reached zero before allocation failed")
		}
		ptr, err := s.Driver.AllocDeviceMemory(ctx, dev, props.MaxMemAllocSize)
		if err != nil {
			allocErr = err
			break
		}
		ptrs = append(ptrs, ptr)
		require.Less(t, len(ptrs), 1<<20, "allocation loop never terminated")
	}

	require.Error(t, allocErr)
	assert.True(t, errors.Is(allocErr, levelzero.ResultErrorOutOfDeviceMemory),
		"exhaustion must surface ZE_RESULT_ERROR_OUT_OF_DEVICE_MEMORY, got %v", allocErr)

	for _, ptr := range ptrs {
		require.NoError(t, s.Driver.FreeMemory(ctx, ptr))
	}
	ptrs = nil

	restored, err := s.TotalFreeMemory(dev)
	require.NoError(t, err)
	assert.Equal(t, initialFree, restored, "freeing every allocation restores capacity")
}
