package conformance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wenju-he/level-zero-tests/internal/levelzero"
)

func TestRasErrorSetEnumeration(t *testing.T) {
	s := newSuite(t)

	for _, dev := range s.Devices {
		var count uint32
		handles, err := s.Driver.EnumRasErrorSets(dev, &count)
		require.NoError(t, err)
		assert.Equal(t, int(count), len(handles))
		for _, h := range handles {
			assert.NotZero(t, h)
		}

		inflated := count + 10
		handles, err = s.Driver.EnumRasErrorSets(dev, &inflated)
		require.NoError(t, err)
		assert.Equal(t, count, inflated, "inflated count must be corrected down")
		assert.Len(t, handles, int(count))
	}
}

func TestRasProperties(t *testing.T) {
	s := newSuite(t)

	for _, dev := range s.Devices {
		props, err := s.Driver.DeviceProperties(dev)
		require.NoError(t, err)

		var count uint32
		handles, err := s.Driver.EnumRasErrorSets(dev, &count)
		require.NoError(t, err)

		for _, h := range handles {
			rp, err := s.Driver.RasProperties(h)
			require.NoError(t, err)
			assert.Contains(t,
				[]levelzero.RasErrorType{levelzero.RasErrorCorrectable, levelzero.RasErrorUncorrectable},
				rp.Type)
			if rp.OnSubdevice {
				assert.Less(t, rp.SubdeviceID, props.NumSubdevices)
			}

			again, err := s.Driver.RasProperties(h)
			require.NoError(t, err)
			assert.Equal(t, rp, again)
		}
	}
}

func TestRasStateClearOnRead(t *testing.T) {
	s := newSuite(t)
	dev := s.Devices[0]

	var count uint32
	handles, err := s.Driver.EnumRasErrorSets(dev, &count)
	require.NoError(t, err)
	require.NotEmpty(t, handles)

	for _, h := range handles {
		// Reading without clear must not disturb the counters.
		first, err := s.Driver.RasState(h, false)
		require.NoError(t, err)
		second, err := s.Driver.RasState(h, false)
		require.NoError(t, err)
		assert.Equal(t, first, second)

		// Reading with clear resets every category.
		_, err = s.Driver.RasState(h, true)
		require.NoError(t, err)
		cleared, err := s.Driver.RasState(h, false)
		require.NoError(t, err)
		assert.Equal(t, levelzero.RasState{}, cleared)
	}
}
