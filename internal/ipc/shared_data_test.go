package ipc

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wenju-he/level-zero-tests/internal/levelzero"
)

func TestSharedDataLayout(t *testing.T) {
	// The record's binary layout is a cross-process contract; these offsets
	// must never move.
	assert.Equal(t, 72, SharedDataSize)

	var handle levelzero.IpcEventPoolHandle
	for i := range handle {
		handle[i] = byte(i + 1)
	}
	d := SharedData{Child: ChildDevice2Reads, IpcHandle: handle}

	buf := make([]byte, SharedDataSize)
	require.NoError(t, d.Encode(buf))

	assert.Equal(t, uint32(ChildDevice2Reads), binary.LittleEndian.Uint32(buf[0:4]))
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(buf[4:8]), "reserved word must stay zero")
	assert.Equal(t, handle[:], buf[8:72])
}

func TestSharedDataRoundTrip(t *testing.T) {
	for _, child := range []ChildType{ChildHostReads, ChildDeviceReads, ChildDevice2Reads, ChildMultiDeviceReads} {
		t.Run(child.String(), func(t *testing.T) {
			var handle levelzero.IpcEventPoolHandle
			handle[0] = 0xAB
			handle[63] = 0xCD
			in := SharedData{Child: child, IpcHandle: handle}

			buf := make([]byte, SharedDataSize)
			require.NoError(t, in.Encode(buf))

			out, err := DecodeSharedData(buf)
			require.NoError(t, err)
			assert.Equal(t, in, out)
		})
	}
}

func TestSharedDataErrors(t *testing.T) {
	t.Run("short buffer on encode", func(t *testing.T) {
		d := SharedData{}
		assert.Error(t, d.Encode(make([]byte, SharedDataSize-1)))
	})

	t.Run("short buffer on decode", func(t *testing.T) {
		_, err := DecodeSharedData(make([]byte, 8))
		assert.Error(t, err)
	})

	t.Run("invalid child type rejected", func(t *testing.T) {
		buf := make([]byte, SharedDataSize)
		binary.LittleEndian.PutUint32(buf[0:4], uint32(childTypeCount))
		_, err := DecodeSharedData(buf)
		assert.Error(t, err)
	})
}
