package ipc

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPrefix(t *testing.T) string {
	return fmt.Sprintf("zelz_test_%d_%d", os.Getpid(), time.Now().UnixNano())
}

func TestSegment(t *testing.T) {
	t.Run("create write open read", func(t *testing.T) {
		prefix := testPrefix(t)
		parent, err := CreateSegment(prefix, SegmentName, SharedDataSize)
		require.NoError(t, err)
		defer parent.Close()

		d := SharedData{Child: ChildMultiDeviceReads}
		d.IpcHandle[10] = 0x7F
		require.NoError(t, d.Encode(parent.Bytes()))

		child, err := OpenSegment(prefix, SegmentName, SharedDataSize)
		require.NoError(t, err)
		defer child.Close()

		got, err := DecodeSharedData(child.Bytes())
		require.NoError(t, err)
		assert.Equal(t, d, got)
	})

	t.Run("open missing segment fails", func(t *testing.T) {
		_, err := OpenSegment(testPrefix(t), "never_created", SharedDataSize)
		assert.Error(t, err)
	})

	t.Run("open undersized segment fails", func(t *testing.T) {
		prefix := testPrefix(t)
		small, err := CreateSegment(prefix, SegmentName, 4)
		require.NoError(t, err)
		defer small.Close()

		_, err = OpenSegment(prefix, SegmentName, SharedDataSize)
		assert.Error(t, err)
	})

	t.Run("owner close removes the name", func(t *testing.T) {
		prefix := testPrefix(t)
		parent, err := CreateSegment(prefix, SegmentName, SharedDataSize)
		require.NoError(t, err)
		require.NoError(t, parent.Close())

		_, err = OpenSegment(prefix, SegmentName, SharedDataSize)
		assert.Error(t, err)
	})

	t.Run("borrower close keeps the name", func(t *testing.T) {
		prefix := testPrefix(t)
		parent, err := CreateSegment(prefix, SegmentName, SharedDataSize)
		require.NoError(t, err)
		defer parent.Close()

		child, err := OpenSegment(prefix, SegmentName, SharedDataSize)
		require.NoError(t, err)
		require.NoError(t, child.Close())

		again, err := OpenSegment(prefix, SegmentName, SharedDataSize)
		require.NoError(t, err)
		again.Close()
	})
}
