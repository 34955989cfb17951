package ipc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSemaphore(t *testing.T) {
	t.Run("post then wait", func(t *testing.T) {
		sem, err := CreateSemaphore(testPrefix(t), 0)
		require.NoError(t, err)
		defer sem.Close()

		require.NoError(t, sem.Post())
		require.NoError(t, sem.Wait())
	})

	t.Run("wait blocks until peer posts", func(t *testing.T) {
		prefix := testPrefix(t)
		owner, err := CreateSemaphore(prefix, 1)
		require.NoError(t, err)
		defer owner.Close()

		peer, err := OpenSemaphore(prefix, 1)
		require.NoError(t, err)
		defer peer.Close()

		done := make(chan struct{})
		go func() {
			peer.Wait()
			close(done)
		}()

		select {
		case <-done:
			t.Fatal("wait returned before post")
		case <-time.After(50 * time.Millisecond):
		}

		require.NoError(t, owner.Post())
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("wait did not observe post")
		}
	})

	t.Run("trywait without post", func(t *testing.T) {
		sem, err := CreateSemaphore(testPrefix(t), 2)
		require.NoError(t, err)
		defer sem.Close()

		assert.False(t, sem.TryWait())
		require.NoError(t, sem.Post())
		assert.True(t, sem.TryWait())
		assert.False(t, sem.TryWait())
	})

	t.Run("open before create fails", func(t *testing.T) {
		_, err := OpenSemaphore(testPrefix(t), 3)
		assert.Error(t, err)
	})

	t.Run("owner close unlinks the name", func(t *testing.T) {
		prefix := testPrefix(t)
		sem, err := CreateSemaphore(prefix, 4)
		require.NoError(t, err)
		require.NoError(t, sem.Close())

		_, err = OpenSemaphore(prefix, 4)
		assert.Error(t, err)
	})
}
