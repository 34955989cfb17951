package harness

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBarrier(t *testing.T) {
	t.Run("two participants release together", func(t *testing.T) {
		b := NewBarrier(2)
		var released atomic.Int32

		var wg sync.WaitGroup
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				b.Await()
				released.Add(1)
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(2), released.Load())
	})

	t.Run("single participant does not block", func(t *testing.T) {
		b := NewBarrier(1)
		done := make(chan struct{})
		go func() {
			b.Await()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("single-participant barrier blocked")
		}
	})

	t.Run("no early release", func(t *testing.T) {
		b := NewBarrier(2)
		var released atomic.Int32

		go func() {
			b.Await()
			released.Add(1)
		}()

		// The lone arrival must still be parked.
		time.Sleep(50 * time.Millisecond)
		assert.Equal(t, int32(0), released.Load())

		b.Await()
	})

	t.Run("reusable across rounds", func(t *testing.T) {
		b := NewBarrier(2)
		for round := 0; round < 3; round++ {
			var wg sync.WaitGroup
			for i := 0; i < 2; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					b.Await()
				}()
			}
			wg.Wait()
		}
	})

	t.Run("many participants", func(t *testing.T) {
		const n = 16
		b := NewBarrier(n)
		var concurrent atomic.Int32
		var peak atomic.Int32

		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				b.Await()
				cur := concurrent.Add(1)
				for {
					p := peak.Load()
					if cur <= p || peak.CompareAndSwap(p, cur) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				concurrent.Add(-1)
			}()
		}
		wg.Wait()
		// All goroutines were released at once, so overlap must exceed one.
		assert.Greater(t, peak.Load(), int32(1))
	})

	t.Run("invalid participant count panics", func(t *testing.T) {
		require.Panics(t, func() { NewBarrier(0) })
	})
}
