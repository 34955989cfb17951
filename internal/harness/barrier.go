package harness

import "sync"

// Barrier is a reusable rendezvous for a fixed number of participants. It
// exists to let tests drive two goroutines into a driver entry point at
// effectively the same instant when probing thread safety.
//
// Await blocks until all participants have arrived. There is no timeout: a
// participant that fails before reaching the barrier leaves the others
// blocked, bounded only by the test runner's own deadline. The suite accepts
// that trade for a primitive this small.
type Barrier struct {
	mu           sync.Mutex
	cond         *sync.Cond
	participants int
	arrived      int
	generation   int
}

func NewBarrier(participants int) *Barrier {
	if participants < 1 {
		panic("harness: barrier needs at least one participant")
	}
	b := &Barrier{participants: participants}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Await arrives at the barrier and blocks until every participant has
// arrived. The barrier resets once released, so it can be reused for
// successive rounds.
func (b *Barrier) Await() {
	b.mu.Lock()
	defer b.mu.Unlock()

	generation := b.generation
	b.arrived++
	if b.arrived == b.participants {
		b.arrived = 0
		b.generation++
		b.cond.Broadcast()
		return
	}
	for generation == b.generation {
		b.cond.Wait()
	}
}
