package harness

import (
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/wenju-he/level-zero-tests/internal/levelzero"
)

// BandwidthSample summarizes repeated bandwidth counter reads from one
// memory module.
type BandwidthSample struct {
	Samples        int
	MeanReadDelta  float64
	MeanWriteDelta float64
	StdReadDelta   float64
	Monotonic      bool
}

// SampleBandwidth reads the bandwidth counters n times with a short pause
// between reads and reduces the deltas. Counters must never move backwards;
// Monotonic reports whether that held across the whole window.
func SampleBandwidth(drv levelzero.Driver, h levelzero.MemHandle, n int, pause time.Duration) (BandwidthSample, error) {
	if n < 2 {
		n = 2
	}
	reads := make([]float64, 0, n-1)
	writes := make([]float64, 0, n-1)
	monotonic := true

	prev, err := drv.MemoryBandwidth(h)
	if err != nil {
		return BandwidthSample{}, err
	}
	for i := 1; i < n; i++ {
		time.Sleep(pause)
		cur, err := drv.MemoryBandwidth(h)
		if err != nil {
			return BandwidthSample{}, err
		}
		if cur.ReadCounter < prev.ReadCounter || cur.WriteCounter < prev.WriteCounter || cur.Timestamp < prev.Timestamp {
			monotonic = false
		}
		reads = append(reads, float64(cur.ReadCounter-prev.ReadCounter))
		writes = append(writes, float64(cur.WriteCounter-prev.WriteCounter))
		prev = cur
	}

	return BandwidthSample{
		Samples:        n,
		MeanReadDelta:  stat.Mean(reads, nil),
		MeanWriteDelta: stat.Mean(writes, nil),
		StdReadDelta:   stat.StdDev(reads, nil),
		Monotonic:      monotonic,
	}, nil
}
