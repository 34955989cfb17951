package registry

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wenju-he/level-zero-tests/internal/levelzero"
	"github.com/wenju-he/level-zero-tests/internal/metrics"
)

// ModuleSnapshot is one memory module's state at poll time.
type ModuleSnapshot struct {
	Health levelzero.MemHealth
	Free   uint64
	Size   uint64
}

// DeviceSnapshot is the cached view of one device.
type DeviceSnapshot struct {
	Handle  levelzero.DeviceHandle
	Name    string
	UUID    [16]byte
	Modules []ModuleSnapshot
}

// DeviceRegistry caches device state snapshots and refreshes them on a
// fixed interval, feeding the watch command and the Prometheus gauges.
type DeviceRegistry struct {
	mu        sync.RWMutex
	snapshots []DeviceSnapshot
	driver    levelzero.Driver
	interval  time.Duration
	logger    *zap.Logger
	stop      chan struct{}
	stopOnce  sync.Once
}

// NewDeviceRegistry creates and starts a registry. The cache is populated
// synchronously so callers see data immediately.
func NewDeviceRegistry(driver levelzero.Driver, interval time.Duration, logger *zap.Logger) *DeviceRegistry {
	r := &DeviceRegistry{
		driver:   driver,
		interval: interval,
		logger:   logger.Named("device_registry"),
		stop:     make(chan struct{}),
	}
	r.update()
	go r.run()
	return r
}

func (r *DeviceRegistry) run() {
	if r.interval == 0 {
		r.logger.Info("poll interval is zero, cache will not be updated periodically")
		return
	}
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.update()
		}
	}
}

func (r *DeviceRegistry) update() {
	snapshots, err := fetch(r.driver)
	if err != nil {
		r.logger.Error("failed to update device cache", zap.Error(err))
		return
	}

	for _, snap := range snapshots {
		var free uint64
		for _, m := range snap.Modules {
			free += m.Free
		}
		metrics.DeviceFreeMemoryBytes.WithLabelValues(snap.Name).Set(float64(free))
	}

	r.mu.Lock()
	r.snapshots = snapshots
	r.mu.Unlock()
	r.logger.Debug("device cache updated", zap.Int("devices", len(snapshots)))
}

func fetch(drv levelzero.Driver) ([]DeviceSnapshot, error) {
	devices, err := drv.Devices()
	if err != nil {
		return nil, fmt.Errorf("enumerate devices: %w", err)
	}
	snapshots := make([]DeviceSnapshot, 0, len(devices))
	for _, dev := range devices {
		props, err := drv.DeviceProperties(dev)
		if err != nil {
			return nil, fmt.Errorf("device properties: %w", err)
		}
		snap := DeviceSnapshot{Handle: dev, Name: props.Name, UUID: props.UUID}

		var count uint32
		handles, err := drv.EnumMemoryModules(dev, &count)
		if err != nil {
			return nil, fmt.Errorf("enumerate memory modules: %w", err)
		}
		for _, h := range handles {
			state, err := drv.MemoryState(h)
			if err != nil {
				return nil, fmt.Errorf("memory state: %w", err)
			}
			snap.Modules = append(snap.Modules, ModuleSnapshot{
				Health: state.Health,
				Free:   state.Free,
				Size:   state.Size,
			})
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, nil
}

// Snapshots returns the cached view.
func (r *DeviceRegistry) Snapshots() []DeviceSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]DeviceSnapshot(nil), r.snapshots...)
}

// Stop halts the background refresh.
func (r *DeviceRegistry) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
}
