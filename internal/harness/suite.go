package harness

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wenju-he/level-zero-tests/internal/config"
	"github.com/wenju-he/level-zero-tests/internal/levelzero"
)

// Suite is the shared fixture for conformance scenarios: an initialized
// driver and the devices it enumerated.
type Suite struct {
	Driver  levelzero.Driver
	Devices []levelzero.DeviceHandle
	Log     *zap.Logger
}

// NewSuite builds the driver from the factory, initializes it, and
// enumerates devices. Any failure here is a setup failure in the suite's
// taxonomy: the caller should abort, not retry.
func NewSuite(cfg *config.Config, log *zap.Logger) (*Suite, error) {
	drv, err := levelzero.New(cfg.Driver.Backend, cfg.Driver.LibraryPath, log)
	if err != nil {
		return nil, fmt.Errorf("driver setup: %w", err)
	}
	if err := drv.Init(); err != nil {
		return nil, fmt.Errorf("driver init: %w", err)
	}
	devices, err := drv.Devices()
	if err != nil {
		return nil, fmt.Errorf("device enumeration: %w", err)
	}
	if filter := cfg.Driver.DeviceFilter; len(filter) > 0 {
		selected := make([]levelzero.DeviceHandle, 0, len(filter))
		for _, ordinal := range filter {
			if ordinal < 0 || ordinal >= len(devices) {
				return nil, fmt.Errorf("device filter ordinal %d out of range (%d devices)", ordinal, len(devices))
			}
			selected = append(selected, devices[ordinal])
		}
		devices = selected
	}
	if len(devices) == 0 {
		return nil, fmt.Errorf("no devices found")
	}
	return &Suite{
		Driver:  levelzero.NewInstrumented(drv),
		Devices: devices,
		Log:     log,
	}, nil
}

func (s *Suite) Close() error {
	return s.Driver.Close()
}

// FindDevice resolves a device by its zero-based ordinal, descending into
// subdevice ordinals when useSubdevices is set. Helper processes receive the
// ordinal on the command line, so both sides of a handshake land on the same
// hardware.
func (s *Suite) FindDevice(ordinal int, useSubdevices bool) (levelzero.DeviceHandle, error) {
	if ordinal < 0 || ordinal >= len(s.Devices) {
		return 0, fmt.Errorf("device ordinal %d out of range (%d devices)", ordinal, len(s.Devices))
	}
	dev := s.Devices[ordinal]
	if !useSubdevices {
		return dev, nil
	}
	props, err := s.Driver.DeviceProperties(dev)
	if err != nil {
		return 0, err
	}
	if props.NumSubdevices == 0 {
		return 0, fmt.Errorf("device %d has no subdevices", ordinal)
	}
	return dev, nil
}

// TotalFreeMemory sums the free capacity reported by every memory module of
// a device. The exhaustion scenario polls this between allocations.
func (s *Suite) TotalFreeMemory(dev levelzero.DeviceHandle) (uint64, error) {
	var count uint32
	handles, err := s.Driver.EnumMemoryModules(dev, &count)
	if err != nil {
		return 0, err
	}
	var free uint64
	for _, h := range handles {
		state, err := s.Driver.MemoryState(h)
		if err != nil {
			return 0, err
		}
		free += state.Free
	}
	return free, nil
}
