package helper

import (
	"go.uber.org/zap"

	"github.com/wenju-he/level-zero-tests/internal/ipc"
	"github.com/wenju-he/level-zero-tests/internal/levelzero"
)

// DebuggeeOptions mirror the debug helper's command line.
type DebuggeeOptions struct {
	DeviceOrdinal int
	UseSubdevices bool
	Index         uint64
	SegmentPrefix string
}

// RunDebuggee is the body of the debug_helper process: wait until the
// debugger has attached and posted the proceed semaphore, then run a small
// device workload under the debug session and exit cleanly.
func RunDebuggee(opts DebuggeeOptions, log *zap.Logger) int {
	drv, err := levelzero.New("", "", log)
	if err != nil {
		log.Error("driver setup failed", zap.Error(err))
		return 1
	}
	defer drv.Close()
	if err := drv.Init(); err != nil {
		log.Error("driver init failed", zap.Error(err))
		return 1
	}

	devices, err := drv.Devices()
	if err != nil || opts.DeviceOrdinal >= len(devices) {
		log.Error("could not find matching device",
			zap.Int("ordinal", opts.DeviceOrdinal), zap.Error(err))
		return 1
	}
	dev := devices[opts.DeviceOrdinal]

	sem, err := ipc.OpenSemaphore(opts.SegmentPrefix, opts.Index)
	if err != nil {
		log.Error("proceed semaphore open failed", zap.Error(err))
		return 1
	}
	defer sem.Close()

	log.Debug("waiting for debugger", zap.Uint64("index", opts.Index))
	if err := sem.Wait(); err != nil {
		log.Error("proceed wait failed", zap.Error(err))
		return 1
	}
	log.Debug("debugger attached, running workload")

	if err := runWorkload(drv, dev); err != nil {
		log.Error("workload failed", zap.Error(err))
		return 1
	}
	return 0
}

// runWorkload allocates, binds and frees a small device buffer so the debug
// session observes real driver activity from the debuggee.
func runWorkload(drv levelzero.Driver, dev levelzero.DeviceHandle) error {
	ctx, err := drv.CreateContext()
	if err != nil {
		return err
	}
	defer drv.DestroyContext(ctx)

	ptr, err := drv.AllocDeviceMemory(ctx, dev, 1<<20)
	if err != nil {
		return err
	}
	defer drv.FreeMemory(ctx, ptr)

	return drv.MakeMemoryResident(ctx, dev, ptr, 1<<20)
}
