package helper

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/wenju-he/level-zero-tests/internal/ipc"
	"github.com/wenju-he/level-zero-tests/internal/levelzero"
	"github.com/wenju-he/level-zero-tests/internal/metrics"
)

// LaunchChild starts an IPC child process and returns a wait function that
// blocks until the child exits and yields its exit code. The conformance
// tests re-exec the test binary; the CLI launches the helper executable.
type LaunchChild func() (wait func() (int, error), err error)

// RunIpcEventScenario drives the parent side of one event handshake:
// create the IPC-capable pool, export the handle, publish the record,
// launch the child, signal, and require a clean child exit.
//
// Program order enforces the protocol's only ordering guarantee: the
// record is fully written before the child process exists.
func RunIpcEventScenario(drv levelzero.Driver, segmentPrefix string, child ipc.ChildType, launch LaunchChild, log *zap.Logger) error {
	start := time.Now()
	defer func() {
		metrics.ScenarioDuration.WithLabelValues("ipc_event_" + child.String()).
			Observe(float64(time.Since(start).Milliseconds()))
	}()

	ctx, err := drv.CreateContext()
	if err != nil {
		return fmt.Errorf("context create: %w", err)
	}
	defer drv.DestroyContext(ctx)

	pool, err := drv.CreateEventPool(ctx, levelzero.EventPoolFlagHostVisible|levelzero.EventPoolFlagIPC, 10)
	if err != nil {
		return fmt.Errorf("event pool create: %w", err)
	}
	defer drv.DestroyEventPool(pool)

	ipcHandle, err := drv.GetIpcHandle(pool)
	if err != nil {
		return fmt.Errorf("ipc handle export: %w", err)
	}

	seg, err := ipc.CreateSegment(segmentPrefix, ipc.SegmentName, ipc.SharedDataSize)
	if err != nil {
		return fmt.Errorf("segment create: %w", err)
	}
	defer seg.Close()

	shared := ipc.SharedData{Child: child, IpcHandle: ipcHandle}
	if err := shared.Encode(seg.Bytes()); err != nil {
		return fmt.Errorf("segment write: %w", err)
	}

	ev, err := drv.CreateEvent(pool, levelzero.DefaultEventDesc)
	if err != nil {
		return fmt.Errorf("event create: %w", err)
	}
	defer drv.DestroyEvent(ev)

	wait, err := launch()
	if err != nil {
		return fmt.Errorf("child launch: %w", err)
	}
	log.Debug("signalling child", zap.Stringer("type", child))

	// Give the child a moment to reach its wait before the signal lands;
	// the event survives an early signal either way.
	time.Sleep(50 * time.Millisecond)
	if err := drv.SignalEvent(ev); err != nil {
		return fmt.Errorf("event signal: %w", err)
	}

	code, err := wait()
	if err != nil {
		return fmt.Errorf("child wait: %w", err)
	}
	if code != 0 {
		return fmt.Errorf("child %s exited with code %d", child, code)
	}
	return nil
}
