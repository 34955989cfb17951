// Package helper holds the process bodies of the suite's child executables.
// The cmd binaries are thin wrappers around these functions, and the
// conformance tests re-exec the test binary into them, so both paths run
// identical logic.
package helper

import (
	"go.uber.org/zap"

	"github.com/wenju-he/level-zero-tests/internal/ipc"
	"github.com/wenju-he/level-zero-tests/internal/levelzero"
)

// RunIpcEventChild is the body of the ipc_event_helper process. It opens the
// named segment the parent populated, reconstructs the event pool from the
// transferred IPC handle, performs the designated wait, and reports through
// the exit code. Any setup failure exits non-zero without attempting the
// action.
func RunIpcEventChild(segmentPrefix string, log *zap.Logger) int {
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

	seg, err := ipc.OpenSegment(segmentPrefix, ipc.SegmentName, ipc.SharedDataSize)
	if err != nil {
		log.Error("shared memory open failed", zap.Error(err))
		return 1
	}
	// Copy the record out before anything else; the segment is read
	// exactly once.
	shared, err := ipc.DecodeSharedData(seg.Bytes())
	seg.Close()
	if err != nil {
		log.Error("shared data decode failed", zap.Error(err))
		return 1
	}
	log.Debug("child starting", zap.Stringer("type", shared.Child))

	ctx, err := drv.CreateContext()
	if err != nil {
		log.Error("context create failed", zap.Error(err))
		return 1
	}
	defer drv.DestroyContext(ctx)

	pool, err := drv.OpenIpcHandle(ctx, shared.IpcHandle)
	if err != nil {
		log.Error("could not open shared event pool handle", zap.Error(err))
		return 1
	}
	defer drv.CloseIpcHandle(pool)

	switch shared.Child {
	case ipc.ChildHostReads:
		err = childHostReads(drv, pool)
	case ipc.ChildDeviceReads:
		err = childDeviceReads(drv, ctx, pool, 0)
	case ipc.ChildDevice2Reads:
		err = childDeviceReads(drv, ctx, pool, 1)
	case ipc.ChildMultiDeviceReads:
		err = childMultiDeviceReads(drv, ctx, pool)
	default:
		log.Error("unknown child type", zap.Uint32("type", uint32(shared.Child)))
		return 1
	}
	if err != nil {
		log.Error("child action failed", zap.Stringer("type", shared.Child), zap.Error(err))
		return 1
	}
	log.Debug("child done", zap.Stringer("type", shared.Child))
	return 0
}

func childHostReads(drv levelzero.Driver, pool levelzero.EventPoolHandle) error {
	ev, err := drv.CreateEvent(pool, levelzero.DefaultEventDesc)
	if err != nil {
		return err
	}
	defer drv.DestroyEvent(ev)
	return drv.SynchronizeEvent(ev, levelzero.InfiniteTimeout)
}

// childDeviceReads waits on the event through a command queue on the device
// with the given ordinal rather than from the host.
func childDeviceReads(drv levelzero.Driver, ctx levelzero.ContextHandle, pool levelzero.EventPoolHandle, ordinal int) error {
	devices, err := drv.Devices()
	if err != nil {
		return err
	}
	if ordinal >= len(devices) {
		return levelzero.ResultErrorInvalidArgument
	}
	ev, err := drv.CreateEvent(pool, levelzero.DefaultEventDesc)
	if err != nil {
		return err
	}
	defer drv.DestroyEvent(ev)
	return waitOnDevice(drv, ctx, devices[ordinal], ev)
}

func childMultiDeviceReads(drv levelzero.Driver, ctx levelzero.ContextHandle, pool levelzero.EventPoolHandle) error {
	devices, err := drv.Devices()
	if err != nil {
		return err
	}
	if len(devices) < 2 {
		return levelzero.ResultErrorInvalidArgument
	}
	ev, err := drv.CreateEvent(pool, levelzero.DefaultEventDesc)
	if err != nil {
		return err
	}
	defer drv.DestroyEvent(ev)
	for _, dev := range devices[:2] {
		if err := waitOnDevice(drv, ctx, dev, ev); err != nil {
			return err
		}
	}
	return nil
}

func waitOnDevice(drv levelzero.Driver, ctx levelzero.ContextHandle, dev levelzero.DeviceHandle, ev levelzero.EventHandle) error {
	list, err := drv.CreateCommandList(ctx, dev)
	if err != nil {
		return err
	}
	defer drv.DestroyCommandList(list)
	queue, err := drv.CreateCommandQueue(ctx, dev)
	if err != nil {
		return err
	}
	defer drv.DestroyCommandQueue(queue)

	if err := drv.AppendWaitOnEvents(list, []levelzero.EventHandle{ev}); err != nil {
		return err
	}
	if err := drv.CloseCommandList(list); err != nil {
		return err
	}
	if err := drv.ExecuteCommandLists(queue, []levelzero.CommandListHandle{list}); err != nil {
		return err
	}
	return drv.SynchronizeCommandQueue(queue, levelzero.InfiniteTimeout)
}
