package helper

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/wenju-he/level-zero-tests/internal/ipc"
	"github.com/wenju-he/level-zero-tests/internal/levelzero"
	"github.com/wenju-he/level-zero-tests/internal/metrics"
)

// DebuggerOptions mirror the child_debugger command line.
type DebuggerOptions struct {
	DeviceOrdinal int
	UseSubdevices bool
	Index         uint64
	SegmentPrefix string
}

// LaunchDebuggee starts the debuggee process and exposes its pid and an
// exit-code wait, the two things the debugger needs from it.
type LaunchDebuggee func() (pid int, wait func() (int, error), err error)

// RunDebugger drives one attach/notify/detach sequence: create the proceed
// semaphore, launch the debuggee, attach a debug session by its pid, post
// the semaphore, wait for exit, detach. An attach failure aborts the
// scenario; there is no partial retry.
func RunDebugger(drv levelzero.Driver, opts DebuggerOptions, launch LaunchDebuggee, log *zap.Logger) (int, error) {
	start := time.Now()
	defer func() {
		metrics.ScenarioDuration.WithLabelValues("debug_attach").
			Observe(float64(time.Since(start).Milliseconds()))
	}()

	devices, err := drv.Devices()
	if err != nil {
		return -1, fmt.Errorf("device enumeration: %w", err)
	}
	if opts.DeviceOrdinal >= len(devices) {
		return -1, fmt.Errorf("could not find matching device %d", opts.DeviceOrdinal)
	}
	dev := devices[opts.DeviceOrdinal]

	// Created before launch so the debuggee can always open it.
	sem, err := ipc.CreateSemaphore(opts.SegmentPrefix, opts.Index)
	if err != nil {
		return -1, fmt.Errorf("proceed semaphore create: %w", err)
	}
	defer sem.Close()

	pid, wait, err := launch()
	if err != nil {
		return -1, fmt.Errorf("debuggee launch: %w", err)
	}
	log.Debug("attaching to debuggee", zap.Int("pid", pid))

	session, err := drv.DebugAttach(dev, pid)
	if err != nil {
		return -1, fmt.Errorf("debug attach to pid %d: %w", pid, err)
	}

	log.Debug("notifying debuggee to proceed")
	if err := sem.Post(); err != nil {
		drv.DebugDetach(session)
		return -1, fmt.Errorf("proceed notify: %w", err)
	}

	log.Debug("waiting for debuggee exit")
	code, err := wait()
	if err != nil {
		drv.DebugDetach(session)
		return code, fmt.Errorf("debuggee wait: %w", err)
	}

	log.Debug("detaching", zap.Int("exit_code", code))
	if err := drv.DebugDetach(session); err != nil {
		return code, fmt.Errorf("debug detach: %w", err)
	}
	return code, nil
}
