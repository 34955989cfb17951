package launcher

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/wenju-he/level-zero-tests/internal/metrics"
)

// Options carries the identifying information a helper process needs to
// land on the right device and the right synchronization objects.
type Options struct {
	DeviceOrdinal int
	UseSubdevices bool
	// Index disambiguates concurrently launched helper instances; it keys
	// the per-instance semaphore name.
	Index uint64
	// Env entries appended to the child environment (KEY=VALUE).
	Env []string
	// Args prepended before the generated flags, for binaries that need a
	// subcommand or mode selector first.
	Args []string
}

// Helper is a launched child process.
type Helper struct {
	name   string
	cmd    *exec.Cmd
	cancel context.CancelFunc
	log    *zap.Logger
}

// Launch starts the helper binary with the canonical flag set. The child
// inherits stdout/stderr so its log lines interleave with the parent's.
// A zero timeout means no deadline beyond the caller's own.
func Launch(binary string, opts Options, timeout time.Duration, log *zap.Logger) (*Helper, error) {
	ctx := context.Background()
	cancel := context.CancelFunc(func() {})
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
	}

	args := append([]string{}, opts.Args...)
	args = append(args,
		"--device_id", strconv.Itoa(opts.DeviceOrdinal),
		"--index", strconv.FormatUint(opts.Index, 10),
	)
	if opts.UseSubdevices {
		args = append(args, "--use_sub_devices")
	}

	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), opts.Env...)

	if err := cmd.Start(); err != nil {
		cancel()
		metrics.HelperLaunches.WithLabelValues(binary, "start_error").Inc()
		return nil, fmt.Errorf("launch %s: %w", binary, err)
	}
	log.Debug("launched helper",
		zap.String("binary", binary),
		zap.Int("pid", cmd.Process.Pid),
		zap.Strings("args", args))
	return &Helper{name: binary, cmd: cmd, cancel: cancel, log: log}, nil
}

// Pid reports the child's process id, the key for debug attach.
func (h *Helper) Pid() int {
	return h.cmd.Process.Pid
}

// Wait blocks until the child exits and returns its exit code. A non-zero
// code means the child failed setup or its designated action.
func (h *Helper) Wait() (int, error) {
	defer h.cancel()
	err := h.cmd.Wait()
	code := h.cmd.ProcessState.ExitCode()
	outcome := "ok"
	if code != 0 {
		outcome = "failed"
	}
	metrics.HelperLaunches.WithLabelValues(h.name, outcome).Inc()
	if err != nil && code < 0 {
		return code, fmt.Errorf("helper %s: %w", h.name, err)
	}
	h.log.Debug("helper exited", zap.String("binary", h.name), zap.Int("code", code))
	return code, nil
}

// Kill terminates the child. Used only on parent-side abort paths.
func (h *Helper) Kill() {
	h.cancel()
	if h.cmd.Process != nil {
		h.cmd.Process.Kill()
	}
}
