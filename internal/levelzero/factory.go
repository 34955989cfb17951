package levelzero

import (
	"fmt"
	"os"

	"go.uber.org/zap"
)

// BackendEnv overrides the configured backend; the conformance tests use it
// to pin child helper processes to the same backend as the parent.
const BackendEnv = "ZELZ_BACKEND"

// LibraryPathEnv overrides the loader library path for child processes.
const LibraryPathEnv = "ZELZ_LIBRARY_PATH"

// New selects a driver backend. "native" and "sim" are explicit; "auto"
// (or empty) tries the native loader and falls back to the simulator when
// no library can be resolved.
func New(backend, libraryPath string, log *zap.Logger) (Driver, error) {
	if env := os.Getenv(BackendEnv); env != "" {
		backend = env
	}
	if env := os.Getenv(LibraryPathEnv); env != "" {
		libraryPath = env
	}

	switch backend {
	case "native":
		return NewNative(libraryPath, log)
	case "sim":
		return NewSim(log), nil
	case "auto", "":
		drv, err := NewNative(libraryPath, log)
		if err != nil {
			log.Info("native loader unavailable, using simulator", zap.Error(err))
			return NewSim(log), nil
		}
		return drv, nil
	default:
		return nil, fmt.Errorf("unknown driver backend %q", backend)
	}
}
