//go:build !linux && !darwin

package levelzero

import "go.uber.org/zap"

// NewNative needs a dynamic loader, which this platform does not provide.
func NewNative(libraryPath string, log *zap.Logger) (Driver, error) {
	return nil, ResultErrorUnsupportedFeature
}
