package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Logger struct {
		Verbosity string `yaml:"verbosity"`
	} `yaml:"logger"`
	Driver struct {
		// Backend selects the driver binding: "native", "sim", or "auto".
		Backend string `yaml:"backend"`
		// LibraryPath overrides the loader library probed by the native backend.
		LibraryPath string `yaml:"libraryPath"`
		// DeviceFilter restricts the suite to the listed device ordinals.
		// Empty means all devices.
		DeviceFilter []int `yaml:"deviceFilter"`
	} `yaml:"driver"`
	Ipc struct {
		// SegmentPrefix namespaces shared memory segments and semaphores so
		// concurrent suite runs do not collide.
		SegmentPrefix string `yaml:"segmentPrefix"`
	} `yaml:"ipc"`
	Helper struct {
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"helper"`
	Watch struct {
		PollInterval  time.Duration `yaml:"pollInterval"`
		MetricsListen string        `yaml:"metricsListen"`
	} `yaml:"watch"`
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	var cfg Config
	cfg.Logger.Verbosity = "info"
	cfg.Driver.Backend = "auto"
	cfg.Ipc.SegmentPrefix = "zelz"
	cfg.Helper.Timeout = 2 * time.Minute
	cfg.Watch.PollInterval = 5 * time.Second
	cfg.Watch.MetricsListen = ":9464"
	return &cfg
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}

	config := Default()
	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, err
	}

	return config, nil
}
