package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/wenju-he/level-zero-tests/internal/config"
	"github.com/wenju-he/level-zero-tests/internal/harness"
	"github.com/wenju-he/level-zero-tests/internal/helper"
	"github.com/wenju-he/level-zero-tests/internal/launcher"
	"github.com/wenju-he/level-zero-tests/internal/levelzero"
	"github.com/wenju-he/level-zero-tests/internal/logger"
)

// Parent debugger: launches a debug_helper child, attaches a debug session
// by its pid, signals it to proceed, and propagates its exit code.
func main() {
	app := &cli.App{
		Name:  "child_debugger",
		Usage: "Attach a debug session to a launched debuggee",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:     "device_id",
				Usage:    "Ordinal of the device to test",
				Required: true,
			},
			&cli.Uint64Flag{
				Name:     "index",
				Usage:    "Index of this debuggee",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "use_sub_devices",
				Usage: "Use subdevices",
			},
			&cli.StringFlag{
				Name:  "helper",
				Value: "debug_helper",
				Usage: "Path to the debug_helper binary",
			},
			&cli.StringFlag{
				Name:  "config",
				Value: "config.yaml",
				Usage: "Path to the suite configuration file",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}
	log, err := logger.NewHelper("child_debugger", cfg.Logger.Verbosity)
	if err != nil {
		return err
	}

	suite, err := harness.NewSuite(cfg, log)
	if err != nil {
		log.Error("driver setup failed", zap.Error(err))
		os.Exit(1)
	}
	defer suite.Close()

	opts := helper.DebuggerOptions{
		DeviceOrdinal: c.Int("device_id"),
		UseSubdevices: c.Bool("use_sub_devices"),
		Index:         c.Uint64("index"),
		SegmentPrefix: cfg.Ipc.SegmentPrefix,
	}
	log.Debug("index", zap.Uint64("index", opts.Index))

	binary := c.String("helper")
	launch := func() (int, func() (int, error), error) {
		h, err := launcher.Launch(binary, launcher.Options{
			DeviceOrdinal: opts.DeviceOrdinal,
			UseSubdevices: opts.UseSubdevices,
			Index:         opts.Index,
			Args:          []string{"--segment_prefix", opts.SegmentPrefix},
			Env: []string{
				levelzero.BackendEnv + "=" + suite.Driver.Name(),
				levelzero.LibraryPathEnv + "=" + cfg.Driver.LibraryPath,
			},
		}, cfg.Helper.Timeout, log)
		if err != nil {
			return 0, nil, err
		}
		return h.Pid(), h.Wait, nil
	}

	code, err := helper.RunDebugger(suite.Driver, opts, launch, log)
	if err != nil {
		log.Error("debug scenario failed", zap.Error(err))
		os.Exit(1)
	}
	os.Exit(code)
	return nil
}
