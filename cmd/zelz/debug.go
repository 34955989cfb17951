package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/wenju-he/level-zero-tests/internal/config"
	"github.com/wenju-he/level-zero-tests/internal/harness"
	"github.com/wenju-he/level-zero-tests/internal/helper"
	"github.com/wenju-he/level-zero-tests/internal/launcher"
	"github.com/wenju-he/level-zero-tests/internal/levelzero"
)

func debugCommand(cfg **config.Config, log **zap.Logger) *cli.Command {
	return &cli.Command{
		Name:  "debug",
		Usage: "Attach a debug session to a launched debuggee and run it to completion",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "helper",
				Value: "debug_helper",
				Usage: "Path to the debug_helper binary",
			},
			&cli.IntFlag{
				Name:  "device_id",
				Value: 0,
				Usage: "Ordinal of the device to attach on",
			},
			&cli.Uint64Flag{
				Name:  "index",
				Value: 0,
				Usage: "Index distinguishing concurrent debug scenarios",
			},
			&cli.BoolFlag{
				Name:  "use_sub_devices",
				Usage: "Run against subdevices",
			},
		},
		Action: func(c *cli.Context) error {
			suite, err := harness.NewSuite(*cfg, *log)
			if err != nil {
				return err
			}
			defer suite.Close()

			opts := helper.DebuggerOptions{
				DeviceOrdinal: c.Int("device_id"),
				UseSubdevices: c.Bool("use_sub_devices"),
				Index:         c.Uint64("index"),
				SegmentPrefix: (*cfg).Ipc.SegmentPrefix,
			}
			binary := c.String("helper")
			launch := func() (int, func() (int, error), error) {
				h, err := launcher.Launch(binary, launcher.Options{
					DeviceOrdinal: opts.DeviceOrdinal,
					UseSubdevices: opts.UseSubdevices,
					Index:         opts.Index,
					Args:          []string{"--segment_prefix", opts.SegmentPrefix},
					Env: []string{
						levelzero.BackendEnv + "=" + suite.Driver.Name(),
						levelzero.LibraryPathEnv + "=" + (*cfg).Driver.LibraryPath,
					},
				}, (*cfg).Helper.Timeout, *log)
				if err != nil {
					return 0, nil, err
				}
				return h.Pid(), h.Wait, nil
			}

			code, err := helper.RunDebugger(suite.Driver, opts, launch, *log)
			if err != nil {
				return err
			}
			if code != 0 {
				return fmt.Errorf("debuggee exited with code %d", code)
			}
			(*log).Info("debug scenario passed", zap.Uint64("index", opts.Index))
			return nil
		},
	}
}
