package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/wenju-he/level-zero-tests/internal/helper"
	"github.com/wenju-he/level-zero-tests/internal/logger"
)

// Debuggee application. It blocks on the proceed semaphore until the
// debugger has attached, then runs a small device workload and exits.
func main() {
	app := &cli.App{
		Name:  "debug_helper",
		Usage: "Run a device workload once the attached debugger signals proceed",
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
				Name:  "segment_prefix",
				Value: "zelz",
				Usage: "Namespace prefix of the proceed semaphore",
			},
			&cli.StringFlag{
				Name:  "verbosity",
				Value: "debug",
				Usage: "Log verbosity",
			},
		},
		Action: func(c *cli.Context) error {
			log, err := logger.NewHelper("debug_helper", c.String("verbosity"))
			if err != nil {
				return err
			}
			opts := helper.DebuggeeOptions{
				DeviceOrdinal: c.Int("device_id"),
				UseSubdevices: c.Bool("use_sub_devices"),
				Index:         c.Uint64("index"),
				SegmentPrefix: c.String("segment_prefix"),
			}
			log.Debug("debuggee starting",
				zap.Int("device_id", opts.DeviceOrdinal),
				zap.Uint64("index", opts.Index),
				zap.Bool("use_sub_devices", opts.UseSubdevices))
			os.Exit(helper.RunDebuggee(opts, log))
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
