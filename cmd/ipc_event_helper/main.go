package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/wenju-he/level-zero-tests/internal/helper"
	"github.com/wenju-he/level-zero-tests/internal/logger"
)

// Child side of the IPC event handshake. The parent writes the shared
// record and exports the event pool handle before this process starts;
// everything this process needs arrives through the named segment.
func main() {
	app := &cli.App{
		Name:  "ipc_event_helper",
		Usage: "Wait on an event transferred through a shared IPC handle",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "segment_prefix",
				Value: "zelz",
				Usage: "Namespace prefix of the shared memory segment",
			},
			// Accepted for launcher compatibility; the child learns which
			// action to perform from the shared record, not the flags.
			&cli.IntFlag{
				Name:  "device_id",
				Usage: "Ordinal of the device to test",
			},
			&cli.Uint64Flag{
				Name:  "index",
				Usage: "Index of this helper instance",
			},
			&cli.BoolFlag{
				Name:  "use_sub_devices",
				Usage: "Use subdevices",
			},
			&cli.StringFlag{
				Name:  "verbosity",
				Value: "debug",
				Usage: "Log verbosity",
			},
		},
		Action: func(c *cli.Context) error {
			log, err := logger.NewHelper("ipc_event_helper", c.String("verbosity"))
			if err != nil {
				return err
			}
			os.Exit(helper.RunIpcEventChild(c.String("segment_prefix"), log))
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
