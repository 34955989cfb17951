package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/wenju-he/level-zero-tests/internal/config"
	"github.com/wenju-he/level-zero-tests/internal/harness"
	"github.com/wenju-he/level-zero-tests/internal/helper"
	"github.com/wenju-he/level-zero-tests/internal/ipc"
	"github.com/wenju-he/level-zero-tests/internal/launcher"
	"github.com/wenju-he/level-zero-tests/internal/levelzero"
)

var childTypes = map[string]ipc.ChildType{
	"host":    ipc.ChildHostReads,
	"device":  ipc.ChildDeviceReads,
	"device2": ipc.ChildDevice2Reads,
	"multi":   ipc.ChildMultiDeviceReads,
}

func ipcCommand(cfg **config.Config, log **zap.Logger) *cli.Command {
	return &cli.Command{
		Name:  "ipc",
		Usage: "Run the IPC event handshake scenarios against a child helper",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "helper",
				Value: "ipc_event_helper",
				Usage: "Path to the ipc_event_helper binary",
			},
			&cli.StringFlag{
				Name:  "type",
				Value: "all",
				Usage: "Scenario to run: host, device, device2, multi, or all",
			},
		},
		Action: func(c *cli.Context) error {
			suite, err := harness.NewSuite(*cfg, *log)
			if err != nil {
				return err
			}
			defer suite.Close()

			selected := make([]ipc.ChildType, 0, len(childTypes))
			if name := c.String("type"); name == "all" {
				for _, t := range childTypes {
					selected = append(selected, t)
				}
			} else {
				t, ok := childTypes[name]
				if !ok {
					return fmt.Errorf("unknown scenario type %q", name)
				}
				selected = append(selected, t)
			}

			binary := c.String("helper")
			prefix := (*cfg).Ipc.SegmentPrefix
			for _, child := range selected {
				launch := func() (func() (int, error), error) {
					h, err := launcher.Launch(binary, launcher.Options{
						Args: []string{"--segment_prefix", prefix},
						Env: []string{
							levelzero.BackendEnv + "=" + suite.Driver.Name(),
							levelzero.LibraryPathEnv + "=" + (*cfg).Driver.LibraryPath,
						},
					}, (*cfg).Helper.Timeout, *log)
					if err != nil {
						return nil, err
					}
					return h.Wait, nil
				}
				if err := helper.RunIpcEventScenario(suite.Driver, prefix, child, launch, *log); err != nil {
					return err
				}
				(*log).Info("scenario passed", zap.Stringer("type", child))
			}
			return nil
		},
	}
}
