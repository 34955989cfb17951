package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/wenju-he/level-zero-tests/internal/config"
	"github.com/wenju-he/level-zero-tests/internal/harness"
)

func devicesCommand(cfg **config.Config, log **zap.Logger) *cli.Command {
	return &cli.Command{
		Name:  "devices",
		Usage: "List devices and their sysman memory and RAS topology",
		Action: func(c *cli.Context) error {
			suite, err := harness.NewSuite(*cfg, *log)
			if err != nil {
				return err
			}
			defer suite.Close()

			for i, dev := range suite.Devices {
				props, err := suite.Driver.DeviceProperties(dev)
				if err != nil {
					return err
				}
				fmt.Printf("device %d: %s (uuid %s, subdevices %d)\n",
					i, props.Name, uuid.UUID(props.UUID), props.NumSubdevices)

				var count uint32
				mems, err := suite.Driver.EnumMemoryModules(dev, &count)
				if err != nil {
					return err
				}
				for j, h := range mems {
					mprops, err := suite.Driver.MemoryProperties(h)
					if err != nil {
						return err
					}
					state, err := suite.Driver.MemoryState(h)
					if err != nil {
						return err
					}
					fmt.Printf("  mem %d: size %d, free %d, health %d, bus width %d, channels %d\n",
						j, state.Size, state.Free, state.Health, mprops.BusWidth, mprops.NumChannels)
				}

				count = 0
				rass, err := suite.Driver.EnumRasErrorSets(dev, &count)
				if err != nil {
					return err
				}
				for j, h := range rass {
					rprops, err := suite.Driver.RasProperties(h)
					if err != nil {
						return err
					}
					fmt.Printf("  ras %d: type %d, on subdevice %v\n", j, rprops.Type, rprops.OnSubdevice)
				}
			}
			return nil
		},
	}
}
