package main

import (
	"net/http"

	"github.com/common-nighthawk/go-figure"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/wenju-he/level-zero-tests/internal/config"
	"github.com/wenju-he/level-zero-tests/internal/harness"
	"github.com/wenju-he/level-zero-tests/internal/registry"
)

func watchCommand(cfg **config.Config, log **zap.Logger) *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Poll device state and serve it as Prometheus metrics",
		Action: func(c *cli.Context) error {
			figure.NewFigure("zelz", "", true).Print()

			suite, err := harness.NewSuite(*cfg, *log)
			if err != nil {
				return err
			}
			defer suite.Close()

			reg := registry.NewDeviceRegistry(suite.Driver, (*cfg).Watch.PollInterval, *log)
			defer reg.Stop()

			addr := (*cfg).Watch.MetricsListen
			http.Handle("/metrics", promhttp.Handler())
			(*log).Info("serving metrics", zap.String("address", addr))
			return http.ListenAndServe(addr, nil)
		},
	}
}
