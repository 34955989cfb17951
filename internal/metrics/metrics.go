package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DriverCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zelz_driver_calls_total",
		Help: "The total number of driver entry point invocations",
	}, []string{"function", "result"})

	ScenarioDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "zelz_scenario_duration_ms",
		Help:    "Duration of conformance scenarios in milliseconds",
		Buckets: prometheus.ExponentialBuckets(1, 2, 15), // 1ms to ~32s
	}, []string{"scenario"})

	HelperLaunches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zelz_helper_launches_total",
		Help: "Total number of helper process launches by outcome",
	}, []string{"helper", "outcome"})

	DevicesDiscovered = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "zelz_devices_discovered",
		Help: "Number of devices reported by the last enumeration",
	})

	DeviceFreeMemoryBytes = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "zelz_device_free_memory_bytes",
		Help: "Free memory reported by the last sysman state poll",
	}, []string{"device"})
)
