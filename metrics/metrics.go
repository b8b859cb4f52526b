package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	DirLabel = "dir"
	DirTx    = "tx"
	DirRx    = "rx"
)

var (
	PacketCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "radiosim",
			Name:      "packet_total",
			Help:      "The total number of packets crossing the air interface",
		},
		[]string{DirLabel},
	)

	DecodeErrorCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "radiosim",
			Name:      "decode_error_total",
			Help:      "The total number of downstream lines without a decodable txpk",
		},
	)

	CaptureErrorCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "radiosim",
			Name:      "capture_error_total",
			Help:      "The total number of errors writing to the capture store",
		},
	)
)
