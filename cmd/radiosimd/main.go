package main

import (
	"context"
	"encoding/hex"
	"fmt"
	stdlog "log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgraph-io/badger/v2"
	"github.com/dgraph-io/badger/v2/options"
	log "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/namsral/flag"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/akhenakh/radiosim/capture"
	badgercap "github.com/akhenakh/radiosim/capture/badger"
	"github.com/akhenakh/radiosim/metrics"
	"github.com/akhenakh/radiosim/radio"
	"github.com/akhenakh/radiosim/web"
)

const appName = "radiosimd"

var (
	version = "no version from LDFLAGS"

	modem           = flag.String("modem", "lora", "Modem kind: lora or fsk")
	frequency       = flag.Int("frequency", 868100000, "Channel frequency in Hz")
	spreadingFactor = flag.Int("spreadingFactor", 7, "LoRa spreading factor 5-12")
	bandwidth       = flag.Int("bandwidth", 0, "LoRa bandwidth class 0: 125kHz 1: 250kHz 2: 500kHz")
	codingRate      = flag.Int("codingRate", 1, "LoRa coding rate 1: 4/5 .. 4: 4/8")
	preambleLen     = flag.Int("preambleLen", 8, "Preamble length, symbols for LoRa, bytes for FSK")
	fixLen          = flag.Bool("fixLen", false, "Fixed length framing")
	crcOn           = flag.Bool("crcOn", true, "Enable the payload CRC")
	iqInverted      = flag.Bool("iqInverted", false, "Invert IQ signals (LoRa only)")
	bitRate         = flag.Int("bitRate", 50000, "FSK bit rate in b/s")
	fdev            = flag.Int("fdev", 25000, "FSK frequency deviation in Hz")
	rxContinuous    = flag.Bool("rxContinuous", true, "Continuous reception mode")
	payload         = flag.String("payload", "", "Hex payload to transmit once at startup")

	dbPath = flag.String("dbPath", "capture.db", "Capture DB path")

	httpMetricsPort = flag.Int("httpMetricsPort", 8888, "http metrics port")
	httpAPIPort     = flag.Int("httpAPIPort", 9201, "http API port")
	healthPort      = flag.Int("healthPort", 6666, "grpc health port")

	httpServer        *http.Server
	grpcHealthServer  *grpc.Server
	httpMetricsServer *http.Server
)

func main() {
	flag.Parse()

	// stdout carries the air interface, all logging goes to stderr
	logger := log.NewJSONLogger(log.NewSyncWriter(os.Stderr))
	logger = log.With(logger, "caller", log.DefaultCaller, "ts", log.DefaultTimestampUTC)
	logger = log.With(logger, "app", appName)
	logger = level.NewFilter(logger, level.AllowAll())

	stdlog.SetOutput(log.NewStdlibAdapter(logger))

	level.Info(logger).Log("msg", "Starting app", "version", version)

	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)

	// catch termination
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	// Badger capture store
	opts := badger.DefaultOptions(*dbPath)
	opts.Logger = nil
	opts.TableLoadingMode = options.FileIO

	bdb, err := badger.Open(opts)
	if err != nil {
		level.Error(logger).Log("msg", "failed to open DB", "error", err, "path", *dbPath)
		os.Exit(2)
	}

	store := &badgercap.Store{DB: bdb}

	events := &radio.Events{
		TxDone: func() {
			level.Debug(logger).Log("msg", "tx done")
		},
		RxDone: func(p []byte, rssi int16, snr int8) {
			level.Info(logger).Log("msg", "packet received", "size", len(p), "rssi", rssi, "snr", snr)
			rec := capture.Record{Time: time.Now().UTC(), Dir: capture.DirRx, Payload: p, Size: len(p)}
			if err := store.Append(rec); err != nil {
				level.Error(logger).Log("msg", "can't store capture", "error", err)
				metrics.CaptureErrorCounter.Inc()
			}
		},
		RxTimeout: func() {
			level.Debug(logger).Log("msg", "rx timeout")
		},
		RxError: func() {
			level.Warn(logger).Log("msg", "rx error")
		},
	}

	rad := radio.New(logger, events, os.Stdin, os.Stdout)
	rad.SetChannel(uint32(*frequency))

	kind := radio.ModemLoRa
	if *modem == "fsk" {
		kind = radio.ModemFSK
	}

	datarate := uint32(*spreadingFactor)
	if kind == radio.ModemFSK {
		datarate = uint32(*bitRate)
	}

	rad.SetRxConfig(radio.RxConfig{
		Modem:        kind,
		Bandwidth:    uint32(*bandwidth),
		Datarate:     datarate,
		Coderate:     uint8(*codingRate),
		PreambleLen:  uint16(*preambleLen),
		FixLen:       *fixLen,
		CrcOn:        *crcOn,
		IQInverted:   *iqInverted,
		RxContinuous: *rxContinuous,
	})

	// gRPC Health Server
	healthServer := health.NewServer()
	g.Go(func() error {
		grpcHealthServer = grpc.NewServer()

		healthpb.RegisterHealthServer(grpcHealthServer, healthServer)

		haddr := fmt.Sprintf(":%d", *healthPort)
		hln, err := net.Listen("tcp", haddr)
		if err != nil {
			level.Error(logger).Log("msg", "gRPC Health server: failed to listen", "error", err)
			os.Exit(2)
		}
		level.Info(logger).Log("msg", fmt.Sprintf("gRPC health server serving at %s", haddr))
		return grpcHealthServer.Serve(hln)
	})

	// web server metrics
	g.Go(func() error {
		httpMetricsServer = &http.Server{
			Addr:         fmt.Sprintf(":%d", *httpMetricsPort),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		}
		level.Info(logger).Log("msg", fmt.Sprintf("HTTP Metrics server serving at :%d", *httpMetricsPort))

		// Register Prometheus metrics handler.
		http.Handle("/metrics", promhttp.Handler())

		if err := httpMetricsServer.ListenAndServe(); err != http.ErrServerClosed {
			return err
		}

		return nil
	})

	// web server
	g.Go(func() error {
		s := web.NewServer(appName, logger, rad, store)

		r := mux.NewRouter()
		r.HandleFunc("/api/status", s.StatusQuery)
		r.HandleFunc("/api/captures", s.CapturesQuery)

		httpServer = &http.Server{
			Addr:         fmt.Sprintf(":%d", *httpAPIPort),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			Handler: handlers.CompressHandler(
				handlers.CORS(
					handlers.AllowedOrigins([]string{"*"}))(r)),
		}
		level.Info(logger).Log("msg", fmt.Sprintf("HTTP API server serving at :%d", *httpAPIPort))

		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			return err
		}

		return nil
	})

	// one shot transmit
	if *payload != "" {
		p, err := hex.DecodeString(*payload)
		if err != nil {
			level.Error(logger).Log("msg", "invalid hex payload", "error", err)
			os.Exit(2)
		}

		rad.SetTxConfig(radio.TxConfig{
			Modem:       kind,
			Fdev:        uint32(*fdev),
			Bandwidth:   uint32(*bandwidth),
			Datarate:    datarate,
			Coderate:    uint8(*codingRate),
			PreambleLen: uint16(*preambleLen),
			FixLen:      *fixLen,
			CrcOn:       *crcOn,
			IQInverted:  *iqInverted,
			Timeout:     3000,
		})

		level.Info(logger).Log("msg", "transmitting payload",
			"size", len(p),
			"airtime", rad.TimeOnAir(kind, uint8(len(p))))

		if err := rad.Send(p); err != nil {
			level.Error(logger).Log("msg", "can't transmit", "error", err)
			os.Exit(2)
		}

		rec := capture.Record{Time: time.Now().UTC(), Dir: capture.DirTx, Payload: p, Size: len(p)}
		if err := store.Append(rec); err != nil {
			level.Error(logger).Log("msg", "can't store capture", "error", err)
			metrics.CaptureErrorCounter.Inc()
		}

		rad.SetRxConfig(radio.RxConfig{
			Modem:        kind,
			Bandwidth:    uint32(*bandwidth),
			Datarate:     datarate,
			Coderate:     uint8(*codingRate),
			PreambleLen:  uint16(*preambleLen),
			FixLen:       *fixLen,
			CrcOn:        *crcOn,
			IQInverted:   *iqInverted,
			RxContinuous: *rxContinuous,
		})
	}

	// receive loop on the air interface
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			if err := rad.Rx(0); err != nil {
				select {
				case <-ctx.Done():
					return nil
				default:
				}
				level.Warn(logger).Log("msg", "air interface closed", "error", err)
				return err
			}
		}
	})

	healthServer.SetServingStatus(fmt.Sprintf("grpc.health.v1.%s", appName), healthpb.HealthCheckResponse_SERVING)

	select {
	case <-interrupt:
		cancel()
		break
	case <-ctx.Done():
		break
	}

	level.Warn(logger).Log("msg", "received shutdown signal")

	healthServer.SetServingStatus(fmt.Sprintf("grpc.health.v1.%s", appName), healthpb.HealthCheckResponse_NOT_SERVING)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if httpMetricsServer != nil {
		_ = httpMetricsServer.Shutdown(shutdownCtx)
	}

	if httpServer != nil {
		_ = httpServer.Shutdown(shutdownCtx)
	}

	if grpcHealthServer != nil {
		grpcHealthServer.GracefulStop()
	}

	// unblock a receive still waiting on the air interface
	os.Stdin.Close()

	err = g.Wait()
	bdb.Close()
	if err != nil {
		level.Error(logger).Log("msg", "server returning an error", "error", err)
		os.Exit(2)
	}
}
