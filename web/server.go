package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"

	"github.com/akhenakh/radiosim/capture"
	"github.com/akhenakh/radiosim/radio"
)

// Server exposes the state of one simulated radio and its capture archive
// over HTTP, for inspection during a test run.
type Server struct {
	appName  string
	logger   log.Logger
	radio    *radio.Radio
	captures capture.Store
}

func NewServer(appName string, logger log.Logger, r *radio.Radio, captures capture.Store) *Server {
	logger = log.With(logger, "component", "web")
	return &Server{
		appName:  appName,
		logger:   logger,
		radio:    r,
		captures: captures,
	}
}

// StatusQuery reports the operating mode and the active modem parameters.
func (s *Server) StatusQuery(w http.ResponseWriter, r *http.Request) {
	var serverSpan opentracing.Span
	operationName := "/api/status"
	wireContext, err := opentracing.GlobalTracer().Extract(
		opentracing.HTTPHeaders,
		opentracing.HTTPHeadersCarrier(r.Header))
	if err != nil {
		level.Debug(s.logger).Log("msg", "can't find a span", "error", err)
	}

	serverSpan = opentracing.StartSpan(
		operationName,
		ext.RPCServerOption(wireContext))
	defer serverSpan.Finish()

	w.Header().Set("Content-Type", "application/json")

	cfg := s.radio.Config()
	resp := map[string]interface{}{
		"app":           s.appName,
		"mode":          s.radio.Status().String(),
		"modem":         cfg.Modem.String(),
		"frequency_mhz": cfg.FrequencyMHz,
		"config":        cfg,
	}

	b, err := json.Marshal(resp)
	if err != nil {
		level.Error(s.logger).Log("msg", "can't marshal json", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(err.Error()))
		return
	}
	w.Write(b)
}

// CapturesQuery returns the most recent capture records, bounded by the count
// query parameter, 100 by default.
func (s *Server) CapturesQuery(w http.ResponseWriter, r *http.Request) {
	var serverSpan opentracing.Span
	operationName := "/api/captures"
	wireContext, err := opentracing.GlobalTracer().Extract(
		opentracing.HTTPHeaders,
		opentracing.HTTPHeadersCarrier(r.Header))
	if err != nil {
		level.Debug(s.logger).Log("msg", "can't find a span", "error", err)
	}

	serverSpan = opentracing.StartSpan(
		operationName,
		ext.RPCServerOption(wireContext))
	defer serverSpan.Finish()

	w.Header().Set("Content-Type", "application/json")

	count := 100
	if c := r.URL.Query().Get("count"); c != "" {
		count, err = strconv.Atoi(c)
		if err != nil || count <= 0 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
	}

	recs, err := s.captures.Recent(count)
	if err != nil {
		level.Error(s.logger).Log("msg", "can't query captures", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(err.Error()))
		return
	}

	b, err := json.Marshal(recs)
	if err != nil {
		level.Error(s.logger).Log("msg", "can't marshal json", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(err.Error()))
		return
	}
	w.Write(b)
}
