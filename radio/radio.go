// Package radio emulates a LoRa/FSK transceiver on top of a pair of byte
// streams so that radio-stack code can run without hardware. Outgoing packets
// become Semtech JSON upstream lines, incoming lines are parsed for a txpk
// payload and delivered through the Events callbacks.
package radio

import (
	"bufio"
	"io"
	"time"

	log "github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/pkg/errors"

	"github.com/akhenakh/radiosim/gw"
	"github.com/akhenakh/radiosim/metrics"
)

const timeLayout = "2006-01-02T15:04:05.000000Z"

// Fixed packet status reported on every successful receive. The simulated air
// interface carries no signal model.
const (
	rxRssi int16 = -110
	rxSnr  int8  = 5
)

// ErrLinkClosed is returned by Rx when the input stream is closed. An absent
// peer is not a runtime condition to recover from, callers terminate on it
// without retry.
var ErrLinkClosed = errors.New("air interface closed")

// Radio is one simulated transceiver. It is single threaded: all calls happen
// on the control goroutine, the only blocking point is the line read in Rx.
type Radio struct {
	logger log.Logger
	events *Events

	in  *bufio.Reader
	out io.Writer

	cfg  Config
	mode OperatingMode
}

// New returns a radio bound to the given air interface streams. events may be
// nil or sparse, missing handlers are skipped.
func New(logger log.Logger, events *Events, in io.Reader, out io.Writer) *Radio {
	logger = log.With(logger, "component", "radio")
	return &Radio{
		logger: logger,
		events: events,
		in:     bufio.NewReaderSize(in, 1024),
		out:    out,
		cfg: Config{
			MaxPayloadLength: 255,
		},
		mode: ModeIdle,
	}
}

// Status returns the current operating mode.
func (r *Radio) Status() OperatingMode {
	return r.mode
}

// Config returns a copy of the stored modem parameters.
func (r *Radio) Config() Config {
	return r.cfg
}

// SetChannel stores the channel frequency, reported in MHz in envelopes.
func (r *Radio) SetChannel(freqHz uint32) {
	r.cfg.FrequencyMHz = float64(freqHz) / 1e6
}

// SetTxConfig validates and stores the transmission parameters, forcing the
// radio to standby first as the hardware does. Datarate is the bit rate for
// FSK and the spreading factor for LoRa, Bandwidth the LoRa bandwidth class.
func (r *Radio) SetTxConfig(c TxConfig) {
	r.Standby()

	switch c.Modem {
	case ModemFSK:
		r.cfg.Modem = ModemFSK
		r.cfg.FSK = FSKConfig{
			BitRate:      c.Datarate,
			Fdev:         c.Fdev,
			PreambleBits: c.PreambleLen << 3, // bytes into bits
			SyncWordBits: 3 << 3,
			FixedLength:  c.FixLen,
			CRCOn:        c.CrcOn,
		}
	case ModemLoRa:
		r.cfg.Modem = ModemLoRa
		r.cfg.LoRa = LoRaConfig{
			SpreadingFactor:     c.Datarate,
			Bandwidth:           c.Bandwidth,
			CodingRate:          c.Coderate,
			LowDataRateOptimize: lowDataRateOptimize(c.Bandwidth, c.Datarate),
			PreambleSymbols:     clampPreamble(c.Datarate, c.PreambleLen),
			FixedLength:         c.FixLen,
			CRCOn:               c.CrcOn,
			IQInverted:          c.IQInverted,
			PayloadLength:       r.cfg.MaxPayloadLength,
		}
	}

	r.cfg.TxTimeout = c.Timeout
}

// SetRxConfig is the reception counterpart of SetTxConfig.
func (r *Radio) SetRxConfig(c RxConfig) {
	r.Standby()

	switch c.Modem {
	case ModemFSK:
		r.cfg.Modem = ModemFSK
		r.cfg.FSK = FSKConfig{
			BitRate:      c.Datarate,
			PreambleBits: c.PreambleLen << 3, // bytes into bits
			SyncWordBits: 3 << 3,
			FixedLength:  c.FixLen,
			CRCOn:        c.CrcOn,
		}
	case ModemLoRa:
		r.cfg.Modem = ModemLoRa
		r.cfg.LoRa = LoRaConfig{
			SpreadingFactor:     c.Datarate,
			Bandwidth:           c.Bandwidth,
			CodingRate:          c.Coderate,
			LowDataRateOptimize: lowDataRateOptimize(c.Bandwidth, c.Datarate),
			PreambleSymbols:     clampPreamble(c.Datarate, c.PreambleLen),
			FixedLength:         c.FixLen,
			CRCOn:               c.CrcOn,
			IQInverted:          c.IQInverted,
			PayloadLength:       c.PayloadLen,
		}
	}

	r.cfg.RxContinuous = c.RxContinuous
}

// Send writes payload as one upstream line on the air interface then fires
// TxDone. The quality fields of the envelope are fixed synthetic values, not
// derived from the configured parameters.
func (r *Radio) Send(payload []byte) error {
	r.mode = ModeTx

	now := time.Now().UTC()
	p := gw.RXPacket{
		Time: now.Format(timeLayout),
		Tmst: uint32(now.UnixNano() / int64(time.Millisecond)),
		Chan: 2,
		Rfch: 0,
		Freq: r.cfg.FrequencyMHz,
		Stat: 1,
		Modu: "LORA",
		Datr: "SF7BW125",
		Codr: "4/6",
		Rssi: -35,
		Lsnr: 5.1,
		Size: len(payload),
		Data: payload,
	}

	line, err := gw.EncodeUpstream(p)
	if err != nil {
		r.mode = ModeStandby
		return err
	}
	if _, err := r.out.Write(line); err != nil {
		r.mode = ModeStandby
		return errors.Wrap(err, "write to air interface")
	}

	metrics.PacketCounter.WithLabelValues(metrics.DirTx).Inc()
	r.mode = ModeStandby
	r.events.txDone()
	return nil
}

// Rx blocks until one line is available on the air interface and delivers its
// txpk payload through RxDone, or RxTimeout when the line carries none.
//
// timeoutMs is accepted for interface compatibility only, the wait is
// unbounded: it ends with inbound data or with the stream closing, in which
// case ErrLinkClosed is returned and no event fires.
func (r *Radio) Rx(timeoutMs uint32) error {
	r.mode = ModeRx

	line, err := r.in.ReadString('\n')
	if len(line) == 0 {
		r.mode = ModeStandby
		if err != nil {
			return ErrLinkClosed
		}
	}

	r.mode = ModeStandby

	payload, err := gw.DecodeDownstream([]byte(line))
	if err != nil {
		level.Debug(r.logger).Log("msg", "no transmit packet in downstream line", "error", err)
		metrics.DecodeErrorCounter.Inc()
		r.events.rxTimeout()
		return nil
	}

	metrics.PacketCounter.WithLabelValues(metrics.DirRx).Inc()
	r.events.rxDone(payload, rxRssi, rxSnr)
	return nil
}

// Timeout reports an expired operation timer to the event sink. The operating
// mode decides which notification fires, that is the only distinction the
// mode tracker exists for.
func (r *Radio) Timeout() {
	switch r.mode {
	case ModeTx:
		r.mode = ModeStandby
		r.events.txTimeout()
	case ModeRx:
		r.mode = ModeStandby
		r.events.rxTimeout()
	}
}

// Sleep puts the radio in its lowest logical state.
func (r *Radio) Sleep() {
	r.mode = ModeIdle
}

// Standby leaves any active mode.
func (r *Radio) Standby() {
	r.mode = ModeStandby
}

// StartCad runs a channel activity detection. There is no channel model, so
// the placeholder completion reports no activity.
func (r *Radio) StartCad() {
	r.mode = ModeCad
	r.mode = ModeStandby
	r.events.cadDone(false)
}

// SetRxDutyCycle accepts the duty cycle parameters, a hardware only feature
// with no effect on the simulated link.
func (r *Radio) SetRxDutyCycle(rxTimeMs, sleepTimeMs uint32) {
	r.mode = ModeRxDutyCycle
	r.mode = ModeStandby
}

// RxBoosted is the boosted LNA receive of the SX126x, not modeled.
func (r *Radio) RxBoosted(timeoutMs uint32) {
}

// SetMaxPayloadLength bounds the payload size used for fixed length framing.
func (r *Radio) SetMaxPayloadLength(modem ModemKind, max uint8) {
	r.cfg.MaxPayloadLength = max
}

// SetPublicNetwork stores the LoRa sync word selection.
func (r *Radio) SetPublicNetwork(enable bool) {
	r.cfg.PublicNetwork = enable
}

// SetTxContinuousWave is a hardware test mode, not modeled.
func (r *Radio) SetTxContinuousWave(freqHz uint32, power int8, timeSec uint16) {
}

// IsChannelFree always reports a free channel.
func (r *Radio) IsChannelFree(modem ModemKind, freqHz uint32, rssiThresh int16, maxCarrierSenseTimeMs uint32) bool {
	return true
}

// CheckRfFrequency reports every frequency as supported.
func (r *Radio) CheckRfFrequency(freqHz uint32) bool {
	return true
}

// Random stands in for the RSSI based hardware entropy source.
func (r *Radio) Random() uint32 {
	return 5
}

// Rssi reads the current RSSI, always quiet here.
func (r *Radio) Rssi(modem ModemKind) int16 {
	return 0
}

// WakeupTime is the fixed board plus radio wakeup duration.
func (r *Radio) WakeupTime() time.Duration {
	return 5 * time.Millisecond
}

// IrqProcess exists for interface compatibility, no interrupts fire in this
// core.
func (r *Radio) IrqProcess() {
}

// Register access stubs, there is no register file behind the mock.

func (r *Radio) WriteRegister(addr uint16, data uint8) {
}

func (r *Radio) ReadRegister(addr uint16) uint8 {
	return 0
}

func (r *Radio) WriteBuffer(addr uint16, buf []byte) {
}

func (r *Radio) ReadBuffer(addr uint16, buf []byte) {
}
