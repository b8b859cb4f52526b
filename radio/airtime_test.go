package radio

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/stretchr/testify/require"
)

func newTestRadio(events *Events, input string) (*Radio, *bytes.Buffer) {
	out := &bytes.Buffer{}
	r := New(log.NewNopLogger(), events, strings.NewReader(input), out)
	return r, out
}

func loRaTxConfig(sf, bw uint32, preambleLen uint16) TxConfig {
	return TxConfig{
		Modem:       ModemLoRa,
		Bandwidth:   bw,
		Datarate:    sf,
		Coderate:    1,
		PreambleLen: preambleLen,
		CrcOn:       true,
	}
}

func TestTimeOnAirLoRaSF7(t *testing.T) {
	r, _ := newTestRadio(nil, "")
	r.SetTxConfig(loRaTxConfig(7, 0, 8))

	cfg := r.Config()
	require.False(t, cfg.LoRa.LowDataRateOptimize)
	require.Equal(t, uint16(8), cfg.LoRa.PreambleSymbols)

	// symbol time 1.024 ms, 28 payload symbols, preamble 12.25 symbols
	require.Equal(t, 42*time.Millisecond, r.TimeOnAir(ModemLoRa, 10))
}

func TestTimeOnAirLoRaSF12(t *testing.T) {
	r, _ := newTestRadio(nil, "")
	r.SetTxConfig(loRaTxConfig(12, 0, 8))

	cfg := r.Config()
	require.True(t, cfg.LoRa.LowDataRateOptimize)

	// symbol time 32.768 ms
	require.Equal(t, 992*time.Millisecond, r.TimeOnAir(ModemLoRa, 10))
}

func TestTimeOnAirFSK(t *testing.T) {
	r, _ := newTestRadio(nil, "")
	r.SetTxConfig(TxConfig{
		Modem:       ModemFSK,
		Datarate:    50000,
		Fdev:        25000,
		PreambleLen: 5,
		CrcOn:       true,
	})

	// round(1000*8*(5+3+1+20+2)/50000) = round(4.96)
	require.Equal(t, 5*time.Millisecond, r.TimeOnAir(ModemFSK, 20))
}

func TestTimeOnAirFSKFixedLengthNoCrc(t *testing.T) {
	r, _ := newTestRadio(nil, "")
	r.SetTxConfig(TxConfig{
		Modem:       ModemFSK,
		Datarate:    50000,
		PreambleLen: 5,
		FixLen:      true,
	})

	// round(1000*8*(5+3+0+20+0)/50000) = round(4.48)
	require.Equal(t, 4*time.Millisecond, r.TimeOnAir(ModemFSK, 20))
}

func TestTimeOnAirMonotonic(t *testing.T) {
	r, _ := newTestRadio(nil, "")

	for bw := uint32(0); bw <= 2; bw++ {
		for sf := uint32(7); sf <= 12; sf++ {
			r.SetTxConfig(loRaTxConfig(sf, bw, 8))

			prev := time.Duration(0)
			for l := 0; l <= 64; l++ {
				airTime := r.TimeOnAir(ModemLoRa, uint8(l))
				require.True(t, airTime >= prev,
					"airtime decreased at sf=%d bw=%d len=%d", sf, bw, l)
				prev = airTime
			}
		}
	}
}
