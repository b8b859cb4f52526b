package radio

import (
	"math"
	"time"
)

// loRaSymbTime is the symbol duration in ms per bandwidth class and spreading
// factor, indexed [bandwidth][12-SF].
//
//	                              SF12    SF11    SF10   SF9    SF8    SF7
var loRaSymbTime = [3][6]float64{{32.768, 16.384, 8.192, 4.096, 2.048, 1.024}, // 125 kHz
	{16.384, 8.192, 4.096, 2.048, 1.024, 0.512}, // 250 kHz
	{8.192, 4.096, 2.048, 1.024, 0.512, 0.256}}  // 500 kHz

// TimeOnAir returns the duration needed to transmit or receive payloadLen
// bytes with the currently stored parameters for modem. It can only be called
// once SetTxConfig or SetRxConfig has stored parameters for that modem.
//
// The result is a whole number of milliseconds: FSK rounds to nearest, LoRa
// rounds up. Both behaviors come from the hardware driver being emulated and
// are pinned by tests.
func (r *Radio) TimeOnAir(modem ModemKind, payloadLen uint8) time.Duration {
	var airTime uint32

	switch modem {
	case ModemFSK:
		c := r.cfg.FSK
		lenByte := 1.0
		if c.FixedLength {
			lenByte = 0.0
		}
		crcBytes := 0.0
		if c.CRCOn {
			crcBytes = 2.0
		}
		bytes := float64(c.PreambleBits)/8 +
			float64(c.SyncWordBits)/8 +
			lenByte +
			float64(payloadLen) +
			crcBytes
		airTime = uint32(math.Round(8 * bytes / float64(c.BitRate) * 1e3))

	case ModemLoRa:
		c := r.cfg.LoRa
		ts := loRaSymbTime[c.Bandwidth][12-c.SpreadingFactor]
		tPreamble := (float64(c.PreambleSymbols) + 4.25) * ts

		implicitHeader := 0.0
		if c.FixedLength {
			implicitHeader = 20.0
		}
		crc := 0.0
		if c.CRCOn {
			crc = 16.0
		}
		ldro := 0.0
		if c.LowDataRateOptimize {
			ldro = 2.0
		}
		sf := float64(c.SpreadingFactor)

		n := math.Ceil((8*float64(payloadLen)-4*sf+28+crc-implicitHeader)/
			(4*(sf-ldro))) * (float64(c.CodingRate) + 4)
		nPayload := 8 + math.Max(n, 0)
		tPayload := nPayload * ts

		airTime = uint32(math.Floor(tPreamble + tPayload + 0.999))
	}

	return time.Duration(airTime) * time.Millisecond
}
