package radio

// ModemKind selects the active modulation scheme. The two parameter sets are
// mutually exclusive: configuring one kind leaves the other untouched but
// inactive.
type ModemKind int

const (
	ModemFSK ModemKind = iota
	ModemLoRa
)

func (m ModemKind) String() string {
	if m == ModemFSK {
		return "FSK"
	}
	return "LORA"
}

// OperatingMode is the logical activity state of the simulated radio. It only
// moves on explicit operation requests and their completions, there is no
// hardware driven transition in this core.
type OperatingMode int

const (
	ModeIdle OperatingMode = iota
	ModeStandby
	ModeTx
	ModeRx
	ModeRxDutyCycle
	ModeCad
)

func (m OperatingMode) String() string {
	switch m {
	case ModeIdle:
		return "IDLE"
	case ModeStandby:
		return "STANDBY"
	case ModeTx:
		return "TX"
	case ModeRx:
		return "RX"
	case ModeRxDutyCycle:
		return "RX_DC"
	case ModeCad:
		return "CAD"
	}
	return "UNKNOWN"
}

// FSKConfig holds the FSK modulation and framing parameters.
type FSKConfig struct {
	// BitRate in bits per second, must be > 0 before TimeOnAir is computed
	BitRate uint32
	// Fdev is the frequency deviation in Hz
	Fdev uint32
	// PreambleBits is stored in bits, configured from a byte count
	PreambleBits uint16
	// SyncWordBits is stored in bits
	SyncWordBits uint16
	FixedLength  bool
	// CRCOn enables the 2 bytes CCITT CRC
	CRCOn bool
}

// LoRaConfig holds the LoRa modulation and framing parameters.
type LoRaConfig struct {
	// SpreadingFactor 5..12
	SpreadingFactor uint32
	// Bandwidth class index: 0: 125 kHz, 1: 250 kHz, 2: 500 kHz
	Bandwidth uint32
	// CodingRate 1: 4/5, 2: 4/6, 3: 4/7, 4: 4/8
	CodingRate uint8
	// LowDataRateOptimize is derived from Bandwidth and SpreadingFactor,
	// never set by the caller
	LowDataRateOptimize bool
	// PreambleSymbols, clamped to a minimum of 12 for SF5/SF6
	PreambleSymbols uint16
	FixedLength     bool
	CRCOn           bool
	IQInverted      bool
	// PayloadLength only matters with fixed length framing
	PayloadLength uint8
}

// Config is the whole modem parameter model for one simulated radio.
type Config struct {
	Modem ModemKind
	FSK   FSKConfig
	LoRa  LoRaConfig

	// FrequencyMHz is the channel frequency as reported in envelopes
	FrequencyMHz float64

	MaxPayloadLength uint8
	TxTimeout        uint32
	RxContinuous     bool
	PublicNetwork    bool
}

// TxConfig carries the parameters of a configure-for-transmit request.
// FreqHopOn and HopPeriod are accepted for interface compatibility only, the
// simulated air interface has no intra-packet hopping.
type TxConfig struct {
	Modem       ModemKind
	Power       int8
	Fdev        uint32
	Bandwidth   uint32
	Datarate    uint32
	Coderate    uint8
	PreambleLen uint16
	FixLen      bool
	CrcOn       bool
	FreqHopOn   bool
	HopPeriod   uint8
	IQInverted  bool
	Timeout     uint32
}

// RxConfig carries the parameters of a configure-for-receive request, the
// symmetric of TxConfig with the single reception extras.
type RxConfig struct {
	Modem        ModemKind
	Bandwidth    uint32
	Datarate     uint32
	Coderate     uint8
	BandwidthAfc uint32
	PreambleLen  uint16
	SymbTimeout  uint16
	FixLen       bool
	PayloadLen   uint8
	CrcOn        bool
	FreqHopOn    bool
	HopPeriod    uint8
	IQInverted   bool
	RxContinuous bool
}

// lowDataRateOptimize is mandated for the slowest symbol rates only.
func lowDataRateOptimize(bandwidth, datarate uint32) bool {
	return (bandwidth == 0 && (datarate == 11 || datarate == 12)) ||
		(bandwidth == 1 && datarate == 12)
}

// clampPreamble enforces the 12 symbols minimum required by SF5 and SF6.
func clampPreamble(datarate uint32, preambleLen uint16) uint16 {
	if (datarate == 5 || datarate == 6) && preambleLen < 12 {
		return 12
	}
	return preambleLen
}
