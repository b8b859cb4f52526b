package gw

// UpstreamJSON is the line emitted on the simulated air interface for every
// transmitted packet, the Semtech packet forwarder upstream shape.
type UpstreamJSON struct {
	Rxpk []RXPacket `json:"rxpk"`
}

type RXPacket struct {
	Time string  `json:"time"` // UTC time of pkt RX, us precision, ISO 8601 format
	Tmst uint32  `json:"tmst"` // ms since epoch, truncated to 32 bits
	Chan int     `json:"chan"` // Concentrator "IF" channel used for RX (unsigned integer)
	Rfch int     `json:"rfch"` // Concentrator "RF chain" used for RX (unsigned integer)
	Freq float64 `json:"freq"` // RX central frequency in MHz (unsigned float, Hz precision)
	Stat int     `json:"stat"` // CRC status: 1 = OK, -1 = fail, 0 = no CRC
	Modu string  `json:"modu"` // Modulation identifier "LORA" or "FSK"
	Datr string  `json:"datr"` // LoRa datarate identifier (eg. SF12BW500)
	Codr string  `json:"codr"` // LoRa ECC coding rate identifier
	Rssi int     `json:"rssi"` // RSSI in dBm (signed integer, 1 dB precision)
	Lsnr float64 `json:"lsnr"` // Lora SNR ratio in dB (signed float, 0.1 dB precision)
	Size int     `json:"size"` // RF packet payload size in bytes (unsigned integer)
	Data []byte  `json:"data"` // Base64 encoded RF packet payload, padded
}

// DownstreamJSON is the line the simulated air interface accepts as input,
// the Semtech downstream shape. Only txpk.data matters to the radio, the
// other fields are carried for wire fidelity.
type DownstreamJSON struct {
	Txpk *TXPacket `json:"txpk"`
}

type TXPacket struct {
	Imme bool    `json:"imme,omitempty"` // Send packet immediately
	Freq float64 `json:"freq,omitempty"` // TX central frequency in MHz
	Rfch int     `json:"rfch,omitempty"` // Concentrator "RF chain" used for TX
	Modu string  `json:"modu,omitempty"` // Modulation identifier "LORA" or "FSK"
	Datr string  `json:"datr,omitempty"` // LoRa datarate identifier
	Codr string  `json:"codr,omitempty"` // LoRa ECC coding rate identifier
	Size int     `json:"size,omitempty"` // RF packet payload size in bytes
	Data []byte  `json:"data"`           // Base64 encoded RF packet payload
}
