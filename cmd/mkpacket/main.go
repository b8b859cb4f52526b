// mkpacket builds a downstream txpk line suitable for the stdin of radiosimd.
package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"

	"github.com/brocaar/lorawan"
	"github.com/namsral/flag"

	"github.com/akhenakh/radiosim/gw"
)

var (
	data       = flag.String("data", "PING", "Text payload")
	hexData    = flag.String("hex", "", "Hex payload, takes precedence over data")
	useLoRaWAN = flag.Bool("lorawan", false, "Wrap the payload in an UnconfirmedDataUp LoRaWAN frame")
	devAddr    = flag.String("devAddr", "01020304", "LoRaWAN device address in hex")
	fCnt       = flag.Int("fCnt", 1, "LoRaWAN uplink frame counter")
	fPort      = flag.Int("fPort", 1, "LoRaWAN port")
)

// the fixed test session keys shared with the decoding side of the harness
var (
	nwkSKey = lorawan.AES128Key{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	appSKey = lorawan.AES128Key{16, 15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1}
)

func main() {
	flag.Parse()

	payload := []byte(*data)
	if *hexData != "" {
		b, err := hex.DecodeString(*hexData)
		if err != nil {
			log.Fatal(err)
		}
		payload = b
	}

	if *useLoRaWAN {
		b, err := buildUplink(payload)
		if err != nil {
			log.Fatal(err)
		}
		payload = b
	}

	d := gw.DownstreamJSON{
		Txpk: &gw.TXPacket{
			Modu: "LORA",
			Datr: "SF7BW125",
			Codr: "4/6",
			Size: len(payload),
			Data: payload,
		},
	}

	b, err := json.Marshal(d)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(string(b))
}

func buildUplink(payload []byte) ([]byte, error) {
	var addr lorawan.DevAddr
	b, err := hex.DecodeString(*devAddr)
	if err != nil {
		return nil, err
	}
	copy(addr[:], b)

	port := uint8(*fPort)
	phy := lorawan.PHYPayload{
		MHDR: lorawan.MHDR{
			MType: lorawan.UnconfirmedDataUp,
			Major: lorawan.LoRaWANR1,
		},
		MACPayload: &lorawan.MACPayload{
			FHDR: lorawan.FHDR{
				DevAddr: addr,
				FCnt:    uint32(*fCnt),
			},
			FPort:      &port,
			FRMPayload: []lorawan.Payload{&lorawan.DataPayload{Bytes: payload}},
		},
	}

	if err := phy.EncryptFRMPayload(appSKey); err != nil {
		return nil, err
	}
	if err := phy.SetUplinkDataMIC(lorawan.LoRaWAN1_0, 0, 0, 0, nwkSKey, lorawan.AES128Key{}); err != nil {
		return nil, err
	}

	return phy.MarshalBinary()
}
