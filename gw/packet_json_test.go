package gw

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

var raw = `{"rxpk":[
	{
		"time":"2013-03-31T16:21:17.528002Z",
		"tmst":3512348611,
		"chan":2,
		"rfch":0,
		"freq":866.349812,
		"stat":1,
		"modu":"LORA",
		"datr":"SF7BW125",
		"codr":"4/6",
		"rssi":-35,
		"lsnr":5.1,
		"size":32,
		"data":"RkFLRQo="
	},{
		"time":"2013-03-31T16:21:17.532038Z",
		"tmst":3316387610,
		"chan":0,
		"rfch":0,
		"freq":863.00981,
		"stat":1,
		"modu":"LORA",
		"datr":"SF10BW125",
		"codr":"4/7",
		"rssi":-38,
		"lsnr":5.5,
		"size":32,
		"data":"RkFLRQo="
	}
]}`

func TestDecodeUpstreamJSON(t *testing.T) {
	ujson := &UpstreamJSON{}
	err := json.Unmarshal([]byte(raw), &ujson)
	require.NoError(t, err)
	require.Len(t, ujson.Rxpk, 2)
	require.Equal(t, []byte("FAKE\n"), ujson.Rxpk[0].Data)
	require.Equal(t, "SF7BW125", ujson.Rxpk[0].Datr)
}

func TestEncodeUpstream(t *testing.T) {
	p := RXPacket{
		Time: "2019-11-27T16:21:17.530974Z",
		Tmst: 3512348611,
		Chan: 2,
		Freq: 868.1,
		Stat: 1,
		Modu: "LORA",
		Datr: "SF7BW125",
		Codr: "4/6",
		Rssi: -35,
		Lsnr: 5.1,
		Size: 5,
		Data: []byte("Hello"),
	}

	line, err := EncodeUpstream(p)
	require.NoError(t, err)
	require.Equal(t, "\r\n", string(line[len(line)-2:]))

	ujson := &UpstreamJSON{}
	err = json.Unmarshal(line, ujson)
	require.NoError(t, err)
	require.Len(t, ujson.Rxpk, 1)
	require.Equal(t, p, ujson.Rxpk[0])
}

func TestDecodeDownstream(t *testing.T) {
	payload, err := DecodeDownstream([]byte(`{"txpk":{"data":"SGVsbG8="}}`))
	require.NoError(t, err)
	require.Equal(t, []byte("Hello"), payload)
}

func TestDecodeDownstreamTrailingWhitespace(t *testing.T) {
	payload, err := DecodeDownstream([]byte("{\"txpk\":{\"data\":\"SGVsbG8=\"}}\r\n"))
	require.NoError(t, err)
	require.Equal(t, []byte("Hello"), payload)
}

func TestDecodeDownstreamNoTXPacket(t *testing.T) {
	for _, line := range []string{
		`{"foo":1}`,
		`{"txpk":{}}`,
		`{"txpk":{"size":12}}`,
		"",
		"   \r\n",
	} {
		_, err := DecodeDownstream([]byte(line))
		require.Equal(t, ErrNoTXPacket, err, "line: %q", line)
	}
}

func TestDecodeDownstreamMalformed(t *testing.T) {
	for _, line := range []string{
		`{"txpk":`,
		`not json at all`,
		`{"txpk":{"data":"%%%not-base64%%%"}}`,
	} {
		_, err := DecodeDownstream([]byte(line))
		require.Error(t, err, "line: %q", line)
		require.NotEqual(t, ErrNoTXPacket, err, "line: %q", line)
	}
}
