package gw

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

// ErrNoTXPacket is returned when a downstream line carries no txpk object or
// no payload inside it. The radio maps it to a receive timeout, it is not a
// distinct error category on the air interface.
var ErrNoTXPacket = errors.New("no txpk object in downstream line")

// EncodeUpstream serializes one packet as a CRLF terminated upstream line.
func EncodeUpstream(p RXPacket) ([]byte, error) {
	b, err := json.Marshal(UpstreamJSON{Rxpk: []RXPacket{p}})
	if err != nil {
		return nil, errors.Wrap(err, "marshal upstream")
	}
	return append(b, '\r', '\n'), nil
}

// DecodeDownstream parses one line of input and returns the decoded txpk
// payload. Surrounding whitespace is tolerated, an empty or whitespace only
// line yields ErrNoTXPacket.
func DecodeDownstream(line []byte) ([]byte, error) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return nil, ErrNoTXPacket
	}

	d := &DownstreamJSON{}
	if err := json.Unmarshal(line, d); err != nil {
		return nil, errors.Wrap(err, "unmarshal downstream")
	}
	if d.Txpk == nil || d.Txpk.Data == nil {
		return nil, ErrNoTXPacket
	}
	return d.Txpk.Data, nil
}
