// Package capture archives the envelopes crossing the simulated air
// interface so a test run can be inspected after the fact.
package capture

import (
	"bytes"
	"encoding/binary"
	"math"
	"time"
)

const Prefix = "RS"

const (
	DirTx = "tx"
	DirRx = "rx"
)

// Record is one archived packet.
type Record struct {
	Time    time.Time `json:"time"`
	Dir     string    `json:"dir"`
	Payload []byte    `json:"payload"`
	Size    int       `json:"size"`
}

type Store interface {
	Append(r Record) error
	Recent(count int) ([]Record, error)
}

// RecordKey returns the key for a record at t. Timestamps are reversed so a
// forward prefix scan yields the most recent records first.
func RecordKey(t time.Time) []byte {
	// a key Prefix+"C"+ts
	k := make([]byte, len(Prefix)+1+8)
	copy(k, Prefix+"C")
	ts := int64tob(math.MaxInt64 - t.UnixNano())
	copy(k[len(Prefix)+1:], ts)
	return k
}

// ReadRecordKey returns the time encoded in a record key.
func ReadRecordKey(k []byte) (time.Time, error) {
	var t time.Time
	buf := bytes.NewBuffer(k[len(Prefix)+1:])

	var ts int64
	if err := binary.Read(buf, binary.BigEndian, &ts); err != nil {
		return t, err
	}
	return time.Unix(0, math.MaxInt64-ts).UTC(), nil
}

func int64tob(v int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(v))
	return b
}
