package capture

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRecordKeyRoundTrip(t *testing.T) {
	ts := time.Now().UTC()
	k := RecordKey(ts)

	got, err := ReadRecordKey(k)
	require.NoError(t, err)
	require.Equal(t, ts, got)
}

func TestRecordKeyOrdering(t *testing.T) {
	ts := time.Now().UTC()
	older := RecordKey(ts.Add(-time.Second))
	newer := RecordKey(ts)

	// reversed timestamps: the newer key sorts first
	require.True(t, bytes.Compare(newer, older) < 0)
}
