package badger

import (
	"io/ioutil"
	"os"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v2"
	"github.com/stretchr/testify/require"

	"github.com/akhenakh/radiosim/capture"
)

func openStore(t *testing.T) (*badger.DB, func()) {
	dir, err := ioutil.TempDir("", "badger")
	require.NoError(t, err)

	opt := badger.DefaultOptions(dir)

	db, err := badger.Open(opt)
	require.NoError(t, err)

	return db, func() {
		if db != nil {
			db.Close()
		}
		os.RemoveAll(dir)
	}
}

func TestAppendRecent(t *testing.T) {
	bdb, clean := openStore(t)
	defer clean()

	s := &Store{
		DB: bdb,
	}

	ts := time.Now().UTC()
	err := s.Append(capture.Record{Time: ts.Add(-time.Second), Dir: capture.DirTx, Payload: []byte("OLD"), Size: 3})
	require.NoError(t, err)
	err = s.Append(capture.Record{Time: ts, Dir: capture.DirRx, Payload: []byte("NEW"), Size: 3})
	require.NoError(t, err)

	recs, err := s.Recent(10)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	// most recent first
	require.Equal(t, []byte("NEW"), recs[0].Payload)
	require.Equal(t, capture.DirRx, recs[0].Dir)
	require.Equal(t, []byte("OLD"), recs[1].Payload)

	recs, err = s.Recent(1)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.Equal(t, []byte("NEW"), recs[0].Payload)
}

func TestRecentEmpty(t *testing.T) {
	bdb, clean := openStore(t)
	defer clean()

	s := &Store{
		DB: bdb,
	}

	recs, err := s.Recent(10)
	require.NoError(t, err)
	require.Len(t, recs, 0)
}
