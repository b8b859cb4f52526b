package badger

import (
	"encoding/json"

	"github.com/dgraph-io/badger/v2"

	"github.com/akhenakh/radiosim/capture"
)

type Store struct {
	*badger.DB
}

// Append stores one record, keyed by its reverse timestamp.
func (s *Store) Append(r capture.Record) error {
	v, err := json.Marshal(r)
	if err != nil {
		return err
	}

	txn := s.NewTransaction(true)
	defer txn.Discard()

	e := badger.NewEntry(capture.RecordKey(r.Time), v)
	if err := txn.SetEntry(e); err != nil {
		return err
	}

	return txn.Commit()
}

// Recent returns up to count records, most recent first.
func (s *Store) Recent(count int) ([]capture.Record, error) {
	var res []capture.Record
	err := s.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchSize = count
		if opts.PrefetchSize <= 0 {
			opts.PrefetchSize = 10
		}
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(capture.Prefix + "C")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if count > 0 && len(res) >= count {
				break
			}

			item := it.Item()
			valc, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}

			var r capture.Record
			if err := json.Unmarshal(valc, &r); err != nil {
				return err
			}
			res = append(res, r)
		}
		return nil
	})

	return res, err
}
