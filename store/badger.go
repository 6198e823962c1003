package store

import (
	"encoding/binary"
	"fmt"

	"github.com/dgraph-io/badger/v2"
)

// epochKey is the single fixed key the persisted epoch counter lives
// under; this store never holds more than one logical value.
var epochKey = []byte("paxosmon/epoch")

// BadgerStore persists the epoch counter in a single key of an embedded
// Badger database, fsyncing on every write so PersistEpoch is genuinely
// synchronous with respect to the caller: the transaction has committed
// to disk before the call returns.
type BadgerStore struct {
	db *badger.DB
}

// OpenBadgerStore opens (creating if necessary) a Badger database at dir.
func OpenBadgerStore(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).WithSyncWrites(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("store: open badger at %s: %w", dir, err)
	}
	return &BadgerStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

func (s *BadgerStore) PersistEpoch(e uint64) error {
	val := make([]byte, 8)
	binary.BigEndian.PutUint64(val, e)

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(epochKey, val)
	})
	if err != nil {
		return fmt.Errorf("store: persist epoch %d: %w", e, err)
	}
	return nil
}

func (s *BadgerStore) ReadPersistedEpoch() (uint64, error) {
	var epoch uint64
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(epochKey)
		if err == badger.ErrKeyNotFound {
			epoch = 0
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if len(val) != 8 {
				return fmt.Errorf("%w: epoch value has length %d, want 8", ErrCorrupt, len(val))
			}
			epoch = binary.BigEndian.Uint64(val)
			return nil
		})
	})
	if err != nil {
		return 0, fmt.Errorf("store: read persisted epoch: %w", err)
	}
	return epoch, nil
}

// ValidateStore confirms the database is writable by writing a sentinel
// key; it never touches the real epoch key.
func (s *BadgerStore) ValidateStore() error {
	sentinel := []byte("paxosmon/validate")
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(sentinel, []byte{1})
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return nil
}
