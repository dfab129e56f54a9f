// Package pgstore persists blocks in a badger key-value store, keyed
// by BlockID. Grounded on
// i5heu-ouroboros-db/internal/keyValStore/keyValStore.go: a
// StoreConfig carrying an injected *logrus.Logger, badger.DefaultOptions
// with a disabled internal logger and a tuned value-log size, and
// counters exposed for a caller that wants to watch throughput.
package pgstore

import (
	"fmt"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"

	"github.com/hmmm42/pangraph-core/arena"
	"github.com/hmmm42/pangraph-core/block"
	"github.com/hmmm42/pangraph-core/pgio"
)

// Config configures a Store.
type Config struct {
	Dir            string
	ValueLogGB     int
	SyncWrites     bool
	Logger         *logrus.Logger
}

// Store is a badger-backed block store.
type Store struct {
	cfg          Config
	db           *badger.DB
	readCounter  uint64
	writeCounter uint64
}

// Open opens (creating if necessary) a badger database at cfg.Dir.
func Open(cfg Config) (*Store, error) {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.ValueLogGB <= 0 {
		cfg.ValueLogGB = 1
	}

	opts := badger.DefaultOptions(cfg.Dir)
	opts.Logger = nil
	opts.ValueLogFileSize = int64(cfg.ValueLogGB) * 1024 * 1024 * 1024
	opts.SyncWrites = cfg.SyncWrites

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("pgstore: open %s: %w", cfg.Dir, err)
	}
	return &Store{cfg: cfg, db: db}, nil
}

// Close flushes and closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func blockKey(id block.BlockID) []byte {
	return []byte("block/" + id.String())
}

// Put serializes b (pgio.MarshalBlock) and writes it under its own
// BlockID.
func (s *Store) Put(b *block.Block) error {
	atomic.AddUint64(&s.writeCounter, 1)
	data, err := pgio.MarshalBlock(b)
	if err != nil {
		return fmt.Errorf("pgstore: marshal block %s: %w", b.ID(), err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(blockKey(b.ID()), data)
	})
	if err != nil {
		return fmt.Errorf("pgstore: write block %s: %w", b.ID(), err)
	}
	return nil
}

// Get reads back the block stored under id, minting fresh NodeIDs from
// a to identify its members.
func (s *Store) Get(id block.BlockID, a *arena.NodeArena) (*block.Block, error) {
	atomic.AddUint64(&s.readCounter, 1)
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(blockKey(id))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, fmt.Errorf("pgstore: block %s not found", id)
		}
		return nil, fmt.Errorf("pgstore: read block %s: %w", id, err)
	}
	b, err := pgio.UnmarshalBlock(data, a)
	if err != nil {
		return nil, fmt.Errorf("pgstore: decode block %s: %w", id, err)
	}
	return b, nil
}

// Delete removes the block stored under id, if present.
func (s *Store) Delete(id block.BlockID) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(blockKey(id))
	})
}

// Stats returns the read/write counts observed since Open or the
// previous Stats call, resetting both to zero — the same swap-and-report shape as
// keyValStore.StartTransactionCounter's ticker.
func (s *Store) Stats() (reads, writes uint64) {
	return atomic.SwapUint64(&s.readCounter, 0), atomic.SwapUint64(&s.writeCounter, 0)
}
