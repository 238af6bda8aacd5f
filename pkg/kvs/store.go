package kvs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mousechain/mouse/pkg/acidtype"
	"github.com/mousechain/mouse/pkg/log"
	"github.com/mousechain/mouse/pkg/metrics"
	bolt "go.etcd.io/bbolt"
)

var (
	bucketIntrinsic = []byte("intrinsic")
	bucketExtrinsic = []byte("extrinsic")
)

// Row is the intrinsic/extrinsic pair returned by a successful Fetch.
type Row struct {
	Intrinsic []byte
	Extrinsic []byte
}

// Store is the two-stream key/value layer backing every Acid: one bbolt
// database for intrinsic bytes, one for extrinsic bytes, plus the
// process-wide write batch that coalesces Insert/Update calls.
type Store struct {
	intrinsicDB *bolt.DB
	extrinsicDB *bolt.DB
	batch       *WriteBatch
}

// Open opens (creating if absent) the intrinsic and extrinsic stores rooted
// at rootPath/intrinsic and rootPath/extrinsic. maxWriteQueries configures
// the write batch's coalescing threshold; values <= 0 fall back to 128.
func Open(rootPath string, maxWriteQueries int) (*Store, error) {
	if maxWriteQueries <= 0 {
		maxWriteQueries = 128
	}

	intrinsicDir := filepath.Join(rootPath, "intrinsic")
	extrinsicDir := filepath.Join(rootPath, "extrinsic")
	if err := os.MkdirAll(intrinsicDir, 0o755); err != nil {
		return nil, fmt.Errorf("kvs: create intrinsic dir: %w", err)
	}
	if err := os.MkdirAll(extrinsicDir, 0o755); err != nil {
		return nil, fmt.Errorf("kvs: create extrinsic dir: %w", err)
	}

	intrinsicDB, err := openBucket(filepath.Join(intrinsicDir, "kvs.db"), bucketIntrinsic)
	if err != nil {
		return nil, fmt.Errorf("kvs: open intrinsic store: %w", err)
	}
	extrinsicDB, err := openBucket(filepath.Join(extrinsicDir, "kvs.db"), bucketExtrinsic)
	if err != nil {
		intrinsicDB.Close()
		return nil, fmt.Errorf("kvs: open extrinsic store: %w", err)
	}

	return &Store{
		intrinsicDB: intrinsicDB,
		extrinsicDB: extrinsicDB,
		batch:       newWriteBatch(maxWriteQueries),
	}, nil
}

func openBucket(path string, bucket []byte) (*bolt.DB, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Close closes both underlying stores. Per the teardown order (cache, then
// kvs/rdb), callers close the Store only after pkg/cache has been drained.
func (s *Store) Close() error {
	errI := s.intrinsicDB.Close()
	errE := s.extrinsicDB.Close()
	if errI != nil {
		return errI
	}
	return errE
}

// Fetch returns a ReadQuery for id. The read itself happens lazily, inside
// Wait.
func (s *Store) Fetch(id acidtype.Id) *ReadQuery {
	return &ReadQuery{store: s, id: id}
}

// Insert queues a write of both the intrinsic and extrinsic streams for
// acid into the process-wide batch.
func (s *Store) Insert(acid acidtype.Acid) *WriteQuery {
	return s.batch.put(s, batchEntry{
		kind:         "insert",
		id:           acid.Id(),
		intrinsic:    acid.Intrinsic(),
		hasIntrinsic: true,
		extrinsic:    acid.Extrinsic(),
		hasExtrinsic: true,
	})
}

// Update queues a write of only the extrinsic stream for acid. The caller
// must already have written the intrinsic row, typically via Insert.
func (s *Store) Update(acid acidtype.Acid) *WriteQuery {
	return s.batch.put(s, batchEntry{
		kind:         "update",
		id:           acid.Id(),
		extrinsic:    acid.Extrinsic(),
		hasExtrinsic: true,
	})
}

func (s *Store) read(id acidtype.Id) (*Row, error) {
	var intrinsic []byte
	err := s.intrinsicDB.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketIntrinsic).Get(id.Bytes()); v != nil {
			intrinsic = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		metrics.KVSQueriesTotal.WithLabelValues("fetch", "error").Inc()
		return nil, err
	}
	if intrinsic == nil {
		metrics.KVSQueriesTotal.WithLabelValues("fetch", "not_found").Inc()
		return nil, nil
	}

	var extrinsic []byte
	err = s.extrinsicDB.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketExtrinsic).Get(id.Bytes()); v != nil {
			extrinsic = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		metrics.KVSQueriesTotal.WithLabelValues("fetch", "error").Inc()
		return nil, err
	}

	metrics.KVSQueriesTotal.WithLabelValues("fetch", "ok").Inc()
	return &Row{Intrinsic: intrinsic, Extrinsic: extrinsic}, nil
}

// writeEntries applies a flushed batch: extrinsic before intrinsic, so no
// reader ever observes an intrinsic row whose extrinsic write is still
// outstanding.
func (s *Store) writeEntries(entries []batchEntry) error {
	if err := s.extrinsicDB.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketExtrinsic)
		for _, e := range entries {
			if e.hasExtrinsic {
				if err := b.Put(e.id.Bytes(), e.extrinsic); err != nil {
					return err
				}
			}
		}
		return nil
	}); err != nil {
		return err
	}

	return s.intrinsicDB.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketIntrinsic)
		for _, e := range entries {
			if e.hasIntrinsic {
				if err := b.Put(e.id.Bytes(), e.intrinsic); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

var kvsLog = log.WithComponent("kvs")
