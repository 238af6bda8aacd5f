package rdb

import (
	"bytes"
	"fmt"
	"runtime"
	"strconv"
	"sync"

	"github.com/mousechain/mouse/pkg/log"
	"github.com/mousechain/mouse/pkg/metrics"
	bolt "go.etcd.io/bbolt"
)

var (
	bucketMainChainByHeight = []byte("main_chain_by_height")
	bucketMainChainByID     = []byte("main_chain_by_id")
	bucketAcids             = []byte("acids")
	bucketAcidsByID         = []byte("acids_by_id")
	bucketResources         = []byte("resources")
)

// Store owns the single bbolt connection backing the relational index and
// the mutex that makes session acquisition exclusive.
type Store struct {
	db *bolt.DB

	mu       sync.Mutex
	cond     *sync.Cond
	held     bool
	holderID uint64
}

// Open opens (creating if absent) the bbolt file at path and pre-creates
// all five buckets the three logical tables are built from.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("rdb: open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, b := range [][]byte{
			bucketMainChainByHeight,
			bucketMainChainByID,
			bucketAcids,
			bucketAcidsByID,
			bucketResources,
		} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{db: db}
	s.cond = sync.NewCond(&s.mu)
	return s, nil
}

// Close closes the underlying bbolt file. Callers must have released any
// open session first.
func (s *Store) Close() error {
	return s.db.Close()
}

// acquire blocks until the connection is free, then marks it held by the
// calling goroutine. It panics if the calling goroutine already holds a
// session -- re-entrant acquisition is a programming error, not a case to
// block on, since the goroutine would otherwise deadlock waiting on itself.
func (s *Store) acquire() {
	gid := goroutineID()
	timer := metrics.NewTimer()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.held && s.holderID == gid {
		panic("rdb: goroutine attempted to open a second session while already holding one")
	}
	for s.held {
		s.cond.Wait()
	}
	s.held = true
	s.holderID = gid
	timer.ObserveDuration(metrics.RDBSessionWaitDuration)
	rdbLog.Trace().Uint64("goroutine", gid).Msg("rdb session acquired")
}

// release frees the connection for the next waiter.
func (s *Store) release() {
	s.mu.Lock()
	s.held = false
	s.holderID = 0
	s.mu.Unlock()
	s.cond.Signal()
}

// goroutineID extracts the calling goroutine's id from its runtime stack
// trace header ("goroutine 123 [running]: ..."). Go has no public API for
// this; it exists here only to detect same-goroutine session re-entrancy,
// mirroring the thread-id check the source material's mutex performs.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	field := bytes.Fields(buf[:n])
	if len(field) < 2 {
		return 0
	}
	id, _ := strconv.ParseUint(string(field[1]), 10, 64)
	return id
}

var rdbLog = log.WithComponent("rdb")
