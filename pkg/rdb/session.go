package rdb

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/mousechain/mouse/pkg/acidtype"
	"github.com/mousechain/mouse/pkg/metrics"
	bolt "go.etcd.io/bbolt"
)

// Session is the common surface shared by Slave and Master sessions.
type Session interface {
	// IsTransaction reports whether an explicit transaction is open.
	IsTransaction() bool

	// BeginTransaction opens an explicit transaction. It panics if one is
	// already open.
	BeginTransaction() error

	// Commit commits the open transaction. It panics if none is open.
	Commit() error

	// Rollback rolls back the open transaction. It panics if none is open.
	Rollback() error

	// Close releases the session back to the Store, rolling back any open
	// transaction first. Every acquired Session must be closed.
	Close() error
}

// Slave is a read-only session.
type Slave interface {
	Session

	FetchMainChain(heights []uint64) (map[uint64]Id, error)
	FetchMainChainOne(height uint64) (Id, bool, error)
	FetchMainChainAsc(minHeight uint64, limit int) ([]ChainIndex, error)
	FetchMainChainDesc(maxHeight uint64, limit int) ([]ChainIndex, error)

	FetchAcidState(ids []Id) (map[Id]*ChainIndex, error)
	FetchAcidRelations(ids []Id) ([]acidtype.ChainRelation, error)
	FetchMempool(minSeq uint64, limit int) ([]MempoolEntry, error)

	FetchResources(ids []ResourceId) (map[ResourceId]AssetValue, error)
}

// Master is a read+write session; it satisfies Slave.
type Master interface {
	Slave

	PushMainChain(ci ChainIndex) error
	PopMainChain() error

	AcceptToMempool(ids []Id) error
	MempoolToChain(ci ChainIndex, ids []Id) (int, error)
	ChainToMempool(ci ChainIndex) (int, error)

	UpdateBalance(deltas []ResourceDelta) error
}

// session is the single concrete implementation behind both Slave and
// Master. NewSlave hands it out through the narrower interface so a caller
// holding a Slave cannot reach the write methods, even though the
// underlying value implements them.
type session struct {
	store    *Store
	writable bool
	tx       *bolt.Tx
	id       string
}

// NewMaster acquires the connection and returns a read+write session. It
// blocks until the connection is free and panics if the calling goroutine
// already holds a session. The session is tagged with a correlation id,
// logged on acquire and release, so contention on the single connection is
// traceable across concurrent callers.
func (s *Store) NewMaster() Master {
	s.acquire()
	sessID := uuid.New().String()
	rdbLog.Debug().Str("session", sessID).Msg("rdb master session acquired")
	return &session{store: s, writable: true, id: sessID}
}

// NewSlave acquires the connection and returns a read-only session.
func (s *Store) NewSlave() Slave {
	s.acquire()
	sessID := uuid.New().String()
	rdbLog.Debug().Str("session", sessID).Msg("rdb slave session acquired")
	return &session{store: s, writable: false, id: sessID}
}

func (sess *session) IsTransaction() bool {
	return sess.tx != nil
}

func (sess *session) BeginTransaction() error {
	if sess.tx != nil {
		panic("rdb: BeginTransaction called while already in a transaction")
	}
	tx, err := sess.store.db.Begin(sess.writable)
	if err != nil {
		return fmt.Errorf("rdb: begin transaction: %w", err)
	}
	sess.tx = tx
	return nil
}

func (sess *session) Commit() error {
	if sess.tx == nil {
		panic("rdb: Commit called outside a transaction")
	}
	var err error
	if sess.writable {
		err = sess.tx.Commit()
	} else {
		// A read-only bbolt transaction has nothing to commit; Rollback is
		// how it is closed.
		err = sess.tx.Rollback()
	}
	sess.tx = nil
	recordTransactionOutcome(err)
	return err
}

func (sess *session) Rollback() error {
	if sess.tx == nil {
		panic("rdb: Rollback called outside a transaction")
	}
	err := sess.tx.Rollback()
	sess.tx = nil
	metrics.RDBTransactionsTotal.WithLabelValues("rolled_back").Inc()
	if err != nil {
		rdbLog.Warn().Err(err).Msg("rdb transaction rollback failed")
	} else {
		rdbLog.Debug().Msg("rdb transaction rolled back")
	}
	return err
}

func recordTransactionOutcome(err error) {
	outcome := "committed"
	if err != nil {
		outcome = "rolled_back"
	}
	metrics.RDBTransactionsTotal.WithLabelValues(outcome).Inc()
	if err != nil {
		rdbLog.Warn().Err(err).Msg("rdb transaction rolled back")
	} else {
		rdbLog.Debug().Msg("rdb transaction committed")
	}
}

// Close releases the session. A forgotten explicit transaction is rolled
// back, matching the source material's drop-implies-rollback safety net.
func (sess *session) Close() error {
	var err error
	if sess.tx != nil {
		err = sess.tx.Rollback()
		sess.tx = nil
	}
	sess.store.release()
	rdbLog.Debug().Str("session", sess.id).Msg("rdb session released")
	return err
}

// view runs fn against the session's open transaction if there is one,
// otherwise against a fresh auto-committed read-only transaction.
func (sess *session) view(fn func(tx *bolt.Tx) error) error {
	if sess.tx != nil {
		return fn(sess.tx)
	}
	return sess.store.db.View(fn)
}

// update runs fn against the session's open transaction if there is one,
// otherwise against a fresh auto-committed read-write transaction. It
// panics if the session is not writable -- callers reach it only through
// the Master interface, so this guards against a bug in this package, not
// external misuse.
func (sess *session) update(fn func(tx *bolt.Tx) error) error {
	if !sess.writable {
		panic("rdb: update called on a read-only session")
	}
	if sess.tx != nil {
		return fn(sess.tx)
	}
	return sess.store.db.Update(fn)
}
