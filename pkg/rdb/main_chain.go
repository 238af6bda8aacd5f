package rdb

import (
	"encoding/binary"
	"fmt"

	"github.com/mousechain/mouse/pkg/acidtype"
	bolt "go.etcd.io/bbolt"
)

func heightKey(height uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, height)
	return key
}

func heightFromKey(key []byte) uint64 {
	return binary.BigEndian.Uint64(key)
}

// PushMainChain inserts ci into main_chain. Both the height and the id must
// be previously unused; either collision fails the call.
func (sess *session) PushMainChain(ci ChainIndex) error {
	return sess.update(func(tx *bolt.Tx) error {
		byHeight := tx.Bucket(bucketMainChainByHeight)
		byID := tx.Bucket(bucketMainChainByID)

		hk := heightKey(ci.Height)
		if byHeight.Get(hk) != nil {
			return fmt.Errorf("rdb: main_chain height %d already occupied", ci.Height)
		}
		if byID.Get(ci.Id.Bytes()) != nil {
			return fmt.Errorf("rdb: main_chain id %s already present", ci.Id)
		}
		if err := byHeight.Put(hk, ci.Id.Bytes()); err != nil {
			return err
		}
		return byID.Put(ci.Id.Bytes(), hk)
	})
}

// PopMainChain deletes the row with the greatest height, if any.
func (sess *session) PopMainChain() error {
	return sess.update(func(tx *bolt.Tx) error {
		byHeight := tx.Bucket(bucketMainChainByHeight)
		byID := tx.Bucket(bucketMainChainByID)

		c := byHeight.Cursor()
		k, v := c.Last()
		if k == nil {
			return nil
		}
		if err := byID.Delete(v); err != nil {
			return err
		}
		return byHeight.Delete(k)
	})
}

// FetchMainChain returns the id at each requested height that is present.
func (sess *session) FetchMainChain(heights []uint64) (map[uint64]Id, error) {
	result := make(map[uint64]Id, len(heights))
	err := sess.view(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketMainChainByHeight)
		for _, h := range heights {
			v := b.Get(heightKey(h))
			if v == nil {
				continue
			}
			id, err := acidtype.IdFromBytes(v)
			if err != nil {
				return err
			}
			result[h] = id
		}
		return nil
	})
	return result, err
}

// FetchMainChainOne returns the id at height, if present.
func (sess *session) FetchMainChainOne(height uint64) (Id, bool, error) {
	var id Id
	var found bool
	err := sess.view(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketMainChainByHeight).Get(heightKey(height))
		if v == nil {
			return nil
		}
		var err error
		id, err = acidtype.IdFromBytes(v)
		found = err == nil
		return err
	})
	return id, found, err
}

// FetchMainChainAsc returns up to limit rows with height >= minHeight,
// ordered ascending by height.
func (sess *session) FetchMainChainAsc(minHeight uint64, limit int) ([]ChainIndex, error) {
	var out []ChainIndex
	err := sess.view(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketMainChainByHeight).Cursor()
		for k, v := c.Seek(heightKey(minHeight)); k != nil && len(out) < limit; k, v = c.Next() {
			id, err := acidtype.IdFromBytes(v)
			if err != nil {
				return err
			}
			out = append(out, ChainIndex{Height: heightFromKey(k), Id: id})
		}
		return nil
	})
	return out, err
}

// FetchMainChainDesc returns up to limit rows with height <= maxHeight,
// ordered descending by height.
func (sess *session) FetchMainChainDesc(maxHeight uint64, limit int) ([]ChainIndex, error) {
	var out []ChainIndex
	err := sess.view(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketMainChainByHeight).Cursor()
		k, v := c.Seek(heightKey(maxHeight))
		if k == nil {
			// No key >= maxHeight: the greatest existing key, if any, is
			// the starting point.
			k, v = c.Last()
		} else if heightFromKey(k) > maxHeight {
			k, v = c.Prev()
		}
		for ; k != nil && len(out) < limit; k, v = c.Prev() {
			id, err := acidtype.IdFromBytes(v)
			if err != nil {
				return err
			}
			out = append(out, ChainIndex{Height: heightFromKey(k), Id: id})
		}
		return nil
	})
	return out, err
}
