package rdb

import (
	"encoding/binary"
	"fmt"

	bolt "go.etcd.io/bbolt"
)

// UpdateBalance applies each delta to its resource's running balance.
// Positive deltas upsert; negative deltas decrement. A row whose balance
// reaches zero is removed. If any delta would target a non-existent row or
// drive the balance negative, the call fails. In an auto-committed call none
// of its deltas take effect -- returning the error aborts the bbolt
// transaction, which discards every write made so far in this call. Inside
// an explicit transaction the deltas applied before the failing one remain
// in the open transaction until Rollback.
func (sess *session) UpdateBalance(deltas []ResourceDelta) error {
	return sess.update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketResources)
		for _, d := range deltas {
			key := []byte(d.Id.Key())

			var current int64
			if v := b.Get(key); v != nil {
				current = int64(binary.BigEndian.Uint64(v))
			}

			next := current + int64(d.Delta)
			if next < 0 {
				return fmt.Errorf("rdb: balance for resource would go negative")
			}
			if next == 0 {
				if err := b.Delete(key); err != nil {
					return err
				}
				continue
			}

			buf := make([]byte, 8)
			binary.BigEndian.PutUint64(buf, uint64(next))
			if err := b.Put(key, buf); err != nil {
				return err
			}
		}
		return nil
	})
}

// FetchResources returns the positive balance of each requested resource;
// resources with no row (including zeroed-out ones) are absent.
func (sess *session) FetchResources(ids []ResourceId) (map[ResourceId]AssetValue, error) {
	result := make(map[ResourceId]AssetValue, len(ids))
	err := sess.view(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketResources)
		for _, id := range ids {
			v := b.Get([]byte(id.Key()))
			if v == nil {
				continue
			}
			result[id] = AssetValue(int64(binary.BigEndian.Uint64(v)))
		}
		return nil
	})
	return result, err
}
