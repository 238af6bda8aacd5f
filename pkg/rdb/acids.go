package rdb

import (
	"encoding/binary"
	"encoding/json"

	"github.com/mousechain/mouse/pkg/acidtype"
	bolt "go.etcd.io/bbolt"
)

// acidRecord is the JSON-encoded value stored per row of the acids table.
// ChainHeight nil means the acid is in mempool.
type acidRecord struct {
	Id          Id      `json:"id"`
	ChainHeight *uint64 `json:"chain_height,omitempty"`
}

func seqKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}

// AcceptToMempool inserts each id with a NULL chain_height, skipping ids
// already present.
func (sess *session) AcceptToMempool(ids []Id) error {
	return sess.update(func(tx *bolt.Tx) error {
		acids := tx.Bucket(bucketAcids)
		byID := tx.Bucket(bucketAcidsByID)

		for _, id := range ids {
			if byID.Get(id.Bytes()) != nil {
				continue
			}
			seq, err := acids.NextSequence()
			if err != nil {
				return err
			}
			key := seqKey(seq)
			data, err := json.Marshal(acidRecord{Id: id})
			if err != nil {
				return err
			}
			if err := acids.Put(key, data); err != nil {
				return err
			}
			if err := byID.Put(id.Bytes(), key); err != nil {
				return err
			}
		}
		return nil
	})
}

// MempoolToChain sets chain_height = ci.Height for every id currently in
// mempool, returning how many rows actually changed. The caller is
// responsible for ensuring ci is already present in main_chain.
func (sess *session) MempoolToChain(ci ChainIndex, ids []Id) (int, error) {
	n := 0
	err := sess.update(func(tx *bolt.Tx) error {
		acids := tx.Bucket(bucketAcids)
		byID := tx.Bucket(bucketAcidsByID)

		for _, id := range ids {
			key := byID.Get(id.Bytes())
			if key == nil {
				continue
			}
			var rec acidRecord
			if err := json.Unmarshal(acids.Get(key), &rec); err != nil {
				return err
			}
			if rec.ChainHeight != nil {
				continue
			}
			height := ci.Height
			rec.ChainHeight = &height
			data, err := json.Marshal(rec)
			if err != nil {
				return err
			}
			if err := acids.Put(key, data); err != nil {
				return err
			}
			n++
		}
		return nil
	})
	return n, err
}

// ChainToMempool resets chain_height to NULL for every row currently
// belonging to ci.Height, returning how many rows changed.
func (sess *session) ChainToMempool(ci ChainIndex) (int, error) {
	n := 0
	err := sess.update(func(tx *bolt.Tx) error {
		acids := tx.Bucket(bucketAcids)
		return acids.ForEach(func(k, v []byte) error {
			var rec acidRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			if rec.ChainHeight == nil || *rec.ChainHeight != ci.Height {
				return nil
			}
			rec.ChainHeight = nil
			data, err := json.Marshal(rec)
			if err != nil {
				return err
			}
			n++
			return acids.Put(k, data)
		})
	})
	return n, err
}

// FetchAcidState reports, for each id known to the table, nil (mempool) or
// the ChainIndex of the block containing it. Unknown ids are absent from
// the result.
func (sess *session) FetchAcidState(ids []Id) (map[Id]*ChainIndex, error) {
	result := make(map[Id]*ChainIndex, len(ids))
	err := sess.view(func(tx *bolt.Tx) error {
		acids := tx.Bucket(bucketAcids)
		byID := tx.Bucket(bucketAcidsByID)
		byHeight := tx.Bucket(bucketMainChainByHeight)

		for _, id := range ids {
			key := byID.Get(id.Bytes())
			if key == nil {
				continue
			}
			var rec acidRecord
			if err := json.Unmarshal(acids.Get(key), &rec); err != nil {
				return err
			}
			if rec.ChainHeight == nil {
				result[id] = nil
				continue
			}
			blockID := byHeight.Get(heightKey(*rec.ChainHeight))
			ci := ChainIndex{Height: *rec.ChainHeight}
			if blockID != nil {
				blockAcidID, err := acidtype.IdFromBytes(blockID)
				if err != nil {
					return err
				}
				ci.Id = blockAcidID
			}
			result[id] = &ci
		}
		return nil
	})
	return result, err
}

// FetchAcidRelations is FetchAcidState's result reshaped as a slice of
// acidtype.ChainRelation, one per id known to the table (unknown ids are
// skipped), pairing each Id with its containing ChainIndex directly rather
// than through a map.
func (sess *session) FetchAcidRelations(ids []Id) ([]acidtype.ChainRelation, error) {
	states, err := sess.FetchAcidState(ids)
	if err != nil {
		return nil, err
	}
	relations := make([]acidtype.ChainRelation, 0, len(states))
	for _, id := range ids {
		ci, known := states[id]
		if !known {
			continue
		}
		relations = append(relations, acidtype.NewChainRelation(id, ci))
	}
	return relations, nil
}

// FetchMempool pages through mempool rows in insertion (seq) order.
func (sess *session) FetchMempool(minSeq uint64, limit int) ([]MempoolEntry, error) {
	var out []MempoolEntry
	err := sess.view(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketAcids).Cursor()
		for k, v := c.Seek(seqKey(minSeq)); k != nil && len(out) < limit; k, v = c.Next() {
			var rec acidRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}
			if rec.ChainHeight != nil {
				continue
			}
			out = append(out, MempoolEntry{Seq: binary.BigEndian.Uint64(k), Id: rec.Id})
		}
		return nil
	})
	return out, err
}
