package acidtype

import "fmt"

// GenesisHeight is the height of the first block of a chain. Mouse starts
// numbering at 1, not 0, because some storage engines treat 0 as a special
// value (an empty/absent key).
const GenesisHeight uint64 = 1

// ChainIndex locates an Acid's position on the main chain: the block height
// and the Id of the block occupying it.
type ChainIndex struct {
	Height uint64
	Id     Id
}

// NewChainIndex builds a ChainIndex. It panics if height is 0 -- height must
// be strictly positive, same as the core's assert on construction.
func NewChainIndex(height uint64, id Id) ChainIndex {
	if height == 0 {
		panic(fmt.Sprintf("acidtype: chain index height must be > 0, got %d", height))
	}
	return ChainIndex{Height: height, Id: id}
}

// ChainRelation pairs an Acid's Id with the ChainIndex of the block
// containing it, or a nil ChainIndex if the Acid is still in mempool. It is
// a read-only convenience returned by rdb.FetchAcidRelations rather than a
// persisted field -- the same id/chain_index pairing the acids table rows
// already carry, just addressed by Id instead of by map key.
type ChainRelation struct {
	Id         Id
	ChainIndex *ChainIndex
}

// NewChainRelation builds a ChainRelation for id, paired with ci (nil if id
// is in mempool or unknown to the table).
func NewChainRelation(id Id, ci *ChainIndex) ChainRelation {
	return ChainRelation{Id: id, ChainIndex: ci}
}
