package rdb

import "github.com/mousechain/mouse/pkg/acidtype"

// Aliased so callers of this package rarely need to import acidtype
// directly just to name a Session method's argument or result type.
type (
	Id         = acidtype.Id
	ChainIndex = acidtype.ChainIndex
	ResourceId = acidtype.ResourceId
	AssetValue = acidtype.AssetValue
)

// MempoolEntry is one row of a FetchMempool page.
type MempoolEntry struct {
	Seq uint64
	Id  Id
}

// ResourceDelta is one input to UpdateBalance: the signed change to apply
// to a ResourceId's running balance.
type ResourceDelta struct {
	Id    ResourceId
	Delta AssetValue
}
