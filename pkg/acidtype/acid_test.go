package acidtype

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlobId(t *testing.T) {
	b := NewBlob([]byte{0x01, 0x02}, nil)
	assert.Equal(t, HashFunc([]byte{0x01, 0x02}), b.Id())
	assert.Equal(t, 0, b.ParentCount())
	assert.Equal(t, 0, b.ResourceCount())
	assert.True(t, b.IsTraceable())
	assert.False(t, b.IsInvalid())
	assert.Nil(t, b.InvalidReason())
}

func TestBlobInvalidateIsMonotone(t *testing.T) {
	b := NewBlob([]byte("x"), nil)
	errFirst := errors.New("bad signature")
	b.Invalidate(errFirst)
	require.True(t, b.IsInvalid())
	assert.Equal(t, errFirst, b.InvalidReason())

	b.Invalidate(errors.New("different reason"))
	assert.Equal(t, errFirst, b.InvalidReason(), "validity must not flip back or change reason once set")
}

func TestBlobMergeTraceability(t *testing.T) {
	a := NewBlob([]byte("same"), nil)
	b := NewBlob([]byte("same"), nil)
	// Blob is always traceable, so merge never reports a change here.
	assert.False(t, a.Merge(b))
}

func TestCompositeTraceabilityRequiresParents(t *testing.T) {
	parent := NewBlob([]byte("parent"), nil)
	c := NewComposite([]byte("child"), []Id{parent.Id()}, nil, nil)
	assert.False(t, c.IsTraceable())

	changed := c.SetTraceable()
	assert.True(t, changed)
	assert.True(t, c.IsTraceable())

	// Monotone: calling again reports no further change.
	assert.False(t, c.SetTraceable())
}

func TestCompositeNoParentsIsTraceable(t *testing.T) {
	c := NewComposite([]byte("root"), nil, nil, nil)
	assert.True(t, c.IsTraceable())
}

func TestCompositeParentsAndResources(t *testing.T) {
	rid, err := NewResourceId([]byte("alice"), []byte("coin"))
	require.NoError(t, err)
	res := Resource{Id: rid, Value: 5}
	parentId := HashFunc([]byte("parent"))

	c := NewComposite([]byte("tx"), []Id{parentId}, []Resource{res}, nil)
	require.Equal(t, 1, c.ParentCount())
	p, ok := c.Parent(0)
	assert.True(t, ok)
	assert.Equal(t, parentId, p)

	_, ok = c.Parent(1)
	assert.False(t, ok)

	require.Equal(t, 1, c.ResourceCount())
	r, ok := c.Resource(0)
	assert.True(t, ok)
	assert.Equal(t, res, r)
}

func TestNotFoundPanicsOnContentAccess(t *testing.T) {
	nf := NewNotFound(ZeroId)
	assert.Equal(t, ZeroId, nf.Id())
	assert.Equal(t, TypeIdNotFound, nf.TypeId())

	assert.Panics(t, func() { nf.Intrinsic() })
	assert.Panics(t, func() { nf.ParentCount() })
	assert.Panics(t, func() { nf.IsTraceable() })
}

func TestResourceIdCapacity(t *testing.T) {
	owner := make([]byte, 100)
	assetType := make([]byte, 18)
	_, err := NewResourceId(owner, assetType)
	assert.NoError(t, err)

	assetType = make([]byte, 19)
	_, err = NewResourceId(owner, assetType)
	assert.Error(t, err, "owner+asset_type must be <= 118 bytes")
}

func TestResourceIdOwnerAssetType(t *testing.T) {
	rid, err := NewResourceId([]byte{1, 2, 3}, []byte("asset name"))
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, rid.Owner())
	assert.Equal(t, []byte("asset name"), rid.AssetType())
}

func TestChainIndexGenesisHeight(t *testing.T) {
	ci := NewChainIndex(GenesisHeight, ZeroId)
	assert.Equal(t, uint64(1), ci.Height)
}

func TestChainIndexPanicsOnZeroHeight(t *testing.T) {
	assert.Panics(t, func() { NewChainIndex(0, ZeroId) })
}
