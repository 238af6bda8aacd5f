package acidtype

import "sync/atomic"

// Blob is the minimal concrete Acid: opaque intrinsic bytes with no
// parents, no resources, always traceable, never invalid. Its Id is the
// hash of its intrinsic bytes. Blob is the baseline every other concrete
// Acid is compared against in tests.
type Blob struct {
	id        Id
	intrinsic []byte

	// extrinsic is guarded by extMu rather than baked into the struct as a
	// plain []byte because SetTraceable/Merge must be safely callable
	// concurrently (Acid methods take no pointer-exclusive lock at the
	// cache layer).
	extMu     extMutex
	extrinsic []byte
	traceable atomic.Bool
	invalid   atomic.Bool
	invalidErr atomicError
}

// NewBlob builds a Blob from intrinsic bytes, computing its Id with the
// package's HashFunc. extrinsic may be nil.
func NewBlob(intrinsic []byte, extrinsic []byte) *Blob {
	b := &Blob{
		id:        HashFunc(intrinsic),
		intrinsic: intrinsic,
	}
	b.traceable.Store(true)
	if extrinsic != nil {
		b.extMu.Lock()
		b.extrinsic = extrinsic
		b.extMu.Unlock()
	}
	return b
}

func (b *Blob) Id() Id             { return b.id }
func (b *Blob) Intrinsic() []byte  { return b.intrinsic }
func (b *Blob) ParentCount() int   { return 0 }
func (b *Blob) ResourceCount() int { return 0 }

func (b *Blob) Extrinsic() []byte {
	b.extMu.Lock()
	defer b.extMu.Unlock()
	return b.extrinsic
}

func (b *Blob) Parent(i int) (Id, bool) { return Id{}, false }

func (b *Blob) Resource(i int) (Resource, bool) { return Resource{}, false }

// IsTraceable always reports true for Blob: a Blob has no parents, so the
// "all ancestors known" condition is vacuously satisfied.
func (b *Blob) IsTraceable() bool { return b.traceable.Load() }

// SetTraceable is a no-op for Blob: it is already traceable, so this never
// changes anything.
func (b *Blob) SetTraceable() bool { return false }

func (b *Blob) IsInvalid() bool { return b.invalid.Load() }

func (b *Blob) InvalidReason() error {
	if !b.invalid.Load() {
		return nil
	}
	return b.invalidErr.Load()
}

// Invalidate marks the Blob invalid with the given reason. Once invalid,
// subsequent calls are no-ops -- validity is monotone.
func (b *Blob) Invalidate(reason error) {
	if b.invalid.CompareAndSwap(false, true) {
		b.invalidErr.Store(reason)
	}
}

// Merge folds other's extrinsic state into b. For Blob the only mutable
// facts are traceability and validity; both are monotone, so merging just
// takes the logical OR.
func (b *Blob) Merge(other Acid) bool {
	changed := false
	if other.IsTraceable() && b.SetTraceable() {
		changed = true
	}
	if o, ok := other.(*Blob); ok && o.IsInvalid() && b.invalid.CompareAndSwap(false, true) {
		b.invalidErr.Store(o.InvalidReason())
		changed = true
	}
	return changed
}

func (b *Blob) TypeId() TypeId { return TypeIdBlob }
