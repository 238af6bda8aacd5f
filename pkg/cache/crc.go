package cache

import "sync/atomic"

// bucket is the allocation Crc hands out: a reference count plus a
// type-erased payload. It corresponds 1:1 to the source's Bucket<dyn Any>.
type bucket struct {
	rc      atomic.Int64
	size    uint64
	payload any
}

// Crc ("cache reference counted") is a thread-safe, strong-only shared
// handle to a type-erased payload. Allocation is accounted: constructing a
// Crc adds its declared size to the process-wide usage counter; releasing
// the last handle subtracts it again. There is no weak reference and no
// cycle collection, matching spec's non-goals.
type Crc struct {
	b *bucket
}

// NewCrc allocates a new Crc around payload, charging size bytes to the
// process-wide usage counter. size should reflect the payload's real
// footprint (e.g. len(intrinsic)+len(extrinsic) for an Acid) since Go gives
// no portable way to ask the runtime allocator for the actual block size
// the way malloc_usable_size does in the source material.
func NewCrc(payload any, size uint64) *Crc {
	b := &bucket{size: size, payload: payload}
	b.rc.Store(1)
	AddUsage(size)
	return &Crc{b: b}
}

// Clone returns a new handle to the same payload, incrementing the
// reference count.
func (c *Crc) Clone() *Crc {
	c.b.rc.Add(1)
	return &Crc{b: c.b}
}

// Release decrements the reference count. When the count reaches zero this
// call charges the payload's size back off the usage counter and drops the
// reference to the payload so the garbage collector can reclaim it --
// Go's analogue to the source's explicit heap deallocation.
func (c *Crc) Release() {
	if c.b.rc.Add(-1) == 0 {
		SubUsage(c.b.size)
		c.b.payload = nil
	}
}

// RefCount reports the current strong count. It is a diagnostic only: by
// the time a caller observes the value, it may already be stale.
func (c *Crc) RefCount() int64 {
	return c.b.rc.Load()
}

// Size returns the byte size this Crc charged to the usage counter.
func (c *Crc) Size() uint64 {
	return c.b.size
}

// Downcast returns the payload as T if the stored payload is a T, or the
// zero value and false otherwise. This is the checked analogue of the
// source's unsafe pointer downcast: Go's type assertion already verifies
// the concrete type, so there is no unsafe path to offer.
func Downcast[T any](c *Crc) (T, bool) {
	v, ok := c.b.payload.(T)
	return v, ok
}
