/*
Package acidtype defines Mouse's record abstraction and the shared
vocabulary the cache, kvs, and rdb subsystems build on: Id (content-derived
identity), Acid (the polymorphic record contract), Resource/ResourceId
(typed asset deltas), and ChainIndex (main-chain position).

# Concrete Acid implementations

	Blob       opaque bytes, no parents, no resources, always traceable
	Composite  a fixed parent list and resource list set at construction
	NotFound   cache-internal sentinel; content accessors panic

Each implementation reports a distinct TypeId constant. A cache entry
holding a type-erased payload recovers its concrete type with a checked Go
type assertion rather than an unchecked pointer cast (see pkg/cache's
Downcast).

# Identity

Id is a pure function of intrinsic bytes, by default SHA-256. Two Acids
sharing an Id must have identical intrinsic bytes; this package does not
detect or guard against divergence, the same way the core treats it as a
protocol/corruption bug rather than a recoverable error.
*/
package acidtype
