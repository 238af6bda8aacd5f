/*
Package cache implements Mouse's process-wide, byte-accounted LRU cache of
Acids.

Three pieces cooperate:

	Usage   a single atomic byte counter shared by every Crc allocation
	Crc     a reference-counted, type-erased handle charged against Usage
	LRU     a concurrent Id -> Crc index with soft-limit eviction

A lookup through LRU.Find returns one of three outcomes: the Id is
unknown (StatusLost), the Id is known to not exist in the backing kvs
(StatusFault, via a NotFound sentinel Crc), or a real Acid is cached
(StatusHit). Inserting a real Acid over a NotFound sentinel replaces it;
inserting over an existing real Acid merges into the cached object rather
than replacing the cache entry, so any clone already held by another
goroutine observes the merged state.

Eviction walks from the least-recently-used end of a single global MRU
list, skipping any entry whose bucket-group lock is momentarily held by a
concurrent caller, until Usage falls at or below the configured soft
limit or no evictable candidate remains.
*/
package cache
