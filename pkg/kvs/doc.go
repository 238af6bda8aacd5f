/*
Package kvs implements Mouse's key/value layer: two independent embedded
stores, one for intrinsic bytes and one for extrinsic bytes, rooted at
<kvs_root>/intrinsic and <kvs_root>/extrinsic.

Reads are synchronous: Fetch looks up intrinsic first and, only if found,
looks up extrinsic. Writes are coalesced into a single process-wide
WriteBatch guarded by a mutex. Insert writes both streams; Update writes
only the extrinsic stream, leaving a caller-written intrinsic row alone.
Both return a *WriteQuery backed by a shared completion cell that the
batch flush resolves once, for every co-batched writer at once.

Flush order matters: extrinsic is always written before intrinsic within
a flush, so no observer ever sees a row whose intrinsic is present but
whose extrinsic write is still outstanding.
*/
package kvs
