/*
Package rdb implements Mouse's relational index over three tables --
main_chain, acids, and resources -- backed by a single embedded bbolt
file rather than a SQL engine, since no SQL driver appears anywhere in
this module's dependency surface. Uniqueness, the mempool/chain CHECK,
and the balance-non-negative CHECK are enforced by hand inside bbolt
read-write transactions instead of by engine-level constraints and
triggers.

The RDB holds a single underlying connection. A Session is exclusive:
acquiring one blocks until any other session is released, and acquiring
a second session from the same goroutine while the first is still open
is a programming error that panics, mirroring the source material's
thread-owned-mutex discipline. Sessions come in two flavors, Slave
(read-only) and Master (read+write); Master satisfies Slave.

A session may run each operation auto-committed, or group several under
an explicit BeginTransaction/Commit/Rollback bracket -- because only one
session holds the connection at a time, grouping several writes in one
bbolt transaction gives the same serializable semantics the source
material gets from SQLite's single-writer model.
*/
package rdb
