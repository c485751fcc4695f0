/*
Package attachment implements the storage backend driven by the host
attachment framework.

Each attachment instance owns a write/delete queue: writes are buffered as
(style, local file) pairs and deletes as object paths, with nothing touching
the remote store until the host signals FlushWrites or FlushDeletes at
save/destroy time. A later queued write for a style supersedes the earlier
one. Flushes are fail-fast: the first failing remote call aborts the flush
and leaves the failing and unattempted entries pending.

Read-your-own-writes is honored by ToFile, which returns a queued local
file verbatim, and deliberately not by Read or Exists, which always consult
the remote store even while a write for that style is pending.

Queues belong to a single attachment instance and are driven synchronously
per request by the host, so they carry no locks. The container registry and
remote client they share are process-wide and safe for concurrent use.
*/
package attachment
