/*
Package remote implements the RemoteClient contract against an S3-compatible
object-storage endpoint.

Containers map to buckets. Authentication uses the resolved username/API-key
pair as a static credential provider. A small connection pool hands out
clients for concurrent attachment operations, and uploads of flushed files
can go through the CargoShip transporter when optimized uploads are enabled,
falling back to the standard client.

All failures are translated into the structured remote-category errors of
pkg/errors. Deleting an object that does not exist is success.
*/
package remote
