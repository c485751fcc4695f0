/*
Package types provides the core data structures and interface contracts for attachstore.

The package defines the shared vocabulary between the attachment backend and
its collaborators:

Credentials:
The resolved authentication record for the remote object-storage service,
immutable once produced by the credential resolver for a given activation.

ContainerInfo:
A handle to a remote container together with its CDN base URLs and public
visibility flag. Handles are created at most once per name per process and
cached by the container registry.

ObjectInfo:
Metadata for a single stored object.

RemoteClient:
The contract this module requires of the remote object-storage client. All
methods are blocking network calls; implementations translate transport and
service failures into the structured errors of pkg/errors. The module layers
no retry, timeout, or cancellation on top of the caller's context.
*/
package types
