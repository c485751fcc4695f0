package types

import (
	"context"
	"io"
)

// RemoteClient defines the operations this module requires of the remote
// object-storage service. Every method is a blocking network call; callers
// must expect it to suspend for the duration of the round trip. The module
// adds no retry or timeout policy of its own.
type RemoteClient interface {
	// CreateContainer creates the named container. Creating a container
	// that already exists and is owned by the caller is not an error.
	CreateContainer(ctx context.Context, name string) (*ContainerInfo, error)

	// MakePublic enables public CDN access for the named container and
	// returns the handle with its CDN base URLs populated.
	MakePublic(ctx context.Context, name string) (*ContainerInfo, error)

	// ObjectExists reports whether an object is present at key.
	ObjectExists(ctx context.Context, container, key string) (bool, error)

	// ReadObject fetches the full content of the object at key.
	ReadObject(ctx context.Context, container, key string) ([]byte, error)

	// WriteObject creates or overwrites the object at key from r.
	WriteObject(ctx context.Context, container, key string, r io.Reader, size int64) error

	// WriteObjectFromFile creates or overwrites the object at key from a
	// local file.
	WriteObjectFromFile(ctx context.Context, container, key, localPath string) error

	// DeleteObject removes the object at key. Deleting a key that does not
	// exist is success.
	DeleteObject(ctx context.Context, container, key string) error
}
