package errors

import (
	"errors"
)

// AsStorageError extracts a *StorageError from an error chain.
func AsStorageError(err error) (*StorageError, bool) {
	var storageErr *StorageError
	if errors.As(err, &storageErr) {
		return storageErr, true
	}
	return nil, false
}

// IsConfiguration reports whether err is a configuration-category error.
// Configuration errors are fatal to backend activation.
func IsConfiguration(err error) bool {
	if storageErr, ok := AsStorageError(err); ok {
		return storageErr.Category == CategoryConfiguration
	}
	return false
}

// IsRemote reports whether err originated from the remote store.
func IsRemote(err error) bool {
	if storageErr, ok := AsStorageError(err); ok {
		return storageErr.Category == CategoryRemote
	}
	return false
}

// IsNotFound reports whether err indicates a missing remote object.
func IsNotFound(err error) bool {
	if storageErr, ok := AsStorageError(err); ok {
		return storageErr.Code == ErrCodeObjectNotFound
	}
	return false
}
