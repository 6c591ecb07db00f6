package publish

import (
	"errors"
	"fmt"

	azStorageBlob "github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

var ErrBlobNotFound = errors.New("publish: blob not found")

const azblobBlobNotFound = "BlobNotFound"

// AsStorageError unwraps the azure sdk's layered error types to reach the
// service level StorageError, which carries the error code.
func AsStorageError(err error) (azStorageBlob.StorageError, bool) {
	serr := &azStorageBlob.StorageError{}
	ierr := &azStorageBlob.InternalError{}
	if !errors.As(err, &ierr) {
		return azStorageBlob.StorageError{}, false
	}
	if !ierr.As(&serr) {
		return azStorageBlob.StorageError{}, false
	}
	return *serr, true
}

// WrapBlobNotFound translates err to ErrBlobNotFound if the underlying cause
// is the azure sdk blob not found error code. In all other cases, including
// nil, err is returned as is.
func WrapBlobNotFound(err error) error {
	if err == nil {
		return nil
	}
	serr, ok := AsStorageError(err)
	if !ok {
		return err
	}
	if serr.ErrorCode != azblobBlobNotFound {
		return err
	}
	return fmt.Errorf("%s: %w", err.Error(), ErrBlobNotFound)
}

// IsBlobNotFound matches both an already wrapped ErrBlobNotFound and the raw
// azure sdk error.
func IsBlobNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrBlobNotFound) {
		return true
	}
	serr, ok := AsStorageError(err)
	if !ok {
		return false
	}
	return serr.ErrorCode == azblobBlobNotFound
}
