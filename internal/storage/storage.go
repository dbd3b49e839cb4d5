package storage

import (
	"context"
	"io"
)

// Interface abstracts the document payload store. The local implementation
// writes to the filesystem; a cloud backend can be swapped in behind the
// same methods.
type Interface interface {
	// Save writes the payload under key, replacing any existing content.
	Save(ctx context.Context, key string, reader io.Reader) error

	// Open returns a reader for the payload stored under key.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Exists checks whether a payload exists and returns its size.
	Exists(ctx context.Context, key string) (bool, int64, error)

	// Delete removes the payload stored under key.
	Delete(ctx context.Context, key string) error
}
