package storage

import (
	"context"
	"io"
)

// AvatarRepository defines the interface for avatar object storage
// operations. Upload returns a publicly resolvable URL for the object.
type AvatarRepository interface {
	Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error)
	Delete(ctx context.Context, objectPath string) error
}
