package domain

import (
	"context"
	"io"
)

// Blobs stores image bytes and answers with their public URL
type Blobs interface {
	Put(ctx context.Context, key string, body io.ReadSeeker, size int64, contentType string) (string, error)
}

// ServicePort defines the service contract for memories
type ServicePort interface {
	List(ctx context.Context, in ListInput) ([]Memory, error)
	Upload(ctx context.Context, in UploadInput) (Uploaded, error)
}
