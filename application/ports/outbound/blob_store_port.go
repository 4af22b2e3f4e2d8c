package outbound

import (
	"context"

	"github.com/jamieforrest/speakyer-proc/domain"
)

// BlobStorePort is the object store the pipeline reads from and publishes to.
// Exists reports (false, nil) only when the object is absent; any other failure is
// returned as an error so callers never mistake an outage for a cache miss.
type BlobStorePort interface {
	Exists(ctx context.Context, location string, key string) (bool, error)
	ReadText(ctx context.Context, location string, key string) (string, error)
	WriteText(ctx context.Context, location string, key string, text string) error
	WriteBytes(ctx context.Context, location string, key string, data []byte) error
	List(ctx context.Context, location string, prefix string) ([]domain.StoredObject, error)
	PublicURL(location string, key string) string
}
