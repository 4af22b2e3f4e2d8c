package adapters

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/jamieforrest/speakyer-proc/application/ports/outbound"
	"github.com/jamieforrest/speakyer-proc/config"
	"github.com/jamieforrest/speakyer-proc/domain"
	"github.com/nats-io/nats.go"
)

var invalidBucketChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// natsBlobStore maps each location to a JetStream object store bucket of the same name,
// with characters NATS does not allow replaced by underscores.
type natsBlobStore struct {
	logger           outbound.LoggerPort
	jetstreamContext nats.JetStreamContext
	storeConfig      *config.StoreConfig

	mu      sync.Mutex
	buckets map[string]nats.ObjectStore
}

func NewNatsBlobStore(logger outbound.LoggerPort, jetstreamContext nats.JetStreamContext, storeConfig *config.StoreConfig) outbound.BlobStorePort {
	return &natsBlobStore{
		logger:           logger,
		jetstreamContext: jetstreamContext,
		storeConfig:      storeConfig,
		buckets:          make(map[string]nats.ObjectStore),
	}
}

func natsBucketName(location string) string {
	return invalidBucketChars.ReplaceAllString(location, "_")
}

func (n *natsBlobStore) bucket(location string) (nats.ObjectStore, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if store, ok := n.buckets[location]; ok {
		return store, nil
	}

	bucketName := natsBucketName(location)
	store, err := n.jetstreamContext.ObjectStore(bucketName)
	if errors.Is(err, nats.ErrStreamNotFound) || errors.Is(err, nats.ErrBucketNotFound) {
		store, err = n.jetstreamContext.CreateObjectStore(&nats.ObjectStoreConfig{
			Bucket:      bucketName,
			Description: fmt.Sprintf("Storage for the %s location.", location),
			Storage:     nats.FileStorage,
			Replicas:    1,
		})
	}
	if err != nil {
		n.logger.ErrorWithFields(err, "Failed to bind object store bucket", map[string]interface{}{
			"bucket": bucketName,
		})
		return nil, fmt.Errorf("bind object store bucket '%s': %w", bucketName, err)
	}

	n.buckets[location] = store
	return store, nil
}

func (n *natsBlobStore) Exists(ctx context.Context, location string, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	store, err := n.bucket(location)
	if err != nil {
		return false, err
	}
	info, err := store.GetInfo(key)
	if errors.Is(err, nats.ErrObjectNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat object '%s': %w", key, err)
	}
	return !info.Deleted, nil
}

func (n *natsBlobStore) ReadText(ctx context.Context, location string, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	store, err := n.bucket(location)
	if err != nil {
		return "", err
	}
	data, err := store.GetBytes(key)
	if errors.Is(err, nats.ErrObjectNotFound) {
		return "", fmt.Errorf("%s/%s: %w", location, key, domain.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get object '%s': %w", key, err)
	}
	return string(data), nil
}

func (n *natsBlobStore) WriteText(ctx context.Context, location string, key string, text string) error {
	return n.WriteBytes(ctx, location, key, []byte(text))
}

func (n *natsBlobStore) WriteBytes(ctx context.Context, location string, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	store, err := n.bucket(location)
	if err != nil {
		return err
	}
	_, err = store.Put(&nats.ObjectMeta{
		Name: key,
		Headers: nats.Header{
			"Content-Type": []string{contentTypeFor(key)},
		},
	}, bytes.NewReader(data))
	if err != nil {
		n.logger.ErrorWithFields(err, "Failed to put object", map[string]interface{}{
			"bucket": natsBucketName(location),
			"key":    key,
		})
		return fmt.Errorf("failed to put object '%s': %w", key, err)
	}
	return nil
}

func (n *natsBlobStore) List(ctx context.Context, location string, prefix string) ([]domain.StoredObject, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	store, err := n.bucket(location)
	if err != nil {
		return nil, err
	}
	infos, err := store.List()
	if errors.Is(err, nats.ErrNoObjectsFound) {
		return []domain.StoredObject{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list bucket '%s': %w", natsBucketName(location), err)
	}

	objects := make([]domain.StoredObject, 0, len(infos))
	for _, info := range infos {
		if info.Deleted || !strings.HasPrefix(info.Name, prefix) {
			continue
		}
		objects = append(objects, domain.StoredObject{
			Key:          info.Name,
			Size:         int64(info.Size),
			LastModified: info.ModTime,
		})
	}
	return objects, nil
}

func (n *natsBlobStore) PublicURL(location string, key string) string {
	if n.storeConfig != nil && n.storeConfig.PublicBaseUrl != "" {
		return strings.TrimSuffix(n.storeConfig.PublicBaseUrl, "/") + "/" + key
	}
	return fmt.Sprintf("nats://%s/%s", natsBucketName(location), key)
}
