package mock

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jamieforrest/speakyer-proc/domain"
)

type storedBlob struct {
	data         []byte
	lastModified time.Time
}

// MemoryBlobStore keeps objects in process memory. Listing is in key order.
type MemoryBlobStore struct {
	mu      sync.Mutex
	objects map[string]map[string]storedBlob
	writes  map[string]int
	reads   map[string]int

	// ExistsErr, when set, is returned by every Exists call.
	ExistsErr error
	Now       func() time.Time
}

func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{
		objects: make(map[string]map[string]storedBlob),
		writes:  make(map[string]int),
		reads:   make(map[string]int),
		Now:     time.Now,
	}
}

func (m *MemoryBlobStore) Exists(ctx context.Context, location string, key string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if m.ExistsErr != nil {
		return false, m.ExistsErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[location][key]
	return ok, nil
}

func (m *MemoryBlobStore) ReadText(ctx context.Context, location string, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	blob, ok := m.objects[location][key]
	if !ok {
		return "", fmt.Errorf("%s/%s: %w", location, key, domain.ErrNotFound)
	}
	m.reads[location+"/"+key]++
	return string(blob.data), nil
}

func (m *MemoryBlobStore) WriteText(ctx context.Context, location string, key string, text string) error {
	return m.WriteBytes(ctx, location, key, []byte(text))
}

func (m *MemoryBlobStore) WriteBytes(ctx context.Context, location string, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.Put(location, key, data, m.Now())
	return nil
}

// Put stores an object with an explicit modification time.
func (m *MemoryBlobStore) Put(location string, key string, data []byte, lastModified time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.objects[location] == nil {
		m.objects[location] = make(map[string]storedBlob)
	}
	m.objects[location][key] = storedBlob{
		data:         append([]byte(nil), data...),
		lastModified: lastModified,
	}
	m.writes[location+"/"+key]++
}

func (m *MemoryBlobStore) List(ctx context.Context, location string, prefix string) ([]domain.StoredObject, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	objects := make([]domain.StoredObject, 0)
	for key, blob := range m.objects[location] {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		objects = append(objects, domain.StoredObject{
			Key:          key,
			Size:         int64(len(blob.data)),
			LastModified: blob.lastModified,
		})
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].Key < objects[j].Key })
	return objects, nil
}

func (m *MemoryBlobStore) PublicURL(location string, key string) string {
	return "https://" + location + ".s3.amazonaws.com/" + key
}

// Get returns a copy of the stored bytes.
func (m *MemoryBlobStore) Get(location string, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	blob, ok := m.objects[location][key]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), blob.data...), true
}

// Writes counts the writes made to one key.
func (m *MemoryBlobStore) Writes(location string, key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes[location+"/"+key]
}

// Reads counts the successful ReadText calls made on one key.
func (m *MemoryBlobStore) Reads(location string, key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads[location+"/"+key]
}

// TotalWrites counts every write made to the store.
func (m *MemoryBlobStore) TotalWrites() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.writes {
		total += n
	}
	return total
}
