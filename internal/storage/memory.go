package storage

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// Object is one stored blob with its metadata.
type Object struct {
	Data []byte
	Meta ObjectMeta
}

// MemoryStore is a BlobStore holding objects in process memory. It backs
// the dry-run storage backend and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]Object
	putErr  error
	headErr error
	closed  bool
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]Object)}
}

// FailPuts makes every subsequent Put return err; nil restores normal
// behavior.
func (m *MemoryStore) FailPuts(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putErr = err
}

// FailHead makes every subsequent HeadBucket return err.
func (m *MemoryStore) FailHead(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.headErr = err
}

// Put stores a copy of data and meta under key.
func (m *MemoryStore) Put(ctx context.Context, key string, data []byte, meta ObjectMeta) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return errors.New("store is closed")
	}
	if m.putErr != nil {
		return m.putErr
	}

	buf := make([]byte, len(data))
	copy(buf, data)
	stored := ObjectMeta{ContentType: meta.ContentType}
	if len(meta.Metadata) > 0 {
		stored.Metadata = make(map[string]string, len(meta.Metadata))
		for k, v := range meta.Metadata {
			stored.Metadata[k] = v
		}
	}
	m.objects[key] = Object{Data: buf, Meta: stored}
	return nil
}

func (m *MemoryStore) HeadBucket(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return errors.New("store is closed")
	}
	return m.headErr
}

func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Get returns the object stored under key.
func (m *MemoryStore) Get(key string) (Object, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	return obj, ok
}

// Keys returns every stored key in lexical order.
func (m *MemoryStore) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of stored objects.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
