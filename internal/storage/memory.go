package storage

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStore keeps objects in process memory. Used in dev mode and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
	baseURL string

	// PutErr and DeleteErr, when set, are returned by Put and Delete
	PutErr    error
	DeleteErr error
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		objects: make(map[string][]byte),
		baseURL: "memory://objects",
	}
}

func (m *MemoryStore) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.PutErr != nil {
		return "", fmt.Errorf("failed to upload object %s: %w", key, m.PutErr)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := make([]byte, len(body))
	copy(cp, body)
	m.objects[key] = cp
	return m.URL(key), nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	if m.DeleteErr != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, m.DeleteErr)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.objects, key)
	return nil
}

func (m *MemoryStore) PresignPut(ctx context.Context, key, contentType string, expires time.Duration) (string, error) {
	return fmt.Sprintf("%s?expires=%d", m.URL(key), int(expires.Seconds())), nil
}

func (m *MemoryStore) URL(key string) string {
	return m.baseURL + "/" + key
}

func (m *MemoryStore) KeyFromURL(rawURL string) (string, bool) {
	return keyFromURL(m.baseURL, rawURL)
}

// Has reports whether key is stored
func (m *MemoryStore) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[key]
	return ok
}

// Len returns the number of stored objects
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
