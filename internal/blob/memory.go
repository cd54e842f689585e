package blob

import (
	"errors"
	"io"
	"strings"
	"sync"
)

// MemoryStore is an in-process Store used by tests and local development.
// RemoveErr / UploadErr let tests simulate storage failures.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte

	UploadErr error
	RemoveErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

const memoryBase = "mem://files/"

func (m *MemoryStore) Upload(key string, body io.Reader) error {
	if m.UploadErr != nil {
		return m.UploadErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

func (m *MemoryStore) PublicURL(key string) string {
	return memoryBase + key
}

func (m *MemoryStore) Remove(keys []string) error {
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		if _, ok := m.objects[key]; !ok {
			return errors.New("object not found: " + key)
		}
		delete(m.objects, key)
	}
	return nil
}

func (m *MemoryStore) KeyFromURL(url string) (string, bool) {
	if !strings.HasPrefix(url, memoryBase) {
		return "", false
	}
	key := strings.TrimPrefix(url, memoryBase)
	return key, key != ""
}

// Get returns a stored object, for test assertions.
func (m *MemoryStore) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	return data, ok
}

// Len reports how many objects are stored.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
