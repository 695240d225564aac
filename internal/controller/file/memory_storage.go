package file

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStorage is an in-process StorageClient used by tests and by local
// development runs without cloud credentials.
type MemoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte

	// Optional forced failures for tests
	UploadErr   error
	DownloadErr error
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{objects: make(map[string][]byte)}
}

func (m *MemoryStorage) UploadFile(objectName string, fileData io.Reader) error {
	if m.UploadErr != nil {
		return m.UploadErr
	}
	buf, err := io.ReadAll(fileData)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[objectName] = buf
	return nil
}

func (m *MemoryStorage) DownloadFile(objectName string) (io.ReadCloser, int64, error) {
	if m.DownloadErr != nil {
		return nil, 0, m.DownloadErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[objectName]
	if !ok {
		return nil, 0, fmt.Errorf("object %s not found", objectName)
	}
	return io.NopCloser(bytes.NewReader(data)), int64(len(data)), nil
}

func (m *MemoryStorage) SignedURL(objectName string, expiry time.Duration) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[objectName]; !ok {
		return "", fmt.Errorf("object %s not found", objectName)
	}
	return fmt.Sprintf("https://storage.local/%s?expires=%d", objectName, int64(expiry.Seconds())), nil
}

func (m *MemoryStorage) Remove(objectName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[objectName]; !ok {
		return fmt.Errorf("object %s not found", objectName)
	}
	delete(m.objects, objectName)
	return nil
}

func (m *MemoryStorage) ListObjects(prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var names []string
	for name := range m.objects {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Len reports how many objects are stored.
func (m *MemoryStorage) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
