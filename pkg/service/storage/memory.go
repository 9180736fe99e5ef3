package storage

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/aegis/pkg/domain/interfaces"
)

type memoryObject struct {
	contentType string
	data        []byte
}

// Memory keeps objects in process memory
type Memory struct {
	mu      sync.RWMutex
	objects map[string]*memoryObject
}

var _ interfaces.BlobStorage = &Memory{}

func NewMemory() *Memory {
	return &Memory{
		objects: make(map[string]*memoryObject),
	}
}

func (m *Memory) Put(ctx context.Context, objectPath, contentType string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return goerr.Wrap(err, "failed to read object data", goerr.V("path", objectPath))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[objectPath] = &memoryObject{contentType: contentType, data: data}
	return nil
}

func (m *Memory) Get(ctx context.Context, objectPath string) (io.ReadCloser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	obj, ok := m.objects[objectPath]
	if !ok {
		return nil, goerr.Wrap(ErrObjectNotFound, "object not found", goerr.V("path", objectPath))
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

func (m *Memory) Delete(ctx context.Context, objectPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.objects[objectPath]; !ok {
		return goerr.Wrap(ErrObjectNotFound, "object not found", goerr.V("path", objectPath))
	}
	delete(m.objects, objectPath)
	return nil
}
