package blobstore

import (
	"context"
	"sync"

	"github.com/teamawesome/wikistore/internal/common"
)

// Memory is an in-memory Store used in tests and for local development
// without an S3 endpoint. Buckets spring into existence on first Put.
type Memory struct {
	mu      sync.RWMutex
	buckets map[string]map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{buckets: make(map[string]map[string][]byte)}
}

func (m *Memory) Exists(ctx context.Context, bucket, name string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.buckets[bucket][name]
	return ok, nil
}

func (m *Memory) Get(ctx context.Context, bucket, name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.buckets[bucket][name]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

func (m *Memory) Put(ctx context.Context, bucket, name string, data []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.buckets[bucket]
	if !ok {
		b = make(map[string][]byte)
		m.buckets[bucket] = b
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	b[name] = cp
	return nil
}

func (m *Memory) Delete(ctx context.Context, bucket, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.buckets[bucket][name]; !ok {
		return common.ErrorNotFound
	}
	delete(m.buckets[bucket], name)
	return nil
}

func (m *Memory) List(ctx context.Context, bucket string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.buckets[bucket]))
	for name := range m.buckets[bucket] {
		names = append(names, name)
	}
	return names, nil
}

func (m *Memory) Copy(ctx context.Context, bucket, srcName, dstName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.buckets[bucket][srcName]
	if !ok {
		return common.ErrorNotFound
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	m.buckets[bucket][dstName] = cp
	return nil
}
