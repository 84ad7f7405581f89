package blob

import (
	"context"
	"sync"
)

// MemoryStore is an in-process Store used by tests and local runs.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
	meta    map[string]map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		objects: make(map[string][]byte),
		meta:    make(map[string]map[string]string),
	}
}

// Put stores an object under bucket/key with empty metadata.
func (s *MemoryStore) Put(bucket, key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := bucket + "/" + key
	s.objects[id] = data
	s.meta[id] = map[string]string{}
}

func (s *MemoryStore) Fetch(ctx context.Context, bucket, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[bucket+"/"+key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (s *MemoryStore) Metadata(ctx context.Context, bucket, key string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	meta, ok := s.meta[bucket+"/"+key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make(map[string]string, len(meta))
	for k, v := range meta {
		out[k] = v
	}
	return out, nil
}

func (s *MemoryStore) SetMetadata(ctx context.Context, bucket, key string, metadata map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := bucket + "/" + key
	if _, ok := s.objects[id]; !ok {
		return ErrNotFound
	}
	out := make(map[string]string, len(metadata))
	for k, v := range metadata {
		out[k] = v
	}
	s.meta[id] = out
	return nil
}
