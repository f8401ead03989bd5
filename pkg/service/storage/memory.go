package storage

import (
	"context"
	"sync"
)

// Object is an artifact kept by Memory
type Object struct {
	ContentType string
	Data        []byte
}

// Memory keeps report artifacts in process memory
type Memory struct {
	mu      sync.RWMutex
	objects map[string]Object
}

func NewMemory() *Memory {
	return &Memory{objects: make(map[string]Object)}
}

func (s *Memory) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.objects[name] = Object{
		ContentType: contentType,
		Data:        append([]byte(nil), data...),
	}
	return "memory://" + name, nil
}

// Get returns a stored object
func (s *Memory) Get(name string) (Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[name]
	return obj, ok
}
