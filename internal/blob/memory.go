package blob

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Memory is an in-memory Store used by tests and local dry runs.
type Memory struct {
	mu      sync.Mutex
	objects map[string]memObject
}

type memObject struct {
	data     []byte
	modified time.Time
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{objects: make(map[string]memObject)}
}

// Put stores an object with the given modification time.
func (s *Memory) Put(key string, data []byte, modified time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	s.objects[key] = memObject{data: cp, modified: modified}
}

// Keys returns all stored keys, sorted.
func (s *Memory) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.objects))
	for k := range s.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// List returns objects whose key starts with prefix, ordered by key.
func (s *Memory) List(ctx context.Context, prefix string) ([]ObjectRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var refs []ObjectRef
	for k, obj := range s.objects {
		if strings.HasPrefix(k, prefix) {
			refs = append(refs, ObjectRef{Key: k, LastModified: obj.modified})
		}
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].Key < refs[j].Key })
	return refs, nil
}

// Get reads one object's bytes.
func (s *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("blob: get %q: not found", key)
	}
	cp := make([]byte, len(obj.data))
	copy(cp, obj.data)
	return cp, nil
}

// Delete removes one object.
func (s *Memory) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; !ok {
		return fmt.Errorf("blob: delete %q: not found", key)
	}
	delete(s.objects, key)
	return nil
}

// Archive copies the object to newKey and removes the original.
func (s *Memory) Archive(ctx context.Context, key, newKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[key]
	if !ok {
		return fmt.Errorf("blob: archive %q: not found", key)
	}
	s.objects[newKey] = obj
	delete(s.objects, key)
	return nil
}
