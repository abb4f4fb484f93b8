package blob

import (
	"context"
	"sync"
)

type localObject struct {
	data        []byte
	contentType string
}

// LocalStore keeps blobs in process memory. Used in local development and
// tests; contents are lost on restart, matching the transient meal store.
type LocalStore struct {
	mu      sync.RWMutex
	objects map[string]localObject
}

// NewLocalStore creates an empty in-memory blob store.
func NewLocalStore() *LocalStore {
	return &LocalStore{objects: make(map[string]localObject)}
}

func (s *LocalStore) PutObject(ctx context.Context, key string, data []byte, contentType string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	s.objects[key] = localObject{data: stored, contentType: contentType}

	return int64(len(data)), nil
}

func (s *LocalStore) GetObject(ctx context.Context, key string) ([]byte, error) {
	data, _, err := s.GetObjectWithType(ctx, key)
	return data, err
}

func (s *LocalStore) GetObjectWithType(ctx context.Context, key string) ([]byte, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[key]
	if !ok {
		return nil, "", ErrObjectNotFound
	}

	data := make([]byte, len(obj.data))
	copy(data, obj.data)

	return data, obj.contentType, nil
}

// PresignGet is not supported for in-memory blobs.
func (s *LocalStore) PresignGet(ctx context.Context, key string, ttlSeconds int) (string, error) {
	return "", ErrPresignUnsupported
}

func (s *LocalStore) DeleteObject(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.objects, key)
	return nil
}
