package snapshot

import (
	"context"
	"encoding/json"
	"sync"

	"mentai-server/models"
)

// MemoryStore is a process-local snapshot store for tests and storeless dev
// runs. It round-trips through JSON so serialization behaves like the real
// backends.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Save(ctx context.Context, owner string, course *models.Course) error {
	data, err := json.Marshal(course)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[owner] = data
	return nil
}

func (s *MemoryStore) Load(ctx context.Context, owner string) (*models.Course, error) {
	s.mu.RLock()
	data, ok := s.data[owner]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	var course models.Course
	if err := json.Unmarshal(data, &course); err != nil {
		return nil, ErrNotFound
	}
	return &course, nil
}

func (s *MemoryStore) Clear(ctx context.Context, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, owner)
	return nil
}

// Corrupt overwrites an owner's stored bytes with garbage. Test hook for the
// corruption-reads-as-absence contract.
func (s *MemoryStore) Corrupt(owner string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[owner] = []byte("{not json")
}
