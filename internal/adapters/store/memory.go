package store

import (
	"context"
	"sync"

	"github.com/dkeye/Meetcast/internal/domain"
)

type MemoryMeetingStore struct {
	mu     sync.RWMutex
	tokens map[domain.MeetingCode]string
}

func NewMemoryMeetingStore() *MemoryMeetingStore {
	return &MemoryMeetingStore{tokens: make(map[domain.MeetingCode]string)}
}

func (s *MemoryMeetingStore) Put(code domain.MeetingCode, hostToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[code] = hostToken
}

func (s *MemoryMeetingStore) LookupHostToken(_ context.Context, code domain.MeetingCode) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tokens[code]
	return t, ok, nil
}
