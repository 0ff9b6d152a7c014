package store

import (
	"context"
	"sync"
	"time"

	"secure.links/internal/models"
)

// Compile-time interface check
var _ Store = (*MemoryStore)(nil)

type MemoryStore struct {
	records       map[string]*models.LinkRecord
	mu            sync.RWMutex
	now           func() time.Time
	cleanupCancel context.CancelFunc
	done          chan struct{}
}

func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	ctx, cancel := context.WithCancel(context.Background())
	store := &MemoryStore{
		records:       make(map[string]*models.LinkRecord),
		now:           time.Now,
		cleanupCancel: cancel,
		done:          make(chan struct{}),
	}
	go store.cleanupLoop(ctx, cleanupInterval)
	return store
}

func (s *MemoryStore) Save(ctx context.Context, record *models.LinkRecord) error {
	if !s.now().Before(record.ExpiresAt) {
		return ErrExpired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := *record
	s.records[record.Token] = &rec
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, token string) (*models.LinkRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[token]
	if !ok {
		return nil, ErrNotFound
	}

	if !s.now().Before(record.ExpiresAt) {
		return nil, ErrExpired
	}

	rec := *record
	return &rec, nil
}

func (s *MemoryStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, token)
	return nil
}

// Len reports how many records are currently held, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *MemoryStore) Close() error {
	if s.cleanupCancel != nil {
		s.cleanupCancel()
		<-s.done
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[string]*models.LinkRecord)
	return nil
}

func (s *MemoryStore) cleanupLoop(ctx context.Context, interval time.Duration) {
	defer close(s.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *MemoryStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for token, record := range s.records {
		if !now.Before(record.ExpiresAt) {
			delete(s.records, token)
		}
	}
}
