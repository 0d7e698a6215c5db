package memory

import (
	"context"
	"sync"

	"github.com/mcoot/clickgame-go/internal/model"
	"github.com/mcoot/clickgame-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu      sync.RWMutex
	records map[model.ExternalID]*model.StoredRecord
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		records: make(map[model.ExternalID]*model.StoredRecord),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) GetPlayerRecord(ctx context.Context, id model.ExternalID) (*model.StoredRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, model.ErrRecordNotFound
	}
	return rec.Clone(), nil
}

func (s *Storage) InsertPlayerRecord(ctx context.Context, rec *model.StoredRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[rec.ExternalID]; ok {
		return model.ErrRecordExists
	}
	s.records[rec.ExternalID] = rec.Clone()
	return nil
}

func (s *Storage) UpdatePlayerRecord(ctx context.Context, rec *model.StoredRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[rec.ExternalID]; !ok {
		return model.ErrRecordNotFound
	}
	s.records[rec.ExternalID] = rec.Clone()
	return nil
}

// Put stores rec unconditionally. Used to seed legacy or corrupt rows in tests.
func (s *Storage) Put(rec *model.StoredRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ExternalID] = rec.Clone()
}

// Count returns the number of stored records
func (s *Storage) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *Storage) Close() error {
	return nil
}
