// Package store persists analysis reports so they can be listed and
// retrieved after the fact. Two implementations are provided: an
// in-memory ring used by default, and a MongoDB-backed store for
// deployments that need reports to survive restarts.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/screenlint/screenlint/pkg/errors"
)

// DefaultMaxRecords bounds the in-memory store when no explicit limit
// is configured.
const DefaultMaxRecords = 100

// Record is a stored analysis report plus the metadata shown in
// listings. Report holds the canonical JSON document and is omitted
// from list responses.
type Record struct {
	ID          string    `json:"id" bson:"_id"`
	ImageName   string    `json:"image_name" bson:"image_name"`
	Timestamp   time.Time `json:"timestamp" bson:"timestamp"`
	TotalIssues int       `json:"total_issues" bson:"total_issues"`
	Report      []byte    `json:"-" bson:"report"`
}

// Store persists analysis records.
type Store interface {
	// Save stores a record, replacing any existing record with the
	// same ID.
	Save(ctx context.Context, rec Record) error

	// Get returns the record with the given ID, including its report
	// bytes. Returns ErrCodeReportNotFound when no such record exists.
	Get(ctx context.Context, id string) (Record, error)

	// List returns records newest first with Report omitted. A
	// non-positive limit returns every stored record.
	List(ctx context.Context, limit int) ([]Record, error)

	// Close releases any resources held by the store.
	Close(ctx context.Context) error
}

// MemoryStore keeps the most recent records in memory, evicting the
// oldest once the configured bound is reached.
type MemoryStore struct {
	mu   sync.RWMutex
	recs []Record // newest first
	max  int
}

// NewMemoryStore creates a bounded in-memory store. A non-positive
// max falls back to DefaultMaxRecords.
func NewMemoryStore(max int) *MemoryStore {
	if max <= 0 {
		max = DefaultMaxRecords
	}
	return &MemoryStore{max: max}
}

// Save stores a record, replacing any existing record with the same ID.
func (s *MemoryStore) Save(_ context.Context, rec Record) error {
	if rec.ID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "record ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.recs {
		if existing.ID == rec.ID {
			s.recs = append(s.recs[:i], s.recs[i+1:]...)
			break
		}
	}
	s.recs = append([]Record{rec}, s.recs...)
	if len(s.recs) > s.max {
		s.recs = s.recs[:s.max]
	}
	return nil
}

// Get returns the record with the given ID.
func (s *MemoryStore) Get(_ context.Context, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.recs {
		if rec.ID == id {
			return rec, nil
		}
	}
	return Record{}, errors.New(errors.ErrCodeReportNotFound, "report %q not found", id)
}

// List returns stored records newest first with Report omitted.
func (s *MemoryStore) List(_ context.Context, limit int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.recs)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]Record, 0, n)
	for _, rec := range s.recs[:n] {
		rec.Report = nil
		out = append(out, rec)
	}
	return out, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close(context.Context) error { return nil }

// Verify interface compliance at compile time.
var _ Store = (*MemoryStore)(nil)
