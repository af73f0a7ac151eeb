// Package store keeps processed reports keyed by batch id so a later
// export request can retrieve them. A process-wide "last batch" slot races
// under concurrent callers; the keyed store with ids handed back to the
// caller avoids that.
package store

import (
	"errors"
	"sync"
	"time"

	"vendas-report/processor"

	"github.com/google/uuid"
)

// ErrNoDataset signals an export request with no matching processed
// dataset (unknown id or expired entry).
var ErrNoDataset = errors.New("no data to export")

type entry struct {
	report    *processor.Report
	expiresAt time.Time
}

// ReportStore is a TTL-bounded in-memory map of batch id to report.
type ReportStore struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// New creates a store whose entries live for ttl after insertion.
func New(ttl time.Duration) *ReportStore {
	return &ReportStore{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Put stores a report and returns the batch id the caller passes back on
// export. Expired entries are swept on insertion.
func (s *ReportStore) Put(report *processor.Report) string {
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for key, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, key)
		}
	}
	s.entries[id] = entry{report: report, expiresAt: now.Add(s.ttl)}
	return id
}

// Get retrieves a stored report. Returns ErrNoDataset for unknown or
// expired ids.
func (s *ReportStore) Get(id string) (*processor.Report, error) {
	s.mu.RLock()
	e, found := s.entries[id]
	s.mu.RUnlock()

	if !found || s.now().After(e.expiresAt) {
		return nil, ErrNoDataset
	}
	return e.report, nil
}
