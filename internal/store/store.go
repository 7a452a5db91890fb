// Package store keeps the latest published snapshot of each diagram so that
// clients joining later can catch up. It is a relay buffer, not a history.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/relgraph/relgraph/internal/typeid"
)

var ErrNotFound = errors.New("snapshot not found")

// Record is one published snapshot.
type Record struct {
	ID          string          `json:"id"`
	DiagramID   string          `json:"diagramId"`
	Sequence    int64           `json:"sequence"`
	PublisherID string          `json:"publisherId"`
	Snapshot    json.RawMessage `json:"snapshot"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Store persists the latest snapshot per diagram. Sequence numbers grow by
// one per diagram with every Save.
type Store interface {
	Latest(ctx context.Context, diagramID string) (*Record, error)
	Save(ctx context.Context, diagramID, publisherID string, snapshot json.RawMessage) (*Record, error)
}

// Memory is an in-process Store.
type Memory struct {
	mu     sync.RWMutex
	latest map[string]*Record
	now    func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		latest: make(map[string]*Record),
		now:    time.Now,
	}
}

func (m *Memory) Latest(_ context.Context, diagramID string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.latest[diagramID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (m *Memory) Save(_ context.Context, diagramID, publisherID string, snapshot json.RawMessage) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var seq int64 = 1
	if prev, ok := m.latest[diagramID]; ok {
		seq = prev.Sequence + 1
	}
	rec := &Record{
		ID:          typeid.NewSnapshotID(),
		DiagramID:   diagramID,
		Sequence:    seq,
		PublisherID: publisherID,
		Snapshot:    append(json.RawMessage(nil), snapshot...),
		CreatedAt:   m.now().UTC(),
	}
	m.latest[diagramID] = rec
	cp := *rec
	return &cp, nil
}
