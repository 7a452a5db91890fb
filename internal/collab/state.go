package collab

import (
	"errors"
	"fmt"
	"sync"

	"github.com/relgraph/relgraph/internal/animation"
	"github.com/relgraph/relgraph/internal/match"
	"github.com/relgraph/relgraph/internal/scene"
	"github.com/relgraph/relgraph/internal/snapshot"
	"github.com/relgraph/relgraph/internal/store"
)

// ErrSuperseded reports a record that is not newer than the one a diagram
// already holds. The record itself may be stored; it is just not pushed.
var ErrSuperseded = errors.New("record superseded")

// DiagramState is the server-side view of a diagram: the latest record and
// the scene tree built from it. Each new record is reconciled against the
// previous tree so pushes can describe what changed.
type DiagramState struct {
	mu       sync.RWMutex
	record   *store.Record
	root     *scene.Root
	composer *animation.Composer
}

func NewDiagramState(opts animation.Options) *DiagramState {
	return &DiagramState{
		composer: animation.NewComposer(animation.ImmediateScheduler{}, opts),
	}
}

// Apply reconciles rec with the current tree. Records that are not newer
// than the current one are rejected.
func (ds *DiagramState) Apply(rec *store.Record) (Summary, error) {
	s, err := snapshot.Parse(rec.Snapshot)
	if err != nil {
		return Summary{}, fmt.Errorf("apply record %s: %w", rec.ID, err)
	}
	next, err := scene.Build(s)
	if err != nil {
		return Summary{}, fmt.Errorf("apply record %s: %w", rec.ID, err)
	}

	ds.mu.Lock()
	defer ds.mu.Unlock()

	if ds.record != nil && rec.Sequence <= ds.record.Sequence {
		return Summary{}, fmt.Errorf("apply record %s: sequence %d not after %d: %w", rec.ID, rec.Sequence, ds.record.Sequence, ErrSuperseded)
	}

	u := ds.composer.Compose(ds.root, next)
	ds.composer.Run(u, nil, nil)
	ds.root = next
	ds.record = rec

	counts := u.Match.Counts()
	return Summary{
		Revision:       next.ChangeRevision,
		Unchanged:      counts[match.Unchanged],
		Changed:        counts[match.Changed],
		Added:          counts[match.Added],
		Removed:        counts[match.Removed],
		Moved:          counts[match.Moved],
		Interpolations: len(u.Interpolations),
		Fades:          len(u.Fades),
	}, nil
}

// Record returns the latest applied record, or nil.
func (ds *DiagramState) Record() *store.Record {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return ds.record
}

// Revision returns the change revision of the current tree.
func (ds *DiagramState) Revision() int {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	if ds.root == nil {
		return 0
	}
	return ds.root.ChangeRevision
}

// SyncMessage returns the snapshot.sync message for the current record, or
// nil if nothing was published yet.
func (ds *DiagramState) SyncMessage() *Message {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	if ds.record == nil {
		return nil
	}
	msg := newMessage(TypeSnapshotSync, SnapshotPayload{
		RecordID: ds.record.ID,
		Sequence: ds.record.Sequence,
		Revision: ds.root.ChangeRevision,
		Snapshot: ds.record.Snapshot,
	})
	msg.DiagramID = ds.record.DiagramID
	msg.Seq = ds.record.Sequence
	return msg
}
