package diagram

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/relgraph/relgraph/internal/collab"
	"github.com/relgraph/relgraph/internal/engine"
	"github.com/relgraph/relgraph/internal/preview"
	"github.com/relgraph/relgraph/internal/scene"
	"github.com/relgraph/relgraph/internal/snapshot"
	"github.com/relgraph/relgraph/internal/store"
)

var ErrInvalidSnapshot = errors.New("invalid snapshot")

// Publisher fans a saved record out to connected clients.
type Publisher interface {
	Publish(rec *store.Record) (collab.Summary, error)
}

type Service struct {
	store           store.Store
	publisher       Publisher
	engineOpts      engine.Options
	previewMaxWidth int
}

func NewService(st store.Store, publisher Publisher, engineOpts engine.Options, previewMaxWidth int) *Service {
	return &Service{
		store:           st,
		publisher:       publisher,
		engineOpts:      engineOpts,
		previewMaxWidth: previewMaxWidth,
	}
}

// PublishResult describes a stored snapshot. Superseded is set when a newer
// record of the same diagram reached viewers first; the record is stored but
// was not pushed and Summary is empty.
type PublishResult struct {
	RecordID   string         `json:"recordId"`
	Sequence   int64          `json:"sequence"`
	Summary    collab.Summary `json:"summary"`
	Superseded bool           `json:"superseded,omitempty"`
}

// Publish validates a snapshot, stores it as the diagram's latest and pushes
// it to the diagram's clients.
func (s *Service) Publish(ctx context.Context, diagramID, publisherID string, body []byte) (*PublishResult, error) {
	if _, err := snapshot.Parse(body); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}

	rec, err := s.store.Save(ctx, diagramID, publisherID, body)
	if err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}

	result := &PublishResult{RecordID: rec.ID, Sequence: rec.Sequence}
	summary, err := s.publisher.Publish(rec)
	switch {
	case errors.Is(err, collab.ErrSuperseded):
		result.Superseded = true
	case err != nil:
		return nil, fmt.Errorf("publish snapshot: %w", err)
	default:
		result.Summary = summary
	}
	return result, nil
}

func (s *Service) Latest(ctx context.Context, diagramID string) (*store.Record, error) {
	return s.store.Latest(ctx, diagramID)
}

// Root builds the scene tree of the latest snapshot.
func (s *Service) Root(ctx context.Context, diagramID string) (*scene.Root, error) {
	rec, err := s.store.Latest(ctx, diagramID)
	if err != nil {
		return nil, err
	}
	snap, err := snapshot.Parse(rec.Snapshot)
	if err != nil {
		return nil, fmt.Errorf("parse stored snapshot: %w", err)
	}
	return scene.Build(snap)
}

// Render returns the draw commands of the latest snapshot.
func (s *Service) Render(ctx context.Context, diagramID string) ([]engine.DrawCommand, error) {
	root, err := s.Root(ctx, diagramID)
	if err != nil {
		return nil, err
	}
	eng := engine.NewEngine(s.engineOpts)
	eng.ApplyRoot(root)
	return eng.Render(), nil
}

// Paths returns the path data of every relation by id.
func (s *Service) Paths(ctx context.Context, diagramID string) (map[string]string, error) {
	root, err := s.Root(ctx, diagramID)
	if err != nil {
		return nil, err
	}
	paths := make(map[string]string)
	scene.Walk(root, func(e scene.Element) bool {
		if r, ok := e.(*scene.Relation); ok {
			paths[r.ID()] = r.Path.String()
		}
		return true
	})
	return paths, nil
}

// Preview rasterizes the latest snapshot width pixels wide.
func (s *Service) Preview(ctx context.Context, diagramID string, width int) (image.Image, error) {
	root, err := s.Root(ctx, diagramID)
	if err != nil {
		return nil, err
	}
	return preview.Render(root, preview.Options{Width: width, MaxWidth: s.previewMaxWidth})
}
