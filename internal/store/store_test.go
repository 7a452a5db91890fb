package store

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relgraph/relgraph/internal/typeid"
)

func testStore(t *testing.T, s Store) {
	ctx := context.Background()
	diagram := typeid.NewDiagramID()

	_, err := s.Latest(ctx, diagram)
	assert.ErrorIs(t, err, ErrNotFound)

	first, err := s.Save(ctx, diagram, "pub_a", json.RawMessage(`{"root":{"id":"r","type":"root"}}`))
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Sequence)
	assert.True(t, strings.HasPrefix(first.ID, "snap_"))

	second, err := s.Save(ctx, diagram, "pub_b", json.RawMessage(`{"root":{"id":"r2","type":"root"}}`))
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.Sequence)

	latest, err := s.Latest(ctx, diagram)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
	assert.Equal(t, "pub_b", latest.PublisherID)
	assert.JSONEq(t, `{"root":{"id":"r2","type":"root"}}`, string(latest.Snapshot))

	other, err := s.Save(ctx, diagram+"_other", "pub_a", json.RawMessage(`{}`))
	require.NoError(t, err)
	assert.Equal(t, int64(1), other.Sequence)
}

func TestMemory(t *testing.T) {
	testStore(t, NewMemory())
}

func TestMemoryReturnsCopies(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	_, err := m.Save(ctx, "d", "p", json.RawMessage(`{}`))
	require.NoError(t, err)

	rec, err := m.Latest(ctx, "d")
	require.NoError(t, err)
	rec.Sequence = 99

	again, err := m.Latest(ctx, "d")
	require.NoError(t, err)
	assert.Equal(t, int64(1), again.Sequence)
}

func TestPostgres(t *testing.T) {
	url := os.Getenv("RELGRAPH_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("RELGRAPH_TEST_DATABASE_URL not set")
	}
	p, err := NewPostgres(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(p.Close)

	testStore(t, p)
}
