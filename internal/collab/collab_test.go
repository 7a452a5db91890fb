package collab

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relgraph/relgraph/internal/animation"
	"github.com/relgraph/relgraph/internal/snapshot"
	"github.com/relgraph/relgraph/internal/store"
)

func snapshotJSON(t *testing.T, children ...snapshot.Node) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(snapshot.Snapshot{Root: snapshot.NewNode("root", snapshot.TypeRoot, nil, children...)})
	require.NoError(t, err)
	return data
}

func box(id string, x float64) snapshot.Node {
	return snapshot.NewNode(id, snapshot.TypeComponent, snapshot.ComponentData{X: x, Width: 10, Height: 10})
}

func startHub(t *testing.T, st store.Store) *Hub {
	t.Helper()
	h := NewHub(st.Latest, animation.Options{})
	go h.Run()
	t.Cleanup(h.Stop)
	return h
}

func receive(t *testing.T, c *Client) *Message {
	t.Helper()
	select {
	case data, ok := <-c.send:
		require.True(t, ok, "send channel closed")
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		return &msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func receiveType(t *testing.T, c *Client, typ string) *Message {
	t.Helper()
	for {
		msg := receive(t, c)
		if msg.Type == typ {
			return msg
		}
	}
}

func TestJoinReceivesLatestSnapshot(t *testing.T) {
	st := store.NewMemory()
	rec, err := st.Save(context.Background(), "d1", "pub", snapshotJSON(t, box("A", 0)))
	require.NoError(t, err)

	h := startHub(t, st)
	c := NewClient(h, nil, "u1", "User One", "d1", "c1")
	h.Register(c)

	welcome := receive(t, c)
	assert.Equal(t, TypeWelcome, welcome.Type)

	sync := receiveType(t, c, TypeSnapshotSync)
	var p SnapshotPayload
	require.NoError(t, json.Unmarshal(sync.Payload, &p))
	assert.Equal(t, rec.ID, p.RecordID)
	assert.Equal(t, int64(1), p.Sequence)
	assert.Equal(t, 1, p.Revision)
	assert.Nil(t, p.Summary)
}

func TestPublishPushesSummary(t *testing.T) {
	st := store.NewMemory()
	h := startHub(t, st)
	ctx := context.Background()

	c := NewClient(h, nil, "u1", "User One", "d1", "c1")
	h.Register(c)
	receive(t, c)

	first, err := st.Save(ctx, "d1", "pub", snapshotJSON(t, box("A", 0), box("B", 10)))
	require.NoError(t, err)
	_, err = h.Publish(first)
	require.NoError(t, err)
	receiveType(t, c, TypeSnapshotPush)

	second, err := st.Save(ctx, "d1", "pub", snapshotJSON(t, box("A", 5), box("C", 0)))
	require.NoError(t, err)
	summary, err := h.Publish(second)
	require.NoError(t, err)
	assert.Equal(t, Summary{
		Revision:       2,
		Unchanged:      1,
		Changed:        1,
		Added:          1,
		Removed:        1,
		Interpolations: 1,
		Fades:          2,
	}, summary)

	push := receiveType(t, c, TypeSnapshotPush)
	assert.Equal(t, "pub", push.UserID)
	var p SnapshotPayload
	require.NoError(t, json.Unmarshal(push.Payload, &p))
	require.NotNil(t, p.Summary)
	assert.Equal(t, summary, *p.Summary)
	assert.Equal(t, int64(2), p.Sequence)

	_, err = h.Publish(first)
	assert.ErrorIs(t, err, ErrSuperseded)
}

func TestPublishRejectsInvalidSnapshot(t *testing.T) {
	h := startHub(t, store.NewMemory())
	_, err := h.Publish(&store.Record{ID: "snap_x", DiagramID: "d", Sequence: 1, Snapshot: json.RawMessage(`{"root":{"id":"","type":"root"}}`)})
	assert.ErrorIs(t, err, snapshot.ErrEmptyID)
}

func TestPresenceBroadcast(t *testing.T) {
	h := startHub(t, store.NewMemory())

	a := NewClient(h, nil, "ua", "A", "d1", "ca")
	b := NewClient(h, nil, "ub", "B", "d1", "cb")
	other := NewClient(h, nil, "uo", "O", "d2", "co")
	h.Register(a)
	receive(t, a)
	h.Register(b)
	receive(t, b)
	h.Register(other)
	receive(t, other)

	join := receiveType(t, a, TypePresenceJoin)
	assert.Equal(t, "ub", join.UserID)

	payload, _ := json.Marshal(PresencePayload{Hovered: "A", Selection: []string{"B"}})
	h.handleMessage(b, &Message{Type: TypePresenceUpdate, Payload: payload})

	update := receiveType(t, a, TypePresenceUpdate)
	var p PresencePayload
	require.NoError(t, json.Unmarshal(update.Payload, &p))
	assert.Equal(t, "A", p.Hovered)
	assert.Equal(t, "B", p.DisplayName)

	h.mu.RLock()
	room := h.rooms["d1"]
	h.mu.RUnlock()
	assert.Equal(t, []string{"ub"}, room.presence.watching("B"))
	assert.Empty(t, room.presence.watching("C"))

	h.handleMessage(a, &Message{Type: "bogus"})
	errMsg := receiveType(t, a, TypeError)
	var e ErrorPayload
	require.NoError(t, json.Unmarshal(errMsg.Payload, &e))
	assert.Contains(t, e.Message, "bogus")

	h.Unregister(b)
	leave := receiveType(t, a, TypePresenceLeave)
	assert.Equal(t, "ub", leave.UserID)

	select {
	case data := <-other.send:
		t.Fatalf("unexpected message for other room: %s", data)
	default:
	}
}

func TestSnapshotRequestWithoutSnapshot(t *testing.T) {
	h := startHub(t, store.NewMemory())
	c := NewClient(h, nil, "u", "U", "empty", "c")
	h.Register(c)
	receive(t, c)

	h.handleMessage(c, &Message{Type: TypeSnapshotRequest})
	assert.Equal(t, TypeError, receive(t, c).Type)
}

func TestStopClosesClients(t *testing.T) {
	h := NewHub(nil, animation.Options{})
	go h.Run()
	c := NewClient(h, nil, "u", "U", "d", "c")
	h.Register(c)
	receive(t, c)

	h.Stop()
	_, ok := <-c.send
	assert.False(t, ok)
	c.Send(newMessage(TypeError, ErrorPayload{}))
}

func TestSlowLoadDoesNotDelayOtherDiagrams(t *testing.T) {
	st := store.NewMemory()
	ctx := context.Background()
	_, err := st.Save(ctx, "slow", "pub", snapshotJSON(t, box("A", 0)))
	require.NoError(t, err)

	release := make(chan struct{})
	loader := func(ctx context.Context, diagramID string) (*store.Record, error) {
		if diagramID == "slow" {
			<-release
		}
		return st.Latest(ctx, diagramID)
	}
	h := NewHub(loader, animation.Options{})
	go h.Run()
	t.Cleanup(h.Stop)

	slow := NewClient(h, nil, "us", "Slow", "slow", "cs")
	registered := make(chan struct{})
	go func() {
		h.Register(slow)
		close(registered)
	}()

	fast := NewClient(h, nil, "uf", "Fast", "fast", "cf")
	start := time.Now()
	h.Register(fast)
	assert.Equal(t, TypeWelcome, receive(t, fast).Type)
	assert.Less(t, time.Since(start), 500*time.Millisecond)

	select {
	case <-registered:
		t.Fatal("slow client joined before its diagram loaded")
	default:
	}

	close(release)
	<-registered
	assert.Equal(t, TypeWelcome, receive(t, slow).Type)
	sync := receiveType(t, slow, TypeSnapshotSync)
	var p SnapshotPayload
	require.NoError(t, json.Unmarshal(sync.Payload, &p))
	assert.Equal(t, int64(1), p.Sequence)
}
