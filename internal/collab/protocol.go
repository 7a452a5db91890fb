package collab

import "encoding/json"

type Message struct {
	Type      string          `json:"type"`
	DiagramID string          `json:"diagramId,omitempty"`
	ClientID  string          `json:"clientId,omitempty"`
	UserID    string          `json:"userId,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload"`
}

type PresencePayload struct {
	Cursor      *CursorPos `json:"cursor,omitempty"`
	Selection   []string   `json:"selection,omitempty"`
	Hovered     string     `json:"hovered,omitempty"`
	DisplayName string     `json:"displayName,omitempty"`
}

type CursorPos struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type PresenceStatePayload struct {
	Presences map[string]*PresencePayload `json:"presences"`
}

type PresenceJoinPayload struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

type PresenceLeavePayload struct {
	UserID string `json:"userId"`
}

type WelcomePayload struct {
	ClientID string `json:"clientId"`
	UserID   string `json:"userId"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// SnapshotPayload carries a full snapshot. Summary is set on pushes and
// describes how the snapshot differs from the previous one.
type SnapshotPayload struct {
	RecordID string          `json:"recordId"`
	Sequence int64           `json:"sequence"`
	Revision int             `json:"revision"`
	Snapshot json.RawMessage `json:"snapshot"`
	Summary  *Summary        `json:"summary,omitempty"`
}

// Summary counts the outcome of reconciling two snapshots.
type Summary struct {
	Revision       int `json:"revision"`
	Unchanged      int `json:"unchanged"`
	Changed        int `json:"changed"`
	Added          int `json:"added"`
	Removed        int `json:"removed"`
	Moved          int `json:"moved"`
	Interpolations int `json:"interpolations"`
	Fades          int `json:"fades"`
}

const (
	TypePresenceUpdate = "presence.update"
	TypePresenceState  = "presence.state"
	TypePresenceJoin   = "presence.join"
	TypePresenceLeave  = "presence.leave"
	TypeError          = "error"

	// Connection
	TypeWelcome = "welcome"

	// Snapshot relay
	TypeSnapshotSync    = "snapshot.sync"
	TypeSnapshotPush    = "snapshot.push"
	TypeSnapshotRequest = "snapshot.request"
)

func newMessage(typ string, payload any) *Message {
	data, _ := json.Marshal(payload)
	return &Message{Type: typ, Payload: data}
}
