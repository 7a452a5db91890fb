package collab

import (
	"slices"
	"sync"
)

// presenceSet holds the latest presence each user in a room reported.
type presenceSet struct {
	mu    sync.RWMutex
	users map[string]PresencePayload
}

func newPresenceSet() *presenceSet {
	return &presenceSet{users: make(map[string]PresencePayload)}
}

func (ps *presenceSet) set(userID string, p PresencePayload) {
	p.Selection = slices.Clone(p.Selection)
	ps.mu.Lock()
	ps.users[userID] = p
	ps.mu.Unlock()
}

func (ps *presenceSet) remove(userID string) {
	ps.mu.Lock()
	delete(ps.users, userID)
	ps.mu.Unlock()
}

func (ps *presenceSet) snapshot() map[string]*PresencePayload {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	out := make(map[string]*PresencePayload, len(ps.users))
	for user, p := range ps.users {
		p.Selection = slices.Clone(p.Selection)
		out[user] = &p
	}
	return out
}

// watching returns the sorted ids of users hovering or selecting elementID.
func (ps *presenceSet) watching(elementID string) []string {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	var users []string
	for user, p := range ps.users {
		if p.Hovered == elementID || slices.Contains(p.Selection, elementID) {
			users = append(users, user)
		}
	}
	slices.Sort(users)
	return users
}

// stateMessage is nil for an empty room.
func (ps *presenceSet) stateMessage() *Message {
	all := ps.snapshot()
	if len(all) == 0 {
		return nil
	}
	return newMessage(TypePresenceState, PresenceStatePayload{Presences: all})
}
