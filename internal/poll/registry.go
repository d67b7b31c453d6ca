package poll

import (
	"maps"
	"slices"
	"sync"
)

// Registry maps chat ids to their isolated state. It is safe for concurrent
// use; every mutation goes through Update and runs under one lock.
type Registry struct {
	mu         sync.RWMutex
	superAdmin int64
	chats      map[int64]*ChatState
}

func NewRegistry(superAdmin int64) *Registry {
	return &Registry{
		superAdmin: superAdmin,
		chats:      make(map[int64]*ChatState),
	}
}

// SuperAdmin returns the identity that is an admin of every chat.
func (r *Registry) SuperAdmin() int64 {
	return r.superAdmin
}

// GetOrCreate returns a copy of the chat's state, creating a default state
// seeded with the super-admin on first access.
func (r *Registry) GetOrCreate(chatID int64) ChatState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getOrCreateLocked(chatID).Clone()
}

// Lookup returns a copy of the chat's state without creating it.
func (r *Registry) Lookup(chatID int64) (ChatState, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.chats[chatID]
	if !ok {
		return ChatState{}, false
	}
	return s.Clone(), true
}

// Update runs fn against a copy of the chat's state and commits the copy only
// when fn returns nil. A rejected mutation leaves the registry untouched; an
// unknown chat is registered only when fn succeeds.
func (r *Registry) Update(chatID int64, fn func(*ChatState) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.chats[chatID]
	if !ok {
		current = newChatState(r.superAdmin)
	}
	next := current.Clone()
	if err := fn(&next); err != nil {
		return err
	}
	// The super-admin invariant holds whatever fn did.
	next.Admins[r.superAdmin] = struct{}{}
	r.chats[chatID] = &next
	return nil
}

// ChatIDs returns every known chat id in ascending order.
func (r *Registry) ChatIDs() []int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.chats))
}

func (r *Registry) getOrCreateLocked(chatID int64) *ChatState {
	s, ok := r.chats[chatID]
	if !ok {
		s = newChatState(r.superAdmin)
		r.chats[chatID] = s
	}
	return s
}
