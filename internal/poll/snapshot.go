package poll

import (
	"maps"
	"time"
)

// Snapshot is the serializable form of a Registry. Storage backends read and
// write it as a whole.
type Snapshot struct {
	Chats map[int64]ChatSnapshot `json:"chats"`
}

type ChatSnapshot struct {
	Admins          []int64        `json:"admins"`
	CurrentPollID   string         `json:"current_poll_id,omitempty"`
	PollCreatedAt   time.Time      `json:"poll_created_at,omitzero"`
	PinnedMessageID int            `json:"pinned_message_id,omitempty"`
	Votes           map[int64]Vote `json:"votes"`
}

// Snapshot copies every chat into its serializable form.
func (r *Registry) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := Snapshot{Chats: make(map[int64]ChatSnapshot, len(r.chats))}
	for id, s := range r.chats {
		votes := maps.Clone(s.Votes)
		if votes == nil {
			votes = make(map[int64]Vote)
		}
		snap.Chats[id] = ChatSnapshot{
			Admins:          s.AdminIDs(),
			CurrentPollID:   s.CurrentPollID,
			PollCreatedAt:   s.PollCreatedAt,
			PinnedMessageID: s.PinnedMessageID,
			Votes:           votes,
		}
	}
	return snap
}

// Restore replaces the registry contents with snap. The super-admin is added
// to every chat that lacks it, and votes with unknown options are dropped.
// It returns the number of dropped votes.
func (r *Registry) Restore(snap Snapshot) int {
	chats := make(map[int64]*ChatState, len(snap.Chats))
	dropped := 0
	for id, cs := range snap.Chats {
		s := newChatState(r.superAdmin)
		for _, admin := range cs.Admins {
			s.Admins[admin] = struct{}{}
		}
		s.CurrentPollID = cs.CurrentPollID
		s.PollCreatedAt = cs.PollCreatedAt
		s.PinnedMessageID = cs.PinnedMessageID
		for userID, v := range cs.Votes {
			if !v.Option.Valid() {
				dropped++
				continue
			}
			s.Votes[userID] = v
		}
		chats[id] = s
	}

	r.mu.Lock()
	r.chats = chats
	r.mu.Unlock()
	return dropped
}
