package poll

import (
	"maps"
	"slices"
	"time"
)

// ChatState is everything the bot keeps for one chat.
type ChatState struct {
	Admins          map[int64]struct{}
	CurrentPollID   string
	PollCreatedAt   time.Time
	PinnedMessageID int
	Votes           map[int64]Vote
}

func newChatState(superAdmin int64) *ChatState {
	return &ChatState{
		Admins: map[int64]struct{}{superAdmin: {}},
		Votes:  make(map[int64]Vote),
	}
}

// HasPoll reports whether the chat is in the PollActive state.
func (s ChatState) HasPoll() bool {
	return s.CurrentPollID != ""
}

// IsAdmin reports whether userID is in the chat's admin set.
func (s ChatState) IsAdmin(userID int64) bool {
	_, ok := s.Admins[userID]
	return ok
}

// AdminIDs returns the admin set in ascending order.
func (s ChatState) AdminIDs() []int64 {
	return slices.Sorted(maps.Keys(s.Admins))
}

// Clone returns a deep copy so callers never share maps with the registry.
func (s ChatState) Clone() ChatState {
	c := s
	c.Admins = maps.Clone(s.Admins)
	c.Votes = maps.Clone(s.Votes)
	if c.Admins == nil {
		c.Admins = make(map[int64]struct{})
	}
	if c.Votes == nil {
		c.Votes = make(map[int64]Vote)
	}
	return c
}
