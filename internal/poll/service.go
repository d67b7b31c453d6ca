package poll

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Persister writes a full registry snapshot. Storage backends implement it.
type Persister interface {
	Save(ctx context.Context, snap Snapshot) error
}

// RetentionPolicy decides whether votes survive the creation of a new poll.
type RetentionPolicy string

const (
	// RetainWeek keeps votes when the previous poll was created in the same
	// ISO week and clears them otherwise.
	RetainWeek   RetentionPolicy = "week"
	RetainAlways RetentionPolicy = "always"
	RetainNever  RetentionPolicy = "never"
)

func ParseRetentionPolicy(s string) (RetentionPolicy, error) {
	switch p := RetentionPolicy(s); p {
	case RetainWeek, RetainAlways, RetainNever:
		return p, nil
	case "":
		return RetainWeek, nil
	default:
		return "", fmt.Errorf("unknown vote retention policy %q (want week, always or never)", s)
	}
}

type Settings struct {
	Retention RetentionPolicy
	// EventWeekday is the day of the week the poll asks about.
	EventWeekday time.Weekday
	// Now is the clock; time.Now when nil.
	Now func() time.Time
}

// Service is the poll engine. It owns the poll lifecycle of every chat and
// persists the registry after each mutation.
type Service struct {
	registry  *Registry
	store     Persister
	logger    *slog.Logger
	retention RetentionPolicy
	eventDay  time.Weekday
	now       func() time.Time
	newID     func() (string, error)

	saveMu sync.Mutex
}

func NewService(registry *Registry, store Persister, logger *slog.Logger, settings Settings) *Service {
	now := settings.Now
	if now == nil {
		now = time.Now
	}
	retention := settings.Retention
	if retention == "" {
		retention = RetainWeek
	}
	return &Service{
		registry:  registry,
		store:     store,
		logger:    logger,
		retention: retention,
		eventDay:  settings.EventWeekday,
		now:       now,
		newID:     newPollID,
	}
}

// newPollID returns a time-ordered UUID, unique across creations.
func newPollID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func (s *Service) Registry() *Registry {
	return s.registry
}

// Chat returns the chat's state, creating it on first access.
func (s *Service) Chat(chatID int64) ChatState {
	return s.registry.GetOrCreate(chatID)
}

// ChatIDs returns every known chat.
func (s *Service) ChatIDs() []int64 {
	return s.registry.ChatIDs()
}

// Now returns the service clock's current time.
func (s *Service) Now() time.Time {
	return s.now()
}

// NextEventDate returns the next occurrence of the event weekday, today excluded.
func (s *Service) NextEventDate() time.Time {
	return NextWeekday(s.now(), s.eventDay)
}

// NextWeekday returns the first date strictly after from that falls on target.
func NextWeekday(from time.Time, target time.Weekday) time.Time {
	days := int(target) - int(from.Weekday())
	if days <= 0 {
		days += 7
	}
	d := from.AddDate(0, 0, days)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}

// PendingPoll is a poll with an id that is not yet active in its chat.
// Tally is what the chat's keyboard will show once the poll is activated.
type PendingPoll struct {
	ChatID    int64
	ID        string
	CreatedAt time.Time
	Tally     Tally
}

// PreparePoll allocates a new poll for the chat without touching the chat's
// state. Activate it with ActivatePoll once its message is posted.
func (s *Service) PreparePoll(chatID int64) (PendingPoll, error) {
	id, err := s.newID()
	if err != nil {
		return PendingPoll{}, fmt.Errorf("generate poll id: %w", err)
	}
	now := s.now()

	p := PendingPoll{ChatID: chatID, ID: id, CreatedAt: now}
	st, ok := s.registry.Lookup(chatID)
	if ok && !s.shouldClearVotes(&st, now) {
		p.Tally = computeTally(st.Votes)
	} else {
		p.Tally = computeTally(nil)
	}
	return p, nil
}

// ActivatePoll makes p the chat's current poll, applying the retention policy.
// A non-zero messageID becomes the pinned poll message; the previously pinned
// message is returned (0 if none or unchanged).
func (s *Service) ActivatePoll(ctx context.Context, p PendingPoll, messageID int) (ChatState, int, error) {
	var (
		activated ChatState
		previous  int
	)
	err := s.registry.Update(p.ChatID, func(st *ChatState) error {
		if s.shouldClearVotes(st, p.CreatedAt) {
			st.Votes = make(map[int64]Vote)
		}
		st.CurrentPollID = p.ID
		st.PollCreatedAt = p.CreatedAt
		if messageID != 0 {
			if st.PinnedMessageID != messageID {
				previous = st.PinnedMessageID
			}
			st.PinnedMessageID = messageID
		}
		activated = st.Clone()
		return nil
	})
	if err != nil {
		return ChatState{}, 0, err
	}

	s.persist(ctx)
	return activated, previous, nil
}

// CreatePoll starts a new poll in the chat, replacing the current one.
// Admins and the pinned message are untouched; votes are kept or cleared per
// the retention policy.
func (s *Service) CreatePoll(ctx context.Context, chatID int64) (ChatState, error) {
	p, err := s.PreparePoll(chatID)
	if err != nil {
		return ChatState{}, err
	}
	st, _, err := s.ActivatePoll(ctx, p, 0)
	return st, err
}

func (s *Service) shouldClearVotes(st *ChatState, now time.Time) bool {
	switch s.retention {
	case RetainAlways:
		return false
	case RetainNever:
		return true
	default:
		if st.PollCreatedAt.IsZero() {
			return true
		}
		py, pw := st.PollCreatedAt.In(now.Location()).ISOWeek()
		ny, nw := now.ISOWeek()
		return py != ny || pw != nw
	}
}

// CastVote records userID's answer, overwriting any previous one.
// pollID is the poll the button belongs to; an empty pollID skips the check.
func (s *Service) CastVote(ctx context.Context, chatID int64, pollID string, userID int64, option Option, displayName, handle string) (Vote, error) {
	if !option.Valid() {
		return Vote{}, fmt.Errorf("%w: %q", ErrInvalidOption, option)
	}

	v := Vote{
		Option:      option,
		DisplayName: displayName,
		Handle:      NormalizeHandle(handle),
		CastAt:      s.now(),
	}
	err := s.registry.Update(chatID, func(st *ChatState) error {
		if !st.HasPoll() {
			return ErrNoActivePoll
		}
		if pollID != "" && pollID != st.CurrentPollID {
			return ErrStalePoll
		}
		st.Votes[userID] = v
		return nil
	})
	if err != nil {
		return Vote{}, err
	}

	s.persist(ctx)
	return v, nil
}

// ClearVotes empties the chat's votes and keeps the current poll.
func (s *Service) ClearVotes(ctx context.Context, chatID int64) error {
	err := s.registry.Update(chatID, func(st *ChatState) error {
		st.Votes = make(map[int64]Vote)
		return nil
	})
	if err != nil {
		return err
	}
	s.persist(ctx)
	return nil
}

// Tally counts the chat's current votes.
func (s *Service) Tally(chatID int64) Tally {
	st := s.registry.GetOrCreate(chatID)
	return computeTally(st.Votes)
}

func (s *Service) ResultsText(chatID int64) (string, error) {
	return RenderResultsText(s.NextEventDate(), s.Tally(chatID))
}

func (s *Service) VotersText(chatID int64) (string, error) {
	st := s.registry.GetOrCreate(chatID)
	return RenderVotersText(s.NextEventDate(), st.Votes)
}

func (s *Service) StatsText(chatID int64) (string, error) {
	st := s.registry.GetOrCreate(chatID)
	return RenderStatsText(s.NextEventDate(), st.Votes)
}

func (s *Service) PollText() (string, error) {
	return RenderPollText(s.NextEventDate())
}

// persist writes the current registry. Failures are logged and swallowed;
// the in-memory state stays authoritative until the next successful write.
func (s *Service) persist(ctx context.Context) {
	if s.store == nil {
		return
	}
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	// Snapshot after taking saveMu so the last writer always writes the newest state.
	if err := s.store.Save(ctx, s.registry.Snapshot()); err != nil {
		s.logger.Error("failed to persist state", "error", fmt.Errorf("%w: %w", ErrPersistenceWriteFailed, err))
	}
}
