package poll

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"sync"
	"testing"
	"time"
)

const testSuperAdmin int64 = 2073879359

type mockPersister struct {
	saves int
	last  Snapshot
	err   error
}

func (m *mockPersister) Save(ctx context.Context, snap Snapshot) error {
	m.saves++
	m.last = snap
	return m.err
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newTestService(t *testing.T, retention RetentionPolicy) (*Service, *mockPersister, *fakeClock) {
	t.Helper()
	store := &mockPersister{}
	// Wednesday
	clock := &fakeClock{now: time.Date(2025, 2, 5, 12, 0, 0, 0, time.UTC)}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(NewRegistry(testSuperAdmin), store, logger, Settings{
		Retention:    retention,
		EventWeekday: time.Monday,
		Now:          clock.Now,
	})
	return svc, store, clock
}

func TestService_EndToEnd(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t, RetainWeek)
	const chat int64 = -100

	st := svc.Chat(chat)
	if got := st.AdminIDs(); len(got) != 1 || got[0] != testSuperAdmin {
		t.Fatalf("new chat admins = %v, want [%d]", got, testSuperAdmin)
	}

	created, err := svc.CreatePoll(ctx, chat)
	if err != nil {
		t.Fatalf("CreatePoll failed: %v", err)
	}
	if created.CurrentPollID == "" {
		t.Fatal("expected poll id to be set")
	}

	votes := []struct {
		user int64
		opt  Option
	}{
		{1, OptionArriveFirst},
		{2, OptionArriveFirst},
		{3, OptionNotArriving},
	}
	for _, v := range votes {
		if _, err := svc.CastVote(ctx, chat, created.CurrentPollID, v.user, v.opt, "User", ""); err != nil {
			t.Fatalf("CastVote(%d) failed: %v", v.user, err)
		}
	}

	tally := svc.Tally(chat)
	want := map[Option]OptionTally{
		OptionArriveFirst:  {Option: OptionArriveFirst, Count: 2, Percent: 66.7},
		OptionArriveSecond: {Option: OptionArriveSecond, Count: 0, Percent: 0},
		OptionNotArriving:  {Option: OptionNotArriving, Count: 1, Percent: 33.3},
	}
	for o, w := range want {
		if got := tally.Get(o); got != w {
			t.Errorf("tally[%s] = %+v, want %+v", o, got, w)
		}
	}

	if err := svc.ClearVotes(ctx, chat); err != nil {
		t.Fatalf("ClearVotes failed: %v", err)
	}
	tally = svc.Tally(chat)
	if tally.Total != 0 {
		t.Errorf("total after clear = %d, want 0", tally.Total)
	}
	for _, row := range tally.Options {
		if row.Count != 0 || row.Percent != 0 {
			t.Errorf("row after clear = %+v, want zero", row)
		}
	}
	if got := svc.Chat(chat).CurrentPollID; got != created.CurrentPollID {
		t.Errorf("poll id after clear = %q, want %q", got, created.CurrentPollID)
	}

	// create + 3 votes + clear
	if store.saves != 5 {
		t.Errorf("saves = %d, want 5", store.saves)
	}
}

func TestService_LastVoteWins(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, RetainWeek)
	const chat int64 = -100

	p, _ := svc.CreatePoll(ctx, chat)
	for _, o := range []Option{OptionArriveFirst, OptionNotArriving, OptionArriveSecond} {
		if _, err := svc.CastVote(ctx, chat, p.CurrentPollID, 42, o, "Alice", "alice"); err != nil {
			t.Fatalf("CastVote failed: %v", err)
		}
	}

	tally := svc.Tally(chat)
	if tally.Total != 1 {
		t.Fatalf("total = %d, want 1", tally.Total)
	}
	if got := tally.Get(OptionArriveSecond).Count; got != 1 {
		t.Errorf("ARRIVE_SECOND count = %d, want 1", got)
	}
	if got := svc.Chat(chat).Votes[42].Option; got != OptionArriveSecond {
		t.Errorf("stored option = %q, want %q", got, OptionArriveSecond)
	}
}

func TestService_CastVote_NoActivePoll(t *testing.T) {
	svc, store, _ := newTestService(t, RetainWeek)

	_, err := svc.CastVote(context.Background(), -100, "", 1, OptionArriveFirst, "Alice", "")
	if !errors.Is(err, ErrNoActivePoll) {
		t.Fatalf("error = %v, want ErrNoActivePoll", err)
	}
	if store.saves != 0 {
		t.Errorf("saves = %d, want 0", store.saves)
	}
	if len(svc.Chat(-100).Votes) != 0 {
		t.Error("expected no votes recorded")
	}
}

func TestService_CastVote_StalePoll(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, RetainWeek)

	old, _ := svc.CreatePoll(ctx, -100)
	if _, err := svc.CreatePoll(ctx, -100); err != nil {
		t.Fatalf("CreatePoll failed: %v", err)
	}

	_, err := svc.CastVote(ctx, -100, old.CurrentPollID, 1, OptionArriveFirst, "Alice", "")
	if !errors.Is(err, ErrStalePoll) {
		t.Fatalf("error = %v, want ErrStalePoll", err)
	}
}

func TestService_CastVote_InvalidOption(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, RetainWeek)
	p, _ := svc.CreatePoll(ctx, -100)

	_, err := svc.CastVote(ctx, -100, p.CurrentPollID, 1, Option("7"), "Alice", "")
	if !errors.Is(err, ErrInvalidOption) {
		t.Fatalf("error = %v, want ErrInvalidOption", err)
	}
}

func TestService_CastVote_NormalizesHandle(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, RetainWeek)
	p, _ := svc.CreatePoll(ctx, -100)

	v, err := svc.CastVote(ctx, -100, p.CurrentPollID, 1, OptionArriveFirst, "Alice", "@alice")
	if err != nil {
		t.Fatalf("CastVote failed: %v", err)
	}
	if v.Handle != "alice" {
		t.Errorf("handle = %q, want alice", v.Handle)
	}
}

func TestService_CreatePoll_Retention(t *testing.T) {
	tests := []struct {
		name      string
		policy    RetentionPolicy
		advance   time.Duration
		wantVotes int
	}{
		{"week policy keeps votes in the same week", RetainWeek, 24 * time.Hour, 1},
		{"week policy clears votes in a new week", RetainWeek, 7 * 24 * time.Hour, 0},
		{"always policy keeps votes across weeks", RetainAlways, 14 * 24 * time.Hour, 1},
		{"never policy clears votes immediately", RetainNever, time.Minute, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			svc, _, clock := newTestService(t, tt.policy)

			p, _ := svc.CreatePoll(ctx, -100)
			if _, err := svc.CastVote(ctx, -100, p.CurrentPollID, 1, OptionArriveFirst, "Alice", ""); err != nil {
				t.Fatalf("CastVote failed: %v", err)
			}
			clock.now = clock.now.Add(tt.advance)

			next, err := svc.CreatePoll(ctx, -100)
			if err != nil {
				t.Fatalf("CreatePoll failed: %v", err)
			}
			if len(next.Votes) != tt.wantVotes {
				t.Errorf("votes after recreation = %d, want %d", len(next.Votes), tt.wantVotes)
			}
			if next.CurrentPollID == p.CurrentPollID {
				t.Error("expected a new poll id")
			}
		})
	}
}

func TestService_CreatePoll_KeepsAdmins(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, RetainNever)

	if err := svc.AddAdmin(ctx, -100, testSuperAdmin, 7); err != nil {
		t.Fatalf("AddAdmin failed: %v", err)
	}
	st, _ := svc.CreatePoll(ctx, -100)
	if !st.IsAdmin(7) {
		t.Error("expected admin 7 to survive poll creation")
	}
}

func TestService_PersistFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t, RetainWeek)
	store.err = errors.New("disk full")

	p, err := svc.CreatePoll(ctx, -100)
	if err != nil {
		t.Fatalf("CreatePoll should not fail on persistence error: %v", err)
	}
	if _, err := svc.CastVote(ctx, -100, p.CurrentPollID, 1, OptionArriveFirst, "Alice", ""); err != nil {
		t.Fatalf("CastVote should not fail on persistence error: %v", err)
	}
	if got := svc.Tally(-100).Total; got != 1 {
		t.Errorf("in-memory total = %d, want 1", got)
	}
}

func TestService_PreparePollLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newTestService(t, RetainWeek)

	p, err := svc.PreparePoll(-100)
	if err != nil {
		t.Fatalf("PreparePoll failed: %v", err)
	}
	if p.ID == "" || p.Tally.Total != 0 {
		t.Errorf("pending poll = %+v", p)
	}
	if ids := svc.ChatIDs(); len(ids) != 0 {
		t.Errorf("PreparePoll registered chats %v", ids)
	}

	old, _ := svc.CreatePoll(ctx, -100)
	_, _ = svc.CastVote(ctx, -100, old.CurrentPollID, 1, OptionArriveFirst, "Alice", "")
	saves := store.saves

	p, _ = svc.PreparePoll(-100)
	if got := svc.Chat(-100).CurrentPollID; got != old.CurrentPollID {
		t.Errorf("poll id after prepare = %q, want %q", got, old.CurrentPollID)
	}
	if p.Tally.Get(OptionArriveFirst).Count != 1 {
		t.Errorf("pending tally should show the retained vote: %+v", p.Tally)
	}
	if store.saves != saves {
		t.Error("PreparePoll persisted state")
	}
	if _, err := svc.CastVote(ctx, -100, old.CurrentPollID, 2, OptionNotArriving, "Bob", ""); err != nil {
		t.Errorf("vote on the current poll after prepare failed: %v", err)
	}
}

func TestService_ActivatePoll(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, RetainWeek)

	first, _ := svc.PreparePoll(-100)
	st, prev, err := svc.ActivatePoll(ctx, first, 10)
	if err != nil || prev != 0 {
		t.Fatalf("ActivatePoll = (%d, %v), want (0, nil)", prev, err)
	}
	if st.CurrentPollID != first.ID || st.PinnedMessageID != 10 {
		t.Errorf("activated state = %+v", st)
	}

	second, _ := svc.PreparePoll(-100)
	_, prev, _ = svc.ActivatePoll(ctx, second, 11)
	if prev != 10 {
		t.Errorf("previous pinned = %d, want 10", prev)
	}

	// CreatePoll keeps the pinned message.
	created, _ := svc.CreatePoll(ctx, -100)
	if created.PinnedMessageID != 11 {
		t.Errorf("pinned after CreatePoll = %d, want 11", created.PinnedMessageID)
	}
}

func TestService_ConcurrentVotes(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, RetainWeek)
	p, _ := svc.CreatePoll(ctx, -100)

	const voters = 200
	var wg sync.WaitGroup
	for i := 1; i <= voters; i++ {
		wg.Add(1)
		go func(user int64) {
			defer wg.Done()
			opt := Options[user%int64(len(Options))]
			if _, err := svc.CastVote(ctx, -100, p.CurrentPollID, user, opt, "User", ""); err != nil {
				t.Errorf("CastVote(%d) failed: %v", user, err)
			}
		}(int64(i))
	}
	wg.Wait()

	tally := svc.Tally(-100)
	if tally.Total != voters {
		t.Errorf("total = %d, want %d", tally.Total, voters)
	}
	sum := 0
	for _, row := range tally.Options {
		sum += row.Count
	}
	if sum != voters {
		t.Errorf("option counts sum to %d, want %d", sum, voters)
	}
}

func TestTally_PercentagesSumToHundred(t *testing.T) {
	for a := 0; a <= 7; a++ {
		for b := 0; b <= 7; b++ {
			for c := 0; c <= 7; c++ {
				votes := make(map[int64]Vote)
				id := int64(0)
				add := func(n int, o Option) {
					for i := 0; i < n; i++ {
						id++
						votes[id] = Vote{Option: o}
					}
				}
				add(a, OptionArriveFirst)
				add(b, OptionArriveSecond)
				add(c, OptionNotArriving)

				tally := computeTally(votes)
				sum := 0.0
				for _, row := range tally.Options {
					sum += row.Percent
				}
				if tally.Total == 0 {
					if sum != 0 {
						t.Errorf("empty tally percent sum = %v, want 0", sum)
					}
					continue
				}
				if math.Abs(sum-100) > 0.2 {
					t.Errorf("counts (%d,%d,%d): percent sum = %v, want ~100", a, b, c, sum)
				}
			}
		}
	}
}

func TestNextWeekday(t *testing.T) {
	wed := time.Date(2025, 2, 5, 15, 30, 0, 0, time.UTC)
	tests := []struct {
		target time.Weekday
		want   time.Time
	}{
		{time.Monday, time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC)},
		{time.Wednesday, time.Date(2025, 2, 12, 0, 0, 0, 0, time.UTC)},
		{time.Thursday, time.Date(2025, 2, 6, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		if got := NextWeekday(wed, tt.target); !got.Equal(tt.want) {
			t.Errorf("NextWeekday(wed, %v) = %v, want %v", tt.target, got, tt.want)
		}
	}
}

func TestParseRetentionPolicy(t *testing.T) {
	for in, want := range map[string]RetentionPolicy{"": RetainWeek, "week": RetainWeek, "always": RetainAlways, "never": RetainNever} {
		got, err := ParseRetentionPolicy(in)
		if err != nil || got != want {
			t.Errorf("ParseRetentionPolicy(%q) = (%q, %v), want %q", in, got, err, want)
		}
	}
	if _, err := ParseRetentionPolicy("sometimes"); err == nil {
		t.Error("expected error for unknown policy")
	}
}
