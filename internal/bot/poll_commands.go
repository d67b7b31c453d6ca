package bot

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	tele "gopkg.in/telebot.v4"

	"nuclight.org/attendance/internal/poll"
)

// PublishPoll posts a new poll with the voting keyboard, activates it and
// moves the pin from the previous poll message to the new one. When the post
// fails the chat keeps its current poll and votes.
func (b *Bot) PublishPoll(ctx context.Context, chatID int64) error {
	pending, err := b.service.PreparePoll(chatID)
	if err != nil {
		return fmt.Errorf("prepare poll: %w", err)
	}

	text, err := b.service.PollText()
	if err != nil {
		return WrapUserError(MsgFailedRender, err)
	}

	msgID, err := b.platform.SendMessage(chatID, text, pollKeyboard(pending.ID, pending.Tally))
	if err != nil {
		return WrapUserError(MsgFailedSendPoll, err)
	}

	st, prev, err := b.service.ActivatePoll(ctx, pending, msgID)
	if err != nil {
		return fmt.Errorf("activate poll: %w", err)
	}
	// Votes cast between posting and activation are not on the keyboard yet.
	if tally := b.service.Tally(chatID); !slices.Equal(tally.Options, pending.Tally.Options) {
		if err := b.refreshKeyboard(chatID); err != nil {
			b.logger.Warn("failed to refresh new poll keyboard", "chat_id", chatID, "error", err)
		}
	}

	if prev != 0 {
		if err := b.platform.Unpin(chatID, prev); err != nil {
			b.logger.Warn("failed to unpin previous poll", "chat_id", chatID, "message_id", prev, "error", err)
		}
	}
	if err := b.platform.Pin(chatID, msgID); err != nil {
		b.logger.Warn("failed to pin poll", "chat_id", chatID, "message_id", msgID, "error", err)
	}

	b.logger.Info("poll published", "chat_id", chatID, "poll_id", st.CurrentPollID, "message_id", msgID)
	return nil
}

// PublishMissing publishes a poll in every known chat that has none.
func (b *Bot) PublishMissing(ctx context.Context) error {
	var errs []error
	for _, id := range b.service.ChatIDs() {
		if b.service.Chat(id).HasPoll() {
			continue
		}
		if err := b.PublishPoll(ctx, id); err != nil {
			b.logger.Error("initial poll failed", "chat_id", id, "error", err)
			errs = append(errs, fmt.Errorf("chat %d: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

// PublishAll publishes a new poll in every known chat. A failure in one chat
// does not stop the others.
func (b *Bot) PublishAll(ctx context.Context) error {
	var errs []error
	for _, id := range b.service.ChatIDs() {
		if err := b.PublishPoll(ctx, id); err != nil {
			b.logger.Error("scheduled poll failed", "chat_id", id, "error", err)
			errs = append(errs, fmt.Errorf("chat %d: %w", id, err))
		}
	}
	return errors.Join(errs...)
}

// refreshKeyboard re-renders the live counts on the chat's poll message.
func (b *Bot) refreshKeyboard(chatID int64) error {
	st := b.service.Chat(chatID)
	if !st.HasPoll() {
		return poll.ErrNoActivePoll
	}
	if st.PinnedMessageID == 0 {
		return UserErrorf(MsgPollMessageMissing)
	}
	if err := b.platform.EditKeyboard(chatID, st.PinnedMessageID, pollKeyboard(st.CurrentPollID, b.service.Tally(chatID))); err != nil {
		return WrapUserError(MsgFailedRefresh, err)
	}
	return nil
}

func (b *Bot) requirePoll(chatID int64) error {
	if !b.service.Chat(chatID).HasPoll() {
		return poll.ErrNoActivePoll
	}
	return nil
}

func (b *Bot) logCommand(c tele.Context, command string) {
	b.logger.Info("command "+command,
		"user_id", senderID(c),
		"username", c.Sender().Username,
		"chat_id", chatID(c),
	)
}

func (b *Bot) handleStart(c tele.Context) error {
	b.logCommand(c, "/start")

	text, err := renderTemplate("start", struct {
		Weekday string
		Time    string
	}{poll.WeekdayRussian(b.info.Schedule.Weekday), b.info.Schedule.Clock()})
	if err != nil {
		return err
	}
	if err := c.Send(text, tele.ModeHTML); err != nil {
		return err
	}
	return b.PublishPoll(b.ctx, chatID(c))
}

func (b *Bot) handlePoll(c tele.Context) error {
	b.logCommand(c, "/poll")
	return b.PublishPoll(b.ctx, chatID(c))
}

// weekdayOn is "on <weekday>" in Russian, e.g. "в понедельник".
var weekdayOn = map[time.Weekday]string{
	time.Sunday:    "в воскресенье",
	time.Monday:    "в понедельник",
	time.Tuesday:   "во вторник",
	time.Wednesday: "в среду",
	time.Thursday:  "в четверг",
	time.Friday:    "в пятницу",
	time.Saturday:  "в субботу",
}

func (b *Bot) handleAttendance(c tele.Context) error {
	b.logCommand(c, "/attendance")
	if b.service.Chat(chatID(c)).HasPoll() {
		return c.Send(MsgPollAlreadyActive)
	}
	sched := b.info.Schedule
	return c.Send(fmt.Sprintf(MsgFmtNoPollYet, weekdayOn[sched.Weekday], sched.Clock()))
}

func (b *Bot) handleRefresh(c tele.Context) error {
	b.logCommand(c, "/refresh")
	if err := b.refreshKeyboard(chatID(c)); err != nil {
		return err
	}
	return c.Send(MsgPollRefreshed)
}

func (b *Bot) handleClear(c tele.Context) error {
	b.logCommand(c, "/clear")
	id := chatID(c)
	if err := b.service.ClearVotes(b.ctx, id); err != nil {
		return err
	}
	if err := b.refreshKeyboard(id); err != nil {
		b.logger.Warn("failed to refresh keyboard after clear", "chat_id", id, "error", err)
	}
	return c.Send(MsgVotesCleared)
}

func (b *Bot) handleResults(c tele.Context) error {
	return b.sendReport(c, b.service.ResultsText)
}

func (b *Bot) handleVoters(c tele.Context) error {
	return b.sendReport(c, b.service.VotersText)
}

func (b *Bot) handleStats(c tele.Context) error {
	return b.sendReport(c, b.service.StatsText)
}

func (b *Bot) sendReport(c tele.Context, render func(int64) (string, error)) error {
	id := chatID(c)
	if err := b.requirePoll(id); err != nil {
		return err
	}
	text, err := render(id)
	if err != nil {
		return WrapUserError(MsgFailedRender, err)
	}
	return c.Send(text, tele.ModeHTML)
}

func (b *Bot) handleStatus(c tele.Context) error {
	id := chatID(c)
	st := b.service.Chat(id)
	sched := b.info.Schedule

	text, err := renderTemplate("status", struct {
		Weekday   string
		Time      string
		Zone      string
		NextRun   string
		EventDate string
		HasPoll   bool
		Votes     int
		Admins    int
		Backend   string
	}{
		Weekday:   poll.WeekdayRussian(sched.Weekday),
		Time:      sched.Clock(),
		Zone:      sched.Zone(),
		NextRun:   sched.Next(b.service.Now()).Format("02.01.2006 15:04"),
		EventDate: poll.FormatDateRussian(b.service.NextEventDate()),
		HasPoll:   st.HasPoll(),
		Votes:     len(st.Votes),
		Admins:    len(st.Admins),
		Backend:   b.info.Backend,
	})
	if err != nil {
		return err
	}
	return c.Send(text, tele.ModeHTML)
}

func (b *Bot) handleAdminPanel(c tele.Context) error {
	st := b.service.Chat(chatID(c))
	text, err := renderTemplate("panel", struct {
		EventDate string
		Votes     int
	}{poll.FormatDateRussian(b.service.NextEventDate()), len(st.Votes)})
	if err != nil {
		return err
	}
	return c.Send(text, tele.ModeHTML, adminPanelKeyboard())
}
