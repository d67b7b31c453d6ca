package bot

import (
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v4"

	"nuclight.org/attendance/internal/poll"
)

// handleVoteButton records the presser's vote and refreshes the counts on
// the message the button belongs to.
func (b *Bot) handleVoteButton(c tele.Context) error {
	option, pollID, err := parseVoteData(c.Callback().Data)
	if err != nil {
		return err
	}
	return b.castVote(c, option, pollID)
}

func (b *Bot) castVote(c tele.Context, option poll.Option, pollID string) error {
	cb := c.Callback()
	id := chatID(c)
	user := c.Sender()
	v, err := b.service.CastVote(b.ctx, id, pollID, user.ID, option, fullName(user), user.Username)
	if err != nil {
		return err
	}

	b.logger.Info("vote recorded",
		"user_id", user.ID,
		"username", user.Username,
		"chat_id", id,
		"option", v.Option.Label(),
	)

	st := b.service.Chat(id)
	if cb.Message != nil {
		markup := pollKeyboard(st.CurrentPollID, b.service.Tally(id))
		if err := b.platform.EditKeyboard(id, cb.Message.ID, markup); err != nil {
			b.logger.Warn("failed to update poll keyboard", "chat_id", id, "error", err)
		}
	}

	return c.Respond(&tele.CallbackResponse{Text: fmt.Sprintf(MsgFmtVoteRecorded, v.Option.Label())})
}

// handleAdminButton runs an admin panel action. AdminOnly guards it.
func (b *Bot) handleAdminButton(c tele.Context) error {
	return b.runAdminAction(c, c.Callback().Data)
}

func (b *Bot) runAdminAction(c tele.Context, action string) error {
	id := chatID(c)

	b.logger.Info("admin action",
		"user_id", senderID(c),
		"chat_id", id,
		"action", action,
	)

	switch action {
	case adminStats:
		if err := b.requirePoll(id); err != nil {
			return err
		}
		text, err := b.service.StatsText(id)
		if err != nil {
			return WrapUserError(MsgFailedRender, err)
		}
		if err := c.Send(text, tele.ModeHTML); err != nil {
			return err
		}
		return c.Respond()

	case adminRefresh:
		if err := b.refreshKeyboard(id); err != nil {
			return err
		}
		return c.Respond(&tele.CallbackResponse{Text: MsgPollRefreshed})

	case adminClear:
		if err := b.service.ClearVotes(b.ctx, id); err != nil {
			return err
		}
		if err := b.refreshKeyboard(id); err != nil {
			b.logger.Warn("failed to refresh keyboard after clear", "chat_id", id, "error", err)
		}
		return c.Respond(&tele.CallbackResponse{Text: MsgVotesCleared})

	case adminCreate:
		if err := b.PublishPoll(b.ctx, id); err != nil {
			return err
		}
		return c.Respond(&tele.CallbackResponse{Text: MsgPollCreated})

	default:
		return UserErrorf(MsgAdminActionFail)
	}
}

// legacyAdminActions maps the admin callbacks of keyboards posted before
// buttons carried an endpoint.
var legacyAdminActions = map[string]string{
	"full_stats": adminStats,
	"refresh":    adminRefresh,
	"clear":      adminClear,
	"create_now": adminCreate,
}

// handleLegacyCallback serves plain "vote_<option>" and "admin_<action>"
// buttons still attached to old poll messages.
func (b *Bot) handleLegacyCallback(c tele.Context) error {
	data := c.Callback().Data
	if code, ok := strings.CutPrefix(data, "vote_"); ok {
		option, err := poll.ParseOption(code)
		if err != nil {
			return err
		}
		return b.castVote(c, option, "")
	}
	if name, ok := strings.CutPrefix(data, "admin_"); ok {
		action, known := legacyAdminActions[name]
		if !known {
			return UserErrorf(MsgAdminActionFail)
		}
		if err := b.service.RequireAdmin(chatID(c), senderID(c)); err != nil {
			return err
		}
		return b.runAdminAction(c, action)
	}
	return c.Respond()
}

func fullName(u *tele.User) string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
