package bot

import (
	"fmt"
	"time"

	tele "gopkg.in/telebot.v4"

	"nuclight.org/attendance/internal/duration"
)

// moderationTarget resolves the target and refuses to act on bot admins.
func (b *Bot) moderationTarget(c tele.Context) (*tele.User, []string, error) {
	target, rest, err := resolveTarget(c)
	if err != nil {
		return nil, nil, err
	}
	if b.service.IsAdmin(chatID(c), target.ID) {
		return nil, nil, UserErrorf(MsgCannotModerateAdmin)
	}
	return target, rest, nil
}

// Telegram treats restrictions shorter than 30 seconds or longer than 366
// days as permanent.
const (
	minRestriction = 30 * time.Second
	maxRestriction = 366 * 24 * time.Hour
)

// restrictionDuration parses a duration argument for a timed restriction.
func restrictionDuration(arg string) (time.Duration, error) {
	d, err := duration.Parse(arg)
	if err != nil {
		return 0, err
	}
	if d < minRestriction || d > maxRestriction {
		return 0, fmt.Errorf("%w: %s is outside the restriction range", duration.ErrInvalidDuration, arg)
	}
	return d, nil
}

func (b *Bot) logModeration(c tele.Context, action string, target *tele.User, d time.Duration) {
	b.logger.Info("moderation "+action,
		"user_id", senderID(c),
		"chat_id", chatID(c),
		"target_id", target.ID,
		"duration", d,
	)
}

func (b *Bot) handleMute(c tele.Context) error {
	target, rest, err := b.moderationTarget(c)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		return UserErrorf(MsgMuteUsage)
	}
	d, err := restrictionDuration(rest[0])
	if err != nil {
		return err
	}

	until := b.service.Now().Add(d)
	if err := b.platform.Restrict(chatID(c), target.ID, tele.NoRights(), until); err != nil {
		return WrapUserError(MsgFailedModerate, err)
	}
	b.logModeration(c, "mute", target, d)
	return c.Send(fmt.Sprintf(MsgFmtMuted, targetName(target), duration.Format(d)))
}

func (b *Bot) handleUnmute(c tele.Context) error {
	target, _, err := resolveTarget(c)
	if err != nil {
		return err
	}
	if err := b.platform.Restrict(chatID(c), target.ID, tele.NoRestrictions(), time.Time{}); err != nil {
		return WrapUserError(MsgFailedModerate, err)
	}
	b.logModeration(c, "unmute", target, 0)
	return c.Send(MsgUnmuted)
}

// handleBan bans for the given duration, or forever without one.
func (b *Bot) handleBan(c tele.Context) error {
	target, rest, err := b.moderationTarget(c)
	if err != nil {
		return err
	}

	var d time.Duration
	var until time.Time
	if len(rest) > 0 {
		if d, err = restrictionDuration(rest[0]); err != nil {
			return err
		}
		until = b.service.Now().Add(d)
	}

	if err := b.platform.Ban(chatID(c), target.ID, until); err != nil {
		return WrapUserError(MsgFailedModerate, err)
	}
	b.logModeration(c, "ban", target, d)
	if d == 0 {
		return c.Send(fmt.Sprintf(MsgFmtBannedForever, targetName(target)))
	}
	return c.Send(fmt.Sprintf(MsgFmtBanned, targetName(target), duration.Format(d)))
}

func (b *Bot) handleUnban(c tele.Context) error {
	target, _, err := resolveTarget(c)
	if err != nil {
		return err
	}
	if err := b.platform.Unban(chatID(c), target.ID); err != nil {
		return WrapUserError(MsgFailedModerate, err)
	}
	b.logModeration(c, "unban", target, 0)
	return c.Send(MsgUnbanned)
}

// handleKick removes the user without a lasting ban.
func (b *Bot) handleKick(c tele.Context) error {
	target, _, err := b.moderationTarget(c)
	if err != nil {
		return err
	}
	id := chatID(c)
	if err := b.platform.Ban(id, target.ID, time.Time{}); err != nil {
		return WrapUserError(MsgFailedModerate, err)
	}
	if err := b.platform.Unban(id, target.ID); err != nil {
		return WrapUserError(MsgFailedModerate, err)
	}
	b.logModeration(c, "kick", target, 0)
	return c.Send(fmt.Sprintf(MsgFmtKicked, targetName(target)))
}
