package bot

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"
)

// ErrPlatformCallFailed wraps every failed Telegram API call.
var ErrPlatformCallFailed = errors.New("telegram call failed")

// Platform is the subset of the Telegram API the bot drives.
type Platform interface {
	SendMessage(chatID int64, html string, markup *tele.ReplyMarkup) (int, error)
	// EditKeyboard replaces a message's inline keyboard. An unchanged
	// keyboard is not an error.
	EditKeyboard(chatID int64, messageID int, markup *tele.ReplyMarkup) error
	Pin(chatID int64, messageID int) error
	Unpin(chatID int64, messageID int) error
	// Restrict applies rights to a member until the given time; zero means forever.
	Restrict(chatID, userID int64, rights tele.Rights, until time.Time) error
	Ban(chatID, userID int64, until time.Time) error
	Unban(chatID, userID int64) error
}

// MessageRef builds an editable reference to a message in a chat.
func MessageRef(chatID int64, messageID int) *tele.Message {
	return &tele.Message{ID: messageID, Chat: &tele.Chat{ID: chatID}}
}

func isNotModifiedErr(err error) bool {
	return err != nil && strings.Contains(err.Error(), "message is not modified")
}

func platformErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPlatformCallFailed, op, err)
}

func untilUnix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

// telegram implements Platform on top of a telebot client.
type telegram struct {
	bot *tele.Bot
}

func (t *telegram) SendMessage(chatID int64, html string, markup *tele.ReplyMarkup) (int, error) {
	opts := []any{tele.ModeHTML}
	if markup != nil {
		opts = append(opts, markup)
	}
	msg, err := t.bot.Send(&tele.Chat{ID: chatID}, html, opts...)
	if err != nil {
		return 0, platformErr("send message", err)
	}
	return msg.ID, nil
}

func (t *telegram) EditKeyboard(chatID int64, messageID int, markup *tele.ReplyMarkup) error {
	if _, err := t.bot.EditReplyMarkup(MessageRef(chatID, messageID), markup); err != nil && !isNotModifiedErr(err) {
		return platformErr("edit keyboard", err)
	}
	return nil
}

func (t *telegram) Pin(chatID int64, messageID int) error {
	if err := t.bot.Pin(MessageRef(chatID, messageID), tele.Silent); err != nil {
		return platformErr("pin", err)
	}
	return nil
}

func (t *telegram) Unpin(chatID int64, messageID int) error {
	if err := t.bot.Unpin(&tele.Chat{ID: chatID}, messageID); err != nil {
		return platformErr("unpin", err)
	}
	return nil
}

func (t *telegram) Restrict(chatID, userID int64, rights tele.Rights, until time.Time) error {
	member := &tele.ChatMember{
		User:            &tele.User{ID: userID},
		Rights:          rights,
		RestrictedUntil: untilUnix(until),
	}
	if err := t.bot.Restrict(&tele.Chat{ID: chatID}, member); err != nil {
		return platformErr("restrict", err)
	}
	return nil
}

func (t *telegram) Ban(chatID, userID int64, until time.Time) error {
	member := &tele.ChatMember{
		User:            &tele.User{ID: userID},
		RestrictedUntil: untilUnix(until),
	}
	if err := t.bot.Ban(&tele.Chat{ID: chatID}, member); err != nil {
		return platformErr("ban", err)
	}
	return nil
}

func (t *telegram) Unban(chatID, userID int64) error {
	if err := t.bot.Unban(&tele.Chat{ID: chatID}, &tele.User{ID: userID}, true); err != nil {
		return platformErr("unban", err)
	}
	return nil
}
