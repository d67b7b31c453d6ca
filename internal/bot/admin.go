package bot

import (
	tele "gopkg.in/telebot.v4"
)

// AdminOnly rejects senders who are not bot admins of the chat.
// It must run inside HandleErrors so the rejection reaches the user.
func (b *Bot) AdminOnly() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if err := b.service.RequireAdmin(chatID(c), senderID(c)); err != nil {
				b.logger.Warn("rejected privileged action",
					"user_id", senderID(c),
					"chat_id", chatID(c),
				)
				return err
			}
			return next(c)
		}
	}
}

// GroupOnly rejects commands sent in private chats.
func (b *Bot) GroupOnly() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if ch := c.Chat(); ch == nil || ch.Type == tele.ChatPrivate {
				return UserErrorf(MsgGroupOnly)
			}
			return next(c)
		}
	}
}
