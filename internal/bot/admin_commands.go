package bot

import (
	tele "gopkg.in/telebot.v4"
)

type adminRow struct {
	ID    int64
	Super bool
}

func (b *Bot) handleAdmins(c tele.Context) error {
	ids := b.service.Admins(chatID(c))
	rows := make([]adminRow, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, adminRow{ID: id, Super: b.service.IsSuperAdmin(id)})
	}

	text, err := renderTemplate("admins", rows)
	if err != nil {
		return err
	}
	return c.Send(text, tele.ModeHTML)
}

func (b *Bot) handleAddAdmin(c tele.Context) error {
	target, _, err := resolveTarget(c)
	if err != nil {
		return err
	}
	if err := b.service.AddAdmin(b.ctx, chatID(c), senderID(c), target.ID); err != nil {
		return err
	}

	b.logger.Info("admin added",
		"user_id", senderID(c),
		"chat_id", chatID(c),
		"target_id", target.ID,
	)
	return c.Send(MsgAdminAdded)
}

func (b *Bot) handleRemoveAdmin(c tele.Context) error {
	target, _, err := resolveTarget(c)
	if err != nil {
		return err
	}
	if err := b.service.RemoveAdmin(b.ctx, chatID(c), senderID(c), target.ID); err != nil {
		return err
	}

	b.logger.Info("admin removed",
		"user_id", senderID(c),
		"chat_id", chatID(c),
		"target_id", target.ID,
	)
	return c.Send(MsgAdminRemoved)
}
