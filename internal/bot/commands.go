package bot

import (
	"strconv"

	tele "gopkg.in/telebot.v4"
)

var commandMenu = []tele.Command{
	{Text: "poll", Description: "Создать голосование"},
	{Text: "attendance", Description: "Текущее голосование"},
	{Text: "results", Description: "Результаты"},
	{Text: "voters", Description: "Кто как голосовал"},
	{Text: "stats", Description: "Полная статистика"},
	{Text: "admin", Description: "Панель управления"},
	{Text: "status", Description: "Статус бота"},
	{Text: "id", Description: "Показать свой ID"},
	{Text: "help", Description: "Список команд"},
}

// RegisterCommands sets up public commands, admin-only commands and buttons.
func (b *Bot) RegisterCommands() {
	public := b.bot.Group()
	public.Use(b.HandleErrors())
	public.Handle("/id", b.handleID)
	public.Handle("/amiadmin", b.handleAmIAdmin)
	public.Handle("/help", b.handleHelp)
	public.Handle(voteBtn, b.handleVoteButton)
	public.Handle(tele.OnCallback, b.handleLegacyCallback)

	admin := b.bot.Group()
	admin.Use(b.HandleErrors(), b.AdminOnly())
	admin.Handle("/start", b.handleStart)
	admin.Handle("/poll", b.handlePoll)
	admin.Handle("/attendance", b.handleAttendance)
	admin.Handle("/refresh", b.handleRefresh)
	admin.Handle("/clear", b.handleClear)
	admin.Handle("/results", b.handleResults)
	admin.Handle("/voters", b.handleVoters)
	admin.Handle("/stats", b.handleStats)
	admin.Handle("/status", b.handleStatus)
	admin.Handle("/admin", b.handleAdminPanel)
	admin.Handle("/admins", b.handleAdmins)
	admin.Handle("/addadmin", b.handleAddAdmin)
	admin.Handle("/removeadmin", b.handleRemoveAdmin)
	admin.Handle(adminBtn, b.handleAdminButton)

	moderation := b.bot.Group()
	moderation.Use(b.HandleErrors(), b.GroupOnly(), b.AdminOnly())
	moderation.Handle("/mute", b.handleMute)
	moderation.Handle("/unmute", b.handleUnmute)
	moderation.Handle("/ban", b.handleBan)
	moderation.Handle("/unban", b.handleUnban)
	moderation.Handle("/kick", b.handleKick)

	if err := b.bot.SetCommands(commandMenu); err != nil {
		b.logger.Warn("failed to set command menu", "error", err)
	}
}

func (b *Bot) handleID(c tele.Context) error {
	u := c.Sender()
	text, err := renderTemplate("whoami", struct {
		ID       int64
		Name     string
		Username string
		ChatID   int64
	}{u.ID, fullName(u), u.Username, chatID(c)})
	if err != nil {
		return err
	}
	return c.Send(text, tele.ModeHTML)
}

func (b *Bot) handleAmIAdmin(c tele.Context) error {
	if b.service.IsAdmin(chatID(c), senderID(c)) {
		return c.Send(MsgYouAreAdmin)
	}
	return c.Send(MsgYouAreNotAdmin)
}

func (b *Bot) handleHelp(c tele.Context) error {
	return c.Send(HelpMessage(), tele.ModeHTML)
}

// resolveTarget finds the user a command acts on: the author of the replied
// message, or a numeric id in the first argument. It returns the remaining
// arguments.
func resolveTarget(c tele.Context) (*tele.User, []string, error) {
	args := c.Args()
	if msg := c.Message(); msg != nil && msg.ReplyTo != nil && msg.ReplyTo.Sender != nil {
		return msg.ReplyTo.Sender, args, nil
	}
	if len(args) == 0 {
		return nil, nil, UserErrorf(MsgTargetRequired)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id == 0 {
		return nil, nil, UserErrorf(MsgInvalidUserID)
	}
	return &tele.User{ID: id}, args[1:], nil
}

// targetName is how moderation replies refer to the user.
func targetName(u *tele.User) string {
	if u.Username != "" {
		return "@" + u.Username
	}
	if name := fullName(u); name != "" {
		return name
	}
	return strconv.FormatInt(u.ID, 10)
}
