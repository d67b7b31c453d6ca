package bot

import (
	"context"
	"log/slog"
	"time"

	tele "gopkg.in/telebot.v4"

	"nuclight.org/attendance/internal/poll"
	"nuclight.org/attendance/internal/schedule"
)

type Bot struct {
	bot      *tele.Bot
	platform Platform
	service  *poll.Service
	logger   *slog.Logger
	info     Info

	ctx context.Context
}

// Info describes the running deployment for /status.
type Info struct {
	Schedule schedule.Weekly
	Backend  string
}

func New(token string, service *poll.Service, logger *slog.Logger, info Info) (*Bot, error) {
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			logger.Error("unhandled update error", "error", err)
		},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, err
	}

	bot := newBot(&telegram{bot: b}, service, logger, info)
	bot.bot = b
	return bot, nil
}

func newBot(platform Platform, service *poll.Service, logger *slog.Logger, info Info) *Bot {
	return &Bot{
		platform: platform,
		service:  service,
		logger:   logger,
		info:     info,
		ctx:      context.Background(),
	}
}

// Start polls for updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) {
	b.ctx = ctx
	go func() {
		<-ctx.Done()
		b.bot.Stop()
	}()

	b.logger.Info("bot started", "username", b.bot.Me.Username)
	b.bot.Start()
}
