package bot

import (
	"strings"
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"github.com/planetban/hadirbot/internal/attendance"
	"github.com/planetban/hadirbot/internal/config"
	"github.com/planetban/hadirbot/internal/messages"
	"github.com/planetban/hadirbot/internal/notify"
	"github.com/planetban/hadirbot/internal/report"
	"github.com/planetban/hadirbot/internal/sentryutil"
)

type Bot struct {
	api      *tele.Bot
	cfg      config.Config
	log      *zap.Logger
	eval     *attendance.Evaluator
	reports  *report.Source
	notifier *notify.Notifier
	menu     *tele.ReplyMarkup
}

func New(cfg config.Config, log *zap.Logger) (*Bot, error) {
	bot, err := newBot(cfg, log)
	if err != nil {
		return nil, err
	}

	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		// one update at a time
		Synchronous: true,
		OnError:     bot.onError,
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, err
	}

	bot.api = b
	bot.notifier = notify.New(b, cfg.Developers, cfg.NotifyRate, log,
		notify.WithCapture(sentryutil.Capture))
	bot.register()
	return bot, nil
}

// newBot wires everything that does not talk to Telegram.
func newBot(cfg config.Config, log *zap.Logger) (*Bot, error) {
	window, err := attendance.NewWindow(cfg.OpenAt, cfg.CloseAt, cfg.Timezone)
	if err != nil {
		return nil, err
	}

	return &Bot{
		cfg:     cfg,
		log:     log,
		eval:    attendance.NewEvaluator(window, cfg.Passcode),
		reports: report.NewSource(cfg.ReportFile, window.Location),
		menu:    reportMenu(cfg.Reports),
	}, nil
}

func (b *Bot) Start() {
	b.log.Info("bot started", zap.String("username", b.api.Me.Username))
	b.api.Start()
}

func (b *Bot) Stop() {
	b.api.Stop()
}

func (b *Bot) register() {
	// must precede Handle: middleware is bound at registration
	b.api.Use(recoverPanic)

	b.api.Handle("/start", b.handleStart, b.hooks("/start", ""))
	b.api.Handle("/help", b.handleHelp, b.hooks("/help", ""))
	b.api.Handle("/laporan", b.handleLaporan, b.hooks("/laporan", ""))
	b.api.Handle("/hadir", b.handleHadir, b.hooks("/hadir", tele.Typing))
	b.api.Handle(&reportBtn, b.handleReportChoice, b.hooks("laporan:choice", tele.UploadingDocument))

	// Unregistered commands fall through to OnText
	b.api.Handle(tele.OnText, b.handleText, b.hooks("fallback", ""))
}

func (b *Bot) onError(err error, c tele.Context) {
	b.notifier.OnError(err, c)
}

func (b *Bot) handleStart(c tele.Context) error {
	return c.Send(messages.Render(messages.Start, messages.Params{}))
}

func (b *Bot) handleHelp(c tele.Context) error {
	return c.Send(messages.Render(messages.Help, messages.Params{}))
}

func (b *Bot) handleText(c tele.Context) error {
	msg := c.Message()
	if msg == nil || !strings.HasPrefix(msg.Text, "/") {
		return nil
	}
	return c.Send(messages.Render(messages.Unknown, messages.Params{}))
}
