// Package bot runs the Telegram admin bot: it receives the approve/reject
// buttons sent by the notifier and answers a few read-only commands.
package bot

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	tele "gopkg.in/telebot.v3"

	"taxifrota/config"
	"taxifrota/pkg/logger"
	"taxifrota/pkg/models"
	"taxifrota/pkg/notify"
	"taxifrota/service"
	"taxifrota/storage"
)

const pendingListLimit = 10

type Bot struct {
	Bot    *tele.Bot
	Log    logger.ILogger
	Svc    service.IServiceManager
	admins map[int64]bool
}

var messages = map[string]string{
	"no_entry":        "🚫 Este bot é restrito à equipe da frota.",
	"menu":            "🛠 Painel da frota\n\n/pendentes - solicitações aguardando análise\n/resumo - números do painel",
	"no_pending":      "📭 Nenhuma solicitação pendente.",
	"not_found":       "Registro não encontrado.",
	"bad_transition":  "Este registro já foi decidido.",
	"failed":          "Erro ao atualizar. Tente pelo painel.",
	"app_approved":    "✅ Solicitação aprovada por %s",
	"app_rejected":    "❌ Solicitação reprovada por %s",
	"driver_approved": "✅ Motorista ativado por %s",
	"driver_rejected": "❌ Motorista recusado por %s",
	"stats": "📊 RESUMO\n\nMotoristas: %d (%d%% ativos)\nSolicitações: %d (%d%% pendentes)\n" +
		"Avaliações: %d (média %.1f)\nLocações: %d",
}

// Connect creates the Telegram client. The notifier and the admin bot share
// it, so it is built before the services.
func Connect(cfg *config.Config, log logger.ILogger) (*tele.Bot, error) {
	return tele.NewBot(tele.Settings{
		Token:  cfg.AdminBotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			log.Error("telegram handler failed", logger.Error(err))
		},
	})
}

// New registers the admin handlers on tb. Polling starts with Start.
func New(tb *tele.Bot, adminIDs []int64, svc service.IServiceManager, log logger.ILogger) *Bot {
	admins := make(map[int64]bool, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = true
	}
	bot := &Bot{Bot: tb, Log: log, Svc: svc, admins: admins}
	bot.registerHandlers()
	return bot
}

func (b *Bot) Start() {
	b.Log.Info("🤖 admin bot started")
	b.Bot.Start()
}

func (b *Bot) Stop() {
	b.Bot.Stop()
}

func (b *Bot) registerHandlers() {
	b.Bot.Use(b.adminOnly)

	b.Bot.Handle("/start", b.handleStart)
	b.Bot.Handle("/pendentes", b.handlePending)
	b.Bot.Handle("/pending", b.handlePending)
	b.Bot.Handle("/resumo", b.handleStats)

	b.Bot.Handle(&tele.InlineButton{Unique: notify.UniqueApproveApplication}, b.applicationDecision(models.ApplicationApproved))
	b.Bot.Handle(&tele.InlineButton{Unique: notify.UniqueRejectApplication}, b.applicationDecision(models.ApplicationRejected))
	b.Bot.Handle(&tele.InlineButton{Unique: notify.UniqueApproveDriver}, b.driverDecision(models.DriverActive))
	b.Bot.Handle(&tele.InlineButton{Unique: notify.UniqueRejectDriver}, b.driverDecision(models.DriverInactive))
}

// adminOnly drops updates from chats outside ADMIN_CHAT_IDS.
func (b *Bot) adminOnly(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if !b.isAdmin(c) {
			if c.Callback() != nil {
				return c.Respond(&tele.CallbackResponse{Text: messages["no_entry"], ShowAlert: true})
			}
			return c.Send(messages["no_entry"])
		}
		return next(c)
	}
}

func (b *Bot) isAdmin(c tele.Context) bool {
	if chat := c.Chat(); chat != nil && b.admins[chat.ID] {
		return true
	}
	if sender := c.Sender(); sender != nil && b.admins[sender.ID] {
		return true
	}
	return false
}

func (b *Bot) handleStart(c tele.Context) error {
	return c.Send(messages["menu"])
}

func (b *Bot) handlePending(c tele.Context) error {
	apps, err := b.awaitingDecision(context.Background())
	if err != nil {
		b.Log.Error("failed to list pending applications", logger.Error(err))
		return c.Send(messages["failed"])
	}
	if len(apps) == 0 {
		return c.Send(messages["no_pending"])
	}
	if len(apps) > pendingListLimit {
		apps = apps[:pendingListLimit]
	}
	for _, app := range apps {
		markup := notify.ReviewMarkup(notify.UniqueApproveApplication, notify.UniqueRejectApplication, app.ID)
		if err := c.Send(notify.ApplicationMessage(app), markup, tele.ModeHTML); err != nil {
			return err
		}
	}
	return nil
}

// awaitingDecision lists every application that can still be approved or
// rejected, oldest first.
func (b *Bot) awaitingDecision(ctx context.Context) ([]*models.Application, error) {
	var apps []*models.Application
	for _, status := range []models.ApplicationStatus{
		models.ApplicationPending,
		models.ApplicationWaiting,
		models.ApplicationReanalysis,
	} {
		found, err := b.Svc.Application().List(ctx, service.ApplicationFilter{Status: status, Asc: true})
		if err != nil {
			return nil, err
		}
		apps = append(apps, found...)
	}
	sort.SliceStable(apps, func(i, j int) bool { return apps[i].CreatedAt.Before(apps[j].CreatedAt) })
	return apps, nil
}

func (b *Bot) handleStats(c tele.Context) error {
	stats, err := b.Svc.Dashboard().Stats(context.Background())
	if err != nil {
		b.Log.Error("failed to load dashboard stats", logger.Error(err))
		return c.Send(messages["failed"])
	}
	return c.Send(fmt.Sprintf(messages["stats"],
		stats.TotalDrivers, stats.ActiveDriversPercent,
		stats.TotalApplications, stats.PendingAppsPercent,
		stats.TotalEvaluations, stats.AverageRating,
		stats.TotalRentals,
	))
}

func (b *Bot) applicationDecision(to models.ApplicationStatus) tele.HandlerFunc {
	done := "app_approved"
	if to == models.ApplicationRejected {
		done = "app_rejected"
	}
	return func(c tele.Context) error {
		who := actor(c)
		_, err := b.Svc.Application().ChangeStatus(context.Background(), c.Data(), to, who)
		if err != nil {
			return b.respondError(c, err, logger.String("application_id", c.Data()))
		}
		return b.finish(c, fmt.Sprintf(messages[done], who))
	}
}

func (b *Bot) driverDecision(to models.DriverStatus) tele.HandlerFunc {
	done := "driver_approved"
	if to == models.DriverInactive {
		done = "driver_rejected"
	}
	return func(c tele.Context) error {
		who := actor(c)
		_, err := b.Svc.Driver().ChangeStatus(context.Background(), c.Data(), to, who)
		if err != nil {
			return b.respondError(c, err, logger.String("driver_id", c.Data()))
		}
		return b.finish(c, fmt.Sprintf(messages[done], who))
	}
}

// finish appends the outcome to the notification and drops its buttons.
func (b *Bot) finish(c tele.Context, outcome string) error {
	text := outcome
	if msg := c.Message(); msg != nil && msg.Text != "" {
		text = msg.Text + "\n\n" + outcome
	}
	if err := c.Edit(text); err != nil {
		b.Log.Warning("failed to edit review message", logger.Error(err))
	}
	return c.Respond(&tele.CallbackResponse{Text: outcome})
}

func (b *Bot) respondError(c tele.Context, err error, subject logger.Field) error {
	text := messages["failed"]
	switch {
	case errors.Is(err, storage.ErrNotFound):
		text = messages["not_found"]
	case errors.Is(err, models.ErrInvalidTransition):
		text = messages["bad_transition"]
	default:
		b.Log.Error("review decision failed", subject, logger.Error(err))
	}
	return c.Respond(&tele.CallbackResponse{Text: text, ShowAlert: true})
}

func actor(c tele.Context) string {
	s := c.Sender()
	if s == nil {
		return "telegram"
	}
	if s.Username != "" {
		return "telegram:@" + s.Username
	}
	return fmt.Sprintf("telegram:%d", s.ID)
}
