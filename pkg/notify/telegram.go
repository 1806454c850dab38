package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	tele "gopkg.in/telebot.v3"

	"taxifrota/pkg/logger"
	"taxifrota/pkg/models"
	"taxifrota/pkg/validation"
)

// Sender is the part of *tele.Bot the notifier needs.
type Sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

type Telegram struct {
	sender  Sender
	chatIDs []int64
	log     logger.ILogger
}

func NewTelegram(sender Sender, chatIDs []int64, log logger.ILogger) *Telegram {
	return &Telegram{sender: sender, chatIDs: chatIDs, log: log}
}

func ApplicationMessage(app *models.Application) string {
	var sb strings.Builder
	sb.WriteString("🔔 <b>NOVA SOLICITAÇÃO DE CADASTRO</b>\n\n")
	fmt.Fprintf(&sb, "👤 %s\n", html.EscapeString(app.FullName))
	fmt.Fprintf(&sb, "🪪 CPF: %s\n", validation.FormatCPF(app.CPF))
	fmt.Fprintf(&sb, "📞 %s\n", validation.FormatPhone(app.Phone))
	if app.Email != "" {
		fmt.Fprintf(&sb, "✉️ %s\n", html.EscapeString(app.Email))
	}
	if app.Condutax != "" {
		fmt.Fprintf(&sb, "🚕 Condutax: %s\n", html.EscapeString(app.Condutax))
	}
	if app.Rating > 0 {
		fmt.Fprintf(&sb, "⭐ %d/5\n", app.Rating)
	}
	return sb.String()
}

func DriverMessage(d *models.Driver) string {
	var sb strings.Builder
	sb.WriteString("🔔 <b>NOVO MOTORISTA CADASTRADO</b>\n\n")
	fmt.Fprintf(&sb, "👤 %s\n", html.EscapeString(d.FullName()))
	fmt.Fprintf(&sb, "📞 %s\n", validation.FormatPhone(d.Phone))
	if d.Vehicle != nil {
		fmt.Fprintf(&sb, "🚗 %s (%s)\n", html.EscapeString(d.Vehicle.Model), html.EscapeString(d.Vehicle.Plate))
	}
	return sb.String()
}

func ReviewMarkup(approveUnique, rejectUnique, id string) *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(menu.Row(
		menu.Data("✅ Aprovar", approveUnique, id),
		menu.Data("❌ Reprovar", rejectUnique, id),
	))
	return menu
}

func (t *Telegram) NewApplication(ctx context.Context, app *models.Application) {
	t.broadcast(ApplicationMessage(app),
		ReviewMarkup(UniqueApproveApplication, UniqueRejectApplication, app.ID),
		logger.String("application_id", app.ID))
}

func (t *Telegram) NewDriver(ctx context.Context, d *models.Driver) {
	t.broadcast(DriverMessage(d),
		ReviewMarkup(UniqueApproveDriver, UniqueRejectDriver, d.ID),
		logger.String("driver_id", d.ID))
}

func (t *Telegram) broadcast(msg string, menu *tele.ReplyMarkup, subject logger.Field) {
	sent := 0
	for _, id := range t.chatIDs {
		if _, err := t.sender.Send(tele.ChatID(id), msg, menu, tele.ModeHTML); err != nil {
			t.log.Error("failed to notify admin", logger.Int64("chat_id", id), subject, logger.Error(err))
			continue
		}
		sent++
	}
	t.log.Info("admin notifications sent", subject, logger.Int("sent_count", sent))
}
