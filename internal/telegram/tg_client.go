package telegram

import (
	"context"
	"fmt"

	"smartalert/backend/internal/localization"
	"smartalert/backend/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender is the part of *tgbotapi.BotAPI used to deliver messages.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier pushes complaint status changes to reporters over Telegram.
type Notifier struct {
	Bot       Sender
	Localizer *localization.Localizer
}

func NewNotifier(bot Sender, loc *localization.Localizer) *Notifier {
	return &Notifier{Bot: bot, Localizer: loc}
}

// NotifyStatusChange надсилає громадянину повідомлення про новий статус скарги.
func (n *Notifier) NotifyStatusChange(ctx context.Context, user *models.User, c *models.Complaint) error {
	if user.TelegramChatID == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	text := n.Localizer.Format(user.Language, "notify.status_changed", c.Title, c.ID, c.Status)
	if _, err := n.Bot.Send(tgbotapi.NewMessage(user.TelegramChatID, text)); err != nil {
		return fmt.Errorf("send telegram message to %d: %w", user.TelegramChatID, err)
	}
	return nil
}
