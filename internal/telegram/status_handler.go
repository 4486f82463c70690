package telegram

import (
	"context"
	"errors"
	"log"
	"strings"

	"smartalert/backend/internal/localization"
	"smartalert/backend/internal/models"
	"smartalert/backend/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// StatusStorage defines the storage methods required by the /status command.
type StatusStorage interface {
	GetUserByTelegramID(ctx context.Context, chatID int64) (*models.User, error)
	GetComplaint(ctx context.Context, id string) (*models.Complaint, error)
}

// HandleStatusCommand answers "/status <complaint id>". Citizens only see
// their own complaints; authorities see any.
func HandleStatusCommand(ctx context.Context, update *tgbotapi.Update, s StatusStorage, loc *localization.Localizer, bot Sender) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	lang := "en"
	user, err := s.GetUserByTelegramID(ctx, chatID)
	switch {
	case err == nil:
		lang = user.Language
	case !errors.Is(err, storage.ErrNotFound):
		log.Printf("Error retrieving user for status command: %v", err)
		reply(bot, chatID, loc.GetString(lang, "bot.error"))
		return
	}

	id := strings.TrimSpace(update.Message.CommandArguments())
	if id == "" {
		reply(bot, chatID, loc.GetString(lang, "bot.status_usage"))
		return
	}

	c, err := s.GetComplaint(ctx, id)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		log.Printf("Error retrieving complaint %s for status command: %v", id, err)
		reply(bot, chatID, loc.GetString(lang, "bot.error"))
		return
	}
	if err != nil || !canSee(user, c) {
		reply(bot, chatID, loc.Format(lang, "bot.not_found", id))
		return
	}

	reply(bot, chatID, loc.Format(lang, "bot.status", c.ID, c.Title, c.Status))
}

func canSee(user *models.User, c *models.Complaint) bool {
	if user == nil {
		return false
	}
	return user.Role == models.RoleAuthority || c.SubmittedBy.UserID == user.ID
}

func reply(bot Sender, chatID int64, text string) {
	if _, err := bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Printf("Error sending reply to %d: %v", chatID, err)
	}
}
