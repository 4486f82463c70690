// Package telegram handles the integration with the Telegram Bot API:
// pushing status changes to citizens and answering status queries.
package telegram

import (
	"context"
	"log"

	"smartalert/backend/internal/localization"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// BotService receives Telegram updates and answers commands.
type BotService struct {
	BotAPI    *tgbotapi.BotAPI
	Bot       Sender
	Storage   StatusStorage
	Localizer *localization.Localizer
}

// NewBotService creates a new BotService instance.
func NewBotService(token string, s StatusStorage, loc *localization.Localizer) (*BotService, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	bot.Debug = false
	log.Printf("✅ Authorized on account %s", bot.Self.UserName)

	return &BotService{
		BotAPI:    bot,
		Bot:       bot,
		Storage:   s,
		Localizer: loc,
	}, nil
}

// Run is the main loop for receiving Telegram updates. It returns when ctx is cancelled.
func (s *BotService) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := s.BotAPI.GetUpdatesChan(u)

	go func() {
		<-ctx.Done()
		s.BotAPI.StopReceivingUpdates()
	}()

	for update := range updates {
		s.HandleUpdate(ctx, update)
	}
}

// HandleUpdate dispatches one update. Non-command messages get the help text.
func (s *BotService) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil {
		return
	}

	if !msg.IsCommand() {
		reply(s.Bot, msg.Chat.ID, s.Localizer.GetString("en", "bot.unknown_command"))
		return
	}

	switch msg.Command() {
	case "start":
		reply(s.Bot, msg.Chat.ID, s.Localizer.Format("en", "bot.welcome", msg.Chat.ID))
	case "status":
		HandleStatusCommand(ctx, &update, s.Storage, s.Localizer, s.Bot)
	default:
		reply(s.Bot, msg.Chat.ID, s.Localizer.GetString("en", "bot.unknown_command"))
	}
}
