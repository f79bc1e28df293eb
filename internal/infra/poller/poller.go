package poller

import (
	"fmt"

	"github.com/IT-Nick/assessment-bot/internal/infra/config"
	"gopkg.in/telebot.v4"
)

// New создаёт Poller в зависимости от режима работы бота
func New(cfg *config.Config) (telebot.Poller, error) {
	bot := cfg.TelegramBot
	switch bot.Mode {
	case config.ModeWebhook:
		if bot.WebhookURL == "" {
			return nil, fmt.Errorf("webhook_url must be set in webhook mode")
		}
		return &telebot.Webhook{
			Listen: bot.ListenAddr,
			Endpoint: &telebot.WebhookEndpoint{
				PublicURL: bot.WebhookURL,
			},
		}, nil
	case config.ModePolling, "":
		return &telebot.LongPoller{Timeout: bot.PollTimeout}, nil
	default:
		return nil, fmt.Errorf("unknown bot mode %q", bot.Mode)
	}
}
