package poller

import (
	"testing"
	"time"

	"github.com/IT-Nick/assessment-bot/internal/infra/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/telebot.v4"
)

func TestNewLongPoller(t *testing.T) {
	cfg := &config.Config{}
	cfg.TelegramBot.Mode = config.ModePolling
	cfg.TelegramBot.PollTimeout = 10 * time.Second

	p, err := New(cfg)
	require.NoError(t, err)
	lp, ok := p.(*telebot.LongPoller)
	require.True(t, ok)
	assert.Equal(t, 10*time.Second, lp.Timeout)
}

func TestNewWebhook(t *testing.T) {
	cfg := &config.Config{}
	cfg.TelegramBot.Mode = config.ModeWebhook
	cfg.TelegramBot.ListenAddr = ":8443"

	_, err := New(cfg)
	require.Error(t, err)

	cfg.TelegramBot.WebhookURL = "https://bot.example.com/hook"
	p, err := New(cfg)
	require.NoError(t, err)
	wh, ok := p.(*telebot.Webhook)
	require.True(t, ok)
	assert.Equal(t, ":8443", wh.Listen)
	assert.Equal(t, "https://bot.example.com/hook", wh.Endpoint.PublicURL)
}
