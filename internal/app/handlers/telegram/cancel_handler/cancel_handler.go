package cancel_handler

import (
	"github.com/IT-Nick/assessment-bot/internal/app/handlers/telegram/reply"
	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v4"
)

// Sessions отмена текущей сессии
type Sessions interface {
	Cancel(userID int64) bool
}

// CancelHandler обработчик /cancel
type CancelHandler struct {
	sessions Sessions
	texts    reply.Texts
	log      logrus.FieldLogger
}

func NewCancelHandler(sessions Sessions, texts reply.Texts, log logrus.FieldLogger) *CancelHandler {
	return &CancelHandler{sessions: sessions, texts: texts, log: log}
}

// Handle отменяет тест. Ответ одинаковый, даже если теста не было.
func (h *CancelHandler) Handle(c telebot.Context) error {
	if h.sessions.Cancel(c.Sender().ID) {
		h.log.WithField("user_id", c.Sender().ID).Debug("session cancelled")
	}
	return c.Send(h.texts.Get("cancel"), &telebot.SendOptions{
		ReplyMarkup: &telebot.ReplyMarkup{RemoveKeyboard: true},
	})
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *CancelHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
